package ledger

import (
	"gestoreventos/internal/model"

	"github.com/shopspring/decimal"
)

// Clasificar labels a collection as pago_completo when it covers the whole
// outstanding balance, abono otherwise. An already settled event only ever
// receives abonos. The label is metadata; totals only look at reembolso vs not.
func Clasificar(monto, saldoPendiente decimal.Decimal) string {
	if saldoPendiente.IsPositive() && monto.GreaterThanOrEqual(saldoPendiente) {
		return model.PagoCompleto
	}
	return model.PagoAbono
}
