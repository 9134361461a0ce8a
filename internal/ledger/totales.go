package ledger

import (
	"gestoreventos/internal/model"

	"github.com/shopspring/decimal"
)

// Totales is the derived state of an event's main ledger. It is never stored;
// callers recompute it from the full record set after every mutation.
type Totales struct {
	TotalCobrado       decimal.Decimal `json:"total_cobrado"`
	TotalReembolsos    decimal.Decimal `json:"total_reembolsos"`
	TotalPagado        decimal.Decimal `json:"total_pagado"`
	SaldoPendiente     decimal.Decimal `json:"saldo_pendiente"`
	SaldoPorReembolsar decimal.Decimal `json:"saldo_por_reembolsar"`
}

// CalcularTotales sums the aprobado records of an event. Records en_revision or
// rechazado are ignored. The result does not depend on slice order.
func CalcularTotales(pagos []model.Pago) (cobrado, reembolsos decimal.Decimal) {
	cobrado, reembolsos = decimal.Zero, decimal.Zero
	for i := range pagos {
		p := &pagos[i]
		if p.EstadoRevision != model.RevisionAprobado {
			continue
		}
		switch {
		case p.EsCobro():
			cobrado = cobrado.Add(p.Monto)
		case p.Tipo == model.PagoReembolso:
			reembolsos = reembolsos.Add(p.Monto)
		}
	}
	return cobrado, reembolsos
}

// Resumir derives every balance of the event from its total and records.
// SaldoPorReembolsar is approved collections minus approved refunds: a refund
// never exceeds what was actually collected and not yet returned.
func Resumir(total decimal.Decimal, pagos []model.Pago) Totales {
	cobrado, reembolsos := CalcularTotales(pagos)
	pagado := cobrado.Sub(reembolsos)
	return Totales{
		TotalCobrado:       cobrado,
		TotalReembolsos:    reembolsos,
		TotalPagado:        pagado,
		SaldoPendiente:     noNegativo(total.Sub(pagado)),
		SaldoPorReembolsar: noNegativo(cobrado.Sub(reembolsos)),
	}
}

func noNegativo(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
