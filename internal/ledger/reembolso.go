package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropuestaReembolso is the first phase of a refund. It is not persisted and
// holds nothing against the balance; the confirmation re-validates it.
type PropuestaReembolso struct {
	EventoID   uuid.UUID       `json:"evento_id"`
	Monto      decimal.Decimal `json:"monto"`
	Metodo     string          `json:"metodo"`
	Referencia *string         `json:"referencia,omitempty"`
	Nota       *string         `json:"nota,omitempty"`
	// SaldoPorReembolsar is the refundable balance seen at proposal time,
	// informational only.
	SaldoPorReembolsar decimal.Decimal `json:"saldo_por_reembolsar"`
	PropuestaAt        time.Time       `json:"propuesta_at"`
}

// ValidarReembolso accepts a refund only within the refundable balance.
func ValidarReembolso(monto, saldoPorReembolsar decimal.Decimal) error {
	if err := ValidarMonto("monto", monto, true); err != nil {
		return err
	}
	if monto.GreaterThan(saldoPorReembolsar) {
		return &InsufficientBalanceError{
			Concepto:   "el reembolso",
			Solicitado: monto,
			Disponible: saldoPorReembolsar,
		}
	}
	return nil
}

// Proponer validates a refund against the current totals and returns the
// proposal to be confirmed later.
func Proponer(eventoID uuid.UUID, monto decimal.Decimal, metodo string, t Totales, now time.Time) (*PropuestaReembolso, error) {
	if err := ValidarReembolso(monto, t.SaldoPorReembolsar); err != nil {
		return nil, err
	}
	return &PropuestaReembolso{
		EventoID:           eventoID,
		Monto:              monto,
		Metodo:             metodo,
		SaldoPorReembolsar: t.SaldoPorReembolsar,
		PropuestaAt:        now,
	}, nil
}
