// Package ledger holds the event financial ledger rules: totals derived from
// payment records, payment classification, the refund guard, the review state
// machine, the damage sub-ledger and the lifecycle gate. Everything here is
// pure; persistence and transactions live in the service layer.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports a malformed or out-of-range input.
type ValidationError struct {
	Campo  string
	Motivo string
}

func (e *ValidationError) Error() string {
	if e.Campo == "" {
		return e.Motivo
	}
	return fmt.Sprintf("%s: %s", e.Campo, e.Motivo)
}

// InvalidStateError reports a transition attempted from the wrong state.
type InvalidStateError struct {
	Entidad string
	Estado  string
	Motivo  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s en estado %q: %s", e.Entidad, e.Estado, e.Motivo)
}

// InsufficientBalanceError reports an amount above the available balance.
type InsufficientBalanceError struct {
	Concepto   string
	Solicitado decimal.Decimal
	Disponible decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s excede el saldo disponible de $%s (solicitado $%s)",
		e.Concepto, e.Disponible.StringFixed(2), e.Solicitado.StringFixed(2))
}

// PreconditionFailedError reports a balance gate that is not satisfied.
type PreconditionFailedError struct {
	Operacion string
	Motivo    string
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("no se puede %s: %s", e.Operacion, e.Motivo)
}

// NotFoundError reports a missing event or record.
type NotFoundError struct {
	Entidad string
	ID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entidad, e.ID)
}

func invalido(campo, motivo string) error {
	return &ValidationError{Campo: campo, Motivo: motivo}
}
