package ledger

import (
	"fmt"

	"gestoreventos/internal/model"
)

// orden of the forward path. cancelado sits outside it.
var orden = map[string]int{
	model.EventoCotizacion: 0,
	model.EventoConfirmado: 1,
	model.EventoEnProceso:  2,
	model.EventoCompletado: 3,
}

// EstadoValido reports whether s is a known event status.
func EstadoValido(s string) bool {
	_, ok := orden[s]
	return ok || s == model.EventoCancelado
}

// ValidarTransicion checks a manual status change. completado is reached only
// through Completar, so it is refused here.
func ValidarTransicion(desde, hacia string) error {
	if !EstadoValido(hacia) {
		return invalido("estado", fmt.Sprintf("estado desconocido %q", hacia))
	}
	if desde == model.EventoCompletado || desde == model.EventoCancelado {
		return &InvalidStateError{Entidad: "evento", Estado: desde, Motivo: "el evento está cerrado"}
	}
	if hacia == model.EventoCompletado {
		return &InvalidStateError{Entidad: "evento", Estado: desde, Motivo: "use la operación de completar evento"}
	}
	if hacia == model.EventoCancelado {
		return nil
	}
	if orden[hacia] <= orden[desde] {
		return &InvalidStateError{Entidad: "evento", Estado: desde, Motivo: fmt.Sprintf("no se puede volver a %q", hacia)}
	}
	return nil
}

// PuedeCompletar returns nil when the event may be marked completado.
func PuedeCompletar(e *model.Evento, t Totales) error {
	if e.Estado != model.EventoConfirmado && e.Estado != model.EventoEnProceso {
		return &InvalidStateError{Entidad: "evento", Estado: e.Estado, Motivo: "solo se completan eventos confirmados o en proceso"}
	}
	if t.SaldoPendiente.IsPositive() {
		return &PreconditionFailedError{
			Operacion: "completar el evento",
			Motivo:    fmt.Sprintf("tiene un saldo pendiente de $%s", t.SaldoPendiente.StringFixed(2)),
		}
	}
	return nil
}

// PuedeEliminar returns nil when no approved collection is left unrefunded.
func PuedeEliminar(t Totales) error {
	if t.SaldoPorReembolsar.IsPositive() {
		return &PreconditionFailedError{
			Operacion: "eliminar el evento",
			Motivo:    fmt.Sprintf("quedan $%s cobrados sin reembolsar", t.SaldoPorReembolsar.StringFixed(2)),
		}
	}
	return nil
}

// ExigirLedgerAbierto refuses main-ledger mutations on closed events.
// Refunds stay possible on cancelled events so the money can be returned
// before deletion.
func ExigirLedgerAbierto(e *model.Evento, reembolso bool) error {
	switch {
	case e.Estado == model.EventoCompletado:
		return &InvalidStateError{Entidad: "evento", Estado: e.Estado, Motivo: "el evento está completado"}
	case e.Estado == model.EventoCancelado && !reembolso:
		return &InvalidStateError{Entidad: "evento", Estado: e.Estado, Motivo: "el evento está cancelado"}
	}
	return nil
}
