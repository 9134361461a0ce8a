package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEventoRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=3"`
	ClienteNombre string          `json:"cliente_nombre" validate:"required"`
	ClienteEmail  *string         `json:"cliente_email"  validate:"omitempty,email"`
	FechaEvento   time.Time       `json:"fecha_evento"   validate:"required"`
	PlanID        *string         `json:"plan_id"`
	Total         decimal.Decimal `json:"total"          validate:"min=0"`
}

type ActualizarTotalRequest struct {
	Total decimal.Decimal `json:"total" validate:"min=0"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=cotizacion confirmado en_proceso cancelado"`
}

// DanosRequest is the optional damage declaration sent with completion.
type DanosRequest struct {
	Descripcion   string          `json:"descripcion_danos"`
	Costo         decimal.Decimal `json:"costo_danos"   validate:"min=0"`
	CobrarCliente bool            `json:"cobrar_danos"`
}

type CompletarEventoRequest struct {
	Danos *DanosRequest `json:"danos"`
}

type PagoDanosRequest struct {
	Monto  decimal.Decimal `json:"monto"  validate:"required,gt=0"`
	Metodo string          `json:"metodo" validate:"required,oneof=efectivo transferencia tarjeta deposito otro"`
	Nota   *string         `json:"nota"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TotalesResponse struct {
	Total              decimal.Decimal `json:"total"`
	TotalCobrado       decimal.Decimal `json:"total_cobrado"`
	TotalReembolsos    decimal.Decimal `json:"total_reembolsos"`
	TotalPagado        decimal.Decimal `json:"total_pagado"`
	SaldoPendiente     decimal.Decimal `json:"saldo_pendiente"`
	SaldoPorReembolsar decimal.Decimal `json:"saldo_por_reembolsar"`
}

type DanosResponse struct {
	Descripcion      *string         `json:"descripcion_danos"`
	CostoDanos       decimal.Decimal `json:"costo_danos"`
	MontoPagadoDanos decimal.Decimal `json:"monto_pagado_danos"`
	SaldoDanos       decimal.Decimal `json:"saldo_danos"`
	CobrarDanos      bool            `json:"cobrar_danos"`
	DanosPagados     bool            `json:"danos_pagados"`
	FechaPagoDanos   *string         `json:"fecha_pago_danos"`
	MetodoPagoDanos  *string         `json:"metodo_pago_danos"`
}

type EventoResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	ClienteNombre string          `json:"cliente_nombre"`
	ClienteEmail  *string         `json:"cliente_email"`
	FechaEvento   string          `json:"fecha_evento"`
	PlanID        *string         `json:"plan_id"`
	Total         decimal.Decimal `json:"total"`
	Estado        string          `json:"estado"`
	Danos         DanosResponse   `json:"danos"`
	CompletadoAt  *string         `json:"completado_at"`
	CreatedAt     string          `json:"created_at"`
}

// ResumenFinancieroResponse is the single source of truth for how much an
// event has collected and what the lifecycle gate currently allows.
type ResumenFinancieroResponse struct {
	EventoID        string          `json:"evento_id"`
	Estado          string          `json:"estado"`
	Totales         TotalesResponse `json:"totales"`
	PagosEnRevision int             `json:"pagos_en_revision"`
	PuedeCompletar  bool            `json:"puede_completar"`
	PuedeEliminar   bool            `json:"puede_eliminar"`
	Danos           DanosResponse   `json:"danos"`
}

type PagoDanosResponse struct {
	ID        string          `json:"id"`
	Monto     decimal.Decimal `json:"monto"`
	Metodo    string          `json:"metodo"`
	Nota      *string         `json:"nota"`
	CreatedAt string          `json:"created_at"`
}

// PagoDanosResultado returns the new entry with the damage balance after it.
type PagoDanosResultado struct {
	Pago  PagoDanosResponse `json:"pago"`
	Danos DanosResponse     `json:"danos"`
}
