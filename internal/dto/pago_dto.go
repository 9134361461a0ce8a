package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarPagoRequest struct {
	Monto      decimal.Decimal `json:"monto"      validate:"required,gt=0"`
	Metodo     string          `json:"metodo"     validate:"required,oneof=efectivo transferencia tarjeta deposito otro"`
	Fecha      *time.Time      `json:"fecha"`
	Referencia *string         `json:"referencia" validate:"omitempty,max=120"`
	Nota       *string         `json:"nota"`
	Origen     string          `json:"origen"     validate:"omitempty,oneof=web whatsapp desktop"`
}

type ProponerReembolsoRequest struct {
	Monto      decimal.Decimal `json:"monto"      validate:"required,gt=0"`
	Metodo     string          `json:"metodo"     validate:"required,oneof=efectivo transferencia tarjeta deposito otro"`
	Referencia *string         `json:"referencia" validate:"omitempty,max=120"`
	Nota       *string         `json:"nota"`
}

// ConfirmarReembolsoRequest carries the proposal back unchanged; the server
// re-validates it against the live refundable balance.
type ConfirmarReembolsoRequest struct {
	Monto      decimal.Decimal `json:"monto"      validate:"required,gt=0"`
	Metodo     string          `json:"metodo"     validate:"required,oneof=efectivo transferencia tarjeta deposito otro"`
	Referencia *string         `json:"referencia" validate:"omitempty,max=120"`
	Nota       *string         `json:"nota"`
	Origen     string          `json:"origen"     validate:"omitempty,oneof=web whatsapp desktop"`
}

type AprobarPagoRequest struct {
	CuentaLiquidacion string `json:"cuenta_liquidacion" validate:"required"`
}

type RechazarPagoRequest struct {
	Motivo *string `json:"motivo"`
}

type PagoFilter struct {
	EstadoRevision string `form:"estado_revision"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoResponse struct {
	ID                string          `json:"id"`
	EventoID          string          `json:"evento_id"`
	Monto             decimal.Decimal `json:"monto"`
	Tipo              string          `json:"tipo"`
	Metodo            string          `json:"metodo"`
	Fecha             string          `json:"fecha"`
	Referencia        *string         `json:"referencia"`
	Nota              *string         `json:"nota"`
	Origen            string          `json:"origen"`
	EstadoRevision    string          `json:"estado_revision"`
	CuentaLiquidacion *string         `json:"cuenta_liquidacion"`
	MotivoRechazo     *string         `json:"motivo_rechazo"`
	RevisadoAt        *string         `json:"revisado_at"`
	CreatedAt         string          `json:"created_at"`
}

// MovimientoLedgerResponse returns the affected record together with the
// recomputed totals, so callers never keep stale balances.
type MovimientoLedgerResponse struct {
	Pago    PagoResponse    `json:"pago"`
	Totales TotalesResponse `json:"totales"`
}

type PropuestaReembolsoResponse struct {
	EventoID           string          `json:"evento_id"`
	Monto              decimal.Decimal `json:"monto"`
	Metodo             string          `json:"metodo"`
	Referencia         *string         `json:"referencia"`
	Nota               *string         `json:"nota"`
	SaldoPorReembolsar decimal.Decimal `json:"saldo_por_reembolsar"`
	PropuestaAt        string          `json:"propuesta_at"`
}
