package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipos de pago. reembolso resta del total cobrado.
const (
	PagoAbono     = "abono"
	PagoCompleto  = "pago_completo"
	PagoReembolso = "reembolso"
)

// Estados de revisión. aprobado y rechazado son terminales.
const (
	RevisionPendiente = "en_revision"
	RevisionAprobado  = "aprobado"
	RevisionRechazado = "rechazado"
)

// Pago is a money movement against an Evento.
// Origen: "web" | "whatsapp" | "desktop"
// Metodo: "efectivo" | "transferencia" | "tarjeta" | "deposito" | "otro"
// Once aprobado the amount and tipo are frozen; the repository only exposes
// the guarded review transition as an update path.
type Pago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EventoID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tipo       string          `gorm:"type:varchar(20);not null"`
	Metodo     string          `gorm:"type:varchar(20);not null"`
	Fecha      time.Time       `gorm:"not null"`
	Referencia *string         `gorm:"type:varchar(120)"`
	Nota       *string
	Origen     string `gorm:"type:varchar(20);not null;default:'web'"`

	EstadoRevision string `gorm:"type:varchar(20);not null;default:'en_revision';index"`
	// CuentaLiquidacion is mandatory once aprobado.
	CuentaLiquidacion *string    `gorm:"type:varchar(64)"`
	RevisadoPor       *uuid.UUID `gorm:"type:uuid"`
	RevisadoAt        *time.Time
	MotivoRechazo     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Pago) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EsCobro reports whether the record adds to the collected total.
func (p *Pago) EsCobro() bool {
	return p.Tipo == PagoAbono || p.Tipo == PagoCompleto
}
