package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados de un evento. completado y cancelado son terminales.
const (
	EventoCotizacion = "cotizacion"
	EventoConfirmado = "confirmado"
	EventoEnProceso  = "en_proceso"
	EventoCompletado = "completado"
	EventoCancelado  = "cancelado"
)

// Evento is a booked venue/catering event. Its Pagos form the main ledger;
// the Danos* fields form an independent damage sub-ledger.
type Evento struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre        string          `gorm:"not null"`
	ClienteNombre string          `gorm:"not null"`
	ClienteEmail  *string         `gorm:"type:varchar(255)"`
	FechaEvento   time.Time       `gorm:"not null"`
	PlanID        *string         `gorm:"type:varchar(64)"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'cotizacion';index"`

	// Damage sub-ledger
	DescripcionDanos *string
	CostoDanos       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoPagadoDanos decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CobrarDanos      bool            `gorm:"not null;default:false"`
	DanosPagados     bool            `gorm:"not null;default:false"`
	FechaPagoDanos   *time.Time
	MetodoPagoDanos  *string `gorm:"type:varchar(20)"`

	CompletadoAt *time.Time
	// Version is bumped on every write to the evento row (optimistic lock).
	Version   int `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Pagos     []Pago           `gorm:"foreignKey:EventoID"`
	Servicios []ServicioEvento `gorm:"foreignKey:EventoID"`
}

func (e *Evento) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Terminal reports whether the event accepts no further main-ledger mutation.
func (e *Evento) Terminal() bool {
	return e.Estado == EventoCompletado || e.Estado == EventoCancelado
}

// PagoDanos is one client payment applied to the damage sub-ledger.
// Entries are never modified or deleted.
type PagoDanos struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EventoID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Metodo    string          `gorm:"type:varchar(20);not null"`
	Nota      *string
	CreatedAt time.Time
}

func (PagoDanos) TableName() string { return "pagos_danos" }

func (p *PagoDanos) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
