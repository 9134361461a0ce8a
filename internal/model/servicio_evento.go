package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Origen de un item del checklist.
const (
	ServicioPlan          = "plan"
	ServicioPersonalizado = "personalizado"
)

// ServicioEvento is one checklist item of an event. Plan-derived items are
// discarded instead of deleted; custom items can be deleted outright.
type ServicioEvento struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventoID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Nombre     string    `gorm:"not null"`
	Completado bool      `gorm:"not null;default:false"`
	Descartado bool      `gorm:"not null;default:false"`
	Origen     string    `gorm:"type:varchar(20);not null"`
	Orden      int       `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ServicioEvento) TableName() string { return "servicios_evento" }

func (s *ServicioEvento) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
