package repository

import (
	"context"

	"gestoreventos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventoRepository interface {
	Create(ctx context.Context, e *model.Evento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Evento, error)
	// Save writes every column of e guarded by its version and bumps it.
	// Returns ErrConflicto when the row changed since it was read.
	Save(ctx context.Context, tx *gorm.DB, e *model.Evento) error
	// Touch only bumps the version, serializing ledger writers of one event.
	Touch(ctx context.Context, tx *gorm.DB, e *model.Evento) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CreatePagoDanos(ctx context.Context, tx *gorm.DB, p *model.PagoDanos) error
	ListPagosDanos(ctx context.Context, eventoID uuid.UUID) ([]model.PagoDanos, error)
	DB() *gorm.DB
}

type eventoRepo struct{ db *gorm.DB }

func NewEventoRepository(db *gorm.DB) EventoRepository { return &eventoRepo{db: db} }

func (r *eventoRepo) DB() *gorm.DB { return r.db }

func (r *eventoRepo) Create(ctx context.Context, e *model.Evento) error {
	if e.Version == 0 {
		e.Version = 1
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *eventoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Evento, error) {
	var e model.Evento
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventoRepo) Save(ctx context.Context, tx *gorm.DB, e *model.Evento) error {
	expected := e.Version
	e.Version++
	res := conn(ctx, r.db, tx).Model(e).
		Where("version = ?", expected).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(e)
	if res.Error != nil {
		e.Version = expected
		return res.Error
	}
	if res.RowsAffected == 0 {
		e.Version = expected
		return ErrConflicto
	}
	return nil
}

func (r *eventoRepo) Touch(ctx context.Context, tx *gorm.DB, e *model.Evento) error {
	res := conn(ctx, r.db, tx).Model(&model.Evento{}).
		Where("id = ? AND version = ?", e.ID, e.Version).
		Update("version", e.Version+1)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflicto
	}
	e.Version++
	return nil
}

// Delete removes the event with its ledger and checklist rows.
func (r *eventoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(ctx, r.db, tx)
	if err := db.Where("evento_id = ?", id).Delete(&model.Pago{}).Error; err != nil {
		return err
	}
	if err := db.Where("evento_id = ?", id).Delete(&model.PagoDanos{}).Error; err != nil {
		return err
	}
	if err := db.Where("evento_id = ?", id).Delete(&model.ServicioEvento{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Evento{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventoRepo) CreatePagoDanos(ctx context.Context, tx *gorm.DB, p *model.PagoDanos) error {
	return conn(ctx, r.db, tx).Create(p).Error
}

func (r *eventoRepo) ListPagosDanos(ctx context.Context, eventoID uuid.UUID) ([]model.PagoDanos, error) {
	var pagos []model.PagoDanos
	err := r.db.WithContext(ctx).Where("evento_id = ?", eventoID).Order("created_at ASC").Find(&pagos).Error
	return pagos, err
}
