package repository

import (
	"context"

	"gestoreventos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PagoRepository has no generic Update: records are created en_revision and
// the review transition is the only write path afterwards.
type PagoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	ListByEvento(ctx context.Context, eventoID uuid.UUID, estadoRevision string) ([]model.Pago, error)
	// TransicionarRevision persists a review decision only if the stored row
	// is still en_revision. Returns ErrConflicto otherwise.
	TransicionarRevision(ctx context.Context, tx *gorm.DB, p *model.Pago) error
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pago) error {
	return conn(ctx, r.db, tx).Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pagoRepo) ListByEvento(ctx context.Context, eventoID uuid.UUID, estadoRevision string) ([]model.Pago, error) {
	var pagos []model.Pago
	q := r.db.WithContext(ctx).Where("evento_id = ?", eventoID)
	if estadoRevision != "" {
		q = q.Where("estado_revision = ?", estadoRevision)
	}
	err := q.Order("fecha ASC, created_at ASC").Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) TransicionarRevision(ctx context.Context, tx *gorm.DB, p *model.Pago) error {
	res := conn(ctx, r.db, tx).Model(&model.Pago{}).
		Where("id = ? AND estado_revision = ?", p.ID, model.RevisionPendiente).
		Updates(map[string]interface{}{
			"estado_revision":    p.EstadoRevision,
			"cuenta_liquidacion": p.CuentaLiquidacion,
			"revisado_por":       p.RevisadoPor,
			"revisado_at":        p.RevisadoAt,
			"motivo_rechazo":     p.MotivoRechazo,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflicto
	}
	return nil
}
