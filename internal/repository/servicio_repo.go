package repository

import (
	"context"

	"gestoreventos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServicioRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, items []model.ServicioEvento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServicioEvento, error)
	ListByEvento(ctx context.Context, eventoID uuid.UUID) ([]model.ServicioEvento, error)
	Update(ctx context.Context, tx *gorm.DB, s *model.ServicioEvento) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type servicioRepo struct{ db *gorm.DB }

func NewServicioRepository(db *gorm.DB) ServicioRepository { return &servicioRepo{db: db} }

func (r *servicioRepo) CreateBatch(ctx context.Context, tx *gorm.DB, items []model.ServicioEvento) error {
	if len(items) == 0 {
		return nil
	}
	return conn(ctx, r.db, tx).Create(&items).Error
}

func (r *servicioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ServicioEvento, error) {
	var s model.ServicioEvento
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *servicioRepo) ListByEvento(ctx context.Context, eventoID uuid.UUID) ([]model.ServicioEvento, error) {
	var items []model.ServicioEvento
	err := r.db.WithContext(ctx).Where("evento_id = ?", eventoID).Order("orden ASC, created_at ASC").Find(&items).Error
	return items, err
}

func (r *servicioRepo) Update(ctx context.Context, tx *gorm.DB, s *model.ServicioEvento) error {
	res := conn(ctx, r.db, tx).Model(s).Updates(map[string]interface{}{
		"nombre":     s.Nombre,
		"completado": s.Completado,
		"descartado": s.Descartado,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *servicioRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(ctx, r.db, tx).Delete(&model.ServicioEvento{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
