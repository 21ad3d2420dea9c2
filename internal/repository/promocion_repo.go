package repository

import (
	"context"

	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromocionRepository interface {
	Create(ctx context.Context, p *model.Promocion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Promocion, error)
	// ListActivas returns the active promotions keyed by product, used by the
	// composition engine to price a cart in one pass.
	ListActivas(ctx context.Context) ([]model.Promocion, error)
	List(ctx context.Context) ([]model.Promocion, error)
	Update(ctx context.Context, p *model.Promocion) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type promocionRepo struct{ db *gorm.DB }

func NewPromocionRepository(db *gorm.DB) PromocionRepository { return &promocionRepo{db: db} }

func (r *promocionRepo) Create(ctx context.Context, p *model.Promocion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *promocionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Promocion, error) {
	var p model.Promocion
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *promocionRepo) ListActivas(ctx context.Context) ([]model.Promocion, error) {
	var promos []model.Promocion
	err := r.db.WithContext(ctx).Where("activa = true").Find(&promos).Error
	return promos, err
}

func (r *promocionRepo) List(ctx context.Context) ([]model.Promocion, error) {
	var promos []model.Promocion
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&promos).Error
	return promos, err
}

func (r *promocionRepo) Update(ctx context.Context, p *model.Promocion) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *promocionRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Promocion{}).Where("id = ?", id).Update("activa", false).Error
}
