package repository

import (
	"context"

	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComboRepository interface {
	Create(ctx context.Context, c *model.Combo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Combo, error)
	List(ctx context.Context, soloActivos bool) ([]model.Combo, error)
	Update(ctx context.Context, c *model.Combo) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type comboRepo struct{ db *gorm.DB }

func NewComboRepository(db *gorm.DB) ComboRepository { return &comboRepo{db: db} }

func (r *comboRepo) Create(ctx context.Context, c *model.Combo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *comboRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Combo, error) {
	var c model.Combo
	err := r.db.WithContext(ctx).Preload("Componentes.Producto").First(&c, id).Error
	return &c, err
}

func (r *comboRepo) List(ctx context.Context, soloActivos bool) ([]model.Combo, error) {
	var combos []model.Combo
	q := r.db.WithContext(ctx).Preload("Componentes.Producto")
	if soloActivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&combos).Error
	return combos, err
}

func (r *comboRepo) Update(ctx context.Context, c *model.Combo) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *comboRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Combo{}).Where("id = ?", id).Update("activo", false).Error
}
