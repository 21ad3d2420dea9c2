package repository

import (
	"context"

	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockGeneralRepository interface {
	Create(ctx context.Context, s *model.StockGeneral) error
	CreateTx(tx *gorm.DB, s *model.StockGeneral) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockGeneral, error)
	List(ctx context.Context, categoria string) ([]model.StockGeneral, error)
	Update(ctx context.Context, s *model.StockGeneral) error

	// AjustarCantidad applies a signed delta with the same zero-rows guard
	// used for product stock: never below zero.
	AjustarCantidad(ctx context.Context, id uuid.UUID, delta int) error
	// AjustarCantidadTx is the in-transaction variant, used when the
	// consumption must commit together with product stock movements.
	AjustarCantidadTx(tx *gorm.DB, id uuid.UUID, delta int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type stockGeneralRepo struct{ db *gorm.DB }

func NewStockGeneralRepository(db *gorm.DB) StockGeneralRepository {
	return &stockGeneralRepo{db: db}
}

func (r *stockGeneralRepo) Create(ctx context.Context, s *model.StockGeneral) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *stockGeneralRepo) CreateTx(tx *gorm.DB, s *model.StockGeneral) error {
	return tx.Create(s).Error
}

func (r *stockGeneralRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockGeneral, error) {
	var s model.StockGeneral
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *stockGeneralRepo) List(ctx context.Context, categoria string) ([]model.StockGeneral, error) {
	var items []model.StockGeneral
	q := r.db.WithContext(ctx)
	if categoria != "" {
		q = q.Where("categoria = ?", categoria)
	}
	err := q.Order("fecha_ingreso DESC").Find(&items).Error
	return items, err
}

func (r *stockGeneralRepo) Update(ctx context.Context, s *model.StockGeneral) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *stockGeneralRepo) AjustarCantidad(ctx context.Context, id uuid.UUID, delta int) error {
	return r.AjustarCantidadTx(r.db.WithContext(ctx), id, delta)
}

func (r *stockGeneralRepo) AjustarCantidadTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.StockGeneral{}).
		Where("id = ? AND cantidad + ? >= 0", id, delta).
		Update("cantidad", gorm.Expr("cantidad + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockInsuficiente
	}
	return nil
}

func (r *stockGeneralRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.StockGeneral{}, id).Error
}
