package repository

import (
	"context"
	"errors"

	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrItemsYaFacturados is returned when the conditional claim of billable
// items touches fewer rows than requested: another invoice already took
// some of them.
var ErrItemsYaFacturados = errors.New("algunos ítems ya fueron facturados")

type ItemFacturableRepository interface {
	Create(ctx context.Context, item *model.ItemFacturable) error
	CreateTx(tx *gorm.DB, item *model.ItemFacturable) error
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ItemFacturable, error)
	ListPendientes(ctx context.Context, clienteID *uuid.UUID) ([]model.ItemFacturable, error)

	// MarcarFacturadosTx claims the given items for facturaID with a
	// conditional UPDATE on facturado = false. If any item was already
	// claimed the whole batch fails with ErrItemsYaFacturados.
	MarcarFacturadosTx(tx *gorm.DB, ids []uuid.UUID, facturaID uuid.UUID) error

	// LiberarByFacturaTx releases items back to pending when their
	// invoice is voided.
	LiberarByFacturaTx(tx *gorm.DB, facturaID uuid.UUID) error
}

type itemFacturableRepo struct{ db *gorm.DB }

func NewItemFacturableRepository(db *gorm.DB) ItemFacturableRepository {
	return &itemFacturableRepo{db: db}
}

func (r *itemFacturableRepo) Create(ctx context.Context, item *model.ItemFacturable) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemFacturableRepo) CreateTx(tx *gorm.DB, item *model.ItemFacturable) error {
	return tx.Create(item).Error
}

func (r *itemFacturableRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ItemFacturable, error) {
	var items []model.ItemFacturable
	err := r.db.WithContext(ctx).Preload("Lineas").Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *itemFacturableRepo) ListPendientes(ctx context.Context, clienteID *uuid.UUID) ([]model.ItemFacturable, error) {
	var items []model.ItemFacturable
	q := r.db.WithContext(ctx).Preload("Lineas").Where("facturado = false")
	if clienteID != nil {
		q = q.Where("cliente_id = ?", *clienteID)
	}
	err := q.Order("fecha ASC").Find(&items).Error
	return items, err
}

func (r *itemFacturableRepo) MarcarFacturadosTx(tx *gorm.DB, ids []uuid.UUID, facturaID uuid.UUID) error {
	res := tx.Model(&model.ItemFacturable{}).
		Where("id IN ? AND facturado = false", ids).
		Updates(map[string]interface{}{
			"facturado":  true,
			"factura_id": facturaID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return ErrItemsYaFacturados
	}
	return nil
}

func (r *itemFacturableRepo) LiberarByFacturaTx(tx *gorm.DB, facturaID uuid.UUID) error {
	return tx.Model(&model.ItemFacturable{}).
		Where("factura_id = ?", facturaID).
		Updates(map[string]interface{}{
			"facturado":  false,
			"factura_id": nil,
		}).Error
}
