package repository

import (
	"context"
	"time"

	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrdenCompraRepository interface {
	CreateTx(tx *gorm.DB, o *model.OrdenCompra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenCompra, error)
	List(ctx context.Context, estado string, page, limit int) ([]model.OrdenCompra, int64, error)

	// NextNumero draws the next purchase order number from the database
	// sequence inside the caller's transaction.
	NextNumero(tx *gorm.DB) (int64, error)

	// UpdateEstadoTx flips estado only from the expected prior state.
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hasta string) error
	UpdateTx(tx *gorm.DB, o *model.OrdenCompra) error
	CreateRecepcionTx(tx *gorm.DB, rec *model.OrdenCompraRecepcion) error

	// SetFechaRecepcionTx estampa la fecha al cerrar la recepción.
	SetFechaRecepcionTx(tx *gorm.DB, id uuid.UUID, fecha time.Time) error

	DB() *gorm.DB
}

type ordenCompraRepo struct{ db *gorm.DB }

func NewOrdenCompraRepository(db *gorm.DB) OrdenCompraRepository {
	return &ordenCompraRepo{db: db}
}

func (r *ordenCompraRepo) CreateTx(tx *gorm.DB, o *model.OrdenCompra) error {
	return tx.Create(o).Error
}

func (r *ordenCompraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenCompra, error) {
	var o model.OrdenCompra
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Recepciones").
		First(&o, id).Error
	return &o, err
}

func (r *ordenCompraRepo) List(ctx context.Context, estado string, page, limit int) ([]model.OrdenCompra, int64, error) {
	var ordenes []model.OrdenCompra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.OrdenCompra{})
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").
		Order("numero DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&ordenes).Error
	return ordenes, total, err
}

func (r *ordenCompraRepo) NextNumero(tx *gorm.DB) (int64, error) {
	var numero int64
	err := tx.Raw("SELECT nextval('ordenes_compra_numero_seq')").Scan(&numero).Error
	return numero, err
}

func (r *ordenCompraRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hasta string) error {
	res := tx.Model(&model.OrdenCompra{}).
		Where("id = ? AND estado = ?", id, desde).
		Update("estado", hasta)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransicionInvalida
	}
	return nil
}

func (r *ordenCompraRepo) UpdateTx(tx *gorm.DB, o *model.OrdenCompra) error {
	return tx.Save(o).Error
}

func (r *ordenCompraRepo) CreateRecepcionTx(tx *gorm.DB, rec *model.OrdenCompraRecepcion) error {
	return tx.Create(rec).Error
}

func (r *ordenCompraRepo) SetFechaRecepcionTx(tx *gorm.DB, id uuid.UUID, fecha time.Time) error {
	return tx.Model(&model.OrdenCompra{}).Where("id = ?", id).Update("fecha_recepcion", fecha).Error
}

func (r *ordenCompraRepo) DB() *gorm.DB { return r.db }
