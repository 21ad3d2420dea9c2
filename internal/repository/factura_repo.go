package repository

import (
	"context"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FacturaRepository interface {
	CreateTx(tx *gorm.DB, f *model.Factura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error)
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Factura, error)

	// NextNumero draws the next invoice number from the database sequence,
	// inside the caller's transaction so numbering and insert commit together.
	NextNumero(tx *gorm.DB) (int64, error)

	// CreatePagoTx inserta el pago dentro de la transacción del llamador,
	// para que pago y cambio de estado entren o salgan juntos.
	CreatePagoTx(tx *gorm.DB, p *model.PagoFactura) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hasta string) error

	// ListPendientesVencidas returns invoices still pending whose due date
	// passed; the reminder cron feeds on this.
	ListPendientesVencidas(ctx context.Context) ([]model.Factura, error)

	DB() *gorm.DB
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) CreateTx(tx *gorm.DB, f *model.Factura) error {
	return tx.Create(f).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC") }).
		First(&f, id).Error
	return &f, err
}

func (r *facturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Factura{})
	if filter.ClienteID != nil {
		q = q.Where("cliente_id = ?", *filter.ClienteID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").Preload("Pagos").
		Order("numero DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&facturas).Error
	return facturas, total, err
}

func (r *facturaRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Factura, error) {
	var facturas []model.Factura
	err := r.db.WithContext(ctx).
		Preload("Pagos").
		Where("cliente_id = ?", clienteID).
		Order("numero DESC").
		Find(&facturas).Error
	return facturas, err
}

func (r *facturaRepo) NextNumero(tx *gorm.DB) (int64, error) {
	var numero int64
	err := tx.Raw("SELECT nextval('facturas_numero_seq')").Scan(&numero).Error
	return numero, err
}

func (r *facturaRepo) CreatePagoTx(tx *gorm.DB, p *model.PagoFactura) error {
	return tx.Create(p).Error
}

func (r *facturaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hasta string) error {
	res := tx.Model(&model.Factura{}).
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

func (r *facturaRepo) ListPendientesVencidas(ctx context.Context) ([]model.Factura, error) {
	var facturas []model.Factura
	err := r.db.WithContext(ctx).
		Where("estado = ? AND vencimiento < NOW()", model.FacturaPendiente).
		Find(&facturas).Error
	return facturas, err
}

func (r *facturaRepo) DB() *gorm.DB { return r.db }
