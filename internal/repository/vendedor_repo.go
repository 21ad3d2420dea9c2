package repository

import (
	"context"

	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendedorRepository persists sellers and their consignment event streams.
// Assignments, seller sales and returns are append-only; the consigned
// balance is always folded from these rows at read time.
type VendedorRepository interface {
	Create(ctx context.Context, v *model.Vendedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vendedor, error)
	List(ctx context.Context, soloActivos bool) ([]model.Vendedor, error)
	Update(ctx context.Context, v *model.Vendedor) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	CreateAsignacionTx(tx *gorm.DB, a *model.AsignacionStock) error
	CreateVentaTx(tx *gorm.DB, v *model.VentaVendedor) error
	CreateDevolucionTx(tx *gorm.DB, d *model.DevolucionVendedor) error

	ListAsignaciones(ctx context.Context, vendedorID uuid.UUID) ([]model.AsignacionStock, error)
	ListVentas(ctx context.Context, vendedorID uuid.UUID) ([]model.VentaVendedor, error)
	ListDevoluciones(ctx context.Context, vendedorID uuid.UUID) ([]model.DevolucionVendedor, error)

	DB() *gorm.DB
}

type vendedorRepo struct{ db *gorm.DB }

func NewVendedorRepository(db *gorm.DB) VendedorRepository { return &vendedorRepo{db: db} }

func (r *vendedorRepo) Create(ctx context.Context, v *model.Vendedor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vendedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendedor, error) {
	var v model.Vendedor
	err := r.db.WithContext(ctx).First(&v, id).Error
	return &v, err
}

func (r *vendedorRepo) List(ctx context.Context, soloActivos bool) ([]model.Vendedor, error) {
	var vendedores []model.Vendedor
	q := r.db.WithContext(ctx)
	if soloActivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&vendedores).Error
	return vendedores, err
}

func (r *vendedorRepo) Update(ctx context.Context, v *model.Vendedor) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vendedorRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Vendedor{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *vendedorRepo) CreateAsignacionTx(tx *gorm.DB, a *model.AsignacionStock) error {
	return tx.Create(a).Error
}

func (r *vendedorRepo) CreateVentaTx(tx *gorm.DB, v *model.VentaVendedor) error {
	return tx.Create(v).Error
}

func (r *vendedorRepo) CreateDevolucionTx(tx *gorm.DB, d *model.DevolucionVendedor) error {
	return tx.Create(d).Error
}

func (r *vendedorRepo) ListAsignaciones(ctx context.Context, vendedorID uuid.UUID) ([]model.AsignacionStock, error) {
	var asignaciones []model.AsignacionStock
	err := r.db.WithContext(ctx).
		Where("vendedor_id = ?", vendedorID).
		Order("created_at ASC").
		Find(&asignaciones).Error
	return asignaciones, err
}

func (r *vendedorRepo) ListVentas(ctx context.Context, vendedorID uuid.UUID) ([]model.VentaVendedor, error) {
	var ventas []model.VentaVendedor
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("vendedor_id = ?", vendedorID).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *vendedorRepo) ListDevoluciones(ctx context.Context, vendedorID uuid.UUID) ([]model.DevolucionVendedor, error) {
	var devoluciones []model.DevolucionVendedor
	err := r.db.WithContext(ctx).
		Where("vendedor_id = ?", vendedorID).
		Order("created_at ASC").
		Find(&devoluciones).Error
	return devoluciones, err
}

func (r *vendedorRepo) DB() *gorm.DB { return r.db }
