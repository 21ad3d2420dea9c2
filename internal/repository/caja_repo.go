package repository

import (
	"context"

	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CajaRepository persists cash sessions and their immutable movement rows.
// Movements are child records inserted one per event; session totals are
// always derived by aggregation, never stored incrementally.
type CajaRepository interface {
	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	// FindSesionAbierta returns the single open session, or gorm.ErrRecordNotFound.
	// Uniqueness is enforced by a partial index on estado='abierta'.
	FindSesionAbierta(ctx context.Context) (*model.SesionCaja, error)
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)

	// CerrarSesion persists the closing fields with a conditional UPDATE on
	// estado='abierta'; a concurrent close loses with ErrTransicionInvalida.
	CerrarSesion(ctx context.Context, s *model.SesionCaja) error

	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error)

	// SumVentasPorMetodo aggregates sale movements grouped by payment method.
	SumVentasPorMetodo(ctx context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error)
	SumGastos(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, error)

	ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error)

	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) FindSesionAbierta(ctx context.Context) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("estado = ?", model.SesionAbierta).
		First(&s).Error
	return &s, err
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Preload("Movimientos", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&s, id).Error
	return &s, err
}

func (r *cajaRepo) CerrarSesion(ctx context.Context, s *model.SesionCaja) error {
	res := r.db.WithContext(ctx).Model(&model.SesionCaja{}).
		Where("id = ? AND estado = ?", s.ID, model.SesionAbierta).
		Updates(map[string]interface{}{
			"estado":                   s.Estado,
			"contado_efectivo":         s.ContadoEfectivo,
			"contado_tarjeta":          s.ContadoTarjeta,
			"contado_transferencia":    s.ContadoTransferencia,
			"clasificacion_diferencia": s.ClasificacionDiferencia,
			"observaciones":            s.Observaciones,
			"closed_at":                s.ClosedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransicionInvalida
	}
	return nil
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id = ?", sesionID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

type sumaPorMetodo struct {
	MetodoPago string
	Total      decimal.Decimal
}

func (r *cajaRepo) SumVentasPorMetodo(ctx context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	var rows []sumaPorMetodo
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("metodo_pago, COALESCE(SUM(monto), 0) AS total").
		Where("sesion_caja_id = ? AND tipo = ?", sesionID, model.MovimientoVenta).
		Group("metodo_pago").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.MetodoPago] = row.Total
	}
	return out, nil
}

func (r *cajaRepo) SumGastos(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("sesion_caja_id = ? AND tipo = ?", sesionID, model.MovimientoGasto).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *cajaRepo) ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	var sesiones []model.SesionCaja
	var total int64
	q := r.db.WithContext(ctx).Model(&model.SesionCaja{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("opened_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sesiones).Error
	return sesiones, total, err
}

func (r *cajaRepo) DB() *gorm.DB { return r.db }
