package repository

import (
	"context"
	"errors"

	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTransicionInvalida signals a state transition attempted from a state
// that no longer allows it (e.g. two dispatchers racing on the same order).
var ErrTransicionInvalida = errors.New("transición de estado inválida")

type PedidoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, estado string, page, limit int) ([]model.Pedido, int64, error)

	// UpdateEstadoTx flips estado only when the row is still in desde;
	// zero rows affected surfaces as ErrTransicionInvalida.
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hasta string) error
	UpdateTx(tx *gorm.DB, p *model.Pedido) error

	// SetMetodoPagoTx fija el método de pago al cobrar.
	SetMetodoPagoTx(tx *gorm.DB, id uuid.UUID, metodo string) error
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, estado string, page, limit int) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Pedido{})
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hasta string) error {
	res := tx.Model(&model.Pedido{}).
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

func (r *pedidoRepo) UpdateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Save(p).Error
}

func (r *pedidoRepo) SetMetodoPagoTx(tx *gorm.DB, id uuid.UUID, metodo string) error {
	return tx.Model(&model.Pedido{}).Where("id = ?", id).Update("metodo_pago", metodo).Error
}

func (r *pedidoRepo) DB() *gorm.DB { return r.db }
