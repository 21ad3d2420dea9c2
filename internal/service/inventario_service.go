package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventarioService es el único camino de escritura sobre el stock de
// productos. Cada delta queda asentado como MovimientoStock con el stock
// anterior y el nuevo, en la misma transacción que el cambio.
type InventarioService interface {
	// AplicarDeltaTx valida y aplica un delta firmado dentro de tx, dejando
	// el movimiento de auditoría. Delta negativo con stock insuficiente
	// devuelve ErrStockInsuficiente sin tocar la fila.
	AplicarDeltaTx(tx *gorm.DB, productoID uuid.UUID, delta int, tipo, motivo string, referenciaID *uuid.UUID) error

	AjusteManual(ctx context.Context, productoID uuid.UUID, req dto.AjusteStockRequest) error

	// Fraccionar debita cantidad a granel del producto origen, consume los
	// envases y etiquetas declarados del stock general y acredita las
	// unidades fraccionadas al producto destino, todo atómicamente.
	Fraccionar(ctx context.Context, req dto.FraccionarRequest) error

	// StockDisponibleCombo deriva cuántas unidades del combo permite el
	// componente más escaso. Nunca se persiste.
	StockDisponibleCombo(combo *model.Combo) int

	Movimientos(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error)
}

type inventarioService struct {
	productoRepo     repository.ProductoRepository
	movimientoRepo   repository.MovimientoStockRepository
	stockGeneralRepo repository.StockGeneralRepository
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	stockGeneralRepo repository.StockGeneralRepository,
) InventarioService {
	return &inventarioService{
		productoRepo:     productoRepo,
		movimientoRepo:   movimientoRepo,
		stockGeneralRepo: stockGeneralRepo,
	}
}

func (s *inventarioService) AplicarDeltaTx(tx *gorm.DB, productoID uuid.UUID, delta int, tipo, motivo string, referenciaID *uuid.UUID) error {
	if delta == 0 {
		return nil
	}

	p, err := s.findForTx(tx, productoID)
	if err != nil {
		return fmt.Errorf("producto %s: %w", productoID, err)
	}

	if err := s.productoRepo.AplicarDeltaTx(tx, productoID, delta); err != nil {
		if errors.Is(err, repository.ErrStockInsuficiente) {
			return fmt.Errorf("%w: %s (stock %d, delta %d)", ErrStockInsuficiente, p.Nombre, p.StockActual, delta)
		}
		return err
	}

	mov := &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: p.StockActual,
		StockNuevo:    p.StockActual + delta,
		Motivo:        motivo,
		ReferenciaID:  referenciaID,
	}
	return s.movimientoRepo.CreateTx(tx, mov)
}

// findForTx lee el producto por la transacción cuando existe, para que el
// par anterior/nuevo del movimiento sea consistente con el UPDATE.
func (s *inventarioService) findForTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	if tx == nil {
		return s.productoRepo.FindByID(context.Background(), id)
	}
	var p model.Producto
	if err := tx.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *inventarioService) AjusteManual(ctx context.Context, productoID uuid.UUID, req dto.AjusteStockRequest) error {
	return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		return s.AplicarDeltaTx(tx, productoID, req.Delta, model.StockAjusteManual, req.Motivo, nil)
	})
}

func (s *inventarioService) Fraccionar(ctx context.Context, req dto.FraccionarRequest) error {
	origenID, err := uuid.Parse(req.ProductoOrigenID)
	if err != nil {
		return fmt.Errorf("producto_origen_id inválido: %w", err)
	}
	destinoID, err := uuid.Parse(req.ProductoDestinoID)
	if err != nil {
		return fmt.Errorf("producto_destino_id inválido: %w", err)
	}
	if origenID == destinoID {
		return errors.New("el producto destino debe ser distinto del origen")
	}

	motivo := fmt.Sprintf("fraccionamiento: %d → %d unidades", req.CantidadOrigen, req.CantidadDestino)
	return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		// Envases y etiquetas se gastan primero: si falta material de
		// empaque la operación entera se cae antes de mover producto.
		for _, consumo := range req.Consumos {
			stockID, err := uuid.Parse(consumo.StockGeneralID)
			if err != nil {
				return fmt.Errorf("stock_general_id inválido: %w", err)
			}
			if err := s.stockGeneralRepo.AjustarCantidadTx(tx, stockID, -consumo.Cantidad); err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return fmt.Errorf("%w: stock general %s", ErrStockInsuficiente, consumo.StockGeneralID)
				}
				return err
			}
		}

		if err := s.AplicarDeltaTx(tx, origenID, -req.CantidadOrigen, model.StockFraccionamiento, motivo, &destinoID); err != nil {
			return err
		}
		return s.AplicarDeltaTx(tx, destinoID, req.CantidadDestino, model.StockFraccionamiento, motivo, &origenID)
	})
}

func (s *inventarioService) StockDisponibleCombo(combo *model.Combo) int {
	if len(combo.Componentes) == 0 {
		return 0
	}
	disponible := -1
	for _, comp := range combo.Componentes {
		if comp.Producto == nil || comp.Cantidad <= 0 {
			return 0
		}
		unidades := comp.Producto.StockActual / comp.Cantidad
		if disponible < 0 || unidades < disponible {
			disponible = unidades
		}
	}
	if disponible < 0 {
		return 0
	}
	return disponible
}

func (s *inventarioService) Movimientos(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.movimientoRepo.ListByProducto(ctx, productoID, limit)
}
