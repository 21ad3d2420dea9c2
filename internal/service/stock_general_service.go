package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
)

// StockGeneralService maneja el depósito de insumos, envases y etiquetas.
// Cada alta manual es una partida nueva, igual que las recepciones de
// órdenes de compra.
type StockGeneralService interface {
	Crear(ctx context.Context, req dto.CrearStockGeneralRequest) (*model.StockGeneral, error)
	List(ctx context.Context, categoria string) ([]model.StockGeneral, error)
	Ajustar(ctx context.Context, id uuid.UUID, req dto.AjustarStockGeneralRequest) error
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type stockGeneralService struct {
	repo repository.StockGeneralRepository
}

func NewStockGeneralService(repo repository.StockGeneralRepository) StockGeneralService {
	return &stockGeneralService{repo: repo}
}

func (s *stockGeneralService) Crear(ctx context.Context, req dto.CrearStockGeneralRequest) (*model.StockGeneral, error) {
	item := &model.StockGeneral{
		Nombre:       req.Nombre,
		Categoria:    req.Categoria,
		Cantidad:     req.Cantidad,
		UnidadMedida: req.UnidadMedida,
		FechaIngreso: time.Now(),
		Notas:        req.Notas,
	}
	if req.ProveedorID != nil {
		proveedorID, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, fmt.Errorf("proveedor_id inválido: %w", err)
		}
		item.ProveedorID = &proveedorID
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *stockGeneralService) List(ctx context.Context, categoria string) ([]model.StockGeneral, error) {
	return s.repo.List(ctx, categoria)
}

func (s *stockGeneralService) Ajustar(ctx context.Context, id uuid.UUID, req dto.AjustarStockGeneralRequest) error {
	err := s.repo.AjustarCantidad(ctx, id, req.Delta)
	if err == repository.ErrStockInsuficiente {
		return ErrStockInsuficiente
	}
	return err
}

func (s *stockGeneralService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
