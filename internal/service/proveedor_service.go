package service

import (
	"context"
	"errors"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*model.Proveedor, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*model.Proveedor, error)
	Detalle(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	List(ctx context.Context, razonSocial string, page, limit int) ([]model.Proveedor, int64, error)
	Baja(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*model.Proveedor, error) {
	p := &model.Proveedor{
		RazonSocial: req.RazonSocial,
		CUIT:        req.CUIT,
		Telefono:    req.Telefono,
		Email:       req.Email,
		Direccion:   req.Direccion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("ya existe un proveedor con ese CUIT")
		}
		return nil, err
	}
	return p, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*model.Proveedor, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.RazonSocial = req.RazonSocial
	p.CUIT = req.CUIT
	p.Telefono = req.Telefono
	p.Email = req.Email
	p.Direccion = req.Direccion
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *proveedorService) Detalle(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *proveedorService) List(ctx context.Context, razonSocial string, page, limit int) ([]model.Proveedor, int64, error) {
	return s.repo.List(ctx, razonSocial, page, limit)
}

func (s *proveedorService) Baja(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
