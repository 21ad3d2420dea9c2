package service

import (
	"context"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*model.Cliente, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearClienteRequest) (*model.Cliente, error)
	Detalle(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, nombre string, page, limit int) ([]model.Cliente, int64, error)
	Baja(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*model.Cliente, error) {
	c := &model.Cliente{
		Nombre:    req.Nombre,
		CUIT:      req.CUIT,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearClienteRequest) (*model.Cliente, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Nombre = req.Nombre
	c.CUIT = req.CUIT
	c.Telefono = req.Telefono
	c.Email = req.Email
	c.Direccion = req.Direccion
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clienteService) Detalle(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *clienteService) List(ctx context.Context, nombre string, page, limit int) ([]model.Cliente, int64, error) {
	return s.repo.List(ctx, nombre, page, limit)
}

func (s *clienteService) Baja(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
