package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const precioCacheTTL = 60 * time.Second

// CatalogoService administra productos, combos y promociones, y sirve la
// consulta rápida de precio por código con caché en Redis.
type CatalogoService interface {
	CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*model.Producto, error)
	ActualizarProducto(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*model.Producto, error)
	BajaProducto(ctx context.Context, id uuid.UUID) error
	ReactivarProducto(ctx context.Context, id uuid.UUID) error
	DetalleProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	ListProductos(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)

	// ConsultarPrecio resuelve por código de barras/etiqueta, cache-aside
	// sobre Redis con TTL corto.
	ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, error)

	CrearCombo(ctx context.Context, req dto.CrearComboRequest) (*model.Combo, error)
	ListCombos(ctx context.Context, soloActivos bool) ([]dto.ComboResponse, error)
	BajaCombo(ctx context.Context, id uuid.UUID) error

	CrearPromocion(ctx context.Context, req dto.CrearPromocionRequest) (*model.Promocion, error)
	ListPromociones(ctx context.Context) ([]model.Promocion, error)
	DesactivarPromocion(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	productoRepo  repository.ProductoRepository
	comboRepo     repository.ComboRepository
	promocionRepo repository.PromocionRepository
	movimientoRepo repository.MovimientoStockRepository
	inventario    InventarioService
	rdb           *redis.Client
}

func NewCatalogoService(
	productoRepo repository.ProductoRepository,
	comboRepo repository.ComboRepository,
	promocionRepo repository.PromocionRepository,
	movimientoRepo repository.MovimientoStockRepository,
	inventario InventarioService,
	rdb *redis.Client,
) CatalogoService {
	return &catalogoService{
		productoRepo:   productoRepo,
		comboRepo:      comboRepo,
		promocionRepo:  promocionRepo,
		movimientoRepo: movimientoRepo,
		inventario:     inventario,
		rdb:            rdb,
	}
}

func (s *catalogoService) CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*model.Producto, error) {
	p := &model.Producto{
		Codigo:       req.Codigo,
		Nombre:       req.Nombre,
		Tipo:         req.Tipo,
		Marca:        req.Marca,
		StockActual:  req.StockInicial,
		UnidadMedida: req.UnidadMedida,
		Precio:       req.Precio,
		Activo:       true,
	}
	if err := s.productoRepo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("ya existe un producto con código %s", req.Codigo)
		}
		return nil, err
	}

	if req.StockInicial > 0 {
		mov := &model.MovimientoStock{
			ProductoID:    p.ID,
			Tipo:          model.StockAjusteManual,
			Cantidad:      req.StockInicial,
			StockAnterior: 0,
			StockNuevo:    req.StockInicial,
			Motivo:        "stock inicial de alta",
		}
		if err := s.movimientoRepo.Create(ctx, mov); err != nil {
			log.Error().Err(err).Str("producto_id", p.ID.String()).Msg("no se pudo asentar el movimiento de alta")
		}
	}
	return p, nil
}

func (s *catalogoService) ActualizarProducto(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*model.Producto, error) {
	p, err := s.productoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Nombre = req.Nombre
	p.Marca = req.Marca
	p.UnidadMedida = req.UnidadMedida
	p.Precio = req.Precio
	if err := s.productoRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarPrecio(ctx, p.Codigo)
	return p, nil
}

func (s *catalogoService) BajaProducto(ctx context.Context, id uuid.UUID) error {
	p, err := s.productoRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productoRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarPrecio(ctx, p.Codigo)
	return nil
}

func (s *catalogoService) ReactivarProducto(ctx context.Context, id uuid.UUID) error {
	return s.productoRepo.Reactivar(ctx, id)
}

func (s *catalogoService) DetalleProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	return s.productoRepo.FindByID(ctx, id)
}

func (s *catalogoService) ListProductos(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	return s.productoRepo.List(ctx, filter)
}

func precioCacheKey(codigo string) string { return "precio:" + codigo }

func (s *catalogoService) ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, precioCacheKey(codigo)).Result(); err == nil {
			var resp dto.ConsultaPrecioResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.productoRepo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	resp := &dto.ConsultaPrecioResponse{
		ProductoID: p.ID.String(),
		Codigo:     p.Codigo,
		Nombre:     p.Nombre,
		Precio:     p.Precio,
		Stock:      p.StockActual,
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, precioCacheKey(codigo), data, precioCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Str("codigo", codigo).Msg("no se pudo cachear el precio")
			}
		}
	}
	return resp, nil
}

func (s *catalogoService) invalidarPrecio(ctx context.Context, codigo string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, precioCacheKey(codigo)).Err(); err != nil {
		log.Debug().Err(err).Str("codigo", codigo).Msg("no se pudo invalidar la caché de precio")
	}
}

func (s *catalogoService) CrearCombo(ctx context.Context, req dto.CrearComboRequest) (*model.Combo, error) {
	componentes := make([]model.ComboComponente, 0, len(req.Componentes))
	for _, comp := range req.Componentes {
		productoID, err := uuid.Parse(comp.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", comp.ProductoID)
		}
		componentes = append(componentes, model.ComboComponente{
			ProductoID: productoID,
			Cantidad:   comp.Cantidad,
		})
	}

	combo := &model.Combo{
		Nombre:      req.Nombre,
		Precio:      req.Precio,
		Activo:      true,
		Componentes: componentes,
	}
	if err := s.comboRepo.Create(ctx, combo); err != nil {
		return nil, err
	}
	return combo, nil
}

func (s *catalogoService) ListCombos(ctx context.Context, soloActivos bool) ([]dto.ComboResponse, error) {
	combos, err := s.comboRepo.List(ctx, soloActivos)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ComboResponse, 0, len(combos))
	for i := range combos {
		c := &combos[i]
		resp := dto.ComboResponse{
			ID:              c.ID.String(),
			Nombre:          c.Nombre,
			Precio:          c.Precio,
			Activo:          c.Activo,
			StockDisponible: s.inventario.StockDisponibleCombo(c),
		}
		for _, comp := range c.Componentes {
			compResp := dto.ComponenteComboResponse{
				ProductoID: comp.ProductoID.String(),
				Cantidad:   comp.Cantidad,
			}
			if comp.Producto != nil {
				compResp.Nombre = comp.Producto.Nombre
				compResp.Stock = comp.Producto.StockActual
			}
			resp.Componentes = append(resp.Componentes, compResp)
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *catalogoService) BajaCombo(ctx context.Context, id uuid.UUID) error {
	return s.comboRepo.SoftDelete(ctx, id)
}

func (s *catalogoService) CrearPromocion(ctx context.Context, req dto.CrearPromocionRequest) (*model.Promocion, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, fmt.Errorf("producto %s no encontrado", req.ProductoID)
	}

	switch req.Tipo {
	case model.PromoBuyXGetY:
		if req.CantidadPaga == nil {
			return nil, errors.New("buy_x_get_y requiere cantidad_paga")
		}
		if *req.CantidadPaga >= req.CantidadCompra {
			return nil, errors.New("cantidad_paga debe ser menor que cantidad_compra")
		}
	case model.PromoPorcentajeSegunda:
		if req.PorcentajeDescuento == nil {
			return nil, errors.New("percentage_on_second requiere porcentaje_descuento")
		}
		if req.PorcentajeDescuento.IsNegative() || req.PorcentajeDescuento.GreaterThan(cien) {
			return nil, errors.New("porcentaje_descuento debe estar entre 0 y 100")
		}
	}

	promo := &model.Promocion{
		ProductoID:          productoID,
		Tipo:                req.Tipo,
		CantidadCompra:      req.CantidadCompra,
		CantidadPaga:        req.CantidadPaga,
		PorcentajeDescuento: req.PorcentajeDescuento,
		Activa:              true,
	}
	if err := s.promocionRepo.Create(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *catalogoService) ListPromociones(ctx context.Context) ([]model.Promocion, error) {
	return s.promocionRepo.List(ctx)
}

func (s *catalogoService) DesactivarPromocion(ctx context.Context, id uuid.UUID) error {
	return s.promocionRepo.Desactivar(ctx, id)
}
