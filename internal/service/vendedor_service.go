package service

import (
	"context"
	"fmt"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VendedorService administra el stock en consignación de los vendedores de
// calle. El saldo por producto nunca se persiste: se pliega de los eventos
// asignación − venta − devolución al momento de leer.
type VendedorService interface {
	Crear(ctx context.Context, req dto.CrearVendedorRequest) (*model.Vendedor, error)
	List(ctx context.Context, soloActivos bool) ([]model.Vendedor, error)
	Baja(ctx context.Context, id uuid.UUID) error

	// Asignar debita el depósito central y deja el stock en poder del
	// vendedor, en una transacción.
	Asignar(ctx context.Context, vendedorID uuid.UUID, req dto.AsignarStockRequest) error

	// RegistrarVenta descuenta de lo consignado; no toca el depósito.
	RegistrarVenta(ctx context.Context, vendedorID uuid.UUID, req dto.VentaVendedorRequest) (*model.VentaVendedor, error)

	// RegistrarDevolucion reingresa unidades consignadas al depósito.
	RegistrarDevolucion(ctx context.Context, vendedorID uuid.UUID, req dto.DevolucionVendedorRequest) error

	// Balance pliega los eventos del vendedor en su tenencia por producto.
	Balance(ctx context.Context, vendedorID uuid.UUID) (*dto.StockVendedorResponse, error)
}

type vendedorService struct {
	repo         repository.VendedorRepository
	productoRepo repository.ProductoRepository
	inventario   InventarioService
}

func NewVendedorService(
	repo repository.VendedorRepository,
	productoRepo repository.ProductoRepository,
	inventario InventarioService,
) VendedorService {
	return &vendedorService{
		repo:         repo,
		productoRepo: productoRepo,
		inventario:   inventario,
	}
}

func (s *vendedorService) Crear(ctx context.Context, req dto.CrearVendedorRequest) (*model.Vendedor, error) {
	v := &model.Vendedor{
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vendedorService) List(ctx context.Context, soloActivos bool) ([]model.Vendedor, error) {
	return s.repo.List(ctx, soloActivos)
}

func (s *vendedorService) Baja(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *vendedorService) Asignar(ctx context.Context, vendedorID uuid.UUID, req dto.AsignarStockRequest) error {
	vendedor, err := s.repo.FindByID(ctx, vendedorID)
	if err != nil {
		return fmt.Errorf("vendedor %s no encontrado", vendedorID)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, linea := range req.Items {
			productoID, err := uuid.Parse(linea.ProductoID)
			if err != nil {
				return fmt.Errorf("producto_id inválido: %w", err)
			}
			p, err := s.productoRepo.FindByID(ctx, productoID)
			if err != nil {
				return fmt.Errorf("producto %s no encontrado", linea.ProductoID)
			}

			asignacion := &model.AsignacionStock{
				VendedorID: vendedorID,
				ProductoID: productoID,
				Nombre:     p.Nombre,
				Cantidad:   linea.Cantidad,
			}
			if err := s.repo.CreateAsignacionTx(tx, asignacion); err != nil {
				return err
			}

			motivo := fmt.Sprintf("asignación a %s", vendedor.Nombre)
			if err := s.inventario.AplicarDeltaTx(tx, productoID, -linea.Cantidad, model.StockAsignacionVendedor, motivo, &asignacion.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *vendedorService) RegistrarVenta(ctx context.Context, vendedorID uuid.UUID, req dto.VentaVendedorRequest) (*model.VentaVendedor, error) {
	enPoder, err := s.tenenciaPorProducto(ctx, vendedorID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]model.VentaVendedorItem, 0, len(req.Items))
	for _, linea := range req.Items {
		productoID, err := uuid.Parse(linea.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if enPoder[productoID] < linea.Cantidad {
			return nil, fmt.Errorf("%w: producto %s (en poder %d, pedido %d)",
				ErrStockConsignadoInsuficiente, linea.ProductoID, enPoder[productoID], linea.Cantidad)
		}
		enPoder[productoID] -= linea.Cantidad

		p, err := s.productoRepo.FindByID(ctx, productoID)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", linea.ProductoID)
		}
		items = append(items, model.VentaVendedorItem{
			ProductoID: productoID,
			Nombre:     p.Nombre,
			Cantidad:   linea.Cantidad,
			Precio:     p.Precio,
		})
		total = total.Add(p.Precio.Mul(decimal.NewFromInt(int64(linea.Cantidad))))
	}

	venta := &model.VentaVendedor{
		VendedorID: vendedorID,
		MetodoPago: req.MetodoPago,
		Total:      total,
		Items:      items,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateVentaTx(tx, venta)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("vendedor_id", vendedorID.String()).
		Str("total", total.StringFixed(2)).
		Msg("venta de vendedor registrada")
	return venta, nil
}

func (s *vendedorService) RegistrarDevolucion(ctx context.Context, vendedorID uuid.UUID, req dto.DevolucionVendedorRequest) error {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return fmt.Errorf("producto_id inválido: %w", err)
	}

	enPoder, err := s.tenenciaPorProducto(ctx, vendedorID)
	if err != nil {
		return err
	}
	if enPoder[productoID] < req.Cantidad {
		return fmt.Errorf("%w: producto %s (en poder %d, devuelve %d)",
			ErrStockConsignadoInsuficiente, req.ProductoID, enPoder[productoID], req.Cantidad)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		devolucion := &model.DevolucionVendedor{
			VendedorID: vendedorID,
			ProductoID: productoID,
			Cantidad:   req.Cantidad,
		}
		if err := s.repo.CreateDevolucionTx(tx, devolucion); err != nil {
			return err
		}
		return s.inventario.AplicarDeltaTx(tx, productoID, req.Cantidad, model.StockDevolucionVendedor, "devolución de consignación", &devolucion.ID)
	})
}

// tenenciaPorProducto = Σ asignado − Σ vendido − Σ devuelto, por producto.
func (s *vendedorService) tenenciaPorProducto(ctx context.Context, vendedorID uuid.UUID) (map[uuid.UUID]int, error) {
	asignaciones, err := s.repo.ListAsignaciones(ctx, vendedorID)
	if err != nil {
		return nil, err
	}
	ventas, err := s.repo.ListVentas(ctx, vendedorID)
	if err != nil {
		return nil, err
	}
	devoluciones, err := s.repo.ListDevoluciones(ctx, vendedorID)
	if err != nil {
		return nil, err
	}

	enPoder := make(map[uuid.UUID]int)
	for _, a := range asignaciones {
		enPoder[a.ProductoID] += a.Cantidad
	}
	for _, v := range ventas {
		for _, item := range v.Items {
			enPoder[item.ProductoID] -= item.Cantidad
		}
	}
	for _, d := range devoluciones {
		enPoder[d.ProductoID] -= d.Cantidad
	}
	return enPoder, nil
}

func (s *vendedorService) Balance(ctx context.Context, vendedorID uuid.UUID) (*dto.StockVendedorResponse, error) {
	vendedor, err := s.repo.FindByID(ctx, vendedorID)
	if err != nil {
		return nil, err
	}

	asignaciones, err := s.repo.ListAsignaciones(ctx, vendedorID)
	if err != nil {
		return nil, err
	}
	ventas, err := s.repo.ListVentas(ctx, vendedorID)
	if err != nil {
		return nil, err
	}
	devoluciones, err := s.repo.ListDevoluciones(ctx, vendedorID)
	if err != nil {
		return nil, err
	}

	type acumulado struct {
		nombre   string
		asignado int
		vendido  int
		devuelto int
	}
	porProducto := make(map[uuid.UUID]*acumulado)
	orden := make([]uuid.UUID, 0)

	get := func(id uuid.UUID, nombre string) *acumulado {
		if a, ok := porProducto[id]; ok {
			if a.nombre == "" {
				a.nombre = nombre
			}
			return a
		}
		a := &acumulado{nombre: nombre}
		porProducto[id] = a
		orden = append(orden, id)
		return a
	}

	totalVendido := decimal.Zero
	for _, a := range asignaciones {
		get(a.ProductoID, a.Nombre).asignado += a.Cantidad
	}
	for _, v := range ventas {
		totalVendido = totalVendido.Add(v.Total)
		for _, item := range v.Items {
			get(item.ProductoID, item.Nombre).vendido += item.Cantidad
		}
	}
	for _, d := range devoluciones {
		get(d.ProductoID, "").devuelto += d.Cantidad
	}

	resp := &dto.StockVendedorResponse{
		VendedorID:   vendedorID.String(),
		Nombre:       vendedor.Nombre,
		TotalVendido: totalVendido,
	}
	balance := decimal.Zero
	for _, id := range orden {
		a := porProducto[id]
		enPoder := a.asignado - a.vendido - a.devuelto

		// Lo consignado se valoriza a precio de catálogo vigente, no al
		// precio histórico de la asignación.
		if enPoder > 0 {
			p, err := s.productoRepo.FindByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("producto %s no encontrado", id)
			}
			balance = balance.Add(p.Precio.Mul(decimal.NewFromInt(int64(enPoder))))
		}

		resp.Lineas = append(resp.Lineas, dto.StockVendedorLinea{
			ProductoID: id.String(),
			Nombre:     a.nombre,
			Asignado:   a.asignado,
			Vendido:    a.vendido,
			Devuelto:   a.devuelto,
			EnPoder:    enPoder,
		})
	}
	resp.Balance = balance
	return resp, nil
}
