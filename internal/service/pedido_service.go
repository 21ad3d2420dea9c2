package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrPedidoNoCobrable: sólo se cobra un pedido pendiente o en reparto.
var ErrPedidoNoCobrable = errors.New("el pedido no admite esa operación en su estado actual")

// PedidoService maneja pedidos de entrega a domicilio. El stock se reserva
// al crear el pedido; la cancelación lo devuelve con movimientos inversos.
type PedidoService interface {
	Crear(ctx context.Context, req dto.CrearPedidoRequest) (*model.Pedido, error)
	MarcarEnReparto(ctx context.Context, id uuid.UUID) error
	// Cobrar cierra el ciclo: registra la venta (origen pedido) contra la
	// sesión de caja abierta y pasa el pedido a entregado. El stock NO se
	// vuelve a descontar: ya salió al crear el pedido.
	Cobrar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, req dto.CobrarPedidoRequest) (*model.Venta, error)
	Cancelar(ctx context.Context, id uuid.UUID) error
	Detalle(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, estado string, page, limit int) ([]model.Pedido, int64, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	caja         CajaService
	cajaRepo     repository.CajaRepository
	ventaRepo    repository.VentaRepository
	inventario   InventarioService
	productoRepo repository.ProductoRepository
	comboRepo    repository.ComboRepository
	promocionRepo repository.PromocionRepository
	clienteRepo  repository.ClienteRepository
	itemFactRepo repository.ItemFacturableRepository
}

func NewPedidoService(
	repo repository.PedidoRepository,
	caja CajaService,
	cajaRepo repository.CajaRepository,
	ventaRepo repository.VentaRepository,
	inventario InventarioService,
	productoRepo repository.ProductoRepository,
	comboRepo repository.ComboRepository,
	promocionRepo repository.PromocionRepository,
	clienteRepo repository.ClienteRepository,
	itemFactRepo repository.ItemFacturableRepository,
) PedidoService {
	return &pedidoService{
		repo:          repo,
		caja:          caja,
		cajaRepo:      cajaRepo,
		ventaRepo:     ventaRepo,
		inventario:    inventario,
		productoRepo:  productoRepo,
		comboRepo:     comboRepo,
		promocionRepo: promocionRepo,
		clienteRepo:   clienteRepo,
		itemFactRepo:  itemFactRepo,
	}
}

func (s *pedidoService) Crear(ctx context.Context, req dto.CrearPedidoRequest) (*model.Pedido, error) {
	lineas, resumen, err := s.componer(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	pedido := &model.Pedido{
		ClienteNombre:    req.ClienteNombre,
		DireccionEntrega: req.DireccionEntrega,
		Total:            resumen.Total,
		Estado:           model.PedidoPendiente,
		Items:            lineasToPedidoItems(resumen.Lineas),
	}
	if req.ClienteID != nil {
		clienteID, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		pedido.ClienteID = &clienteID
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, pedido); err != nil {
			return err
		}
		return s.aplicarStock(tx, lineas, -1, model.StockPedido, pedido.ID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("pedido_id", pedido.ID.String()).Str("total", pedido.Total.StringFixed(2)).Msg("pedido creado")
	return pedido, nil
}

func (s *pedidoService) componer(ctx context.Context, items []dto.ItemCarritoRequest) ([]LineaCarrito, *ResumenVenta, error) {
	lineas := make([]LineaCarrito, 0, len(items))
	for _, item := range items {
		if (item.ProductoID == nil) == (item.ComboID == nil) {
			return nil, nil, ErrLineaAmbigua
		}
		if item.ProductoID != nil {
			pid, err := uuid.Parse(*item.ProductoID)
			if err != nil {
				return nil, nil, fmt.Errorf("producto_id inválido: %w", err)
			}
			p, err := s.productoRepo.FindByID(ctx, pid)
			if err != nil {
				return nil, nil, fmt.Errorf("producto %s no encontrado", *item.ProductoID)
			}
			if !p.Activo {
				return nil, nil, fmt.Errorf("%w: %s", ErrProductoInactivo, p.Nombre)
			}
			lineas = append(lineas, LineaCarrito{Producto: p, Cantidad: item.Cantidad})
		} else {
			cid, err := uuid.Parse(*item.ComboID)
			if err != nil {
				return nil, nil, fmt.Errorf("combo_id inválido: %w", err)
			}
			c, err := s.comboRepo.FindByID(ctx, cid)
			if err != nil {
				return nil, nil, fmt.Errorf("combo %s no encontrado", *item.ComboID)
			}
			lineas = append(lineas, LineaCarrito{Combo: c, Cantidad: item.Cantidad})
		}
	}

	promos, err := s.promocionRepo.ListActivas(ctx)
	if err != nil {
		return nil, nil, err
	}
	resumen, err := ComponerVenta(lineas, IndexarPromociones(promos))
	if err != nil {
		return nil, nil, err
	}
	return lineas, resumen, nil
}

// aplicarStock mueve las líneas del pedido (signo -1 reserva, +1 restaura).
func (s *pedidoService) aplicarStock(tx *gorm.DB, lineas []LineaCarrito, signo int, tipo string, referenciaID uuid.UUID) error {
	for _, linea := range lineas {
		if linea.Producto != nil {
			if err := s.inventario.AplicarDeltaTx(tx, linea.Producto.ID, signo*linea.Cantidad, tipo, "", &referenciaID); err != nil {
				return err
			}
			continue
		}
		for _, comp := range linea.Combo.Componentes {
			motivo := fmt.Sprintf("combo %s", linea.Combo.Nombre)
			if err := s.inventario.AplicarDeltaTx(tx, comp.ProductoID, signo*linea.Cantidad*comp.Cantidad, tipo, motivo, &referenciaID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *pedidoService) MarcarEnReparto(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		err := s.repo.UpdateEstadoTx(tx, id, model.PedidoPendiente, model.PedidoEnReparto)
		if errors.Is(err, repository.ErrTransicionInvalida) {
			return ErrPedidoNoCobrable
		}
		return err
	})
}

func (s *pedidoService) Cobrar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, req dto.CobrarPedidoRequest) (*model.Venta, error) {
	sesion, err := s.caja.SesionAbierta(ctx)
	if err != nil {
		return nil, err
	}

	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pedido.Estado != model.PedidoPendiente && pedido.Estado != model.PedidoEnReparto {
		return nil, ErrPedidoNoCobrable
	}

	var cliente *model.Cliente
	if req.MetodoPago == model.MetodoCuentaCorriente {
		if pedido.ClienteID == nil {
			return nil, ErrClienteRequerido
		}
		cliente, err = s.clienteRepo.FindByID(ctx, *pedido.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente %s no encontrado", pedido.ClienteID)
		}
	}

	subtotal := decimal.Zero
	for _, item := range pedido.Items {
		subtotal = subtotal.Add(item.PrecioOriginal.Mul(decimal.NewFromInt(int64(item.Cantidad))))
	}

	venta := &model.Venta{
		SesionCajaID: sesion.ID,
		UsuarioID:    usuarioID,
		Origen:       "pedido",
		MetodoPago:   req.MetodoPago,
		Subtotal:     subtotal,
		Ahorro:       subtotal.Sub(pedido.Total),
		Total:        pedido.Total,
		ClienteID:    pedido.ClienteID,
		Items:        pedidoItemsToVentaItems(pedido.Items),
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(tx, id, pedido.Estado, model.PedidoEntregado); err != nil {
			if errors.Is(err, repository.ErrTransicionInvalida) {
				return ErrPedidoNoCobrable
			}
			return err
		}

		metodo := req.MetodoPago
		if err := s.repo.SetMetodoPagoTx(tx, id, metodo); err != nil {
			return err
		}

		if err := s.ventaRepo.CreateTx(tx, venta); err != nil {
			return err
		}

		if req.MetodoPago == model.MetodoCuentaCorriente {
			// Asienta el ítem a facturar y además la venta en la sesión, con
			// su método de pago: suma al total vendido sin tocar el efectivo.
			if err := s.itemFactRepo.CreateTx(tx, itemFacturableDePedido(pedido, venta, cliente)); err != nil {
				return err
			}
		}
		return s.cajaRepo.CreateMovimientoTx(tx, &model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Tipo:         model.MovimientoVenta,
			MetodoPago:   &metodo,
			Monto:        pedido.Total,
			Descripcion:  fmt.Sprintf("cobro pedido %s", pedido.ClienteNombre),
			ReferenciaID: &venta.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("pedido_id", id.String()).Str("venta_id", venta.ID.String()).Msg("pedido cobrado")
	return venta, nil
}

func (s *pedidoService) Cancelar(ctx context.Context, id uuid.UUID) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if pedido.Estado != model.PedidoPendiente && pedido.Estado != model.PedidoEnReparto {
		return ErrPedidoNoCobrable
	}

	lineas, err := s.resolverItems(ctx, pedido.Items)
	if err != nil {
		return err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(tx, id, pedido.Estado, model.PedidoCancelado); err != nil {
			if errors.Is(err, repository.ErrTransicionInvalida) {
				return ErrPedidoNoCobrable
			}
			return err
		}
		// La reserva vuelve al depósito con movimientos inversos.
		return s.aplicarStock(tx, lineas, 1, model.StockCancelacionPedido, id)
	})
	if err != nil {
		return err
	}

	log.Info().Str("pedido_id", id.String()).Msg("pedido cancelado, stock restaurado")
	return nil
}

// resolverItems reconstruye las líneas del snapshot para mover stock.
func (s *pedidoService) resolverItems(ctx context.Context, items []model.PedidoItem) ([]LineaCarrito, error) {
	lineas := make([]LineaCarrito, 0, len(items))
	for _, item := range items {
		if item.ProductoID != nil {
			p, err := s.productoRepo.FindByID(ctx, *item.ProductoID)
			if err != nil {
				return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
			}
			lineas = append(lineas, LineaCarrito{Producto: p, Cantidad: item.Cantidad})
			continue
		}
		if item.ComboID == nil {
			return nil, ErrLineaAmbigua
		}
		c, err := s.comboRepo.FindByID(ctx, *item.ComboID)
		if err != nil {
			return nil, fmt.Errorf("combo %s no encontrado", item.ComboID)
		}
		lineas = append(lineas, LineaCarrito{Combo: c, Cantidad: item.Cantidad})
	}
	return lineas, nil
}

func (s *pedidoService) Detalle(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *pedidoService) List(ctx context.Context, estado string, page, limit int) ([]model.Pedido, int64, error) {
	return s.repo.List(ctx, estado, page, limit)
}

// ── helpers de snapshot ──────────────────────────────────────────────────────

func lineasToPedidoItems(lineas []LineaPreciada) []model.PedidoItem {
	items := make([]model.PedidoItem, 0, len(lineas))
	for _, l := range lineas {
		items = append(items, model.PedidoItem{
			ProductoID:     l.ProductoID,
			ComboID:        l.ComboID,
			Nombre:         l.Nombre,
			Cantidad:       l.Cantidad,
			Precio:         l.Precio,
			PrecioOriginal: l.PrecioOriginal,
			DescuentoPct:   l.DescuentoPct,
		})
	}
	return items
}

func pedidoItemsToVentaItems(items []model.PedidoItem) []model.VentaItem {
	out := make([]model.VentaItem, 0, len(items))
	for _, item := range items {
		out = append(out, model.VentaItem{
			ProductoID:     item.ProductoID,
			ComboID:        item.ComboID,
			Nombre:         item.Nombre,
			Cantidad:       item.Cantidad,
			Precio:         item.Precio,
			PrecioOriginal: item.PrecioOriginal,
			DescuentoPct:   item.DescuentoPct,
		})
	}
	return out
}

func itemFacturableDePedido(pedido *model.Pedido, venta *model.Venta, cliente *model.Cliente) *model.ItemFacturable {
	lineas := make([]model.ItemFacturableLinea, 0, len(pedido.Items))
	for _, item := range pedido.Items {
		lineas = append(lineas, model.ItemFacturableLinea{
			Nombre:         item.Nombre,
			Cantidad:       item.Cantidad,
			Precio:         item.Precio,
			PrecioOriginal: item.PrecioOriginal,
			DescuentoPct:   item.DescuentoPct,
		})
	}
	return &model.ItemFacturable{
		ClienteID:     cliente.ID,
		ClienteNombre: cliente.Nombre,
		Origen:        model.OrigenPedido,
		Fecha:         time.Now(),
		Total:         pedido.Total,
		ReferenciaID:  &venta.ID,
		Lineas:        lineas,
	}
}
