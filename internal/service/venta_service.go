package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type VentaService interface {
	// Cotizar compone el carrito sin persistir nada: permite previsualizar
	// promociones y totales antes de confirmar.
	Cotizar(ctx context.Context, items []dto.ItemCarritoRequest) (*dto.ResumenVentaResponse, error)

	// Registrar finaliza una venta de mostrador: compone, descuenta stock,
	// asienta caja (o cuenta corriente) y persiste el snapshot, todo en una
	// transacción.
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*model.Venta, error)

	Detalle(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
}

type ventaService struct {
	repo           repository.VentaRepository
	caja           CajaService
	cajaRepo       repository.CajaRepository
	inventario     InventarioService
	productoRepo   repository.ProductoRepository
	comboRepo      repository.ComboRepository
	promocionRepo  repository.PromocionRepository
	clienteRepo    repository.ClienteRepository
	itemFactRepo   repository.ItemFacturableRepository
}

func NewVentaService(
	repo repository.VentaRepository,
	caja CajaService,
	cajaRepo repository.CajaRepository,
	inventario InventarioService,
	productoRepo repository.ProductoRepository,
	comboRepo repository.ComboRepository,
	promocionRepo repository.PromocionRepository,
	clienteRepo repository.ClienteRepository,
	itemFactRepo repository.ItemFacturableRepository,
) VentaService {
	return &ventaService{
		repo:          repo,
		caja:          caja,
		cajaRepo:      cajaRepo,
		inventario:    inventario,
		productoRepo:  productoRepo,
		comboRepo:     comboRepo,
		promocionRepo: promocionRepo,
		clienteRepo:   clienteRepo,
		itemFactRepo:  itemFactRepo,
	}
}

// resolverCarrito valida cada línea contra el catálogo vivo.
func (s *ventaService) resolverCarrito(ctx context.Context, items []dto.ItemCarritoRequest) ([]LineaCarrito, error) {
	lineas := make([]LineaCarrito, 0, len(items))
	for _, item := range items {
		if (item.ProductoID == nil) == (item.ComboID == nil) {
			return nil, ErrLineaAmbigua
		}

		if item.ProductoID != nil {
			pid, err := uuid.Parse(*item.ProductoID)
			if err != nil {
				return nil, fmt.Errorf("producto_id inválido: %w", err)
			}
			p, err := s.productoRepo.FindByID(ctx, pid)
			if err != nil {
				return nil, fmt.Errorf("producto %s no encontrado", *item.ProductoID)
			}
			if !p.Activo {
				return nil, fmt.Errorf("%w: %s", ErrProductoInactivo, p.Nombre)
			}
			lineas = append(lineas, LineaCarrito{Producto: p, Cantidad: item.Cantidad})
			continue
		}

		cid, err := uuid.Parse(*item.ComboID)
		if err != nil {
			return nil, fmt.Errorf("combo_id inválido: %w", err)
		}
		c, err := s.comboRepo.FindByID(ctx, cid)
		if err != nil {
			return nil, fmt.Errorf("combo %s no encontrado", *item.ComboID)
		}
		if !c.Activo {
			return nil, fmt.Errorf("el combo %s está inactivo", c.Nombre)
		}
		lineas = append(lineas, LineaCarrito{Combo: c, Cantidad: item.Cantidad})
	}
	return lineas, nil
}

func (s *ventaService) componer(ctx context.Context, items []dto.ItemCarritoRequest) ([]LineaCarrito, *ResumenVenta, error) {
	lineas, err := s.resolverCarrito(ctx, items)
	if err != nil {
		return nil, nil, err
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

func (s *ventaService) Cotizar(ctx context.Context, items []dto.ItemCarritoRequest) (*dto.ResumenVentaResponse, error) {
	_, resumen, err := s.componer(ctx, items)
	if err != nil {
		return nil, err
	}
	return resumenToResponse(resumen), nil
}

func (s *ventaService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*model.Venta, error) {
	sesion, err := s.caja.SesionAbierta(ctx)
	if err != nil {
		return nil, err
	}

	var cliente *model.Cliente
	if req.MetodoPago == model.MetodoCuentaCorriente {
		if req.ClienteID == nil {
			return nil, ErrClienteRequerido
		}
		clienteID, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		cliente, err = s.clienteRepo.FindByID(ctx, clienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente %s no encontrado", *req.ClienteID)
		}
	}

	lineas, resumen, err := s.componer(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	venta := &model.Venta{
		SesionCajaID: sesion.ID,
		UsuarioID:    usuarioID,
		Origen:       "pos",
		MetodoPago:   req.MetodoPago,
		Subtotal:     resumen.Subtotal,
		Ahorro:       resumen.Ahorro,
		Total:        resumen.Total,
		Items:        lineasToVentaItems(resumen.Lineas),
	}
	if cliente != nil {
		venta.ClienteID = &cliente.ID
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, venta); err != nil {
			return err
		}

		if err := s.debitarStock(tx, lineas, model.StockVenta, venta.ID); err != nil {
			return err
		}

		if req.MetodoPago == model.MetodoCuentaCorriente {
			// El ítem queda esperando facturación, pero la venta se asienta
			// igual en la sesión: el total vendido la incluye aunque no entre
			// plata al cajón (el método de pago la deja fuera del efectivo).
			if err := s.itemFactRepo.CreateTx(tx, itemFacturableDeVenta(venta, cliente, resumen)); err != nil {
				return err
			}
		}

		metodo := req.MetodoPago
		return s.cajaRepo.CreateMovimientoTx(tx, &model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Tipo:         model.MovimientoVenta,
			MetodoPago:   &metodo,
			Monto:        resumen.Total,
			Descripcion:  fmt.Sprintf("venta mostrador (%d ítems)", len(resumen.Lineas)),
			ReferenciaID: &venta.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("metodo_pago", venta.MetodoPago).
		Str("total", venta.Total.StringFixed(2)).
		Msg("venta registrada")
	return venta, nil
}

// debitarStock baja cada línea del inventario; los combos se expanden a sus
// componentes, nunca se descuenta un "stock de combo".
func (s *ventaService) debitarStock(tx *gorm.DB, lineas []LineaCarrito, tipo string, referenciaID uuid.UUID) error {
	for _, linea := range lineas {
		if linea.Producto != nil {
			if err := s.inventario.AplicarDeltaTx(tx, linea.Producto.ID, -linea.Cantidad, tipo, "", &referenciaID); err != nil {
				return err
			}
			continue
		}
		for _, comp := range linea.Combo.Componentes {
			motivo := fmt.Sprintf("combo %s", linea.Combo.Nombre)
			if err := s.inventario.AplicarDeltaTx(tx, comp.ProductoID, -linea.Cantidad*comp.Cantidad, tipo, motivo, &referenciaID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ventaService) Detalle(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ventaService) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	return s.repo.List(ctx, filter)
}

// ── helpers de snapshot ──────────────────────────────────────────────────────

func lineasToVentaItems(lineas []LineaPreciada) []model.VentaItem {
	items := make([]model.VentaItem, 0, len(lineas))
	for _, l := range lineas {
		items = append(items, model.VentaItem{
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

func itemFacturableDeVenta(venta *model.Venta, cliente *model.Cliente, resumen *ResumenVenta) *model.ItemFacturable {
	lineas := make([]model.ItemFacturableLinea, 0, len(resumen.Lineas))
	for _, l := range resumen.Lineas {
		lineas = append(lineas, model.ItemFacturableLinea{
			Nombre:         l.Nombre,
			Cantidad:       l.Cantidad,
			Precio:         l.Precio,
			PrecioOriginal: l.PrecioOriginal,
			DescuentoPct:   l.DescuentoPct,
		})
	}
	return &model.ItemFacturable{
		ClienteID:     cliente.ID,
		ClienteNombre: cliente.Nombre,
		Origen:        model.OrigenVentaPOS,
		Fecha:         time.Now(),
		Total:         venta.Total,
		ReferenciaID:  &venta.ID,
		Lineas:        lineas,
	}
}

func resumenToResponse(r *ResumenVenta) *dto.ResumenVentaResponse {
	resp := &dto.ResumenVentaResponse{
		Subtotal: r.Subtotal,
		Ahorro:   r.Ahorro,
		Total:    r.Total,
	}
	for _, l := range r.Lineas {
		resp.Items = append(resp.Items, dto.LineaVentaResponse{
			Nombre:         l.Nombre,
			Cantidad:       l.Cantidad,
			Precio:         l.Precio,
			PrecioOriginal: l.PrecioOriginal,
			DescuentoPct:   l.DescuentoPct,
			Subtotal:       l.Subtotal,
		})
	}
	return resp
}
