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

var (
	// ErrRecepcionInvalida: lo recibido por línea debe quedar entre 0 y lo pedido.
	ErrRecepcionInvalida = errors.New("la cantidad recibida debe estar entre 0 y la cantidad pedida")
	ErrOrdenNoRecibible  = errors.New("la orden no está en un estado que permita esta transición")
)

// ComprasService maneja el ciclo de vida de órdenes de compra a proveedores:
// borrador → confirmado → en_transito → recibido | recibido_parcial.
// Los estados de recepción son terminales; la recepción crea filas nuevas en
// stock general (nunca fusiona con existentes) y deja snapshot de lo recibido.
type ComprasService interface {
	Crear(ctx context.Context, req dto.CrearOrdenCompraRequest) (*model.OrdenCompra, error)
	Confirmar(ctx context.Context, id uuid.UUID) error
	MarcarEnTransito(ctx context.Context, id uuid.UUID) error
	Recibir(ctx context.Context, id uuid.UUID, req dto.RecibirOrdenRequest) (*model.OrdenCompra, error)
	Detalle(ctx context.Context, id uuid.UUID) (*model.OrdenCompra, error)
	List(ctx context.Context, estado string, page, limit int) ([]model.OrdenCompra, int64, error)
}

type comprasService struct {
	repo             repository.OrdenCompraRepository
	proveedorRepo    repository.ProveedorRepository
	stockGeneralRepo repository.StockGeneralRepository
}

func NewComprasService(
	repo repository.OrdenCompraRepository,
	proveedorRepo repository.ProveedorRepository,
	stockGeneralRepo repository.StockGeneralRepository,
) ComprasService {
	return &comprasService{
		repo:             repo,
		proveedorRepo:    proveedorRepo,
		stockGeneralRepo: stockGeneralRepo,
	}
}

func (s *comprasService) Crear(ctx context.Context, req dto.CrearOrdenCompraRequest) (*model.OrdenCompra, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	proveedor, err := s.proveedorRepo.FindByID(ctx, proveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor %s no encontrado", req.ProveedorID)
	}

	total := decimal.Zero
	items := make([]model.OrdenCompraItem, 0, len(req.Items))
	for _, item := range req.Items {
		total = total.Add(item.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad))))
		items = append(items, model.OrdenCompraItem{
			Nombre:       item.Nombre,
			Cantidad:     item.Cantidad,
			UnidadMedida: item.UnidadMedida,
			Precio:       item.Precio,
			Categoria:    item.Categoria,
		})
	}

	orden := &model.OrdenCompra{
		ProveedorID:     proveedorID,
		ProveedorNombre: proveedor.RazonSocial,
		FechaOrden:      time.Now(),
		Total:           total,
		Estado:          model.OrdenBorrador,
		Items:           items,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(tx)
		if err != nil {
			return err
		}
		orden.Numero = numero
		return s.repo.CreateTx(tx, orden)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("numero", orden.Numero).Str("proveedor", proveedor.RazonSocial).Msg("orden de compra creada")
	return orden, nil
}

func (s *comprasService) Confirmar(ctx context.Context, id uuid.UUID) error {
	return s.transicionar(ctx, id, model.OrdenBorrador, model.OrdenConfirmada)
}

func (s *comprasService) MarcarEnTransito(ctx context.Context, id uuid.UUID) error {
	return s.transicionar(ctx, id, model.OrdenConfirmada, model.OrdenEnTransito)
}

func (s *comprasService) transicionar(ctx context.Context, id uuid.UUID, desde, hasta string) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		err := s.repo.UpdateEstadoTx(tx, id, desde, hasta)
		if errors.Is(err, repository.ErrTransicionInvalida) {
			return ErrOrdenNoRecibible
		}
		return err
	})
}

// Recibir cierra la orden declarando lo efectivamente llegado línea por
// línea. Cada línea recibida entra a stock general como fila nueva con su
// proveedor y fecha; los faltantes quedan en el snapshot de recepción.
func (s *comprasService) Recibir(ctx context.Context, id uuid.UUID, req dto.RecibirOrdenRequest) (*model.OrdenCompra, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if orden.Estado != model.OrdenConfirmada && orden.Estado != model.OrdenEnTransito {
		return nil, ErrOrdenNoRecibible
	}

	itemsPorID := make(map[uuid.UUID]model.OrdenCompraItem, len(orden.Items))
	for _, item := range orden.Items {
		itemsPorID[item.ID] = item
	}

	recibidoPorItem := make(map[uuid.UUID]int, len(req.Lineas))
	for _, linea := range req.Lineas {
		itemID, err := uuid.Parse(linea.ItemID)
		if err != nil {
			return nil, fmt.Errorf("item_id inválido: %w", err)
		}
		item, ok := itemsPorID[itemID]
		if !ok {
			return nil, fmt.Errorf("la línea %s no pertenece a la orden", linea.ItemID)
		}
		if linea.CantidadRecibida < 0 || linea.CantidadRecibida > item.Cantidad {
			return nil, fmt.Errorf("%w: %s (pedido %d, declarado %d)",
				ErrRecepcionInvalida, item.Nombre, item.Cantidad, linea.CantidadRecibida)
		}
		recibidoPorItem[itemID] = linea.CantidadRecibida
	}

	completa := true
	for _, item := range orden.Items {
		if recibidoPorItem[item.ID] < item.Cantidad {
			completa = false
			break
		}
	}
	estadoFinal := model.OrdenRecibida
	if !completa {
		estadoFinal = model.OrdenRecibidaParcial
	}

	now := time.Now()
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(tx, id, orden.Estado, estadoFinal); err != nil {
			if errors.Is(err, repository.ErrTransicionInvalida) {
				return ErrOrdenNoRecibible
			}
			return err
		}
		if err := s.repo.SetFechaRecepcionTx(tx, id, now); err != nil {
			return err
		}

		for _, item := range orden.Items {
			recibido := recibidoPorItem[item.ID]

			rec := &model.OrdenCompraRecepcion{
				OrdenCompraID:    id,
				Nombre:           item.Nombre,
				CantidadPedida:   item.Cantidad,
				CantidadRecibida: recibido,
			}
			if err := s.repo.CreateRecepcionTx(tx, rec); err != nil {
				return err
			}
			if recibido == 0 {
				continue
			}

			proveedorID := orden.ProveedorID
			notas := fmt.Sprintf("recepción OC Nº %08d", orden.Numero)
			entrada := &model.StockGeneral{
				Nombre:       item.Nombre,
				Categoria:    item.Categoria,
				Cantidad:     recibido,
				UnidadMedida: item.UnidadMedida,
				ProveedorID:  &proveedorID,
				FechaIngreso: now,
				Notas:        &notas,
			}
			if err := s.stockGeneralRepo.CreateTx(tx, entrada); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("numero", orden.Numero).
		Str("estado", estadoFinal).
		Msg("orden de compra recibida")
	return s.repo.FindByID(ctx, id)
}

func (s *comprasService) Detalle(ctx context.Context, id uuid.UUID) (*model.OrdenCompra, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *comprasService) List(ctx context.Context, estado string, page, limit int) ([]model.OrdenCompra, int64, error) {
	return s.repo.List(ctx, estado, page, limit)
}
