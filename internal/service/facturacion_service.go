package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"
	"github.com/chris1983admin/quimexar/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FacturacionService lleva la cuenta corriente: agrupa ítems facturables en
// facturas numeradas, registra pagos y deriva el saldo del cliente leyendo,
// nunca acumulando.
type FacturacionService interface {
	ItemsPendientes(ctx context.Context, clienteID *uuid.UUID) ([]model.ItemFacturable, error)

	// Generar emite una factura sobre un lote de ítems pendientes del mismo
	// cliente. Numeración por secuencia de base y volteo de ítems en la misma
	// transacción: o sale todo o no sale nada.
	Generar(ctx context.Context, req dto.GenerarFacturaRequest) (*model.Factura, error)

	RegistrarPago(ctx context.Context, facturaID uuid.UUID, req dto.RegistrarPagoRequest) (*model.Factura, error)

	// Anular libera los ítems de la factura para refacturar. Sólo facturas
	// pendientes; una pagada no se anula.
	Anular(ctx context.Context, facturaID uuid.UUID) error

	SaldoCliente(ctx context.Context, clienteID uuid.UUID) (*dto.SaldoClienteResponse, error)
	Detalle(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error)

	// EstadoEfectivo superpone "vencida" sobre pendientes con fecha pasada.
	// Nunca se persiste.
	EstadoEfectivo(f *model.Factura) string
}

type facturacionService struct {
	repo            repository.FacturaRepository
	itemRepo        repository.ItemFacturableRepository
	clienteRepo     repository.ClienteRepository
	dispatcher      *worker.Dispatcher
	diasVencimiento int
}

func NewFacturacionService(
	repo repository.FacturaRepository,
	itemRepo repository.ItemFacturableRepository,
	clienteRepo repository.ClienteRepository,
	dispatcher *worker.Dispatcher,
	diasVencimiento int,
) FacturacionService {
	if diasVencimiento <= 0 {
		diasVencimiento = 30
	}
	return &facturacionService{
		repo:            repo,
		itemRepo:        itemRepo,
		clienteRepo:     clienteRepo,
		dispatcher:      dispatcher,
		diasVencimiento: diasVencimiento,
	}
}

func (s *facturacionService) ItemsPendientes(ctx context.Context, clienteID *uuid.UUID) ([]model.ItemFacturable, error) {
	return s.itemRepo.ListPendientes(ctx, clienteID)
}

func (s *facturacionService) Generar(ctx context.Context, req dto.GenerarFacturaRequest) (*model.Factura, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente %s no encontrado", req.ClienteID)
	}

	ids := make([]uuid.UUID, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("item_id inválido: %w", err)
		}
		ids = append(ids, id)
	}

	items, err := s.itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(items) != len(ids) {
		return nil, errors.New("algún ítem facturable no existe")
	}

	total := decimal.Zero
	for _, item := range items {
		if item.ClienteID != clienteID {
			return nil, ErrItemsDeOtroCliente
		}
		if item.Facturado {
			return nil, repository.ErrItemsYaFacturados
		}
		total = total.Add(item.Total)
	}

	fecha := time.Now()
	if req.Fecha != nil {
		fecha = *req.Fecha
	}
	vencimiento := fecha.AddDate(0, 0, s.diasVencimiento)
	if req.Vencimiento != nil {
		vencimiento = *req.Vencimiento
	}

	factura := &model.Factura{
		Tipo:          req.Tipo,
		ClienteID:     clienteID,
		ClienteNombre: cliente.Nombre,
		Fecha:         fecha,
		Vencimiento:   vencimiento,
		Total:         total,
		Estado:        model.FacturaPendiente,
		Items:         facturaItemsDe(items),
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(tx)
		if err != nil {
			return err
		}
		factura.Numero = numero

		if err := s.repo.CreateTx(tx, factura); err != nil {
			return err
		}
		// El volteo condicional es la defensa real contra doble facturación:
		// si otro proceso ya tomó un ítem, el lote entero se revierte.
		return s.itemRepo.MarcarFacturadosTx(tx, ids, factura.ID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("numero", factura.Numero).
		Str("cliente_id", clienteID.String()).
		Int("items", len(items)).
		Str("total", total.StringFixed(2)).
		Msg("factura emitida")

	if s.dispatcher != nil {
		var email string
		if req.EnviarEmail && cliente.Email != nil {
			email = *cliente.Email
		}
		job := worker.FacturacionJob{FacturaID: factura.ID.String(), Email: email}
		if err := s.dispatcher.EnqueueFacturacion(ctx, job); err != nil {
			// La factura ya está emitida; el PDF puede regenerarse después.
			log.Error().Err(err).Int64("numero", factura.Numero).Msg("no se pudo encolar el job de facturación")
		}
	}
	return factura, nil
}

func (s *facturacionService) RegistrarPago(ctx context.Context, facturaID uuid.UUID, req dto.RegistrarPagoRequest) (*model.Factura, error) {
	factura, err := s.repo.FindByID(ctx, facturaID)
	if err != nil {
		return nil, err
	}
	if factura.Estado != model.FacturaPendiente {
		return nil, ErrFacturaNoPendiente
	}

	pagado := decimal.Zero
	for _, p := range factura.Pagos {
		pagado = pagado.Add(p.Monto)
	}
	saldo := factura.Total.Sub(pagado)
	if req.Monto.GreaterThan(saldo) {
		return nil, ErrPagoExcedeSaldo
	}

	pago := &model.PagoFactura{
		FacturaID: facturaID,
		Monto:     req.Monto,
		Metodo:    req.Metodo,
		Fecha:     time.Now(),
	}
	// Pago y cambio de estado comprometen juntos: un pago que completa el
	// total nunca puede quedar asentado con la factura todavía pendiente.
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreatePagoTx(tx, pago); err != nil {
			return err
		}
		if pagado.Add(req.Monto).GreaterThanOrEqual(factura.Total) {
			if err := s.repo.UpdateEstadoTx(tx, facturaID, model.FacturaPendiente, model.FacturaPagada); err != nil {
				if errors.Is(err, repository.ErrTransicionInvalida) {
					return ErrFacturaNoPendiente
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, facturaID)
}

func (s *facturacionService) Anular(ctx context.Context, facturaID uuid.UUID) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(tx, facturaID, model.FacturaPendiente, model.FacturaAnulada); err != nil {
			if errors.Is(err, repository.ErrTransicionInvalida) {
				return ErrFacturaNoPendiente
			}
			return err
		}
		return s.itemRepo.LiberarByFacturaTx(tx, facturaID)
	})
	if err != nil {
		return err
	}
	log.Info().Str("factura_id", facturaID.String()).Msg("factura anulada, ítems liberados")
	return nil
}

// SaldoCliente = saldo de facturas pendientes + ítems aún sin facturar.
// Siempre derivado: no existe columna de saldo que pueda desfasarse.
func (s *facturacionService) SaldoCliente(ctx context.Context, clienteID uuid.UUID) (*dto.SaldoClienteResponse, error) {
	facturas, err := s.repo.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}

	saldo := decimal.Zero
	pendientes := 0
	for _, f := range facturas {
		if f.Estado != model.FacturaPendiente {
			continue
		}
		pendientes++
		pagado := decimal.Zero
		for _, p := range f.Pagos {
			pagado = pagado.Add(p.Monto)
		}
		saldo = saldo.Add(f.Total.Sub(pagado))
	}

	items, err := s.itemRepo.ListPendientes(ctx, &clienteID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		saldo = saldo.Add(item.Total)
	}

	return &dto.SaldoClienteResponse{
		ClienteID:          clienteID.String(),
		Saldo:              saldo,
		FacturasPendientes: pendientes,
		ItemsSinFacturar:   len(items),
	}, nil
}

func (s *facturacionService) Detalle(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *facturacionService) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	// "vencida" no existe en base: se filtra sobre pendientes leídas.
	if filter.Estado == model.FacturaVencida {
		inner := filter
		inner.Estado = model.FacturaPendiente
		facturas, _, err := s.repo.List(ctx, inner)
		if err != nil {
			return nil, 0, err
		}
		var vencidas []model.Factura
		for _, f := range facturas {
			if s.EstadoEfectivo(&f) == model.FacturaVencida {
				vencidas = append(vencidas, f)
			}
		}
		return vencidas, int64(len(vencidas)), nil
	}
	return s.repo.List(ctx, filter)
}

func (s *facturacionService) EstadoEfectivo(f *model.Factura) string {
	if f.Estado == model.FacturaPendiente && f.Vencimiento.Before(time.Now()) {
		return model.FacturaVencida
	}
	return f.Estado
}

func facturaItemsDe(items []model.ItemFacturable) []model.FacturaItem {
	var out []model.FacturaItem
	for _, item := range items {
		for _, linea := range item.Lineas {
			out = append(out, model.FacturaItem{
				Nombre:       linea.Nombre,
				Cantidad:     linea.Cantidad,
				Precio:       linea.Precio,
				DescuentoPct: linea.DescuentoPct,
			})
		}
	}
	return out
}
