package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"
	"github.com/chris1983admin/quimexar/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type facturacionHarness struct {
	svc          service.FacturacionService
	facturaRepo  *fakeFacturaRepo
	itemFactRepo *fakeItemFactRepo
	clienteRepo  *fakeClienteRepo
}

func newFacturacionHarness() *facturacionHarness {
	h := &facturacionHarness{
		facturaRepo:  newFakeFacturaRepo(),
		itemFactRepo: newFakeItemFactRepo(),
		clienteRepo:  newFakeClienteRepo(),
	}
	h.svc = service.NewFacturacionService(h.facturaRepo, h.itemFactRepo, h.clienteRepo, nil, 30)
	return h
}

func (h *facturacionHarness) itemPendiente(t *testing.T, clienteID uuid.UUID, nombre string, total float64) *model.ItemFacturable {
	t.Helper()
	item := &model.ItemFacturable{
		ClienteID:     clienteID,
		ClienteNombre: nombre,
		Origen:        model.OrigenVentaPOS,
		Fecha:         time.Now(),
		Total:         decimal.NewFromFloat(total),
		Lineas: []model.ItemFacturableLinea{
			{Nombre: "Lavandina 1L", Cantidad: 2, Precio: decimal.NewFromFloat(total / 2), PrecioOriginal: decimal.NewFromFloat(total / 2)},
		},
	}
	require.NoError(t, h.itemFactRepo.Create(context.Background(), item))
	return item
}

func (h *facturacionHarness) generar(t *testing.T, clienteID uuid.UUID, items ...*model.ItemFacturable) *model.Factura {
	t.Helper()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID.String())
	}
	factura, err := h.svc.Generar(context.Background(), dto.GenerarFacturaRequest{
		ClienteID: clienteID.String(),
		Tipo:      "B",
		ItemIDs:   ids,
	})
	require.NoError(t, err)
	return factura
}

func TestGenerarFacturaTomaLosItems(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	a := h.itemPendiente(t, cliente.ID, cliente.Nombre, 1000)
	b := h.itemPendiente(t, cliente.ID, cliente.Nombre, 2500)

	factura := h.generar(t, cliente.ID, a, b)

	assert.Equal(t, int64(1), factura.Numero)
	assert.Equal(t, model.FacturaPendiente, factura.Estado)
	assert.True(t, factura.Total.Equal(decimal.NewFromInt(3500)))
	assert.Equal(t, cliente.Nombre, factura.ClienteNombre)
	assert.Len(t, factura.Items, 2, "una línea por renglón de cada ítem")

	// Los ítems quedan tomados y fuera del listado de pendientes.
	pendientes, _ := h.svc.ItemsPendientes(context.Background(), &cliente.ID)
	assert.Empty(t, pendientes)
}

func TestGenerarFacturaItemsDeOtroCliente(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	otro := h.clienteRepo.agregar("Verdulería Norte")
	ajeno := h.itemPendiente(t, otro.ID, otro.Nombre, 900)

	_, err := h.svc.Generar(context.Background(), dto.GenerarFacturaRequest{
		ClienteID: cliente.ID.String(),
		Tipo:      "B",
		ItemIDs:   []string{ajeno.ID.String()},
	})
	assert.ErrorIs(t, err, service.ErrItemsDeOtroCliente)
}

func TestGenerarFacturaItemYaFacturado(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	item := h.itemPendiente(t, cliente.ID, cliente.Nombre, 1200)

	h.generar(t, cliente.ID, item)

	_, err := h.svc.Generar(context.Background(), dto.GenerarFacturaRequest{
		ClienteID: cliente.ID.String(),
		Tipo:      "B",
		ItemIDs:   []string{item.ID.String()},
	})
	assert.ErrorIs(t, err, repository.ErrItemsYaFacturados)
}

func TestGenerarFacturaItemInexistente(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")

	_, err := h.svc.Generar(context.Background(), dto.GenerarFacturaRequest{
		ClienteID: cliente.ID.String(),
		Tipo:      "B",
		ItemIDs:   []string{uuid.NewString()},
	})
	assert.Error(t, err)
}

func TestNumeracionCorrelativa(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")

	primera := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 100))
	segunda := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 200))

	assert.Equal(t, int64(1), primera.Numero)
	assert.Equal(t, int64(2), segunda.Numero)
}

func TestGenerarFacturaConFechasPorDefecto(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	factura := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 1000))

	assert.WithinDuration(t, time.Now(), factura.Fecha, time.Minute)
	assert.WithinDuration(t, factura.Fecha.AddDate(0, 0, 30), factura.Vencimiento, time.Minute)
}

func TestGenerarFacturaConFechasExplicitas(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	item := h.itemPendiente(t, cliente.ID, cliente.Nombre, 1000)

	fecha := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	vencimiento := time.Date(2026, 4, 25, 0, 0, 0, 0, time.UTC)
	factura, err := h.svc.Generar(context.Background(), dto.GenerarFacturaRequest{
		ClienteID:   cliente.ID.String(),
		Tipo:        "B",
		ItemIDs:     []string{item.ID.String()},
		Fecha:       &fecha,
		Vencimiento: &vencimiento,
	})
	require.NoError(t, err)

	assert.True(t, factura.Fecha.Equal(fecha))
	assert.True(t, factura.Vencimiento.Equal(vencimiento))
}

func TestGenerarFacturaSoloFechaCorreVencimiento(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	item := h.itemPendiente(t, cliente.ID, cliente.Nombre, 500)

	// Sin vencimiento explícito corre los días configurados desde la fecha.
	fecha := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	factura, err := h.svc.Generar(context.Background(), dto.GenerarFacturaRequest{
		ClienteID: cliente.ID.String(),
		Tipo:      "B",
		ItemIDs:   []string{item.ID.String()},
		Fecha:     &fecha,
	})
	require.NoError(t, err)

	assert.True(t, factura.Vencimiento.Equal(fecha.AddDate(0, 0, 30)))
}

func TestPagoParcialNoCambiaEstado(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	factura := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 1000))

	actualizada, err := h.svc.RegistrarPago(context.Background(), factura.ID, dto.RegistrarPagoRequest{
		Monto:  decimal.NewFromInt(400),
		Metodo: model.MetodoEfectivo,
	})
	require.NoError(t, err)

	assert.Equal(t, model.FacturaPendiente, actualizada.Estado)
	require.Len(t, actualizada.Pagos, 1)
}

func TestPagoCompletoMarcaPagada(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	factura := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 1000))

	_, err := h.svc.RegistrarPago(context.Background(), factura.ID, dto.RegistrarPagoRequest{
		Monto:  decimal.NewFromInt(400),
		Metodo: model.MetodoEfectivo,
	})
	require.NoError(t, err)

	actualizada, err := h.svc.RegistrarPago(context.Background(), factura.ID, dto.RegistrarPagoRequest{
		Monto:  decimal.NewFromInt(600),
		Metodo: model.MetodoTransferencia,
	})
	require.NoError(t, err)
	assert.Equal(t, model.FacturaPagada, actualizada.Estado)
}

func TestPagoExcedeSaldo(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	factura := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 1000))

	_, err := h.svc.RegistrarPago(context.Background(), factura.ID, dto.RegistrarPagoRequest{
		Monto:  decimal.NewFromInt(700),
		Metodo: model.MetodoEfectivo,
	})
	require.NoError(t, err)

	_, err = h.svc.RegistrarPago(context.Background(), factura.ID, dto.RegistrarPagoRequest{
		Monto:  decimal.NewFromInt(500),
		Metodo: model.MetodoEfectivo,
	})
	assert.ErrorIs(t, err, service.ErrPagoExcedeSaldo)
}

func TestPagarFacturaPagadaFalla(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	factura := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 500))

	_, err := h.svc.RegistrarPago(context.Background(), factura.ID, dto.RegistrarPagoRequest{
		Monto:  decimal.NewFromInt(500),
		Metodo: model.MetodoEfectivo,
	})
	require.NoError(t, err)

	_, err = h.svc.RegistrarPago(context.Background(), factura.ID, dto.RegistrarPagoRequest{
		Monto:  decimal.NewFromInt(1),
		Metodo: model.MetodoEfectivo,
	})
	assert.ErrorIs(t, err, service.ErrFacturaNoPendiente)
}

func TestAnularLiberaItems(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	item := h.itemPendiente(t, cliente.ID, cliente.Nombre, 1500)
	factura := h.generar(t, cliente.ID, item)

	require.NoError(t, h.svc.Anular(context.Background(), factura.ID))

	detalle, _ := h.svc.Detalle(context.Background(), factura.ID)
	assert.Equal(t, model.FacturaAnulada, detalle.Estado)

	// El ítem vuelve a estar disponible para refacturar.
	pendientes, _ := h.svc.ItemsPendientes(context.Background(), &cliente.ID)
	require.Len(t, pendientes, 1)
	assert.Equal(t, item.ID, pendientes[0].ID)

	refacturada := h.generar(t, cliente.ID, item)
	assert.Equal(t, int64(2), refacturada.Numero)
}

func TestAnularFacturaPagadaFalla(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")
	factura := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 800))

	_, err := h.svc.RegistrarPago(context.Background(), factura.ID, dto.RegistrarPagoRequest{
		Monto:  decimal.NewFromInt(800),
		Metodo: model.MetodoEfectivo,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, h.svc.Anular(context.Background(), factura.ID), service.ErrFacturaNoPendiente)
}

func TestSaldoClienteDerivado(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")

	factura := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 2000))
	_, err := h.svc.RegistrarPago(context.Background(), factura.ID, dto.RegistrarPagoRequest{
		Monto:  decimal.NewFromInt(500),
		Metodo: model.MetodoEfectivo,
	})
	require.NoError(t, err)

	// Un ítem todavía sin facturar también suma al saldo.
	h.itemPendiente(t, cliente.ID, cliente.Nombre, 300)

	saldo, err := h.svc.SaldoCliente(context.Background(), cliente.ID)
	require.NoError(t, err)
	assert.True(t, saldo.Saldo.Equal(decimal.NewFromInt(1800)), "1500 de factura + 300 sin facturar")
	assert.Equal(t, 1, saldo.FacturasPendientes)
	assert.Equal(t, 1, saldo.ItemsSinFacturar)
}

func TestEstadoEfectivoVencida(t *testing.T) {
	h := newFacturacionHarness()

	vencida := &model.Factura{
		Estado:      model.FacturaPendiente,
		Vencimiento: time.Now().AddDate(0, 0, -1),
	}
	assert.Equal(t, model.FacturaVencida, h.svc.EstadoEfectivo(vencida))

	vigente := &model.Factura{
		Estado:      model.FacturaPendiente,
		Vencimiento: time.Now().AddDate(0, 0, 10),
	}
	assert.Equal(t, model.FacturaPendiente, h.svc.EstadoEfectivo(vigente))

	// La pagada nunca vence.
	pagada := &model.Factura{
		Estado:      model.FacturaPagada,
		Vencimiento: time.Now().AddDate(0, 0, -30),
	}
	assert.Equal(t, model.FacturaPagada, h.svc.EstadoEfectivo(pagada))
}

func TestListFiltraVencidasEnMemoria(t *testing.T) {
	h := newFacturacionHarness()
	cliente := h.clienteRepo.agregar("Almacén Don Pepe")

	vigente := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 100))
	vencida := h.generar(t, cliente.ID, h.itemPendiente(t, cliente.ID, cliente.Nombre, 200))

	// Se fuerza el vencimiento en el pasado directamente sobre el fake.
	h.facturaRepo.facturas[vencida.ID].Vencimiento = time.Now().AddDate(0, 0, -5)

	facturas, total, err := h.svc.List(context.Background(), dto.FacturaFilter{Estado: model.FacturaVencida})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, facturas, 1)
	assert.Equal(t, vencida.ID, facturas[0].ID)
	assert.NotEqual(t, vigente.ID, facturas[0].ID)
}
