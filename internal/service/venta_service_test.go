package service_test

import (
	"context"
	"testing"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaHarness struct {
	svc          service.VentaService
	caja         service.CajaService
	cajaRepo     *fakeCajaRepo
	ventaRepo    *fakeVentaRepo
	productoRepo *fakeProductoRepo
	comboRepo    *fakeComboRepo
	promoRepo    *fakePromocionRepo
	clienteRepo  *fakeClienteRepo
	itemFactRepo *fakeItemFactRepo
	movRepo      *fakeMovimientoRepo
}

func newVentaHarness() *ventaHarness {
	h := &ventaHarness{
		cajaRepo:     newFakeCajaRepo(),
		ventaRepo:    &fakeVentaRepo{},
		productoRepo: newFakeProductoRepo(),
		comboRepo:    newFakeComboRepo(),
		promoRepo:    &fakePromocionRepo{},
		clienteRepo:  newFakeClienteRepo(),
		itemFactRepo: newFakeItemFactRepo(),
		movRepo:      &fakeMovimientoRepo{},
	}
	h.caja = service.NewCajaService(h.cajaRepo)
	inventario := service.NewInventarioService(h.productoRepo, h.movRepo, newFakeStockGeneralRepo())
	h.svc = service.NewVentaService(
		h.ventaRepo, h.caja, h.cajaRepo, inventario,
		h.productoRepo, h.comboRepo, h.promoRepo, h.clienteRepo, h.itemFactRepo,
	)
	return h
}

func (h *ventaHarness) abrir(t *testing.T) {
	t.Helper()
	_, err := h.caja.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
}

func lineaProducto(id uuid.UUID, cantidad int) dto.ItemCarritoRequest {
	s := id.String()
	return dto.ItemCarritoRequest{ProductoID: &s, Cantidad: cantidad}
}

func lineaCombo(id uuid.UUID, cantidad int) dto.ItemCarritoRequest {
	s := id.String()
	return dto.ItemCarritoRequest{ComboID: &s, Cantidad: cantidad}
}

func TestRegistrarVentaSinSesionAbierta(t *testing.T) {
	h := newVentaHarness()
	p := h.productoRepo.agregar("Lavandina 1L", 10, 500)

	_, err := h.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemCarritoRequest{lineaProducto(p.ID, 1)},
		MetodoPago: model.MetodoEfectivo,
	})
	assert.ErrorIs(t, err, service.ErrSinSesionAbierta)
}

func TestRegistrarVentaEfectivoAsientaCaja(t *testing.T) {
	h := newVentaHarness()
	h.abrir(t)
	p := h.productoRepo.agregar("Detergente 750ml", 10, 1200)

	venta, err := h.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemCarritoRequest{lineaProducto(p.ID, 2)},
		MetodoPago: model.MetodoEfectivo,
	})
	require.NoError(t, err)

	assert.Equal(t, "pos", venta.Origen)
	assert.True(t, venta.Total.Equal(decimal.NewFromInt(2400)))

	// Stock debitado y movimiento de caja con referencia a la venta.
	actualizado, _ := h.productoRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 8, actualizado.StockActual)

	require.Len(t, h.cajaRepo.movimientos, 1)
	mov := h.cajaRepo.movimientos[0]
	assert.Equal(t, model.MovimientoVenta, mov.Tipo)
	require.NotNil(t, mov.MetodoPago)
	assert.Equal(t, model.MetodoEfectivo, *mov.MetodoPago)
	assert.True(t, mov.Monto.Equal(venta.Total))
	require.NotNil(t, mov.ReferenciaID)
	assert.Equal(t, venta.ID, *mov.ReferenciaID)

	// Nada quedó en cuenta corriente.
	pendientes, _ := h.itemFactRepo.ListPendientes(context.Background(), nil)
	assert.Empty(t, pendientes)
}

func TestRegistrarVentaCuentaCorrienteSinCliente(t *testing.T) {
	h := newVentaHarness()
	h.abrir(t)
	p := h.productoRepo.agregar("Cera 1L", 5, 900)

	_, err := h.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemCarritoRequest{lineaProducto(p.ID, 1)},
		MetodoPago: model.MetodoCuentaCorriente,
	})
	assert.ErrorIs(t, err, service.ErrClienteRequerido)
}

func TestRegistrarVentaCuentaCorrienteGeneraItemFacturable(t *testing.T) {
	h := newVentaHarness()
	h.abrir(t)
	p := h.productoRepo.agregar("Jabón líquido 5L", 10, 3000)
	cliente := h.clienteRepo.agregar("Lavadero El Rápido")
	clienteID := cliente.ID.String()

	venta, err := h.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemCarritoRequest{lineaProducto(p.ID, 3)},
		MetodoPago: model.MetodoCuentaCorriente,
		ClienteID:  &clienteID,
	})
	require.NoError(t, err)

	// La venta queda asentada en la sesión aunque no entre plata: el cierre
	// la necesita para el total, discriminada como cuenta corriente.
	require.Len(t, h.cajaRepo.movimientos, 1)
	mov := h.cajaRepo.movimientos[0]
	require.NotNil(t, mov.MetodoPago)
	assert.Equal(t, model.MetodoCuentaCorriente, *mov.MetodoPago)
	assert.True(t, mov.Monto.Equal(decimal.NewFromInt(9000)))

	pendientes, err := h.itemFactRepo.ListPendientes(context.Background(), &cliente.ID)
	require.NoError(t, err)
	require.Len(t, pendientes, 1)

	item := pendientes[0]
	assert.Equal(t, model.OrigenVentaPOS, item.Origen)
	assert.Equal(t, cliente.Nombre, item.ClienteNombre)
	assert.True(t, item.Total.Equal(decimal.NewFromInt(9000)))
	assert.False(t, item.Facturado)
	require.NotNil(t, item.ReferenciaID)
	assert.Equal(t, venta.ID, *item.ReferenciaID)
	require.Len(t, item.Lineas, 1)
	assert.Equal(t, 3, item.Lineas[0].Cantidad)
}

func TestRegistrarVentaComboExpandeComponentes(t *testing.T) {
	h := newVentaHarness()
	h.abrir(t)
	lavandina := h.productoRepo.agregar("Lavandina 1L", 10, 500)
	detergente := h.productoRepo.agregar("Detergente 750ml", 10, 1200)

	combo := &model.Combo{
		Nombre: "Combo limpieza",
		Precio: decimal.NewFromInt(1500),
		Activo: true,
		Componentes: []model.ComboComponente{
			{ProductoID: lavandina.ID, Cantidad: 2, Producto: lavandina},
			{ProductoID: detergente.ID, Cantidad: 1, Producto: detergente},
		},
	}
	require.NoError(t, h.comboRepo.Create(context.Background(), combo))

	_, err := h.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemCarritoRequest{lineaCombo(combo.ID, 2)},
		MetodoPago: model.MetodoTarjeta,
	})
	require.NoError(t, err)

	// El combo no tiene stock propio: bajan los componentes, multiplicados.
	l, _ := h.productoRepo.FindByID(context.Background(), lavandina.ID)
	d, _ := h.productoRepo.FindByID(context.Background(), detergente.ID)
	assert.Equal(t, 6, l.StockActual)
	assert.Equal(t, 8, d.StockActual)
	assert.Len(t, h.movRepo.movimientos, 2)
}

func TestRegistrarVentaStockInsuficiente(t *testing.T) {
	h := newVentaHarness()
	h.abrir(t)
	p := h.productoRepo.agregar("Suavizante 900ml", 1, 1000)

	_, err := h.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemCarritoRequest{lineaProducto(p.ID, 5)},
		MetodoPago: model.MetodoEfectivo,
	})
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)
}

func TestRegistrarVentaProductoInactivo(t *testing.T) {
	h := newVentaHarness()
	h.abrir(t)
	p := h.productoRepo.agregar("Producto viejo", 10, 100)
	require.NoError(t, h.productoRepo.SoftDelete(context.Background(), p.ID))

	_, err := h.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemCarritoRequest{lineaProducto(p.ID, 1)},
		MetodoPago: model.MetodoEfectivo,
	})
	assert.ErrorIs(t, err, service.ErrProductoInactivo)
}

func TestCotizarNoPersisteNada(t *testing.T) {
	h := newVentaHarness()
	p := h.productoRepo.agregar("Desengrasante 500ml", 10, 800)
	paga := 1
	require.NoError(t, h.promoRepo.Create(context.Background(), &model.Promocion{
		ProductoID:     p.ID,
		Tipo:           model.PromoBuyXGetY,
		CantidadCompra: 2,
		CantidadPaga:   &paga,
		Activa:         true,
	}))

	resumen, err := h.svc.Cotizar(context.Background(), []dto.ItemCarritoRequest{
		lineaProducto(p.ID, 2),
	})
	require.NoError(t, err)

	assert.True(t, resumen.Subtotal.Equal(decimal.NewFromInt(1600)))
	assert.True(t, resumen.Total.Equal(decimal.NewFromInt(800)))
	assert.True(t, resumen.Ahorro.Equal(decimal.NewFromInt(800)))

	// Cotizar no toca stock ni ventas.
	actualizado, _ := h.productoRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 10, actualizado.StockActual)
	assert.Empty(t, h.ventaRepo.ventas)
}

func TestRegistrarVentaAplicaPromocionVigente(t *testing.T) {
	h := newVentaHarness()
	h.abrir(t)
	p := h.productoRepo.agregar("Trapo de piso", 20, 600)
	pct := decimal.NewFromInt(50)
	require.NoError(t, h.promoRepo.Create(context.Background(), &model.Promocion{
		ProductoID:          p.ID,
		Tipo:                model.PromoPorcentajeSegunda,
		PorcentajeDescuento: &pct,
		Activa:              true,
	}))

	venta, err := h.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemCarritoRequest{lineaProducto(p.ID, 2)},
		MetodoPago: model.MetodoEfectivo,
	})
	require.NoError(t, err)

	assert.True(t, venta.Subtotal.Equal(decimal.NewFromInt(1200)))
	assert.True(t, venta.Total.Equal(decimal.NewFromInt(900)))
	assert.True(t, venta.Ahorro.Equal(decimal.NewFromInt(300)))
	require.Len(t, venta.Items, 1)
	assert.True(t, venta.Items[0].PrecioOriginal.Equal(decimal.NewFromInt(600)))
}
