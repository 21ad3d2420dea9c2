package service_test

// Fakes en memoria de los repositorios. Implementan el contrato completo de
// cada interfaz y devuelven DB() == nil, con lo que runTx ejecuta el cuerpo
// sin transacción real.

import (
	"context"
	"time"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── ProductoRepository ────────────────────────────────────────────────────────

type fakeProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *fakeProductoRepo) agregar(nombre string, stock int, precio float64) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Codigo:      "COD-" + uuid.NewString()[:8],
		Nombre:      nombre,
		Tipo:        "propio",
		StockActual: stock,
		Precio:      decimal.NewFromFloat(precio),
		Activo:      true,
	}
	r.productos[p.ID] = p
	return p
}

func (r *fakeProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for _, existente := range r.productos {
		if existente.Codigo == p.Codigo {
			return gorm.ErrDuplicatedKey
		}
	}
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *fakeProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo && p.Activo {
			copia := *p
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *fakeProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *fakeProductoRepo) AplicarDeltaTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok || p.StockActual+delta < 0 {
		return repository.ErrStockInsuficiente
	}
	p.StockActual += delta
	return nil
}

func (r *fakeProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*fakeProductoRepo)(nil)

// ── MovimientoStockRepository ─────────────────────────────────────────────────

type fakeMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *fakeMovimientoRepo) Create(_ context.Context, m *model.MovimientoStock) error {
	return r.CreateTx(nil, m)
}

func (r *fakeMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMovimientoRepo) List(_ context.Context, _, _ int) ([]model.MovimientoStock, int64, error) {
	return r.movimientos, int64(len(r.movimientos)), nil
}

var _ repository.MovimientoStockRepository = (*fakeMovimientoRepo)(nil)

// ── CajaRepository ────────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *fakeCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	for _, existente := range r.sesiones {
		if existente.Estado == model.SesionAbierta {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones[s.ID] = s
	return nil
}

// Las lecturas devuelven copias, igual que un scan real: mutar lo devuelto
// no toca el registro guardado.
func (r *fakeCajaRepo) FindSesionAbierta(_ context.Context) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.Estado == model.SesionAbierta {
			copia := *s
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *s
	copia.Movimientos = nil
	for _, m := range r.movimientos {
		if m.SesionCajaID == id {
			copia.Movimientos = append(copia.Movimientos, m)
		}
	}
	return &copia, nil
}

func (r *fakeCajaRepo) CerrarSesion(_ context.Context, s *model.SesionCaja) error {
	actual, ok := r.sesiones[s.ID]
	if !ok || actual.Estado != model.SesionAbierta {
		return repository.ErrTransicionInvalida
	}
	copia := *s
	r.sesiones[s.ID] = &copia
	return nil
}

func (r *fakeCajaRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	return r.CreateMovimientoTx(nil, m)
}

func (r *fakeCajaRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoCaja) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeCajaRepo) ListMovimientos(_ context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCajaRepo) SumVentasPorMetodo(_ context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID && m.Tipo == model.MovimientoVenta && m.MetodoPago != nil {
			sums[*m.MetodoPago] = sums[*m.MetodoPago].Add(m.Monto)
		}
	}
	return sums, nil
}

func (r *fakeCajaRepo) SumGastos(_ context.Context, sesionID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID && m.Tipo == model.MovimientoGasto {
			total = total.Add(m.Monto)
		}
	}
	return total, nil
}

func (r *fakeCajaRepo) ListSesiones(_ context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	out := make([]model.SesionCaja, 0, len(r.sesiones))
	for _, s := range r.sesiones {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCajaRepo) DB() *gorm.DB { return nil }

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

// ── VentaRepository ───────────────────────────────────────────────────────────

type fakeVentaRepo struct {
	ventas []model.Venta
}

func (r *fakeVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.ventas = append(r.ventas, *v)
	return nil
}

func (r *fakeVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	for i := range r.ventas {
		if r.ventas[i].ID == id {
			return &r.ventas[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	return r.ventas, int64(len(r.ventas)), nil
}

func (r *fakeVentaRepo) ListBySesion(_ context.Context, sesionID uuid.UUID) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.SesionCajaID == sesionID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*fakeVentaRepo)(nil)

// ── ComboRepository ───────────────────────────────────────────────────────────

type fakeComboRepo struct {
	combos map[uuid.UUID]*model.Combo
}

func newFakeComboRepo() *fakeComboRepo {
	return &fakeComboRepo{combos: make(map[uuid.UUID]*model.Combo)}
}

func (r *fakeComboRepo) Create(_ context.Context, c *model.Combo) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.combos[c.ID] = c
	return nil
}

func (r *fakeComboRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Combo, error) {
	c, ok := r.combos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeComboRepo) List(_ context.Context, soloActivos bool) ([]model.Combo, error) {
	var out []model.Combo
	for _, c := range r.combos {
		if soloActivos && !c.Activo {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeComboRepo) Update(_ context.Context, c *model.Combo) error {
	r.combos[c.ID] = c
	return nil
}

func (r *fakeComboRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.combos[id]; ok {
		c.Activo = false
	}
	return nil
}

var _ repository.ComboRepository = (*fakeComboRepo)(nil)

// ── PromocionRepository ───────────────────────────────────────────────────────

type fakePromocionRepo struct {
	promos []model.Promocion
}

func (r *fakePromocionRepo) Create(_ context.Context, p *model.Promocion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.promos = append(r.promos, *p)
	return nil
}

func (r *fakePromocionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Promocion, error) {
	for i := range r.promos {
		if r.promos[i].ID == id {
			return &r.promos[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePromocionRepo) ListActivas(_ context.Context) ([]model.Promocion, error) {
	var out []model.Promocion
	for _, p := range r.promos {
		if p.Activa {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePromocionRepo) List(_ context.Context) ([]model.Promocion, error) {
	return r.promos, nil
}

func (r *fakePromocionRepo) Update(_ context.Context, p *model.Promocion) error {
	for i := range r.promos {
		if r.promos[i].ID == p.ID {
			r.promos[i] = *p
		}
	}
	return nil
}

func (r *fakePromocionRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	for i := range r.promos {
		if r.promos[i].ID == id {
			r.promos[i].Activa = false
		}
	}
	return nil
}

var _ repository.PromocionRepository = (*fakePromocionRepo)(nil)

// ── ClienteRepository ─────────────────────────────────────────────────────────

type fakeClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *fakeClienteRepo) agregar(nombre string) *model.Cliente {
	c := &model.Cliente{ID: uuid.New(), Nombre: nombre, Activo: true}
	r.clientes[c.ID] = c
	return c
}

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeClienteRepo) List(_ context.Context, _ string, _, _ int) ([]model.Cliente, int64, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clientes[id]; ok {
		c.Activo = false
	}
	return nil
}

var _ repository.ClienteRepository = (*fakeClienteRepo)(nil)

// ── ItemFacturableRepository ──────────────────────────────────────────────────

type fakeItemFactRepo struct {
	items map[uuid.UUID]*model.ItemFacturable
	orden []uuid.UUID
}

func newFakeItemFactRepo() *fakeItemFactRepo {
	return &fakeItemFactRepo{items: make(map[uuid.UUID]*model.ItemFacturable)}
}

func (r *fakeItemFactRepo) Create(_ context.Context, item *model.ItemFacturable) error {
	return r.CreateTx(nil, item)
}

func (r *fakeItemFactRepo) CreateTx(_ *gorm.DB, item *model.ItemFacturable) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	r.orden = append(r.orden, item.ID)
	return nil
}

func (r *fakeItemFactRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.ItemFacturable, error) {
	var out []model.ItemFacturable
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeItemFactRepo) ListPendientes(_ context.Context, clienteID *uuid.UUID) ([]model.ItemFacturable, error) {
	var out []model.ItemFacturable
	for _, id := range r.orden {
		item := r.items[id]
		if item.Facturado {
			continue
		}
		if clienteID != nil && item.ClienteID != *clienteID {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeItemFactRepo) MarcarFacturadosTx(_ *gorm.DB, ids []uuid.UUID, facturaID uuid.UUID) error {
	// Primero se verifica el lote entero; si algún ítem ya fue tomado no se
	// toca ninguno, igual que el UPDATE condicional en batch.
	for _, id := range ids {
		item, ok := r.items[id]
		if !ok || item.Facturado {
			return repository.ErrItemsYaFacturados
		}
	}
	for _, id := range ids {
		fid := facturaID
		r.items[id].Facturado = true
		r.items[id].FacturaID = &fid
	}
	return nil
}

func (r *fakeItemFactRepo) LiberarByFacturaTx(_ *gorm.DB, facturaID uuid.UUID) error {
	for _, item := range r.items {
		if item.FacturaID != nil && *item.FacturaID == facturaID {
			item.Facturado = false
			item.FacturaID = nil
		}
	}
	return nil
}

var _ repository.ItemFacturableRepository = (*fakeItemFactRepo)(nil)

// ── FacturaRepository ─────────────────────────────────────────────────────────

type fakeFacturaRepo struct {
	facturas   map[uuid.UUID]*model.Factura
	nextNumero int64
}

func newFakeFacturaRepo() *fakeFacturaRepo {
	return &fakeFacturaRepo{facturas: make(map[uuid.UUID]*model.Factura)}
}

func (r *fakeFacturaRepo) CreateTx(_ *gorm.DB, f *model.Factura) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.facturas[f.ID] = f
	return nil
}

func (r *fakeFacturaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.facturas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (r *fakeFacturaRepo) List(_ context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if filter.Estado != "" && f.Estado != filter.Estado {
			continue
		}
		if filter.ClienteID != nil && f.ClienteID != *filter.ClienteID {
			continue
		}
		out = append(out, *f)
	}
	return out, int64(len(out)), nil
}

func (r *fakeFacturaRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]model.Factura, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if f.ClienteID == clienteID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFacturaRepo) NextNumero(_ *gorm.DB) (int64, error) {
	r.nextNumero++
	return r.nextNumero, nil
}

func (r *fakeFacturaRepo) CreatePagoTx(_ *gorm.DB, p *model.PagoFactura) error {
	f, ok := r.facturas[p.FacturaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.Pagos = append(f.Pagos, *p)
	return nil
}

func (r *fakeFacturaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, desde, hasta string) error {
	f, ok := r.facturas[id]
	if !ok || f.Estado != desde {
		return repository.ErrTransicionInvalida
	}
	f.Estado = hasta
	return nil
}

func (r *fakeFacturaRepo) ListPendientesVencidas(_ context.Context) ([]model.Factura, error) {
	var out []model.Factura
	now := time.Now()
	for _, f := range r.facturas {
		if f.Estado == model.FacturaPendiente && f.Vencimiento.Before(now) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFacturaRepo) DB() *gorm.DB { return nil }

var _ repository.FacturaRepository = (*fakeFacturaRepo)(nil)

// ── VendedorRepository ────────────────────────────────────────────────────────

type fakeVendedorRepo struct {
	vendedores   map[uuid.UUID]*model.Vendedor
	asignaciones []model.AsignacionStock
	ventas       []model.VentaVendedor
	devoluciones []model.DevolucionVendedor
}

func newFakeVendedorRepo() *fakeVendedorRepo {
	return &fakeVendedorRepo{vendedores: make(map[uuid.UUID]*model.Vendedor)}
}

func (r *fakeVendedorRepo) Create(_ context.Context, v *model.Vendedor) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vendedores[v.ID] = v
	return nil
}

func (r *fakeVendedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vendedor, error) {
	v, ok := r.vendedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeVendedorRepo) List(_ context.Context, soloActivos bool) ([]model.Vendedor, error) {
	var out []model.Vendedor
	for _, v := range r.vendedores {
		if soloActivos && !v.Activo {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *fakeVendedorRepo) Update(_ context.Context, v *model.Vendedor) error {
	r.vendedores[v.ID] = v
	return nil
}

func (r *fakeVendedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if v, ok := r.vendedores[id]; ok {
		v.Activo = false
	}
	return nil
}

func (r *fakeVendedorRepo) CreateAsignacionTx(_ *gorm.DB, a *model.AsignacionStock) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.asignaciones = append(r.asignaciones, *a)
	return nil
}

func (r *fakeVendedorRepo) CreateVentaTx(_ *gorm.DB, v *model.VentaVendedor) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas = append(r.ventas, *v)
	return nil
}

func (r *fakeVendedorRepo) CreateDevolucionTx(_ *gorm.DB, d *model.DevolucionVendedor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.devoluciones = append(r.devoluciones, *d)
	return nil
}

func (r *fakeVendedorRepo) ListAsignaciones(_ context.Context, vendedorID uuid.UUID) ([]model.AsignacionStock, error) {
	var out []model.AsignacionStock
	for _, a := range r.asignaciones {
		if a.VendedorID == vendedorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeVendedorRepo) ListVentas(_ context.Context, vendedorID uuid.UUID) ([]model.VentaVendedor, error) {
	var out []model.VentaVendedor
	for _, v := range r.ventas {
		if v.VendedorID == vendedorID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVendedorRepo) ListDevoluciones(_ context.Context, vendedorID uuid.UUID) ([]model.DevolucionVendedor, error) {
	var out []model.DevolucionVendedor
	for _, d := range r.devoluciones {
		if d.VendedorID == vendedorID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeVendedorRepo) DB() *gorm.DB { return nil }

var _ repository.VendedorRepository = (*fakeVendedorRepo)(nil)

// ── PedidoRepository ──────────────────────────────────────────────────────────

type fakePedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
}

func newFakePedidoRepo() *fakePedidoRepo {
	return &fakePedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *fakePedidoRepo) CreateTx(_ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PedidoID = p.ID
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *fakePedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePedidoRepo) List(_ context.Context, estado string, _, _ int) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if estado != "" && p.Estado != estado {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePedidoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, desde, hasta string) error {
	p, ok := r.pedidos[id]
	if !ok || p.Estado != desde {
		return repository.ErrTransicionInvalida
	}
	p.Estado = hasta
	return nil
}

func (r *fakePedidoRepo) UpdateTx(_ *gorm.DB, p *model.Pedido) error {
	r.pedidos[p.ID] = p
	return nil
}

func (r *fakePedidoRepo) SetMetodoPagoTx(_ *gorm.DB, id uuid.UUID, metodo string) error {
	p, ok := r.pedidos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.MetodoPago = &metodo
	return nil
}

func (r *fakePedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*fakePedidoRepo)(nil)

// ── OrdenCompraRepository ─────────────────────────────────────────────────────

type fakeOrdenCompraRepo struct {
	ordenes    map[uuid.UUID]*model.OrdenCompra
	nextNumero int64
}

func newFakeOrdenCompraRepo() *fakeOrdenCompraRepo {
	return &fakeOrdenCompraRepo{ordenes: make(map[uuid.UUID]*model.OrdenCompra)}
}

func (r *fakeOrdenCompraRepo) CreateTx(_ *gorm.DB, o *model.OrdenCompra) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrdenCompraID = o.ID
	}
	r.ordenes[o.ID] = o
	return nil
}

func (r *fakeOrdenCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OrdenCompra, error) {
	o, ok := r.ordenes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *fakeOrdenCompraRepo) List(_ context.Context, estado string, _, _ int) ([]model.OrdenCompra, int64, error) {
	var out []model.OrdenCompra
	for _, o := range r.ordenes {
		if estado != "" && o.Estado != estado {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrdenCompraRepo) NextNumero(_ *gorm.DB) (int64, error) {
	r.nextNumero++
	return r.nextNumero, nil
}

func (r *fakeOrdenCompraRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, desde, hasta string) error {
	o, ok := r.ordenes[id]
	if !ok || o.Estado != desde {
		return repository.ErrTransicionInvalida
	}
	o.Estado = hasta
	return nil
}

func (r *fakeOrdenCompraRepo) UpdateTx(_ *gorm.DB, o *model.OrdenCompra) error {
	r.ordenes[o.ID] = o
	return nil
}

func (r *fakeOrdenCompraRepo) CreateRecepcionTx(_ *gorm.DB, rec *model.OrdenCompraRecepcion) error {
	o, ok := r.ordenes[rec.OrdenCompraID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	o.Recepciones = append(o.Recepciones, *rec)
	return nil
}

func (r *fakeOrdenCompraRepo) SetFechaRecepcionTx(_ *gorm.DB, id uuid.UUID, fecha time.Time) error {
	o, ok := r.ordenes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.FechaRecepcion = &fecha
	return nil
}

func (r *fakeOrdenCompraRepo) DB() *gorm.DB { return nil }

var _ repository.OrdenCompraRepository = (*fakeOrdenCompraRepo)(nil)

// ── StockGeneralRepository ────────────────────────────────────────────────────

type fakeStockGeneralRepo struct {
	items map[uuid.UUID]*model.StockGeneral
	orden []uuid.UUID
}

func newFakeStockGeneralRepo() *fakeStockGeneralRepo {
	return &fakeStockGeneralRepo{items: make(map[uuid.UUID]*model.StockGeneral)}
}

func (r *fakeStockGeneralRepo) Create(_ context.Context, s *model.StockGeneral) error {
	return r.CreateTx(nil, s)
}

func (r *fakeStockGeneralRepo) CreateTx(_ *gorm.DB, s *model.StockGeneral) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.items[s.ID] = s
	r.orden = append(r.orden, s.ID)
	return nil
}

func (r *fakeStockGeneralRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockGeneral, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeStockGeneralRepo) List(_ context.Context, categoria string) ([]model.StockGeneral, error) {
	var out []model.StockGeneral
	for _, id := range r.orden {
		s := r.items[id]
		if categoria != "" && s.Categoria != categoria {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeStockGeneralRepo) Update(_ context.Context, s *model.StockGeneral) error {
	r.items[s.ID] = s
	return nil
}

func (r *fakeStockGeneralRepo) AjustarCantidad(_ context.Context, id uuid.UUID, delta int) error {
	return r.AjustarCantidadTx(nil, id, delta)
}

func (r *fakeStockGeneralRepo) AjustarCantidadTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	s, ok := r.items[id]
	if !ok || s.Cantidad+delta < 0 {
		return repository.ErrStockInsuficiente
	}
	s.Cantidad += delta
	return nil
}

func (r *fakeStockGeneralRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

var _ repository.StockGeneralRepository = (*fakeStockGeneralRepo)(nil)

// ── ProveedorRepository ───────────────────────────────────────────────────────

type fakeProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newFakeProveedorRepo() *fakeProveedorRepo {
	return &fakeProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *fakeProveedorRepo) agregar(razonSocial string) *model.Proveedor {
	p := &model.Proveedor{ID: uuid.New(), RazonSocial: razonSocial, CUIT: uuid.NewString()[:13], Activo: true}
	r.proveedores[p.ID] = p
	return p
}

func (r *fakeProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for _, existente := range r.proveedores {
		if existente.CUIT == p.CUIT {
			return gorm.ErrDuplicatedKey
		}
	}
	r.proveedores[p.ID] = p
	return nil
}

func (r *fakeProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProveedorRepo) List(_ context.Context, _ string, _, _ int) ([]model.Proveedor, int64, error) {
	out := make([]model.Proveedor, 0, len(r.proveedores))
	for _, p := range r.proveedores {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *fakeProveedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.proveedores[id]; ok {
		p.Activo = false
	}
	return nil
}

var _ repository.ProveedorRepository = (*fakeProveedorRepo)(nil)
