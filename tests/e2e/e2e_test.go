//go:build integration

package e2e

// Pruebas de integración de punta a punta contra Postgres y Redis reales
// levantados con testcontainers.
// Correr con: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris1983admin/quimexar/internal/config"
	"github.com/chris1983admin/quimexar/internal/infra"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/router"
	"github.com/chris1983admin/quimexar/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Armado del entorno ───────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("quimexar_test"),
		tcPostgres.WithUsername("quimexar"),
		tcPostgres.WithPassword("quimexar"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		WorkerPoolSize:     1,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		PDFStoragePath:     t.TempDir(),
		DiasVencimiento:    30,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("quimexar2026"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "admin.e2e",
		Nombre:       "Admin E2E",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}).Error)

	srv := httptest.NewServer(router.New(cfg, db, rdb, worker.NewDispatcher(rdb)))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "quimexar2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.Token)

	return &testEnv{server: srv, token: login.Token}
}

func (env *testEnv) crearProducto(t *testing.T, nombre, codigo string, stock int, precio float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo":        codigo,
			"nombre":        nombre,
			"tipo":          "propio",
			"stock_inicial": stock,
			"unidad_medida": "unidad",
			"precio":        precio,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &p)
	require.NotEmpty(t, p.ID)
	return p.ID
}

func (env *testEnv) abrirCaja(t *testing.T, montoInicial float64) {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": montoInicial}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Ciclo completo de mostrador: producto → caja → venta → arqueo.
func TestE2E_VentaMostradorYCierre(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "Lavandina 1L", "LAV-001", 20, 500)
	env.abrirCaja(t, 1000)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items":       []map[string]any{{"producto_id": prodID, "cantidad": 3}},
			"metodo_pago": "efectivo",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		Total  string `json:"Total"`
		Origen string `json:"Origen"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, "pos", venta.Origen)
	assert.Equal(t, "1500", venta.Total)

	// El precio público refleja el stock ya debitado.
	precioResp := do(t, env.server, "GET", "/v1/precios/LAV-001", nil, "")
	require.Equal(t, http.StatusOK, precioResp.StatusCode)
	var precio struct {
		Stock  int    `json:"stock"`
		Nombre string `json:"nombre"`
	}
	decodeJSON(t, precioResp, &precio)
	assert.Equal(t, 17, precio.Stock)

	// Arqueo a ciegas: lo contado coincide con lo esperado.
	cierreResp := do(t, env.server, "POST", "/v1/caja/cerrar",
		jsonBody(t, map[string]any{
			"contado_efectivo":      2500,
			"contado_tarjeta":       0,
			"contado_transferencia": 0,
		}), env.token)
	require.Equal(t, http.StatusOK, cierreResp.StatusCode)
	var cierre struct {
		Diferencias struct {
			Clasificacion string `json:"clasificacion"`
		} `json:"diferencias"`
	}
	decodeJSON(t, cierreResp, &cierre)
	assert.Equal(t, "normal", cierre.Diferencias.Clasificacion)
}

// Pedido a domicilio: reserva de stock al crear, venta al cobrar.
func TestE2E_PedidoReservaYCobro(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "Detergente 750ml", "DET-001", 10, 1200)
	env.abrirCaja(t, 500)

	pedidoResp := do(t, env.server, "POST", "/v1/pedidos",
		jsonBody(t, map[string]any{
			"cliente_nombre":    "Doña Marta",
			"direccion_entrega": "Av. Mitre 1234",
			"items":             []map[string]any{{"producto_id": prodID, "cantidad": 4}},
		}), env.token)
	require.Equal(t, http.StatusCreated, pedidoResp.StatusCode)
	var pedido struct {
		ID string `json:"id"`
	}
	decodeJSON(t, pedidoResp, &pedido)

	// El stock quedó reservado.
	precioResp := do(t, env.server, "GET", "/v1/precios/DET-001", nil, "")
	var precio struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, precioResp, &precio)
	assert.Equal(t, 6, precio.Stock)

	cobroResp := do(t, env.server, "POST", "/v1/pedidos/"+pedido.ID+"/cobrar",
		jsonBody(t, map[string]any{"metodo_pago": "efectivo"}), env.token)
	require.Equal(t, http.StatusOK, cobroResp.StatusCode)
	var ventaPedido struct {
		Origen string `json:"Origen"`
		Total  string `json:"Total"`
	}
	decodeJSON(t, cobroResp, &ventaPedido)
	assert.Equal(t, "pedido", ventaPedido.Origen)
	assert.Equal(t, "4800", ventaPedido.Total)

	// Cobrado no se cancela.
	cancelResp := do(t, env.server, "POST", "/v1/pedidos/"+pedido.ID+"/cancelar", nil, env.token)
	assert.Equal(t, http.StatusConflict, cancelResp.StatusCode)
	cancelResp.Body.Close()
}

// Cuenta corriente: venta → ítem facturable → factura → pago total.
func TestE2E_CuentaCorrienteFacturacion(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "Jabón líquido 5L", "JAB-005", 15, 3000)
	env.abrirCaja(t, 1000)

	clienteResp := do(t, env.server, "POST", "/v1/clientes",
		jsonBody(t, map[string]any{"nombre": "Lavadero El Rápido"}), env.token)
	require.Equal(t, http.StatusCreated, clienteResp.StatusCode)
	var cliente struct {
		ID string `json:"id"`
	}
	decodeJSON(t, clienteResp, &cliente)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items":       []map[string]any{{"producto_id": prodID, "cantidad": 2}},
			"metodo_pago": "cuenta_corriente",
			"cliente_id":  cliente.ID,
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	ventaResp.Body.Close()

	itemsResp := do(t, env.server, "GET", "/v1/facturas/items-pendientes?cliente_id="+cliente.ID, nil, env.token)
	require.Equal(t, http.StatusOK, itemsResp.StatusCode)
	var items []struct {
		ID string `json:"id"`
	}
	decodeJSON(t, itemsResp, &items)
	require.Len(t, items, 1)

	factResp := do(t, env.server, "POST", "/v1/facturas",
		jsonBody(t, map[string]any{
			"cliente_id": cliente.ID,
			"tipo":       "B",
			"item_ids":   []string{items[0].ID},
		}), env.token)
	require.Equal(t, http.StatusCreated, factResp.StatusCode)
	var factura struct {
		ID     string `json:"id"`
		Numero int64  `json:"numero"`
		Total  string `json:"Total"`
	}
	decodeJSON(t, factResp, &factura)
	assert.Equal(t, int64(1), factura.Numero)

	saldoResp := do(t, env.server, "GET", "/v1/clientes/"+cliente.ID+"/saldo", nil, env.token)
	require.Equal(t, http.StatusOK, saldoResp.StatusCode)
	var saldo struct {
		Saldo              string `json:"saldo"`
		FacturasPendientes int    `json:"facturas_pendientes"`
	}
	decodeJSON(t, saldoResp, &saldo)
	assert.Equal(t, "6000", saldo.Saldo)
	assert.Equal(t, 1, saldo.FacturasPendientes)

	pagoResp := do(t, env.server, "POST", "/v1/facturas/"+factura.ID+"/pagos",
		jsonBody(t, map[string]any{"monto": 6000, "metodo": "transferencia"}), env.token)
	require.Equal(t, http.StatusOK, pagoResp.StatusCode)
	var pagada struct {
		Estado string `json:"Estado"`
	}
	decodeJSON(t, pagoResp, &pagada)
	assert.Equal(t, "pagada", pagada.Estado)
}

// Orden de compra: ciclo de estados y carga de stock general al recibir.
func TestE2E_OrdenCompraRecepcion(t *testing.T) {
	env := setupTestEnv(t)

	provResp := do(t, env.server, "POST", "/v1/proveedores",
		jsonBody(t, map[string]any{"razon_social": "Química del Sur SRL", "cuit": "30-11222333-9"}), env.token)
	require.Equal(t, http.StatusCreated, provResp.StatusCode)
	var prov struct {
		ID string `json:"id"`
	}
	decodeJSON(t, provResp, &prov)

	ocResp := do(t, env.server, "POST", "/v1/ordenes-compra",
		jsonBody(t, map[string]any{
			"proveedor_id": prov.ID,
			"items": []map[string]any{
				{"nombre": "Soda cáustica", "cantidad": 10, "unidad_medida": "kg", "precio": 800, "categoria": "insumo"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ocResp.StatusCode)
	var oc struct {
		ID    string `json:"id"`
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decodeJSON(t, ocResp, &oc)
	require.Len(t, oc.Items, 1)

	confResp := do(t, env.server, "PATCH", "/v1/ordenes-compra/"+oc.ID+"/confirmar", nil, env.token)
	require.Equal(t, http.StatusOK, confResp.StatusCode)
	confResp.Body.Close()

	recResp := do(t, env.server, "POST", "/v1/ordenes-compra/"+oc.ID+"/recepcion",
		jsonBody(t, map[string]any{
			"lineas": []map[string]any{{"item_id": oc.Items[0].ID, "cantidad_recibida": 6}},
		}), env.token)
	require.Equal(t, http.StatusOK, recResp.StatusCode)
	var recibida struct {
		Estado string `json:"Estado"`
	}
	decodeJSON(t, recResp, &recibida)
	assert.Equal(t, "recibido_parcial", recibida.Estado)

	sgResp := do(t, env.server, "GET", "/v1/inventario/stock-general", nil, env.token)
	require.Equal(t, http.StatusOK, sgResp.StatusCode)
	var entradas []struct {
		Nombre   string `json:"Nombre"`
		Cantidad int    `json:"Cantidad"`
	}
	decodeJSON(t, sgResp, &entradas)
	require.Len(t, entradas, 1)
	assert.Equal(t, "Soda cáustica", entradas[0].Nombre)
	assert.Equal(t, 6, entradas[0].Cantidad)
}
