package router

import (
	"time"

	"github.com/chris1983admin/quimexar/internal/config"
	"github.com/chris1983admin/quimexar/internal/handler"
	"github.com/chris1983admin/quimexar/internal/middleware"
	"github.com/chris1983admin/quimexar/internal/repository"
	"github.com/chris1983admin/quimexar/internal/service"
	"github.com/chris1983admin/quimexar/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, 1000, time.Minute)) // 1000 req/min por IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	comboRepo := repository.NewComboRepository(db)
	promocionRepo := repository.NewPromocionRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	stockGeneralRepo := repository.NewStockGeneralRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	itemFactRepo := repository.NewItemFacturableRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	vendedorRepo := repository.NewVendedorRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	ordenCompraRepo := repository.NewOrdenCompraRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo, stockGeneralRepo)
	catalogoSvc := service.NewCatalogoService(productoRepo, comboRepo, promocionRepo, movimientoRepo, inventarioSvc, rdb)
	stockGeneralSvc := service.NewStockGeneralService(stockGeneralRepo)
	cajaSvc := service.NewCajaService(cajaRepo)
	ventaSvc := service.NewVentaService(ventaRepo, cajaSvc, cajaRepo, inventarioSvc, productoRepo, comboRepo, promocionRepo, clienteRepo, itemFactRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, cajaSvc, cajaRepo, ventaRepo, inventarioSvc, productoRepo, comboRepo, promocionRepo, clienteRepo, itemFactRepo)
	facturacionSvc := service.NewFacturacionService(facturaRepo, itemFactRepo, clienteRepo, dispatcher, cfg.DiasVencimiento)
	vendedorSvc := service.NewVendedorService(vendedorRepo, productoRepo, inventarioSvc)
	comprasSvc := service.NewComprasService(ordenCompraRepo, proveedorRepo, stockGeneralRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc, stockGeneralSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	ventasH := handler.NewVentaHandler(ventaSvc)
	pedidosH := handler.NewPedidoHandler(pedidoSvc)
	facturacionH := handler.NewFacturacionHandler(facturacionSvc)
	vendedoresH := handler.NewVendedorHandler(vendedorSvc)
	comprasH := handler.NewCompraHandler(comprasSvc)
	clientesH := handler.NewClienteHandler(clienteSvc)
	proveedoresH := handler.NewProveedorHandler(proveedorSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Consulta de precios por código — sin auth, la usa el puesto de góndola
	r.GET("/v1/precios/:codigo", catalogoH.ConsultarPrecio)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	todos := middleware.RequireRole("cajero", "supervisor", "administrador")
	supervision := middleware.RequireRole("supervisor", "administrador")
	admin := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		// Catálogo — lectura para todos, escritura para administrador
		v1.GET("/productos", todos, catalogoH.ListProductos)
		v1.GET("/productos/:id", todos, catalogoH.DetalleProducto)
		v1.GET("/productos/:id/movimientos", todos, inventarioH.Movimientos)
		v1.POST("/productos/:id/ajuste", supervision, inventarioH.AjusteManual)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", catalogoH.CrearProducto)
			prods.PUT("/:id", catalogoH.ActualizarProducto)
			prods.DELETE("/:id", catalogoH.BajaProducto)
			prods.PATCH("/:id/reactivar", catalogoH.ReactivarProducto)
		}

		v1.GET("/combos", todos, catalogoH.ListCombos)
		combos := v1.Group("/combos", admin)
		{
			combos.POST("", catalogoH.CrearCombo)
			combos.DELETE("/:id", catalogoH.BajaCombo)
		}

		v1.GET("/promociones", todos, catalogoH.ListPromociones)
		promos := v1.Group("/promociones", admin)
		{
			promos.POST("", catalogoH.CrearPromocion)
			promos.DELETE("/:id", catalogoH.DesactivarPromocion)
		}

		// Inventario
		inv := v1.Group("/inventario", supervision)
		{
			inv.POST("/fraccionar", inventarioH.Fraccionar)
			inv.POST("/stock-general", inventarioH.CrearStockGeneral)
			inv.GET("/stock-general", inventarioH.ListStockGeneral)
			inv.PATCH("/stock-general/:id", inventarioH.AjustarStockGeneral)
			inv.DELETE("/stock-general/:id", inventarioH.EliminarStockGeneral)
		}

		// Caja
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", todos, cajaH.Abrir)
			caja.GET("/actual", todos, cajaH.Actual)
			caja.POST("/gastos", todos, cajaH.RegistrarGasto)
			caja.POST("/cerrar", todos, cajaH.Cerrar)
			caja.GET("/sesiones", supervision, cajaH.ListSesiones)
			caja.GET("/sesiones/:id", supervision, cajaH.Detalle)
		}

		// Ventas
		v1.POST("/ventas/cotizar", todos, ventasH.Cotizar)
		v1.POST("/ventas", todos, ventasH.Registrar)
		v1.GET("/ventas", todos, ventasH.List)
		v1.GET("/ventas/:id", todos, ventasH.Detalle)

		// Pedidos
		pedidos := v1.Group("/pedidos", todos)
		{
			pedidos.POST("", pedidosH.Crear)
			pedidos.GET("", pedidosH.List)
			pedidos.GET("/:id", pedidosH.Detalle)
			pedidos.PATCH("/:id/en-reparto", pedidosH.MarcarEnReparto)
			pedidos.POST("/:id/cobrar", pedidosH.Cobrar)
			pedidos.POST("/:id/cancelar", pedidosH.Cancelar)
		}

		// Facturación — supervisión
		fact := v1.Group("/facturas", supervision)
		{
			fact.GET("/items-pendientes", facturacionH.ItemsPendientes)
			fact.POST("", facturacionH.Generar)
			fact.GET("", facturacionH.List)
			fact.GET("/:id", facturacionH.Detalle)
			fact.POST("/:id/pagos", facturacionH.RegistrarPago)
			fact.POST("/:id/anular", facturacionH.Anular)
		}

		// Clientes
		clientes := v1.Group("/clientes", todos)
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.List)
			clientes.GET("/:id", clientesH.Detalle)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.GET("/:id/saldo", facturacionH.SaldoCliente)
		}
		v1.DELETE("/clientes/:id", admin, clientesH.Baja)

		// Vendedores ambulantes — supervisión
		vend := v1.Group("/vendedores", supervision)
		{
			vend.POST("", vendedoresH.Crear)
			vend.GET("", vendedoresH.List)
			vend.DELETE("/:id", vendedoresH.Baja)
			vend.POST("/:id/asignaciones", vendedoresH.Asignar)
			vend.POST("/:id/ventas", vendedoresH.RegistrarVenta)
			vend.POST("/:id/devoluciones", vendedoresH.RegistrarDevolucion)
			vend.GET("/:id/balance", vendedoresH.Balance)
		}

		// Proveedores y órdenes de compra — administrador
		prov := v1.Group("/proveedores", admin)
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.List)
			prov.GET("/:id", proveedoresH.Detalle)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Baja)
		}

		oc := v1.Group("/ordenes-compra", supervision)
		{
			oc.POST("", comprasH.Crear)
			oc.GET("", comprasH.List)
			oc.GET("/:id", comprasH.Detalle)
			oc.PATCH("/:id/confirmar", comprasH.Confirmar)
			oc.PATCH("/:id/en-transito", comprasH.MarcarEnTransito)
			oc.POST("/:id/recepcion", comprasH.Recibir)
		}

		// Usuarios — administrador
		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.PATCH("/:id/reactivar", authH.ReactivarUsuario)
		}
		v1.POST("/usuarios/password", todos, authH.CambiarPassword)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
