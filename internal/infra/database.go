package infra

import (
	"fmt"

	"github.com/chris1983admin/quimexar/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the SQL patches that GORM cannot
// express (partial unique indexes, sequences).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates the schema and applies the raw-SQL patches.
// Also used by the integration test suite against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Producto{},
		&model.Combo{},
		&model.ComboComponente{},
		&model.Promocion{},
		&model.MovimientoStock{},
		&model.StockGeneral{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.Cliente{},
		&model.ItemFacturable{},
		&model.ItemFacturableLinea{},
		&model.Factura{},
		&model.FacturaItem{},
		&model.PagoFactura{},
		&model.Vendedor{},
		&model.AsignacionStock{},
		&model.VentaVendedor{},
		&model.VentaVendedorItem{},
		&model.DevolucionVendedor{},
		&model.Proveedor{},
		&model.OrdenCompra{},
		&model.OrdenCompraItem{},
		&model.OrdenCompraRecepcion{},
		&model.Usuario{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// Each statement uses IF NOT EXISTS semantics so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// A lo sumo una sesión de caja abierta: índice único parcial.
		// Cierra la carrera check-then-create entre dos aperturas simultáneas.
		{"unique open session", `
CREATE UNIQUE INDEX IF NOT EXISTS uniq_sesion_caja_abierta
    ON sesiones_caja (estado)
    WHERE estado = 'abierta'`},
		// Numeración secuencial de facturas — nextval() dentro de la tx de emisión.
		{"facturas sequence",
			`CREATE SEQUENCE IF NOT EXISTS facturas_numero_seq START 1`},
		// Numeración secuencial de órdenes de compra.
		{"ordenes_compra sequence",
			`CREATE SEQUENCE IF NOT EXISTS ordenes_compra_numero_seq START 1`},
		// No permitir stock negativo a nivel de base.
		{"productos stock check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock_no_negativo') THEN
    ALTER TABLE productos ADD CONSTRAINT chk_productos_stock_no_negativo CHECK (stock_actual >= 0);
  END IF;
END $$`},
		{"stock_general cantidad check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_general_no_negativo') THEN
    ALTER TABLE stock_general ADD CONSTRAINT chk_stock_general_no_negativo CHECK (cantidad >= 0);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
