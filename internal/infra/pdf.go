package infra

// pdf.go — invoice PDF rendering with go-pdf/fpdf.
// A4 portrait: header with business name and invoice type/number, customer
// block, item table, payments received, bold outstanding total.
// Output file: storagePath/factura_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateFacturaPDF renders a Factura to disk and returns the file path.
// storagePath is created if missing.
func GenerateFacturaPDF(f *model.Factura, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("factura_%08d.pdf", f.Numero)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "Quimexar Distribuciones", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Factura %s Nº %08d", f.Tipo, f.Numero), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Fecha: "+f.Fecha.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Vencimiento: "+f.Vencimiento.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Customer block
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Cliente: "+f.ClienteNombre, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Item table header
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 7, "Detalle", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Cant.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Precio", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range f.Items {
		sub := item.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		pdf.CellFormat(90, 6, item.Nombre, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", item.Cantidad), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, "$ "+item.Precio.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, "$ "+sub.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	// Totals
	pagado := decimal.Zero
	for _, p := range f.Pagos {
		pagado = pagado.Add(p.Monto)
	}
	saldo := f.Total.Sub(pagado)

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(145, 6, "Pagos recibidos", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, "$ "+pagado.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(145, 8, "TOTAL", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "$ "+f.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(145, 6, "Saldo pendiente", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, "$ "+saldo.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
