package worker

// facturacion_worker.go
// Renders the invoice PDF off the request path and, when the customer has
// an email on file, chains an email job with the attachment.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chris1983admin/quimexar/internal/infra"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FacturacionJob is the payload enqueued on QueueFacturacion.
type FacturacionJob struct {
	FacturaID string `json:"factura_id"`
	// Email vacío: sólo se genera el PDF.
	Email string `json:"email"`
}

type FacturacionWorker struct {
	facturaRepo repository.FacturaRepository
	dispatcher  *Dispatcher
	storagePath string
}

func NewFacturacionWorker(facturaRepo repository.FacturaRepository, dispatcher *Dispatcher, storagePath string) *FacturacionWorker {
	return &FacturacionWorker{
		facturaRepo: facturaRepo,
		dispatcher:  dispatcher,
		storagePath: storagePath,
	}
}

func (w *FacturacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job FacturacionJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("facturacion_worker: invalid payload")
		return nil // payload roto: reintentar no ayuda
	}

	facturaID, err := uuid.Parse(job.FacturaID)
	if err != nil {
		log.Error().Str("factura_id", job.FacturaID).Msg("facturacion_worker: invalid factura_id")
		return nil
	}

	factura, err := w.facturaRepo.FindByID(ctx, facturaID)
	if err != nil {
		return fmt.Errorf("facturacion_worker: factura %s: %w", job.FacturaID, err)
	}

	pdfPath, err := infra.GenerateFacturaPDF(factura, w.storagePath)
	if err != nil {
		return fmt.Errorf("facturacion_worker: render pdf: %w", err)
	}
	log.Info().Int64("numero", factura.Numero).Str("pdf", pdfPath).Msg("facturacion_worker: PDF generado")

	if job.Email == "" {
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJob{
		To:      job.Email,
		Subject: fmt.Sprintf("Factura %s Nº %08d", factura.Tipo, factura.Numero),
		Body: fmt.Sprintf(
			"Estimado/a %s:\n\nAdjuntamos la factura Nº %08d por $ %s con vencimiento el %s.\n\nQuimexar Distribuciones",
			factura.ClienteNombre, factura.Numero, factura.Total.StringFixed(2),
			factura.Vencimiento.Format("02/01/2006"),
		),
		PDFPath: pdfPath,
	})
}
