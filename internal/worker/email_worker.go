package worker

// email_worker.go
// Sends queued emails through the SMTP mailer, guarded by the circuit
// breaker so a downed relay does not burn every retry at once.

import (
	"context"
	"encoding/json"

	"github.com/chris1983admin/quimexar/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJob is the payload enqueued on QueueEmail.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

type EmailWorker struct {
	mailer  *infra.Mailer
	breaker *infra.Breaker
}

func NewEmailWorker(mailer *infra.Mailer, breaker *infra.Breaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var job EmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if job.To == "" {
		log.Warn().Msg("email_worker: empty recipient — skipping")
		return nil
	}

	err := w.breaker.Execute(func() error {
		return w.mailer.Send(job.To, job.Subject, job.Body, job.PDFPath)
	})
	if err != nil {
		log.Error().Err(err).Str("to", job.To).Msg("email_worker: send failed")
		return err
	}
	log.Info().Str("to", job.To).Str("subject", job.Subject).Msg("email_worker: sent")
	return nil
}
