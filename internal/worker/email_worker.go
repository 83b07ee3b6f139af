package worker

// email_worker.go
// Processes statement jobs from FilaEmail: renders the extrato PDF and
// mails it to the mensalista.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/infra"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/ledger"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
)

// EmailJobPayload is the job envelope sent to FilaEmail.
type EmailJobPayload struct {
	Tipo    string `json:"tipo"` // "extrato" | "extrato_quitacao"
	ContaID string `json:"conta_id"`
}

// EmailWorker mails statement PDFs via SMTP.
type EmailWorker struct {
	mailer         *infra.Mailer
	mensalistaRepo repository.MensalistaRepository
	storagePath    string
	nomeBar        string
}

func NewEmailWorker(mailer *infra.Mailer, mensalistaRepo repository.MensalistaRepository, storagePath, nomeBar string) *EmailWorker {
	return &EmailWorker{
		mailer:         mailer,
		mensalistaRepo: mensalistaRepo,
		storagePath:    storagePath,
		nomeBar:        nomeBar,
	}
}

// Process renders and sends one statement.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	contaID, err := uuid.Parse(payload.ContaID)
	if err != nil {
		log.Error().Str("conta_id", payload.ContaID).Msg("email_worker: invalid conta_id")
		return
	}

	conta, err := w.mensalistaRepo.FindByID(ctx, contaID)
	if err != nil {
		log.Error().Err(err).Str("conta_id", payload.ContaID).Msg("email_worker: conta not found")
		return
	}
	if conta.Cliente == nil || conta.Cliente.Email == nil || *conta.Cliente.Email == "" {
		log.Warn().Str("conta_id", payload.ContaID).Msg("email_worker: cliente sem email, skipping")
		return
	}

	pdfPath, err := infra.GerarExtratoPDF(conta, w.storagePath, w.nomeBar)
	if err != nil {
		log.Error().Err(err).Str("conta_id", payload.ContaID).Msg("email_worker: PDF generation failed")
		return
	}

	subject := fmt.Sprintf("%s — Extrato da sua conta mensal", w.nomeBar)
	body := fmt.Sprintf("Ola %s,\n\nSegue em anexo o extrato da sua conta mensal.\nSaldo atual: R$ %s\n\n%s",
		conta.Cliente.Nome, ledger.SaldoConta(conta).StringFixed(2), w.nomeBar)
	if payload.Tipo == "extrato_quitacao" {
		subject = fmt.Sprintf("%s — Conta quitada, obrigado!", w.nomeBar)
		body = fmt.Sprintf("Ola %s,\n\nSua conta mensal foi quitada e um novo ciclo foi iniciado.\nSegue em anexo o extrato do ciclo encerrado.\n\n%s",
			conta.Cliente.Nome, w.nomeBar)
	}

	if err := w.mailer.SendExtrato(*conta.Cliente.Email, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", *conta.Cliente.Email).Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", *conta.Cliente.Email).Str("tipo", payload.Tipo).Msg("email_worker: extrato sent successfully")
}
