package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gestoreventos/internal/infra"
	"gestoreventos/internal/ledger"
	"gestoreventos/internal/model"
	"gestoreventos/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Mailer is the subset of infra.Mailer the worker needs.
type Mailer interface {
	EnviarRecibo(to, subject, body, pdfPath string) error
}

// ReciboRenderer writes a receipt and returns its path.
type ReciboRenderer func(negocio string, e *model.Evento, p *model.Pago, t ledger.Totales, storagePath string) (string, error)

// NotificacionWorker e-mails the event client after ledger movements. An
// approved pago gets a PDF receipt attached.
type NotificacionWorker struct {
	eventos     repository.EventoRepository
	pagos       repository.PagoRepository
	mailer      Mailer
	render      ReciboRenderer
	negocio     string
	storagePath string
}

func NewNotificacionWorker(eventos repository.EventoRepository, pagos repository.PagoRepository, mailer Mailer, negocio, storagePath string) *NotificacionWorker {
	return &NotificacionWorker{
		eventos:     eventos,
		pagos:       pagos,
		mailer:      mailer,
		render:      infra.GenerarReciboPDF,
		negocio:     negocio,
		storagePath: storagePath,
	}
}

func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var n NotificacionPayload
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("%w: payload inválido: %v", ErrPermanente, err)
	}

	evento, err := w.eventos.FindByID(ctx, n.EventoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: evento %s ya no existe", ErrPermanente, n.EventoID)
	}
	if err != nil {
		return err
	}
	if evento.ClienteEmail == nil || strings.TrimSpace(*evento.ClienteEmail) == "" {
		log.Debug().Str("evento_id", evento.ID.String()).Str("tipo", n.Tipo).Msg("notificacion: event has no client e-mail, skipping")
		return nil
	}

	var pago *model.Pago
	if n.PagoID != nil {
		pago, err = w.pagos.FindByID(ctx, *n.PagoID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: pago %s ya no existe", ErrPermanente, n.PagoID)
		}
		if err != nil {
			return err
		}
	}

	subject, body := w.redactar(n.Tipo, evento, pago)
	if subject == "" {
		return fmt.Errorf("%w: tipo de notificación desconocido %q", ErrPermanente, n.Tipo)
	}

	pdfPath := ""
	if n.Tipo == model.NotifPagoAprobado && pago != nil {
		pagos, err := w.pagos.ListByEvento(ctx, evento.ID, model.RevisionAprobado)
		if err != nil {
			return err
		}
		pdfPath, err = w.render(w.negocio, evento, pago, ledger.Resumir(evento.Total, pagos), w.storagePath)
		if err != nil {
			// The e-mail still goes out without the attachment.
			log.Error().Err(err).Str("pago_id", pago.ID.String()).Msg("notificacion: receipt PDF failed")
			pdfPath = ""
		}
	}

	err = w.mailer.EnviarRecibo(*evento.ClienteEmail, subject, body, pdfPath)
	if errors.Is(err, infra.ErrMailerSinConfigurar) {
		log.Warn().Str("evento_id", evento.ID.String()).Str("tipo", n.Tipo).Msg("notificacion: smtp not configured, dropping")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("evento_id", evento.ID.String()).Str("tipo", n.Tipo).Msg("notificacion: sent")
	return nil
}

func (w *NotificacionWorker) redactar(tipo string, e *model.Evento, p *model.Pago) (subject, body string) {
	monto := func() string {
		if p == nil {
			return ""
		}
		return "$" + p.Monto.StringFixed(2)
	}
	saludo := fmt.Sprintf("Hola %s,\n\n", e.ClienteNombre)
	firma := "\n\n" + w.negocio

	switch tipo {
	case model.NotifPagoRegistrado:
		return "Recibimos tu pago para " + e.Nombre,
			saludo + fmt.Sprintf("Registramos un movimiento de %s para \"%s\". Te avisaremos cuando sea verificado.", monto(), e.Nombre) + firma
	case model.NotifPagoAprobado:
		if p != nil && p.Tipo == model.PagoReembolso {
			return "Reembolso confirmado para " + e.Nombre,
				saludo + fmt.Sprintf("Confirmamos el reembolso de %s correspondiente a \"%s\". Adjuntamos el comprobante.", monto(), e.Nombre) + firma
		}
		return "Pago confirmado para " + e.Nombre,
			saludo + fmt.Sprintf("Tu pago de %s para \"%s\" fue verificado. Adjuntamos tu recibo.", monto(), e.Nombre) + firma
	case model.NotifPagoRechazado:
		motivo := ""
		if p != nil && p.MotivoRechazo != nil {
			motivo = " Motivo: " + *p.MotivoRechazo + "."
		}
		return "No pudimos verificar tu pago para " + e.Nombre,
			saludo + fmt.Sprintf("El movimiento de %s no pudo ser verificado.%s Comunícate con nosotros para aclararlo.", monto(), motivo) + firma
	case model.NotifEventoCompletado:
		texto := fmt.Sprintf("Gracias por celebrar \"%s\" con nosotros.", e.Nombre)
		if e.CobrarDanos && e.CostoDanos.IsPositive() {
			texto += fmt.Sprintf(" Se registraron daños por $%s pendientes de pago.", ledger.SaldoDanos(e).StringFixed(2))
		}
		return "Evento completado: " + e.Nombre, saludo + texto + firma
	case model.NotifPagoDanosRecibido:
		return "Pago de daños recibido para " + e.Nombre,
			saludo + fmt.Sprintf("Recibimos tu pago por daños. Saldo restante: $%s.", ledger.SaldoDanos(e).StringFixed(2)) + firma
	}
	return "", ""
}
