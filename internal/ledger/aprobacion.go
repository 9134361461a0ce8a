package ledger

import (
	"strings"
	"time"

	"gestoreventos/internal/model"

	"github.com/google/uuid"
)

// Aprobar moves an en_revision record to aprobado. The settlement account is
// mandatory; its legitimacy is the catalog's concern.
func Aprobar(p *model.Pago, cuenta string, revisor *uuid.UUID, now time.Time) error {
	if err := exigirEnRevision(p); err != nil {
		return err
	}
	cuenta = strings.TrimSpace(cuenta)
	if cuenta == "" {
		return invalido("cuenta_liquidacion", "es obligatoria para aprobar un pago")
	}
	p.EstadoRevision = model.RevisionAprobado
	p.CuentaLiquidacion = &cuenta
	p.RevisadoPor = revisor
	p.RevisadoAt = &now
	return nil
}

// Rechazar moves an en_revision record to rechazado. Rejected records never
// count towards any total.
func Rechazar(p *model.Pago, motivo *string, revisor *uuid.UUID, now time.Time) error {
	if err := exigirEnRevision(p); err != nil {
		return err
	}
	p.EstadoRevision = model.RevisionRechazado
	p.MotivoRechazo = motivo
	p.RevisadoPor = revisor
	p.RevisadoAt = &now
	return nil
}

func exigirEnRevision(p *model.Pago) error {
	if p.EstadoRevision != model.RevisionPendiente {
		return &InvalidStateError{
			Entidad: "pago",
			Estado:  p.EstadoRevision,
			Motivo:  "solo se pueden revisar pagos en revisión",
		}
	}
	return nil
}
