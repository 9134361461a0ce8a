package service

import (
	"context"
	"time"

	"gestoreventos/internal/dto"
	"gestoreventos/internal/ledger"
	"gestoreventos/internal/model"
	"gestoreventos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PagoService owns the main ledger of an event: collections, refunds and
// their review.
type PagoService interface {
	RegistrarPago(ctx context.Context, eventoID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.MovimientoLedgerResponse, error)
	ListarPagos(ctx context.Context, eventoID uuid.UUID, filtro dto.PagoFilter) ([]dto.PagoResponse, error)
	ResumenFinanciero(ctx context.Context, eventoID uuid.UUID) (*dto.ResumenFinancieroResponse, error)
	ProponerReembolso(ctx context.Context, eventoID uuid.UUID, req dto.ProponerReembolsoRequest) (*dto.PropuestaReembolsoResponse, error)
	ConfirmarReembolso(ctx context.Context, eventoID uuid.UUID, req dto.ConfirmarReembolsoRequest) (*dto.MovimientoLedgerResponse, error)
	Aprobar(ctx context.Context, pagoID uuid.UUID, revisor *uuid.UUID, req dto.AprobarPagoRequest) (*dto.MovimientoLedgerResponse, error)
	Rechazar(ctx context.Context, pagoID uuid.UUID, revisor *uuid.UUID, req dto.RechazarPagoRequest) (*dto.MovimientoLedgerResponse, error)
}

type pagoService struct {
	eventos repository.EventoRepository
	pagos   repository.PagoRepository
	notif   Notificador
	now     func() time.Time
}

func NewPagoService(eventos repository.EventoRepository, pagos repository.PagoRepository, notif Notificador) PagoService {
	return &pagoService{eventos: eventos, pagos: pagos, notif: notif, now: time.Now}
}

// ── RegistrarPago ─────────────────────────────────────────────────────────────
// The kind (abono / pago_completo) is derived from the live pending balance.
// The record starts en_revision and does not move any total until approved.

func (s *pagoService) RegistrarPago(ctx context.Context, eventoID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.MovimientoLedgerResponse, error) {
	if err := ledger.ValidarMonto("monto", req.Monto, true); err != nil {
		return nil, err
	}
	e, pagos, err := cargarEvento(ctx, s.eventos, s.pagos, eventoID)
	if err != nil {
		return nil, err
	}
	if err := ledger.ExigirLedgerAbierto(e, false); err != nil {
		return nil, err
	}

	t := ledger.Resumir(e.Total, pagos)
	fecha := s.now()
	if req.Fecha != nil {
		fecha = *req.Fecha
	}
	p := &model.Pago{
		EventoID:       e.ID,
		Monto:          req.Monto,
		Tipo:           ledger.Clasificar(req.Monto, t.SaldoPendiente),
		Metodo:         req.Metodo,
		Fecha:          fecha,
		Referencia:     req.Referencia,
		Nota:           req.Nota,
		Origen:         origenOrDefault(req.Origen),
		EstadoRevision: model.RevisionPendiente,
	}

	if err := s.persistirMovimiento(ctx, e, p); err != nil {
		return nil, err
	}
	notificar(ctx, s.notif, model.NotifPagoRegistrado, e.ID, &p.ID)

	return &dto.MovimientoLedgerResponse{
		Pago:    toPagoResponse(p),
		Totales: toTotalesResponse(e.Total, t),
	}, nil
}

// persistirMovimiento inserts p while bumping the event version, so two
// writers deciding on the same snapshot of the ledger cannot both commit.
func (s *pagoService) persistirMovimiento(ctx context.Context, e *model.Evento, p *model.Pago) error {
	err := runTx(ctx, s.eventos.DB(), func(tx *gorm.DB) error {
		if err := s.eventos.Touch(ctx, tx, e); err != nil {
			return err
		}
		return s.pagos.Create(ctx, tx, p)
	})
	return traducir("evento", e.ID, err)
}

func (s *pagoService) ListarPagos(ctx context.Context, eventoID uuid.UUID, filtro dto.PagoFilter) ([]dto.PagoResponse, error) {
	if filtro.EstadoRevision != "" {
		switch filtro.EstadoRevision {
		case model.RevisionPendiente, model.RevisionAprobado, model.RevisionRechazado:
		default:
			return nil, &ledger.ValidationError{Campo: "estado_revision", Motivo: "debe ser en_revision, aprobado o rechazado"}
		}
	}
	if _, err := s.eventos.FindByID(ctx, eventoID); err != nil {
		return nil, traducir("evento", eventoID, err)
	}
	pagos, err := s.pagos.ListByEvento(ctx, eventoID, filtro.EstadoRevision)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoResponse, 0, len(pagos))
	for i := range pagos {
		out = append(out, toPagoResponse(&pagos[i]))
	}
	return out, nil
}

func (s *pagoService) ResumenFinanciero(ctx context.Context, eventoID uuid.UUID) (*dto.ResumenFinancieroResponse, error) {
	e, pagos, err := cargarEvento(ctx, s.eventos, s.pagos, eventoID)
	if err != nil {
		return nil, err
	}
	t := ledger.Resumir(e.Total, pagos)
	enRevision := 0
	for i := range pagos {
		if pagos[i].EstadoRevision == model.RevisionPendiente {
			enRevision++
		}
	}
	return &dto.ResumenFinancieroResponse{
		EventoID:        e.ID.String(),
		Estado:          e.Estado,
		Totales:         toTotalesResponse(e.Total, t),
		PagosEnRevision: enRevision,
		PuedeCompletar:  ledger.PuedeCompletar(e, t) == nil,
		PuedeEliminar:   ledger.PuedeEliminar(t) == nil,
		Danos:           toDanosResponse(e),
	}, nil
}

// ── Reembolsos ────────────────────────────────────────────────────────────────
// Phase one validates and returns a proposal without writing anything.
// Phase two re-reads the ledger and validates again before persisting.

func (s *pagoService) ProponerReembolso(ctx context.Context, eventoID uuid.UUID, req dto.ProponerReembolsoRequest) (*dto.PropuestaReembolsoResponse, error) {
	e, pagos, err := cargarEvento(ctx, s.eventos, s.pagos, eventoID)
	if err != nil {
		return nil, err
	}
	if err := ledger.ExigirLedgerAbierto(e, true); err != nil {
		return nil, err
	}
	prop, err := ledger.Proponer(e.ID, req.Monto, req.Metodo, ledger.Resumir(e.Total, pagos), s.now())
	if err != nil {
		return nil, err
	}
	prop.Referencia = req.Referencia
	prop.Nota = req.Nota

	return &dto.PropuestaReembolsoResponse{
		EventoID:           prop.EventoID.String(),
		Monto:              prop.Monto,
		Metodo:             prop.Metodo,
		Referencia:         prop.Referencia,
		Nota:               prop.Nota,
		SaldoPorReembolsar: prop.SaldoPorReembolsar,
		PropuestaAt:        prop.PropuestaAt.Format(time.RFC3339),
	}, nil
}

func (s *pagoService) ConfirmarReembolso(ctx context.Context, eventoID uuid.UUID, req dto.ConfirmarReembolsoRequest) (*dto.MovimientoLedgerResponse, error) {
	e, pagos, err := cargarEvento(ctx, s.eventos, s.pagos, eventoID)
	if err != nil {
		return nil, err
	}
	if err := ledger.ExigirLedgerAbierto(e, true); err != nil {
		return nil, err
	}
	t := ledger.Resumir(e.Total, pagos)
	if err := ledger.ValidarReembolso(req.Monto, t.SaldoPorReembolsar); err != nil {
		return nil, err
	}

	p := &model.Pago{
		EventoID:       e.ID,
		Monto:          req.Monto,
		Tipo:           model.PagoReembolso,
		Metodo:         req.Metodo,
		Fecha:          s.now(),
		Referencia:     req.Referencia,
		Nota:           req.Nota,
		Origen:         origenOrDefault(req.Origen),
		EstadoRevision: model.RevisionPendiente,
	}
	if err := s.persistirMovimiento(ctx, e, p); err != nil {
		return nil, err
	}
	notificar(ctx, s.notif, model.NotifPagoRegistrado, e.ID, &p.ID)

	return &dto.MovimientoLedgerResponse{
		Pago:    toPagoResponse(p),
		Totales: toTotalesResponse(e.Total, t),
	}, nil
}

// ── Revisión ──────────────────────────────────────────────────────────────────

func (s *pagoService) Aprobar(ctx context.Context, pagoID uuid.UUID, revisor *uuid.UUID, req dto.AprobarPagoRequest) (*dto.MovimientoLedgerResponse, error) {
	return s.revisar(ctx, pagoID, func(e *model.Evento, p *model.Pago, pagos []model.Pago) error {
		if err := ledger.ExigirLedgerAbierto(e, p.Tipo == model.PagoReembolso); err != nil {
			return err
		}
		if err := ledger.Aprobar(p, req.CuentaLiquidacion, revisor, s.now()); err != nil {
			return err
		}
		if p.Tipo == model.PagoReembolso {
			// Other refunds may have been approved since this one was
			// confirmed; the paid total must never go negative.
			t := ledger.Resumir(e.Total, pagos)
			return ledger.ValidarReembolso(p.Monto, t.SaldoPorReembolsar)
		}
		return nil
	}, model.NotifPagoAprobado)
}

// Rechazar is allowed on closed events too: a rejection never moves a total.
func (s *pagoService) Rechazar(ctx context.Context, pagoID uuid.UUID, revisor *uuid.UUID, req dto.RechazarPagoRequest) (*dto.MovimientoLedgerResponse, error) {
	return s.revisar(ctx, pagoID, func(_ *model.Evento, p *model.Pago, _ []model.Pago) error {
		return ledger.Rechazar(p, req.Motivo, revisor, s.now())
	}, model.NotifPagoRechazado)
}

func (s *pagoService) revisar(ctx context.Context, pagoID uuid.UUID, decidir func(*model.Evento, *model.Pago, []model.Pago) error, notifTipo string) (*dto.MovimientoLedgerResponse, error) {
	p, err := s.pagos.FindByID(ctx, pagoID)
	if err != nil {
		return nil, traducir("pago", pagoID, err)
	}
	e, pagos, err := cargarEvento(ctx, s.eventos, s.pagos, p.EventoID)
	if err != nil {
		return nil, err
	}
	if err := decidir(e, p, pagos); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.eventos.DB(), func(tx *gorm.DB) error {
		if err := s.eventos.Touch(ctx, tx, e); err != nil {
			return err
		}
		return s.pagos.TransicionarRevision(ctx, tx, p)
	})
	if err != nil {
		return nil, traducir("pago", p.ID, err)
	}
	notificar(ctx, s.notif, notifTipo, e.ID, &p.ID)

	for i := range pagos {
		if pagos[i].ID == p.ID {
			pagos[i] = *p
		}
	}
	return &dto.MovimientoLedgerResponse{
		Pago:    toPagoResponse(p),
		Totales: toTotalesResponse(e.Total, ledger.Resumir(e.Total, pagos)),
	}, nil
}

func origenOrDefault(o string) string {
	if o == "" {
		return "web"
	}
	return o
}
