package service

import (
	"context"
	"strings"
	"time"

	"gestoreventos/internal/dto"
	"gestoreventos/internal/ledger"
	"gestoreventos/internal/model"
	"gestoreventos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EventoService owns the event row: lifecycle, completion gate, deletion gate
// and the damage sub-ledger.
type EventoService interface {
	Crear(ctx context.Context, req dto.CrearEventoRequest) (*dto.EventoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EventoResponse, error)
	ActualizarTotal(ctx context.Context, id uuid.UUID, req dto.ActualizarTotalRequest) (*dto.EventoResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.EventoResponse, error)
	Completar(ctx context.Context, id uuid.UUID, req dto.CompletarEventoRequest) (*dto.EventoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	RegistrarPagoDanos(ctx context.Context, id uuid.UUID, req dto.PagoDanosRequest) (*dto.PagoDanosResultado, error)
	ListarPagosDanos(ctx context.Context, id uuid.UUID) ([]dto.PagoDanosResponse, error)
}

type eventoService struct {
	eventos    repository.EventoRepository
	pagos      repository.PagoRepository
	servicios  repository.ServicioRepository
	plantillas PlantillaProvider
	notif      Notificador
	now        func() time.Time
}

func NewEventoService(
	eventos repository.EventoRepository,
	pagos repository.PagoRepository,
	servicios repository.ServicioRepository,
	plantillas PlantillaProvider,
	notif Notificador,
) EventoService {
	return &eventoService{
		eventos:    eventos,
		pagos:      pagos,
		servicios:  servicios,
		plantillas: plantillas,
		notif:      notif,
		now:        time.Now,
	}
}

// Crear stores a new event in cotizacion. When it has a plan, the checklist is
// seeded from the catalog; a catalog outage does not block the booking and
// the checklist can be regenerated later.
func (s *eventoService) Crear(ctx context.Context, req dto.CrearEventoRequest) (*dto.EventoResponse, error) {
	if err := ledger.ValidarMonto("total", req.Total, false); err != nil {
		return nil, err
	}
	e := &model.Evento{
		Nombre:        strings.TrimSpace(req.Nombre),
		ClienteNombre: strings.TrimSpace(req.ClienteNombre),
		ClienteEmail:  req.ClienteEmail,
		FechaEvento:   req.FechaEvento,
		PlanID:        req.PlanID,
		Total:         req.Total,
		Estado:        model.EventoCotizacion,
	}
	if err := s.eventos.Create(ctx, e); err != nil {
		return nil, err
	}

	if e.PlanID != nil && *e.PlanID != "" {
		items, err := itemsDesdePlan(ctx, s.plantillas, e, nil)
		if err == nil {
			err = s.servicios.CreateBatch(ctx, nil, items)
		}
		if err != nil {
			log.Warn().Err(err).Str("evento_id", e.ID.String()).Str("plan_id", *e.PlanID).
				Msg("evento creado sin checklist del plan")
		}
	}
	return toEventoResponse(e), nil
}

func (s *eventoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EventoResponse, error) {
	e, err := s.eventos.FindByID(ctx, id)
	if err != nil {
		return nil, traducir("evento", id, err)
	}
	return toEventoResponse(e), nil
}

// ActualizarTotal changes the contracted amount. Lowering it below what was
// already paid is allowed; the pending balance floors at zero.
func (s *eventoService) ActualizarTotal(ctx context.Context, id uuid.UUID, req dto.ActualizarTotalRequest) (*dto.EventoResponse, error) {
	if err := ledger.ValidarMonto("total", req.Total, false); err != nil {
		return nil, err
	}
	e, err := s.eventos.FindByID(ctx, id)
	if err != nil {
		return nil, traducir("evento", id, err)
	}
	if e.Terminal() {
		return nil, &ledger.InvalidStateError{Entidad: "evento", Estado: e.Estado, Motivo: "el total de un evento cerrado no se puede modificar"}
	}
	e.Total = req.Total
	if err := s.eventos.Save(ctx, nil, e); err != nil {
		return nil, traducir("evento", id, err)
	}
	return toEventoResponse(e), nil
}

func (s *eventoService) CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.EventoResponse, error) {
	e, err := s.eventos.FindByID(ctx, id)
	if err != nil {
		return nil, traducir("evento", id, err)
	}
	if err := ledger.ValidarTransicion(e.Estado, req.Estado); err != nil {
		return nil, err
	}
	e.Estado = req.Estado
	if err := s.eventos.Save(ctx, nil, e); err != nil {
		return nil, traducir("evento", id, err)
	}
	return toEventoResponse(e), nil
}

// ── Completar ─────────────────────────────────────────────────────────────────
// Gate: confirmado/en_proceso and nothing pending. Optional damage
// declaration opens the damage sub-ledger. One-way.

func (s *eventoService) Completar(ctx context.Context, id uuid.UUID, req dto.CompletarEventoRequest) (*dto.EventoResponse, error) {
	e, pagos, err := cargarEvento(ctx, s.eventos, s.pagos, id)
	if err != nil {
		return nil, err
	}
	if err := ledger.PuedeCompletar(e, ledger.Resumir(e.Total, pagos)); err != nil {
		return nil, err
	}
	if req.Danos != nil {
		err := ledger.DeclararDanos(e, ledger.DeclaracionDanos{
			Descripcion:   strings.TrimSpace(req.Danos.Descripcion),
			Costo:         req.Danos.Costo,
			CobrarCliente: req.Danos.CobrarCliente,
		})
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	e.Estado = model.EventoCompletado
	e.CompletadoAt = &now
	// Save checks the version read above, so a payment registered in between
	// makes this fail instead of completing on stale totals.
	if err := s.eventos.Save(ctx, nil, e); err != nil {
		return nil, traducir("evento", id, err)
	}
	notificar(ctx, s.notif, model.NotifEventoCompletado, e.ID, nil)
	return toEventoResponse(e), nil
}

// Eliminar removes the event and its records once no approved collection is
// left unrefunded.
func (s *eventoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	e, pagos, err := cargarEvento(ctx, s.eventos, s.pagos, id)
	if err != nil {
		return err
	}
	if err := ledger.PuedeEliminar(ledger.Resumir(e.Total, pagos)); err != nil {
		return err
	}
	err = runTx(ctx, s.eventos.DB(), func(tx *gorm.DB) error {
		if err := s.eventos.Touch(ctx, tx, e); err != nil {
			return err
		}
		return s.eventos.Delete(ctx, tx, e.ID)
	})
	if err != nil {
		return traducir("evento", id, err)
	}
	log.Info().Str("evento_id", id.String()).Msg("evento eliminado")
	return nil
}

// ── Daños ─────────────────────────────────────────────────────────────────────
// Independent from the main ledger: never reads or writes pagos.

func (s *eventoService) RegistrarPagoDanos(ctx context.Context, id uuid.UUID, req dto.PagoDanosRequest) (*dto.PagoDanosResultado, error) {
	e, err := s.eventos.FindByID(ctx, id)
	if err != nil {
		return nil, traducir("evento", id, err)
	}
	now := s.now()
	if err := ledger.AplicarPagoDanos(e, req.Monto, req.Metodo, now); err != nil {
		return nil, err
	}

	entrada := &model.PagoDanos{
		EventoID:  e.ID,
		Monto:     req.Monto,
		Metodo:    req.Metodo,
		Nota:      req.Nota,
		CreatedAt: now,
	}
	err = runTx(ctx, s.eventos.DB(), func(tx *gorm.DB) error {
		if err := s.eventos.Save(ctx, tx, e); err != nil {
			return err
		}
		return s.eventos.CreatePagoDanos(ctx, tx, entrada)
	})
	if err != nil {
		return nil, traducir("evento", id, err)
	}
	notificar(ctx, s.notif, model.NotifPagoDanosRecibido, e.ID, nil)

	return &dto.PagoDanosResultado{
		Pago:  toPagoDanosResponse(entrada),
		Danos: toDanosResponse(e),
	}, nil
}

func (s *eventoService) ListarPagosDanos(ctx context.Context, id uuid.UUID) ([]dto.PagoDanosResponse, error) {
	if _, err := s.eventos.FindByID(ctx, id); err != nil {
		return nil, traducir("evento", id, err)
	}
	entradas, err := s.eventos.ListPagosDanos(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoDanosResponse, 0, len(entradas))
	for i := range entradas {
		out = append(out, toPagoDanosResponse(&entradas[i]))
	}
	return out, nil
}
