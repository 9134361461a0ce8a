package service

import (
	"context"
	"errors"
	"strings"

	"gestoreventos/internal/dto"
	"gestoreventos/internal/infra"
	"gestoreventos/internal/ledger"
	"gestoreventos/internal/model"
	"gestoreventos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlantillaProvider returns the service template of a plan.
type PlantillaProvider interface {
	ServiciosDelPlan(ctx context.Context, planID string) ([]infra.ServicioPlantilla, error)
}

// ServicioService tracks the per-event service checklist.
type ServicioService interface {
	Listar(ctx context.Context, eventoID uuid.UUID) (*dto.ChecklistResponse, error)
	GenerarDesdePlan(ctx context.Context, eventoID uuid.UUID) (*dto.ChecklistResponse, error)
	AgregarPersonalizado(ctx context.Context, eventoID uuid.UUID, req dto.AgregarServicioRequest) (*dto.ChecklistResponse, error)
	Eliminar(ctx context.Context, servicioID uuid.UUID) (*dto.ChecklistResponse, error)
	MarcarCompletado(ctx context.Context, servicioID uuid.UUID, valor bool) (*dto.ChecklistResponse, error)
	MarcarDescartado(ctx context.Context, servicioID uuid.UUID, valor bool) (*dto.ChecklistResponse, error)
}

type servicioService struct {
	eventos    repository.EventoRepository
	servicios  repository.ServicioRepository
	plantillas PlantillaProvider
}

func NewServicioService(eventos repository.EventoRepository, servicios repository.ServicioRepository, plantillas PlantillaProvider) ServicioService {
	return &servicioService{eventos: eventos, servicios: servicios, plantillas: plantillas}
}

func (s *servicioService) Listar(ctx context.Context, eventoID uuid.UUID) (*dto.ChecklistResponse, error) {
	e, err := s.eventos.FindByID(ctx, eventoID)
	if err != nil {
		return nil, traducir("evento", eventoID, err)
	}
	return s.checklist(ctx, e)
}

// GenerarDesdePlan adds the plan items the checklist is missing, matched by
// name. Existing items keep their state.
func (s *servicioService) GenerarDesdePlan(ctx context.Context, eventoID uuid.UUID) (*dto.ChecklistResponse, error) {
	e, err := s.eventos.FindByID(ctx, eventoID)
	if err != nil {
		return nil, traducir("evento", eventoID, err)
	}
	if err := ledger.ExigirChecklistEditable(e); err != nil {
		return nil, err
	}
	actuales, err := s.servicios.ListByEvento(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	nuevos, err := itemsDesdePlan(ctx, s.plantillas, e, actuales)
	if err != nil {
		return nil, err
	}
	err = s.escribir(ctx, e, func(tx *gorm.DB) error {
		return s.servicios.CreateBatch(ctx, tx, nuevos)
	})
	if err != nil {
		return nil, err
	}
	return s.checklist(ctx, e)
}

func (s *servicioService) AgregarPersonalizado(ctx context.Context, eventoID uuid.UUID, req dto.AgregarServicioRequest) (*dto.ChecklistResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, &ledger.ValidationError{Campo: "nombre", Motivo: "es obligatorio"}
	}
	e, err := s.eventos.FindByID(ctx, eventoID)
	if err != nil {
		return nil, traducir("evento", eventoID, err)
	}
	if err := ledger.ExigirChecklistEditable(e); err != nil {
		return nil, err
	}
	actuales, err := s.servicios.ListByEvento(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	item := model.ServicioEvento{
		EventoID: e.ID,
		Nombre:   nombre,
		Origen:   model.ServicioPersonalizado,
		Orden:    siguienteOrden(actuales),
	}
	err = s.escribir(ctx, e, func(tx *gorm.DB) error {
		return s.servicios.CreateBatch(ctx, tx, []model.ServicioEvento{item})
	})
	if err != nil {
		return nil, err
	}
	return s.checklist(ctx, e)
}

// Eliminar removes a custom item. Plan items can only be discarded.
func (s *servicioService) Eliminar(ctx context.Context, servicioID uuid.UUID) (*dto.ChecklistResponse, error) {
	item, e, err := s.cargarEditable(ctx, servicioID)
	if err != nil {
		return nil, err
	}
	if item.Origen == model.ServicioPlan {
		return nil, &ledger.InvalidStateError{
			Entidad: "servicio",
			Estado:  item.Origen,
			Motivo:  "los servicios del plan no se eliminan, se descartan",
		}
	}
	err = s.escribir(ctx, e, func(tx *gorm.DB) error {
		return traducir("servicio", item.ID, s.servicios.Delete(ctx, tx, item.ID))
	})
	if err != nil {
		return nil, err
	}
	return s.checklist(ctx, e)
}

func (s *servicioService) MarcarCompletado(ctx context.Context, servicioID uuid.UUID, valor bool) (*dto.ChecklistResponse, error) {
	item, e, err := s.cargarEditable(ctx, servicioID)
	if err != nil {
		return nil, err
	}
	if valor && item.Descartado {
		return nil, &ledger.InvalidStateError{Entidad: "servicio", Estado: "descartado", Motivo: "reactive el servicio antes de completarlo"}
	}
	item.Completado = valor
	if err := s.actualizar(ctx, e, item); err != nil {
		return nil, err
	}
	return s.checklist(ctx, e)
}

// MarcarDescartado discards or reactivates an item. Discarded items leave the
// progress denominator.
func (s *servicioService) MarcarDescartado(ctx context.Context, servicioID uuid.UUID, valor bool) (*dto.ChecklistResponse, error) {
	item, e, err := s.cargarEditable(ctx, servicioID)
	if err != nil {
		return nil, err
	}
	item.Descartado = valor
	if err := s.actualizar(ctx, e, item); err != nil {
		return nil, err
	}
	return s.checklist(ctx, e)
}

func (s *servicioService) actualizar(ctx context.Context, e *model.Evento, item *model.ServicioEvento) error {
	return s.escribir(ctx, e, func(tx *gorm.DB) error {
		return traducir("servicio", item.ID, s.servicios.Update(ctx, tx, item))
	})
}

// escribir runs fn while bumping the event version, so a checklist write
// cannot land on an event completed or cancelled after it was read.
func (s *servicioService) escribir(ctx context.Context, e *model.Evento, fn func(tx *gorm.DB) error) error {
	return runTx(ctx, s.eventos.DB(), func(tx *gorm.DB) error {
		if err := s.eventos.Touch(ctx, tx, e); err != nil {
			return traducir("evento", e.ID, err)
		}
		return fn(tx)
	})
}

func (s *servicioService) cargarEditable(ctx context.Context, servicioID uuid.UUID) (*model.ServicioEvento, *model.Evento, error) {
	item, err := s.servicios.FindByID(ctx, servicioID)
	if err != nil {
		return nil, nil, traducir("servicio", servicioID, err)
	}
	e, err := s.eventos.FindByID(ctx, item.EventoID)
	if err != nil {
		return nil, nil, traducir("evento", item.EventoID, err)
	}
	if err := ledger.ExigirChecklistEditable(e); err != nil {
		return nil, nil, err
	}
	return item, e, nil
}

func (s *servicioService) checklist(ctx context.Context, e *model.Evento) (*dto.ChecklistResponse, error) {
	items, err := s.servicios.ListByEvento(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.ChecklistResponse{
		EventoID:  e.ID.String(),
		Progreso:  ledger.Progreso(items, e.Estado),
		Servicios: make([]dto.ServicioResponse, 0, len(items)),
	}
	for i := range items {
		out.Servicios = append(out.Servicios, toServicioResponse(&items[i]))
	}
	return out, nil
}

// itemsDesdePlan builds the plan items missing from actuales.
func itemsDesdePlan(ctx context.Context, plantillas PlantillaProvider, e *model.Evento, actuales []model.ServicioEvento) ([]model.ServicioEvento, error) {
	if e.PlanID == nil || *e.PlanID == "" {
		return nil, &ledger.ValidationError{Campo: "plan_id", Motivo: "el evento no tiene un plan asignado"}
	}
	if plantillas == nil {
		return nil, errors.New("catálogo de planes no configurado")
	}
	plantilla, err := plantillas.ServiciosDelPlan(ctx, *e.PlanID)
	if errors.Is(err, infra.ErrPlanNoEncontrado) {
		return nil, &ledger.NotFoundError{Entidad: "plan", ID: *e.PlanID}
	}
	if err != nil {
		return nil, err
	}
	if len(plantilla) == 0 {
		return nil, &ledger.ValidationError{Campo: "plan_id", Motivo: "el plan no tiene servicios configurados"}
	}

	existentes := make(map[string]bool, len(actuales))
	for _, it := range actuales {
		existentes[normalizarNombre(it.Nombre)] = true
	}
	base := siguienteOrden(actuales)
	var nuevos []model.ServicioEvento
	for i, sp := range plantilla {
		clave := normalizarNombre(sp.Nombre)
		if clave == "" || existentes[clave] {
			continue
		}
		existentes[clave] = true
		orden := sp.Orden
		if orden <= 0 {
			orden = base + i
		}
		nuevos = append(nuevos, model.ServicioEvento{
			EventoID: e.ID,
			Nombre:   strings.TrimSpace(sp.Nombre),
			Origen:   model.ServicioPlan,
			Orden:    orden,
		})
	}
	return nuevos, nil
}

func siguienteOrden(items []model.ServicioEvento) int {
	max := 0
	for _, it := range items {
		if it.Orden > max {
			max = it.Orden
		}
	}
	return max + 1
}

func normalizarNombre(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
