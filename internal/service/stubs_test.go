package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gestoreventos/internal/infra"
	"gestoreventos/internal/model"
	"gestoreventos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory EventoRepository ───────────────────────────────────────────────

type stubEventoRepo struct {
	mu      sync.Mutex
	eventos map[uuid.UUID]model.Evento
	danos   []model.PagoDanos
	// onTouch runs once before the next Touch, to interleave a competing writer.
	onTouch func()
}

var _ repository.EventoRepository = (*stubEventoRepo)(nil)

func newStubEventoRepo() *stubEventoRepo {
	return &stubEventoRepo{eventos: make(map[uuid.UUID]model.Evento)}
}

func (r *stubEventoRepo) Create(_ context.Context, e *model.Evento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Version == 0 {
		e.Version = 1
	}
	e.CreatedAt = time.Now()
	r.eventos[e.ID] = *e
	return nil
}

func (r *stubEventoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Evento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.eventos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *stubEventoRepo) Save(_ context.Context, _ *gorm.DB, e *model.Evento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.eventos[e.ID]
	if !ok || cur.Version != e.Version {
		return repository.ErrConflicto
	}
	e.Version++
	r.eventos[e.ID] = *e
	return nil
}

func (r *stubEventoRepo) Touch(_ context.Context, _ *gorm.DB, e *model.Evento) error {
	if hook := r.onTouch; hook != nil {
		r.onTouch = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.eventos[e.ID]
	if !ok || cur.Version != e.Version {
		return repository.ErrConflicto
	}
	cur.Version++
	r.eventos[e.ID] = cur
	e.Version = cur.Version
	return nil
}

func (r *stubEventoRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.eventos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.eventos, id)
	return nil
}

func (r *stubEventoRepo) CreatePagoDanos(_ context.Context, _ *gorm.DB, p *model.PagoDanos) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.danos = append(r.danos, *p)
	return nil
}

func (r *stubEventoRepo) ListPagosDanos(_ context.Context, eventoID uuid.UUID) ([]model.PagoDanos, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PagoDanos
	for _, p := range r.danos {
		if p.EventoID == eventoID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubEventoRepo) DB() *gorm.DB { return nil }

// ── In-memory PagoRepository ─────────────────────────────────────────────────

type stubPagoRepo struct {
	mu    sync.Mutex
	pagos map[uuid.UUID]model.Pago
	seq   int
	orden map[uuid.UUID]int
}

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

func newStubPagoRepo() *stubPagoRepo {
	return &stubPagoRepo{pagos: make(map[uuid.UUID]model.Pago), orden: make(map[uuid.UUID]int)}
}

func (r *stubPagoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pago) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.seq++
	r.orden[p.ID] = r.seq
	r.pagos[p.ID] = *p
	return nil
}

func (r *stubPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pagos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *stubPagoRepo) ListByEvento(_ context.Context, eventoID uuid.UUID, estado string) ([]model.Pago, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Pago
	for _, p := range r.pagos {
		if p.EventoID != eventoID || (estado != "" && p.EstadoRevision != estado) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return r.orden[out[i].ID] < r.orden[out[j].ID] })
	return out, nil
}

func (r *stubPagoRepo) TransicionarRevision(_ context.Context, _ *gorm.DB, p *model.Pago) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.pagos[p.ID]
	if !ok || cur.EstadoRevision != model.RevisionPendiente {
		return repository.ErrConflicto
	}
	r.pagos[p.ID] = *p
	return nil
}

// ── In-memory ServicioRepository ─────────────────────────────────────────────

type stubServicioRepo struct {
	items map[uuid.UUID]model.ServicioEvento
}

var _ repository.ServicioRepository = (*stubServicioRepo)(nil)

func newStubServicioRepo() *stubServicioRepo {
	return &stubServicioRepo{items: make(map[uuid.UUID]model.ServicioEvento)}
}

func (r *stubServicioRepo) CreateBatch(_ context.Context, _ *gorm.DB, items []model.ServicioEvento) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.items[items[i].ID] = items[i]
	}
	return nil
}

func (r *stubServicioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ServicioEvento, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *stubServicioRepo) ListByEvento(_ context.Context, eventoID uuid.UUID) ([]model.ServicioEvento, error) {
	var out []model.ServicioEvento
	for _, s := range r.items {
		if s.EventoID == eventoID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Orden < out[j].Orden })
	return out, nil
}

func (r *stubServicioRepo) Update(_ context.Context, _ *gorm.DB, s *model.ServicioEvento) error {
	if _, ok := r.items[s.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[s.ID] = *s
	return nil
}

func (r *stubServicioRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

// ── Collaborators ────────────────────────────────────────────────────────────

type notificacion struct {
	tipo     string
	eventoID uuid.UUID
	pagoID   *uuid.UUID
}

type stubNotificador struct {
	enviadas []notificacion
	err      error
}

func (n *stubNotificador) Notificar(_ context.Context, tipo string, eventoID uuid.UUID, pagoID *uuid.UUID) error {
	n.enviadas = append(n.enviadas, notificacion{tipo, eventoID, pagoID})
	return n.err
}

type stubPlantillas struct {
	planes map[string][]infra.ServicioPlantilla
	err    error
}

func (p *stubPlantillas) ServiciosDelPlan(_ context.Context, planID string) ([]infra.ServicioPlantilla, error) {
	if p.err != nil {
		return nil, p.err
	}
	s, ok := p.planes[planID]
	if !ok {
		return nil, infra.ErrPlanNoEncontrado
	}
	return s, nil
}
