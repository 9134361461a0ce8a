package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueNotificaciones = "jobs:notificaciones"

// Job is the envelope stored in the Redis list.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error schedules a retry;
// ErrPermanente sends the job straight to the DLQ.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// ErrPermanente marks failures that retrying cannot fix.
var ErrPermanente = errors.New("worker: fallo permanente")

// NotificacionPayload is the body of a notification job.
type NotificacionPayload struct {
	Tipo     string     `json:"tipo"`
	EventoID uuid.UUID  `json:"evento_id"`
	PagoID   *uuid.UUID `json:"pago_id,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists; the pool drains them with
// BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Notificar enqueues a client notification. Callers invoke it after commit.
func (d *Dispatcher) Notificar(ctx context.Context, tipo string, eventoID uuid.UUID, pagoID *uuid.UUID) error {
	return d.enqueue(ctx, QueueNotificaciones, tipo, NotificacionPayload{
		Tipo:     tipo,
		EventoID: eventoID,
		PagoID:   pagoID,
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// PoolConfig wires the consumers.
type PoolConfig struct {
	RDB        *redis.Client
	Workers    int
	MaxRetries int
	// Handler for every job on QueueNotificaciones regardless of type.
	Notificaciones Handler
}

// StartWorkerPool launches cfg.Workers goroutines blocked on BRPOP.
func StartWorkerPool(ctx context.Context, cfg PoolConfig) {
	for i := 0; i < cfg.Workers; i++ {
		go runWorker(ctx, cfg, i)
	}
	log.Info().Msgf("worker pool started with %d workers", cfg.Workers)
}

func runWorker(ctx context.Context, cfg PoolConfig, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Wait up to 5s, then loop to observe ctx.
			result, err := cfg.RDB.BRPop(ctx, 5*time.Second, QueueNotificaciones).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			processJob(ctx, cfg, result[0], []byte(result[1]))
		}
	}
}

func processJob(ctx context.Context, cfg PoolConfig, queue string, raw []byte) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	err := cfg.Notificaciones.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	job.Attempts++

	if errors.Is(err, ErrPermanente) || job.Attempts >= cfg.MaxRetries {
		SendToDLQ(ctx, cfg.RDB, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}

	delay := backoff(job.Attempts)
	if serr := programarReintento(ctx, cfg.RDB, queue, job, time.Now().Add(delay)); serr != nil {
		log.Error().Err(serr).Str("queue", queue).Msg("worker: could not schedule retry")
		SendToDLQ(ctx, cfg.RDB, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	log.Warn().
		Err(err).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Dur("retry_in", delay).
		Msg("worker: job failed, retry scheduled")
}

// backoff doubles from 30s, capped at 30 minutes.
func backoff(attempts int) time.Duration {
	d := 30 * time.Second
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= 30*time.Minute {
			return 30 * time.Minute
		}
	}
	return d
}
