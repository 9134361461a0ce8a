package worker

// Failed jobs wait in the sorted set retry:{queue} scored by their due time.
// The retry cron moves due jobs back onto the queue, skipping ticks while the
// mail circuit breaker is open so a downed relay is not hammered.

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"gestoreventos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	RetryPrefix       = "retry:"
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 20
)

func programarReintento(ctx context.Context, rdb *redis.Client, queue string, job Job, due time.Time) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.ZAdd(ctx, RetryPrefix+queue, redis.Z{
		Score:  float64(due.Unix()),
		Member: encoded,
	}).Err()
}

type RetryCronConfig struct {
	RDB *redis.Client
	// CB is the breaker of the dependency the retried jobs need.
	CB *infra.CircuitBreaker
}

// StartRetryCron ticks every 30s until ctx is cancelled.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				n, err := promoverVencidos(ctx, cfg, QueueNotificaciones, time.Now())
				if err != nil {
					log.Error().Err(err).Msg("retry_cron: failed to promote due retries")
				} else if n > 0 {
					log.Info().Int("count", n).Msg("retry_cron: retries re-enqueued")
				}
			}
		}
	}()
}

// promoverVencidos moves jobs due at or before now from retry:{queue} to
// queue. ZREM decides ownership so concurrent crons never double-enqueue.
func promoverVencidos(ctx context.Context, cfg RetryCronConfig, queue string, now time.Time) (int, error) {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Str("breaker", cfg.CB.Name()).Msg("retry_cron: circuit breaker is open, skipping tick")
		return 0, nil
	}

	key := RetryPrefix + queue
	due, err := cfg.RDB.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: retryBatchSize,
	}).Result()
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, member := range due {
		removed, err := cfg.RDB.ZRem(ctx, key, member).Result()
		if err != nil {
			return moved, err
		}
		if removed == 0 {
			continue
		}
		if err := cfg.RDB.LPush(ctx, queue, member).Err(); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// PendingRetries reports how many jobs wait in retry:{queue}.
func PendingRetries(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.ZCard(ctx, RetryPrefix+queue).Result()
}
