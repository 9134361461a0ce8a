package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"gestoreventos/internal/apierror"
	"gestoreventos/internal/infra"
	"gestoreventos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health checks DB and Redis connectivity and reports breaker positions and
// notification backlog. Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, breakers ...*infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		cbs := make(map[string]string, len(breakers))
		for _, cb := range breakers {
			cbs[cb.Name()] = cb.State().String()
		}

		body := gin.H{
			"db":               dbStatus,
			"redis":            redisStatus,
			"circuit_breakers": cbs,
		}
		if redisStatus == "connected" {
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueNotificaciones); err == nil {
				body["notificaciones_dlq"] = n
			}
			if n, err := worker.PendingRetries(ctx, rdb, worker.QueueNotificaciones); err == nil {
				body["notificaciones_reintentos"] = n
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = status == http.StatusOK
		c.JSON(status, body)
	}
}

// RedriveNotificaciones godoc
// @Summary      Reencolar notificaciones fallidas
// @Description  Mueve hasta `max` entradas de la cola de fallidos de vuelta a la cola de notificaciones.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        max query int false "Máximo de entradas (default 100)"
// @Success      200 {object} map[string]int
// @Router       /v1/admin/notificaciones/redrive [post]
func RedriveNotificaciones(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		max := 100
		if raw := c.Query("max"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, apierror.New("max debe ser un entero positivo"))
				return
			}
			max = n
		}
		moved, err := worker.RedriveDLQ(c.Request.Context(), rdb, worker.QueueNotificaciones, max)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reencoladas": moved})
	}
}
