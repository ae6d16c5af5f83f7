package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Varun5711/tasktracker/internal/logger"
	"github.com/Varun5711/tasktracker/internal/redis"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisStatus is the optional shared Redis behind the cache and rate limiter.
type RedisStatus interface {
	Ping(ctx context.Context) error
	Stats() map[string]interface{}
}

type HealthHandler struct {
	store Pinger
	redis RedisStatus
	log   *logger.Logger
}

// NewHealthHandler reports on the store and, when rdb is non-nil, on Redis.
func NewHealthHandler(store Pinger, rdb RedisStatus, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		store: store,
		redis: rdb,
		log:   log.Named("health"),
	}
}

// Health returns 503 only when the store is down. Redis outages degrade
// caching and rate limiting but leave the service usable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := map[string]interface{}{"status": "ok"}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("Store ping failed: %v", err)
		body["status"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		switch err := h.redis.Ping(ctx); {
		case errors.Is(err, redis.ErrDisabled):
			body["redis"] = "disabled"
		case err != nil:
			h.log.Warn("Redis ping failed: %v", err)
			body["redis"] = "unavailable"
		default:
			body["redis"] = "ok"
			body["redis_pool"] = h.redis.Stats()
		}
	}

	respondJSON(w, status, body)
}
