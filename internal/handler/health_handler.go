package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"learnos/internal/domain"
	"learnos/internal/dto"
	"learnos/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	checkOK       = "ok"
	checkFailed   = "unavailable"
	checkDisabled = "disabled"

	healthCheckTimeout = 2 * time.Second
)

// HealthHandler reports liveness and dependency reachability
type HealthHandler struct {
	store     domain.LessonRepository
	cache     domain.Cache
	hasAPIKey bool
	port      int
	now       func() time.Time
}

// NewHealthHandler creates a new HealthHandler. cache may be nil when caching is disabled.
func NewHealthHandler(store domain.LessonRepository, cache domain.Cache, hasAPIKey bool, port int) *HealthHandler {
	return &HealthHandler{
		store:     store,
		cache:     cache,
		hasAPIKey: hasAPIKey,
		port:      port,
		now:       time.Now,
	}
}

// Health godoc
// @Summary Health check
// @Description Reports service status and whether the store and cache are reachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		checks = map[string]string{"store": checkOK, "cache": checkDisabled}
	)
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			logger.Get().Warn("Health check failed", zap.String("check", name), zap.Error(err))
			checks[name] = checkFailed
			return
		}
		checks[name] = checkOK
	}

	// Checks never fail the group; each records its own outcome.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record("store", h.store.Ping(gctx))
		return nil
	})
	if h.cache != nil {
		g.Go(func() error {
			record("cache", h.cache.Ping(gctx))
			return nil
		})
	}
	_ = g.Wait()

	status, code := "OK", http.StatusOK
	for _, v := range checks {
		if v == checkFailed {
			status, code = "DEGRADED", http.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Env: dto.HealthEnv{
			HasAPIKey: h.hasAPIKey,
			Port:      h.port,
		},
		Checks: checks,
	})
}
