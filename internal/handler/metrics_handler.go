package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/service"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type readinessCheck struct {
	name     string
	pinger   Pinger
	required bool
}

// MetricsHandler serves /metrics, /health and /ready.
type MetricsHandler struct {
	metrics *service.MetricsService
	checks  []readinessCheck
	logger  *zap.Logger
}

// NewMetricsHandler registers db as the required "database" readiness check.
func NewMetricsHandler(metrics *service.MetricsService, db Pinger, logger *zap.Logger) *MetricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &MetricsHandler{metrics: metrics, logger: logger}
	h.AddCheck("database", db, true)
	return h
}

// AddCheck adds a dependency to /ready. A failing optional check reports
// "degraded" without failing readiness.
func (h *MetricsHandler) AddCheck(name string, p Pinger, required bool) {
	h.checks = append(h.checks, readinessCheck{name: name, pinger: p, required: required})
}

func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status, code := "ready", http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := ping(ctx, check.pinger); err != nil {
			h.logger.Warn("readiness check failed", zap.String("check", check.name), zap.Error(err))
			results[check.name] = "down"
			if check.required {
				status, code = "unavailable", http.StatusServiceUnavailable
			} else if code == http.StatusOK {
				status = "degraded"
			}
			continue
		}
		results[check.name] = "up"
	}
	c.JSON(code, gin.H{"status": status, "checks": results})
}

var errNotConfigured = errors.New("not configured")

func ping(ctx context.Context, p Pinger) error {
	if p == nil {
		return errNotConfigured
	}
	return p.PingContext(ctx)
}
