// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

const readinessTimeout = 5 * time.Second

// Status is the readiness report.
type Status struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus is the health of one dependency.
type DependencyStatus struct {
	Status    string  `json:"status"`
	Message   string  `json:"message,omitempty"`
	LatencyMS float64 `json:"latency_ms"`
}

// Checker probes the database and, when configured, redis.
type Checker struct {
	db    *sql.DB
	redis redis.UniversalClient
	// redisRequired makes a redis outage unhealthy instead of degraded.
	redisRequired bool
}

// NewChecker creates a checker. db and client may be nil.
func NewChecker(db *sql.DB, client redis.UniversalClient, redisRequired bool) *Checker {
	return &Checker{db: db, redis: client, redisRequired: redisRequired}
}

// RegisterRoutes registers /live and /ready on r.
func (h *Checker) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)
}

// Liveness reports that the process is serving.
//
//	@Summary	Liveness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Router		/health/live [get]
func (h *Checker) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": StatusHealthy, "timestamp": time.Now()})
}

// Readiness checks dependencies. Unhealthy answers 503.
//
//	@Summary	Readiness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	Status
//	@Failure	503	{object}	Status
//	@Router		/health/ready [get]
func (h *Checker) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := h.Check(ctx)
	code := http.StatusOK
	if status.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

// Check probes every configured dependency.
func (h *Checker) Check(ctx context.Context) Status {
	status := Status{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyStatus),
	}

	if h.db != nil {
		dep := probe(func() error { return h.db.PingContext(ctx) })
		status.Dependencies["database"] = dep
		if dep.Status == StatusUnhealthy {
			status.Status = StatusUnhealthy
		}
	}

	if h.redis != nil {
		dep := probe(func() error { return h.redis.Ping(ctx).Err() })
		status.Dependencies["redis"] = dep
		if dep.Status == StatusUnhealthy {
			switch {
			case h.redisRequired:
				status.Status = StatusUnhealthy
			case status.Status != StatusUnhealthy:
				status.Status = StatusDegraded
			}
		}
	}

	return status
}

func probe(ping func() error) DependencyStatus {
	start := time.Now()
	err := ping()
	dep := DependencyStatus{
		Status:    StatusHealthy,
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		dep.Status = StatusUnhealthy
		dep.Message = err.Error()
	}
	return dep
}
