package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/response"
)

var processStart = time.Now()

const dependencyPingTimeout = 2 * time.Second

// SystemHandler exposes the health check and the administrative
// metrics stream.
type SystemHandler struct {
	db  *mongo.Database
	rdb *redis.Client
	log zerolog.Logger
}

// NewSystemHandler creates a new system handler.
func NewSystemHandler(db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		db:  db,
		rdb: rdb,
		log: logger.Component(log, "system_handler"),
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Health godoc
// GET /health
//
// Pings Mongo and Redis. Any failing dependency turns the overall
// status to degraded and the response to 503 so load balancers stop
// routing here.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dependencyPingTimeout)
	defer cancel()

	deps := gin.H{}
	healthy := true

	if err := h.db.Client().Ping(ctx, nil); err != nil {
		deps["mongo"] = dependencyStatus{Status: "down", Error: err.Error()}
		healthy = false
	} else {
		deps["mongo"] = dependencyStatus{Status: "ok"}
	}

	if err := h.rdb.Ping(ctx).Err(); err != nil {
		deps["redis"] = dependencyStatus{Status: "down", Error: err.Error()}
		healthy = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
		h.log.Warn().Interface("dependencies", deps).Msg("health check degraded")
	}

	response.Success(c, code, gin.H{
		"status":         status,
		"dependencies":   deps,
		"uptime_seconds": int64(time.Since(processStart).Seconds()),
	})
}

type systemMetrics struct {
	Goroutines         int     `json:"goroutines"`
	HeapAllocMB        float64 `json:"heap_alloc_mb"`
	HeapSysMB          float64 `json:"heap_sys_mb"`
	GCRuns             uint32  `json:"gc_runs"`
	RatingQueueDepth   int64   `json:"rating_queue_depth"`
	ActivityQueueDepth int64   `json:"activity_queue_depth"`
	UptimeSeconds      int64   `json:"uptime_seconds"`
}

// MetricsStream godoc
// GET /admin/system/metrics
//
// Streams process and queue metrics over SSE every two seconds until
// the client disconnects. Queue depths come straight from Redis, so an
// operator can watch a worker backlog drain live.
func (h *SystemHandler) MetricsStream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	// First frame goes out immediately so dashboards render without a
	// tick of delay.
	for {
		c.SSEvent("metrics", h.collectMetrics(ctx))
		c.Writer.Flush()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *SystemHandler) collectMetrics(ctx context.Context) systemMetrics {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m := systemMetrics{
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(mem.HeapAlloc) / (1 << 20),
		HeapSysMB:     float64(mem.HeapSys) / (1 << 20),
		GCRuns:        mem.NumGC,
		UptimeSeconds: int64(time.Since(processStart).Seconds()),
	}

	// Depths are best-effort; a Redis hiccup shows as zero rather than
	// killing the stream.
	if depth, err := h.rdb.LLen(ctx, config.WorkerKey.PersistRatingsQueue).Result(); err == nil {
		m.RatingQueueDepth = depth
	}
	if depth, err := h.rdb.LLen(ctx, config.WorkerKey.ActivityEventsQueue).Result(); err == nil {
		m.ActivityQueueDepth = depth
	}
	return m
}
