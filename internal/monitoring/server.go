// Package monitoring runs the ops listener: Prometheus metrics, a JSON
// stats page and threshold alerts, on a port separate from the API.
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"suryaghar-backend/internal/health"
	applog "suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/metrics"
	"suryaghar-backend/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"

	maxAlerts         = 100
	slowDatabaseMs    = 1000
	hostUsageLimitPct = 90.0
)

type Alert struct {
	ID         int        `json:"id"`
	Severity   string     `json:"severity"`
	Type       string     `json:"type"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
	Resolved   bool       `json:"resolved"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

type PoolStats struct {
	TotalConns    int32 `json:"totalConns"`
	IdleConns     int32 `json:"idleConns"`
	AcquiredConns int32 `json:"acquiredConns"`
	MaxConns      int32 `json:"maxConns"`
}

type Stats struct {
	Health       health.HealthStatus `json:"health"`
	Pool         *PoolStats          `json:"pool,omitempty"`
	ActiveAlerts int                 `json:"activeAlerts"`
}

type MonitoringServer struct {
	checker  *health.HealthChecker
	pool     *pgxpool.Pool
	port     int
	interval time.Duration
	logger   *zap.Logger

	alertsMux sync.RWMutex
	alerts    []Alert
	nextID    int
	firing    map[string]int // alert type -> index into alerts
}

// NewMonitoringServer builds the ops listener. pool may be nil, which
// leaves connection stats out of /stats.
func NewMonitoringServer(checker *health.HealthChecker, pool *pgxpool.Pool, port int, logger *zap.Logger) *MonitoringServer {
	return &MonitoringServer{
		checker:  checker,
		pool:     pool,
		port:     port,
		interval: 30 * time.Second,
		logger:   applog.OrNop(logger).Named("monitoring"),
		firing:   make(map[string]int),
	}
}

func (ms *MonitoringServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/stats", ms.getStats).Methods("GET")
	r.HandleFunc("/alerts", ms.getAlerts).Methods("GET")
	return r
}

// Run serves until ctx is cancelled and checks health every interval.
func (ms *MonitoringServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", ms.port),
		Handler:           ms.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go ms.monitorHealth(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	ms.logger.Info("monitoring listener started", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (ms *MonitoringServer) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(ms.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ms.Evaluate(ms.checker.CheckDetailed(), time.Now())
		}
	}
}

type condition struct {
	kind     string
	severity string
	message  string
}

func conditions(status health.HealthStatus) []condition {
	var out []condition
	if status.Database.Status != health.StatusHealthy {
		out = append(out, condition{"database_down", SeverityCritical, "Database is unreachable"})
	} else if status.Database.ResponseTime > slowDatabaseMs {
		out = append(out, condition{"high_latency", SeverityWarning,
			fmt.Sprintf("Database response time: %dms", status.Database.ResponseTime)})
	}
	if status.Redis != nil && status.Redis.Status == health.StatusUnhealthy {
		out = append(out, condition{"redis_down", SeverityWarning, "Redis is unreachable; dashboards are served uncached"})
	}
	if status.Storage != nil && status.Storage.Status == health.StatusUnhealthy {
		out = append(out, condition{"storage_down", SeverityWarning, "Document storage is unreachable"})
	}
	if h := status.Host; h != nil {
		if h.DiskPercent > hostUsageLimitPct {
			out = append(out, condition{"disk_full", SeverityWarning, fmt.Sprintf("Disk usage at %.0f%%", h.DiskPercent)})
		}
		if h.MemoryPercent > hostUsageLimitPct {
			out = append(out, condition{"memory_high", SeverityWarning, fmt.Sprintf("Memory usage at %.0f%%", h.MemoryPercent)})
		}
	}
	return out
}

// Evaluate raises an alert the first time a condition is seen and resolves
// it once the condition clears. A condition that stays true raises nothing
// new.
func (ms *MonitoringServer) Evaluate(status health.HealthStatus, now time.Time) {
	current := conditions(status)
	seen := make(map[string]bool, len(current))

	ms.alertsMux.Lock()
	defer ms.alertsMux.Unlock()

	for _, c := range current {
		seen[c.kind] = true
		if _, ok := ms.firing[c.kind]; ok {
			continue
		}
		ms.nextID++
		ms.alerts = append(ms.alerts, Alert{
			ID:        ms.nextID,
			Severity:  c.severity,
			Type:      c.kind,
			Message:   c.message,
			Timestamp: now,
		})
		ms.firing[c.kind] = ms.nextID
		metrics.SystemAlerts.WithLabelValues(c.kind).Inc()
		ms.logger.Warn("alert raised", zap.String("type", c.kind), zap.String("severity", c.severity), zap.String("message", c.message))
	}

	for kind, id := range ms.firing {
		if seen[kind] {
			continue
		}
		for i := range ms.alerts {
			if ms.alerts[i].ID == id {
				resolvedAt := now
				ms.alerts[i].Resolved = true
				ms.alerts[i].ResolvedAt = &resolvedAt
			}
		}
		delete(ms.firing, kind)
		ms.logger.Info("alert resolved", zap.String("type", kind))
	}

	if len(ms.alerts) > maxAlerts {
		ms.alerts = append([]Alert(nil), ms.alerts[len(ms.alerts)-maxAlerts:]...)
	}
}

func (ms *MonitoringServer) Alerts() []Alert {
	ms.alertsMux.RLock()
	defer ms.alertsMux.RUnlock()
	return append([]Alert(nil), ms.alerts...)
}

func (ms *MonitoringServer) getAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := ms.Alerts()
	if alerts == nil {
		alerts = []Alert{}
	}
	utils.JSON(w, http.StatusOK, alerts)
}

func (ms *MonitoringServer) getStats(w http.ResponseWriter, r *http.Request) {
	stats := Stats{Health: ms.checker.CheckDetailed()}
	if ms.pool != nil {
		st := ms.pool.Stat()
		stats.Pool = &PoolStats{
			TotalConns:    st.TotalConns(),
			IdleConns:     st.IdleConns(),
			AcquiredConns: st.AcquiredConns(),
			MaxConns:      st.MaxConns(),
		}
	}

	ms.alertsMux.RLock()
	stats.ActiveAlerts = len(ms.firing)
	ms.alertsMux.RUnlock()

	utils.JSON(w, http.StatusOK, stats)
}
