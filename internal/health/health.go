package health

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// Pinger is satisfied by *pgxpool.Pool and the document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db      Pinger
	storage Pinger
	redisOK func() bool
}

type HealthStatus struct {
	Status   string           `json:"status"`
	Database ComponentHealth  `json:"database"`
	Redis    *ComponentHealth `json:"redis,omitempty"`
	Storage  *ComponentHealth `json:"storage,omitempty"`
	Host     *HostStats       `json:"host,omitempty"`
	Checked  time.Time        `json:"checkedAt"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float64 `json:"memoryPercent"`
	DiskPercent   float64 `json:"diskPercent"`
	Goroutines    int     `json:"goroutines"`
}

// NewHealthChecker wires the probes. storage and redisOK may be nil when
// those backends are not configured.
func NewHealthChecker(db Pinger, storage Pinger, redisOK func() bool) *HealthChecker {
	return &HealthChecker{db: db, storage: storage, redisOK: redisOK}
}

// CheckBasic only looks at the database; without it nothing works.
func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := ping(h.db)

	status := StatusHealthy
	if dbHealth.Status != StatusHealthy {
		status = StatusUnhealthy
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Checked:  time.Now(),
	}
}

// CheckDetailed adds Redis, storage and host statistics. Redis or storage
// trouble degrades the status; it never makes the service unhealthy.
func (h *HealthChecker) CheckDetailed() HealthStatus {
	status := h.CheckBasic()

	redis := ComponentHealth{Status: StatusDisabled}
	if h.redisOK != nil {
		start := time.Now()
		redis.Status = StatusUnhealthy
		if h.redisOK() {
			redis.Status = StatusHealthy
		}
		redis.ResponseTime = time.Since(start).Milliseconds()
	}
	status.Redis = &redis

	store := ComponentHealth{Status: StatusDisabled}
	if h.storage != nil {
		store = ping(h.storage)
	}
	status.Storage = &store

	if status.Status == StatusHealthy && (redis.Status == StatusUnhealthy || store.Status == StatusUnhealthy) {
		status.Status = StatusDegraded
	}

	status.Host = hostStats()
	return status
}

func ping(p Pinger) ComponentHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: StatusUnhealthy, ResponseTime: responseTime}
	}
	return ComponentHealth{Status: StatusHealthy, ResponseTime: responseTime}
}

func hostStats() *HostStats {
	stats := &HostStats{Goroutines: runtime.NumGoroutine()}

	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		stats.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
	}
	return stats
}
