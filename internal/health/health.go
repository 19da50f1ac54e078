package health

import (
	"context"
	"time"

	"cohort-backend/internal/cache"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type HealthChecker struct {
	db *pgxpool.Pool
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Cache    CacheHealth    `json:"cache"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type CacheHealth struct {
	Status string `json:"status"`
}

type SystemHealth struct {
	CPUPercent  float64 `json:"cpu_percent"`
	MemoryUsed  float64 `json:"memory_used_percent"`
	DiskUsed    float64 `json:"disk_used_percent"`
	MemoryTotal uint64  `json:"memory_total_bytes"`
}

func NewHealthChecker(db *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := h.checkDatabase()

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Cache:    h.checkCache(),
	}
}

func (h *HealthChecker) checkDatabase() DatabaseHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

// checkCache reports "disabled" when no redis client was configured. A dead
// cache never marks the service unhealthy; breakdowns just recompute.
func (h *HealthChecker) checkCache() CacheHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	switch {
	case !cache.Enabled():
		return CacheHealth{Status: "disabled"}
	case cache.Ping(ctx) != nil:
		return CacheHealth{Status: "unhealthy"}
	default:
		return CacheHealth{Status: "healthy"}
	}
}

// CheckSystem collects host-level stats for the detailed health endpoint.
func (h *HealthChecker) CheckSystem() SystemHealth {
	var out SystemHealth

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		out.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		out.MemoryUsed = vm.UsedPercent
		out.MemoryTotal = vm.Total
	}
	if du, err := disk.Usage("/"); err == nil {
		out.DiskUsed = du.UsedPercent
	}

	return out
}
