package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

const healthTimeout = 10 * time.Second

// HealthChecker probes each configured source's base URL so operators can
// tell a broken source apart from a source with no matching listings.
type HealthChecker struct {
	orch   *Orchestrator
	logger *utils.Logger
}

func NewHealthChecker(orch *Orchestrator, logger *utils.Logger) *HealthChecker {
	return &HealthChecker{orch: orch, logger: logger}
}

// CheckAll probes every source concurrently and returns one status per
// source, sorted by source name.
func (h *HealthChecker) CheckAll(ctx context.Context) []models.HealthStatus {
	sources := h.orch.Sources()

	statuses := make([]models.HealthStatus, 0, len(sources))
	var mu sync.Mutex

	pool := utils.NewWorkerPool(len(sources))
	for name, cfg := range sources {
		name, cfg := name, cfg
		pool.Submit(func() {
			status := h.checkOne(ctx, name, cfg.BaseURL, cfg.UserAgent)
			mu.Lock()
			statuses = append(statuses, status)
			mu.Unlock()
		})
	}
	pool.Wait()

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Source < statuses[j].Source })
	return statuses
}

func (h *HealthChecker) checkOne(ctx context.Context, source, baseURL, userAgent string) models.HealthStatus {
	status := models.HealthStatus{Source: source, CheckedAt: time.Now()}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		status.Error = fmt.Sprintf("build request: %v", err)
		return status
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	status.Latency = time.Since(start)
	if err != nil {
		status.Error = err.Error()
		h.logger.Warn("[health] %s unreachable: %v", source, err)
		return status
	}
	defer resp.Body.Close()

	status.StatusCode = resp.StatusCode
	status.Healthy = resp.StatusCode >= 200 && resp.StatusCode < 400
	if !status.Healthy {
		status.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		h.logger.Warn("[health] %s returned %d", source, resp.StatusCode)
	}
	return status
}
