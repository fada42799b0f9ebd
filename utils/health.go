package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger is anything the health monitor can probe.
type Pinger func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Store     bool            `json:"store"`
	Deps      map[string]bool `json:"deps,omitempty"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// Healthy reports whether every probe succeeded at the last check.
func (h HealthStatus) Healthy() bool {
	if !h.Store {
		return false
	}
	for _, ok := range h.Deps {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth probes the store and every named dependency once and records the result.
func CheckHealth(ctx context.Context, store Pinger, deps map[string]Pinger) HealthStatus {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Store:     store == nil || store(probeCtx) == nil,
		Deps:      make(map[string]bool, len(deps)),
		CheckedAt: time.Now(),
	}
	for name, ping := range deps {
		status.Deps[name] = ping(probeCtx) == nil
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, interval time.Duration, store Pinger, deps map[string]Pinger) {
	CheckHealth(ctx, store, deps)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, store, deps)
			}
		}
	}()
}
