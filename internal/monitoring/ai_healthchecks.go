package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	HEALTHCHECK_TIMEOUT  = 5 * time.Second
	HEALTHCHECK_INTERVAL = 30 * time.Second
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MonitorTranslatorHealth checks the translator right away and then on every
// tick, storing the result in healthy until ctx is done. A non-positive
// interval falls back to HEALTHCHECK_INTERVAL.
func MonitorTranslatorHealth(ctx context.Context, checker HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check(ctx, checker, healthy)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check(ctx, checker, healthy)
		}
	}
}

func check(ctx context.Context, checker HealthChecker, healthy *atomic.Bool) {
	checkCtx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
	defer cancel()

	err := checker.HealthCheck(checkCtx)
	wasHealthy := healthy.Swap(err == nil)
	if err != nil {
		if wasHealthy {
			slog.Warn("[HealthCheck] Translator is unhealthy",
				slog.String("error", err.Error()))
		}
		return
	}
	if !wasHealthy {
		slog.Info("[HealthCheck] Translator is healthy")
	}
}
