package loom

import (
	"context"
	"sync"
	"time"
)

type HealthStatus string

const (
	HealthStatusUp      HealthStatus = "up"
	HealthStatusDown    HealthStatus = "down"
	HealthStatusUnknown HealthStatus = "unknown"
)

type HealthReport struct {
	Token   string
	Status  HealthStatus
	Error   error
	Latency time.Duration
}

// HealthChecker is implemented by provider instances that can report
// liveness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type ReadinessChecker interface {
	ReadinessCheck(ctx context.Context) error
}

func (c *Container) Live(ctx context.Context) error {
	for _, r := range c.checkAll(ctx, healthCheck) {
		if r.Status == HealthStatusDown {
			return errHealthCheckFailed(r.Token, r.Error)
		}
	}
	return nil
}

func (c *Container) Ready(ctx context.Context) error {
	for _, r := range c.checkAll(ctx, readinessCheck) {
		if r.Status == HealthStatusDown {
			return errHealthCheckFailed(r.Token, r.Error)
		}
	}
	return nil
}

func (c *Container) Health(ctx context.Context) []HealthReport {
	return c.checkAll(ctx, healthCheck)
}

type checkKind int

const (
	healthCheck checkKind = iota
	readinessCheck
)

func (c *Container) checkAll(ctx context.Context, kind checkKind) []HealthReport {
	var (
		reports []HealthReport
		mu      sync.Mutex
		wg      sync.WaitGroup
	)

	for token, instance := range c.internal.Instances() {
		check := checkFunc(instance, kind)
		if check == nil {
			continue
		}

		wg.Add(1)
		go func(token string, check func(context.Context) error) {
			defer wg.Done()

			start := time.Now()
			err := check(ctx)

			report := HealthReport{
				Token:   token,
				Status:  HealthStatusUp,
				Latency: time.Since(start),
			}
			if err != nil {
				report.Status = HealthStatusDown
				report.Error = err
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		}(token, check)
	}

	wg.Wait()
	return reports
}

func checkFunc(instance any, kind checkKind) func(context.Context) error {
	switch kind {
	case healthCheck:
		if checker, ok := instance.(HealthChecker); ok {
			return checker.HealthCheck
		}
	case readinessCheck:
		if checker, ok := instance.(ReadinessChecker); ok {
			return checker.ReadinessCheck
		}
	}
	return nil
}
