package health

import (
	"context"
	"runtime"
	"time"

	"github.com/go-faster/errors"
)

// Pinger is anything with a Ping method, such as a pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseCheck returns a readiness CheckFunc that pings the database.
func DatabaseCheck(db Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			return errors.Wrap(err, "database ping")
		}
		return nil
	}
}

// GoroutineCountCheck returns a liveness CheckFunc that fails when the
// goroutine count exceeds threshold, a cheap leak detector.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// StartupGraceCheck returns a readiness CheckFunc that fails until grace
// has elapsed since construction. It gives background warmup a head
// start before the pod is put into rotation.
func StartupGraceCheck(grace time.Duration) CheckFunc {
	deadline := time.Now().Add(grace)
	return func(_ context.Context) error {
		if time.Now().Before(deadline) {
			return errors.New("startup grace period not elapsed")
		}
		return nil
	}
}
