package database

import (
	"context"
	"time"
)

// Pinger is implemented by every backing store the workers depend on.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings each dependency with its own timeout. The result holds one
// entry per non-nil dependency; a nil error means the ping succeeded.
func CheckAll(ctx context.Context, timeout time.Duration, deps ...Pinger) map[string]error {
	results := make(map[string]error, len(deps))
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		results[dep.Name()] = dep.Ping(pingCtx)
		cancel()
	}
	return results
}
