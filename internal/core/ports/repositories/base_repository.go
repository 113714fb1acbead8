package repositories

import "context"

// HealthChecker is implemented by stores that hold a connection worth probing.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
