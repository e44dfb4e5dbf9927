package database

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// HealthStatus describes Redis reachability for the health endpoint.
type HealthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Health pings Redis and reports its status.
func Health(ctx context.Context, rdb *redis.Client) (HealthStatus, error) {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return HealthStatus{Status: "unreachable", Error: err.Error()}, err
	}
	return HealthStatus{Status: "connected"}, nil
}
