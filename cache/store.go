// Package cache holds the key-value store behind the post listing cache and the shared
// hit/miss counters. Two stores are provided: Redis for shared deployments and an in-process
// LRU for single-instance development and tests.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key does not exist or has expired.
var ErrMiss = errors.New("cache: key not found")

// Store is the subset of a Redis-like key-value store the application relies on.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A ttl <= 0 stores without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// DeletePrefix removes every key starting with prefix and reports how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Incr atomically increments the integer at key, creating it at 0 first.
	Incr(ctx context.Context, key string) (int64, error)

	// GetInt reads an integer counter; a missing key reads as 0.
	GetInt(ctx context.Context, key string) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
