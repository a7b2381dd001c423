package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider defines the minimal cache operations needed by the dashboard.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Close() error
}

// ErrCacheMiss signals that a cache key was not found.
var ErrCacheMiss = errors.New("cache miss")

// NoopProvider implements Provider but never stores data.
type NoopProvider struct{}

// Get always returns ErrCacheMiss.
func (NoopProvider) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheMiss
}

// Set discards the value and returns nil.
func (NoopProvider) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Del is a no-op for the noop cache.
func (NoopProvider) Del(context.Context, string) error { return nil }

// Close is a no-op.
func (NoopProvider) Close() error { return nil }

// New builds the provider named by driver. The valkey driver pings the server
// and fails fast when it is unreachable.
func New(driver string, valkey ValkeyConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "none":
		return NoopProvider{}, nil
	case "memory":
		return NewMemoryProvider(), nil
	case "valkey":
		return NewValkeyProvider(valkey)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}
