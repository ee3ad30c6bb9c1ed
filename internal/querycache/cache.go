package querycache

import (
	"context"
	"time"
)

const DefaultTTL = 5 * time.Minute

// Cache stores query results as JSON under string keys.
//
// Every Invalidate or InvalidatePrefix advances the generation. A reader
// captures Generation before loading from the store and writes back with
// SetIfCurrent, which refuses the write once any invalidation has happened
// in between, so a slow read can never resurrect rows a mutation replaced.
type Cache interface {
	// Get decodes the cached value into dest and reports whether the key was present.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Generation(ctx context.Context) (uint64, error)
	// SetIfCurrent stores value only while the generation still equals gen.
	SetIfCurrent(ctx context.Context, key string, gen uint64, value interface{}) (bool, error)
	Invalidate(ctx context.Context, keys ...string) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Noop never hits. Useful where caching is switched off.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, interface{}) error         { return nil }
func (Noop) Generation(context.Context) (uint64, error)             { return 0, nil }
func (Noop) Invalidate(context.Context, ...string) error            { return nil }
func (Noop) InvalidatePrefix(context.Context, string) error         { return nil }

func (Noop) SetIfCurrent(context.Context, string, uint64, interface{}) (bool, error) {
	return false, nil
}
