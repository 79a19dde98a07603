// Package store persists the dashboard's user preferences in a small key-value store.
package store

import (
	"context"
	"fmt"
)

// KV is a string key-value store. Get reports whether the key exists.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Kind          string // file, sqlite, redis or memory
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open creates the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Kind {
	case "file", "":
		return NewFileStore(opts.Path)
	case "sqlite":
		return NewSQLiteStore(opts.Path)
	case "redis":
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage kind %q", opts.Kind)
	}
}
