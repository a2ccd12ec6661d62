// Package kv is the key-value persistence layer every service reads and writes
// through. Values are JSON documents; a value that fails to decode is treated as
// absent so a corrupted entry can never take a feature down.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Store is a flat namespace of keys holding encoded values.
// Implementations do not coordinate concurrent writers: the last write wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Read decodes the value stored under key. A missing or malformed value yields
// fallback with a nil error; only backend failures are returned.
func Read[T any](ctx context.Context, s Store, key string, fallback T) (T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return fallback, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.WarnContext(ctx, "discarding malformed stored value", "key", key, "error", err)
		return fallback, nil
	}
	return v, nil
}

// Write encodes value as JSON and stores it under key.
func Write(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Batcher is implemented by stores that can write several keys at once so
// that readers never observe half of the update.
type Batcher interface {
	SetMany(ctx context.Context, entries map[string][]byte) error
}

// WriteMany encodes and stores every value. Stores that are not Batchers get
// sequential writes.
func WriteMany(ctx context.Context, s Store, values map[string]any) error {
	entries := make(map[string][]byte, len(values))
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		entries[key] = raw
	}

	if b, ok := s.(Batcher); ok {
		if err := b.SetMany(ctx, entries); err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
		return nil
	}
	for key, raw := range entries {
		if err := s.Set(ctx, key, raw); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	return nil
}
