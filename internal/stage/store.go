// Package stage is the key-value staging area for records that are not yet
// (or not only) in the database: one env-configured key holds a
// JSON-serialized array of records, matched by id with a linear scan.
package stage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store stages records of type T under a single redis key.
type Store[T any] struct {
	rdb  *redis.Client
	key  string
	idOf func(T) string
}

func New[T any](rdb *redis.Client, key string, idOf func(T) string) *Store[T] {
	return &Store[T]{rdb: rdb, key: key, idOf: idOf}
}

// All returns the staged records; a missing key is an empty list.
func (s *Store[T]) All(ctx context.Context) ([]T, error) {
	raw, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading staged records: %w", err)
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decoding staged records: %w", err)
	}
	return out, nil
}

func (s *Store[T]) write(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding staged records: %w", err)
	}
	return s.rdb.Set(ctx, s.key, raw, 0).Err()
}

// Put appends the record, replacing a staged record with the same id.
func (s *Store[T]) Put(ctx context.Context, item T) error {
	items, err := s.All(ctx)
	if err != nil {
		return err
	}
	id := s.idOf(item)
	for i := range items {
		if s.idOf(items[i]) == id {
			items[i] = item
			return s.write(ctx, items)
		}
	}
	return s.write(ctx, append(items, item))
}

// Find scans for the record with the given id.
func (s *Store[T]) Find(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := s.All(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, it := range items {
		if s.idOf(it) == id {
			return it, true, nil
		}
	}
	return zero, false, nil
}

// Remove drops the record with the given id; reports whether it was present.
func (s *Store[T]) Remove(ctx context.Context, id string) (bool, error) {
	items, err := s.All(ctx)
	if err != nil {
		return false, err
	}
	for i, it := range items {
		if s.idOf(it) == id {
			items = append(items[:i], items[i+1:]...)
			return true, s.write(ctx, items)
		}
	}
	return false, nil
}
