package stage

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type staged struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

func newStore(t *testing.T) *Store[staged] {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb, "impulso:pending-visits", func(s staged) string { return s.ID })
}

func TestStore_AllOnMissingKey(t *testing.T) {
	s := newStore(t)
	items, err := s.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("missing key => %+v, want empty", items)
	}
}

func TestStore_PutFindRemove(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, staged{ID: "a", Value: "uno"}); err != nil {
		t.Fatalf("Put a: %v", err)
	}
	if err := s.Put(ctx, staged{ID: "b", Value: "dos"}); err != nil {
		t.Fatalf("Put b: %v", err)
	}

	got, found, err := s.Find(ctx, "a")
	if err != nil || !found || got.Value != "uno" {
		t.Fatalf("Find a = %+v found=%v err=%v", got, found, err)
	}
	if _, found, _ := s.Find(ctx, "zzz"); found {
		t.Fatal("Find zzz reported present")
	}

	removed, err := s.Remove(ctx, "a")
	if err != nil || !removed {
		t.Fatalf("Remove a = %v, %v", removed, err)
	}
	if _, found, _ := s.Find(ctx, "a"); found {
		t.Fatal("a still present after Remove")
	}
	items, _ := s.All(ctx)
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("remaining = %+v, want only b", items)
	}

	removed, err = s.Remove(ctx, "a")
	if err != nil || removed {
		t.Fatalf("second Remove = %v, %v; want false,nil", removed, err)
	}
}

func TestStore_PutReplacesById(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, staged{ID: "a", Value: "vieja"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, staged{ID: "a", Value: "nueva"}); err != nil {
		t.Fatalf("re-Put: %v", err)
	}

	items, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(items) != 1 || items[0].Value != "nueva" {
		t.Fatalf("items = %+v, want single replaced entry", items)
	}
}
