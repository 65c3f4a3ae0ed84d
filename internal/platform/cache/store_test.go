package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_DeduplicatesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "profile", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "profile:user-1", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "profile" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("db down")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if v != "ok" {
		t.Fatalf("unexpected value: %v", v)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Second)
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "session", 1)
	if _, ok := store.Get(context.Background(), "session"); !ok {
		t.Fatalf("expected live entry")
	}

	now = now.Add(2 * time.Second)
	if _, ok := store.Get(context.Background(), "session"); ok {
		t.Fatalf("expected entry to expire")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "profile:user:1", 1)
	store.Set(ctx, "profile:user:2", 2)
	store.Set(ctx, "profile:username:rex", 3)

	store.DeletePrefix(ctx, "profile:user:")

	if store.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", store.Len())
	}
	if _, ok := store.Get(ctx, "profile:username:rex"); !ok {
		t.Fatalf("expected username entry to survive")
	}
}

func TestStore_PurgeExpiredRunsEvictHook(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	var evicted []string
	store := NewStore(time.Minute,
		WithClock(func() time.Time { return now }),
		WithEvictHook(func(key string, _ any) { evicted = append(evicted, key) }),
	)

	for i := 0; i < 1000; i++ {
		store.Set(ctx, fmt.Sprintf("session:%d", i), i)
	}
	now = now.Add(time.Hour)
	store.Set(ctx, "session:fresh", "fresh")

	if got := store.PurgeExpired(ctx); got != 1000 {
		t.Fatalf("expected 1000 purged, got %d", got)
	}
	if store.Retained() != 1 || store.Len() != 1 {
		t.Fatalf("expected one retained entry, retained=%d live=%d", store.Retained(), store.Len())
	}
	if len(evicted) != 1000 {
		t.Fatalf("expected evict hook for every purged entry, got %d", len(evicted))
	}
}

func TestStore_GetOfExpiredEntryRunsEvictHook(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	var evicted []any
	store := NewStore(time.Second,
		WithClock(func() time.Time { return now }),
		WithEvictHook(func(_ string, value any) { evicted = append(evicted, value) }),
	)

	store.Set(ctx, "a", "value")
	store.Delete(ctx, "missing")
	now = now.Add(2 * time.Second)
	if _, ok := store.Get(ctx, "a"); ok {
		t.Fatalf("expected entry to expire")
	}
	if len(evicted) != 1 || evicted[0] != "value" {
		t.Fatalf("unexpected evictions: %v", evicted)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
