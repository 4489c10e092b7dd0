package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestAcquireIsExclusive(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	a := NewRedisLock(client, "scheduler", time.Minute)
	b := NewRedisLock(client, "scheduler", time.Minute)

	ok, err := a.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	ok, err = b.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("second holder acquired a held lock")
	}
}

func TestReleaseAllowsReacquire(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	a := NewRedisLock(client, "scheduler", time.Minute)
	b := NewRedisLock(client, "scheduler", time.Minute)

	if ok, _ := a.Acquire(ctx); !ok {
		t.Fatal("acquire failed")
	}
	if err := a.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := b.Acquire(ctx); !ok {
		t.Fatal("reacquire after release failed")
	}
}

func TestReleaseByNonOwnerKeepsLock(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	a := NewRedisLock(client, "scheduler", time.Minute)
	b := NewRedisLock(client, "scheduler", time.Minute)

	if ok, _ := a.Acquire(ctx); !ok {
		t.Fatal("acquire failed")
	}
	// b never acquired; its release must not free a's lock.
	if err := b.Release(ctx); err != nil {
		t.Fatalf("non-owner release: %v", err)
	}
	if ok, _ := b.Acquire(ctx); ok {
		t.Fatal("lock was freed by a non-owner release")
	}
}

func TestDifferentKeysDoNotContend(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	a := NewRedisLock(client, "scheduler", time.Minute)
	b := NewRedisLock(client, "other", time.Minute)

	if ok, _ := a.Acquire(ctx); !ok {
		t.Fatal("acquire a failed")
	}
	if ok, _ := b.Acquire(ctx); !ok {
		t.Fatal("acquire b failed")
	}
}
