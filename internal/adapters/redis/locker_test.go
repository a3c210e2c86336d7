package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "pokemon_review/internal/adapters/redis"
)

func newLocker(t *testing.T) (*redisad.NameLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	l := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = l.Close() })
	return l, mr
}

func TestNameLocker_AcquireContendRelease(t *testing.T) {
	ctx := context.Background()
	l, mr := newLocker(t)

	release, ok, err := l.Acquire(ctx, "Pikachu", 5*time.Second)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if !mr.Exists("pokemon:name:Pikachu") {
		t.Fatalf("reservation key missing")
	}

	if _, ok, err := l.Acquire(ctx, "Pikachu", 5*time.Second); err != nil || ok {
		t.Fatalf("second acquire should be contended: ok=%v err=%v", ok, err)
	}

	// different name is independent
	r2, ok, err := l.Acquire(ctx, "Raichu", 5*time.Second)
	if err != nil || !ok {
		t.Fatalf("other name: ok=%v err=%v", ok, err)
	}
	r2()

	release()
	if mr.Exists("pokemon:name:Pikachu") {
		t.Fatalf("reservation not released")
	}
	if _, ok, _ := l.Acquire(ctx, "Pikachu", 5*time.Second); !ok {
		t.Fatalf("re-acquire after release failed")
	}
}

func TestNameLocker_ExpiredHolderDoesNotReleaseNewOwner(t *testing.T) {
	ctx := context.Background()
	l, mr := newLocker(t)

	stale, ok, err := l.Acquire(ctx, "Mew", time.Second)
	if err != nil || !ok {
		t.Fatalf("acquire: ok=%v err=%v", ok, err)
	}
	mr.FastForward(2 * time.Second)

	_, ok, err = l.Acquire(ctx, "Mew", 5*time.Second)
	if err != nil || !ok {
		t.Fatalf("acquire after expiry: ok=%v err=%v", ok, err)
	}

	stale()
	if !mr.Exists("pokemon:name:Mew") {
		t.Fatalf("stale release removed the new reservation")
	}
}

func TestNameLocker_ServerDown(t *testing.T) {
	l, mr := newLocker(t)
	mr.Close()

	if _, _, err := l.Acquire(context.Background(), "Ditto", time.Second); err == nil {
		t.Fatalf("expected error with redis down")
	}
}
