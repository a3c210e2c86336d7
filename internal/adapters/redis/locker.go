package redisad

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"pokemon_review/internal/adapters/observability"
)

const keyPrefix = "pokemon:name:"

// Compare-and-delete so a holder whose TTL expired cannot drop someone
// else's reservation.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// NameLocker reserves Pokemon names with SET NX PX.
type NameLocker struct{ c *redis.Client }

func New(addr, pass string, db int) *NameLocker {
	return &NameLocker{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func NewFromClient(c *redis.Client) *NameLocker { return &NameLocker{c: c} }

func (l *NameLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	token, err := newToken()
	if err != nil {
		return nil, false, err
	}
	key := keyPrefix + name
	ok, err := l.c.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		observability.ObserveLock("error")
		return nil, false, err
	}
	if !ok {
		observability.ObserveLock("contended")
		return nil, false, nil
	}
	observability.ObserveLock("acquired")

	release := func() {
		// detached from the request so a cancelled caller still releases
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, l.c, []string{key}, token).Err()
		observability.ObserveLock("released")
	}
	return release, true, nil
}

func (l *NameLocker) Ping(ctx context.Context) error { return l.c.Ping(ctx).Err() }

func (l *NameLocker) Close() error { return l.c.Close() }

func newToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
