package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Guard admits one holder per key. Acquire never blocks waiting for a busy key.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

// MemoryGuard guards keys within one process.
type MemoryGuard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{busy: map[string]struct{}{}}
}

func (g *MemoryGuard) Acquire(ctx context.Context, key string) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.busy[key]; held {
		return nil, false, nil
	}
	g.busy[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, true, nil
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard guards keys across instances with SET NX PX. The TTL bounds how long a
// crashed holder can keep a position busy.
type RedisGuard struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisGuard(rdb goredis.UniversalClient, prefix string, ttl time.Duration) *RedisGuard {
	if prefix == "" {
		prefix = "aet:regen:"
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisGuard{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), bool, error) {
	full := g.prefix + key
	token := uuid.NewString()
	ok, err := g.rdb.SetNX(ctx, full, token, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("regeneration guard: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be done
			relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(relCtx, g.rdb, []string{full}, token).Err()
		})
	}, true, nil
}
