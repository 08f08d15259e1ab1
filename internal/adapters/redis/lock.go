package redisad

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"eco_hotels/internal/adapters/observability"
	"eco_hotels/internal/domain"
)

const keyPrefix = "ecohotels:lock:"

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a single-key lease lock on Redis (SET NX PX + owner-checked release).
type Locker struct{ c *redis.Client }

func New(addr, pass string, db int) *Locker {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewFromClient(c *redis.Client) *Locker { return &Locker{c: c} }

var _ domain.Locker = (*Locker)(nil)

// Acquire takes the lease for key. ok is false when another owner holds it.
// The lease expires after ttl even if release is never called.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.c.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		observability.ObserveLock("contended")
		return nil, false, nil
	}
	observability.ObserveLock("acquired")

	release := func() {
		// the caller's ctx may already be done
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.c, []string{keyPrefix + key}, token).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("lock release failed")
			return
		}
		observability.ObserveLock("released")
	}
	return release, true, nil
}

func (l *Locker) Ping(ctx context.Context) error { return l.c.Ping(ctx).Err() }

func (l *Locker) Close() error { return l.c.Close() }
