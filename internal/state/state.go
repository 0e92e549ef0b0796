package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dryfruto/storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// SeedLock serialises seed runs. Acquire fails with domain.ErrSeedInProgress
// while another holder owns the lock.
type SeedLock interface {
	Acquire(ctx context.Context) (release func(), err error)
}

type redisSeedLock struct {
	redisClient *redis.Client
	key         string
	ttl         time.Duration
}

// releaseScript deletes the key only when it still holds our token, so an
// expired lock re-acquired by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewRedisSeedLock shares the seed lock across every instance using the same Redis.
func NewRedisSeedLock(redisClient *redis.Client, key string, ttl time.Duration) SeedLock {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &redisSeedLock{
		redisClient: redisClient,
		key:         key,
		ttl:         ttl,
	}
}

func (l *redisSeedLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	ok, err := l.redisClient.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire seed lock %s: %w", l.key, err)
	}
	if !ok {
		return nil, domain.ErrSeedInProgress
	}

	log.Debugf("🔒 Acquired seed lock %s", l.key)
	return func() {
		// The caller's context may already be done when the seed fails.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := releaseScript.Run(releaseCtx, l.redisClient, []string{l.key}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Warnf("⚠️ Failed to release seed lock %s: %v", l.key, err)
			return
		}
		log.Debugf("🔓 Released seed lock %s", l.key)
	}, nil
}

type localSeedLock struct {
	mu   sync.Mutex
	held bool
}

// NewLocalSeedLock guards seeding within a single process.
func NewLocalSeedLock() SeedLock {
	return &localSeedLock{}
}

func (l *localSeedLock) Acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return nil, domain.ErrSeedInProgress
	}
	l.held = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.held = false
			l.mu.Unlock()
		})
	}, nil
}
