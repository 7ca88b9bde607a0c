package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dubey-IITB/resume-tracker/internal/config"
	"github.com/Dubey-IITB/resume-tracker/internal/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "ranking:lock:"

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

var renewScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0
`)

// NewRedisClient connects to REDIS_ADDR. It returns nil when no address is
// configured or the server does not answer, leaving callers on local locks.
func NewRedisClient(cfg *config.RedisConfig, log *zap.Logger) *redis.Client {
	log = logger.OrNop(log)
	if cfg == nil || cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, ranking locks stay in-process", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

// RedisLocker takes the local lock first, then a SET NX key in Redis holding
// a random token. Only the holder of the token can extend or delete the key.
// The key is re-armed every ttl/3 until release.
type RedisLocker struct {
	local         *LocalLocker
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
	log           *zap.Logger

	warnedUnavailable atomic.Bool
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisLocker{
		local:         NewLocalLocker(),
		client:        client,
		ttl:           ttl,
		retryInterval: 100 * time.Millisecond,
		log:           logger.OrNop(log),
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	releaseLocal, err := l.local.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	if l.client == nil {
		return releaseLocal, nil
	}

	redisKey := keyPrefix + key
	token := uuid.NewString()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				releaseLocal()
				return nil, ctxErr
			}
			l.warnUnavailableOnce(err)
			return releaseLocal, nil
		}
		if ok {
			break
		}

		select {
		case <-time.After(l.retryInterval):
		case <-ctx.Done():
			releaseLocal()
			return nil, ctx.Err()
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(redisKey, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				l.log.Warn("release ranking lock", zap.String("key", redisKey), zap.Error(err))
			}
			releaseLocal()
		})
	}, nil
}

func (l *RedisLocker) keepAlive(redisKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ok, err := l.renew(redisKey, token)
			if err != nil {
				l.log.Warn("renew ranking lock", zap.String("key", redisKey), zap.Error(err))
				continue
			}
			if !ok {
				l.log.Warn("ranking lock lost before release", zap.String("key", redisKey))
				return
			}
		}
	}
}

// renew extends the key only while it still holds token.
func (l *RedisLocker) renew(redisKey, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.ttl/3)
	defer cancel()
	n, err := renewScript.Run(ctx, l.client, []string{redisKey}, token, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (l *RedisLocker) warnUnavailableOnce(err error) {
	if l.warnedUnavailable.CompareAndSwap(false, true) {
		l.log.Warn("redis lock unavailable, falling back to in-process lock", zap.Error(err))
	}
}
