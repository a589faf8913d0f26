package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/questlog/domain"
)

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redislib.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ScheduleLocker serialises schedule-changing writes of one user across processes.
type ScheduleLocker struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	logger *zap.Logger
}

// NewScheduleLocker creates a Redis-backed lock. ttl bounds how long a crashed holder blocks the user.
func NewScheduleLocker(client *redislib.Client, ttl time.Duration, logger *zap.Logger) *ScheduleLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleLocker{
		client: client,
		prefix: "schedule-lock:",
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		logger: logger,
	}
}

// Lock blocks until the user's lock is acquired or ctx is done. The returned func releases it.
func (l *ScheduleLocker) Lock(ctx context.Context, userID string) (func(), error) {
	key := l.key(userID)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire schedule lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, domain.WrapError(domain.ErrCodeConflict, "schedule is busy, try again", ctx.Err())
		case <-timer.C:
		}
	}
}

func (l *ScheduleLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Warn("release schedule lock failed", zap.String("key", key), zap.Error(err))
	}
}

func (l *ScheduleLocker) key(userID string) string {
	return fmt.Sprintf("%s%s", l.prefix, userID)
}
