package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"wellness-ai-agent/internal/errx"
	"wellness-ai-agent/pkg/logx"
)

// RedisStore keeps sessions in Redis so a restart does not drop sessions
// mid-questionnaire. Expiry is delegated to key TTLs, refreshed on every
// mutation. Update is serialized per session within the process via a
// keyed mutex; the store is still single-writer in deployment terms.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb:   rdb,
		ttl:   ttl,
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *RedisStore) key(id string) string {
	return fmt.Sprintf("diagnosis:session:%s", id)
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	return r.save(ctx, s)
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.rdb.Get(ctx, r.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errx.ErrSessionNotFound
		}
		return nil, errx.WrapRedis(err)
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	lock := r.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now()
	if err := r.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, r.key(id)).Result()
	if err != nil {
		return errx.WrapRedis(err)
	}
	if n == 0 {
		return errx.ErrSessionNotFound
	}
	r.dropLock(id)
	return nil
}

func (r *RedisStore) save(ctx context.Context, s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	if err := r.rdb.Set(ctx, r.key(s.ID), b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("session_id", s.ID).Msg("failed to write session to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisStore) sessionLock(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

func (r *RedisStore) dropLock(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, id)
}
