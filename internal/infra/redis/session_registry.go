package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-skill/internal/domain"
	"trivia-skill/internal/game"
)

// SessionRegistry decorates an in-process registry with Redis liveness
// markers (game:session:{group}) so operators can see which groups are
// mid-game. The markers are best-effort; the in-process registry stays the
// source of truth for all game state.
type SessionRegistry struct {
	inner  game.SessionRegistry
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRegistry(inner game.SessionRegistry, client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{inner: inner, client: client, ttl: ttl}
}

func (r *SessionRegistry) Insert(key domain.GroupKey, s *game.Session) error {
	if err := r.inner.Insert(key, s); err != nil {
		return err
	}
	_ = r.client.Set(context.Background(), r.key(key), "1", r.ttl).Err()
	return nil
}

func (r *SessionRegistry) With(key domain.GroupKey, fn func(*game.Session) error) error {
	return r.inner.With(key, fn)
}

func (r *SessionRegistry) Remove(key domain.GroupKey) error {
	if err := r.inner.Remove(key); err != nil {
		return err
	}
	_ = r.client.Del(context.Background(), r.key(key)).Err()
	return nil
}

func (r *SessionRegistry) Exists(key domain.GroupKey) bool {
	return r.inner.Exists(key)
}

func (r *SessionRegistry) key(group domain.GroupKey) string {
	return "game:session:" + string(group)
}
