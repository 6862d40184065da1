package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"trivia-skill/internal/domain"
)

// ScoreLedger keeps the cumulative scores in Redis so several bot processes
// can share one scoreboard. Key scheme:
//
//	user:{userID}   -> score
//	group:{group}   -> score
type ScoreLedger struct {
	client *redis.Client
}

func NewScoreLedger(client *redis.Client) *ScoreLedger {
	return &ScoreLedger{client: client}
}

func (l *ScoreLedger) IncrUserScore(ctx context.Context, userID string) (int64, error) {
	return l.client.Incr(ctx, userKey(userID)).Result()
}

func (l *ScoreLedger) IncrGroupScore(ctx context.Context, group domain.GroupKey) (int64, error) {
	return l.client.Incr(ctx, groupKey(group)).Result()
}

func (l *ScoreLedger) UserScore(ctx context.Context, userID string) (int64, error) {
	return l.score(ctx, userKey(userID))
}

func (l *ScoreLedger) GroupScore(ctx context.Context, group domain.GroupKey) (int64, error) {
	return l.score(ctx, groupKey(group))
}

func (l *ScoreLedger) score(ctx context.Context, key string) (int64, error) {
	score, err := l.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return score, err
}

func userKey(userID string) string          { return "user:" + userID }
func groupKey(group domain.GroupKey) string { return "group:" + string(group) }
