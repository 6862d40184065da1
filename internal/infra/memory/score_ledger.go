package memory

import (
	"context"
	"sync"

	"trivia-skill/internal/domain"
)

// ScoreLedger is the in-memory game.ScoreLedger: two independently locked
// counter maps, one keyed by user ID and one by group key. Counters only grow
// within the process lifetime.
type ScoreLedger struct {
	userMu sync.Mutex
	users  map[string]int64

	groupMu sync.Mutex
	groups  map[domain.GroupKey]int64
}

func NewScoreLedger() *ScoreLedger {
	return &ScoreLedger{
		users:  make(map[string]int64),
		groups: make(map[domain.GroupKey]int64),
	}
}

func (l *ScoreLedger) IncrUserScore(_ context.Context, userID string) (int64, error) {
	l.userMu.Lock()
	defer l.userMu.Unlock()
	l.users[userID]++
	return l.users[userID], nil
}

func (l *ScoreLedger) IncrGroupScore(_ context.Context, group domain.GroupKey) (int64, error) {
	l.groupMu.Lock()
	defer l.groupMu.Unlock()
	l.groups[group]++
	return l.groups[group], nil
}

func (l *ScoreLedger) UserScore(_ context.Context, userID string) (int64, error) {
	l.userMu.Lock()
	defer l.userMu.Unlock()
	return l.users[userID], nil
}

func (l *ScoreLedger) GroupScore(_ context.Context, group domain.GroupKey) (int64, error) {
	l.groupMu.Lock()
	defer l.groupMu.Unlock()
	return l.groups[group], nil
}
