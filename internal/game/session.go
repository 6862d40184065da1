package game

import (
	"sync"

	"trivia-skill/internal/domain"
)

// Session is one group's in-progress game. Mutable round state is guarded by
// mu, which only the registry acquires; everything else is fixed at creation.
type Session struct {
	groupKey         domain.GroupKey
	selectedCategory string // empty means draw across all categories
	flagOnly         bool

	mu       sync.Mutex
	round    int
	question domain.Question
	clock    *RoundClock
}

func newSession(key domain.GroupKey, category string, flagOnly bool, bank QuestionBank) *Session {
	s := &Session{
		groupKey:         key,
		selectedCategory: category,
		flagOnly:         flagOnly,
		round:            1,
		clock:            NewRoundClock(),
	}
	s.question = s.draw(bank)
	return s
}

// draw picks the next question per the selected-category policy: flag games
// always draw flags, a set category draws from its pool falling back to the
// whole pool, otherwise the draw spans all categories.
func (s *Session) draw(bank QuestionBank) domain.Question {
	if s.flagOnly {
		return bank.DrawFlag()
	}
	if s.selectedCategory != "" {
		if q, ok := bank.DrawByCategory(s.selectedCategory); ok {
			return q
		}
	}
	return bank.DrawAny()
}

// advance moves the session to the next round: bumps the round number, swaps
// the question, and arms a fresh clock. Caller holds the session lock.
func (s *Session) advance(bank QuestionBank) {
	s.round++
	s.question = s.draw(bank)
	s.clock = NewRoundClock()
}

// Snapshot is an immutable view of a session's current round.
type Snapshot struct {
	Group    domain.GroupKey
	Round    int
	Question domain.Question
	Category string
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		Group:    s.groupKey,
		Round:    s.round,
		Question: s.question,
		Category: s.selectedCategory,
	}
}
