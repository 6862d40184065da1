package game

import (
	"context"
	"errors"
	"log"
	"time"

	"trivia-skill/internal/domain"
)

const (
	// DefaultMaxRounds is how many rounds a game runs before it ends.
	DefaultMaxRounds = 3
	// DefaultRoundTimeout is how long a round stays open without a correct answer.
	DefaultRoundTimeout = 60 * time.Second

	notifyTimeout = 10 * time.Second
)

// QuestionBank supplies the question pools. Implementations must be safe for
// unsynchronized concurrent calls and must serve draws from memory without
// blocking, because draws happen under the session lock.
type QuestionBank interface {
	DrawAny() domain.Question
	DrawByCategory(category string) (domain.Question, bool)
	DrawFlag() domain.Question
}

// ScoreLedger tracks cumulative scores, one counter space for users and an
// independent one for groups. Increments are atomic per subject.
type ScoreLedger interface {
	IncrUserScore(ctx context.Context, userID string) (int64, error)
	IncrGroupScore(ctx context.Context, group domain.GroupKey) (int64, error)
	UserScore(ctx context.Context, userID string) (int64, error)
	GroupScore(ctx context.Context, group domain.GroupKey) (int64, error)
}

// Notifier delivers the out-of-band "time's up" announcement. Delivery is
// fire-and-forget: failures are logged here and never retried.
type Notifier interface {
	NotifyTimeout(ctx context.Context, notice TimeoutNotice) error
}

// TimeoutNotice describes a round that expired without a winner.
type TimeoutNotice struct {
	Group            domain.GroupKey
	FinishedQuestion domain.Question
	// NextQuestion is nil when the expired round was the last one.
	NextQuestion domain.Question
	NextRound    int
	GameOver     bool
}

// errStaleRound is returned by the guarded timeout advance when the session's
// round moved on before the watcher woke up.
var errStaleRound = errors.New("round already advanced")

// Config wires a Manager. Registry defaults to the in-memory implementation;
// MaxRounds and RoundTimeout fall back to the package defaults.
type Config struct {
	Registry     SessionRegistry
	Bank         QuestionBank
	Ledger       ScoreLedger
	Notifier     Notifier
	MaxRounds    int
	RoundTimeout time.Duration
}

// Manager runs the trivia games: it owns the session registry and, per active
// round, one background watcher racing the round clock against the timeout.
type Manager struct {
	registry     SessionRegistry
	bank         QuestionBank
	ledger       ScoreLedger
	notifier     Notifier
	maxRounds    int
	roundTimeout time.Duration
	feed         *feed
}

func NewManager(c Config) *Manager {
	if c.Registry == nil {
		c.Registry = NewRegistry()
	}
	if c.MaxRounds <= 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.RoundTimeout <= 0 {
		c.RoundTimeout = DefaultRoundTimeout
	}
	return &Manager{
		registry:     c.Registry,
		bank:         c.Bank,
		ledger:       c.Ledger,
		notifier:     c.Notifier,
		maxRounds:    c.MaxRounds,
		roundTimeout: c.RoundTimeout,
		feed:         newFeed(),
	}
}

// MaxRounds reports the configured round limit.
func (m *Manager) MaxRounds() int { return m.maxRounds }

// StartGame begins a new game for the group and arms the watcher for round 1.
// Passing the reserved flag category makes every round a flag question.
func (m *Manager) StartGame(_ context.Context, group domain.GroupKey, category string) (Snapshot, error) {
	s := newSession(group, category, category == domain.CategoryFlag, m.bank)
	snap := s.snapshot()
	clock := s.clock

	if err := m.registry.Insert(group, s); err != nil {
		return Snapshot{}, err
	}

	m.watchRound(group, clock)
	m.publishRoundStarted(group, snap.Round, snap.Question)
	return snap, nil
}

// SubmitAnswer checks text against the current question under the session's
// lock. The first correct submission wins the round: it signals the clock,
// advances the session, and credits the user and the group. A wrong answer
// changes nothing. When the returned NextRound exceeds MaxRounds the caller
// must stop the game.
func (m *Manager) SubmitAnswer(ctx context.Context, userID string, group domain.GroupKey, text string) (domain.AnswerResult, error) {
	var (
		won       bool
		finished  domain.Question
		next      domain.Question
		nextRound int
		clock     *RoundClock
	)
	err := m.registry.With(group, func(s *Session) error {
		if text != s.question.AnswerText() {
			return nil
		}
		won = true
		finished = s.question
		s.clock.SignalAnswered()
		s.advance(m.bank)
		next, nextRound, clock = s.question, s.round, s.clock
		return nil
	})
	if err != nil {
		return domain.AnswerResult{}, err
	}
	if !won {
		return domain.AnswerResult{}, nil
	}

	// Ledger writes stay outside the session lock; the winner is already
	// decided, so a failed increment costs a score point, not the round.
	score, err := m.ledger.IncrUserScore(ctx, userID)
	if err != nil {
		log.Printf("game: increment user score for %s: %v", userID, err)
	}
	if _, err := m.ledger.IncrGroupScore(ctx, group); err != nil {
		log.Printf("game: increment group score for %s: %v", group, err)
	}

	m.feed.publish(Event{
		Type:   EventAnswerAccepted,
		Group:  group,
		Round:  nextRound - 1,
		UserID: userID,
		Score:  score,
		Reveal: finished.RevealText(),
	})

	if nextRound > m.maxRounds {
		m.feed.publish(Event{Type: EventGameFinished, Group: group, Round: nextRound - 1})
	} else {
		m.watchRound(group, clock)
		m.publishRoundStarted(group, nextRound, next)
	}

	return domain.AnswerResult{
		Correct:          true,
		UserID:           userID,
		UserScore:        score,
		FinishedQuestion: finished,
		NextQuestion:     next,
		NextRound:        nextRound,
	}, nil
}

// StopGame removes the group's session. Any in-flight round watcher observes
// the missing session when it wakes and becomes a no-op.
func (m *Manager) StopGame(_ context.Context, group domain.GroupKey) error {
	if err := m.registry.Remove(group); err != nil {
		return err
	}
	m.feed.publish(Event{Type: EventGameStopped, Group: group})
	return nil
}

// Exists reports whether the group has a live game.
func (m *Manager) Exists(group domain.GroupKey) bool {
	return m.registry.Exists(group)
}

// ForceAdvanceOnTimeout performs the timeout transition unconditionally: the
// round advances and the ledger is untouched. It is not idempotent; calling
// it twice for one round advances twice. The watcher path uses the
// clock-guarded variant instead, so external callers must gate this on the
// round clock's timeout themselves.
func (m *Manager) ForceAdvanceOnTimeout(_ context.Context, group domain.GroupKey) (domain.TimeoutAdvance, error) {
	adv, _, err := m.advanceExpiredRound(group, nil)
	return adv, err
}

// advanceExpiredRound runs the TimeoutElapsed transition. When armed is
// non-nil the advance only happens if the session still carries that exact
// clock; otherwise the round already moved on and errStaleRound is returned.
func (m *Manager) advanceExpiredRound(group domain.GroupKey, armed *RoundClock) (domain.TimeoutAdvance, *RoundClock, error) {
	var (
		adv   domain.TimeoutAdvance
		clock *RoundClock
		stale bool
	)
	err := m.registry.With(group, func(s *Session) error {
		if armed != nil && s.clock != armed {
			stale = true
			return nil
		}
		adv.FinishedQuestion = s.question
		s.advance(m.bank)
		adv.NextQuestion = s.question
		adv.NextRound = s.round
		clock = s.clock
		return nil
	})
	if err != nil {
		return domain.TimeoutAdvance{}, nil, err
	}
	if stale {
		return domain.TimeoutAdvance{}, nil, errStaleRound
	}
	return adv, clock, nil
}

// watchRound races the given round clock against the timeout in the
// background. A solved round exits silently; an expired one advances the game
// and hands the result to the notifier, outside every lock.
func (m *Manager) watchRound(group domain.GroupKey, clock *RoundClock) {
	go func() {
		if clock.WaitForAnswerOrTimeout(m.roundTimeout) {
			// The answer path already reported the result to the group.
			return
		}

		adv, next, err := m.advanceExpiredRound(group, clock)
		if err != nil {
			// Stopped game or a round that moved on without us: the
			// expected race outcomes, not failures.
			return
		}

		expired := adv.NextRound - 1
		gameOver := adv.NextRound > m.maxRounds
		m.feed.publish(Event{
			Type:   EventRoundTimedOut,
			Group:  group,
			Round:  expired,
			Reveal: adv.FinishedQuestion.RevealText(),
		})

		if gameOver {
			if err := m.StopGame(context.Background(), group); err == nil {
				m.feed.publish(Event{Type: EventGameFinished, Group: group, Round: expired})
			}
		} else {
			m.watchRound(group, next)
			m.publishRoundStarted(group, adv.NextRound, adv.NextQuestion)
		}

		m.notifyTimeout(group, adv, gameOver)
	}()
}

func (m *Manager) notifyTimeout(group domain.GroupKey, adv domain.TimeoutAdvance, gameOver bool) {
	if m.notifier == nil {
		return
	}
	notice := TimeoutNotice{
		Group:            group,
		FinishedQuestion: adv.FinishedQuestion,
		NextRound:        adv.NextRound,
		GameOver:         gameOver,
	}
	if !gameOver {
		notice.NextQuestion = adv.NextQuestion
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := m.notifier.NotifyTimeout(ctx, notice); err != nil {
		log.Printf("game: timeout notification for group %s: %v", group, err)
	}
}

// Watch subscribes to the group's live event feed. The caller must invoke the
// returned cancel function to avoid leaks.
func (m *Manager) Watch(group domain.GroupKey) (<-chan Event, func(), error) {
	if !m.registry.Exists(group) {
		return nil, nil, domain.ErrGameNotFound
	}
	ch, cancel := m.feed.subscribe(group)
	return ch, cancel, nil
}

func (m *Manager) publishRoundStarted(group domain.GroupKey, round int, q domain.Question) {
	m.feed.publish(Event{
		Type:     EventRoundStarted,
		Group:    group,
		Round:    round,
		Prompt:   q.PromptText(),
		ImageURL: q.ImageURL(),
	})
}
