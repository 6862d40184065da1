package memory

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-skill/internal/domain"
)

// QuestionSource loads the question pools from a backing store (CSV file,
// Postgres, etc).
type QuestionSource interface {
	Load(ctx context.Context) (domain.QuestionSet, error)
}

const reloadTimeout = 30 * time.Second

// QuestionBank serves random draws from in-memory pools. Draws never block:
// once the pools go stale they are reloaded in the background through
// singleflight while draws keep serving the previous snapshot.
type QuestionBank struct {
	source QuestionSource
	reload time.Duration // 0 disables refresh
	clock  func() time.Time
	sf     singleflight.Group

	mu       sync.RWMutex
	set      domain.QuestionSet
	loadedAt time.Time
}

// NewQuestionBank eagerly loads the pools and fails fast on an unusable set.
// A zero reload interval keeps the initial pools for the process lifetime.
func NewQuestionBank(ctx context.Context, source QuestionSource, reload time.Duration) (*QuestionBank, error) {
	set, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if set.Empty() {
		return nil, errors.New("question bank: source returned no questions")
	}
	if len(set.Flags) == 0 {
		return nil, errors.New("question bank: source returned no flag questions")
	}
	return &QuestionBank{
		source:   source,
		reload:   reload,
		clock:    time.Now,
		set:      set,
		loadedAt: time.Now(),
	}, nil
}

// DrawAny picks a random category, then a random question from it, matching
// the original selection behavior (uniform over categories, not questions).
func (b *QuestionBank) DrawAny() domain.Question {
	b.maybeRefresh()
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.set.ByCategory))
	for category, pool := range b.set.ByCategory {
		if len(pool) > 0 {
			keys = append(keys, category)
		}
	}
	pool := b.set.ByCategory[keys[rand.Intn(len(keys))]]
	return pool[rand.Intn(len(pool))]
}

// DrawByCategory draws uniformly from one category's pool, reporting false
// when the category has no pool so the caller can fall back to DrawAny.
func (b *QuestionBank) DrawByCategory(category string) (domain.Question, bool) {
	b.maybeRefresh()
	b.mu.RLock()
	defer b.mu.RUnlock()

	pool := b.set.ByCategory[category]
	if len(pool) == 0 {
		return nil, false
	}
	return pool[rand.Intn(len(pool))], true
}

// DrawFlag draws uniformly from the flag pool.
func (b *QuestionBank) DrawFlag() domain.Question {
	b.maybeRefresh()
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.set.Flags[rand.Intn(len(b.set.Flags))]
}

// IsValidCategory reports whether name is the reserved flag category or a
// known simple-question category.
func (b *QuestionBank) IsValidCategory(name string) bool {
	if name == domain.CategoryFlag {
		return true
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.set.ByCategory[name]) > 0
}

// Categories returns the known category names sorted, with the reserved flag
// category first.
func (b *QuestionBank) Categories() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.set.ByCategory)+1)
	for category, pool := range b.set.ByCategory {
		if len(pool) > 0 {
			names = append(names, category)
		}
	}
	sort.Strings(names)
	return append([]string{domain.CategoryFlag}, names...)
}

func (b *QuestionBank) maybeRefresh() {
	if b.reload <= 0 {
		return
	}
	b.mu.RLock()
	stale := b.clock().Sub(b.loadedAt) > b.reload
	b.mu.RUnlock()
	if !stale {
		return
	}

	go b.sf.Do("reload", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()

		set, err := b.source.Load(ctx)
		b.mu.Lock()
		defer b.mu.Unlock()
		// Always push loadedAt forward so a broken source is not hammered.
		b.loadedAt = b.clock()
		switch {
		case err != nil:
			log.Printf("quiz: reload question pools: %v", err)
		case set.Empty() || len(set.Flags) == 0:
			log.Printf("quiz: reload returned incomplete pools, keeping previous set")
		default:
			b.set = set
		}
		return nil, nil
	})
}

// StaticSource is a QuestionSource backed by a fixed set (tests, demo data).
type StaticSource struct {
	set domain.QuestionSet
}

func NewStaticSource(set domain.QuestionSet) *StaticSource {
	return &StaticSource{set: set}
}

func (s *StaticSource) Load(_ context.Context) (domain.QuestionSet, error) {
	return s.set, nil
}
