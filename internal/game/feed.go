package game

import (
	"sync"

	"trivia-skill/internal/domain"
)

// EventType enumerates the game lifecycle events a watcher can observe.
type EventType string

const (
	EventRoundStarted   EventType = "roundStarted"
	EventAnswerAccepted EventType = "answerAccepted"
	EventRoundTimedOut  EventType = "roundTimedOut"
	EventGameFinished   EventType = "gameFinished"
	EventGameStopped    EventType = "gameStopped"
)

// Event is one entry in a group's live game feed. Question content is carried
// pre-rendered so the event marshals cleanly.
type Event struct {
	Type     EventType       `json:"type"`
	Group    domain.GroupKey `json:"group"`
	Round    int             `json:"round,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Score    int64           `json:"score,omitempty"`
	Prompt   string          `json:"prompt,omitempty"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Reveal   string          `json:"reveal,omitempty"`
}

// feed fans game events out to per-group watchers. A slow watcher has its
// oldest pending event dropped rather than blocking the game.
type feed struct {
	mu       sync.Mutex
	watchers map[domain.GroupKey]map[chan Event]struct{}
}

func newFeed() *feed {
	return &feed{watchers: make(map[domain.GroupKey]map[chan Event]struct{})}
}

func (f *feed) subscribe(group domain.GroupKey) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	f.mu.Lock()
	if f.watchers[group] == nil {
		f.watchers[group] = make(map[chan Event]struct{})
	}
	f.watchers[group][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.watchers[group]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(f.watchers, group)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *feed) publish(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.watchers[e.Group] {
		select {
		case ch <- e:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- e
		}
	}
}
