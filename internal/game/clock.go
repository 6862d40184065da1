package game

import (
	"sync"
	"time"
)

// RoundClock is the single-shot wake primitive owned by one round. The signal
// latches: a waiter that starts waiting after SignalAnswered fired still
// observes the answer instead of timing out, so a correct answer arriving
// between round start and the watcher parking is never lost.
type RoundClock struct {
	once     sync.Once
	answered chan struct{}
}

func NewRoundClock() *RoundClock {
	return &RoundClock{answered: make(chan struct{})}
}

// SignalAnswered marks the round as solved. Only the path that records the
// first correct answer for the round calls this.
func (c *RoundClock) SignalAnswered() {
	c.once.Do(func() { close(c.answered) })
}

// WaitForAnswerOrTimeout blocks until the round is answered or timeout
// elapses, whichever happens first, and reports whether it was answered.
func (c *RoundClock) WaitForAnswerOrTimeout(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.answered:
		return true
	case <-timer.C:
		return false
	}
}

// Answered reports whether the signal has already fired.
func (c *RoundClock) Answered() bool {
	select {
	case <-c.answered:
		return true
	default:
		return false
	}
}
