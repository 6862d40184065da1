package game

import (
	"testing"
	"time"
)

func TestRoundClockLatchesEarlySignal(t *testing.T) {
	clock := NewRoundClock()

	// Signal before anyone waits: the wait must still observe the answer.
	clock.SignalAnswered()

	if !clock.WaitForAnswerOrTimeout(10 * time.Millisecond) {
		t.Fatalf("expected latched signal to win over the timeout")
	}
	if !clock.Answered() {
		t.Fatalf("expected clock to report answered")
	}
}

func TestRoundClockTimesOut(t *testing.T) {
	clock := NewRoundClock()

	start := time.Now()
	if clock.WaitForAnswerOrTimeout(20 * time.Millisecond) {
		t.Fatalf("expected timeout, got answered")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("wait returned after %v, before the timeout", elapsed)
	}
}

func TestRoundClockWakesParkedWaiter(t *testing.T) {
	clock := NewRoundClock()

	done := make(chan bool, 1)
	go func() {
		done <- clock.WaitForAnswerOrTimeout(5 * time.Second)
	}()

	time.Sleep(10 * time.Millisecond)
	clock.SignalAnswered()

	select {
	case answered := <-done:
		if !answered {
			t.Fatalf("expected waiter to observe the answer")
		}
	case <-time.After(time.Second):
		t.Fatalf("waiter did not wake after signal")
	}
}

func TestRoundClockSignalIsIdempotent(t *testing.T) {
	clock := NewRoundClock()
	clock.SignalAnswered()
	clock.SignalAnswered() // must not panic on a second signal

	if !clock.Answered() {
		t.Fatalf("expected clock to stay answered")
	}
}
