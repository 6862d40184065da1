package game_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trivia-skill/internal/domain"
	"trivia-skill/internal/game"
	"trivia-skill/internal/infra/memory"
)

// seqBank hands out simple questions in a fixed order so tests always know
// the current answer.
type seqBank struct {
	mu     sync.Mutex
	simple []domain.SimpleQuestion
	flags  []domain.FlagQuestion
	i, j   int
}

func newSeqBank() *seqBank {
	return &seqBank{
		simple: []domain.SimpleQuestion{
			{Category: "general", Prompt: "q1", Answer: "a1", Comment: "c1"},
			{Category: "general", Prompt: "q2", Answer: "a2"},
			{Category: "idiom", Prompt: "q3", Answer: "a3"},
			{Category: "general", Prompt: "q4", Answer: "a4"},
			{Category: "idiom", Prompt: "q5", Answer: "a5"},
		},
		flags: []domain.FlagQuestion{
			{CountryCode: "KR", Name: "South Korea"},
			{CountryCode: "JP", Name: "Japan"},
			{CountryCode: "FR", Name: "France"},
		},
	}
}

func (b *seqBank) DrawAny() domain.Question {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.simple[b.i%len(b.simple)]
	b.i++
	return q
}

func (b *seqBank) DrawByCategory(category string) (domain.Question, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for n := 0; n < len(b.simple); n++ {
		q := b.simple[b.i%len(b.simple)]
		b.i++
		if q.Category == category {
			return q, true
		}
	}
	return nil, false
}

func (b *seqBank) DrawFlag() domain.Question {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.flags[b.j%len(b.flags)]
	b.j++
	return q
}

type captureNotifier struct {
	ch chan game.TimeoutNotice
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{ch: make(chan game.TimeoutNotice, 8)}
}

func (n *captureNotifier) NotifyTimeout(_ context.Context, notice game.TimeoutNotice) error {
	n.ch <- notice
	return nil
}

type fixture struct {
	manager  *game.Manager
	bank     *seqBank
	ledger   *memory.ScoreLedger
	notifier *captureNotifier
}

func newFixture(maxRounds int, roundTimeout time.Duration) fixture {
	bank := newSeqBank()
	ledger := memory.NewScoreLedger()
	notifier := newCaptureNotifier()
	manager := game.NewManager(game.Config{
		Bank:         bank,
		Ledger:       ledger,
		Notifier:     notifier,
		MaxRounds:    maxRounds,
		RoundTimeout: roundTimeout,
	})
	return fixture{manager: manager, bank: bank, ledger: ledger, notifier: notifier}
}

func TestCorrectAnswerAdvancesRound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, time.Minute)

	snap, err := f.manager.StartGame(ctx, "g1", "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if snap.Round != 1 {
		t.Fatalf("expected round 1, got %d", snap.Round)
	}

	result, err := f.manager.SubmitAnswer(ctx, "u1", "g1", snap.Question.AnswerText())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !result.Correct {
		t.Fatalf("expected correct outcome")
	}
	if result.NextRound != 2 {
		t.Fatalf("expected next round 2, got %d", result.NextRound)
	}
	if result.FinishedQuestion.AnswerText() != snap.Question.AnswerText() {
		t.Fatalf("expected finished question to be the round-1 question")
	}
	if result.NextQuestion == nil {
		t.Fatalf("expected a drawn next question")
	}
	if result.UserScore != 1 {
		t.Fatalf("expected user score 1, got %d", result.UserScore)
	}

	if score, _ := f.ledger.UserScore(ctx, "u1"); score != 1 {
		t.Fatalf("expected ledger user score 1, got %d", score)
	}
	if score, _ := f.ledger.GroupScore(ctx, "g1"); score != 1 {
		t.Fatalf("expected ledger group score 1, got %d", score)
	}
}

func TestWrongAnswerChangesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, time.Minute)

	snap, err := f.manager.StartGame(ctx, "g1", "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	result, err := f.manager.SubmitAnswer(ctx, "u1", "g1", "definitely wrong")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Correct {
		t.Fatalf("expected wrong outcome")
	}
	if score, _ := f.ledger.UserScore(ctx, "u1"); score != 0 {
		t.Fatalf("expected untouched ledger, got %d", score)
	}

	// The round is still open for the original answer.
	result, err = f.manager.SubmitAnswer(ctx, "u1", "g1", snap.Question.AnswerText())
	if err != nil || !result.Correct {
		t.Fatalf("expected original answer to still win, got %+v (%v)", result, err)
	}
}

func TestAnswerMatchingIsExact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, time.Minute)

	if _, err := f.manager.StartGame(ctx, "g1", ""); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// The round-1 answer is "a1"; case and whitespace must match exactly.
	for _, text := range []string{"A1", " a1", "a1 "} {
		result, err := f.manager.SubmitAnswer(ctx, "u1", "g1", text)
		if err != nil {
			t.Fatalf("submit %q failed: %v", text, err)
		}
		if result.Correct {
			t.Fatalf("expected %q to be rejected", text)
		}
	}
}

func TestStartGameTwice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, time.Minute)

	snap, err := f.manager.StartGame(ctx, "g1", "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := f.manager.StartGame(ctx, "g1", ""); !errors.Is(err, domain.ErrGameAlreadyStarted) {
		t.Fatalf("expected already-started error, got %v", err)
	}

	// The first session is untouched: its question still wins the round.
	result, err := f.manager.SubmitAnswer(ctx, "u1", "g1", snap.Question.AnswerText())
	if err != nil || !result.Correct {
		t.Fatalf("expected first session to survive, got %+v (%v)", result, err)
	}
}

func TestFlagCategoryDrawsOnlyFlags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, time.Minute)

	snap, err := f.manager.StartGame(ctx, "g1", domain.CategoryFlag)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	question := snap.Question
	for round := 1; round <= 3; round++ {
		if _, ok := question.(domain.FlagQuestion); !ok {
			t.Fatalf("round %d: expected flag question, got %T", round, question)
		}
		result, err := f.manager.SubmitAnswer(ctx, "u1", "g1", question.AnswerText())
		if err != nil || !result.Correct {
			t.Fatalf("round %d: submit failed: %+v (%v)", round, result, err)
		}
		question = result.NextQuestion
	}
}

func TestGameEndsAfterMaxRounds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, time.Minute)

	snap, err := f.manager.StartGame(ctx, "g1", "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	question := snap.Question
	var last domain.AnswerResult
	for round := 1; round <= 3; round++ {
		last, err = f.manager.SubmitAnswer(ctx, "u1", "g1", question.AnswerText())
		if err != nil || !last.Correct {
			t.Fatalf("round %d: submit failed: %+v (%v)", round, last, err)
		}
		question = last.NextQuestion
	}

	if last.NextRound != 4 {
		t.Fatalf("expected next round 4 past the limit, got %d", last.NextRound)
	}
	if err := f.manager.StopGame(ctx, "g1"); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if f.manager.Exists("g1") {
		t.Fatalf("expected game gone after stop")
	}
}

func TestStopGameNotFound(t *testing.T) {
	f := newFixture(3, time.Minute)
	if err := f.manager.StopGame(context.Background(), "ghost"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestConcurrentCorrectAnswersAdmitOneWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, time.Minute)

	snap, err := f.manager.StartGame(ctx, "g1", "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	answer := snap.Question.AnswerText()

	const racers = 8
	var wg sync.WaitGroup
	results := make(chan domain.AnswerResult, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.manager.SubmitAnswer(ctx, "u1", "g1", answer)
			if err != nil {
				t.Errorf("submit failed: %v", err)
				return
			}
			results <- result
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for result := range results {
		if result.Correct {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner for the round, got %d", winners)
	}
}

func TestTimeoutAdvancesWithoutScoring(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, 30*time.Millisecond)

	snap, err := f.manager.StartGame(ctx, "g1", "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	var notice game.TimeoutNotice
	select {
	case notice = <-f.notifier.ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the timeout notification")
	}

	if notice.FinishedQuestion.AnswerText() != snap.Question.AnswerText() {
		t.Fatalf("expected notice to carry the expired question")
	}
	if notice.NextQuestion == nil || notice.NextRound != 2 {
		t.Fatalf("expected advance to round 2, got %+v", notice)
	}
	if notice.GameOver {
		t.Fatalf("round 2 of 3 should not end the game")
	}
	if !f.manager.Exists("g1") {
		t.Fatalf("expected game to keep running")
	}
	if score, _ := f.ledger.UserScore(ctx, "u1"); score != 0 {
		t.Fatalf("timeout must not touch the ledger, got %d", score)
	}
	if score, _ := f.ledger.GroupScore(ctx, "g1"); score != 0 {
		t.Fatalf("timeout must not touch the ledger, got %d", score)
	}
}

func TestTimeoutOnLastRoundEndsGame(t *testing.T) {
	ctx := context.Background()
	f := newFixture(1, 20*time.Millisecond)

	if _, err := f.manager.StartGame(ctx, "g1", ""); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	select {
	case notice := <-f.notifier.ch:
		if !notice.GameOver {
			t.Fatalf("expected game-over notice, got %+v", notice)
		}
		if notice.NextQuestion != nil {
			t.Fatalf("game-over notice must not announce another question")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the timeout notification")
	}

	if f.manager.Exists("g1") {
		t.Fatalf("expected game removed after final timeout")
	}
}

func TestAnswerSilencesTimeoutWatcher(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, 60*time.Millisecond)

	snap, err := f.manager.StartGame(ctx, "g1", "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	result, err := f.manager.SubmitAnswer(ctx, "u1", "g1", snap.Question.AnswerText())
	if err != nil || !result.Correct {
		t.Fatalf("submit failed: %+v (%v)", result, err)
	}

	// The round-1 watcher observed the answer; only round 2 may time out,
	// and its notice must carry the round-2 question.
	select {
	case notice := <-f.notifier.ch:
		if notice.FinishedQuestion.AnswerText() != result.NextQuestion.AnswerText() {
			t.Fatalf("round-1 watcher fired after the round was answered: %+v", notice)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("round-2 watcher never fired")
	}
}

func TestStoppedGameSilencesWatcher(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, 40*time.Millisecond)

	if _, err := f.manager.StartGame(ctx, "g1", ""); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := f.manager.StopGame(ctx, "g1"); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	select {
	case notice := <-f.notifier.ch:
		t.Fatalf("watcher fired for a stopped game: %+v", notice)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestForceAdvanceOnTimeout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, time.Minute)

	snap, err := f.manager.StartGame(ctx, "g1", "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	adv, err := f.manager.ForceAdvanceOnTimeout(ctx, "g1")
	if err != nil {
		t.Fatalf("force advance failed: %v", err)
	}
	if adv.NextRound != 2 {
		t.Fatalf("expected round 2, got %d", adv.NextRound)
	}
	if adv.FinishedQuestion.AnswerText() != snap.Question.AnswerText() {
		t.Fatalf("expected the round-1 question to be finished")
	}
	if score, _ := f.ledger.GroupScore(ctx, "g1"); score != 0 {
		t.Fatalf("force advance must not touch the ledger")
	}

	if _, err := f.manager.ForceAdvanceOnTimeout(ctx, "ghost"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestWatchStreamsGameEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, time.Minute)

	snap, err := f.manager.StartGame(ctx, "g1", "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	events, cancel, err := f.manager.Watch("g1")
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	defer cancel()

	if _, err := f.manager.SubmitAnswer(ctx, "u1", "g1", snap.Question.AnswerText()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	first := <-events
	if first.Type != game.EventAnswerAccepted || first.UserID != "u1" || first.Round != 1 {
		t.Fatalf("expected round-1 answer event, got %+v", first)
	}
	second := <-events
	if second.Type != game.EventRoundStarted || second.Round != 2 {
		t.Fatalf("expected round-2 start event, got %+v", second)
	}
}

func TestWatchUnknownGroup(t *testing.T) {
	f := newFixture(3, time.Minute)
	if _, _, err := f.manager.Watch("ghost"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
