package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trivia-skill/internal/game"
)

// EventAPINotifier posts "time's up" announcements to the chat platform's
// event API so the group hears about expired rounds without a new inbound
// request. Implements game.Notifier.
type EventAPINotifier struct {
	url    string
	client *http.Client
}

func NewEventAPINotifier(url string, timeout time.Duration) *EventAPINotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EventAPINotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type eventPayload struct {
	GroupKey string    `json:"groupKey"`
	Template *Template `json:"template"`
}

func (n *EventAPINotifier) NotifyTimeout(ctx context.Context, notice game.TimeoutNotice) error {
	t := NewTemplate()
	t.AddText("⏰ Time's up! " + notice.FinishedQuestion.RevealText())
	if notice.GameOver {
		t.AddText("✅ That was the last round. The quiz game has ended.")
	} else {
		t.addQuestion(notice.NextRound, notice.NextQuestion)
	}

	body, err := json.Marshal(eventPayload{
		GroupKey: string(notice.Group),
		Template: t,
	})
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("event api responded %s", resp.Status)
	}
	return nil
}
