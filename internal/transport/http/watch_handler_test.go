package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"trivia-skill/internal/game"
)

func TestWatchStreamsRoundEvents(t *testing.T) {
	h := newTestHandler(t)
	watch := NewWatchHandler(h.manager)

	mux := http.NewServeMux()
	mux.HandleFunc("/watch", watch.ServeWatch)
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	if _, err := h.manager.StartGame(ctx, "chat-ws", ""); err != nil {
		t.Fatalf("start game: %v", err)
	}
	defer h.manager.StopGame(ctx, "chat-ws")

	u := "ws" + server.URL[len("http"):] + "/watch?group=chat-ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := h.manager.SubmitAnswer(ctx, "user-1", "chat-ws", "4"); err != nil {
		t.Fatalf("submit answer: %v", err)
	}

	accepted := readEvent(conn, t)
	if accepted.Type != game.EventAnswerAccepted || accepted.UserID != "user-1" {
		t.Fatalf("expected answerAccepted for user-1, got %+v", accepted)
	}
	started := readEvent(conn, t)
	if started.Type != game.EventRoundStarted || started.Round != 2 {
		t.Fatalf("expected round 2 start, got %+v", started)
	}
}

func TestWatchRejectsBadRequests(t *testing.T) {
	h := newTestHandler(t)
	watch := NewWatchHandler(h.manager)

	rec := httptest.NewRecorder()
	watch.ServeWatch(rec, httptest.NewRequest(http.MethodGet, "/watch", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without group, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	watch.ServeWatch(rec, httptest.NewRequest(http.MethodGet, "/watch?group=nobody", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown group, got %d", rec.Code)
	}
}

func readEvent(conn *websocket.Conn, t *testing.T) game.Event {
	t.Helper()
	var event game.Event
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return event
}
