package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"trivia-skill/internal/domain"
	"trivia-skill/internal/game"
)

// WatchHandler streams a group's live game events over a websocket, one JSON
// event per message. The stream closes when the game finishes or is stopped.
type WatchHandler struct {
	manager  *game.Manager
	upgrader websocket.Upgrader
}

func NewWatchHandler(manager *game.Manager) *WatchHandler {
	return &WatchHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *WatchHandler) ServeWatch(w http.ResponseWriter, r *http.Request) {
	group := domain.GroupKey(r.URL.Query().Get("group"))
	if group == "" {
		http.Error(w, "missing group", http.StatusBadRequest)
		return
	}

	events, cancel, err := h.manager.Watch(group)
	if errors.Is(err, domain.ErrGameNotFound) {
		http.Error(w, "no game running for group", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("watch: ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Reads only detect the client hanging up.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("watch: ws write error: %v", err)
				return
			}
			if event.Type == game.EventGameFinished || event.Type == game.EventGameStopped {
				return
			}
		case <-clientGone:
			return
		}
	}
}
