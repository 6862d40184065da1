package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"trivia-skill/internal/domain"
	"trivia-skill/internal/game"
)

// chatTypeGroup is the only chat kind the bot plays in: 1:1 chats have no
// group key to score against.
const chatTypeGroup = "botGroupKey"

// CategoryChecker validates and lists quiz categories for command handling.
type CategoryChecker interface {
	IsValidCategory(name string) bool
	Categories() []string
}

// botRequest is the chat platform's webhook payload, unused fields skipped.
type botRequest struct {
	UserRequest struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Chat struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"chat"`
		Utterance string `json:"utterance"`
	} `json:"userRequest"`
}

// BotHandler turns inbound webhook requests into game operations and renders
// template responses.
type BotHandler struct {
	manager    *game.Manager
	categories CategoryChecker
}

func NewBotHandler(manager *game.Manager, categories CategoryChecker) *BotHandler {
	return &BotHandler{manager: manager, categories: categories}
}

// ServeBotRequest handles POSTed webhook payloads. Game errors render as
// template messages with status 200; only transport problems get error codes.
func (h *BotHandler) ServeBotRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req botRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	response := NewTemplate()
	if req.UserRequest.Chat.Type != chatTypeGroup {
		response.AddText("This quiz bot only works in group chats.")
		writeTemplate(w, response)
		return
	}

	userID := req.UserRequest.User.ID
	group := domain.GroupKey(req.UserRequest.Chat.ID)

	command, ok := ParseCommand(req.UserRequest.Utterance)
	if !ok {
		response.AddText(h.helpText())
		writeTemplate(w, response)
		return
	}

	switch command.Kind {
	case CommandStart:
		h.handleStart(r, response, group, command.Category)
	case CommandStop:
		h.handleStop(r, response, group)
	case CommandAnswer:
		h.handleAnswer(r, response, userID, group, command.Answer)
	case CommandRank:
		response.AddText("🚧 Rankings are under construction.")
	}

	writeTemplate(w, response)
}

func (h *BotHandler) handleStart(r *http.Request, response *Template, group domain.GroupKey, category string) {
	snap, err := h.startGame(r.Context(), group, category)
	switch {
	case errors.Is(err, domain.ErrInvalidCategory):
		response.AddText(fmt.Sprintf("Unknown category %q.\n%s", category, h.helpText()))
	case errors.Is(err, domain.ErrGameAlreadyStarted):
		response.AddText("A quiz game is already running in this chat. Say \"stop\" to end it first.")
	case err != nil:
		response.AddText("Could not start the game: " + err.Error())
	default:
		response.addQuestion(snap.Round, snap.Question)
	}
}

// startGame pre-validates the category; the game core trusts what it gets.
func (h *BotHandler) startGame(ctx context.Context, group domain.GroupKey, category string) (game.Snapshot, error) {
	if category != "" && !h.categories.IsValidCategory(category) {
		return game.Snapshot{}, domain.ErrInvalidCategory
	}
	return h.manager.StartGame(ctx, group, category)
}

func (h *BotHandler) handleStop(r *http.Request, response *Template, group domain.GroupKey) {
	if err := h.manager.StopGame(r.Context(), group); errors.Is(err, domain.ErrGameNotFound) {
		response.AddText("No quiz game is running in this chat.")
		return
	}
	response.AddText("🔴 The quiz game has ended.")
}

func (h *BotHandler) handleAnswer(r *http.Request, response *Template, userID string, group domain.GroupKey, answer string) {
	result, err := h.manager.SubmitAnswer(r.Context(), userID, group, answer)
	if errors.Is(err, domain.ErrGameNotFound) {
		response.AddText("No quiz game is running. Say \"start\" to begin one.")
		return
	}
	if err != nil {
		response.AddText("Could not check the answer: " + err.Error())
		return
	}
	if !result.Correct {
		// Silence on a wrong answer, matching the game's chat etiquette.
		return
	}

	text := fmt.Sprintf("👏 %s got it! (total score: %d)", shortUserID(result.UserID), result.UserScore)
	if q, ok := result.FinishedQuestion.(domain.SimpleQuestion); ok && q.Comment != "" {
		text += "\n" + q.Comment
	}
	response.AddText(text)

	if result.NextRound > h.manager.MaxRounds() {
		response.AddText("✅ All rounds cleared :)")
		if err := h.manager.StopGame(r.Context(), group); err != nil {
			log.Printf("bot: stop finished game for %s: %v", group, err)
		}
		return
	}
	response.addQuestion(result.NextRound, result.NextQuestion)
}

func (h *BotHandler) helpText() string {
	return strings.Join([]string{
		"🗒️ Commands",
		"- start [category]: begin a game; without a category questions come from the whole pool",
		"  (categories: " + strings.Join(h.categories.Categories(), ", ") + ")",
		"- stop",
		"- answer <text>",
		"- rank (🚧)",
	}, "\n")
}

// shortUserID truncates opaque platform user IDs for display.
func shortUserID(userID string) string {
	if len(userID) > 6 {
		return userID[:6]
	}
	return userID
}

func writeTemplate(w http.ResponseWriter, t *Template) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(t); err != nil {
		log.Printf("bot: write response: %v", err)
	}
}
