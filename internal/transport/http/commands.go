package http

import "strings"

// CommandKind enumerates the chat commands the bot understands.
type CommandKind int

const (
	CommandStart CommandKind = iota
	CommandStop
	CommandAnswer
	CommandRank
)

// Command is a parsed utterance.
type Command struct {
	Kind     CommandKind
	Category string // start only, empty for all categories
	Answer   string // answer only, matched verbatim
}

// ParseCommand maps a raw utterance onto a Command. The answer text after the
// first space is kept verbatim: matching is deliberately exact.
func ParseCommand(utterance string) (Command, bool) {
	parts := strings.SplitN(strings.TrimSpace(utterance), " ", 2)
	rest := ""
	if len(parts) == 2 {
		rest = parts[1]
	}

	switch parts[0] {
	case "start":
		return Command{Kind: CommandStart, Category: strings.TrimSpace(rest)}, true
	case "stop", "quit", "end":
		return Command{Kind: CommandStop}, true
	case "answer":
		if rest == "" {
			return Command{}, false
		}
		return Command{Kind: CommandAnswer, Answer: rest}, true
	case "rank", "ranking":
		return Command{Kind: CommandRank}, true
	}
	return Command{}, false
}
