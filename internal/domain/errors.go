package domain

import "errors"

var (
	// ErrGameAlreadyStarted is returned when a group tries to start a second game.
	ErrGameAlreadyStarted = errors.New("game already started for group")
	// ErrGameNotFound is returned for any operation against a group with no live game.
	ErrGameNotFound = errors.New("game not found for group")
	// ErrInvalidCategory indicates a category outside the known set.
	ErrInvalidCategory = errors.New("invalid quiz category")
)
