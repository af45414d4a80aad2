// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Mark: per-letter evaluation of a guess.
//   - Mode: standard or daily session variant.
//   - Status: in progress / won / lost.
//   - Outcome: result of a validated guess.

package game

import "errors"

// MaxAttempts is the number of guesses a game allows.
const MaxAttempts = 6

// Mark represents the evaluation result for a single letter in a guess.
//   - "correct":   letter is in the target at this position.
//   - "misplaced": letter is in the target at another unmatched position.
//   - "incorrect": letter has no remaining occurrence in the target.
type Mark string

const (
	MarkCorrect   Mark = "correct"
	MarkMisplaced Mark = "misplaced"
	MarkIncorrect Mark = "incorrect"
)

// Mode selects the session variant.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeDaily    Mode = "daily"
)

// ParseMode maps user input to a Mode. Empty input is Standard.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeStandard:
		return ModeStandard, nil
	case ModeDaily:
		return ModeDaily, nil
	}
	return "", errors.New("game: unknown mode " + s)
}

// Status is derived from the guess history and the target.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether no further guesses are possible.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// OutcomeKind classifies an accepted guess.
type OutcomeKind int

const (
	OutcomeValid OutcomeKind = iota // game continues
	OutcomeWon
	OutcomeLost
)

// Outcome is returned by AddGuess for every guess that passed validation.
type Outcome struct {
	Kind      OutcomeKind
	Guess     string
	Marks     []Mark
	Remaining int
}

// Validation errors. They are safe to show to players verbatim and never
// mutate the game.
var (
	ErrLengthMismatch = errors.New("guess length does not match the word")
	ErrRepeated       = errors.New("word already guessed")
	ErrUnknownWord    = errors.New("word not in the dictionary")
	ErrFinished       = errors.New("game finished")
)
