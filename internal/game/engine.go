// internal/game/engine.go
//
// Core game engine for a single session.
// Responsibilities:
//   - Hold the target word and the append-only guess history.
//   - Validate and apply guesses (length, repeats, dictionary).
//   - Score guesses using the two-pass letter-frequency algorithm.
//   - Track state transitions: in_progress → won/lost.
//
// A Game is not safe for concurrent use; the session layer serializes access.
package game

import (
	"slices"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/robalobadob/wordle/apps/word-engine/internal/words"
)

// Dictionary answers membership queries for guess validation.
// *words.Repository satisfies it.
type Dictionary interface {
	Exists(candidate string) bool
}

// Game holds the state of a single game.
type Game struct {
	target  string
	dict    Dictionary
	guesses []string
	marks   [][]Mark
	status  Status
}

// New constructs a game for target. The target is normalized and never changes.
func New(target string, dict Dictionary) *Game {
	return &Game{
		target: words.Normalize(target),
		dict:   dict,
		status: StatusInProgress,
	}
}

// AddGuess validates and scores a guess, appending it to the history.
//
// Validation order (first failure wins, history untouched):
//   - game already finished → ErrFinished
//   - letter count differs from target → ErrLengthMismatch
//   - already guessed → ErrRepeated
//   - not in the dictionary → ErrUnknownWord
func (g *Game) AddGuess(raw string) (Outcome, error) {
	if g.status.Terminal() {
		return Outcome{}, ErrFinished
	}
	guess := words.Normalize(raw)
	if utf8.RuneCountInString(guess) != len(g.target) {
		return Outcome{}, ErrLengthMismatch
	}
	if slices.Contains(g.guesses, guess) {
		return Outcome{}, ErrRepeated
	}
	if !g.dict.Exists(guess) {
		return Outcome{}, ErrUnknownWord
	}

	marks := Evaluate(guess, g.target)
	g.guesses = append(g.guesses, guess)
	g.marks = append(g.marks, marks)

	out := Outcome{Guess: guess, Marks: marks}
	switch {
	case allCorrect(marks):
		g.status = StatusWon
		out.Kind = OutcomeWon
	case len(g.guesses) >= MaxAttempts:
		g.status = StatusLost
		out.Kind = OutcomeLost
	default:
		out.Kind = OutcomeValid
	}
	out.Remaining = g.RemainingAttempts()
	return out, nil
}

// RemainingAttempts is MaxAttempts minus the number of accepted guesses.
func (g *Game) RemainingAttempts() int { return MaxAttempts - len(g.guesses) }

// Status reports the current state.
func (g *Game) Status() Status { return g.status }

// Target returns the word being guessed.
func (g *Game) Target() string { return g.target }

// Guesses returns a copy of the guess history.
func (g *Game) Guesses() []string { return slices.Clone(g.guesses) }

// Evaluations returns a copy of the per-guess marks, aligned with Guesses.
func (g *Game) Evaluations() [][]Mark {
	return lo.Map(g.marks, func(m []Mark, _ int) []Mark { return slices.Clone(m) })
}

// Evaluate scores guess against target. Both must be the same length.
//
// Pass 1:
//   - Count every target letter.
//   - Mark exact matches Correct and consume one count each.
//
// Pass 2:
//   - For each remaining position: if the letter still has a count, mark
//     Misplaced and consume it; otherwise Incorrect.
//
// A letter never receives more Correct+Misplaced marks than it occurs in target.
func Evaluate(guess, target string) []Mark {
	n := len(guess)
	res := make([]Mark, n)

	counts := make(map[byte]int, len(target))
	for i := 0; i < len(target); i++ {
		counts[target[i]]++
	}

	// First pass: exact matches.
	for i := 0; i < n; i++ {
		if i < len(target) && guess[i] == target[i] {
			res[i] = MarkCorrect
			counts[guess[i]]--
		}
	}

	// Second pass: misplaced / incorrect for pending positions.
	for i := 0; i < n; i++ {
		if res[i] == MarkCorrect {
			continue
		}
		if counts[guess[i]] > 0 {
			res[i] = MarkMisplaced
			counts[guess[i]]--
		} else {
			res[i] = MarkIncorrect
		}
	}
	return res
}

// allCorrect returns true if every mark is MarkCorrect.
func allCorrect(m []Mark) bool {
	return len(m) > 0 && lo.EveryBy(m, func(x Mark) bool { return x == MarkCorrect })
}
