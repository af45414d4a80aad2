// internal/router/response.go
//
// Response descriptors produced by Route and the Responder contract that
// presentation layers implement to show them.

package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/robalobadob/wordle/apps/word-engine/internal/game"
)

// Kind selects the Response variant.
type Kind string

const (
	KindError    Kind = "error"    // validation notice; session unchanged
	KindBoard    Kind = "board"    // board update; game continues
	KindTerminal Kind = "terminal" // game over; session removed
)

// Board is the renderable state of a game.
type Board struct {
	Guesses   []string      `json:"guesses"`
	Marks     [][]game.Mark `json:"marks"`
	Remaining int           `json:"remaining"`
	Length    int           `json:"length"`
	Note      string        `json:"note,omitempty"`
}

// Response is what a routed guess produced.
//   - KindError:    Message is a player-facing notice.
//   - KindBoard:    Board holds the updated history.
//   - KindTerminal: Won and Word describe the result; Board is the final board.
type Response struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message,omitempty"`
	Board   Board     `json:"board"`
	Won     bool      `json:"won,omitempty"`
	Word    string    `json:"word,omitempty"`
	Player  string    `json:"player"`
	Token   string    `json:"token"`
	Mode    game.Mode `json:"mode"`
	Parent  string    `json:"parent,omitempty"` // daily mode mirror target
	Date    string    `json:"date,omitempty"`   // daily mode date key

	StartedAt time.Time `json:"-"`
}

// Mirror returns the copy of r shown in the parent context of a daily game:
// marks and counts only, no guessed letters and no revealed word.
func (r Response) Mirror() Response {
	m := r
	m.Token = r.Parent
	m.Word = ""
	m.Board.Guesses = lo.Map(r.Board.Guesses, func(g string, _ int) string {
		return strings.Repeat("?", len(g))
	})
	if r.Kind == KindTerminal {
		m.Board.Note = fmt.Sprintf("%s finished in %d/%d", r.Player, len(r.Board.Guesses), game.MaxAttempts)
		if !r.Won {
			m.Board.Note = fmt.Sprintf("%s did not find the word", r.Player)
		}
	}
	return m
}

// Responder renders responses on a presentation layer.
type Responder interface {
	SendError(ctx context.Context, message string) error
	SendBoard(ctx context.Context, r Response) error
}

// Deliver sends r through rs. Daily boards are also mirrored, letter-free,
// to the parent context.
func Deliver(ctx context.Context, rs Responder, r Response) error {
	if r.Kind == KindError {
		return rs.SendError(ctx, r.Message)
	}
	if err := rs.SendBoard(ctx, r); err != nil {
		return err
	}
	if r.Parent != "" {
		return rs.SendBoard(ctx, r.Mirror())
	}
	return nil
}
