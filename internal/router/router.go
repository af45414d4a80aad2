// internal/router/router.go
//
// GuessRouter: takes a free-text guess addressed either to a player or to a
// routing token, resolves the session, applies the guess and describes the
// result. Finished games are removed from the registry before Route returns.

package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/wordle/apps/word-engine/internal/game"
	"github.com/robalobadob/wordle/apps/word-engine/internal/session"
)

// ErrMalformedGuess is returned for empty or multi-word input.
var ErrMalformedGuess = errors.New("router: a guess is exactly one word")

// Lookup addresses a session by player or by routing token.
type Lookup struct {
	Player string
	Token  string
}

// ByPlayer addresses the player's session.
func ByPlayer(id string) Lookup { return Lookup{Player: id} }

// ByToken addresses the session bound to a conversation context.
func ByToken(token string) Lookup { return Lookup{Token: token} }

func (l Lookup) String() string {
	if l.Token != "" {
		return "token:" + l.Token
	}
	return "player:" + l.Player
}

// Router routes guesses to sessions.
type Router struct {
	reg *session.Registry
}

// New constructs a Router over reg.
func New(reg *session.Registry) *Router {
	return &Router{reg: reg}
}

// Route applies rawText to the session addressed by key.
//
// Errors are state errors for the caller (ErrMalformedGuess,
// session.ErrNoActiveSession). Player mistakes come back as a KindError
// Response with the session unchanged.
func (rt *Router) Route(key Lookup, rawText string) (Response, error) {
	fields := strings.Fields(rawText)
	if len(fields) != 1 {
		return Response{}, ErrMalformedGuess
	}

	s, err := rt.resolve(key)
	if err != nil {
		return Response{}, err
	}

	out, snap, err := s.Guess(fields[0])
	resp := Response{
		Player:    s.Player,
		Token:     s.Token,
		Mode:      s.Mode,
		Parent:    s.Parent,
		Date:      s.Date,
		StartedAt: s.CreatedAt,
		Board: Board{
			Guesses:   snap.Guesses,
			Marks:     snap.Marks,
			Remaining: snap.Remaining,
			Length:    snap.Length,
		},
	}
	if err != nil {
		if errors.Is(err, game.ErrFinished) {
			// lost a race with the guess that ended the game
			return Response{}, session.ErrNoActiveSession
		}
		resp.Kind = KindError
		resp.Message = validationMessage(err, snap.Length)
		return resp, nil
	}

	switch out.Kind {
	case game.OutcomeWon, game.OutcomeLost:
		rt.reg.Remove(s)
		resp.Kind = KindTerminal
		resp.Won = out.Kind == game.OutcomeWon
		resp.Word = s.Target()
	default:
		resp.Kind = KindBoard
		resp.Board.Note = remainingNote(out.Remaining)
	}
	return resp, nil
}

func (rt *Router) resolve(key Lookup) (*session.Session, error) {
	if key.Token != "" {
		return rt.reg.GetByToken(key.Token)
	}
	if key.Player != "" {
		return rt.reg.GetByPlayer(key.Player)
	}
	return nil, session.ErrNoActiveSession
}

// validationMessage maps engine validation errors to player-facing text.
func validationMessage(err error, length int) string {
	switch {
	case errors.Is(err, game.ErrLengthMismatch):
		return fmt.Sprintf("Guess must be %d letters.", length)
	case errors.Is(err, game.ErrRepeated):
		return "You already guessed that word."
	case errors.Is(err, game.ErrUnknownWord):
		return "Not in the word list."
	}
	return "Invalid guess."
}

func remainingNote(n int) string {
	if n == 1 {
		return "1 attempt left"
	}
	return fmt.Sprintf("%d attempts left", n)
}
