package httpserver

import (
	"context"

	"github.com/robalobadob/wordle/apps/word-engine/internal/router"
)

// jsonResponder collects what router.Deliver sends so that a single HTTP
// response can carry the board and, for daily games, its parent mirror.
type jsonResponder struct {
	notice string
	boards []router.Response
}

func (j *jsonResponder) SendError(_ context.Context, message string) error {
	j.notice = message
	return nil
}

func (j *jsonResponder) SendBoard(_ context.Context, r router.Response) error {
	j.boards = append(j.boards, r)
	return nil
}

// guessBody is the JSON shape of a routed guess.
type guessBody struct {
	Kind      router.Kind      `json:"kind"`
	Message   string           `json:"message,omitempty"`
	Board     *router.Board    `json:"board,omitempty"`
	Won       bool             `json:"won,omitempty"`
	Word      string           `json:"word,omitempty"`
	Token     string           `json:"token,omitempty"`
	Mirror    *router.Response `json:"mirror,omitempty"`
	Remaining int              `json:"remaining"`
}

func (j *jsonResponder) body(resp router.Response) guessBody {
	out := guessBody{Kind: resp.Kind, Token: resp.Token, Remaining: resp.Board.Remaining}
	if resp.Kind == router.KindError {
		out.Message = j.notice
		return out
	}
	if len(j.boards) > 0 {
		b := j.boards[0]
		out.Board = &b.Board
		out.Won = b.Won
		out.Word = b.Word
	}
	if len(j.boards) > 1 {
		out.Mirror = &j.boards[1]
	}
	return out
}
