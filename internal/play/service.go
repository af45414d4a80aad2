// internal/play/service.go
//
// Command service in front of the game core. It is what transports call:
//   - StartGame   → SessionRegistry.Create (daily games checked against the archive)
//   - SubmitGuess → GuessRouter.Route, archiving finished games
//   - StopGame    → SessionRegistry lookup + delete, revealing the word
//
// Archival is best effort: a failing store is logged and never changes what
// the player sees.

package play

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/word-engine/internal/daily"
	"github.com/robalobadob/wordle/apps/word-engine/internal/game"
	"github.com/robalobadob/wordle/apps/word-engine/internal/results"
	"github.com/robalobadob/wordle/apps/word-engine/internal/router"
	"github.com/robalobadob/wordle/apps/word-engine/internal/session"
)

// ErrDailyPlayed is returned when a player starts a second daily game on one date.
var ErrDailyPlayed = errors.New("play: daily game already played today")

// Archive records finished games. *results.Store satisfies it.
type Archive interface {
	Record(ctx context.Context, f results.Finished) error
}

// DailyArchive records daily results. *daily.Store satisfies it.
type DailyArchive interface {
	AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error)
	InsertResult(ctx context.Context, r daily.Result) error
}

// Service wires the registry, router and archives.
type Service struct {
	Registry *session.Registry
	Router   *router.Router
	Results  Archive      // optional
	Daily    DailyArchive // optional
	Now      func() time.Time
}

// New constructs a Service. Archives may be nil.
func New(reg *session.Registry, res Archive, dly DailyArchive) *Service {
	return &Service{
		Registry: reg,
		Router:   router.New(reg),
		Results:  res,
		Daily:    dly,
		Now:      time.Now,
	}
}

// StartRequest describes a new game.
type StartRequest struct {
	Player string
	Token  string
	Mode   game.Mode
	Parent string // daily only
	Length int    // 0 means the registry default
}

// StartGame creates a session. A *session.ExistsError names the routing
// token of the game the player already has.
func (s *Service) StartGame(ctx context.Context, req StartRequest) (*session.Session, error) {
	if req.Mode == game.ModeDaily && s.Daily != nil {
		played, err := s.Daily.AlreadyPlayed(ctx, req.Player, daily.DateKey(s.Now()))
		if err != nil {
			log.Warn().Err(err).Str("player", req.Player).Msg("daily lookup failed")
		} else if played {
			return nil, ErrDailyPlayed
		}
	}

	opts := []session.CreateOption{session.WithParent(req.Parent)}
	if req.Length > 0 {
		opts = append(opts, session.WithLength(req.Length))
	}
	sess, err := s.Registry.Create(req.Player, req.Token, req.Mode, opts...)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("player", sess.Player).
		Str("token", sess.Token).
		Str("mode", string(sess.Mode)).
		Int("length", len(sess.Target())).
		Msg("game started")
	return sess, nil
}

// SubmitGuess routes text to the addressed session. Terminal responses are
// archived before returning.
func (s *Service) SubmitGuess(ctx context.Context, key router.Lookup, text string) (router.Response, error) {
	resp, err := s.Router.Route(key, text)
	if err != nil {
		log.Debug().Err(err).Stringer("key", key).Msg("guess rejected")
		return resp, err
	}
	if resp.Kind == router.KindTerminal {
		log.Info().
			Str("player", resp.Player).
			Bool("won", resp.Won).
			Int("guesses", len(resp.Board.Guesses)).
			Msg("game finished")
		s.archive(ctx, resp)
	}
	return resp, nil
}

// StopGame ends the player's game without a result and returns the target.
func (s *Service) StopGame(ctx context.Context, player string) (string, error) {
	sess, err := s.Registry.GetByPlayer(player)
	if err != nil {
		return "", err
	}
	if !s.Registry.Remove(sess) {
		return "", session.ErrNoActiveSession
	}
	log.Info().Str("player", player).Str("token", sess.Token).Msg("game stopped")
	if sess.Mode == game.ModeDaily {
		s.forfeitDaily(ctx, sess)
	}
	return sess.Target(), nil
}

// forfeitDaily records a stopped daily game as lost so the revealed word
// cannot be replayed on the same date.
func (s *Service) forfeitDaily(ctx context.Context, sess *session.Session) {
	if s.Daily == nil {
		return
	}
	date := sess.Date
	if date == "" {
		date = daily.DateKey(s.Now())
	}
	err := s.Daily.InsertResult(ctx, daily.Result{
		PlayerID:  sess.Player,
		Date:      date,
		Word:      sess.Target(),
		Won:       false,
		Guesses:   len(sess.Snapshot().Guesses),
		ElapsedMs: s.Now().Sub(sess.CreatedAt).Milliseconds(),
	})
	if err != nil {
		log.Warn().Err(err).Str("player", sess.Player).Msg("record daily forfeit")
	}
}

func (s *Service) archive(ctx context.Context, resp router.Response) {
	now := s.Now()
	if s.Results != nil {
		err := s.Results.Record(ctx, results.Finished{
			Player:     resp.Player,
			Mode:       resp.Mode,
			Word:       resp.Word,
			Won:        resp.Won,
			Guesses:    len(resp.Board.Guesses),
			FinishedAt: now,
		})
		if err != nil {
			log.Warn().Err(err).Str("player", resp.Player).Msg("record result")
		}
	}
	if resp.Mode == game.ModeDaily && s.Daily != nil {
		date := resp.Date
		if date == "" {
			date = daily.DateKey(now)
		}
		err := s.Daily.InsertResult(ctx, daily.Result{
			PlayerID:  resp.Player,
			Date:      date,
			Word:      resp.Word,
			Won:       resp.Won,
			Guesses:   len(resp.Board.Guesses),
			ElapsedMs: now.Sub(resp.StartedAt).Milliseconds(),
		})
		if err != nil {
			log.Warn().Err(err).Str("player", resp.Player).Msg("record daily result")
		}
	}
}
