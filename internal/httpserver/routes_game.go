package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/word-engine/internal/auth"
	"github.com/robalobadob/wordle/apps/word-engine/internal/daily"
	"github.com/robalobadob/wordle/apps/word-engine/internal/game"
	"github.com/robalobadob/wordle/apps/word-engine/internal/play"
	"github.com/robalobadob/wordle/apps/word-engine/internal/router"
	"github.com/robalobadob/wordle/apps/word-engine/internal/session"
	"github.com/robalobadob/wordle/apps/word-engine/internal/words"
)

type startIn struct {
	Mode   string `json:"mode"`
	Token  string `json:"token"`
	Parent string `json:"parent"`
	Length int    `json:"length"`
}

type guessIn struct {
	Token string `json:"token"`
	Text  string `json:"text"`
}

func (s *Server) mountGame() {
	s.r.Group(func(r chi.Router) {
		r.Use(s.d.Issuer.RequirePlayer)

		r.Get("/game", s.handleBoard)
		r.Post("/game/start", s.handleStart)
		r.With(s.limiter.middleware).Post("/game/guess", s.handleGuess)
		r.Post("/game/stop", s.handleStop)

		r.Get("/stats/me", s.handleStats)
		r.Get("/games/mine", s.handleRecent)
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PlayerFrom(r.Context())
	var in startIn
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	mode, err := game.ParseMode(in.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}
	if in.Token == "" {
		in.Token = uuid.NewString()
	}

	sess, err := s.d.Service.StartGame(r.Context(), play.StartRequest{
		Player: p.ID,
		Token:  in.Token,
		Mode:   mode,
		Parent: in.Parent,
		Length: in.Length,
	})
	if err != nil {
		var exists *session.ExistsError
		switch {
		case errors.As(err, &exists):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "session_exists", "token": exists.Token})
		case errors.Is(err, play.ErrDailyPlayed):
			writeError(w, http.StatusConflict, "daily_played")
		case errors.Is(err, session.ErrTokenInUse):
			writeError(w, http.StatusConflict, "token_in_use")
		case errors.Is(err, session.ErrParentRequired):
			writeError(w, http.StatusBadRequest, "parent_required")
		case errors.Is(err, session.ErrInvalidLength):
			writeError(w, http.StatusBadRequest, "bad_length")
		case errors.Is(err, words.ErrEmptyDictionary), errors.Is(err, daily.ErrNoWords):
			writeError(w, http.StatusUnprocessableEntity, "no_words")
		default:
			log.Error().Err(err).Str("player", p.ID).Msg("start game")
			writeError(w, http.StatusInternalServerError, "internal")
		}
		return
	}

	snap := sess.Snapshot()
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":     sess.Token,
		"mode":      sess.Mode,
		"parent":    sess.Parent,
		"date":      sess.Date,
		"length":    snap.Length,
		"remaining": snap.Remaining,
	})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PlayerFrom(r.Context())
	var in guessIn
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	key := router.ByPlayer(p.ID)
	if in.Token != "" {
		key = router.ByToken(in.Token)
	}

	resp, err := s.d.Service.SubmitGuess(r.Context(), key, in.Text)
	switch {
	case errors.Is(err, router.ErrMalformedGuess):
		writeError(w, http.StatusBadRequest, "malformed_guess")
		return
	case errors.Is(err, session.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, "no_active_session")
		return
	case err != nil:
		log.Error().Err(err).Stringer("key", key).Msg("guess")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	jr := &jsonResponder{}
	if err := router.Deliver(r.Context(), jr, resp); err != nil {
		log.Error().Err(err).Msg("deliver")
	}
	status := http.StatusOK
	if resp.Kind == router.KindError {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, jr.body(resp))
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PlayerFrom(r.Context())
	word, err := s.d.Service.StopGame(r.Context(), p.ID)
	if errors.Is(err, session.ErrNoActiveSession) {
		writeError(w, http.StatusNotFound, "no_active_session")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"word": word})
}

// handleBoard shows the caller's current game without revealing the word.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PlayerFrom(r.Context())
	sess, err := s.d.Service.Registry.GetByPlayer(p.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "no_active_session")
		return
	}
	snap := sess.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"token": sess.Token,
		"mode":  sess.Mode,
		"board": router.Board{
			Guesses:   snap.Guesses,
			Marks:     snap.Marks,
			Remaining: snap.Remaining,
			Length:    snap.Length,
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PlayerFrom(r.Context())
	st, err := s.d.Results.Stats(r.Context(), p.ID)
	if err != nil {
		log.Error().Err(err).Msg("stats")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PlayerFrom(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.d.Results.Recent(r.Context(), p.ID, limit)
	if err != nil {
		log.Error().Err(err).Msg("recent games")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, list)
}
