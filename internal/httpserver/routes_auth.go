package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/word-engine/internal/auth"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) mountAuth() {
	s.r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			auth.ClearCookie(w, s.opt.SecureCookies)
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.With(s.d.Issuer.RequirePlayer).Get("/me", s.handleMe)
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	u, err := s.d.Users.Signup(r.Context(), in.Username, in.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken")
		return
	case errors.Is(err, auth.ErrInvalidSignup):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_signup", "detail": err.Error()})
		return
	case err != nil:
		log.Error().Err(err).Msg("signup")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	log.Info().Str("player", u.ID).Str("username", u.Username).Msg("signup")
	s.issue(w, http.StatusCreated, auth.Player{ID: u.ID, Username: u.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	u, err := s.d.Users.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error().Err(err).Msg("login")
		}
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	s.issue(w, http.StatusOK, auth.Player{ID: u.ID, Username: u.Username})
}

// handleMe returns the stored account behind the token. A token for a
// deleted account is rejected.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PlayerFrom(r.Context())
	u, err := s.d.Users.FindByID(r.Context(), p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("find user")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// issue signs a token for p, sets the cookie and echoes the token for
// clients that prefer the Authorization header.
func (s *Server) issue(w http.ResponseWriter, status int, p auth.Player) {
	tok, exp, err := s.d.Issuer.Sign(p)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	auth.SetCookie(w, tok, exp, s.opt.SecureCookies)
	writeJSON(w, status, map[string]any{"player": p, "token": tok, "expiresAt": exp})
}
