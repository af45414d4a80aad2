// internal/httpserver/server.go
//
// HTTP command surface for the game service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words", "/daily/leaderboard".
//   - Auth endpoints: /auth/signup, /auth/login, /auth/logout.
//   - Game endpoints (require auth): /game/start, /game/guess, /game/stop, /game.
//   - Profile endpoints (require auth): /stats/me, /games/mine.
//
// Notes:
//   - The authenticated player is the session owner. Guesses may instead be
//     addressed to a routing token, which is how a conversation relay forwards
//     free text it received in a game's context.
//   - Guesses are rate limited per player.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/word-engine/internal/auth"
	"github.com/robalobadob/wordle/apps/word-engine/internal/daily"
	"github.com/robalobadob/wordle/apps/word-engine/internal/play"
	"github.com/robalobadob/wordle/apps/word-engine/internal/results"
	"github.com/robalobadob/wordle/apps/word-engine/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Service *play.Service
	Words   *words.Repository
	Users   *auth.Users
	Issuer  *auth.Issuer
	Results *results.Store
	Daily   *daily.Store
}

// Options tune transport behavior.
type Options struct {
	ClientOrigin   string
	SecureCookies  bool
	GuessRateRPS   float64
	GuessRateBurst int
	RequestTimeout time.Duration
}

// Server bundles the router and its dependencies.
type Server struct {
	r       *chi.Mux
	d       Deps
	opt     Options
	limiter *playerLimiter
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps, opt Options) *Server {
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = 10 * time.Second
	}
	s := &Server{
		r:       chi.NewRouter(),
		d:       d,
		opt:     opt,
		limiter: newPlayerLimiter(opt.GuessRateRPS, opt.GuessRateBurst),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(opt.RequestTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors(opt.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "word-engine",
			"endpoints": []string{"/health", "POST /game/start", "POST /game/guess", "POST /game/stop", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       true,
			"sessions": d.Service.Registry.Len(),
		})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"total": d.Words.Size(), "byLength": d.Words.Stats()})
	})

	s.mountAuth()
	s.mountGame()
	s.mountDaily()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin != "" {
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request with zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v)
}
