package httpserver

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/robalobadob/wordle/apps/word-engine/internal/auth"
)

const limiterIdle = 10 * time.Minute

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// playerLimiter hands out one token bucket per player. Buckets idle long
// enough to have refilled completely are swept, so the map tracks recently
// active players only.
type playerLimiter struct {
	rps   rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu        sync.Mutex
	byID      map[string]*limiterEntry
	lastSweep time.Time
}

func newPlayerLimiter(rps float64, burst int) *playerLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	idle := limiterIdle
	if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > idle {
		idle = refill
	}
	return &playerLimiter{
		rps:   rate.Limit(rps),
		burst: burst,
		idle:  idle,
		now:   time.Now,
		byID:  make(map[string]*limiterEntry),
	}
}

func (pl *playerLimiter) get(id string) *rate.Limiter {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	now := pl.now()
	if now.Sub(pl.lastSweep) >= pl.idle {
		pl.sweepLocked(now)
	}
	if e, ok := pl.byID[id]; ok {
		e.lastSeen = now
		return e.lim
	}
	lim := rate.NewLimiter(pl.rps, pl.burst)
	pl.byID[id] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

func (pl *playerLimiter) sweepLocked(now time.Time) {
	for id, e := range pl.byID {
		if now.Sub(e.lastSeen) >= pl.idle {
			delete(pl.byID, id)
		}
	}
	pl.lastSweep = now
}

func (pl *playerLimiter) len() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.byID)
}

// middleware rejects requests over the authenticated player's budget.
// It must run after auth.RequirePlayer.
func (pl *playerLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PlayerFrom(r.Context())
		if !pl.get(p.ID).Allow() {
			writeError(w, http.StatusTooManyRequests, "too_many_requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
