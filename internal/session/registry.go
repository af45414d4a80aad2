// internal/session/registry.go
//
// In-memory directory of active games.
//
// Characteristics:
//   - Forward index player → session and reverse index routing token → player.
//   - A single mutex guards both maps, so create and delete are atomic
//     across the two indices.
//   - At most one session per player; at most one session per routing token.
//   - State is lost when the process restarts. There is no idle expiry.

package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robalobadob/wordle/apps/word-engine/internal/daily"
	"github.com/robalobadob/wordle/apps/word-engine/internal/game"
	"github.com/robalobadob/wordle/apps/word-engine/internal/words"
)

// DefaultLength is the word length used when Create is not given one.
const DefaultLength = 5

var (
	ErrSessionExists   = errors.New("session: player already has an active game")
	ErrNoActiveSession = errors.New("session: no active game")
	ErrTokenInUse      = errors.New("session: routing token already bound to another game")
	ErrParentRequired  = errors.New("session: daily mode requires a parent routing token")
	ErrInvalidKey      = errors.New("session: player and routing token are required")
	ErrInvalidLength   = fmt.Errorf("session: word length must be %d-%d", words.MinLength, words.MaxLength)
)

// ExistsError is returned by Create when the player already has a game.
// It carries the routing token of that game so callers can point at it.
type ExistsError struct {
	Token string
}

func (e *ExistsError) Error() string { return ErrSessionExists.Error() }
func (e *ExistsError) Unwrap() error { return ErrSessionExists }

// Picker chooses target words for new sessions.
type Picker interface {
	Pick(mode game.Mode, length int, now time.Time) (string, error)
}

// DictionaryPicker draws standard targets at random and daily targets
// deterministically per UTC date.
type DictionaryPicker struct {
	Words *words.Repository
	Salt  string
}

func (p DictionaryPicker) Pick(mode game.Mode, length int, now time.Time) (string, error) {
	if mode == game.ModeDaily {
		w, err := daily.Word(now, p.Salt, p.Words.Partition(length))
		if errors.Is(err, daily.ErrNoWords) {
			return "", fmt.Errorf("%w: no %d-letter words", words.ErrEmptyDictionary, length)
		}
		return w, err
	}
	return p.Words.RandomWord(length)
}

// Registry holds the active sessions.
type Registry struct {
	dict          game.Dictionary
	picker        Picker
	now           func() time.Time
	defaultLength int

	mu       sync.Mutex
	byPlayer map[string]*Session
	byToken  map[string]string // routing token → player
}

// Option configures a Registry.
type Option func(*Registry)

// WithPicker overrides target selection.
func WithPicker(p Picker) Option { return func(r *Registry) { r.picker = p } }

// WithDailySalt sets the salt of the default picker's daily words.
func WithDailySalt(salt string) Option {
	return func(r *Registry) {
		if dp, ok := r.picker.(DictionaryPicker); ok {
			dp.Salt = salt
			r.picker = dp
		}
	}
}

// WithDefaultLength sets the word length used when Create gets none.
func WithDefaultLength(n int) Option { return func(r *Registry) { r.defaultLength = n } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(r *Registry) { r.now = now } }

// NewRegistry constructs an empty registry drawing words from repo.
func NewRegistry(repo *words.Repository, opts ...Option) *Registry {
	r := &Registry{
		dict:          repo,
		picker:        DictionaryPicker{Words: repo},
		now:           time.Now,
		defaultLength: DefaultLength,
		byPlayer:      make(map[string]*Session),
		byToken:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type createConfig struct {
	parent string
	length int
}

// CreateOption configures a single Create call.
type CreateOption func(*createConfig)

// WithParent binds a daily session to the context its progress is mirrored to.
func WithParent(token string) CreateOption { return func(c *createConfig) { c.parent = token } }

// WithLength selects the target word length.
func WithLength(n int) CreateOption { return func(c *createConfig) { c.length = n } }

// Create starts a game for player bound to token.
func (r *Registry) Create(player, token string, mode game.Mode, opts ...CreateOption) (*Session, error) {
	cfg := createConfig{length: r.defaultLength}
	for _, opt := range opts {
		opt(&cfg)
	}
	if player == "" || token == "" {
		return nil, ErrInvalidKey
	}
	if cfg.length < words.MinLength || cfg.length > words.MaxLength {
		return nil, ErrInvalidLength
	}
	switch mode {
	case game.ModeStandard:
		cfg.parent = ""
	case game.ModeDaily:
		if cfg.parent == "" {
			return nil, ErrParentRequired
		}
	default:
		return nil, fmt.Errorf("session: unknown mode %q", mode)
	}

	// Cheap rejection before drawing a word; re-checked under the lock below.
	if existing, err := r.GetByPlayer(player); err == nil {
		return nil, &ExistsError{Token: existing.Token}
	}

	now := r.now()
	target, err := r.picker.Pick(mode, cfg.length, now)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Player:    player,
		Token:     token,
		Parent:    cfg.parent,
		Mode:      mode,
		CreatedAt: now,
		game:      game.New(target, r.dict),
	}
	if mode == game.ModeDaily {
		s.Date = daily.DateKey(now)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byPlayer[player]; ok {
		return nil, &ExistsError{Token: existing.Token}
	}
	if _, ok := r.byToken[token]; ok {
		return nil, ErrTokenInUse
	}
	r.byPlayer[player] = s
	r.byToken[token] = player
	return s, nil
}

// GetByPlayer returns the player's active session.
func (r *Registry) GetByPlayer(player string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byPlayer[player]; ok {
		return s, nil
	}
	return nil, ErrNoActiveSession
}

// GetByToken returns the session bound to a routing token.
func (r *Registry) GetByToken(token string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if player, ok := r.byToken[token]; ok {
		return r.byPlayer[player], nil
	}
	return nil, ErrNoActiveSession
}

// Delete removes the player's session from both indices.
// It returns the removed session, or ErrNoActiveSession.
func (r *Registry) Delete(player string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byPlayer[player]
	if !ok {
		return nil, ErrNoActiveSession
	}
	delete(r.byPlayer, player)
	delete(r.byToken, s.Token)
	return s, nil
}

// Remove deletes s only if it is still the player's active session.
// It reports whether anything was removed.
func (r *Registry) Remove(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.byPlayer[s.Player]; !ok || cur != s {
		return false
	}
	delete(r.byPlayer, s.Player)
	delete(r.byToken, s.Token)
	return true
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byPlayer)
}
