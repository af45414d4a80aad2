// internal/session/session.go
//
// A Session binds one player's game to a routing token (the conversation
// context guesses arrive in). Sessions live only in memory.

package session

import (
	"sync"
	"time"

	"github.com/robalobadob/wordle/apps/word-engine/internal/game"
)

// Session is one player's active game.
type Session struct {
	Player    string    // owning player identity
	Token     string    // routing token the game is bound to
	Parent    string    // daily mode: context where progress is mirrored
	Mode      game.Mode // standard | daily
	Date      string    // daily mode: YYYY-MM-DD the target belongs to
	CreatedAt time.Time

	mu   sync.Mutex // serializes guesses on this game
	game *game.Game
}

// Snapshot is a consistent copy of a session's board.
type Snapshot struct {
	Guesses   []string
	Marks     [][]game.Mark
	Remaining int
	Status    game.Status
	Length    int
}

// Guess applies raw to the game. Concurrent guesses on one session are serialized.
func (s *Session) Guess(raw string) (game.Outcome, Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.game.AddGuess(raw)
	return out, s.snapshotLocked(), err
}

// Snapshot returns the current board.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Guesses:   s.game.Guesses(),
		Marks:     s.game.Evaluations(),
		Remaining: s.game.RemainingAttempts(),
		Status:    s.game.Status(),
		Length:    len(s.game.Target()),
	}
}

// Target reveals the word. Callers show it only once the game is over or stopped.
func (s *Session) Target() string { return s.game.Target() }
