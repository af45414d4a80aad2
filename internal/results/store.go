// internal/results/store.go
//
// Archive of finished games and per-player statistics.
// Written once per game when it reaches a terminal state; in-progress
// sessions are never stored.

package results

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalobadob/wordle/apps/word-engine/internal/game"
)

// Finished describes one completed game.
type Finished struct {
	Player     string    `json:"player"`
	Mode       game.Mode `json:"mode"`
	Word       string    `json:"word"`
	Won        bool      `json:"won"`
	Guesses    int       `json:"guesses"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Stats are a player's aggregate results.
type Stats struct {
	Player      string `json:"player"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	Streak      int    `json:"streak"`
	MaxStreak   int    `json:"maxStreak"`
}

// Store persists results in SQLite.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts f and updates the player's stats in one transaction.
func (s *Store) Record(ctx context.Context, f Finished) error {
	if f.FinishedAt.IsZero() {
		f.FinishedAt = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO game_results (player_id, mode, word, won, guesses, finished_at)
		 VALUES (?,?,?,?,?,?)`,
		f.Player, string(f.Mode), f.Word, f.Won, f.Guesses, f.FinishedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}
	if err := bumpStats(ctx, tx, f.Player, f.Won); err != nil {
		return err
	}
	return tx.Commit()
}

// bumpStats increments games played; updates wins and streaks based on the result.
func bumpStats(ctx context.Context, tx *sql.Tx, player string, won bool) error {
	st, err := scanStats(tx.QueryRowContext(ctx,
		`SELECT player_id, games_played, wins, streak, max_streak FROM player_stats WHERE player_id=?`, player))
	if errors.Is(err, sql.ErrNoRows) {
		st = Stats{Player: player}
	} else if err != nil {
		return err
	}

	st.GamesPlayed++
	if won {
		st.Wins++
		st.Streak++
		st.MaxStreak = max(st.MaxStreak, st.Streak)
	} else {
		st.Streak = 0
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO player_stats (player_id, games_played, wins, streak, max_streak)
		 VALUES (?,?,?,?,?)
		 ON CONFLICT(player_id) DO UPDATE SET
		   games_played=excluded.games_played, wins=excluded.wins,
		   streak=excluded.streak, max_streak=excluded.max_streak`,
		player, st.GamesPlayed, st.Wins, st.Streak, st.MaxStreak)
	return err
}

// Stats returns the player's aggregates; a player with no games gets zeros.
func (s *Store) Stats(ctx context.Context, player string) (Stats, error) {
	st, err := scanStats(s.db.QueryRowContext(ctx,
		`SELECT player_id, games_played, wins, streak, max_streak FROM player_stats WHERE player_id=?`, player))
	if errors.Is(err, sql.ErrNoRows) {
		return Stats{Player: player}, nil
	}
	return st, err
}

// Recent returns the player's latest finished games, newest first.
func (s *Store) Recent(ctx context.Context, player string, limit int) ([]Finished, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, mode, word, won, guesses, finished_at
		 FROM game_results WHERE player_id=? ORDER BY finished_at DESC, id DESC LIMIT ?`, player, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Finished
	for rows.Next() {
		var f Finished
		var mode, at string
		if err := rows.Scan(&f.Player, &mode, &f.Word, &f.Won, &f.Guesses, &at); err != nil {
			return nil, err
		}
		f.Mode = game.Mode(mode)
		f.FinishedAt, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanStats(row *sql.Row) (Stats, error) {
	var st Stats
	err := row.Scan(&st.Player, &st.GamesPlayed, &st.Wins, &st.Streak, &st.MaxStreak)
	return st, err
}
