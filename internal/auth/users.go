// internal/auth/users.go
//
// Player accounts. A user's ID is the player identity games are keyed by.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidSignup wraps input validation failures; their text is safe to show.
	ErrInvalidSignup = errors.New("invalid signup")
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Users reads and writes accounts.
type Users struct{ db *sql.DB }

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

// Signup validates input, hashes the password and inserts a new user.
func (u *Users) Signup(ctx context.Context, username, pw string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC(),
	}
	var exists int
	_ = u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=?`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	if err := u.insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// insert stores user. A unique violation means another signup for the same
// name won the race after the pre-check.
func (u *Users) insert(ctx context.Context, user *User) error {
	_, err := u.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt.Format(time.RFC3339))
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrUsernameTaken
	}
	return err
}

// Login checks credentials. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (u *Users) Login(ctx context.Context, username, pw string) (*User, error) {
	user, err := u.findByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(pw)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindByID loads a user or returns sql.ErrNoRows.
func (u *Users) FindByID(ctx context.Context, id string) (*User, error) {
	return scanUser(u.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id=?`, id))
}

func (u *Users) findByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(u.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username=?`, username))
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var created string
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &created); err != nil {
		return nil, err
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &user, nil
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return fmt.Errorf("%w: username must be 3–24 chars", ErrInvalidSignup)
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: username: letters, numbers, underscore only", ErrInvalidSignup)
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return fmt.Errorf("%w: password must be 8–72 chars", ErrInvalidSignup)
	}
	return nil
}
