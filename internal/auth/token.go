// internal/auth/token.go
//
// HS256 player tokens and the HTTP middleware that turns them into a
// player identity on the request context.

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the auth cookie read by Middleware.
const CookieName = "wordle_token"

var ErrInvalidToken = errors.New("invalid token")

// Player is the identity carried by a token.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Issuer signs and verifies player tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer using secret; tokens live for ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Sign creates a token for the player and returns it with its expiry.
func (is *Issuer) Sign(p Player) (string, time.Time, error) {
	now := is.now()
	exp := now.Add(is.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(is.secret)
	return ss, exp, err
}

// Parse verifies a token and returns its player.
func (is *Issuer) Parse(token string) (Player, error) {
	var c claims
	t, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return is.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(is.now))
	if err != nil || !t.Valid || c.Subject == "" {
		return Player{}, ErrInvalidToken
	}
	return Player{ID: c.Subject, Username: c.Username}, nil
}

type ctxPlayerKey struct{}

// WithPlayer stores p on ctx.
func WithPlayer(ctx context.Context, p Player) context.Context {
	return context.WithValue(ctx, ctxPlayerKey{}, p)
}

// PlayerFrom returns the authenticated player, if any.
func PlayerFrom(ctx context.Context) (Player, bool) {
	p, ok := ctx.Value(ctxPlayerKey{}).(Player)
	return p, ok
}

// RequirePlayer enforces a valid token and injects the Player into the request context.
func (is *Issuer) RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		p, err := is.Parse(tok)
		if err != nil {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPlayer(r.Context(), p)))
	})
}

// SetCookie writes the auth token cookie.
func SetCookie(w http.ResponseWriter, token string, exp time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite(secure),
		Expires:  exp,
	})
}

// ClearCookie deletes the auth token cookie.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite(secure),
		MaxAge:   -1,
	})
}

func sameSite(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// bearerOrCookie extracts a bearer token from the Authorization header or the auth cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
