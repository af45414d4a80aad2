package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/word-engine/internal/auth"
	"github.com/robalobadob/wordle/apps/word-engine/internal/daily"
	"github.com/robalobadob/wordle/apps/word-engine/internal/db"
	"github.com/robalobadob/wordle/apps/word-engine/internal/game"
	"github.com/robalobadob/wordle/apps/word-engine/internal/play"
	"github.com/robalobadob/wordle/apps/word-engine/internal/results"
	"github.com/robalobadob/wordle/apps/word-engine/internal/session"
	"github.com/robalobadob/wordle/apps/word-engine/internal/words"
)

type fixedPicker string

func (p fixedPicker) Pick(game.Mode, int, time.Time) (string, error) { return string(p), nil }

func newTestServer(t *testing.T, opt Options) *Server {
	t.Helper()
	conn, err := db.OpenMigrated(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	repo, err := words.FromList([]string{"crane", "slate", "apple", "table", "radar"})
	require.NoError(t, err)
	reg := session.NewRegistry(repo, session.WithPicker(fixedPicker("crane")))
	res := results.NewStore(conn)
	dly := daily.NewStore(conn)

	return New(Deps{
		Service: play.New(reg, res, dly),
		Words:   repo,
		Users:   auth.NewUsers(conn),
		Issuer:  auth.NewIssuer("test-secret", time.Hour),
		Results: res,
		Daily:   dly,
	}, opt)
}

func do(t *testing.T, s *Server, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func signup(t *testing.T, s *Server, name string) string {
	t.Helper()
	rec, out := do(t, s, http.MethodPost, "/auth/signup", "", credentials{Username: name, Password: "correct-horse"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tok, _ := out["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{})
	rec, out := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestAuth_SignupLogin(t *testing.T) {
	s := newTestServer(t, Options{})
	signup(t, s, "alice")

	rec, _ := do(t, s, http.MethodPost, "/auth/signup", "", credentials{Username: "alice", Password: "correct-horse"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, out := do(t, s, http.MethodPost, "/auth/login", "", credentials{Username: "alice", Password: "correct-horse"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, out["token"])
	assert.NotEmpty(t, rec.Result().Cookies())

	rec, _ = do(t, s, http.MethodPost, "/auth/login", "", credentials{Username: "alice", Password: "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGame_RequiresAuth(t *testing.T) {
	s := newTestServer(t, Options{})
	rec, _ := do(t, s, http.MethodPost, "/game/start", "", startIn{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGame_FullRound(t *testing.T) {
	s := newTestServer(t, Options{GuessRateRPS: 100, GuessRateBurst: 100})
	tok := signup(t, s, "alice")

	rec, out := do(t, s, http.MethodPost, "/game/start", tok, startIn{Token: "T1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "T1", out["token"])
	assert.EqualValues(t, 5, out["length"])
	assert.EqualValues(t, 6, out["remaining"])

	rec, out = do(t, s, http.MethodPost, "/game/start", tok, startIn{Token: "T2"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "session_exists", out["error"])
	assert.Equal(t, "T1", out["token"])

	rec, out = do(t, s, http.MethodPost, "/game/guess", tok, guessIn{Text: "zzzzz"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", out["kind"])
	assert.Equal(t, "Not in the word list.", out["message"])

	rec, _ = do(t, s, http.MethodPost, "/game/guess", tok, guessIn{Text: "two words"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = do(t, s, http.MethodPost, "/game/guess", tok, guessIn{Text: "slate"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "board", out["kind"])
	assert.EqualValues(t, 5, out["remaining"])

	rec, out = do(t, s, http.MethodGet, "/game", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "crane")

	rec, out = do(t, s, http.MethodPost, "/game/guess", tok, guessIn{Token: "T1", Text: "CRANE"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "terminal", out["kind"])
	assert.Equal(t, true, out["won"])
	assert.Equal(t, "crane", out["word"])

	rec, _ = do(t, s, http.MethodPost, "/game/guess", tok, guessIn{Text: "slate"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, out = do(t, s, http.MethodGet, "/stats/me", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, out["gamesPlayed"])
	assert.EqualValues(t, 1, out["wins"])
}

func TestGame_Stop(t *testing.T) {
	s := newTestServer(t, Options{})
	tok := signup(t, s, "bob")

	rec, _ := do(t, s, http.MethodPost, "/game/stop", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/game/start", tok, startIn{})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, out := do(t, s, http.MethodPost, "/game/stop", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "crane", out["word"])
}

func TestGame_DailyMirrorAndLeaderboard(t *testing.T) {
	s := newTestServer(t, Options{GuessRateRPS: 100, GuessRateBurst: 100})
	tok := signup(t, s, "carol")

	rec, out := do(t, s, http.MethodPost, "/game/start", tok, startIn{Mode: "daily"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "parent_required", out["error"])

	rec, _ = do(t, s, http.MethodPost, "/game/start", tok, startIn{Mode: "daily", Token: "D1", Parent: "CHAN"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, out = do(t, s, http.MethodPost, "/game/guess", tok, guessIn{Text: "crane"})
	require.Equal(t, http.StatusOK, rec.Code)
	mirror, ok := out["mirror"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	assert.Equal(t, "CHAN", mirror["token"])
	assert.NotContains(t, mirror, "word")

	rec, out = do(t, s, http.MethodPost, "/game/start", tok, startIn{Mode: "daily", Token: "D2", Parent: "CHAN"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "daily_played", out["error"])

	rec, out = do(t, s, http.MethodGet, "/daily/leaderboard", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	entries, _ := out["entries"].([]any)
	assert.Len(t, entries, 1)

	rec, _ = do(t, s, http.MethodGet, "/daily/leaderboard?date=yesterday", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuess_RateLimited(t *testing.T) {
	s := newTestServer(t, Options{GuessRateRPS: 0.001, GuessRateBurst: 1})
	tok := signup(t, s, "dave")
	rec, _ := do(t, s, http.MethodPost, "/game/start", tok, startIn{})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/game/guess", tok, guessIn{Text: "slate"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, s, http.MethodPost, "/game/guess", tok, guessIn{Text: "apple"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuth_MeReturnsStoredUser(t *testing.T) {
	s := newTestServer(t, Options{})
	tok := signup(t, s, "erin")

	rec, out := do(t, s, http.MethodGet, "/auth/me", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "erin", out["username"])
	assert.NotEmpty(t, out["createdAt"])
	assert.NotContains(t, rec.Body.String(), "password")

	ghost, _, err := s.d.Issuer.Sign(auth.Player{ID: "no-such-user", Username: "ghost"})
	require.NoError(t, err)
	rec, out = do(t, s, http.MethodGet, "/auth/me", ghost, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", out["error"])
}

func TestGames_MineUsesCamelCase(t *testing.T) {
	s := newTestServer(t, Options{GuessRateRPS: 100, GuessRateBurst: 100})
	tok := signup(t, s, "frank")

	rec, _ := do(t, s, http.MethodPost, "/game/start", tok, startIn{})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = do(t, s, http.MethodPost, "/game/guess", tok, guessIn{Text: "crane"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/games/mine", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "crane", list[0]["word"])
	assert.Equal(t, true, list[0]["won"])
	assert.EqualValues(t, 1, list[0]["guesses"])
	assert.Contains(t, list[0], "finishedAt")
	assert.NotContains(t, list[0], "FinishedAt")
}

func TestAuth_SignupValidationDetail(t *testing.T) {
	s := newTestServer(t, Options{})
	rec, out := do(t, s, http.MethodPost, "/auth/signup", "", credentials{Username: "bo", Password: "correct-horse"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_signup", out["error"])
	assert.Contains(t, out["detail"], "username")
}
