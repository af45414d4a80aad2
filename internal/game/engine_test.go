package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dictStub map[string]bool

func (d dictStub) Exists(w string) bool { return d[strings.ToLower(strings.TrimSpace(w))] }

func newDict(words ...string) dictStub {
	d := dictStub{}
	for _, w := range words {
		d[w] = true
	}
	return d
}

const (
	C = MarkCorrect
	M = MarkMisplaced
	X = MarkIncorrect
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name   string
		guess  string
		target string
		want   []Mark
	}{
		{"radar vector", "arrad", "radar", []Mark{M, M, M, C, M}},
		{"exact", "crane", "crane", []Mark{C, C, C, C, C}},
		{"no overlap", "bumpy", "crane", []Mark{X, X, X, X, X}},
		{"duplicate guess letter single in target", "eerie", "crane", []Mark{X, X, M, X, C}},
		{"correct consumes before misplaced", "speed", "abide", []Mark{X, X, M, X, M}},
		{"extra duplicate is incorrect", "lolly", "hello", []Mark{X, M, C, C, X}},
		{"misplaced limited by count", "aaaab", "baaaa", []Mark{M, C, C, C, M}},
		{"four letters", "pool", "loop", []Mark{M, C, C, M}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.guess, tc.target))
		})
	}
}

func TestEvaluate_NeverExceedsLetterCount(t *testing.T) {
	pairs := [][2]string{
		{"arrad", "radar"}, {"eerie", "crane"}, {"lolly", "hello"},
		{"aaaaa", "abbba"}, {"abcab", "bacba"}, {"zzzzzz", "puzzle"},
		{"mississip", "pipsissim"},
	}
	for _, p := range pairs {
		guess, target := p[0], p[1]
		marks := Evaluate(guess, target)
		hits := map[byte]int{}
		for i, m := range marks {
			if m != MarkIncorrect {
				hits[guess[i]]++
			}
		}
		for letter, n := range hits {
			assert.LessOrEqual(t, n, strings.Count(target, string(letter)),
				"guess %q target %q letter %q", guess, target, letter)
		}
	}
}

func TestEvaluate_Pure(t *testing.T) {
	a := Evaluate("arrad", "radar")
	b := Evaluate("arrad", "radar")
	assert.Equal(t, a, b)

	a[0] = MarkCorrect
	assert.Equal(t, M, Evaluate("arrad", "radar")[0])
}

func TestAddGuess_Win(t *testing.T) {
	g := New("crane", newDict("crane", "slate"))

	out, err := g.AddGuess("slate")
	require.NoError(t, err)
	assert.Equal(t, OutcomeValid, out.Kind)
	assert.Equal(t, 5, out.Remaining)

	out, err = g.AddGuess("  CRANE ")
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, out.Kind)
	assert.Equal(t, []Mark{C, C, C, C, C}, out.Marks)
	assert.Equal(t, StatusWon, g.Status())
	assert.Equal(t, []string{"slate", "crane"}, g.Guesses())

	_, err = g.AddGuess("slate")
	assert.ErrorIs(t, err, ErrFinished)
}

func TestAddGuess_ValidationOrder(t *testing.T) {
	g := New("crane", newDict("crane", "slate"))
	_, err := g.AddGuess("slate")
	require.NoError(t, err)

	cases := []struct {
		name  string
		guess string
		want  error
	}{
		{"length before anything", "sla", ErrLengthMismatch},
		{"repeated before dictionary", "SLATE", ErrRepeated},
		{"unknown word", "zzzzz", ErrUnknownWord},
		{"accented letters count once", "crané", ErrUnknownWord},
		{"multibyte too long", "cranéé", ErrLengthMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.AddGuess(tc.guess)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 5, g.RemainingAttempts(), "validation must not consume an attempt")
			assert.Len(t, g.Guesses(), 1)
		})
	}
}

func TestAddGuess_LostOnSixthMiss(t *testing.T) {
	misses := []string{"aaaaa", "bbbbb", "ccccc", "ddddd", "eeeee", "fffff"}
	g := New("hello", newDict(misses...))

	for i, w := range misses[:5] {
		out, err := g.AddGuess(w)
		require.NoError(t, err)
		assert.Equal(t, OutcomeValid, out.Kind)
		assert.Equal(t, MaxAttempts-i-1, out.Remaining)
	}
	out, err := g.AddGuess(misses[5])
	require.NoError(t, err)
	assert.Equal(t, OutcomeLost, out.Kind)
	assert.Equal(t, 0, out.Remaining)
	assert.Equal(t, StatusLost, g.Status())
	assert.True(t, g.Status().Terminal())
}

func TestAddGuess_WinOnLastAttempt(t *testing.T) {
	misses := []string{"aaaaa", "bbbbb", "ccccc", "ddddd", "eeeee"}
	g := New("hello", newDict(append(misses, "hello")...))
	for _, w := range misses {
		_, err := g.AddGuess(w)
		require.NoError(t, err)
	}
	out, err := g.AddGuess("hello")
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, out.Kind)
}

func TestEvaluationsAreCopies(t *testing.T) {
	g := New("crane", newDict("slate"))
	_, err := g.AddGuess("slate")
	require.NoError(t, err)

	ev := g.Evaluations()
	ev[0][0] = MarkCorrect
	assert.Equal(t, X, g.Evaluations()[0][0])
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeStandard, m)

	m, err = ParseMode("daily")
	require.NoError(t, err)
	assert.Equal(t, ModeDaily, m)

	_, err = ParseMode("weekly")
	assert.Error(t, err)
}
