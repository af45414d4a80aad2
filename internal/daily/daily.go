// internal/daily/daily.go
//
// Deterministic word-of-the-day selection. Every player starting a daily
// game on the same UTC date and word length gets the same target.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"strconv"
	"time"
)

// ErrNoWords is returned when the candidate list is empty.
var ErrNoWords = errors.New("daily: no candidate words")

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// WordIndex returns a deterministic index for a date using
// HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes → uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Word picks the daily word from candidates, which must be in a stable order.
// The word length is mixed into the salt so that different lengths do not
// walk their partitions in lockstep.
func Word(date time.Time, salt string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoWords
	}
	key := salt + ":" + strconv.Itoa(len(candidates[0]))
	return candidates[WordIndex(date, key, len(candidates))], nil
}
