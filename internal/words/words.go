// internal/words/words.go
//
// Dictionary management for the game engine.
//
// Responsibilities:
//   - Load a line-delimited word list once at startup (file or embedded default).
//   - Partition words by length for random draws.
//   - Answer membership queries for guess validation.
//
// Constraints:
//   • Words must be MinLength..MaxLength alphabetic letters (a–z).
//   • Lists are normalized to lowercase; duplicates are dropped.
//   • A Repository is read-only after Load and safe for concurrent use.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/robalobadob/wordle/apps/word-engine/assets"
)

const (
	MinLength = 4
	MaxLength = 10
)

// ErrEmptyDictionary is returned when no word is available for a request.
var ErrEmptyDictionary = errors.New("words: dictionary is empty")

// Repository holds a fixed dictionary partitioned by word length.
type Repository struct {
	byLength map[int][]string    // length → words, sorted
	all      map[string]struct{} // every word regardless of length
}

// Load reads one word per line from r.
// Invalid lines (wrong length, non a–z) are skipped; an empty result is an error.
func Load(r io.Reader) (*Repository, error) {
	var list []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w := Normalize(line)
		if isWord(w) {
			list = append(list, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read: %w", err)
	}
	return FromList(list)
}

// LoadFile loads a dictionary from a file on disk.
func LoadFile(path string) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// LoadEmbedded loads the dictionary shipped in the assets package.
func LoadEmbedded() (*Repository, error) {
	f, err := assets.Dictionary()
	if err != nil {
		return nil, fmt.Errorf("words: open embedded: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// FromList builds a Repository from an in-memory list. Entries are normalized
// and filtered the same way as Load.
func FromList(list []string) (*Repository, error) {
	clean := lo.Uniq(lo.FilterMap(list, func(s string, _ int) (string, bool) {
		w := Normalize(s)
		return w, isWord(w)
	}))
	if len(clean) == 0 {
		return nil, ErrEmptyDictionary
	}

	byLength := lo.GroupBy(clean, func(w string) int { return len(w) })
	for _, part := range byLength {
		sort.Strings(part)
	}
	return &Repository{
		byLength: byLength,
		all:      lo.Keyify(clean),
	}, nil
}

// RandomWord returns a uniformly chosen word of the requested length.
func (r *Repository) RandomWord(length int) (string, error) {
	part := r.byLength[length]
	if len(part) == 0 {
		return "", fmt.Errorf("%w: no %d-letter words", ErrEmptyDictionary, length)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(part))))
	if err != nil {
		return "", fmt.Errorf("words: random: %w", err)
	}
	return part[n.Int64()], nil
}

// Exists reports whether candidate is in the dictionary (any length).
func (r *Repository) Exists(candidate string) bool {
	_, ok := r.all[Normalize(candidate)]
	return ok
}

// Partition returns a copy of the words of the given length, sorted.
func (r *Repository) Partition(length int) []string {
	return append([]string(nil), r.byLength[length]...)
}

// Stats returns the number of loaded words per length.
func (r *Repository) Stats() map[int]int {
	return lo.MapValues(r.byLength, func(part []string, _ int) int { return len(part) })
}

// Size returns the total number of loaded words.
func (r *Repository) Size() int { return len(r.all) }

// Normalize trims whitespace and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isWord reports whether s is MinLength..MaxLength lowercase ASCII letters.
func isWord(s string) bool {
	if len(s) < MinLength || len(s) > MaxLength {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
