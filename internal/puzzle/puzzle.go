// Package puzzle turns a vocabulary word into a fill-in-the-blank puzzle.
package puzzle

import (
	"math/rand"
	"sync"
	"time"
	"unicode"
)

// Blank replaces the hidden letter.
const Blank = '_'

// Source is the subset of *rand.Rand the masker needs.
type Source interface {
	Intn(n int) int
}

var (
	defaultMu  sync.Mutex
	defaultRng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

type lockedSource struct{}

func (lockedSource) Intn(n int) int {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultRng.Intn(n)
}

// Mask hides exactly one letter of word. Words of up to three runes lose a random
// letter; longer words lose the letter nearest the middle, never the first or the
// last rune. A word with no letter that can be hidden comes back unchanged.
// A nil rng uses the package source.
func Mask(word string, rng Source) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}
	if rng == nil {
		rng = lockedSource{}
	}
	pos := Position(runes, rng)
	if pos < 0 {
		return word
	}
	runes[pos] = Blank
	return string(runes)
}

// Position picks the index Mask blanks, or -1 when no rune qualifies.
func Position(runes []rune, rng Source) int {
	n := len(runes)
	if n == 0 {
		return -1
	}
	if n <= 3 {
		letters := make([]int, 0, n)
		for i, r := range runes {
			if unicode.IsLetter(r) {
				letters = append(letters, i)
			}
		}
		if len(letters) == 0 {
			return -1
		}
		return letters[rng.Intn(len(letters))]
	}

	pos := n/2 + rng.Intn(3) - 1
	if pos < 1 {
		pos = 1
	}
	if pos > n-2 {
		pos = n - 2
	}
	// walk outwards from pos inside [1, n-2], lower side first
	for d := 0; d < n; d++ {
		if i := pos - d; i >= 1 && unicode.IsLetter(runes[i]) {
			return i
		}
		if i := pos + d; d > 0 && i <= n-2 && unicode.IsLetter(runes[i]) {
			return i
		}
	}
	return -1
}
