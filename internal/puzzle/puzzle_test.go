package puzzle

import (
	"math/rand"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

type fixed int

func (f fixed) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func TestMask(t *testing.T) {
	tests := []struct {
		name string
		word string
		src  fixed
		want string
	}{
		// "teacher": 7 runes, middle 3, offsets -1..+1
		{"long low", "teacher", 0, "te_cher"},
		{"long mid", "teacher", 1, "tea_her"},
		{"long high", "teacher", 2, "teac_er"},
		// n=4: 4/2+1 = 3 would hit the last rune
		{"clamped", "book", 2, "bo_k"},
		{"four low", "book", 0, "b_ok"},
		{"short first", "cat", 0, "_at"},
		{"short mid", "cat", 1, "c_t"},
		{"short last", "cat", 2, "ca_"},
		{"single", "a", 0, "_"},
		{"empty", "", 0, ""},
		{"runes", "große", 1, "gr_ße"},
		{"space short", "a b", 0, "_ b"},
		{"space short high", "a b", 1, "a _"},
		{"hyphen", "well-known", 0, "wel_-known"},
		{"after hyphen", "well-known", 1, "well-_nown"},
		{"hyphen high", "well-known", 2, "well-k_own"},
		{"space long", "ice cream", 1, "ice _ream"},
		{"apostrophe", "don't", 1, "do_'t"},
		{"no letters", "-", 0, "-"},
		{"digits", "42", 1, "42"},
		{"no inner letter", "a--b", 1, "a--b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mask(tt.word, tt.src)
			if got != tt.want {
				t.Fatalf("Mask(%q, %d) = %q, want %q", tt.word, tt.src, got, tt.want)
			}
			if utf8.RuneCountInString(got) != utf8.RuneCountInString(tt.word) {
				t.Fatalf("rune count changed: %q -> %q", tt.word, got)
			}
		})
	}
}

func TestMask_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"a", "of", "cat", "book", "apple", "school", "vocabulary", "ёжик", "a b", "well-known", "ice cream"}
	for i := 0; i < 500; i++ {
		w := words[i%len(words)]
		got := Mask(w, rng)
		wr, gr := []rune(w), []rune(got)
		if len(gr) != len(wr) {
			t.Fatalf("length changed: %q -> %q", w, got)
		}
		diff := -1
		for j := range wr {
			if wr[j] == gr[j] {
				continue
			}
			if diff != -1 {
				t.Fatalf("more than one rune changed in %q", got)
			}
			if gr[j] != Blank {
				t.Fatalf("changed rune is not a blank in %q", got)
			}
			if !unicode.IsLetter(wr[j]) {
				t.Fatalf("non-letter %q masked in %q", wr[j], got)
			}
			diff = j
		}
		if diff == -1 {
			t.Fatalf("nothing masked in %q", got)
		}
		if len(wr) > 3 {
			if diff < 1 || diff > len(wr)-2 {
				t.Fatalf("edge masked in %q", got)
			}
			if !strings.ContainsAny(w, " -") && abs(diff-len(wr)/2) > 1 {
				t.Fatalf("blank too far from the middle in %q", got)
			}
		}
	}
}

func TestMask_NilSource(t *testing.T) {
	if got := Mask("water", nil); strings.Count(got, "_") != 1 {
		t.Fatalf("expected one blank, got %q", got)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
