package cipher

import (
	"unicode"
	"unicode/utf8"
)

// StandardSymbols is the 26-letter Latin alphabet used by default.
const StandardSymbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Alphabet is an ordered set of unique symbols. It defines the index space
// (symbol <-> position 0..n-1) shared by every component of a machine.
//
// Alphabet is immutable; copies share the same backing data.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// Standard returns the A-Z alphabet.
func Standard() Alphabet {
	a, err := NewAlphabet(StandardSymbols)
	if err != nil {
		panic(err)
	}
	return a
}

// NewAlphabet builds an alphabet from a string of unique symbols.
//
// Input is uppercased before lookup, so every symbol must already be in its
// uppercase form; otherwise it could never be reached.
func NewAlphabet(symbols string) (Alphabet, error) {
	if !utf8.ValidString(symbols) {
		return Alphabet{}, newConfigError(ErrCodeInvalidAlphabet, "alphabet is not valid UTF-8")
	}

	runes := []rune(symbols)
	if len(runes) < 2 {
		return Alphabet{}, newConfigError(ErrCodeInvalidAlphabet, "alphabet needs at least 2 symbols, got %d", len(runes))
	}

	index := make(map[rune]int, len(runes))
	for i, r := range runes {
		if unicode.ToUpper(r) != r {
			err := newConfigError(ErrCodeInvalidAlphabet, "symbol %q is not uppercase", r)
			err.Symbols = []rune{r}
			return Alphabet{}, err
		}
		if _, dup := index[r]; dup {
			err := newConfigError(ErrCodeInvalidAlphabet, "symbol %q appears more than once", r)
			err.Symbols = []rune{r}
			return Alphabet{}, err
		}
		index[r] = i
	}

	return Alphabet{symbols: runes, index: index}, nil
}

// Len returns the number of symbols.
func (a Alphabet) Len() int {
	return len(a.symbols)
}

// Symbol returns the symbol at position i.
func (a Alphabet) Symbol(i int) rune {
	return a.symbols[i]
}

// Index returns the position of r, and false if r is not in the alphabet.
func (a Alphabet) Index(r rune) (int, bool) {
	i, ok := a.index[r]
	return i, ok
}

// Contains reports whether r is in the alphabet.
func (a Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// String returns the symbols in order.
func (a Alphabet) String() string {
	return string(a.symbols)
}

// Equal reports whether both alphabets hold the same symbols in the same order.
func (a Alphabet) Equal(other Alphabet) bool {
	if len(a.symbols) != len(other.symbols) {
		return false
	}
	for i, r := range a.symbols {
		if other.symbols[i] != r {
			return false
		}
	}
	return true
}

// mod returns x modulo the alphabet length, always in [0, Len).
func (a Alphabet) mod(x int) int {
	n := len(a.symbols)
	x %= n
	if x < 0 {
		x += n
	}
	return x
}
