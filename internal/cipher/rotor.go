package cipher

// Rotor is a rotating permutation wheel.
//
// The wiring is fixed at construction and shared between copies; position,
// step count and last shift are per-value state. A machine holds its rotors
// by value so no two machines ever share rotor state.
//
// Rotor("BCDA...", 1) maps A->B, B->C, ... and starts turned by one, so the
// symbol 'B' faces the operator.
type Rotor struct {
	alphabet      Alphabet
	wiring        string
	forward       []int // canonical index -> canonical index
	reverse       []int
	initialOffset int

	position  int
	stepCount uint64
	lastShift int
}

// NewRotor builds a rotor from a wiring string and a starting offset.
//
// The wiring must be a permutation of the alphabet: wiring[i] is the symbol
// that alphabet[i] enciphers to. The offset must lie in 0..n-1.
// The returned rotor is in its reset state.
func NewRotor(alphabet Alphabet, wiring string, offset int) (Rotor, error) {
	n := alphabet.Len()
	if n == 0 {
		return Rotor{}, newConfigError(ErrCodeInvalidAlphabet, "rotor alphabet is empty")
	}

	runes := []rune(wiring)
	if len(runes) != n {
		return Rotor{}, newConfigError(ErrCodeInvalidRotorWiring,
			"wiring %q has %d symbols, alphabet has %d", wiring, len(runes), n)
	}

	forward := make([]int, n)
	reverse := make([]int, n)
	for i := range reverse {
		reverse[i] = -1
	}

	for i, r := range runes {
		j, ok := alphabet.Index(r)
		if !ok {
			err := newConfigError(ErrCodeInvalidRotorWiring, "wiring %q contains %q which is not in the alphabet", wiring, r)
			err.Symbols = []rune{r}
			return Rotor{}, err
		}
		if reverse[j] != -1 {
			err := newConfigError(ErrCodeInvalidRotorWiring, "wiring %q maps both %q and %q to %q",
				wiring, alphabet.Symbol(reverse[j]), alphabet.Symbol(i), r)
			err.Symbols = []rune{alphabet.Symbol(reverse[j]), alphabet.Symbol(i)}
			return Rotor{}, err
		}
		forward[i] = j
		reverse[j] = i
	}

	if offset < 0 || offset >= n {
		return Rotor{}, newConfigError(ErrCodeInvalidRotorOffset, "offset %d is outside 0..%d", offset, n-1)
	}

	r := Rotor{
		alphabet:      alphabet,
		wiring:        wiring,
		forward:       forward,
		reverse:       reverse,
		initialOffset: offset,
	}
	r.Reset()
	return r, nil
}

// anchored returns a copy of r whose wiring is read against the alphabet
// already turned by the initial offset: wiring[i] is the image of
// alphabet[i+offset] rather than alphabet[i]. Legacy machines build their
// rotors this way.
func (r Rotor) anchored() Rotor {
	n := r.alphabet.Len()
	forward := make([]int, n)
	reverse := make([]int, n)
	for i, j := range r.forward {
		k := r.alphabet.mod(i + r.initialOffset)
		forward[k] = j
		reverse[j] = k
	}
	r.forward = forward
	r.reverse = reverse
	return r
}

// Encipher returns the forward mapping of a symbol against the unrotated
// alphabet. Symbols outside the alphabet are returned unchanged.
func (r Rotor) Encipher(symbol rune) rune {
	i, ok := r.alphabet.Index(symbol)
	if !ok {
		return symbol
	}
	return r.alphabet.Symbol(r.forward[i])
}

// Decipher returns the reverse mapping of a symbol. It inverts Encipher.
func (r Rotor) Decipher(symbol rune) rune {
	i, ok := r.alphabet.Index(symbol)
	if !ok {
		return symbol
	}
	return r.alphabet.Symbol(r.reverse[i])
}

// Translate moves a signal across the rotor.
//
// contact is a position in the rotated view of the alphabet. The symbol at
// that position is enciphered (forward) or deciphered (reverse), and the
// position of the result in the same rotated view is returned.
func (r Rotor) Translate(contact int, forward bool) int {
	in := r.alphabet.mod(contact + r.position)

	var out int
	if forward {
		out = r.forward[in]
	} else {
		out = r.reverse[in]
	}

	return r.alphabet.mod(out - r.position)
}

// Rotate turns the rotor by n positions. n is taken modulo the alphabet
// length; Rotate(-1) turns the rotor n-1 positions forward.
//
// Every position turned counts as one step, and n itself is kept as the
// last shift amount.
func (r *Rotor) Rotate(n int) {
	n = r.alphabet.mod(n)
	r.position = r.alphabet.mod(r.position + n)
	r.stepCount += uint64(n)
	r.lastShift = n
}

// Step turns the rotor by a single position.
func (r *Rotor) Step() {
	r.Rotate(1)
}

// Reset restores the initial offset. The step count restarts at 1, not 0,
// so the first turnover after a reset comes one keypress early.
func (r *Rotor) Reset() {
	r.position = r.initialOffset
	r.stepCount = 1
	r.lastShift = 1
}

// Position returns the current shift of the rotated view.
func (r Rotor) Position() int { return r.position }

// StepCount returns the number of single steps since the last reset, plus one.
func (r Rotor) StepCount() uint64 { return r.stepCount }

// LastShift returns the amount of the most recent Rotate call, or 1 after a reset.
func (r Rotor) LastShift() int { return r.lastShift }

// InitialOffset returns the offset the rotor resets to.
func (r Rotor) InitialOffset() int { return r.initialOffset }

// Wiring returns the wiring string the rotor was built from.
func (r Rotor) Wiring() string { return r.wiring }

// Alphabet returns the rotor's alphabet.
func (r Rotor) Alphabet() Alphabet { return r.alphabet }

// Window returns the symbol currently facing the operator.
func (r Rotor) Window() rune {
	return r.alphabet.Symbol(r.position)
}
