package cipher

// Reflector is a fixed involutive permutation: reflecting twice returns the
// original symbol. It is immutable once built.
//
// Reflector("CDAB") maps A->C, C->A, B->D, D->B.
type Reflector struct {
	alphabet Alphabet
	mapping  []int
}

// NewReflector builds a reflector and checks the involution for every symbol.
// Any asymmetric pair is reported as ErrCodeInvalidReflectorMapping, naming
// both symbols.
func NewReflector(alphabet Alphabet, mapping string) (Reflector, error) {
	n := alphabet.Len()
	runes := []rune(mapping)
	if len(runes) != n {
		return Reflector{}, newConfigError(ErrCodeInvalidReflectorMapping,
			"mapping %q has %d symbols, alphabet has %d", mapping, len(runes), n)
	}

	m := make([]int, n)
	for i, r := range runes {
		j, ok := alphabet.Index(r)
		if !ok {
			err := newConfigError(ErrCodeInvalidReflectorMapping, "mapping %q contains %q which is not in the alphabet", mapping, r)
			err.Symbols = []rune{r}
			return Reflector{}, err
		}
		m[i] = j
	}

	for x, y := range m {
		if m[y] != x {
			a, b := alphabet.Symbol(x), alphabet.Symbol(y)
			err := newConfigError(ErrCodeInvalidReflectorMapping, "mapping for %c and %c is invalid: %c->%c but %c->%c",
				a, b, a, b, b, alphabet.Symbol(m[y]))
			err.Symbols = []rune{a, b}
			return Reflector{}, err
		}
	}

	return Reflector{alphabet: alphabet, mapping: m}, nil
}

// Reflect returns the reflection of a symbol. Symbols outside the alphabet
// are returned unchanged.
func (r Reflector) Reflect(symbol rune) rune {
	i, ok := r.alphabet.Index(symbol)
	if !ok {
		return symbol
	}
	return r.alphabet.Symbol(r.mapping[i])
}

// Alphabet returns the reflector's alphabet.
func (r Reflector) Alphabet() Alphabet { return r.alphabet }

// Mapping returns the mapping as a string in alphabet order.
func (r Reflector) Mapping() string {
	out := make([]rune, len(r.mapping))
	for i, j := range r.mapping {
		out[i] = r.alphabet.Symbol(j)
	}
	return string(out)
}
