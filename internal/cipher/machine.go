package cipher

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Machine routes keypresses through an ordered stack of rotors and a
// reflector, stepping the rotors after each alphabet symbol.
//
// A Machine is not safe for concurrent use: every enciphered symbol mutates
// rotor state. Callers needing parallelism should Clone.
type Machine struct {
	alphabet  Alphabet
	rotors    []Rotor
	reflector Reflector
	stepping  Stepping
}

// Option configures a Machine.
type Option func(*Machine)

// WithStepping selects the turnover rule. The default is SteppingOdometer.
func WithStepping(s Stepping) Option {
	return func(m *Machine) {
		m.stepping = s
	}
}

// RotorState is a snapshot of one rotor.
type RotorState struct {
	Position  int    `json:"position"`
	StepCount uint64 `json:"step_count"`
	Window    string `json:"window"`
}

// NewMachine assembles a machine. Rotors are listed in signal order (the
// first rotor is the fast one) and are copied: the machine owns its state.
//
// Every rotor must share the reflector's alphabet. The machine starts reset.
func NewMachine(reflector Reflector, rotors []Rotor, opts ...Option) (*Machine, error) {
	if len(rotors) == 0 {
		return nil, newConfigError(ErrCodeInvalidMachine, "at least one rotor is required")
	}

	alphabet := reflector.Alphabet()
	if alphabet.Len() == 0 {
		return nil, newConfigError(ErrCodeInvalidMachine, "reflector is not initialized")
	}
	for i := range rotors {
		if !rotors[i].alphabet.Equal(alphabet) {
			return nil, newConfigError(ErrCodeInvalidMachine,
				"rotor %d alphabet %q does not match reflector alphabet %q", i, rotors[i].alphabet, alphabet)
		}
	}

	m := &Machine{
		alphabet:  alphabet,
		rotors:    append([]Rotor(nil), rotors...),
		reflector: reflector,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.stepping != SteppingOdometer && m.stepping != SteppingLegacy {
		return nil, newConfigError(ErrCodeInvalidMachine, "unknown stepping %s", m.stepping)
	}
	if m.stepping == SteppingLegacy {
		for i := range m.rotors {
			m.rotors[i] = m.rotors[i].anchored()
		}
	}

	m.Reset()
	return m, nil
}

// Reset returns every rotor to its initial configuration. It is idempotent.
func (m *Machine) Reset() {
	for i := range m.rotors {
		m.rotors[i].Reset()
	}
}

// Encipher runs each character of text through the machine.
// Characters outside the alphabet are uppercased and passed through without
// stepping any rotor. Bytes that are not valid UTF-8 are copied as-is.
func (m *Machine) Encipher(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(text[0])
		} else {
			b.WriteRune(m.EncipherRune(r))
		}
		text = text[size:]
	}
	return b.String()
}

// Decipher resets the machine and enciphers text. Deciphering only inverts
// enciphering from an identical starting configuration, hence the reset.
func (m *Machine) Decipher(text string) string {
	m.Reset()
	return m.Encipher(text)
}

// EncipherRune runs a single character through the machine:
//
//  1. uppercase it; if it is not in the alphabet return it unchanged
//  2. pass its contact through each rotor left to right
//  3. reflect
//  4. pass the contact back through each rotor right to left
//  5. step the rotors
//  6. return the symbol at the final contact
func (m *Machine) EncipherRune(x rune) rune {
	x = unicode.ToUpper(x)
	contact, ok := m.alphabet.Index(x)
	if !ok {
		return x
	}

	for i := range m.rotors {
		contact = m.rotors[i].Translate(contact, true)
	}

	contact = m.reflector.mapping[contact]

	for i := len(m.rotors) - 1; i >= 0; i-- {
		contact = m.rotors[i].Translate(contact, false)
	}

	m.step()

	return m.alphabet.Symbol(contact)
}

// step advances the fast rotor and propagates turnovers.
func (m *Machine) step() {
	m.rotors[0].Step()

	n := uint64(m.alphabet.Len())
	carried := true
	for i := 1; i < len(m.rotors); i++ {
		prev := &m.rotors[i-1]
		turnFrequency := n * uint64(i)

		var counter uint64
		switch m.stepping {
		case SteppingLegacy:
			counter = uint64(prev.LastShift())
		default:
			if !carried {
				return
			}
			counter = prev.StepCount()
		}

		carried = counter%turnFrequency == 0
		if carried {
			m.rotors[i].Step()
		}
	}
}

// Positions returns a snapshot of every rotor, in signal order.
func (m *Machine) Positions() []RotorState {
	out := make([]RotorState, len(m.rotors))
	for i := range m.rotors {
		r := &m.rotors[i]
		out[i] = RotorState{
			Position:  r.Position(),
			StepCount: r.StepCount(),
			Window:    string(r.Window()),
		}
	}
	return out
}

// Windows returns the symbols facing the operator, fast rotor first.
func (m *Machine) Windows() string {
	out := make([]rune, len(m.rotors))
	for i := range m.rotors {
		out[i] = m.rotors[i].Window()
	}
	return string(out)
}

// Clone returns an independent machine with the same configuration and
// current rotor state.
func (m *Machine) Clone() *Machine {
	c := *m
	c.rotors = append([]Rotor(nil), m.rotors...)
	return &c
}

// Alphabet returns the machine's alphabet.
func (m *Machine) Alphabet() Alphabet { return m.alphabet }

// Stepping returns the turnover rule in use.
func (m *Machine) Stepping() Stepping { return m.stepping }

// RotorCount returns the number of rotors.
func (m *Machine) RotorCount() int { return len(m.rotors) }

// Rotor returns a copy of the rotor at index i.
func (m *Machine) Rotor(i int) Rotor { return m.rotors[i] }

// Reflector returns the machine's reflector.
func (m *Machine) Reflector() Reflector { return m.reflector }
