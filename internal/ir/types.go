package ir

// DefaultAlphabet is used when a machine definition names no alphabet.
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultStepping is used when a machine definition names no stepping rule.
const DefaultStepping = "odometer"

// MachineSpec is a compiled machine definition.
// Rotors are listed in signal order: the first rotor is the fast one.
type MachineSpec struct {
	Name      string      `json:"name" yaml:"-"`
	Alphabet  string      `json:"alphabet,omitempty" yaml:"alphabet,omitempty"`
	Reflector string      `json:"reflector" yaml:"reflector"`
	Rotors    []RotorSpec `json:"rotors" yaml:"rotors"`
	Stepping  string      `json:"stepping,omitempty" yaml:"stepping,omitempty"`
}

// RotorSpec is one rotor of a machine definition.
type RotorSpec struct {
	Wiring string `json:"wiring" yaml:"wiring"`
	Offset int64  `json:"offset" yaml:"offset"`
}

// WithDefaults returns a copy of the spec with the alphabet and stepping
// rule filled in.
func (s MachineSpec) WithDefaults() MachineSpec {
	out := s
	if out.Alphabet == "" {
		out.Alphabet = DefaultAlphabet
	}
	if out.Stepping == "" {
		out.Stepping = DefaultStepping
	}
	out.Rotors = append([]RotorSpec(nil), s.Rotors...)
	return out
}

// KeyObject returns the IR form of everything that determines the cipher:
// alphabet, reflector, rotors and stepping. The name is excluded so that
// identically wired machines share one key.
func (s MachineSpec) KeyObject() IRObject {
	d := s.WithDefaults()

	rotors := make(IRArray, len(d.Rotors))
	for i, r := range d.Rotors {
		rotors[i] = IRObject{
			"wiring": IRString(r.Wiring),
			"offset": IRInt(r.Offset),
		}
	}

	return IRObject{
		"alphabet":  IRString(d.Alphabet),
		"reflector": IRString(d.Reflector),
		"rotors":    rotors,
		"stepping":  IRString(d.Stepping),
	}
}

// Operation names a journaled machine operation.
type Operation string

const (
	OpEncipher Operation = "encipher"
	OpDecipher Operation = "decipher"
	OpReset    Operation = "reset"
)

// ValidOperations defines the journaled operations.
var ValidOperations = map[Operation]bool{
	OpEncipher: true,
	OpDecipher: true,
	OpReset:    true,
}

// Message is one journaled machine operation.
type Message struct {
	ID            string    `json:"id"` // Content-addressed hash
	Session       string    `json:"session"`
	KeyID         string    `json:"key_id"`
	Operation     Operation `json:"operation"`
	Input         string    `json:"input"`
	Output        string    `json:"output"`
	Seq           int64     `json:"seq"`     // Logical clock
	Windows       string    `json:"windows"` // Rotor windows after the operation, fast rotor first
	EngineVersion string    `json:"engine_version"`
	IRVersion     string    `json:"ir_version"`
}

// MachineKey pairs a key ID with the definition it was computed from.
type MachineKey struct {
	KeyID string      `json:"key_id"`
	Spec  MachineSpec `json:"spec"`
}
