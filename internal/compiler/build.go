package compiler

import (
	"fmt"

	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
)

// Build constructs a machine from a definition. Construction errors are
// returned as *cipher.ConfigError wrapped with the failing component.
func Build(spec ir.MachineSpec) (*cipher.Machine, error) {
	d := spec.WithDefaults()

	stepping, err := cipher.ParseStepping(d.Stepping)
	if err != nil {
		return nil, fmt.Errorf("machine %s: %w", spec.Name, err)
	}

	alphabet, err := cipher.NewAlphabet(d.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("machine %s: alphabet: %w", spec.Name, err)
	}

	reflector, err := cipher.NewReflector(alphabet, d.Reflector)
	if err != nil {
		return nil, fmt.Errorf("machine %s: reflector: %w", spec.Name, err)
	}

	rotors := make([]cipher.Rotor, len(d.Rotors))
	for i, r := range d.Rotors {
		rotors[i], err = cipher.NewRotor(alphabet, r.Wiring, int(r.Offset))
		if err != nil {
			return nil, fmt.Errorf("machine %s: rotor %d: %w", spec.Name, i, err)
		}
	}

	m, err := cipher.NewMachine(reflector, rotors, cipher.WithStepping(stepping))
	if err != nil {
		return nil, fmt.Errorf("machine %s: %w", spec.Name, err)
	}
	return m, nil
}
