package cipher

import "fmt"

// Stepping selects the turnover rule applied after every keypress.
type Stepping int

const (
	// SteppingOdometer steps rotor i when the step count of rotor i-1 is a
	// multiple of n*i, evaluated as a carry: only while the previous rotor
	// moved during the same keypress.
	SteppingOdometer Stepping = iota

	// SteppingLegacy reproduces the reference machine exactly. Its turnover
	// counter is the amount of the last rotation, which is always 1, so in
	// practice only the fast rotor moves. Rotor wirings are also read
	// against the alphabet turned by each rotor's initial offset.
	SteppingLegacy
)

// String returns the configuration name of the stepping rule.
func (s Stepping) String() string {
	switch s {
	case SteppingOdometer:
		return "odometer"
	case SteppingLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Stepping(%d)", int(s))
	}
}

// ParseStepping parses a stepping rule name. The empty string selects
// SteppingOdometer.
func ParseStepping(name string) (Stepping, error) {
	switch name {
	case "", "odometer":
		return SteppingOdometer, nil
	case "legacy":
		return SteppingLegacy, nil
	default:
		return 0, newConfigError(ErrCodeInvalidMachine, "unknown stepping %q: must be odometer or legacy", name)
	}
}
