package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrMissingReflector  = "E101" // reflector is required
	ErrNoRotors          = "E102" // at least one rotor required
	ErrInvalidWiring     = "E103" // wiring is not a bijection over the alphabet
	ErrOffsetOutOfRange  = "E104" // offset outside 0..n-1
	ErrInvalidReflector  = "E105" // reflector is not an involution
	ErrUnknownStepping   = "E106" // stepping is not odometer or legacy
	ErrInvalidAlphabet   = "E107" // alphabet has duplicates, lowercase or < 2 symbols
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a machine definition and returns every error found
// (does not fail-fast). An empty result means Build will succeed.
func Validate(v any) []ValidationError {
	switch spec := v.(type) {
	case *ir.MachineSpec:
		return validateMachineSpec(spec)
	case ir.MachineSpec:
		return validateMachineSpec(&spec)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateMachineSpec(spec *ir.MachineSpec) []ValidationError {
	var errs []ValidationError
	d := spec.WithDefaults()

	if _, err := cipher.ParseStepping(d.Stepping); err != nil {
		errs = append(errs, ValidationError{
			Field:   "stepping",
			Message: fmt.Sprintf("unknown stepping %q, must be \"odometer\" or \"legacy\"", d.Stepping),
			Code:    ErrUnknownStepping,
		})
	}

	alphabet, err := cipher.NewAlphabet(d.Alphabet)
	if err != nil {
		// Nothing else can be checked without an alphabet.
		return append(errs, ValidationError{
			Field:   "alphabet",
			Message: configMessage(err),
			Code:    ErrInvalidAlphabet,
		})
	}

	if strings.TrimSpace(d.Reflector) == "" {
		errs = append(errs, ValidationError{
			Field:   "reflector",
			Message: "reflector is required and must be non-empty",
			Code:    ErrMissingReflector,
		})
	} else if _, err := cipher.NewReflector(alphabet, d.Reflector); err != nil {
		errs = append(errs, ValidationError{
			Field:   "reflector",
			Message: configMessage(err),
			Code:    ErrInvalidReflector,
		})
	}

	if len(d.Rotors) == 0 {
		errs = append(errs, ValidationError{
			Field:   "rotors",
			Message: "at least one rotor is required",
			Code:    ErrNoRotors,
		})
	}

	for i, r := range d.Rotors {
		_, err := cipher.NewRotor(alphabet, r.Wiring, int(r.Offset))
		if err == nil {
			continue
		}

		ve := ValidationError{Message: configMessage(err)}
		switch cipher.CodeOf(err) {
		case cipher.ErrCodeInvalidRotorOffset:
			ve.Field = fmt.Sprintf("rotors[%d].offset", i)
			ve.Code = ErrOffsetOutOfRange
		default:
			ve.Field = fmt.Sprintf("rotors[%d].wiring", i)
			ve.Code = ErrInvalidWiring
		}
		errs = append(errs, ve)

		// A bad wiring hides the offset check; report both.
		if ve.Code == ErrInvalidWiring && (r.Offset < 0 || int(r.Offset) >= alphabet.Len()) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("rotors[%d].offset", i),
				Message: fmt.Sprintf("offset %d is outside 0..%d", r.Offset, alphabet.Len()-1),
				Code:    ErrOffsetOutOfRange,
			})
		}
	}

	return errs
}

// configMessage returns the message of a cipher.ConfigError without its code prefix.
func configMessage(err error) string {
	var ce *cipher.ConfigError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
