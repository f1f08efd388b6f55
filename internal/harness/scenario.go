package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/enigma/internal/ir"
)

// Scenario defines a conformance test scenario: a machine, a sequence of
// operations with expected outputs, and assertions over the transcript.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is the path to a .cue or .yaml machine file.
	// Relative paths are resolved from the scenario file's directory.
	Config string `yaml:"config"`

	// Machine names the definition within Config. May be omitted when the
	// file defines exactly one machine.
	Machine string `yaml:"machine,omitempty"`

	// Session is an optional fixed session token for deterministic tests.
	// If empty, defaults to "test-session-default".
	Session string `yaml:"session,omitempty"`

	// Steps are the operations to perform, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the transcript and journal after all steps.
	// Supported types: round_trip, windows, journal_count, passthrough, no_self_map
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one machine operation.
type Step struct {
	// Op is encipher, decipher or reset.
	Op string `yaml:"op"`

	// Input is the text to encipher or decipher. Ignored for reset.
	Input string `yaml:"input,omitempty"`

	// Expect specifies the expected result.
	// If nil, no validation is performed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Output is the expected text. Nil means not checked.
	Output *string `yaml:"output,omitempty"`

	// Windows is the expected rotor windows after the step, fast rotor first.
	Windows string `yaml:"windows,omitempty"`
}

// Assertion validates the transcript or journal.
type Assertion struct {
	// Type specifies the assertion type:
	// - "round_trip": Input enciphered then deciphered on a fresh machine is the uppercased input
	// - "windows": Rotor windows after the last step equal Expect
	// - "journal_count": Journal holds Count messages (of Operation, if set)
	// - "passthrough": Symbols outside the alphabet in Input survive enciphering unchanged
	// - "no_self_map": No enciphered symbol in the transcript equals its input symbol
	Type string `yaml:"type"`

	// Input is the text used by round_trip and passthrough.
	Input string `yaml:"input,omitempty"`

	// Expect is the expected windows string (used by windows).
	Expect string `yaml:"expect,omitempty"`

	// Count is the expected number of messages (used by journal_count).
	Count int `yaml:"count,omitempty"`

	// Operation restricts journal_count to one operation.
	Operation string `yaml:"operation,omitempty"`
}

// Assertion type constants.
const (
	AssertRoundTrip    = "round_trip"
	AssertWindows      = "windows"
	AssertJournalCount = "journal_count"
	AssertPassthrough  = "passthrough"
	AssertNoSelfMap    = "no_self_map"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative Config path is resolved from the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Config != "" && !filepath.IsAbs(scenario.Config) {
		scenario.Config = filepath.Join(filepath.Dir(path), scenario.Config)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Config == "" {
		return fmt.Errorf("config is required")
	}
	if _, err := os.Stat(s.Config); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", s.Config)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if !ir.ValidOperations[ir.Operation(step.Op)] {
			return fmt.Errorf("steps[%d]: unknown op %q, must be encipher, decipher or reset", i, step.Op)
		}
		if step.Op == string(ir.OpReset) && step.Input != "" {
			return fmt.Errorf("steps[%d]: reset takes no input", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRoundTrip, AssertPassthrough:
		if a.Input == "" {
			return fmt.Errorf("assertions[%d]: input is required for %s", index, a.Type)
		}
	case AssertWindows:
		if a.Expect == "" {
			return fmt.Errorf("assertions[%d]: expect is required for windows", index)
		}
	case AssertJournalCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for journal_count", index)
		}
		if a.Operation != "" && !ir.ValidOperations[ir.Operation(a.Operation)] {
			return fmt.Errorf("assertions[%d]: unknown operation %q", index, a.Operation)
		}
	case AssertNoSelfMap:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
