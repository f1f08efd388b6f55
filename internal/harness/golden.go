package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/enigma/internal/ir"
)

// TranscriptSnapshot captures the complete transcript for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TranscriptSnapshot struct {
	ScenarioName string            `json:"scenario_name"`
	Session      string            `json:"session"`
	Machine      string            `json:"machine,omitempty"`
	Transcript   []TranscriptEntry `json:"transcript"`
}

// toCanonicalMap converts a TranscriptSnapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles IR types and primitives.
func (s *TranscriptSnapshot) toCanonicalMap() map[string]any {
	entries := make([]any, len(s.Transcript))
	for i, e := range s.Transcript {
		entries[i] = map[string]any{
			"seq":     e.Seq,
			"op":      e.Op,
			"input":   e.Input,
			"output":  e.Output,
			"windows": e.Windows,
		}
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"session":       s.Session,
		"transcript":    entries,
	}
	if s.Machine != "" {
		result["machine"] = s.Machine
	}
	return result
}

// NewSnapshot captures the transcript of a scenario run.
func NewSnapshot(scenario *Scenario, result *Result) TranscriptSnapshot {
	return TranscriptSnapshot{
		ScenarioName: scenario.Name,
		Session:      result.Session,
		Machine:      scenario.Machine,
		Transcript:   result.Transcript,
	}
}

// Canonical returns the snapshot as canonical JSON, the golden file format.
func (s *TranscriptSnapshot) Canonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the transcript against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the transcript doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := assertSnapshot(t, scenario.Name, NewSnapshot(scenario, result)); err != nil {
		return nil, err
	}

	return result, nil
}

// AssertGolden compares an already-computed result against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	return assertSnapshot(t, scenarioName, TranscriptSnapshot{
		ScenarioName: scenarioName,
		Session:      result.Session,
		Transcript:   result.Transcript,
	})
}

func assertSnapshot(t *testing.T, name string, snapshot TranscriptSnapshot) error {
	t.Helper()

	data, err := snapshot.Canonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
