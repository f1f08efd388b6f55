package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/enigma/internal/compiler"
	"github.com/roach88/enigma/internal/engine"
	"github.com/roach88/enigma/internal/ir"
	"github.com/roach88/enigma/internal/store"
	"github.com/roach88/enigma/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and session token.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	spec   ir.MachineSpec
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Load, select and validate the machine definition
// 2. Create fresh in-memory database and engine
// 3. Execute steps, checking each expect clause
// 4. Evaluate assertions
// 5. Return result with pass/fail, transcript, and errors
//
// An error is returned only when the scenario cannot run at all; failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	specs, err := compiler.LoadFile(scenario.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}
	spec, err := compiler.Select(specs, scenario.Machine)
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}
	if verrs := compiler.Validate(spec); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return nil, fmt.Errorf("invalid machine %s: %w", spec.Name, errors.Join(errs...))
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	eng, err := engine.New(spec,
		engine.WithStore(st),
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithSessionGenerator(testutil.NewFixedSessionGenerator(scenario.Session)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build machine: %w", err)
	}

	h := &Harness{
		store:  st,
		engine: eng,
		spec:   spec,
	}

	ctx := context.Background()

	result := NewResult()
	result.Session = eng.Session()
	result.KeyID = eng.KeyID()

	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	actx := &AssertionContext{
		Store:   st,
		Ctx:     ctx,
		Spec:    spec,
		Session: eng.Session(),
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeSteps runs every step through the engine and records it.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		var msg ir.Message
		var err error

		switch ir.Operation(step.Op) {
		case ir.OpEncipher:
			msg, err = h.engine.Encipher(ctx, step.Input)
		case ir.OpDecipher:
			msg, err = h.engine.Decipher(ctx, step.Input)
		case ir.OpReset:
			msg, err = h.engine.Reset(ctx)
		default:
			err = fmt.Errorf("unknown op %q", step.Op)
		}
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		result.AddEntry(TranscriptEntry{
			Seq:     msg.Seq,
			Op:      string(msg.Operation),
			Input:   msg.Input,
			Output:  msg.Output,
			Windows: msg.Windows,
		})

		if step.Expect == nil {
			continue
		}
		if step.Expect.Output != nil && *step.Expect.Output != msg.Output {
			result.AddError(fmt.Sprintf("steps[%d] %s: output = %q, want %q",
				i, step.Op, msg.Output, *step.Expect.Output))
		}
		if step.Expect.Windows != "" && step.Expect.Windows != msg.Windows {
			result.AddError(fmt.Sprintf("steps[%d] %s: windows = %q, want %q",
				i, step.Op, msg.Windows, step.Expect.Windows))
		}
	}

	return nil
}
