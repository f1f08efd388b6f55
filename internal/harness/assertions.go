package harness

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/roach88/enigma/internal/compiler"
	"github.com/roach88/enigma/internal/ir"
	"github.com/roach88/enigma/internal/store"
)

// AssertionContext provides what assertions need beyond the transcript.
type AssertionContext struct {
	Store   *store.Store
	Ctx     context.Context
	Spec    ir.MachineSpec
	Session string
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type       string            // Assertion type for categorization
	Expected   string            // Human-readable expected outcome
	Actual     string            // Human-readable actual outcome
	Transcript []TranscriptEntry // Full transcript for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Transcript) > 0 {
		fmt.Fprintf(&buf, "\nFull transcript:\n")
		for _, entry := range e.Transcript {
			fmt.Fprintf(&buf, "  [%d] %s %q -> %q (%s)\n",
				entry.Seq, entry.Op, entry.Input, entry.Output, entry.Windows)
		}
	}

	return buf.String()
}

// assertRoundTrip checks that deciphering the ciphertext of input, both on
// the scenario's machine from its initial state, gives back the uppercased input.
func assertRoundTrip(actx *AssertionContext, assertion Assertion) error {
	m, err := compiler.Build(actx.Spec)
	if err != nil {
		return err
	}

	ciphertext := m.Encipher(assertion.Input)
	got := m.Decipher(ciphertext)
	want := strings.ToUpper(assertion.Input)
	if got != want {
		return &AssertionError{
			Type:     AssertRoundTrip,
			Expected: fmt.Sprintf("decipher(encipher(%q)) = %q", assertion.Input, want),
			Actual:   fmt.Sprintf("%q (ciphertext %q)", got, ciphertext),
		}
	}
	return nil
}

// assertWindows checks the rotor windows after the last step.
func assertWindows(transcript []TranscriptEntry, assertion Assertion) error {
	got := ""
	if len(transcript) > 0 {
		got = transcript[len(transcript)-1].Windows
	}
	if got != assertion.Expect {
		return &AssertionError{
			Type:       AssertWindows,
			Expected:   fmt.Sprintf("final windows %q", assertion.Expect),
			Actual:     fmt.Sprintf("%q", got),
			Transcript: transcript,
		}
	}
	return nil
}

// assertJournalCount checks the number of journaled messages for the session.
func assertJournalCount(actx *AssertionContext, assertion Assertion) error {
	messages, err := actx.Store.ReadSession(actx.Ctx, actx.Session)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	count := 0
	for _, msg := range messages {
		if assertion.Operation == "" || string(msg.Operation) == assertion.Operation {
			count++
		}
	}

	if count != assertion.Count {
		what := "messages"
		if assertion.Operation != "" {
			what = assertion.Operation + " messages"
		}
		return &AssertionError{
			Type:     AssertJournalCount,
			Expected: fmt.Sprintf("%d %s", assertion.Count, what),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}

// assertPassthrough checks that every symbol of input outside the alphabet
// appears uppercased and in place in the ciphertext.
func assertPassthrough(actx *AssertionContext, assertion Assertion) error {
	m, err := compiler.Build(actx.Spec)
	if err != nil {
		return err
	}

	in := []rune(assertion.Input)
	out := []rune(m.Encipher(assertion.Input))
	if len(in) != len(out) {
		return &AssertionError{
			Type:     AssertPassthrough,
			Expected: fmt.Sprintf("%d symbols", len(in)),
			Actual:   fmt.Sprintf("%d symbols in %q", len(out), string(out)),
		}
	}

	for i, r := range in {
		upper := unicode.ToUpper(r)
		if m.Alphabet().Contains(upper) {
			continue
		}
		if out[i] != upper {
			return &AssertionError{
				Type:     AssertPassthrough,
				Expected: fmt.Sprintf("symbol %d to pass through as %q", i, upper),
				Actual:   fmt.Sprintf("%q in %q", out[i], string(out)),
			}
		}
	}
	return nil
}

// assertNoSelfMap checks that no symbol in the transcript enciphered to itself.
func assertNoSelfMap(actx *AssertionContext, transcript []TranscriptEntry) error {
	m, err := compiler.Build(actx.Spec)
	if err != nil {
		return err
	}
	alphabet := m.Alphabet()

	for _, entry := range transcript {
		in := []rune(entry.Input)
		out := []rune(entry.Output)
		for i := 0; i < len(in) && i < len(out); i++ {
			upper := unicode.ToUpper(in[i])
			if alphabet.Contains(upper) && out[i] == upper {
				return &AssertionError{
					Type:       AssertNoSelfMap,
					Expected:   "no symbol enciphers to itself",
					Actual:     fmt.Sprintf("seq %d: symbol %d %q mapped to itself", entry.Seq, i, upper),
					Transcript: transcript,
				}
			}
		}
	}
	return nil
}

// EvaluateAssertions runs all assertions against the result.
// Returns a list of error messages (empty if all pass).
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertRoundTrip:
			err = assertRoundTrip(actx, assertion)
		case AssertWindows:
			err = assertWindows(result.Transcript, assertion)
		case AssertJournalCount:
			err = assertJournalCount(actx, assertion)
		case AssertPassthrough:
			err = assertPassthrough(actx, assertion)
		case AssertNoSelfMap:
			err = assertNoSelfMap(actx, result.Transcript)
		default:
			err = fmt.Errorf("unknown assertion type: %s", assertion.Type)
		}

		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion %d (%s): %v", i, assertion.Type, err))
		}
	}

	return errors
}
