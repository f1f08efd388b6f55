package compiler

import (
	_ "embed"
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/enigma/internal/ir"
)

//go:embed schema.cue
var schemaCUE string

// CompileError is a failure to extract a machine definition from CUE.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileMachines compiles every definition under the top-level `machine`
// field of v. Results are sorted by name. Returns an error if there is no
// `machine` field or if any definition fails to compile.
func CompileMachines(v cue.Value) ([]ir.MachineSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	machinesVal := v.LookupPath(cue.ParsePath("machine"))
	if !machinesVal.Exists() {
		return nil, &CompileError{
			Field:   "machine",
			Message: "no machine definitions found",
			Pos:     v.Pos(),
		}
	}

	iter, err := machinesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []ir.MachineSpec
	for iter.Next() {
		spec, err := CompileMachine(iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, *spec)
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs, nil
}

// CompileMachine parses a single CUE machine definition into a MachineSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value should be the definition struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`machine: army: { ... }`)
//	spec, err := CompileMachine(v.LookupPath(cue.ParsePath("machine.army")))
func CompileMachine(v cue.Value) (*ir.MachineSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.MachineSpec{}

	// Machine name comes from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	// Required fields are checked before the schema so that the error names
	// the field rather than an incomplete value.
	reflectorVal := v.LookupPath(cue.ParsePath("reflector"))
	if !reflectorVal.Exists() {
		return nil, &CompileError{
			Field:   "reflector",
			Message: "reflector is required",
			Pos:     v.Pos(),
		}
	}
	rotorsVal := v.LookupPath(cue.ParsePath("rotors"))
	if !rotorsVal.Exists() {
		return nil, &CompileError{
			Field:   "rotors",
			Message: "rotors is required",
			Pos:     v.Pos(),
		}
	}

	v, err := applySchema(v)
	if err != nil {
		return nil, err
	}

	spec.Reflector, err = v.LookupPath(cue.ParsePath("reflector")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	spec.Alphabet, err = optionalString(v, "alphabet")
	if err != nil {
		return nil, err
	}
	spec.Stepping, err = optionalString(v, "stepping")
	if err != nil {
		return nil, err
	}

	spec.Rotors, err = parseRotors(v.LookupPath(cue.ParsePath("rotors")))
	if err != nil {
		return nil, err
	}
	if len(spec.Rotors) == 0 {
		return nil, &CompileError{
			Field:   "rotors",
			Message: "at least one rotor is required",
			Pos:     v.Pos(),
		}
	}

	return spec, nil
}

// applySchema unifies v with #Machine and requires a concrete result.
func applySchema(v cue.Value) (cue.Value, error) {
	schema := v.Context().CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile machine schema: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Machine")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return unified, nil
}

// parseRotors extracts the rotor list in signal order.
func parseRotors(v cue.Value) ([]ir.RotorSpec, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rotors []ir.RotorSpec
	for iter.Next() {
		rv := iter.Value()

		wiring, err := rv.LookupPath(cue.ParsePath("wiring")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		var offset int64
		if ov := rv.LookupPath(cue.ParsePath("offset")); ov.Exists() {
			offset, err = ov.Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
		}

		rotors = append(rotors, ir.RotorSpec{Wiring: wiring, Offset: offset})
	}

	return rotors, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
