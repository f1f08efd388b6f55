package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/enigma/internal/ir"
)

// LoadFile reads machine definitions from a single .cue, .yaml or .yml file.
func LoadFile(path string) ([]ir.MachineSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		v := cuecontext.New().CompileBytes(data, cue.Filename(path))
		return CompileMachines(v)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported machine file %s: want .cue, .yaml or .yml", path)
	}
}

// Select returns the definition called name. An empty name selects the only
// definition, and is an error when there are several.
func Select(specs []ir.MachineSpec, name string) (ir.MachineSpec, error) {
	if name == "" {
		if len(specs) == 1 {
			return specs[0], nil
		}
		return ir.MachineSpec{}, fmt.Errorf("%d machines defined, choose one of %s", len(specs), names(specs))
	}

	for _, spec := range specs {
		if spec.Name == name {
			return spec, nil
		}
	}
	return ir.MachineSpec{}, fmt.Errorf("machine %q not found, defined: %s", name, names(specs))
}

func names(specs []ir.MachineSpec) string {
	out := make([]string, len(specs))
	for i, spec := range specs {
		out[i] = spec.Name
	}
	return strings.Join(out, ", ")
}
