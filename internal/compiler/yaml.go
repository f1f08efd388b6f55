package compiler

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/enigma/internal/ir"
)

// yamlFile is the top-level shape of a YAML machine file.
type yamlFile struct {
	Machines map[string]ir.MachineSpec `yaml:"machines"`
}

// DecodeYAML parses machine definitions from YAML. Unknown fields are
// rejected (catches typos like "rotor:" vs "rotors:"). Results are sorted
// by name.
func DecodeYAML(data []byte) ([]ir.MachineSpec, error) {
	var file yamlFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Machines) == 0 {
		return nil, &CompileError{Field: "machines", Message: "no machine definitions found"}
	}

	specs := make([]ir.MachineSpec, 0, len(file.Machines))
	for name, spec := range file.Machines {
		spec.Name = name
		specs = append(specs, spec)
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs, nil
}
