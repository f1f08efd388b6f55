package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/enigma/internal/ir"
)

// marshalSpec converts a machine definition to canonical JSON TEXT for storage.
// Only the key object is stored; the name lives in its own column.
func marshalSpec(spec ir.MachineSpec) (string, error) {
	data, err := ir.MarshalCanonical(spec.KeyObject())
	if err != nil {
		return "", fmt.Errorf("marshal spec: %w", err)
	}
	return string(data), nil
}

// unmarshalSpec parses canonical JSON TEXT back into a machine definition.
func unmarshalSpec(name, data string) (ir.MachineSpec, error) {
	var spec ir.MachineSpec
	if err := json.Unmarshal([]byte(data), &spec); err != nil {
		return ir.MachineSpec{}, fmt.Errorf("unmarshal spec: %w", err)
	}
	spec.Name = name
	return spec, nil
}
