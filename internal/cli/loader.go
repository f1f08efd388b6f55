package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/enigma/internal/compiler"
	"github.com/roach88/enigma/internal/ir"
)

// LoadResult contains the machine definitions found at a path.
type LoadResult struct {
	Machines []ir.MachineSpec // Sorted by name
	Files    []string         // Machine files that were read
}

// LoadError represents an error that occurred while loading machine files.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadMachines loads machine definitions from a .cue/.yaml/.yml file or from
// a directory.
//
// In a directory, all .cue files are loaded together as one CUE package, so
// definitions may share hidden fields across files. Each YAML file is decoded
// on its own. A machine name defined twice is an error.
//
// Every error returned is a *LoadError. Definitions are compiled but not
// validated; see compiler.Validate.
func LoadMachines(path string) (*LoadResult, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("machine path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing machine path: %v", err)}
	}

	if !info.IsDir() {
		specs, err := compiler.LoadFile(path)
		if err != nil {
			return nil, convertCompileError(err, path)
		}
		return &LoadResult{Machines: specs, Files: []string{path}}, nil
	}

	cueFiles, yamlFiles, err := FindMachineFiles(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no machine files found in %s", path)}
	}

	result := &LoadResult{}
	if len(cueFiles) > 0 {
		specs, err := loadCUEPackage(path)
		if err != nil {
			return nil, err
		}
		result.Machines = append(result.Machines, specs...)
		result.Files = append(result.Files, cueFiles...)
	}
	for _, file := range yamlFiles {
		specs, err := compiler.LoadFile(file)
		if err != nil {
			return nil, convertCompileError(err, file)
		}
		result.Machines = append(result.Machines, specs...)
		result.Files = append(result.Files, file)
	}

	sort.Slice(result.Machines, func(i, j int) bool { return result.Machines[i].Name < result.Machines[j].Name })
	for i := 1; i < len(result.Machines); i++ {
		if result.Machines[i].Name == result.Machines[i-1].Name {
			return nil, &LoadError{
				Code:    ErrCodeDuplicate,
				Message: fmt.Sprintf("machine %q is defined more than once in %s", result.Machines[i].Name, path),
			}
		}
	}

	return result, nil
}

// loadCUEPackage builds the CUE package in dir and compiles its machines.
func loadCUEPackage(dir string) ([]ir.MachineSpec, error) {
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	specs, err := compiler.CompileMachines(value)
	if err != nil {
		return nil, convertCompileError(err, dir)
	}
	return specs, nil
}

// FindMachineFiles lists the .cue and .yaml/.yml files directly inside dir.
// Subdirectories are not searched.
func FindMachineFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".cue":
			cueFiles = append(cueFiles, path)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, path)
		}
	}
	return cueFiles, yamlFiles, nil
}

// selectMachine loads path and picks the named machine from it.
func selectMachine(path, name string) (ir.MachineSpec, error) {
	result, err := LoadMachines(path)
	if err != nil {
		return ir.MachineSpec{}, err
	}
	spec, err := compiler.Select(result.Machines, name)
	if err != nil {
		return ir.MachineSpec{}, &LoadError{Code: ErrCodeNoMachine, Message: err.Error()}
	}
	return spec, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
// Validation codes (E1xx) come from the compiler package.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No machine files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeDuplicate   = "E008" // Machine name defined twice
	ErrCodeNoMachine   = "E009" // Requested machine not defined
	ErrCodeBadInput    = "E010" // Conflicting or unreadable input
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "reflector":
		return compiler.ErrMissingReflector
	case "rotors":
		return compiler.ErrNoRotors
	case "stepping":
		return compiler.ErrUnknownStepping
	case "alphabet":
		return compiler.ErrInvalidAlphabet
	case "machine", "machines":
		return ErrCodeNoMachine
	case "cue":
		return ErrCodeBuildFailed
	default:
		return ErrCodeGeneric
	}
}

// loadErrorCode returns the code of a *LoadError, or ErrCodeGeneric.
func loadErrorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}
