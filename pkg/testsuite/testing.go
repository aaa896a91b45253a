package testsuite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rhovm/rhovm/pkg/asm"
	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/engine"
	"github.com/rhovm/rhovm/pkg/errs"
	"github.com/rhovm/rhovm/pkg/process"
	"github.com/rhovm/rhovm/pkg/rspace"
)

// scenarioFileName is the name every scenario description must carry, the
// same fixed-name convention as the teacher's "test.toml".
const scenarioFileName = "scenario.toml"

// config is the structure mirroring a scenario TOML file: an RSpace
// backend shared across every step, plus the ordered list of programs to
// run against it.
type config struct {
	RSpace string `toml:"rspace"`

	Steps []step `toml:"step"`
}

// step is one program run within a scenario: assemble Source, execute it
// as a process named SourceRef, and check the outcome.
type step struct {
	// Source is the path to a .rvasm file, relative to the scenario file's
	// own directory.
	Source string

	// SourceRef names the process for diagnostics. Defaults to Source.
	SourceRef string `toml:"source_ref"`

	// ExpectValue, if non-empty, is the expected terminal value's
	// bytecode.Value.String() rendering.
	ExpectValue string `toml:"expect_value"`

	// ExpectError, if non-empty, is a substring expected in the
	// terminating error's message. Mutually exclusive with ExpectValue.
	ExpectError string `toml:"expect_error"`
}

// ExecuteSuite runs every scenario.toml file found recursively under
// suitePath.
func ExecuteSuite(suitePath string) error {
	return walkScenarios(suitePath, runCase)
}

// walkScenarios descends into every subdirectory of root, in the same
// read-dir-then-recurse shape as the teacher's own suite walker, calling
// action on each file named scenarioFileName it finds.
func walkScenarios(root string, action func(configPath string) error) error {
	items, err := os.ReadDir(root)
	if err != nil {
		return errs.NewTool("reading directory %v: %v", root, err)
	}
	for _, item := range items {
		itemPath := filepath.Join(root, item.Name())
		if item.IsDir() {
			if err := walkScenarios(itemPath, action); err != nil {
				return err
			}
			continue
		}
		if item.Name() == scenarioFileName {
			if err := action(itemPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// runCase runs the scenario described at configPath.
func runCase(configPath string) error {
	testDir := filepath.Dir(configPath)

	cfg, err := readConfig(configPath)
	if err != nil {
		return err
	}
	canonicalizeConfig(cfg)
	if err := validateConfig(configPath, cfg); err != nil {
		return err
	}

	rs, err := newRSpace(cfg.RSpace)
	if err != nil {
		return errs.NewTool("%s: %v", configPath, err)
	}
	e := engine.New(rs)

	for _, st := range cfg.Steps {
		if err := runStep(configPath, testDir, e, st); err != nil {
			return err
		}
	}

	fmt.Printf("Scenario passed: %v.\n", testDir)
	return nil
}

func runStep(configPath, testDir string, e *engine.Engine, st step) error {
	srcPath := filepath.Join(testDir, st.Source)
	source, err := os.ReadFile(srcPath)
	if err != nil {
		return errs.NewTool("%s: reading %s: %v", configPath, st.Source, err)
	}

	module, err := asm.Assemble(string(source), st.Source)
	if err != nil {
		return err
	}

	p := process.New(module.Instructions, st.SourceRef, constantPoolAsValues(module))
	p.SetPC(module.EntryPoint)

	value, execErr := e.Execute(p)

	if st.ExpectError != "" {
		if execErr == nil {
			return errs.NewTool("%s: step %q: expected an error containing %q, got none", configPath, st.SourceRef, st.ExpectError)
		}
		if !strings.Contains(execErr.Error(), st.ExpectError) {
			return errs.NewTool("%s: step %q: expected error containing %q, got %q", configPath, st.SourceRef, st.ExpectError, execErr.Error())
		}
		return nil
	}

	if execErr != nil {
		return errs.NewTool("%s: step %q: unexpected error: %v", configPath, st.SourceRef, execErr)
	}

	if st.ExpectValue != "" && value.String() != st.ExpectValue {
		return errs.NewTool("%s: step %q: expected terminal value %q, got %q", configPath, st.SourceRef, st.ExpectValue, value.String())
	}

	return nil
}

func constantPoolAsValues(module *bytecode.Module) []bytecode.Value {
	pool := make([]bytecode.Value, len(module.Constants))
	for i, c := range module.Constants {
		pool[i] = bytecode.NewStr(c)
	}
	return pool
}

func newRSpace(kind string) (rspace.RSpace, error) {
	switch kind {
	case "sequential":
		return rspace.New(rspace.MemorySequentialType)
	case "concurrent":
		return rspace.New(rspace.MemoryConcurrentType)
	default:
		return nil, fmt.Errorf("unknown rspace backend %q", kind)
	}
}

// readConfig reads a scenario configuration from a TOML file.
func readConfig(path string) (*config, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewTool("%s: %v", path, err)
	}
	cfg := &config{}
	if err := toml.Unmarshal(source, cfg); err != nil {
		return nil, errs.NewTool("%s: %v", path, err)
	}
	return cfg, nil
}

// canonicalizeConfig fills in every field left at its zero value with its
// default, the same role the teacher's canonicalizeConfig plays for its
// test.toml schema.
func canonicalizeConfig(cfg *config) {
	if cfg.RSpace == "" {
		cfg.RSpace = "sequential"
	}
	for i, st := range cfg.Steps {
		if st.SourceRef == "" {
			st.SourceRef = st.Source
		}
		cfg.Steps[i] = st
	}
}

// validateConfig validates a canonicalized configuration.
func validateConfig(configPath string, cfg *config) error {
	if cfg.RSpace != "sequential" && cfg.RSpace != "concurrent" {
		return errs.NewTool("%s: invalid rspace backend %q; want \"sequential\" or \"concurrent\"", configPath, cfg.RSpace)
	}
	for _, st := range cfg.Steps {
		if st.Source == "" {
			return errs.NewTool("%s: step has no source file", configPath)
		}
		if st.ExpectValue != "" && st.ExpectError != "" {
			return errs.NewTool("%s: step %q: expect_value and expect_error are mutually exclusive", configPath, st.SourceRef)
		}
	}
	return nil
}
