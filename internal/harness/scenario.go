package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pulsenet/internal/compiler"
	"github.com/roach88/pulsenet/internal/ir"
)

// Scenario pairs a wiring with the results it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Wiring is inline wiring text.
	Wiring string `yaml:"wiring,omitempty"`

	// WiringFile is a path to wiring text, relative to the scenario file.
	WiringFile string `yaml:"wiring_file,omitempty"`

	// Entry overrides the module that receives the button pulse.
	Entry string `yaml:"entry,omitempty"`

	// Target is the module min_presses and first_low_press watch.
	// Defaults to "rx".
	Target string `yaml:"target,omitempty"`

	// Presses is the number of presses tallied.
	Presses int `yaml:"presses,omitempty"`

	// TracePresses is the number of presses recorded for golden comparison.
	TracePresses int `yaml:"trace_presses,omitempty"`

	// Witnesses overrides the witnesses of min_presses.
	Witnesses []string `yaml:"witnesses,omitempty"`

	// MaxPresses bounds min_presses and first_low_press.
	MaxPresses int `yaml:"max_presses,omitempty"`

	// Expect lists the expected results. Unset fields are not checked.
	Expect Expect `yaml:"expect"`
}

// Expect holds expected query results.
type Expect struct {
	Low           *int64 `yaml:"low,omitempty"`
	High          *int64 `yaml:"high,omitempty"`
	Product       *int64 `yaml:"product,omitempty"`
	MinPresses    *int64 `yaml:"min_presses,omitempty"`
	FirstLowPress *int   `yaml:"first_low_press,omitempty"`
}

// DefaultTarget is the target used when a scenario names none.
const DefaultTarget = "rx"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative wiring_file is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.WiringFile != "" && !filepath.IsAbs(scenario.WiringFile) {
		scenario.WiringFile = filepath.Join(filepath.Dir(path), scenario.WiringFile)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file under dir, sorted by path.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Wiring == "" && s.WiringFile == "":
		return fmt.Errorf("one of wiring or wiring_file is required")
	case s.Wiring != "" && s.WiringFile != "":
		return fmt.Errorf("wiring and wiring_file are mutually exclusive")
	}

	if s.Presses < 0 {
		return fmt.Errorf("presses must be >= 0, got %d", s.Presses)
	}
	if s.TracePresses < 0 {
		return fmt.Errorf("trace_presses must be >= 0, got %d", s.TracePresses)
	}
	if s.MaxPresses < 0 {
		return fmt.Errorf("max_presses must be >= 0, got %d", s.MaxPresses)
	}

	e := s.Expect
	if (e.Low != nil || e.High != nil || e.Product != nil) && s.Presses == 0 {
		return fmt.Errorf("expect.low/high/product need presses > 0")
	}
	if s.Presses == 0 && s.TracePresses == 0 && e.MinPresses == nil && e.FirstLowPress == nil {
		return fmt.Errorf("scenario checks nothing: set presses, trace_presses or a press expectation")
	}

	return nil
}

// Declarations compiles the scenario's wiring.
func (s *Scenario) Declarations() ([]ir.Declaration, error) {
	if s.WiringFile != "" {
		return compiler.CompileFile(s.WiringFile)
	}
	return compiler.CompileString(s.Wiring)
}

func (s *Scenario) target() string {
	if s.Target == "" {
		return DefaultTarget
	}
	return s.Target
}
