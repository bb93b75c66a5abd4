package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario describes one session's scripted life.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files use it.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Prompt is the session's origin text.
	Prompt string `yaml:"prompt"`

	// Steps are the resolutions to apply, in order.
	Steps []Step `yaml:"steps,omitempty"`

	// Validate runs an explicit validation pass after the steps.
	Validate bool `yaml:"validate,omitempty"`

	// Finalize attempts to freeze the session after the steps.
	Finalize bool `yaml:"finalize,omitempty"`

	// FinalizeError is the error code the finalize call must fail with.
	// Empty means finalize must succeed.
	FinalizeError string `yaml:"finalize_error,omitempty"`

	// Expect checks the final session, after everything above ran.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Step is one hole resolution.
type Step struct {
	// HoleIndex addresses the target hole by position in the ambiguity
	// set at the moment this step runs.
	HoleIndex int `yaml:"hole_index"`

	// Text is the resolution text; it may carry {?...?} markers.
	Text string `yaml:"text"`

	// Type is the resolution type.
	Type string `yaml:"type"`

	// Error is the code this step must fail with; empty means success.
	Error string `yaml:"error,omitempty"`
}

// Expect checks the final session state.
type Expect struct {
	State            string `yaml:"state,omitempty"`
	ValidationStatus string `yaml:"validation_status,omitempty"`
	OpenHoles        *int   `yaml:"open_holes,omitempty"`
	History          *int   `yaml:"history,omitempty"`
}

// LoadScenario reads and validates one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	for i, step := range sc.Steps {
		if step.Text == "" && step.Error == "" {
			return nil, fmt.Errorf("scenario %s: step %d has no text", sc.Name, i)
		}
		if step.Type == "" {
			return nil, fmt.Errorf("scenario %s: step %d has no resolution type", sc.Name, i)
		}
	}
	return &sc, nil
}

// ScenarioPaths lists the scenario files under dir, sorted by name.
func ScenarioPaths(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
