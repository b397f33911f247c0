package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/animator/internal/animator"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
//
// Validation runs in three passes: strict YAML decoding (unknown fields are
// rejected), the embedded CUE schema (shape and enumerations), then
// cross-references between components, steps and assertions.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by path.
func LoadScenarios(dir string) ([]*Scenario, []string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, paths, nil
}

// validateScenario checks cross-references the schema cannot express.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Components))
	for i, c := range s.Components {
		if c.Name == "" {
			return fmt.Errorf("components[%d]: name is required", i)
		}
		if names[c.Name] {
			return fmt.Errorf("components[%d]: duplicate component %q", i, c.Name)
		}
		names[c.Name] = true
		if _, err := parseCapabilities(c.Capabilities); err != nil {
			return fmt.Errorf("components[%d]: %w", i, err)
		}
	}

	for i, c := range s.Components {
		for j, b := range c.Behaviors {
			if err := validateBehavior(b, names); err != nil {
				return fmt.Errorf("components[%d].behaviors[%d]: %w", i, j, err)
			}
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(step, names); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a, names); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateBehavior(b Behavior, names map[string]bool) error {
	if _, err := animator.ParsePhase(b.On); err != nil {
		return err
	}
	if b.Target != "" && !names[b.Target] {
		return fmt.Errorf("unknown target %q", b.Target)
	}
	switch b.Action {
	case BehaviorRequest, BehaviorCancel:
		if _, err := animator.ParsePhase(b.Phase); err != nil {
			return fmt.Errorf("%s: %w", b.Action, err)
		}
	case BehaviorFail, BehaviorDestroy, BehaviorRegister:
	default:
		return fmt.Errorf("unknown action %q", b.Action)
	}
	return nil
}

func validateStep(step Step, names map[string]bool) error {
	switch step.Action {
	case StepRequest, StepCancel:
		if _, err := animator.ParsePhase(step.Phase); err != nil {
			return fmt.Errorf("%s: %w", step.Action, err)
		}
		fallthrough
	case StepDestroy, StepRegister:
		if !names[step.Component] {
			return fmt.Errorf("%s: unknown component %q", step.Action, step.Component)
		}
	case StepFrame:
		if step.Count < 0 {
			return fmt.Errorf("frame: count must be non-negative")
		}
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}

	switch step.ExpectError {
	case "", ErrorCapability, ErrorDetached, ErrorComponent, ErrorRegistration:
		return nil
	default:
		return fmt.Errorf("unknown expect_error %q", step.ExpectError)
	}
}

func validateAssertion(a Assertion, names map[string]bool) error {
	switch a.Type {
	case AssertTraceOrder:
		if len(a.Events) < 2 {
			return fmt.Errorf("trace_order needs at least two events")
		}
	case AssertTraceCount, AssertTraceAbsent:
		if a.Event == "" {
			return fmt.Errorf("%s needs an event", a.Type)
		}
	case AssertPending:
		if !names[a.Component] {
			return fmt.Errorf("pending: unknown component %q", a.Component)
		}
		if _, err := animator.ParsePhase(a.Phase); err != nil {
			return fmt.Errorf("pending: %w", err)
		}
		if a.Expect == nil {
			return fmt.Errorf("pending needs expect")
		}
	case AssertArmed:
		if a.Expect == nil {
			return fmt.Errorf("armed needs expect")
		}
	case AssertDeferred:
		if a.Component != "" && !names[a.Component] {
			return fmt.Errorf("deferred: unknown component %q", a.Component)
		}
	case AssertSchedules, AssertFrames, AssertRegistry:
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// parseCapabilities converts phase names to a capability mask.
func parseCapabilities(phases []string) (animator.Capabilities, error) {
	var caps animator.Capabilities
	for _, name := range phases {
		p, err := animator.ParsePhase(name)
		if err != nil {
			return 0, err
		}
		caps = caps.With(p)
	}
	return caps, nil
}
