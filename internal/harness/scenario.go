package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ahluxe/internal/journal"
)

// Scenario is an ordered list of storefront events plus assertions on the
// outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed is the review seed policy. Defaults to "defaults".
	Seed journal.SeedPolicy `yaml:"seed,omitempty"`

	// Flow is executed in order after the controller is created.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and state.
	// Supported types: trace_contains, trace_order, trace_count, final_state
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep is one UI event.
type FlowStep struct {
	// Event names the UI event, e.g. "cart.add". See Events.
	Event string `yaml:"event"`

	// Args are the event arguments.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect specifies the expected outcome. If nil, any outcome is accepted.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step. Exactly one of
// Outcome and Error is set.
type ExpectClause struct {
	// Outcome is the expected success outcome (e.g. "added", "placed").
	Outcome string `yaml:"outcome,omitempty"`

	// Error is the expected rejection kind (e.g. "cart_empty").
	Error string `yaml:"error,omitempty"`

	// Result is a subset match against the step's result fields.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event with the given outcome or error occurred
	// - "trace_order": events appear in order
	// - "trace_count": an event occurred exactly Count times
	// - "final_state": a state table matches Expect (subset match)
	Type string `yaml:"type"`

	// Event is the event name (trace_contains, trace_count).
	Event string `yaml:"event,omitempty"`

	// Outcome and Error narrow trace_contains to one result.
	Outcome string `yaml:"outcome,omitempty"`
	Error   string `yaml:"error,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Events is the expected event order (trace_order).
	Events []string `yaml:"events,omitempty"`

	// Table names the state table (final_state). See Tables.
	Table string `yaml:"table,omitempty"`

	// Expect contains expected field values (final_state).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// Events lists every event a scenario may use.
var Events = []string{
	"cart.add", "cart.qty", "cart.remove", "cart.clear",
	"wishlist.toggle", "wishlist.remove",
	"review.submit",
	"checkout.open", "checkout.close", "checkout.submit",
	"cancel", "contact",
}

// Tables lists the state tables final_state may query.
var Tables = []string{
	"cart", "wishlist", "orders", "reviews", "sequence", "messages", "support", "notifications",
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Seed != "" && !s.Seed.Valid() {
		return fmt.Errorf("seed must be %q or %q, got %q", journal.SeedDefaults, journal.SeedNone, s.Seed)
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if step.Event == "" {
			return fmt.Errorf("flow[%d]: event is required", i)
		}
		if !slices.Contains(Events, step.Event) {
			return fmt.Errorf("flow[%d]: unknown event %q", i, step.Event)
		}
		if e := step.Expect; e != nil {
			if (e.Outcome == "") == (e.Error == "") {
				return fmt.Errorf("flow[%d].expect: exactly one of outcome and error is required", i)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if !slices.Contains(Tables, a.Table) {
			return fmt.Errorf("assertions[%d]: unknown table %q for final_state", index, a.Table)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
