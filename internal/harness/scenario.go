package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/chit/internal/order"
)

// Scenario defines one order-pipeline test scenario.
// Scenarios drive the real engine through submissions and assert on the
// journal and the resulting board.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Menu is the path to a directory of CUE menu files.
	// Relative paths are resolved against the scenario file location.
	Menu string `yaml:"menu"`

	// Paused starts the engine with ordering paused, so every submission
	// is expected to be rejected as unavailable.
	Paused bool `yaml:"paused,omitempty"`

	// StartTime is the wall-clock time of the first submission, RFC 3339.
	// Defaults to 2026-01-02T09:00:00Z.
	StartTime string `yaml:"start_time,omitempty"`

	// ClockStep is the time between submissions (Go duration syntax).
	// Defaults to 1m. A zero step freezes the clock, which is how dedupe
	// scenarios land two submissions in the same second.
	ClockStep string `yaml:"clock_step,omitempty"`

	// TicketPrefix seeds the generator used for order steps without an
	// explicit ticket. Defaults to "test-ticket".
	TicketPrefix string `yaml:"ticket_prefix,omitempty"`

	// Orders contains the submissions to ingest, in order.
	Orders []OrderStep `yaml:"orders"`

	// Rebuild, when present, replays the journal after ingestion and
	// before assertions run.
	Rebuild *RebuildStep `yaml:"rebuild,omitempty"`

	// Assertions validate the final journal and board.
	// Supported types: row_count, order_count, cell, totals_cell,
	// columns, rebuild_counts.
	Assertions []Assertion `yaml:"assertions"`
}

// OrderStep is one submission in the scenario flow.
type OrderStep struct {
	// Ticket is an optional explicit submission token. When empty, the
	// scenario's deterministic generator supplies one. Reusing a ticket
	// across steps is how duplicate-submission scenarios are written.
	Ticket string `yaml:"ticket,omitempty"`

	// Customer is the contact block of the submission.
	Customer order.Customer `yaml:"customer"`

	// Items are the submitted line items.
	Items []order.LineItem `yaml:"items"`

	// Expect specifies the expected outcome. If nil, the submission must
	// be accepted as a new order.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of one submission.
type ExpectClause struct {
	// Error is the expected rejection code ("UNAVAILABLE" or
	// "BAD_SUBMISSION"). Empty means the submission must succeed.
	Error string `yaml:"error,omitempty"`

	// Deduplicated marks a submission that must be absorbed as a replay
	// of an earlier order instead of appending a new one.
	Deduplicated bool `yaml:"deduplicated,omitempty"`
}

// RebuildStep configures the optional post-ingestion rebuild.
type RebuildStep struct {
	// KeepColumns preserves the stored column schema instead of deriving
	// a fresh one from the menu.
	KeepColumns bool `yaml:"keep_columns,omitempty"`
}

// Assertion validates final journal or board state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "row_count": Check the board has exactly Count data rows
	// - "order_count": Check the journal holds exactly Count orders
	// - "cell": Check one board cell (Row, Column, Value)
	// - "totals_cell": Check one totals cell (Column, Value)
	// - "columns": Check the full column schema (Columns)
	// - "rebuild_counts": Check the rebuild report (Replayed, Skipped)
	Type string `yaml:"type"`

	// Count is the expected number of rows or orders
	// (used by row_count, order_count).
	Count int `yaml:"count,omitempty"`

	// Row is the 1-based board row number (used by cell).
	Row int `yaml:"row,omitempty"`

	// Column is the column name (used by cell, totals_cell).
	Column string `yaml:"column,omitempty"`

	// Value is the expected cell content (used by cell, totals_cell).
	// An empty value is a real expectation: blank cells are meaningful.
	Value string `yaml:"value,omitempty"`

	// Columns is the expected schema, by name, in order (used by columns).
	Columns []string `yaml:"columns,omitempty"`

	// Replayed and Skipped are the expected rebuild report counts
	// (used by rebuild_counts).
	Replayed int `yaml:"replayed,omitempty"`
	Skipped  int `yaml:"skipped,omitempty"`
}

// Assertion type constants.
const (
	AssertRowCount      = "row_count"
	AssertOrderCount    = "order_count"
	AssertCell          = "cell"
	AssertTotalsCell    = "totals_cell"
	AssertColumns       = "columns"
	AssertRebuildCounts = "rebuild_counts"
)

// Scenario clock defaults.
var defaultStartTime = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

const defaultClockStep = time.Minute

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the menu path relative to the provided base path.
// This is how scenario files reference menus with relative paths.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like
	// "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the menu path relative to base path BEFORE validation
	if scenario.Menu != "" && basePath != "" && !filepath.IsAbs(scenario.Menu) {
		scenario.Menu = filepath.Join(basePath, scenario.Menu)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// startTime resolves the scenario's clock start, applying the default.
func (s *Scenario) startTime() (time.Time, error) {
	if s.StartTime == "" {
		return defaultStartTime, nil
	}
	t, err := time.Parse(time.RFC3339, s.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_time: %w", err)
	}
	return t, nil
}

// clockStep resolves the scenario's clock step, applying the default.
func (s *Scenario) clockStep() (time.Duration, error) {
	if s.ClockStep == "" {
		return defaultClockStep, nil
	}
	d, err := time.ParseDuration(s.ClockStep)
	if err != nil {
		return 0, fmt.Errorf("invalid clock_step: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid clock_step: must not be negative")
	}
	return d, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Menu == "" {
		return fmt.Errorf("menu is required")
	}

	if len(s.Orders) == 0 {
		return fmt.Errorf("orders list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	// Validate the menu directory exists
	if _, err := os.Stat(s.Menu); os.IsNotExist(err) {
		return fmt.Errorf("menu directory not found: %s", s.Menu)
	}

	// Validate clock fields parse
	if _, err := s.startTime(); err != nil {
		return err
	}
	if _, err := s.clockStep(); err != nil {
		return err
	}

	// Validate order steps
	for i, step := range s.Orders {
		if step.Expect != nil && step.Expect.Error != "" && step.Expect.Deduplicated {
			return fmt.Errorf("orders[%d].expect: error and deduplicated are mutually exclusive", i)
		}
	}

	// Validate assertions
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
	case AssertRowCount, AssertOrderCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertCell:
		if a.Row < 1 {
			return fmt.Errorf("assertions[%d]: row must be 1 or greater for cell", index)
		}
		if a.Column == "" {
			return fmt.Errorf("assertions[%d]: column is required for cell", index)
		}
	case AssertTotalsCell:
		if a.Column == "" {
			return fmt.Errorf("assertions[%d]: column is required for totals_cell", index)
		}
	case AssertColumns:
		if len(a.Columns) == 0 {
			return fmt.Errorf("assertions[%d]: columns list is required for columns", index)
		}
	case AssertRebuildCounts:
		if a.Replayed < 0 || a.Skipped < 0 {
			return fmt.Errorf("assertions[%d]: counts must be non-negative for rebuild_counts", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
