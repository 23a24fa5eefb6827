package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/chit/internal/order"
)

// BoardSnapshot captures the final board and submission trace of a
// scenario execution. All fields use canonical JSON serialization for
// deterministic comparison.
type BoardSnapshot struct {
	ScenarioName string         `json:"scenario_name"`
	Columns      []string       `json:"columns"`
	Rows         [][]string     `json:"rows"`
	Totals       []string       `json:"totals,omitempty"`
	Receipts     []ReceiptEvent `json:"receipts"`
}

// snapshotFromResult flattens a result into golden-comparable form.
// Column structs reduce to names and rows to their cells; order IDs are
// hashes and stay out of the snapshot to keep golden files readable.
func snapshotFromResult(scenarioName string, result *Result) BoardSnapshot {
	snapshot := BoardSnapshot{
		ScenarioName: scenarioName,
		Columns:      columnNames(result.Board),
		Rows:         make([][]string, len(result.Board.Rows)),
		Totals:       result.Board.Totals,
		Receipts:     result.Receipts,
	}
	for i, row := range result.Board.Rows {
		snapshot.Rows[i] = row.Cells
	}
	return snapshot
}

// toCanonicalMap converts a BoardSnapshot to a map[string]any for
// canonical JSON serialization. Slices convert to []any because the
// canonical marshaler handles generic containers, not concrete slice
// types.
func (s *BoardSnapshot) toCanonicalMap() map[string]any {
	columns := make([]any, len(s.Columns))
	for i, name := range s.Columns {
		columns[i] = name
	}

	rows := make([]any, len(s.Rows))
	for i, cells := range s.Rows {
		row := make([]any, len(cells))
		for j, cell := range cells {
			row[j] = cell
		}
		rows[i] = row
	}

	receipts := make([]any, len(s.Receipts))
	for i, event := range s.Receipts {
		eventMap := map[string]any{
			"ticket":  event.Ticket,
			"outcome": event.Outcome,
		}
		if event.Seq != 0 {
			eventMap["seq"] = event.Seq
		}
		if event.Error != "" {
			eventMap["error"] = event.Error
		}
		receipts[i] = eventMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"columns":       columns,
		"rows":          rows,
		"receipts":      receipts,
	}
	if s.Totals != nil {
		totals := make([]any, len(s.Totals))
		for i, cell := range s.Totals {
			totals[i] = cell
		}
		result["totals"] = totals
	}
	return result
}

// RunWithGolden executes a scenario and compares the board snapshot
// against a golden file. The golden file is stored in
// testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files serve as the source of truth for expected board output;
// byte-identical snapshots across runs are what replay determinism
// promises.
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the
// golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// SnapshotJSON renders a result's board snapshot as canonical JSON.
// These are the exact bytes golden files hold, for both the goldie
// fixtures here and the CLI test command's golden comparison.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	snapshot := snapshotFromResult(scenarioName, result)
	return order.MarshalCanonical(snapshot.toCanonicalMap())
}

// AssertGolden compares the given result's board snapshot against a
// golden file. This is useful when you've already run a scenario and
// want to compare the result without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	boardJSON, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, boardJSON)

	return nil
}
