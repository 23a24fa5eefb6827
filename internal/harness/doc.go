// Package harness provides scenario testing for the chit order pipeline.
//
// The harness loads a menu, drives the real ingestion engine through a
// sequence of submissions, optionally rebuilds the projection, and checks
// assertions against the journal and the resulting board.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	menu: ../menus/cafe
//	orders:
//	  - ticket: t-0001
//	    customer: { name: Ada, phone: 555-0100, delivery: pickup, email: ada@example.com }
//	    items:
//	      - item: breakfast sandwich
//	        instances:
//	          - [egg, croissant]
//	    expect:
//	      deduplicated: false
//	rebuild:
//	  keep_columns: false
//	assertions:
//	  - type: row_count
//	    count: 1
//	  - type: cell
//	    row: 1
//	    column: breakfast sandwich - options
//	    value: "(egg, croissant)"
//
// The menu path is resolved relative to the scenario file. Tickets are
// optional; omitted tickets are generated deterministically.
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - row_count: Verifies the board has exactly N data rows
//   - order_count: Verifies the journal holds exactly N orders
//   - cell: Verifies one board cell by row number and column name
//   - totals_cell: Verifies one cell of the totals row by column name
//   - columns: Verifies the full column schema by name
//   - rebuild_counts: Verifies the rebuild report's replayed/skipped counts
//
// # Deterministic Testing
//
// Scenarios execute against the real engine with deterministic inputs so
// two runs of the same scenario produce byte-identical boards:
//
//   - Fixed tickets (from each order step, or a sequential generator)
//   - Deterministic wall clock (testutil.DeterministicClock)
//   - In-memory SQLite database (isolated per run)
//
// This makes board snapshots stable for golden file comparison.
//
// # Usage
//
// Load a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/breakfast.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Execute it:
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
