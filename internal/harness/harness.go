package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/chit/internal/catalog"
	"github.com/roach88/chit/internal/engine"
	"github.com/roach88/chit/internal/order"
	"github.com/roach88/chit/internal/store"
	"github.com/roach88/chit/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible boards.
//
// Execution flow:
//  1. Create fresh in-memory database
//  2. Load and compile the CUE menu
//  3. Submit every order step, checking expect clauses
//  4. Rebuild the projection if the scenario asks for it
//  5. Snapshot the board and evaluate assertions
//
// Run returns an error only for infrastructure failures (menu does not
// compile, database unavailable). Expectation and assertion failures are
// reported through the result.
func Run(scenario *Scenario) (*Result, error) {
	// Create fresh in-memory SQLite database
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	loaded, errs := catalog.Load(scenario.Menu, catalog.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load menu %s: %w", scenario.Menu, errs[0])
	}

	start, err := scenario.startTime()
	if err != nil {
		return nil, err
	}
	step, err := scenario.clockStep()
	if err != nil {
		return nil, err
	}

	// Initialize deterministic helpers
	clock := testutil.NewDeterministicClock(start, step)
	tickets := testutil.NewFixedTicketGenerator(scenario.TicketPrefix)

	eng := engine.New(st, loaded.Catalog, engine.Config{Paused: scenario.Paused},
		engine.WithNow(clock.Now),
		engine.WithTicketGenerator(tickets),
	)

	ctx := context.Background()
	result := NewResult()

	if err := executeOrders(ctx, eng, scenario.Orders, result); err != nil {
		return nil, fmt.Errorf("failed to execute orders: %w", err)
	}

	if scenario.Rebuild != nil {
		report, err := eng.Rebuild(ctx, engine.RebuildOptions{
			KeepColumns: scenario.Rebuild.KeepColumns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to rebuild: %w", err)
		}
		result.Rebuild = &report
	}

	board, err := engine.Snapshot(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot board: %w", err)
	}
	result.Board = board

	// Evaluate assertions against the result
	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	assertionErrors := EvaluateAssertions(result, scenario.Assertions, actx)
	for _, errMsg := range assertionErrors {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeOrders submits every order step and validates expect clauses.
//
// Each step drives the real engine: acceptance, deduplication, and typed
// rejections are the engine's actual behavior, compared against what the
// scenario expects. Untyped errors abort the run.
func executeOrders(ctx context.Context, eng *engine.Engine, steps []OrderStep, result *Result) error {
	for i, step := range steps {
		sub := order.Submission{
			Customer: step.Customer,
			Items:    step.Items,
		}

		var receipt engine.Receipt
		var err error
		if step.Ticket != "" {
			receipt, err = eng.SubmitTicketed(ctx, step.Ticket, sub)
		} else {
			receipt, err = eng.Submit(ctx, sub)
		}

		expected := ExpectClause{}
		if step.Expect != nil {
			expected = *step.Expect
		}

		if err != nil {
			var rerr *engine.RuntimeError
			if !errors.As(err, &rerr) {
				// Infrastructure failure, not a typed rejection
				return fmt.Errorf("order step %d: %w", i, err)
			}

			ticket := rerr.Ticket
			if ticket == "" {
				ticket = step.Ticket
			}
			result.AddRejection(ticket, string(rerr.Code))

			if expected.Error == "" {
				result.AddError(fmt.Sprintf(
					"orders[%d]: expected acceptance, got rejection %s: %s",
					i, rerr.Code, rerr.Message))
			} else if expected.Error != string(rerr.Code) {
				result.AddError(fmt.Sprintf(
					"orders[%d]: expected rejection %s, got rejection %s",
					i, expected.Error, rerr.Code))
			}
			continue
		}

		result.AddReceipt(receipt)

		if expected.Error != "" {
			result.AddError(fmt.Sprintf(
				"orders[%d]: expected rejection %s, submission was accepted",
				i, expected.Error))
			continue
		}
		if receipt.Deduplicated != expected.Deduplicated {
			result.AddError(fmt.Sprintf(
				"orders[%d]: expected deduplicated=%t, got deduplicated=%t",
				i, expected.Deduplicated, receipt.Deduplicated))
		}
	}

	return nil
}
