package harness

import "github.com/roach88/chit/internal/engine"

// Submission outcome labels used in receipt events.
const (
	OutcomeAccepted     = "accepted"
	OutcomeDeduplicated = "deduplicated"
	OutcomeRejected     = "rejected"
)

// ReceiptEvent records the outcome of one submission in the scenario
// flow. This is the trace used in failure messages and golden snapshots.
type ReceiptEvent struct {
	Ticket  string `json:"ticket"`
	Outcome string `json:"outcome"` // accepted | deduplicated | rejected
	Seq     int64  `json:"seq,omitempty"`
	OrderID string `json:"order_id,omitempty"`
	Error   string `json:"error,omitempty"` // rejection code when rejected
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Receipts contains one event per submission, in flow order.
	Receipts []ReceiptEvent `json:"receipts"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Board is the final projection snapshot.
	Board engine.Board `json:"board"`

	// Rebuild is the replay report when the scenario ran a rebuild.
	Rebuild *engine.RebuildReport `json:"rebuild,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Receipts: []ReceiptEvent{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddReceipt records the outcome of an accepted or absorbed submission.
func (r *Result) AddReceipt(rec engine.Receipt) {
	outcome := OutcomeAccepted
	if rec.Deduplicated {
		outcome = OutcomeDeduplicated
	}
	r.Receipts = append(r.Receipts, ReceiptEvent{
		Ticket:  rec.Ticket,
		Outcome: outcome,
		Seq:     rec.Seq,
		OrderID: rec.OrderID,
	})
}

// AddRejection records a rejected submission.
func (r *Result) AddRejection(ticket, code string) {
	r.Receipts = append(r.Receipts, ReceiptEvent{
		Ticket:  ticket,
		Outcome: OutcomeRejected,
		Error:   code,
	})
}
