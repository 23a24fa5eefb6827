package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/chit/internal/order"
)

// createTestStore creates a new on-disk store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a test order record with minimal required fields.
func createTestRecord(id, ticket string, seq int64) order.OrderRecord {
	return order.OrderRecord{
		ID:          id,
		Ticket:      ticket,
		Seq:         seq,
		SubmittedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Customer: order.Customer{
			Name:     "Ada",
			Phone:    "555-0100",
			Delivery: "pickup",
			Email:    "ada@example.com",
		},
		LineItems: []order.LineItem{
			{
				Item: "breakfast sandwich",
				Instances: []order.Instance{
					{"egg", "croissant"},
					{"egg", "croissant"},
					{"no egg", "muffin"},
				},
			},
		},
		EngineVersion: "0.1.0",
		RecordVersion: "1",
	}
}
