package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/roach88/chit/internal/order"
)

func TestReadAllOrders_Empty(t *testing.T) {
	s := createTestStore(t)

	records, err := s.ReadAllOrders(context.Background())
	if err != nil {
		t.Fatalf("ReadAllOrders() failed: %v", err)
	}
	if records == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(records) != 0 {
		t.Errorf("len = %d, want 0", len(records))
	}
}

func TestReadAllOrders_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	rec := createTestRecord("ord_abc", "ticket-1", 1)

	if _, err := s.AppendOrder(ctx, rec); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}

	records, err := s.ReadAllOrders(ctx)
	if err != nil {
		t.Fatalf("ReadAllOrders() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}

	got := records[0]
	if got.ID != rec.ID {
		t.Errorf("ID = %q, want %q", got.ID, rec.ID)
	}
	if got.Ticket != rec.Ticket {
		t.Errorf("Ticket = %q, want %q", got.Ticket, rec.Ticket)
	}
	if got.Seq != rec.Seq {
		t.Errorf("Seq = %d, want %d", got.Seq, rec.Seq)
	}
	if !got.SubmittedAt.Equal(rec.SubmittedAt) {
		t.Errorf("SubmittedAt = %v, want %v", got.SubmittedAt, rec.SubmittedAt)
	}
	if got.Customer != rec.Customer {
		t.Errorf("Customer = %+v, want %+v", got.Customer, rec.Customer)
	}
	if len(got.LineItems) != 1 {
		t.Fatalf("LineItems len = %d, want 1", len(got.LineItems))
	}
	if got.LineItems[0].Item != "breakfast sandwich" {
		t.Errorf("item = %q, want %q", got.LineItems[0].Item, "breakfast sandwich")
	}
	if got.LineItems[0].InstanceCount() != 3 {
		t.Errorf("instance count = %d, want 3", got.LineItems[0].InstanceCount())
	}
	if got.EngineVersion != rec.EngineVersion {
		t.Errorf("EngineVersion = %q, want %q", got.EngineVersion, rec.EngineVersion)
	}
	if got.RecordVersion != rec.RecordVersion {
		t.Errorf("RecordVersion = %q, want %q", got.RecordVersion, rec.RecordVersion)
	}
}

func TestReadAllOrders_DeterministicOrdering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Insert out of seq order - reads must come back seq-sorted
	for _, seq := range []int64{3, 1, 2} {
		rec := createTestRecord("ord_"+string(rune('a'+seq)), "ticket", seq)
		if _, err := s.AppendOrder(ctx, rec); err != nil {
			t.Fatalf("AppendOrder() seq %d failed: %v", seq, err)
		}
	}

	records, err := s.ReadAllOrders(ctx)
	if err != nil {
		t.Fatalf("ReadAllOrders() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}

	for i, want := range []int64{1, 2, 3} {
		if records[i].Seq != want {
			t.Errorf("records[%d].Seq = %d, want %d", i, records[i].Seq, want)
		}
	}
}

func TestReadAllOrders_LegacyLineItems(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// An old journal entry with the legacy quantity+selectedOptions shape,
	// inserted raw the way a previous version would have written it.
	_, err := s.db.Exec(`
		INSERT INTO orders
		(id, ticket, seq, submitted_at, customer, line_items, engine_version, record_version)
		VALUES ('ord_old', 'ticket-0', 1, '2025-11-02T08:00:00Z',
			'{"buddy":"","comments":"","delivery":"pickup","email":"","name":"Grace","phone":""}',
			'[{"item":"breakfast sandwich","quantity":2,"selectedOptions":["egg","croissant"]}]',
			'0.0.9', '1')
	`)
	if err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	records, err := s.ReadAllOrders(ctx)
	if err != nil {
		t.Fatalf("ReadAllOrders() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}

	items := records[0].LineItems
	if len(items) != 1 {
		t.Fatalf("LineItems len = %d, want 1", len(items))
	}
	if items[0].InstanceCount() != 2 {
		t.Errorf("instance count = %d, want 2 (expanded from quantity)", items[0].InstanceCount())
	}
	for i, inst := range items[0].Instances {
		if len(inst) != 2 || inst[0] != "egg" || inst[1] != "croissant" {
			t.Errorf("instance %d = %v, want [egg croissant]", i, inst)
		}
	}
}

func TestReadOrder_Exists(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	rec := createTestRecord("ord_abc", "ticket-1", 1)

	if _, err := s.AppendOrder(ctx, rec); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}

	got, err := s.ReadOrder(ctx, "ord_abc")
	if err != nil {
		t.Fatalf("ReadOrder() failed: %v", err)
	}
	if got.ID != "ord_abc" {
		t.Errorf("ID = %q, want %q", got.ID, "ord_abc")
	}
	if got.Customer.Name != "Ada" {
		t.Errorf("customer name = %q, want %q", got.Customer.Name, "Ada")
	}
}

func TestReadOrder_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadOrder(context.Background(), "ord_missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestReadOrdersWhere_EmptyClause(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 2; i++ {
		rec := createTestRecord("ord_"+string(rune('a'+i)), "ticket", i)
		if _, err := s.AppendOrder(ctx, rec); err != nil {
			t.Fatalf("AppendOrder() failed: %v", err)
		}
	}

	records, err := s.ReadOrdersWhere(ctx, "")
	if err != nil {
		t.Fatalf("ReadOrdersWhere() failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len = %d, want 2 (empty clause matches all)", len(records))
	}
}

func TestReadOrdersWhere_ItemFilter(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	sandwich := createTestRecord("ord_aaa", "ticket-1", 1)
	if _, err := s.AppendOrder(ctx, sandwich); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}

	coffee := createTestRecord("ord_bbb", "ticket-2", 2)
	coffee.LineItems = []order.LineItem{{Item: "coffee", Instances: []order.Instance{{}}}}
	if _, err := s.AppendOrder(ctx, coffee); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}

	records, err := s.ReadOrdersWhere(ctx, `
		EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.item_name = ?)
	`, "coffee")
	if err != nil {
		t.Fatalf("ReadOrdersWhere() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	if records[0].ID != "ord_bbb" {
		t.Errorf("ID = %q, want ord_bbb", records[0].ID)
	}
}

func TestReadOrdersWhere_NoMatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestRecord("ord_abc", "ticket-1", 1)
	if _, err := s.AppendOrder(ctx, rec); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}

	records, err := s.ReadOrdersWhere(ctx, "o.seq > ?", 99)
	if err != nil {
		t.Fatalf("ReadOrdersWhere() failed: %v", err)
	}
	if records == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(records) != 0 {
		t.Errorf("len = %d, want 0", len(records))
	}
}

func TestGetLastSeq_Empty(t *testing.T) {
	s := createTestStore(t)

	seq, err := s.GetLastSeq(context.Background())
	if err != nil {
		t.Fatalf("GetLastSeq() failed: %v", err)
	}
	if seq != 0 {
		t.Errorf("seq = %d, want 0 for empty journal", seq)
	}
}

func TestGetLastSeq_Populated(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, seq := range []int64{1, 5, 3} {
		rec := createTestRecord("ord_"+string(rune('a'+seq)), "ticket", seq)
		if _, err := s.AppendOrder(ctx, rec); err != nil {
			t.Fatalf("AppendOrder() failed: %v", err)
		}
	}

	seq, err := s.GetLastSeq(ctx)
	if err != nil {
		t.Fatalf("GetLastSeq() failed: %v", err)
	}
	if seq != 5 {
		t.Errorf("seq = %d, want 5", seq)
	}
}

func TestCountOrders(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	count, err := s.CountOrders(ctx)
	if err != nil {
		t.Fatalf("CountOrders() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	rec := createTestRecord("ord_abc", "ticket-1", 1)
	if _, err := s.AppendOrder(ctx, rec); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}

	count, err = s.CountOrders(ctx)
	if err != nil {
		t.Fatalf("CountOrders() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestListItemNames(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	names, err := s.ListItemNames(ctx)
	if err != nil {
		t.Fatalf("ListItemNames() failed: %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Errorf("names = %v, want empty slice", names)
	}

	rec := createTestRecord("ord_abc", "ticket-1", 1)
	rec.LineItems = append(rec.LineItems, order.LineItem{Item: "coffee", Instances: []order.Instance{{}}})
	if _, err := s.AppendOrder(ctx, rec); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}

	names, err = s.ListItemNames(ctx)
	if err != nil {
		t.Fatalf("ListItemNames() failed: %v", err)
	}
	want := []string{"breakfast sandwich", "coffee"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestReadAllOrders_TimestampPrecision(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestRecord("ord_abc", "ticket-1", 1)
	// Sub-second precision is truncated at the write boundary
	rec.SubmittedAt = time.Date(2026, 3, 14, 9, 26, 53, 999999999, time.UTC)

	if _, err := s.AppendOrder(ctx, rec); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}

	records, err := s.ReadAllOrders(ctx)
	if err != nil {
		t.Fatalf("ReadAllOrders() failed: %v", err)
	}
	want := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if !records[0].SubmittedAt.Equal(want) {
		t.Errorf("SubmittedAt = %v, want %v", records[0].SubmittedAt, want)
	}
}

func TestReadAllEntries_RawPayloads(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestRecord("ord_abc", "ticket-1", 1)
	if _, err := s.AppendOrder(ctx, rec); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}

	entries, err := s.ReadAllEntries(ctx)
	if err != nil {
		t.Fatalf("ReadAllEntries() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.ID != "ord_abc" || e.Ticket != "ticket-1" || e.Seq != 1 {
		t.Errorf("entry = %+v", e)
	}
	if e.SubmittedAt != "2026-03-14T09:26:53Z" {
		t.Errorf("SubmittedAt = %q, want wire form", e.SubmittedAt)
	}

	decoded, err := e.Decode()
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if decoded.Customer.Name != rec.Customer.Name {
		t.Errorf("Customer.Name = %q, want %q", decoded.Customer.Name, rec.Customer.Name)
	}
	if len(decoded.LineItems) != len(rec.LineItems) {
		t.Errorf("LineItems len = %d, want %d", len(decoded.LineItems), len(rec.LineItems))
	}
}

func TestReadAllEntries_SurvivesCorruptPayload(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.AppendOrder(ctx, createTestRecord("ord_aaa", "ticket-1", 1)); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}
	if _, err := s.AppendOrder(ctx, createTestRecord("ord_bbb", "ticket-2", 2)); err != nil {
		t.Fatalf("AppendOrder() failed: %v", err)
	}

	// Corrupt one payload. ReadAllOrders would fail on it; the raw read
	// must not.
	if _, err := s.DB().ExecContext(ctx,
		`UPDATE orders SET line_items = 'not json' WHERE id = 'ord_aaa'`); err != nil {
		t.Fatalf("UPDATE failed: %v", err)
	}

	entries, err := s.ReadAllEntries(ctx)
	if err != nil {
		t.Fatalf("ReadAllEntries() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}

	if _, err := entries[0].Decode(); err == nil {
		t.Error("Decode() of corrupt entry should fail")
	}
	if _, err := entries[1].Decode(); err != nil {
		t.Errorf("Decode() of intact entry failed: %v", err)
	}
}

func TestReadAllEntries_Empty(t *testing.T) {
	s := createTestStore(t)

	entries, err := s.ReadAllEntries(context.Background())
	if err != nil {
		t.Fatalf("ReadAllEntries() failed: %v", err)
	}
	if entries == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(entries) != 0 {
		t.Errorf("len = %d, want 0", len(entries))
	}
}
