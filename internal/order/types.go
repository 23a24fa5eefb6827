package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Customer holds the contact block of one order.
// Buddy and Comments are free-text extras that ride along in the journal
// but never become projection columns.
type Customer struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Delivery string `json:"delivery"`
	Email    string `json:"email"`
	Buddy    string `json:"buddy,omitempty"`
	Comments string `json:"comments,omitempty"`
}

// Instance is one concrete unit of an ordered item: one selected option
// string per option-group position. Empty slots mean "no selection" and
// are preserved in the record but dropped when the instance is encoded
// into tuple notation.
type Instance []string

// Selected returns the non-empty option slots in order.
func (in Instance) Selected() []string {
	var opts []string
	for _, o := range in {
		if strings.TrimSpace(o) != "" {
			opts = append(opts, o)
		}
	}
	return opts
}

// LineItem references a menu item by name and carries the ordered
// instances of it. Names that no longer resolve against the catalog are
// dropped from the projection (the journal keeps them).
type LineItem struct {
	Item      string     `json:"item"`
	Instances []Instance `json:"instances"`
}

// lineItemWire is the decode shape for a line item. It accepts both the
// current instances form and the legacy flat form:
//
//	{"item": "coffee", "instances": [["oat milk"], []]}
//	{"item": "coffee", "quantity": 2, "selectedOptions": ["oat milk"]}
//
// The legacy form means quantity instances all sharing selectedOptions.
type lineItemWire struct {
	Item            string     `json:"item"`
	Instances       []Instance `json:"instances"`
	Quantity        int64      `json:"quantity"`
	SelectedOptions Instance   `json:"selectedOptions"`
}

// UnmarshalJSON decodes a line item, normalizing the legacy
// quantity+selectedOptions shape into instances. This is the only place
// the legacy shape exists; everything past this boundary sees instances.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var w lineItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Quantity < 0 {
		return fmt.Errorf("line item %q: negative quantity %d", w.Item, w.Quantity)
	}

	li.Item = w.Item
	li.Instances = normalizeInstances(w.Instances, w.Quantity, w.SelectedOptions)
	return nil
}

// normalizeInstances converts either line item shape to the instances
// form. The instances form wins when both are present.
func normalizeInstances(instances []Instance, quantity int64, selected Instance) []Instance {
	if instances != nil {
		return instances
	}
	if quantity == 0 {
		return nil
	}
	out := make([]Instance, quantity)
	for i := range out {
		// Each instance gets its own copy so later mutation of one
		// cannot alias the others.
		out[i] = append(Instance(nil), selected...)
	}
	return out
}

// InstanceCount returns the number of instances, which feeds the item's
// count column. Instances with zero selected options still count.
func (li LineItem) InstanceCount() int64 {
	return int64(len(li.Instances))
}

// Submission is the wire shape of one incoming order, before the engine
// stamps identity, sequence, and timestamp onto it.
type Submission struct {
	Customer Customer   `json:"customer"`
	Items    []LineItem `json:"items"`
}

// ParseSubmission decodes a submission strictly: unknown top-level fields
// are rejected so malformed payloads fail at the boundary instead of
// silently losing data.
func ParseSubmission(data []byte) (Submission, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var sub Submission
	if err := dec.Decode(&sub); err != nil {
		return Submission{}, fmt.Errorf("parse submission: %w", err)
	}
	return sub, nil
}

// Validate checks the submission shape the core depends on. Option
// selections are deliberately not validated here; missing slots are
// tolerated downstream as "no selection".
func (s Submission) Validate() error {
	if strings.TrimSpace(s.Customer.Name) == "" {
		return fmt.Errorf("customer name is required")
	}
	if len(s.Items) == 0 {
		return fmt.Errorf("at least one line item is required")
	}
	for i, li := range s.Items {
		if strings.TrimSpace(li.Item) == "" {
			return fmt.Errorf("line item %d: item name is required", i)
		}
	}
	return nil
}

// OrderRecord is one journal entry. Immutable once written; the journal
// is the append-only source of truth and is never rewritten, only
// appended to.
type OrderRecord struct {
	ID            string     `json:"id"`     // Content-addressed hash
	Ticket        string     `json:"ticket"` // Submission token (UUIDv7)
	Seq           int64      `json:"seq"`    // Logical clock position
	SubmittedAt   time.Time  `json:"submitted_at"`
	Customer      Customer   `json:"customer"`
	LineItems     []LineItem `json:"line_items"`
	EngineVersion string     `json:"engine_version"`
	RecordVersion string     `json:"record_version"`
}

// SubmittedAtWire returns the timestamp in the form persisted and hashed:
// RFC 3339 in UTC, second precision. Sub-second precision is truncated at
// the ingestion boundary so the stored string and the hashed string can
// never drift apart.
func (r OrderRecord) SubmittedAtWire() string {
	return r.SubmittedAt.UTC().Truncate(time.Second).Format(time.RFC3339)
}
