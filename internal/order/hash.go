package order

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainOrder is the domain prefix for content-addressed order identity.
// The version suffix leaves room for a future algorithm migration.
const DomainOrder = "chit/order/v1"

// idPrefix distinguishes order IDs at a glance in logs and CLI output.
const idPrefix = "ord_"

// hashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + data). The null byte prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// OrderID computes the content-addressed ID for a journal entry. The ID
// is stable across restarts and replays given the same inputs, which is
// what makes journal appends idempotent: a retried submission carrying
// the same ticket and payload maps to the same primary key and the
// duplicate insert is absorbed.
//
// Seq is deliberately EXCLUDED. Seq records when the engine accepted the
// order, not what the order is; including it would give every retry a
// fresh identity and defeat the dedupe.
func OrderID(ticket, submittedAt string, customer Customer, items []LineItem) (string, error) {
	obj := Object{
		"ticket":       String(ticket),
		"submitted_at": String(submittedAt),
		"customer":     customerValue(customer),
		"line_items":   lineItemsValue(items),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("OrderID: failed to marshal: %w", err)
	}

	return idPrefix + hashWithDomain(DomainOrder, canonical), nil
}

// MustOrderID is like OrderID but panics on error. Use only in tests or
// when inputs are known to be valid.
func MustOrderID(ticket, submittedAt string, customer Customer, items []LineItem) string {
	id, err := OrderID(ticket, submittedAt, customer, items)
	if err != nil {
		panic(err)
	}
	return id
}
