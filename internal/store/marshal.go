package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/chit/internal/order"
)

// marshalCustomer converts a Customer to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON so the stored bytes are deterministic and
// safe to feed back into content hashing.
func marshalCustomer(c order.Customer) (string, error) {
	data, err := order.MarshalCustomer(c)
	if err != nil {
		return "", fmt.Errorf("marshal customer: %w", err)
	}
	return string(data), nil
}

// marshalLineItems converts line items to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON for deterministic serialization.
func marshalLineItems(items []order.LineItem) (string, error) {
	data, err := order.MarshalLineItems(items)
	if err != nil {
		return "", fmt.Errorf("marshal line items: %w", err)
	}
	return string(data), nil
}

// marshalCells converts a projection row's cells to JSON TEXT.
// Cells are display strings, not canonical values, so plain encoding/json
// is enough; HTML escaping stays off so stored text matches rendered text.
func marshalCells(cells []string) (string, error) {
	if cells == nil {
		cells = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cells); err != nil {
		return "", fmt.Errorf("marshal cells: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalCustomer parses canonical JSON TEXT to a Customer.
func unmarshalCustomer(data string) (order.Customer, error) {
	var c order.Customer
	if data == "" || data == "{}" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return order.Customer{}, fmt.Errorf("unmarshal customer: %w", err)
	}
	return c, nil
}

// unmarshalLineItems parses canonical JSON TEXT to line items.
// Goes through order.LineItem.UnmarshalJSON, which also normalizes the
// legacy quantity+selectedOptions shape left by old journal entries.
func unmarshalLineItems(data string) ([]order.LineItem, error) {
	if data == "" || data == "[]" {
		return []order.LineItem{}, nil
	}
	var items []order.LineItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("unmarshal line items: %w", err)
	}
	return items, nil
}

// unmarshalCells parses JSON TEXT to a projection row's cells.
func unmarshalCells(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return []string{}, nil
	}
	var cells []string
	if err := json.Unmarshal([]byte(data), &cells); err != nil {
		return nil, fmt.Errorf("unmarshal cells: %w", err)
	}
	return cells, nil
}
