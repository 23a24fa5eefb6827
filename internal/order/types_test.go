package order

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemUnmarshalCurrentShape(t *testing.T) {
	data := `{"item":"breakfast sandwich","instances":[["egg","croissant"],["no egg","muffin"]]}`

	var li LineItem
	require.NoError(t, json.Unmarshal([]byte(data), &li))

	assert.Equal(t, "breakfast sandwich", li.Item)
	require.Len(t, li.Instances, 2)
	assert.Equal(t, Instance{"egg", "croissant"}, li.Instances[0])
	assert.Equal(t, Instance{"no egg", "muffin"}, li.Instances[1])
	assert.Equal(t, int64(2), li.InstanceCount())
}

func TestLineItemUnmarshalLegacyShape(t *testing.T) {
	data := `{"item":"breakfast sandwich","quantity":3,"selectedOptions":["egg","croissant"]}`

	var li LineItem
	require.NoError(t, json.Unmarshal([]byte(data), &li))

	require.Len(t, li.Instances, 3)
	for _, in := range li.Instances {
		assert.Equal(t, Instance{"egg", "croissant"}, in)
	}
}

func TestLineItemLegacyInstancesDoNotAlias(t *testing.T) {
	data := `{"item":"coffee","quantity":2,"selectedOptions":["oat milk"]}`

	var li LineItem
	require.NoError(t, json.Unmarshal([]byte(data), &li))
	require.Len(t, li.Instances, 2)

	li.Instances[0][0] = "whole milk"
	assert.Equal(t, "oat milk", li.Instances[1][0], "instances must be independent copies")
}

func TestLineItemInstancesShapeWinsOverLegacy(t *testing.T) {
	// Both shapes present: instances is authoritative.
	data := `{"item":"coffee","instances":[["oat milk"]],"quantity":5,"selectedOptions":["soy"]}`

	var li LineItem
	require.NoError(t, json.Unmarshal([]byte(data), &li))

	require.Len(t, li.Instances, 1)
	assert.Equal(t, Instance{"oat milk"}, li.Instances[0])
}

func TestLineItemUnmarshalZeroQuantity(t *testing.T) {
	data := `{"item":"coffee","quantity":0,"selectedOptions":[]}`

	var li LineItem
	require.NoError(t, json.Unmarshal([]byte(data), &li))
	assert.Equal(t, int64(0), li.InstanceCount())
}

func TestLineItemUnmarshalNegativeQuantity(t *testing.T) {
	data := `{"item":"coffee","quantity":-1}`

	var li LineItem
	err := json.Unmarshal([]byte(data), &li)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative quantity")
}

func TestLineItemUnmarshalNullSlot(t *testing.T) {
	// A null option slot decodes to the empty string: present in the
	// record, dropped at encode time.
	data := `{"item":"breakfast sandwich","instances":[["egg",null]]}`

	var li LineItem
	require.NoError(t, json.Unmarshal([]byte(data), &li))

	require.Len(t, li.Instances, 1)
	assert.Equal(t, Instance{"egg", ""}, li.Instances[0])
	assert.Equal(t, []string{"egg"}, li.Instances[0].Selected())
}

func TestLineItemUnmarshalRejectsNonStringSlot(t *testing.T) {
	data := `{"item":"breakfast sandwich","instances":[["egg",7]]}`

	var li LineItem
	err := json.Unmarshal([]byte(data), &li)
	assert.Error(t, err, "numeric option slots are a malformed payload")
}

func TestInstanceSelected(t *testing.T) {
	tests := []struct {
		name     string
		instance Instance
		expected []string
	}{
		{"nil", nil, nil},
		{"all empty", Instance{"", "  "}, nil},
		{"mixed", Instance{"egg", "", "muffin"}, []string{"egg", "muffin"}},
		{"order preserved", Instance{"b", "a"}, []string{"b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.instance.Selected())
		})
	}
}

func TestParseSubmission(t *testing.T) {
	data := []byte(`{
		"customer": {"name": "Ada", "phone": "555-0101", "delivery": "pickup", "email": "ada@example.com"},
		"items": [
			{"item": "breakfast sandwich", "instances": [["egg", "croissant"]]},
			{"item": "coffee", "quantity": 2, "selectedOptions": []}
		]
	}`)

	sub, err := ParseSubmission(data)
	require.NoError(t, err)

	assert.Equal(t, "Ada", sub.Customer.Name)
	require.Len(t, sub.Items, 2)
	assert.Equal(t, int64(1), sub.Items[0].InstanceCount())
	assert.Equal(t, int64(2), sub.Items[1].InstanceCount())
	require.NoError(t, sub.Validate())
}

func TestParseSubmissionRejectsUnknownFields(t *testing.T) {
	data := []byte(`{"customer": {"name": "Ada"}, "items": [], "extra": true}`)

	_, err := ParseSubmission(data)
	assert.Error(t, err)
}

func TestSubmissionValidate(t *testing.T) {
	valid := Submission{
		Customer: Customer{Name: "Ada"},
		Items:    []LineItem{{Item: "coffee"}},
	}

	tests := []struct {
		name    string
		mutate  func(*Submission)
		wantErr string
	}{
		{"valid", func(s *Submission) {}, ""},
		{"missing name", func(s *Submission) { s.Customer.Name = "  " }, "customer name"},
		{"no items", func(s *Submission) { s.Items = nil }, "at least one line item"},
		{"blank item name", func(s *Submission) { s.Items[0].Item = "" }, "item name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := valid
			sub.Items = append([]LineItem(nil), valid.Items...)
			tt.mutate(&sub)

			err := sub.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSubmittedAtWire(t *testing.T) {
	rec := OrderRecord{
		SubmittedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.FixedZone("PST", -8*3600)),
	}

	// UTC, second precision, RFC 3339.
	assert.Equal(t, "2026-03-14T17:26:53Z", rec.SubmittedAtWire())
}
