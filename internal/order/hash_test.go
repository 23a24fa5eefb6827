package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderIDDeterminism(t *testing.T) {
	customer := Customer{Name: "Ada", Phone: "555-0101", Delivery: "pickup", Email: "ada@example.com"}
	items := []LineItem{
		{Item: "breakfast sandwich", Instances: []Instance{{"egg", "croissant"}}},
	}

	id1, err := OrderID("ticket-1", "2026-03-14T17:26:53Z", customer, items)
	require.NoError(t, err)

	id2, err := OrderID("ticket-1", "2026-03-14T17:26:53Z", customer, items)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "OrderID must be deterministic")
	assert.True(t, strings.HasPrefix(id1, "ord_"))
	assert.Len(t, id1, len("ord_")+64, "SHA-256 hex is 64 characters")
}

func TestOrderIDChangesWithInput(t *testing.T) {
	customer := Customer{Name: "Ada"}
	items := []LineItem{{Item: "coffee", Instances: []Instance{{}}}}

	id1 := MustOrderID("t-1", "2026-03-14T17:26:53Z", customer, items)
	id2 := MustOrderID("t-2", "2026-03-14T17:26:53Z", customer, items)
	id3 := MustOrderID("t-1", "2026-03-14T17:26:54Z", customer, items)
	id4 := MustOrderID("t-1", "2026-03-14T17:26:53Z", Customer{Name: "Bob"}, items)
	id5 := MustOrderID("t-1", "2026-03-14T17:26:53Z", customer,
		[]LineItem{{Item: "tea", Instances: []Instance{{}}}})

	assert.NotEqual(t, id1, id2, "ticket must affect the ID")
	assert.NotEqual(t, id1, id3, "timestamp must affect the ID")
	assert.NotEqual(t, id1, id4, "customer must affect the ID")
	assert.NotEqual(t, id1, id5, "line items must affect the ID")
}

func TestOrderIDIgnoresOptionSlotAliasing(t *testing.T) {
	// Two structurally equal line item sets hash identically no matter
	// how their backing slices were built.
	a := []LineItem{{Item: "x", Instances: []Instance{{"egg", "croissant"}}}}

	slots := append(Instance(nil), "egg", "croissant")
	b := []LineItem{{Item: "x", Instances: []Instance{slots}}}

	assert.Equal(t,
		MustOrderID("t", "2026-01-01T00:00:00Z", Customer{}, a),
		MustOrderID("t", "2026-01-01T00:00:00Z", Customer{}, b))
}

func TestHashWithDomainSeparation(t *testing.T) {
	// The null separator keeps domain/data boundaries unambiguous:
	// ("ab", "c") and ("a", "bc") must not collide.
	h1 := hashWithDomain("ab", []byte("c"))
	h2 := hashWithDomain("a", []byte("bc"))

	assert.NotEqual(t, h1, h2)
	assert.Len(t, h1, 64)
}
