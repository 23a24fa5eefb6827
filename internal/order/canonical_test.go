package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"zero", Int(0), "0"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array of strings", Array{String("a"), String("b")}, `["a","b"]`},
		{"simple object", Object{"a": Int(1)}, `{"a":1}`},
		{"plain go string", "hi", `"hi"`},
		{"plain go int", 7, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": Int(1),
		"alpha": Int(2),
		"beta":  Int(3),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 sorts after U+10000 in UTF-16 code units (the surrogate
	// pair starts at 0xD800), the opposite of UTF-8 byte order.
	obj := Object{
		"": Int(1),
		"𐀀":      Int(2),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	expected := `{"𐀀":2,"` + "" + `":1}`
	assert.Equal(t, expected, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical(String(`<a href="x">&</a>`))
	require.NoError(t, err)
	assert.Equal(t, `"<a href=\"x\">&</a>"`, string(result))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// e + combining acute (NFD) normalizes to the precomposed é (NFC).
	decomposed := String("café")
	precomposed := String("café")

	d, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	p, err := MarshalCanonical(precomposed)
	require.NoError(t, err)

	assert.Equal(t, string(p), string(d), "NFC and NFD spellings must serialize identically")
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	// U+2028 stays literal per RFC 8785; a backslash followed by the
	// text "u2028" stays escaped.
	literal, err := MarshalCanonical(String("a b"))
	require.NoError(t, err)
	assert.Equal(t, "\"a b\"", string(literal))

	textual, err := MarshalCanonical(String(`a\u2028b`))
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(textual))
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(3.14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}

func TestMarshalCanonicalDeterminism(t *testing.T) {
	obj := Object{
		"customer": Object{"name": String("Ada"), "phone": String("555")},
		"items":    Array{Object{"item": String("coffee"), "instances": Array{}}},
	}

	first, err := MarshalCanonical(obj)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		again, err := MarshalCanonical(obj)
		require.NoError(t, err)
		require.Equal(t, string(first), string(again))
	}
}

func TestMarshalCustomerIncludesEmptyFields(t *testing.T) {
	got, err := MarshalCustomer(Customer{Name: "Ada", Delivery: "pickup"})
	require.NoError(t, err)

	// Every field is present so canonical bytes never depend on which
	// optional fields happened to be set.
	assert.Equal(t,
		`{"buddy":"","comments":"","delivery":"pickup","email":"","name":"Ada","phone":""}`,
		string(got))
}

func TestMarshalLineItemsNormalizedShape(t *testing.T) {
	items := []LineItem{
		{Item: "breakfast sandwich", Instances: []Instance{{"egg", "croissant"}, {}}},
		{Item: "coffee"},
	}

	got, err := MarshalLineItems(items)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"instances":[["egg","croissant"],[]],"item":"breakfast sandwich"},{"instances":[],"item":"coffee"}]`,
		string(got))
}

func TestMarshalLineItemsRoundTrip(t *testing.T) {
	items := []LineItem{
		{Item: "breakfast sandwich", Instances: []Instance{{"egg", "croissant"}, {"no egg", "muffin"}}},
	}

	first, err := MarshalLineItems(items)
	require.NoError(t, err)

	var decoded []LineItem
	require.NoError(t, json.Unmarshal(first, &decoded))

	again, err := MarshalLineItems(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(again), "persist/load/persist must be byte-identical")
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue([]byte(`{"a": [1, "two", true], "b": {"c": 3}}`))
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	assert.Equal(t, Array{Int(1), String("two"), Bool(true)}, obj["a"])

	_, err = ParseValue([]byte(`{"x": 1.5}`))
	assert.Error(t, err, "floats rejected")

	_, err = ParseValue([]byte(`{"x": null}`))
	assert.Error(t, err, "null rejected")
}
