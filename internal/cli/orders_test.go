package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/chit/internal/filter"
)

// seedJournal submits the standard coffee and sandwich orders and
// returns the database path.
func seedJournal(t *testing.T) string {
	t.Helper()
	db := tempDB(t)
	menuDir := writeCafeMenu(t)
	seedOrder(t, db, menuDir, writeOrderFile(t, coffeeOrderJSON))
	seedOrder(t, db, menuDir, writeOrderFile(t, sandwichOrderJSON))
	return db
}

func TestOrdersCommand_ListsAll(t *testing.T) {
	db := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: db}
	cmd := NewOrdersCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "[1]")
	assert.Contains(t, output, "[2]")
	assert.Contains(t, output, "Ada")
	assert.Contains(t, output, "Grace")
	assert.Contains(t, output, "coffee")
	assert.Contains(t, output, "breakfast sandwich")
	assert.Contains(t, output, "(pickup)")
	assert.Contains(t, output, "(delivery)")
	assert.Contains(t, output, "2 order(s)")
}

func TestOrdersCommand_FilterByItem(t *testing.T) {
	db := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: db}
	cmd := NewOrdersCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--item", "coffee"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Ada")
	assert.NotContains(t, output, "Grace")
	assert.Contains(t, output, "1 order(s)")
}

func TestOrdersCommand_FilterByDelivery(t *testing.T) {
	db := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: db}
	cmd := NewOrdersCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--delivery", "delivery"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Grace")
	assert.NotContains(t, output, "Ada")
}

func TestOrdersCommand_TimeWindow(t *testing.T) {
	db := seedJournal(t)
	rootOpts := &RootOptions{Format: "text", Database: db}

	// A window opening in the past matches everything
	buf := &bytes.Buffer{}
	cmd := NewOrdersCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--since", "2000-01-01T00:00:00Z"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "2 order(s)")

	// A window closing in the past matches nothing
	buf.Reset()
	cmd = NewOrdersCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--until", "2000-01-01T00:00:00Z"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No orders match.")
}

func TestOrdersCommand_FiltersConjoin(t *testing.T) {
	db := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: db}
	cmd := NewOrdersCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--item", "coffee", "--delivery", "delivery"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No orders match.")
}

func TestOrdersCommand_BadTimestamp(t *testing.T) {
	rootOpts := &RootOptions{Format: "text", Database: tempDB(t)}
	cmd := NewOrdersCommand(rootOpts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--since", "yesterday"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "RFC 3339")
}

func TestOrdersCommand_JSON(t *testing.T) {
	db := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json", Database: db}
	cmd := NewOrdersCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   OrdersResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	require.Len(t, resp.Data.Orders, 2)

	first := resp.Data.Orders[0]
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, "Ada", first.Name)
	assert.Equal(t, "pickup", first.Delivery)
	assert.NotEmpty(t, first.Ticket)
	assert.True(t, strings.HasPrefix(first.OrderID, "ord_"))
	require.Len(t, first.Items, 1)
	assert.Equal(t, "coffee", first.Items[0].Item)
	assert.Equal(t, int64(1), first.Items[0].Count)

	// Stamped timestamps come back in wire form
	_, err = time.Parse(time.RFC3339, first.SubmittedAt)
	assert.NoError(t, err)

	second := resp.Data.Orders[1]
	require.Len(t, second.Items, 1)
	assert.Equal(t, "(egg, croissant)", second.Items[0].Options)
}

func TestOrdersCommand_Verbose(t *testing.T) {
	db := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: db, Verbose: true}
	cmd := NewOrdersCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Ticket: ")
	assert.Contains(t, output, "Order:  ord_")
	assert.Contains(t, output, "breakfast sandwich: (egg, croissant)")
}

func TestOrdersCommand_EmptyDatabase(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: tempDB(t)}
	cmd := NewOrdersCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No orders match.")
}

func TestBuildFilter(t *testing.T) {
	f, err := buildFilter(&OrdersOptions{RootOptions: &RootOptions{}})
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = buildFilter(&OrdersOptions{RootOptions: &RootOptions{}, Item: "coffee"})
	require.NoError(t, err)
	assert.Equal(t, filter.ItemIs{Name: "coffee"}, f)

	f, err = buildFilter(&OrdersOptions{
		RootOptions: &RootOptions{},
		Item:        "coffee",
		Delivery:    "pickup",
		Since:       "2026-01-02T00:00:00Z",
		Until:       "2026-01-03T00:00:00Z",
	})
	require.NoError(t, err)
	and, ok := f.(filter.And)
	require.True(t, ok)
	assert.Len(t, and.Filters, 4)

	_, err = buildFilter(&OrdersOptions{RootOptions: &RootOptions{}, Until: "not-a-time"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--until")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "short-id", truncateID("short-id"))
	assert.Equal(t, "exactly-16-chars", truncateID("exactly-16-chars"))

	long := "ord_" + strings.Repeat("a", 64)
	truncated := truncateID(long)
	assert.Equal(t, "ord_aaaa...aaaaaaaa", truncated)
	assert.Len(t, truncated, 19)
}

func TestFormatOrderItems(t *testing.T) {
	items := []OrderLine{
		{Item: "coffee", Count: 1},
		{Item: "breakfast sandwich", Count: 3},
	}
	assert.Equal(t, "coffee, breakfast sandwich x3", formatOrderItems(items))
	assert.Equal(t, "", formatOrderItems(nil))
}
