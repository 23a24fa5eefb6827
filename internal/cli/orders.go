package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/chit/internal/filter"
	"github.com/roach88/chit/internal/filtersql"
	"github.com/roach88/chit/internal/order"
	"github.com/roach88/chit/internal/store"
)

// OrdersOptions holds flags for the orders command.
type OrdersOptions struct {
	*RootOptions
	Item     string
	Delivery string
	Since    string
	Until    string
}

// OrderLine is the display shape of one line item.
type OrderLine struct {
	Item    string `json:"item"`
	Count   int64  `json:"count"`
	Options string `json:"options,omitempty"`
}

// OrderSummary is the display shape of one journal entry.
type OrderSummary struct {
	Seq         int64       `json:"seq"`
	Ticket      string      `json:"ticket"`
	OrderID     string      `json:"order_id"`
	SubmittedAt string      `json:"submitted_at"`
	Name        string      `json:"name"`
	Delivery    string      `json:"delivery,omitempty"`
	Items       []OrderLine `json:"items"`
}

// OrdersResult holds the listing output.
type OrdersResult struct {
	Orders []OrderSummary `json:"orders"`
	Total  int            `json:"total"`
}

// NewOrdersCommand creates the orders command.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrdersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List journaled orders",
		Long: `List orders from the journal in replay order.

Filters conjoin: an order must match every one given. The time window
is half-open, [since, until), both bounds RFC 3339 timestamps.

Examples:
  chit orders
  chit orders --item "breakfast sandwich"
  chit orders --delivery pickup --since 2026-01-02T00:00:00Z
  chit orders --since 2026-01-02T09:00:00Z --until 2026-01-03T09:00:00Z
  chit orders --item coffee --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrders(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Item, "item", "", "only orders containing this menu item")
	cmd.Flags().StringVar(&opts.Delivery, "delivery", "", "only orders with this delivery mode")
	cmd.Flags().StringVar(&opts.Since, "since", "", "only orders submitted at or after this RFC 3339 time")
	cmd.Flags().StringVar(&opts.Until, "until", "", "only orders submitted before this RFC 3339 time")

	return cmd
}

func runOrders(opts *OrdersOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	f, err := buildFilter(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}
	if errs := filter.Validate(f); len(errs) > 0 {
		return WrapExitError(ExitCommandError, "invalid filter", errs[0])
	}

	where, args, err := filtersql.NewSQLCompiler().Compile(f)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compile filter", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	records, err := st.ReadOrdersWhere(ctx, where, args...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read orders", err)
	}

	result := OrdersResult{
		Orders: make([]OrderSummary, 0, len(records)),
		Total:  len(records),
	}
	for _, rec := range records {
		result.Orders = append(result.Orders, summarizeOrder(rec))
	}

	if opts.Format == "json" {
		return outputOrdersJSON(cmd, result)
	}
	return outputOrdersText(cmd, result, opts.Verbose)
}

// buildFilter assembles the filter AST from the given flags. No flags
// means no filter: every order matches.
func buildFilter(opts *OrdersOptions) (filter.Filter, error) {
	var filters []filter.Filter

	if opts.Item != "" {
		filters = append(filters, filter.ItemIs{Name: opts.Item})
	}
	if opts.Delivery != "" {
		filters = append(filters, filter.DeliveryIs{Mode: opts.Delivery})
	}
	if opts.Since != "" {
		t, err := time.Parse(time.RFC3339, opts.Since)
		if err != nil {
			return nil, fmt.Errorf("--since must be RFC 3339 (e.g. 2026-01-02T09:00:00Z): %w", err)
		}
		filters = append(filters, filter.Since{Time: t})
	}
	if opts.Until != "" {
		t, err := time.Parse(time.RFC3339, opts.Until)
		if err != nil {
			return nil, fmt.Errorf("--until must be RFC 3339 (e.g. 2026-01-02T09:00:00Z): %w", err)
		}
		filters = append(filters, filter.Until{Time: t})
	}

	switch len(filters) {
	case 0:
		return nil, nil
	case 1:
		return filters[0], nil
	default:
		return filter.And{Filters: filters}, nil
	}
}

// summarizeOrder flattens a journal record for display.
func summarizeOrder(rec order.OrderRecord) OrderSummary {
	summary := OrderSummary{
		Seq:         rec.Seq,
		Ticket:      rec.Ticket,
		OrderID:     rec.ID,
		SubmittedAt: rec.SubmittedAtWire(),
		Name:        rec.Customer.Name,
		Delivery:    rec.Customer.Delivery,
		Items:       make([]OrderLine, 0, len(rec.LineItems)),
	}
	for _, li := range rec.LineItems {
		line := OrderLine{
			Item:  li.Item,
			Count: li.InstanceCount(),
		}
		if encoded := order.EncodeInstances(li.Instances); encoded != "" {
			line.Options = encoded
		}
		summary.Items = append(summary.Items, line)
	}
	return summary
}

// outputOrdersJSON outputs the listing as JSON.
func outputOrdersJSON(cmd *cobra.Command, result OrdersResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputOrdersText outputs the listing as text.
func outputOrdersText(cmd *cobra.Command, result OrdersResult, verbose bool) error {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No orders match.")
		return nil
	}

	for _, o := range result.Orders {
		fmt.Fprintf(w, "[%d] %s  %s  %s", o.Seq, o.SubmittedAt, o.Name, formatOrderItems(o.Items))
		if o.Delivery != "" {
			fmt.Fprintf(w, "  (%s)", o.Delivery)
		}
		fmt.Fprintln(w)

		if verbose {
			fmt.Fprintf(w, "    Ticket: %s\n", o.Ticket)
			fmt.Fprintf(w, "    Order:  %s\n", truncateID(o.OrderID))
			for _, line := range o.Items {
				if line.Options != "" {
					fmt.Fprintf(w, "    %s: %s\n", line.Item, line.Options)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%d order(s)\n", result.Total)
	return nil
}

// formatOrderItems renders line items as "item x2, other".
func formatOrderItems(items []OrderLine) string {
	parts := make([]string, 0, len(items))
	for _, line := range items {
		if line.Count == 1 {
			parts = append(parts, line.Item)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s x%d", line.Item, line.Count))
	}
	return strings.Join(parts, ", ")
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
