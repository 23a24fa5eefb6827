package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/chit/internal/engine"
	"github.com/roach88/chit/internal/projection"
	"github.com/roach88/chit/internal/store"
)

// boardFormats widens the global formats with CSV, which only makes
// sense for tabular board output.
var boardFormats = []string{"text", "json", "csv"}

// BoardOptions holds flags for the board command.
type BoardOptions struct {
	*RootOptions
	Shorthand bool
}

// BoardData is the output shape of the rendered board.
type BoardData struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Totals  []string   `json:"totals,omitempty"`
}

// NewBoardCommand creates the board command.
func NewBoardCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoardOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Render the kitchen board",
		Long: `Render the current projection: one row per order, a column per
customer field plus count and options columns per menu item, and a
totals row.

The board reads what ingestion and rebuilds have materialized; it does
not replay the journal itself.

Examples:
  chit board
  chit board --format csv > board.csv
  chit board --shorthand
  chit board --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Accepts "csv" on top of the global formats
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd, boardFormats)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Shorthand, "shorthand", false, "kitchen shorthand in the totals options cells")

	return cmd
}

func runBoard(opts *BoardOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	board, err := engine.Snapshot(ctx, st)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read board", err)
	}

	data := buildBoardData(board, opts.Shorthand)

	switch opts.Format {
	case "json":
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(data)
	case "csv":
		return outputBoardCSV(cmd, data)
	default:
		return outputBoardText(cmd, data)
	}
}

// buildBoardData flattens the board for rendering. Rows materialized
// under an older schema can be shorter than the column list; they are
// padded so every output row has one cell per column.
func buildBoardData(board engine.Board, shorthand bool) BoardData {
	data := BoardData{
		Columns: make([]string, len(board.Columns)),
		Rows:    make([][]string, len(board.Rows)),
	}
	for i, col := range board.Columns {
		data.Columns[i] = col.Name
	}
	for i, row := range board.Rows {
		data.Rows[i] = padCells(row.Cells, len(board.Columns))
	}
	if board.Totals != nil {
		data.Totals = padCells(board.Totals, len(board.Columns))
		if shorthand {
			for i, col := range board.Columns {
				if col.Kind == projection.KindOptions && data.Totals[i] != "" {
					data.Totals[i] = projection.Shorten(data.Totals[i])
				}
			}
		}
	}
	return data
}

// padCells extends cells with blanks up to width.
func padCells(cells []string, width int) []string {
	padded := make([]string, width)
	copy(padded, cells)
	return padded
}

// outputBoardText renders the board as an aligned text table.
func outputBoardText(cmd *cobra.Command, data BoardData) error {
	out := cmd.OutOrStdout()

	if len(data.Columns) == 0 {
		fmt.Fprintln(out, "Board is empty. Submit orders or run a rebuild.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(data.Columns, "\t"))
	for _, row := range data.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if data.Totals != nil {
		// An options column nobody ordered aggregates to "". The kitchen
		// reads "-" as "no options", a blank as a rendering accident.
		totals := make([]string, len(data.Totals))
		copy(totals, data.Totals)
		for i, name := range data.Columns {
			if strings.HasSuffix(name, projection.OptionsSuffix) && totals[i] == "" {
				totals[i] = "-"
			}
		}
		fmt.Fprintln(w, strings.Join(totals, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d order(s)\n", len(data.Rows))
	return nil
}

// outputBoardCSV renders the board as CSV: a header record, one record
// per order row, and the totals row last when present.
func outputBoardCSV(cmd *cobra.Command, data BoardData) error {
	if len(data.Columns) == 0 {
		return nil
	}

	w := csv.NewWriter(cmd.OutOrStdout())

	if err := w.Write(data.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range data.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	if data.Totals != nil {
		if err := w.Write(data.Totals); err != nil {
			return fmt.Errorf("write csv totals: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
