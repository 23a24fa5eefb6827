package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/chit/internal/catalog"
	"github.com/roach88/chit/internal/engine"
	"github.com/roach88/chit/internal/order"
	"github.com/roach88/chit/internal/store"
)

// SubmitOptions holds flags for the submit command.
type SubmitOptions struct {
	*RootOptions
	Ticket string // explicit submission ticket; generated when empty
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit <order.json>",
		Short: "Ingest one order into the journal",
		Long: `Submit an order to the journal and board.

The argument is a JSON file holding the submission (customer and line
items), or "-" to read the submission from stdin. Each submission gets
a ticket; pass --ticket to supply one explicitly. Retrying with the
same ticket and payload is absorbed as a duplicate instead of being
journaled twice.

Exit codes:
  0 - Order accepted (or duplicate absorbed)
  1 - Submission rejected (UNAVAILABLE, BAD_SUBMISSION)
  2 - Command error (unreadable file, malformed JSON, menu problems)

Examples:
  chit submit order.json
  cat order.json | chit submit -
  chit submit order.json --ticket pos-7f3a --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Ticket, "ticket", "", "submission ticket (default: generated UUIDv7)")

	return cmd
}

func runSubmit(opts *SubmitOptions, path string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	payload, err := readSubmissionPayload(path, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read submission", err)
	}

	sub, err := order.ParseSubmission(payload)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid submission JSON", err)
	}

	loaded, loadErrors := catalog.Load(opts.MenuDir, catalog.LoadModeFailFast)
	if len(loadErrors) > 0 {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load menu %s", opts.MenuDir), loadErrors[0])
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	eng, err := engine.Resume(ctx, st, loaded.Catalog, engine.Config{Paused: opts.Paused})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resume engine", err)
	}

	var receipt engine.Receipt
	if opts.Ticket != "" {
		receipt, err = eng.SubmitTicketed(ctx, opts.Ticket, sub)
	} else {
		receipt, err = eng.Submit(ctx, sub)
	}
	if err != nil {
		var rerr *engine.RuntimeError
		if errors.As(err, &rerr) {
			_ = formatter.Error(string(rerr.Code), rerr.Message, rerr.Details)
			// The engine said no; that is a domain failure, not a command error
			return WrapExitError(ExitFailure, "submission rejected", rerr)
		}
		return WrapExitError(ExitCommandError, "submission failed", err)
	}

	return outputSubmitSuccess(formatter, receipt)
}

// readSubmissionPayload reads the order JSON from a file, or stdin for "-".
func readSubmissionPayload(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	return os.ReadFile(path)
}

// outputSubmitSuccess outputs the receipt in the configured format.
func outputSubmitSuccess(formatter *OutputFormatter, receipt engine.Receipt) error {
	if formatter.Format == "json" {
		return formatter.Success(receipt)
	}

	w := formatter.Writer
	if receipt.Deduplicated {
		fmt.Fprintln(w, "✓ Duplicate absorbed")
		fmt.Fprintf(w, "  Ticket: %s\n", receipt.Ticket)
		fmt.Fprintf(w, "  Seq:    %d (original)\n", receipt.Seq)
	} else {
		fmt.Fprintln(w, "✓ Order accepted")
		fmt.Fprintf(w, "  Ticket: %s\n", receipt.Ticket)
		fmt.Fprintf(w, "  Seq:    %d\n", receipt.Seq)
	}
	fmt.Fprintf(w, "  Order:  %s\n", truncateID(receipt.OrderID))
	return nil
}
