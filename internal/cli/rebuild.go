package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/chit/internal/catalog"
	"github.com/roach88/chit/internal/engine"
	"github.com/roach88/chit/internal/store"
)

// RebuildOptions holds flags for the rebuild command.
type RebuildOptions struct {
	*RootOptions
	Verify      bool
	KeepColumns bool
}

// RebuildResult holds the rebuild command output.
type RebuildResult struct {
	Replayed int `json:"replayed"`
	Skipped  int `json:"skipped"`
	Rows     int `json:"rows"`

	// Verify fields, present only with --verify.
	Verified      bool `json:"verified,omitempty"`
	Deterministic bool `json:"deterministic,omitempty"`
}

// NewRebuildCommand creates the rebuild command.
func NewRebuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RebuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the board by replaying the journal",
		Long: `Rebuild the projection from the journal.

Every data row is discarded and the journal is replayed oldest-first
through the same row builder live ingestion uses. Entries whose stored
payload no longer parses are skipped and counted, never fatal.

With --verify the journal is replayed twice and the two projections
compared; identical output is what makes the board trustworthy as
derived state.

Exit codes:
  0 - Rebuild complete (and deterministic, with --verify)
  1 - Determinism verification failed (projections diverged)
  2 - Command error (database not found, menu problems, etc.)

Examples:
  chit rebuild
  chit rebuild --verify
  chit rebuild --keep-columns
  chit rebuild --verify --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebuild(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "rebuild twice and compare for determinism")
	cmd.Flags().BoolVar(&opts.KeepColumns, "keep-columns", false, "preserve the stored column schema instead of deriving from the menu")

	return cmd
}

func runRebuild(opts *RebuildOptions, cmd *cobra.Command) error {
	ctx := context.Background()

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

	rebuildOpts := engine.RebuildOptions{KeepColumns: opts.KeepColumns}

	if opts.Verify {
		report, err := eng.Verify(ctx, rebuildOpts)
		if err != nil {
			return WrapExitError(ExitCommandError, "verify failed", err)
		}
		result := RebuildResult{
			Replayed:      report.Second.Replayed,
			Skipped:       report.Second.Skipped,
			Rows:          report.Second.Rows,
			Verified:      true,
			Deterministic: report.Deterministic,
		}
		if opts.Format == "json" {
			return outputRebuildJSON(cmd, result)
		}
		return outputRebuildText(cmd, result)
	}

	report, err := eng.Rebuild(ctx, rebuildOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "rebuild failed", err)
	}
	result := RebuildResult{
		Replayed: report.Replayed,
		Skipped:  report.Skipped,
		Rows:     report.Rows,
	}
	if opts.Format == "json" {
		return outputRebuildJSON(cmd, result)
	}
	return outputRebuildText(cmd, result)
}

// outputRebuildJSON outputs the rebuild result as JSON.
func outputRebuildJSON(cmd *cobra.Command, result RebuildResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if result.Verified && !result.Deterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "determinism verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Verified && !result.Deterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputRebuildText outputs the rebuild result as text.
func outputRebuildText(cmd *cobra.Command, result RebuildResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Rebuild Summary: %d replayed, %d skipped, %d row(s)\n",
		result.Replayed, result.Skipped, result.Rows)

	if result.Skipped > 0 {
		suffix := "entries"
		if result.Skipped == 1 {
			suffix = "entry"
		}
		fmt.Fprintf(w, "Warning: skipped %d unparsable journal %s\n", result.Skipped, suffix)
	}

	if !result.Verified {
		return nil
	}

	if result.Deterministic {
		fmt.Fprintln(w, "✓ DETERMINISTIC: both replays produced identical boards")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
