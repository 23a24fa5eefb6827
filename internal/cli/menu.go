package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/chit/internal/catalog"
)

// MenuOptions holds flags for the menu command.
type MenuOptions struct {
	*RootOptions
	Output string // output file path
}

// MenuItemSummary is the display shape of one compiled menu item.
type MenuItemSummary struct {
	Name       string   `json:"name"`
	PriceCents int64    `json:"price_cents"`
	Options    string   `json:"options,omitempty"`
	Groups     []string `json:"groups,omitempty"`
}

// MenuResult holds the compiled menu summary.
type MenuResult struct {
	Items []MenuItemSummary `json:"items"`
}

// MenuStats holds summary statistics.
type MenuStats struct {
	ItemCount   int
	WithOptions int
	GroupCount  int
}

// NewMenuCommand creates the menu command.
func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MenuOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "menu [dir]",
		Short: "Validate and summarize the CUE menu",
		Long: `Compile the CUE menu definition and report each item with its price
and option groups.

All problems are collected and reported together, with file positions
where CUE provides them. The directory defaults to --menu (or CHIT_MENU).

Examples:
  chit menu ./menu
  chit menu ./menu --format json
  chit menu ./menu -o compiled-menu.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.MenuDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runMenu(opts, dir, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the compiled menu as JSON to a file")

	return cmd
}

func runMenu(opts *MenuOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loaded, loadErrors := catalog.Load(dir, catalog.LoadModeCollectAll)

	// Directory-level failures (not found, no files) come back without a
	// result at all
	if loaded == nil && len(loadErrors) > 0 {
		var loadErr *catalog.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputMenuError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputMenuError(formatter, catalog.ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, dir)
	for _, item := range loaded.Catalog.Items {
		formatter.VerboseLog("Compiled item: %s", item.Name)
	}

	if len(loadErrors) > 0 {
		return outputMenuErrors(formatter, loadErrors)
	}

	result := buildMenuResult(loaded.Catalog)
	stats := menuStats(loaded.Catalog)

	if opts.Output != "" {
		if err := writeMenuToFile(result, opts.Output); err != nil {
			return outputMenuError(formatter, catalog.ErrCodeGeneric, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputMenuSuccess(formatter, result, stats, opts.Output)
}

// buildMenuResult flattens the catalog into display form.
func buildMenuResult(c *catalog.Catalog) *MenuResult {
	result := &MenuResult{Items: make([]MenuItemSummary, 0, len(c.Items))}
	for _, item := range c.Items {
		summary := MenuItemSummary{
			Name:       item.Name,
			PriceCents: item.PriceCents,
		}
		if item.HasOptions() {
			summary.Options = catalog.FormatOptionDefs(item.OptionGroups)
			for _, group := range item.OptionGroups {
				summary.Groups = append(summary.Groups, fmt.Sprintf("%v", group.Choices))
			}
		}
		result.Items = append(result.Items, summary)
	}
	return result
}

// menuStats computes summary statistics from the compiled catalog.
func menuStats(c *catalog.Catalog) MenuStats {
	stats := MenuStats{ItemCount: len(c.Items)}
	for _, item := range c.Items {
		if item.HasOptions() {
			stats.WithOptions++
			stats.GroupCount += len(item.OptionGroups)
		}
	}
	return stats
}

// outputMenuSuccess outputs the compiled menu summary.
func outputMenuSuccess(formatter *OutputFormatter, result *MenuResult, stats MenuStats, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Menu OK: %d item(s), %d with options\n\n",
		stats.ItemCount, stats.WithOptions)

	for _, item := range result.Items {
		if item.Options != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %d cents, options %s\n",
				item.Name, item.PriceCents, item.Options)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %d cents\n", item.Name, item.PriceCents)
		}
	}
	fmt.Fprintln(formatter.Writer)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote compiled menu to %s\n", outputFile)
	}

	return nil
}

// outputMenuError outputs a single menu error.
func outputMenuError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Menu problems are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputMenuErrors outputs all collected menu errors.
func outputMenuErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := menuErrorParts(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("menu failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Menu failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := menuErrorParts(err)
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("menu failed with %d error(s)", len(errs)))
}

// menuErrorParts extracts the error code and message from an error.
func menuErrorParts(err error) (string, string) {
	var compileErr *catalog.CompileError
	if errors.As(err, &compileErr) {
		return catalog.MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return catalog.ErrCodeGeneric, err.Error()
}

// writeMenuToFile writes the compiled menu to a file as indented JSON.
func writeMenuToFile(result *MenuResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling menu: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
