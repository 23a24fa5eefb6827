package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/chit/internal/config"
)

// RootOptions holds global flags for all commands.
//
// Database and MenuDir default to the CHIT_DB and CHIT_MENU environment
// variables; a flag given on the command line wins over the environment.
type RootOptions struct {
	Database string
	MenuDir  string
	Verbose  bool
	Format   string // "json" | "text"
	Paused   bool   // from CHIT_PAUSED; intake rejects while set
}

// ValidFormats defines the allowed output formats. The board command
// additionally accepts "csv".
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the chit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "chit",
		Short: "Chit - order journal and kitchen board",
		Long: `Chit keeps an append-only order journal in SQLite and derives a
kitchen board from it. The journal is the source of truth; the board is
a projection that can always be rebuilt by replaying the journal.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd, ValidFormats)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "chit.db", "path to SQLite database (env CHIT_DB)")
	cmd.PersistentFlags().StringVar(&opts.MenuDir, "menu", ".", "directory with the CUE menu (env CHIT_MENU)")

	cmd.AddCommand(NewMenuCommand(opts))
	cmd.AddCommand(NewSubmitCommand(opts))
	cmd.AddCommand(NewBoardCommand(opts))
	cmd.AddCommand(NewRebuildCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve validates the format flag, layers environment configuration
// under unset flags, and configures logging. Commands that widen the
// accepted formats call this from their own PersistentPreRunE.
func (o *RootOptions) resolve(cmd *cobra.Command, formats []string) error {
	if !formatIn(o.Format, formats) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, formats)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	// Flags win over environment; Changed distinguishes an explicit flag
	// from its default value
	flags := cmd.Root().PersistentFlags()
	if !flags.Changed("db") {
		o.Database = cfg.Database
	}
	if !flags.Changed("menu") {
		o.MenuDir = cfg.MenuDir
	}
	if !flags.Changed("verbose") && cfg.Verbose {
		o.Verbose = true
	}
	o.Paused = cfg.Paused

	logLevel := slog.LevelInfo
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

// formatIn checks if the format is one of the allowed values.
func formatIn(format string, formats []string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}
