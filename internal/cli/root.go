// Package cli implements the dreamctl commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Corphon/DreamLogger/internal/config"
	"github.com/Corphon/DreamLogger/internal/utils"
)

type rootOptions struct {
	dbPath  string
	format  string
	verbose bool
}

// NewRootCmd builds the dreamctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "dreamctl",
		Short:         "Dream journal tooling",
		Long:          "Analyze dreams from the terminal, read a user's journal and upgrade the journal database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// keep terminal output to the command's own results
			if opts.verbose {
				utils.GetLogger().SetLogLevel(utils.DEBUG)
			} else {
				utils.GetLogger().SetLogLevel(utils.WARNING)
			}
		},
	}
	root.PersistentFlags().StringVarP(&opts.dbPath, "db", "d", "", "Database path (default: $DB_PATH or data/dreams.db)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "text", "Output format: json or text")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show debug logs")

	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	return cfg, nil
}

func (o *rootOptions) validateFormat() error {
	if o.format != "json" && o.format != "text" {
		return fmt.Errorf("unknown format %q, expected json or text", o.format)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
