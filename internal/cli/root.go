// Package cli implements the rdfgraph command tree.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/internal/config"
	"github.com/recalcitrantsupplant/rdflib/internal/logging"
)

// RootOptions holds global flags and the state every command shares.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"

	cfg *config.Config
	log *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the rdfgraph CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rdfgraph",
		Short: "rdfgraph - RDF graphs and datasets on pluggable stores",
		Long: `Load, inspect and transform RDF datasets kept in a memory, SQLite or
Redis store. The store is chosen by the configuration file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			if opts.Verbose {
				cfg.Logging.Level = "debug"
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			opts.cfg, opts.log = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "rdfgraph.yaml", "configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewGraphsCommand(opts))
	cmd.AddCommand(NewCBDCommand(opts))
	cmd.AddCommand(NewSkolemizeCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))

	return cmd
}
