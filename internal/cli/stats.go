package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recalcitrantsupplant/rdflib/graph"
	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "stats",
		Short:        "Show statement counts per graph",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, closeFn, err := openDataset(opts)
			if err != nil {
				return err
			}
			report, err := collectStats(ds)
			if err != nil {
				return errors.Join(err, ds.Close(false))
			}
			if err := closeFn(); err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return writeStatsText(cmd.OutOrStdout(), report)
		},
	}
}

func collectStats(ds *graph.Dataset, opts ...graph.GraphsOption) (Stats, error) {
	var report Stats
	for g, err := range ds.Graphs(opts...) {
		if err != nil {
			return Stats{}, err
		}
		n, err := g.Len()
		if err != nil {
			return Stats{}, err
		}
		report.Graphs = append(report.Graphs, GraphStat{Graph: graphLabel(g.Identifier()), Statements: n})
	}
	total, err := ds.Len()
	if err != nil {
		return Stats{}, err
	}
	report.Total = total
	return report, nil
}

func graphLabel(id rdf.Term) string {
	if id == nil || id == rdf.Term(rdf.DefaultGraphIRI) {
		return "default"
	}
	return id.String()
}

// GraphsOptions holds flags for the graphs command.
type GraphsOptions struct {
	*RootOptions
	NonEmpty bool
	Subject  string
}

// NewGraphsCommand creates the graphs command.
func NewGraphsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:          "graphs",
		Short:        "List the graphs of the dataset",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filters []graph.GraphsOption
			if opts.NonEmpty {
				filters = append(filters, graph.ExcludeEmpty())
			}
			if opts.Subject != "" {
				if err := rdf.ValidateIRI(opts.Subject); err != nil {
					return fmt.Errorf("subject %q: %w", opts.Subject, err)
				}
				filters = append(filters, graph.GraphsContaining(rdf.Pattern{S: rdf.NewIRI(opts.Subject)}))
			}

			ds, closeFn, err := openDataset(opts.RootOptions)
			if err != nil {
				return err
			}
			report, err := collectStats(ds, filters...)
			if err != nil {
				return errors.Join(err, ds.Close(false))
			}
			if err := closeFn(); err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report.Graphs)
			}
			for _, g := range report.Graphs {
				fmt.Fprintln(cmd.OutOrStdout(), g.Graph)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.NonEmpty, "non-empty", false, "omit graphs without statements")
	cmd.Flags().StringVar(&opts.Subject, "subject", "", "only graphs holding statements about this IRI")
	return cmd
}
