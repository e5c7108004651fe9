package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recalcitrantsupplant/rdflib/graph"
	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// DescribeOptions holds flags shared by cbd and skolemize.
type DescribeOptions struct {
	*RootOptions
	Graph string
}

// NewCBDCommand creates the cbd command.
func NewCBDCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescribeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cbd <iri>",
		Short: "Print the Concise Bounded Description of a resource",
		Long: `Print the Concise Bounded Description of a resource as N-Triples. Without
--graph the description is taken from the union of all graphs.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rdf.ValidateIRI(args[0]); err != nil {
				return fmt.Errorf("resource %q: %w", args[0], err)
			}
			return withGraph(opts, func(g *graph.Graph) error {
				cbd, err := g.CBD(rdf.NewIRI(args[0]))
				if err != nil {
					return err
				}
				return cbd.Serialize(cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Graph, "graph", "g", "", "describe from this graph only")
	return cmd
}

// SkolemizeOptions holds flags for the skolemize command.
type SkolemizeOptions struct {
	DescribeOptions
	Reverse bool
}

// NewSkolemizeCommand creates the skolemize command.
func NewSkolemizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SkolemizeOptions{DescribeOptions: DescribeOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "skolemize",
		Short: "Print a graph with blank nodes replaced by genid IRIs",
		Long: `Print a graph as N-Triples with every blank node replaced by a genid IRI
under the configured skolem authority. With --de the rewrite runs the other
way.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sk := []graph.SkolemOption{
				graph.SkolemAuthority(opts.cfg.Skolem.Authority),
				graph.SkolemBasePath(opts.cfg.Skolem.BasePath),
			}
			return withGraph(&opts.DescribeOptions, func(g *graph.Graph) error {
				rewrite := g.Skolemize
				if opts.Reverse {
					rewrite = g.DeSkolemize
				}
				out, err := rewrite(sk...)
				if err != nil {
					return err
				}
				return out.Serialize(cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Graph, "graph", "g", "", "rewrite this graph only")
	cmd.Flags().BoolVar(&opts.Reverse, "de", false, "replace genid IRIs with blank nodes")
	return cmd
}

// withGraph opens the dataset read-only and runs fn against the selected
// graph.
func withGraph(opts *DescribeOptions, fn func(*graph.Graph) error) error {
	ds, _, err := openDataset(opts.RootOptions, graph.WithDefaultUnion())
	if err != nil {
		return err
	}
	g, err := selectGraph(ds, opts.Graph)
	if err != nil {
		return errors.Join(err, ds.Close(false))
	}
	return errors.Join(fn(g), ds.Close(false))
}
