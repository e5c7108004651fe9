package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/graph"
	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	From string
	To   string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert an RDF file between syntaxes",
		Long: `Convert an RDF file between syntaxes. Formats follow the file extensions
unless --from or --to say otherwise. An output of "-" writes to stdout.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "input format (nt, nq, jsonld)")
	cmd.Flags().StringVar(&opts.To, "to", "", "output format (nt, nq, jsonld)")
	return cmd
}

func runConvert(cmd *cobra.Command, opts *ConvertOptions, in, out string) error {
	to := opts.To
	if to == "" {
		f, ok := rdf.GuessFormat(out)
		if !ok {
			return fmt.Errorf("cannot tell output format of %q, use --to: %w", out, rdf.ErrUnsupportedFormat)
		}
		to = string(f)
	}

	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	ds, err := graph.NewDataset(graph.WithLogger(opts.log), graph.WithBase(fileIRI(in).Value))
	if err != nil {
		return err
	}
	parse := []graph.ParseOption{graph.ParseSource(in), graph.ParseContext(cmd.Context())}
	if opts.From != "" {
		parse = append(parse, graph.ParseFormat(opts.From))
	}
	if err := ds.Parse(src, parse...); err != nil {
		return fmt.Errorf("parse %s: %w", in, err)
	}

	if out == "-" {
		return ds.Serialize(cmd.OutOrStdout(), graph.SerializeFormat(to))
	}
	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := ds.Serialize(dst, graph.SerializeFormat(to)); err != nil {
		return errors.Join(err, dst.Close())
	}
	n, _ := ds.Len()
	opts.log.Info("converted", zap.String("in", in), zap.String("out", out), zap.String("format", to), zap.Int("statements", n))
	return dst.Close()
}
