package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/recalcitrantsupplant/rdflib/graph"
	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	Graph string
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <file>...",
		Short: "Parse RDF files into the configured store",
		Long: `Parse RDF files into the configured store. Files are parsed concurrently
and written in argument order. Without --graph, unnamed statements of each
file go to a graph named by the file's URL; named quads keep their graph.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Graph, "graph", "g", "", "load every statement into this graph")
	return cmd
}

func runLoad(cmd *cobra.Command, opts *LoadOptions, files []string) error {
	var target rdf.Term
	if opts.Graph != "" {
		if err := rdf.ValidateIRI(opts.Graph); err != nil {
			return fmt.Errorf("graph name %q: %w", opts.Graph, err)
		}
		target = rdf.NewIRI(opts.Graph)
	}

	parsed := make([]*graph.Dataset, len(files))
	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		eg.Go(func() error {
			ds, err := parseFile(ctx, opts.RootOptions, file)
			if err != nil {
				return err
			}
			parsed[i] = ds
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	ds, closeFn, err := openDataset(opts.RootOptions)
	if err != nil {
		return err
	}
	for i, src := range parsed {
		name := target
		if name == nil {
			name = fileIRI(files[i])
		}
		n, err := copyQuads(ds, src, name, target != nil, opts.cfg.Batch.Size)
		if err != nil {
			_ = ds.Rollback()
			_ = ds.Close(false)
			return fmt.Errorf("load %s: %w", files[i], err)
		}
		opts.log.Info("loaded file", zap.String("file", files[i]), zap.Int("statements", n))
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", files[i], n)
	}
	return closeFn()
}

// parseFile reads one file into a private memory dataset.
func parseFile(ctx context.Context, opts *RootOptions, file string) (*graph.Dataset, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := graph.NewDataset(graph.WithLogger(opts.log), graph.WithBase(fileIRI(file).Value))
	if err != nil {
		return nil, err
	}
	err = ds.Parse(f, graph.ParseSource(file), graph.ParseContext(ctx), graph.ParseBatchSize(opts.cfg.Batch.Size))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return ds, nil
}

// copyQuads writes src into dst in batches. Default graph statements go to
// name; with force every statement does.
func copyQuads(dst, src *graph.Dataset, name rdf.Term, force bool, size int) (int, error) {
	batch := make([]rdf.Quad, 0, size)
	n := 0
	for q, err := range src.All() {
		if err != nil {
			return n, err
		}
		if force || q.InDefaultGraph() {
			q.G = name
		}
		batch = append(batch, q)
		if len(batch) == size {
			if err := dst.AddN(batch); err != nil {
				return n, err
			}
			n += len(batch)
			batch = batch[:0]
		}
	}
	if err := dst.AddN(batch); err != nil {
		return n, err
	}
	return n + len(batch), nil
}

func fileIRI(file string) rdf.IRI {
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}
	return rdf.NewIRI((&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String())
}
