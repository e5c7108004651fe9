package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/graph"
	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"

	// Backends selectable from the configuration file.
	_ "github.com/recalcitrantsupplant/rdflib/store/memory"
	_ "github.com/recalcitrantsupplant/rdflib/store/redis"
	_ "github.com/recalcitrantsupplant/rdflib/store/sqlite"
)

// openDataset opens the configured store as a dataset. The returned close
// function commits pending writes.
func openDataset(opts *RootOptions, extra ...graph.Option) (*graph.Dataset, func() error, error) {
	sc := opts.cfg.StoreConfig()
	sc.Logger = opts.log
	s, err := store.Open(opts.cfg.Store.Backend, sc)
	if err != nil {
		return nil, nil, err
	}
	ds, err := graph.NewDataset(append([]graph.Option{graph.WithStore(s), graph.WithLogger(opts.log)}, extra...)...)
	if err != nil {
		return nil, nil, errors.Join(err, s.Close(false))
	}
	opts.log.Debug("opened dataset", zap.String("backend", opts.cfg.Store.Backend), zap.String("path", sc.Path))
	return ds, func() error { return ds.Close(true) }, nil
}

// selectGraph returns the named graph, or the default graph when name is
// empty.
func selectGraph(ds *graph.Dataset, name string) (*graph.Graph, error) {
	if name == "" {
		return ds.DefaultGraph(), nil
	}
	iri := rdf.NewIRI(name)
	if err := rdf.ValidateIRI(name); err != nil {
		return nil, fmt.Errorf("graph name %q: %w", name, err)
	}
	return ds.GetNamedGraph(iri)
}
