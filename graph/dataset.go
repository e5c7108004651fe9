package graph

import (
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
	"github.com/recalcitrantsupplant/rdflib/store/memory"
)

// Dataset is a set of named graphs plus one default graph, all held by a
// single graph-aware store. The default graph is named rdf.DefaultGraphIRI
// and exists from construction on.
type Dataset struct {
	store       store.Store
	def         *Graph
	base        string
	log         *zap.Logger
	uniqueLimit int
	ns          *NamespaceManager
}

// NewDataset returns a dataset. Without WithStore it is backed by a fresh
// memory store. Stores that do not track graph names are rejected with a
// *rdf.ConfigurationError.
func NewDataset(opts ...Option) (*Dataset, error) {
	cfg := newConfig(opts)
	if cfg.store == nil {
		cfg.store = memory.New(memory.WithLogger(cfg.log))
	}
	if !cfg.store.Capabilities().GraphAware {
		return nil, &rdf.ConfigurationError{
			Store:  fmt.Sprintf("%T", cfg.store),
			Reason: "dataset requires a graph-aware store",
			Err:    rdf.ErrNotGraphAware,
		}
	}
	if err := cfg.store.AddGraph(rdf.DefaultGraphIRI); err != nil {
		return nil, err
	}
	d := &Dataset{
		store:       cfg.store,
		base:        cfg.base,
		log:         cfg.log,
		uniqueLimit: cfg.uniqueLimit,
		ns:          cfg.namespaces,
	}
	d.def = d.view(rdf.DefaultGraphIRI)
	d.def.union = cfg.defaultUnion
	return d, nil
}

func (d *Dataset) view(id rdf.Term) *Graph {
	return &Graph{
		store:       d.store,
		id:          id,
		base:        d.base,
		log:         d.log,
		uniqueLimit: d.uniqueLimit,
		ns:          d.ns,
	}
}

// Store returns the backing store.
func (d *Dataset) Store() store.Store { return d.store }

// NamespaceManager returns the prefix bindings shared by every graph of the
// dataset.
func (d *Dataset) NamespaceManager() *NamespaceManager { return d.ns }

// Bind binds prefix to namespace.
func (d *Dataset) Bind(prefix, namespace string) { d.ns.Bind(prefix, namespace, true) }

// Namespaces returns the prefix bindings ordered by prefix.
func (d *Dataset) Namespaces() iter.Seq2[string, string] { return d.ns.All() }

// DefaultGraph returns the default graph. With WithDefaultUnion its reads
// cover every asserted graph while writes still go to the default graph.
func (d *Dataset) DefaultGraph() *Graph { return d.def }

func (d *Dataset) graphName(id rdf.Term) (rdf.Term, error) {
	switch v := id.(type) {
	case nil:
		d.ns.Bind("genid", rdf.SkolemNamespace, false)
		return rdf.NewBlankNode().Skolemize("", ""), nil
	case rdf.BlankNode:
		d.ns.Bind("genid", rdf.SkolemNamespace, false)
		return v.Skolemize("", ""), nil
	case rdf.Literal:
		return nil, fmt.Errorf("graph: %s: %w", rdf.FormatTerm(v), rdf.ErrWrongGraphKind)
	}
	return id, nil
}

// Graph returns the graph named id, creating it when absent. A nil id mints
// a skolem IRI and binds the "genid" prefix; a blank node id is replaced by
// its skolem IRI.
func (d *Dataset) Graph(id rdf.Term) (*Graph, error) {
	if id == rdf.Term(rdf.DefaultGraphIRI) {
		return d.def, nil
	}
	name, err := d.graphName(id)
	if err != nil {
		return nil, err
	}
	formula, err := d.store.IsFormula(name)
	if err != nil {
		return nil, err
	}
	if formula {
		return nil, fmt.Errorf("graph: %s is a formula: %w", rdf.FormatTerm(name), rdf.ErrWrongGraphKind)
	}
	if err := d.store.AddGraph(name); err != nil {
		return nil, err
	}
	return d.view(name), nil
}

// NamedGraphOption configures AddNamedGraph.
type NamedGraphOption func(*Graph)

// NamedGraphBase sets the base IRI of the returned graph.
func NamedGraphBase(base string) NamedGraphOption {
	return func(g *Graph) { g.base = base }
}

// AddNamedGraph copies the triples of src into the graph named id and
// returns that graph. A nil id mints a skolem IRI and binds the "genid"
// prefix. Adding under an existing name merges into the graph already there.
func (d *Dataset) AddNamedGraph(src *Graph, id rdf.Term, opts ...NamedGraphOption) (*Graph, error) {
	if id != rdf.Term(rdf.DefaultGraphIRI) {
		name, err := d.graphName(id)
		if err != nil {
			return nil, err
		}
		exists, err := d.HasNamedGraph(name)
		if err != nil {
			return nil, err
		}
		if exists {
			d.log.Debug("merging into existing named graph", zap.String("graph", rdf.FormatTerm(name)))
		}
		id = name
	}
	target, err := d.Graph(id)
	if err != nil {
		return nil, err
	}
	if err := target.Merge(src); err != nil {
		return nil, err
	}
	if len(opts) > 0 && target == d.def {
		target = d.view(d.def.id)
		target.union = d.def.union
	}
	for _, opt := range opts {
		opt(target)
	}
	return target, nil
}

// HasNamedGraph reports whether an asserted graph named id exists.
func (d *Dataset) HasNamedGraph(id rdf.Term) (bool, error) {
	for ctx, err := range d.store.Contexts(nil) {
		if err != nil {
			return false, err
		}
		if ctx == id {
			return true, nil
		}
	}
	return false, nil
}

// lookup fails with rdf.ErrWrongGraphKind for literals and formulas and with
// rdf.ErrGraphNotFound for unknown names.
func (d *Dataset) lookup(id rdf.Term) error {
	if err := rdf.ValidateTerm(rdf.PositionGraph, id); err != nil {
		return fmt.Errorf("graph: %w: %w", rdf.ErrWrongGraphKind, err)
	}
	formula, err := d.store.IsFormula(id)
	if err != nil {
		return err
	}
	if formula {
		return fmt.Errorf("graph: %s is a formula: %w", rdf.FormatTerm(id), rdf.ErrWrongGraphKind)
	}
	ok, err := d.HasNamedGraph(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("graph: %s: %w", rdf.FormatTerm(id), rdf.ErrGraphNotFound)
	}
	return nil
}

// GetNamedGraph returns the existing graph named id.
func (d *Dataset) GetNamedGraph(id rdf.Term) (*Graph, error) {
	if err := d.lookup(id); err != nil {
		return nil, err
	}
	if id == rdf.Term(rdf.DefaultGraphIRI) {
		return d.def, nil
	}
	return d.view(id), nil
}

// RemoveNamedGraph deletes the graph named id. The default graph cannot be
// removed; it is emptied instead.
func (d *Dataset) RemoveNamedGraph(id rdf.Term) error {
	if err := d.lookup(id); err != nil {
		return err
	}
	if id == rdf.Term(rdf.DefaultGraphIRI) {
		return d.store.Remove(rdf.Any, rdf.DefaultGraphIRI)
	}
	return d.store.RemoveGraph(id)
}

// ReplaceNamedGraph replaces the content of the existing graph named id with
// the triples of src.
func (d *Dataset) ReplaceNamedGraph(src *Graph, id rdf.Term) (*Graph, error) {
	if err := d.lookup(id); err != nil {
		return nil, err
	}
	if err := d.store.Remove(rdf.Any, id); err != nil {
		return nil, err
	}
	target := d.view(id)
	if id == rdf.Term(rdf.DefaultGraphIRI) {
		target = d.def
	}
	if err := target.Merge(src); err != nil {
		return nil, err
	}
	if len(opts) > 0 && target == d.def {
		target = d.view(d.def.id)
		target.union = d.def.union
	}
	for _, opt := range opts {
		opt(target)
	}
	return target, nil
}

// GraphsOption filters Graphs.
type GraphsOption func(*graphsOptions)

type graphsOptions struct {
	pattern      *rdf.Pattern
	excludeEmpty bool
}

// GraphsContaining keeps only graphs holding a triple matching p.
func GraphsContaining(p rdf.Pattern) GraphsOption {
	return func(o *graphsOptions) { o.pattern = &p }
}

// ExcludeEmpty drops graphs without triples.
func ExcludeEmpty() GraphsOption {
	return func(o *graphsOptions) { o.excludeEmpty = true }
}

// Graphs yields every asserted graph, the default graph and empty graphs
// included unless filtered out.
func (d *Dataset) Graphs(opts ...GraphsOption) iter.Seq2[*Graph, error] {
	var o graphsOptions
	for _, opt := range opts {
		opt(&o)
	}
	return func(yield func(*Graph, error) bool) {
		ctxs, err := collect(d.store.Contexts(nil))
		if err != nil {
			yield(nil, err)
			return
		}
		for _, ctx := range ctxs {
			g := d.view(ctx)
			if ctx == rdf.Term(rdf.DefaultGraphIRI) {
				g = d.def
			}
			if o.pattern != nil {
				ok, err := d.containsIn(*o.pattern, ctx)
				if err != nil {
					yield(nil, err)
					return
				}
				if !ok {
					continue
				}
			}
			if o.excludeEmpty {
				n, err := d.store.Len(ctx)
				if err != nil {
					yield(nil, err)
					return
				}
				if n == 0 {
					continue
				}
			}
			if !yield(g, nil) {
				return
			}
		}
	}
}

func (d *Dataset) containsIn(p rdf.Pattern, ctx rdf.Term) (bool, error) {
	for _, err := range d.store.Triples(p, ctx) {
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Quads yields the quads matching p. A bound G restricts the scan to that
// graph; otherwise one quad is yielded per asserted graph holding the
// triple. Default graph quads carry rdf.DefaultGraphIRI.
func (d *Dataset) Quads(p rdf.QuadPattern) iter.Seq2[rdf.Quad, error] {
	return func(yield func(rdf.Quad, error) bool) {
		for m, err := range d.store.Triples(p.Triple(), p.G) {
			if err != nil {
				yield(rdf.Quad{}, err)
				return
			}
			if p.G != nil {
				if !yield(m.Triple.ToQuadInGraph(p.G), nil) {
					return
				}
				continue
			}
			for _, ctx := range m.Contexts {
				if !yield(m.Triple.ToQuadInGraph(ctx), nil) {
					return
				}
			}
		}
	}
}

// All yields every quad of the dataset.
func (d *Dataset) All() iter.Seq2[rdf.Quad, error] {
	return d.Quads(rdf.QuadPattern{})
}

// Len counts the distinct asserted triples across all graphs.
func (d *Dataset) Len() (int, error) { return d.store.Len(nil) }

// Contains reports whether any quad matches p.
func (d *Dataset) Contains(p rdf.QuadPattern) (bool, error) {
	return d.containsIn(p.Triple(), p.G)
}

func normalizeQuad(q rdf.Quad) (rdf.Quad, error) {
	if err := rdf.ValidateTriple(q.ToTriple()); err != nil {
		return q, err
	}
	if q.G == nil {
		q.G = rdf.DefaultGraphIRI
		return q, nil
	}
	if err := rdf.ValidateTerm(rdf.PositionGraph, q.G); err != nil {
		return q, err
	}
	return q, nil
}

// Add inserts q. A nil G addresses the default graph.
func (d *Dataset) Add(q rdf.Quad) error {
	q, err := normalizeQuad(q)
	if err != nil {
		return err
	}
	return d.store.Add(q.ToTriple(), q.G, false)
}

// AddN inserts quads. Nothing is written when any quad is invalid.
func (d *Dataset) AddN(quads []rdf.Quad) error {
	batch := make([]rdf.Quad, len(quads))
	for i, q := range quads {
		n, err := normalizeQuad(q)
		if err != nil {
			return err
		}
		batch[i] = n
	}
	if len(batch) == 0 {
		return nil
	}
	return d.store.AddN(batch)
}

// Remove deletes the quads matching p. A nil G removes from every graph.
func (d *Dataset) Remove(p rdf.QuadPattern) error {
	return d.store.Remove(p.Triple(), p.G)
}

// Parse reads RDF from r into the dataset. Quads keep their graph names;
// triples go to the default graph. When no syntax can be determined the
// input is parsed as N-Quads.
func (d *Dataset) Parse(r io.Reader, opts ...ParseOption) error {
	o := newParseOptions(opts, d.base)
	size := max(o.batchSize, 1)
	batch := make([]rdf.Quad, 0, size)
	err := decode(r, o, rdf.FormatNQuads, d.log, func(q rdf.Quad) error {
		batch = append(batch, q)
		if len(batch) < size {
			return nil
		}
		err := d.AddN(batch)
		batch = batch[:0]
		return err
	})
	if err != nil {
		return err
	}
	return d.AddN(batch)
}

// Serialize writes the dataset to w, as N-Quads unless SerializeFormat says
// otherwise. Default graph triples are written without a graph name.
func (d *Dataset) Serialize(w io.Writer, opts ...SerializeOption) error {
	return encode(w, opts, rdf.FormatNQuads, d.base, func(yield func(rdf.Quad, error) bool) {
		for q, err := range d.All() {
			if err == nil && q.InDefaultGraph() {
				q.G = nil
			}
			if !yield(q, err) || err != nil {
				return
			}
		}
	})
}

// Open opens the backing store.
func (d *Dataset) Open(config string, create bool) error { return d.store.Open(config, create) }

// Close closes the backing store.
func (d *Dataset) Close(commitPending bool) error { return d.store.Close(commitPending) }

// Commit commits pending store writes.
func (d *Dataset) Commit() error { return d.store.Commit() }

// Rollback discards pending store writes.
func (d *Dataset) Rollback() error { return d.store.Rollback() }

// Destroy removes the store's persistent data.
func (d *Dataset) Destroy(config string) error { return d.store.Destroy(config) }
