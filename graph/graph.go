package graph

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
	"github.com/recalcitrantsupplant/rdflib/store/memory"
)

// Graph is a view of one context of a store. It does not own triples: every
// read and write goes to the backing store under the graph's identifier.
type Graph struct {
	store       store.Store
	id          rdf.Term
	quoted      bool
	union       bool
	base        string
	log         *zap.Logger
	uniqueLimit int
	ns          *NamespaceManager
}

// New returns a graph. Without options it is backed by a fresh memory store
// and identified by a fresh blank node. New panics if the identifier is a
// literal.
func New(opts ...Option) *Graph {
	return newGraph(newConfig(opts), false)
}

// NewQuoted returns a graph whose triples are stored as quoted formula
// statements in s under id.
func NewQuoted(s store.Store, id rdf.Term, opts ...Option) *Graph {
	cfg := newConfig(opts)
	cfg.store = s
	cfg.identifier = id
	return newGraph(cfg, true)
}

func newGraph(cfg config, quoted bool) *Graph {
	if cfg.store == nil {
		cfg.store = memory.New(memory.WithLogger(cfg.log))
	}
	if cfg.identifier == nil {
		cfg.identifier = rdf.NewBlankNode()
	}
	if _, ok := cfg.identifier.(rdf.Literal); ok {
		panic(fmt.Sprintf("graph: literal %s cannot identify a graph", cfg.identifier))
	}
	return &Graph{
		store:       cfg.store,
		id:          cfg.identifier,
		quoted:      quoted,
		base:        cfg.base,
		log:         cfg.log,
		uniqueLimit: cfg.uniqueLimit,
		ns:          cfg.namespaces,
	}
}

// view returns a graph sharing g's store, settings and namespaces, identified
// by id.
func (g *Graph) view(id rdf.Term) *Graph {
	return &Graph{
		store:       g.store,
		id:          id,
		base:        g.base,
		log:         g.log,
		uniqueLimit: g.uniqueLimit,
		ns:          g.ns,
	}
}

// sibling returns an empty graph on a fresh memory store with g's settings
// and a copy of its namespace bindings.
func (g *Graph) sibling() *Graph {
	out := New(WithLogger(g.log), WithBase(g.base), WithUniqueLimit(g.uniqueLimit))
	for prefix, ns := range g.ns.All() {
		out.ns.Bind(prefix, ns, true)
	}
	return out
}

// Identifier returns the graph's context identifier.
func (g *Graph) Identifier() rdf.Term { return g.id }

// Store returns the backing store.
func (g *Graph) Store() store.Store { return g.store }

// IsQuoted reports whether the graph holds quoted formula statements.
func (g *Graph) IsQuoted() bool { return g.quoted }

// Base returns the base IRI.
func (g *Graph) Base() string { return g.base }

// SetBase sets the base IRI.
func (g *Graph) SetBase(base string) { g.base = base }

// NamespaceManager returns the graph's prefix bindings.
func (g *Graph) NamespaceManager() *NamespaceManager { return g.ns }

func (g *Graph) String() string {
	kind := "Graph"
	if g.quoted {
		kind = "QuotedGraph"
	}
	return fmt.Sprintf("%s(%s, store=%T)", kind, rdf.FormatTerm(g.id), g.store)
}

// context returns the context scans run against. Writes always use g.id.
func (g *Graph) context() rdf.Term {
	if g.union {
		return nil
	}
	return g.id
}

// owns reports whether a quad context addresses this graph.
func (g *Graph) owns(ctx rdf.Term) bool {
	if ctx == g.id {
		return true
	}
	return ctx == nil && g.id == rdf.Term(rdf.DefaultGraphIRI)
}

// Add inserts t into the graph.
func (g *Graph) Add(t rdf.Triple) error {
	if err := rdf.ValidateTriple(t); err != nil {
		return err
	}
	return g.store.Add(t, g.id, g.quoted)
}

// AddN inserts the quads addressed to this graph. Quads naming another
// context are skipped.
func (g *Graph) AddN(quads []rdf.Quad) error {
	batch := make([]rdf.Quad, 0, len(quads))
	for _, q := range quads {
		if !g.owns(q.G) {
			continue
		}
		t := q.ToTriple()
		if err := rdf.ValidateTriple(t); err != nil {
			return err
		}
		if g.quoted {
			if err := g.store.Add(t, g.id, true); err != nil {
				return err
			}
			continue
		}
		batch = append(batch, t.ToQuadInGraph(g.id))
	}
	if len(batch) == 0 {
		return nil
	}
	return g.store.AddN(batch)
}

// Remove deletes the triples matching p from this graph only, even when
// its reads cover a union.
func (g *Graph) Remove(p rdf.Pattern) error {
	return g.store.Remove(p, g.id)
}

// Set replaces every (s, p, *) triple with t.
func (g *Graph) Set(t rdf.Triple) error {
	if err := rdf.ValidateTriple(t); err != nil {
		return err
	}
	if err := g.Remove(rdf.Pattern{S: t.S, P: t.P}); err != nil {
		return err
	}
	return g.Add(t)
}

// Triples returns the triples matching p. Each iteration runs a fresh scan.
// Property paths in the predicate position are evaluated by PathTriples.
func (g *Graph) Triples(p rdf.Pattern) iter.Seq2[rdf.Triple, error] {
	return triplesOf(g.store.Triples(p, g.context()))
}

// TriplesChoices returns the triples matching any of the choices.
func (g *Graph) TriplesChoices(c rdf.Choices) iter.Seq2[rdf.Triple, error] {
	return triplesOf(g.store.TriplesChoices(c, g.context()))
}

func triplesOf(matches iter.Seq2[store.Match, error]) iter.Seq2[rdf.Triple, error] {
	return func(yield func(rdf.Triple, error) bool) {
		for m, err := range matches {
			if err != nil {
				yield(rdf.Triple{}, err)
				return
			}
			if !yield(m.Triple, nil) {
				return
			}
		}
	}
}

// All returns every triple of the graph.
func (g *Graph) All() iter.Seq2[rdf.Triple, error] {
	return g.Triples(rdf.Any)
}

// Len counts the graph's triples.
func (g *Graph) Len() (int, error) {
	return g.store.Len(g.context())
}

// Contains reports whether any triple matches p.
func (g *Graph) Contains(p rdf.Pattern) (bool, error) {
	for _, err := range g.Triples(p) {
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Open opens the backing store.
func (g *Graph) Open(config string, create bool) error {
	return g.store.Open(config, create)
}

// Close closes the backing store.
func (g *Graph) Close(commitPending bool) error {
	return g.store.Close(commitPending)
}

// Commit commits pending store writes.
func (g *Graph) Commit() error { return g.store.Commit() }

// Rollback discards pending store writes.
func (g *Graph) Rollback() error { return g.store.Rollback() }

// Destroy removes the store's persistent data.
func (g *Graph) Destroy(config string) error { return g.store.Destroy(config) }

// collect drains a sequence into a slice.
func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
