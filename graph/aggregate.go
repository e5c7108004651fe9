package graph

import (
	"io"
	"iter"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// Aggregate is a read-only union of graphs. Reads fan out to every member
// in order; writes and transactions fail with rdf.ErrModification.
type Aggregate struct {
	graphs []*Graph
	ns     *NamespaceManager
}

// NewAggregate returns a read-only view over graphs.
func NewAggregate(graphs ...*Graph) *Aggregate {
	a := &Aggregate{graphs: graphs, ns: NewNamespaceManager()}
	for _, g := range graphs {
		for prefix, ns := range g.Namespaces() {
			a.ns.Bind(prefix, ns, false)
		}
	}
	return a
}

// Graphs returns the member graphs.
func (a *Aggregate) Graphs() []*Graph { return a.graphs }

// Triples yields the matches of every member in turn. A triple held by
// several members is yielded once per member.
func (a *Aggregate) Triples(p rdf.Pattern) iter.Seq2[rdf.Triple, error] {
	return func(yield func(rdf.Triple, error) bool) {
		for _, g := range a.graphs {
			for t, err := range g.Triples(p) {
				if !yield(t, err) || err != nil {
					return
				}
			}
		}
	}
}

// Len sums the member sizes.
func (a *Aggregate) Len() (int, error) {
	total := 0
	for _, g := range a.graphs {
		n, err := g.Len()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Contains reports whether any member has a triple matching p.
func (a *Aggregate) Contains(p rdf.Pattern) (bool, error) {
	for _, g := range a.graphs {
		ok, err := g.Contains(p)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// Namespaces returns the merged prefix bindings of the members.
func (a *Aggregate) Namespaces() iter.Seq2[string, string] { return a.ns.All() }

// Add fails with rdf.ErrModification.
func (a *Aggregate) Add(rdf.Triple) error { return rdf.ErrModification }

// AddN fails with rdf.ErrModification.
func (a *Aggregate) AddN([]rdf.Quad) error { return rdf.ErrModification }

// Remove fails with rdf.ErrModification.
func (a *Aggregate) Remove(rdf.Pattern) error { return rdf.ErrModification }

// Commit fails with rdf.ErrModification.
func (a *Aggregate) Commit() error { return rdf.ErrModification }

// Rollback fails with rdf.ErrModification.
func (a *Aggregate) Rollback() error { return rdf.ErrModification }

// Destroy fails with rdf.ErrModification.
func (a *Aggregate) Destroy(string) error { return rdf.ErrModification }

// Open opens every member's store.
func (a *Aggregate) Open(config string, create bool) error {
	for _, g := range a.graphs {
		if err := g.Open(config, create); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every member's store.
func (a *Aggregate) Close(commitPending bool) error {
	for _, g := range a.graphs {
		if err := g.Close(commitPending); err != nil {
			return err
		}
	}
	return nil
}

// Parse fails with rdf.ErrUnsupportedAggregateOperation.
func (a *Aggregate) Parse(io.Reader, ...ParseOption) error {
	return rdf.ErrUnsupportedAggregateOperation
}

// Union fails with rdf.ErrUnsupportedAggregateOperation.
func (a *Aggregate) Union(Source) (*Graph, error) {
	return nil, rdf.ErrUnsupportedAggregateOperation
}

// Difference fails with rdf.ErrUnsupportedAggregateOperation.
func (a *Aggregate) Difference(Source) (*Graph, error) {
	return nil, rdf.ErrUnsupportedAggregateOperation
}

// Intersection fails with rdf.ErrUnsupportedAggregateOperation.
func (a *Aggregate) Intersection(Source) (*Graph, error) {
	return nil, rdf.ErrUnsupportedAggregateOperation
}

// SymmetricDifference fails with rdf.ErrUnsupportedAggregateOperation.
func (a *Aggregate) SymmetricDifference(Source) (*Graph, error) {
	return nil, rdf.ErrUnsupportedAggregateOperation
}

// Merge fails with rdf.ErrUnsupportedAggregateOperation.
func (a *Aggregate) Merge(Source) error { return rdf.ErrUnsupportedAggregateOperation }

// Subtract fails with rdf.ErrUnsupportedAggregateOperation.
func (a *Aggregate) Subtract(Source) error { return rdf.ErrUnsupportedAggregateOperation }
