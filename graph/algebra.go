package graph

import (
	"iter"
	"math/rand/v2"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// Source is a readable collection of triples. Graphs and aggregates are
// sources.
type Source interface {
	Triples(p rdf.Pattern) iter.Seq2[rdf.Triple, error]
	Len() (int, error)
	Contains(p rdf.Pattern) (bool, error)
	Namespaces() iter.Seq2[string, string]
}

var (
	_ Source = (*Graph)(nil)
	_ Source = (*Aggregate)(nil)
)

const algebraBatchSize = 1000

// copyInto adds the triples of seq that pass keep to dst.
func copyInto(dst *Graph, seq iter.Seq2[rdf.Triple, error], keep func(rdf.Triple) (bool, error)) error {
	return WithBatch(dst, algebraBatchSize, func(b *BatchAdder) error {
		for t, err := range seq {
			if err != nil {
				return err
			}
			if keep != nil {
				ok, err := keep(t)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
			}
			if err := b.Add(t); err != nil {
				return err
			}
		}
		return nil
	})
}

func bindAll(dst *Graph, src Source) {
	for prefix, ns := range src.Namespaces() {
		dst.ns.Bind(prefix, ns, false)
	}
}

func absentFrom(other Source) func(rdf.Triple) (bool, error) {
	return func(t rdf.Triple) (bool, error) {
		ok, err := other.Contains(t.AsPattern())
		return !ok, err
	}
}

func presentIn(other Source) func(rdf.Triple) (bool, error) {
	return func(t rdf.Triple) (bool, error) {
		return other.Contains(t.AsPattern())
	}
}

// Merge adds every triple of other to g. Blank nodes are not renamed.
func (g *Graph) Merge(other Source) error {
	return copyInto(g, other.Triples(rdf.Any), nil)
}

// Subtract removes every triple of other from g.
func (g *Graph) Subtract(other Source) error {
	triples, err := collect(other.Triples(rdf.Any))
	if err != nil {
		return err
	}
	for _, t := range triples {
		if err := g.Remove(t.AsPattern()); err != nil {
			return err
		}
	}
	return nil
}

// Union returns a new graph holding the triples of g and other. The result
// carries the namespace bindings of both; blank nodes are not renamed.
func (g *Graph) Union(other Source) (*Graph, error) {
	out := g.sibling()
	bindAll(out, other)
	if err := copyInto(out, g.All(), nil); err != nil {
		return nil, err
	}
	if err := copyInto(out, other.Triples(rdf.Any), nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Difference returns a new graph holding the triples of g absent from other.
func (g *Graph) Difference(other Source) (*Graph, error) {
	out := g.sibling()
	bindAll(out, other)
	if err := copyInto(out, g.All(), absentFrom(other)); err != nil {
		return nil, err
	}
	return out, nil
}

// Intersection returns a new graph holding the triples present in both.
func (g *Graph) Intersection(other Source) (*Graph, error) {
	out := g.sibling()
	bindAll(out, other)
	if err := copyInto(out, other.Triples(rdf.Any), presentIn(g)); err != nil {
		return nil, err
	}
	return out, nil
}

// SymmetricDifference returns a new graph holding the triples present in
// exactly one of g and other.
func (g *Graph) SymmetricDifference(other Source) (*Graph, error) {
	out := g.sibling()
	bindAll(out, other)
	if err := copyInto(out, g.All(), absentFrom(other)); err != nil {
		return nil, err
	}
	if err := copyInto(out, other.Triples(rdf.Any), absentFrom(g)); err != nil {
		return nil, err
	}
	return out, nil
}

// Isomorphic is a cheap approximation of graph isomorphism: the graphs must
// have the same size and agree on every triple without blank nodes. Graphs
// that differ only in blank-node structure compare as isomorphic.
func (g *Graph) Isomorphic(other Source) (bool, error) {
	if other == Source(g) {
		return true, nil
	}
	n, err := g.Len()
	if err != nil {
		return false, err
	}
	m, err := other.Len()
	if err != nil {
		return false, err
	}
	if n != m {
		return false, nil
	}
	for _, pair := range [][2]Source{{g, other}, {other, g}} {
		for t, err := range pair[0].Triples(rdf.Any) {
			if err != nil {
				return false, err
			}
			if rdf.IsBlank(t.S) || rdf.IsBlank(t.O) {
				continue
			}
			ok, err := pair[1].Contains(t.AsPattern())
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

// AllNodes returns every distinct subject and object in first-seen order.
func (g *Graph) AllNodes() ([]rdf.Term, error) {
	seen := map[rdf.Term]bool{}
	var nodes []rdf.Term
	for t, err := range g.All() {
		if err != nil {
			return nil, err
		}
		for _, n := range []rdf.Term{t.S, t.O} {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}
	return nodes, nil
}

// StartStrategy picks the index of the node a connectivity walk starts from.
type StartStrategy func(nodes []rdf.Term) int

// FirstNode starts from the first node in iteration order.
func FirstNode(nodes []rdf.Term) int { return 0 }

// RandomNode starts from a node chosen by r.
func RandomNode(r *rand.Rand) StartStrategy {
	return func(nodes []rdf.Term) int { return r.IntN(len(nodes)) }
}

// Connected reports whether every node is reachable from the start node when
// triples are treated as undirected subject-object edges. An empty graph is
// not connected. The walk starts from FirstNode unless a strategy is given.
func (g *Graph) Connected(start ...StartStrategy) (bool, error) {
	nodes, err := g.AllNodes()
	if err != nil || len(nodes) == 0 {
		return false, err
	}
	pick := FirstNode
	if len(start) > 0 && start[0] != nil {
		pick = start[0]
	}

	discovered := map[rdf.Term]bool{}
	queued := map[rdf.Term]bool{}
	visiting := []rdf.Term{nodes[pick(nodes)]}
	queued[visiting[0]] = true
	for len(visiting) > 0 {
		x := visiting[len(visiting)-1]
		visiting = visiting[:len(visiting)-1]
		delete(queued, x)
		discovered[x] = true

		neighbours, err := collect(g.Objects(x, nil, false))
		if err != nil {
			return false, err
		}
		subjects, err := collect(g.Subjects(nil, x, false))
		if err != nil {
			return false, err
		}
		for _, n := range append(neighbours, subjects...) {
			if !discovered[n] && !queued[n] {
				queued[n] = true
				visiting = append(visiting, n)
			}
		}
	}
	return len(discovered) == len(nodes), nil
}
