package graph

import (
	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// SkolemOption configures Skolemize and DeSkolemize.
type SkolemOption func(*skolemOptions)

type skolemOptions struct {
	target    *Graph
	node      rdf.Term
	authority string
	basepath  string
}

// SkolemInto writes the rewritten triples into target instead of a new graph.
func SkolemInto(target *Graph) SkolemOption {
	return func(o *skolemOptions) { o.target = target }
}

// OnlyNode restricts the rewrite to one blank node (Skolemize) or one skolem
// IRI (DeSkolemize).
func OnlyNode(node rdf.Term) SkolemOption {
	return func(o *skolemOptions) { o.node = node }
}

// SkolemAuthority sets the authority of minted skolem IRIs.
func SkolemAuthority(authority string) SkolemOption {
	return func(o *skolemOptions) { o.authority = authority }
}

// SkolemBasePath sets the path prefix of minted skolem IRIs.
func SkolemBasePath(basepath string) SkolemOption {
	return func(o *skolemOptions) { o.basepath = basepath }
}

func newSkolemOptions(opts []SkolemOption) skolemOptions {
	var o skolemOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// rewrite copies every triple of g into the target graph, mapping subjects
// and objects through fn. Predicates are left alone.
func (g *Graph) rewrite(target *Graph, fn func(rdf.Term) rdf.Term) (*Graph, error) {
	out := target
	if out == nil {
		out = g.sibling()
	}
	err := WithBatch(out, algebraBatchSize, func(b *BatchAdder) error {
		for t, err := range g.All() {
			if err != nil {
				return err
			}
			if err := b.Add(rdf.Triple{S: fn(t.S), P: t.P, O: fn(t.O)}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Skolemize returns a copy of g with blank nodes replaced by skolem IRIs.
// The source graph is left untouched.
func (g *Graph) Skolemize(opts ...SkolemOption) (*Graph, error) {
	o := newSkolemOptions(opts)
	return g.rewrite(o.target, func(t rdf.Term) rdf.Term {
		b, ok := t.(rdf.BlankNode)
		if !ok || (o.node != nil && t != o.node) {
			return t
		}
		return b.Skolemize(o.authority, o.basepath)
	})
}

// DeSkolemize returns a copy of g with skolem IRIs replaced by blank nodes.
// IRIs minted by Skolemize recover their blank node; other well-known genid
// IRIs map to fresh blank nodes.
func (g *Graph) DeSkolemize(opts ...SkolemOption) (*Graph, error) {
	o := newSkolemOptions(opts)
	return g.rewrite(o.target, func(t rdf.Term) rdf.Term {
		iri, ok := t.(rdf.IRI)
		if !ok || (o.node != nil && t != o.node) {
			return t
		}
		if b, ok := rdf.DeSkolemize(iri); ok {
			return b
		}
		return t
	})
}
