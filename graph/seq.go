package graph

import (
	"iter"
	"slices"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// Items walks the RDF list starting at head, yielding each rdf:first value.
// A list whose rdf:rest chain revisits a node ends with rdf.ErrListCycle.
func (g *Graph) Items(head rdf.Term) iter.Seq2[rdf.Term, error] {
	return func(yield func(rdf.Term, error) bool) {
		chain := map[rdf.Term]bool{head: true}
		for node := head; node != nil; {
			item, err := g.Value(node, rdf.RDFFirst, nil)
			if err != nil {
				yield(nil, err)
				return
			}
			if item != nil && !yield(item, nil) {
				return
			}
			node, err = g.Value(node, rdf.RDFRest, nil)
			if err != nil {
				yield(nil, err)
				return
			}
			if node == nil {
				return
			}
			if chain[node] {
				yield(nil, rdf.ErrListCycle)
				return
			}
			chain[node] = true
		}
	}
}

// Seq is a snapshot of an rdf:Seq container ordered by membership index.
// It does not track later changes to the graph.
type Seq struct {
	items []rdf.Term
}

type seqEntry struct {
	index int
	item  rdf.Term
}

// NewSeq reads the rdf:_n members of subject. Members sharing an index keep
// the first one in scan order.
func NewSeq(g *Graph, subject rdf.Term) (*Seq, error) {
	var entries []seqEntry
	for po, err := range g.PredicateObjects(subject, false) {
		if err != nil {
			return nil, err
		}
		if n, ok := rdf.ContainerIndex(po.P); ok {
			entries = append(entries, seqEntry{index: n, item: po.O})
		}
	}
	slices.SortStableFunc(entries, func(a, b seqEntry) int { return a.index - b.index })
	entries = slices.CompactFunc(entries, func(a, b seqEntry) bool { return a.index == b.index })
	s := &Seq{items: make([]rdf.Term, len(entries))}
	for i, e := range entries {
		s.items[i] = e.item
	}
	return s, nil
}

// Seq returns the container at subject when it is typed rdf:Seq.
func (g *Graph) Seq(subject rdf.Term) (*Seq, bool, error) {
	ok, err := g.Contains(rdf.Pattern{S: subject, P: rdf.RDFType, O: rdf.RDFSeq})
	if err != nil || !ok {
		return nil, false, err
	}
	s, err := NewSeq(g, subject)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// Len returns the number of members.
func (s *Seq) Len() int { return len(s.items) }

// At returns the member at position i, counting from zero.
func (s *Seq) At(i int) rdf.Term { return s.items[i] }

// Items returns the members in order.
func (s *Seq) Items() []rdf.Term { return slices.Clone(s.items) }

// All iterates over the members in order.
func (s *Seq) All() iter.Seq2[int, rdf.Term] {
	return slices.All(s.items)
}
