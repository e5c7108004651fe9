package graph

import (
	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// CBDOption configures CBD.
type CBDOption func(*cbdOptions)

type cbdOptions struct {
	target *Graph
}

// CBDInto collects the description into target instead of a new graph.
func CBDInto(target *Graph) CBDOption {
	return func(o *cbdOptions) { o.target = target }
}

type cbdFrame struct {
	node    rdf.Term
	triples []rdf.Triple
	next    int
}

// CBD returns the Concise Bounded Description of resource: every triple
// with resource as subject, recursively the descriptions of blank-node
// objects, and the triples of every reification node whose rdf:subject is a
// described node.
func (g *Graph) CBD(resource rdf.Term, opts ...CBDOption) (*Graph, error) {
	var o cbdOptions
	for _, opt := range opts {
		opt(&o)
	}
	out := o.target
	if out == nil {
		out = g.sibling()
	}

	open := func(node rdf.Term) (cbdFrame, error) {
		triples, err := collect(g.Triples(rdf.Pattern{S: node}))
		return cbdFrame{node: node, triples: triples}, err
	}
	root, err := open(resource)
	if err != nil {
		return nil, err
	}
	stack := []cbdFrame{root}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.triples) {
			t := top.triples[top.next]
			top.next++
			if err := out.Add(t); err != nil {
				return nil, err
			}
			if !rdf.IsBlank(t.O) {
				continue
			}
			described, err := out.Contains(rdf.Pattern{S: t.O})
			if err != nil {
				return nil, err
			}
			if described {
				continue
			}
			child, err := open(t.O)
			if err != nil {
				return nil, err
			}
			stack = append(stack, child)
			continue
		}

		node := top.node
		stack = stack[:len(stack)-1]
		if err := g.addReifications(out, node); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// addReifications adds the triples of every statement node that reifies a
// statement about node.
func (g *Graph) addReifications(out *Graph, node rdf.Term) error {
	statements, err := collect(g.Subjects(rdf.RDFSubject, node, false))
	if err != nil {
		return err
	}
	for _, st := range statements {
		triples, err := collect(g.Triples(rdf.Pattern{S: st}))
		if err != nil {
			return err
		}
		for _, t := range triples {
			if err := out.Add(t); err != nil {
				return err
			}
		}
	}
	return nil
}
