package graph

import (
	"iter"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// StepFunc expands a node into its successors.
type StepFunc func(node rdf.Term, g *Graph) iter.Seq2[rdf.Term, error]

type frame struct {
	items []rdf.Term
	next  int
}

// TransitiveClosure walks fn depth first from start. Every successor is
// yielded as it is produced, so a node reachable along several paths appears
// once per path; each node is expanded at most once, which makes cycles
// terminate. start itself is expanded but not yielded.
func (g *Graph) TransitiveClosure(fn StepFunc, start rdf.Term) iter.Seq2[rdf.Term, error] {
	return func(yield func(rdf.Term, error) bool) {
		expanded := map[rdf.Term]bool{start: true}
		first, err := collect(fn(start, g))
		if err != nil {
			yield(nil, err)
			return
		}
		stack := []frame{{items: first}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.items) {
				stack = stack[:len(stack)-1]
				continue
			}
			node := top.items[top.next]
			top.next++
			if !yield(node, nil) {
				return
			}
			if expanded[node] {
				continue
			}
			expanded[node] = true
			items, err := collect(fn(node, g))
			if err != nil {
				yield(nil, err)
				return
			}
			stack = append(stack, frame{items: items})
		}
	}
}

// walk yields start and then every node reachable through next, each exactly
// once, in depth-first preorder.
func walk(start rdf.Term, next func(rdf.Term) iter.Seq2[rdf.Term, error]) iter.Seq2[rdf.Term, error] {
	return func(yield func(rdf.Term, error) bool) {
		seen := map[rdf.Term]bool{}
		stack := []frame{{items: []rdf.Term{start}}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.items) {
				stack = stack[:len(stack)-1]
				continue
			}
			node := top.items[top.next]
			top.next++
			if seen[node] {
				continue
			}
			seen[node] = true
			if !yield(node, nil) {
				return
			}
			items, err := collect(next(node))
			if err != nil {
				yield(nil, err)
				return
			}
			stack = append(stack, frame{items: items})
		}
	}
}

// TransitiveObjects yields subject and then every node reachable by
// following predicate forwards.
func (g *Graph) TransitiveObjects(subject rdf.Term, predicate rdf.IRI) iter.Seq2[rdf.Term, error] {
	return walk(subject, func(n rdf.Term) iter.Seq2[rdf.Term, error] {
		return g.Objects(n, predicate, false)
	})
}

// TransitiveSubjects yields object and then every node reachable by
// following predicate backwards.
func (g *Graph) TransitiveSubjects(predicate rdf.IRI, object rdf.Term) iter.Seq2[rdf.Term, error] {
	return walk(object, func(n rdf.Term) iter.Seq2[rdf.Term, error] {
		return g.Subjects(predicate, n, false)
	})
}
