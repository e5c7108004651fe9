package graph

import (
	"errors"
	"iter"
	"strings"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// Path is a SPARQL property path expression.
type Path interface {
	String() string
	// eval returns the (subject, object) pairs connected by the path. A nil
	// s or o is unbound.
	eval(g *Graph, s, o rdf.Term) ([]PathMatch, error)
}

// PathMatch is a pair of nodes connected by a path.
type PathMatch struct {
	S rdf.Term
	O rdf.Term
}

var errNegatedPathArg = errors.New("graph: negated paths accept only IRIs and inverse IRIs")

type predicatePath struct{ iri rdf.IRI }

// Pred is the path of a single predicate.
func Pred(iri rdf.IRI) Path { return predicatePath{iri: iri} }

func (p predicatePath) String() string { return rdf.FormatTerm(p.iri) }

func (p predicatePath) eval(g *Graph, s, o rdf.Term) ([]PathMatch, error) {
	var out []PathMatch
	for t, err := range g.Triples(rdf.Pattern{S: s, P: p.iri, O: o}) {
		if err != nil {
			return nil, err
		}
		out = append(out, PathMatch{S: t.S, O: t.O})
	}
	return out, nil
}

type inversePath struct{ arg Path }

// InversePath follows arg from object to subject (^arg).
func InversePath(arg Path) Path { return inversePath{arg: arg} }

func (p inversePath) String() string { return "^" + p.arg.String() }

func (p inversePath) eval(g *Graph, s, o rdf.Term) ([]PathMatch, error) {
	matches, err := p.arg.eval(g, o, s)
	if err != nil {
		return nil, err
	}
	out := make([]PathMatch, len(matches))
	for i, m := range matches {
		out[i] = PathMatch{S: m.O, O: m.S}
	}
	return out, nil
}

type sequencePath struct{ args []Path }

// SequencePath follows each path in turn (a/b/c).
func SequencePath(args ...Path) Path { return sequencePath{args: args} }

func (p sequencePath) String() string { return joinPaths(p.args, "/") }

func (p sequencePath) eval(g *Graph, s, o rdf.Term) ([]PathMatch, error) {
	if len(p.args) == 0 {
		return nil, nil
	}
	if s == nil && o != nil {
		return evalSeqBackward(g, p.args, s, o)
	}
	return evalSeqForward(g, p.args, s, o)
}

func evalSeqForward(g *Graph, paths []Path, s, o rdf.Term) ([]PathMatch, error) {
	if len(paths) == 1 {
		return paths[0].eval(g, s, o)
	}
	heads, err := paths[0].eval(g, s, nil)
	if err != nil {
		return nil, err
	}
	var out []PathMatch
	for _, h := range heads {
		rest, err := evalSeqForward(g, paths[1:], h.O, o)
		if err != nil {
			return nil, err
		}
		for _, r := range rest {
			out = append(out, PathMatch{S: h.S, O: r.O})
		}
	}
	return out, nil
}

func evalSeqBackward(g *Graph, paths []Path, s, o rdf.Term) ([]PathMatch, error) {
	if len(paths) == 1 {
		return paths[0].eval(g, s, o)
	}
	last := len(paths) - 1
	tails, err := paths[last].eval(g, nil, o)
	if err != nil {
		return nil, err
	}
	var out []PathMatch
	for _, tl := range tails {
		rest, err := evalSeqForward(g, paths[:last], s, tl.S)
		if err != nil {
			return nil, err
		}
		for _, r := range rest {
			out = append(out, PathMatch{S: r.S, O: tl.O})
		}
	}
	return out, nil
}

type alternativePath struct{ args []Path }

// AlternativePath matches any of the paths (a|b).
func AlternativePath(args ...Path) Path { return alternativePath{args: args} }

func (p alternativePath) String() string { return joinPaths(p.args, "|") }

func (p alternativePath) eval(g *Graph, s, o rdf.Term) ([]PathMatch, error) {
	var out []PathMatch
	for _, arg := range p.args {
		matches, err := arg.eval(g, s, o)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

type mulPath struct {
	arg  Path
	zero bool
	more bool
	mod  string
}

// ZeroOrMore matches arg repeated any number of times (arg*).
func ZeroOrMore(arg Path) Path { return mulPath{arg: arg, zero: true, more: true, mod: "*"} }

// OneOrMore matches arg repeated at least once (arg+).
func OneOrMore(arg Path) Path { return mulPath{arg: arg, more: true, mod: "+"} }

// ZeroOrOne matches arg at most once (arg?).
func ZeroOrOne(arg Path) Path { return mulPath{arg: arg, zero: true, mod: "?"} }

func (p mulPath) String() string { return groupPath(p.arg) + p.mod }

// eval returns distinct pairs only.
func (p mulPath) eval(g *Graph, s, o rdf.Term) ([]PathMatch, error) {
	var out []PathMatch
	done := map[PathMatch]bool{}
	emit := func(m PathMatch) {
		if !done[m] {
			done[m] = true
			out = append(out, m)
		}
	}

	switch {
	case s != nil:
		if p.zero && (o == nil || s == o) {
			emit(PathMatch{S: s, O: s})
		}
		err := p.reach(g, s, func(n rdf.Term) ([]PathMatch, error) { return p.arg.eval(g, n, nil) },
			func(m PathMatch) rdf.Term { return m.O },
			func(m PathMatch) {
				if o == nil || m.O == o {
					emit(PathMatch{S: s, O: m.O})
				}
			})
		if err != nil {
			return nil, err
		}
	case o != nil:
		if p.zero {
			emit(PathMatch{S: o, O: o})
		}
		err := p.reach(g, o, func(n rdf.Term) ([]PathMatch, error) { return p.arg.eval(g, nil, n) },
			func(m PathMatch) rdf.Term { return m.S },
			func(m PathMatch) { emit(PathMatch{S: m.S, O: o}) })
		if err != nil {
			return nil, err
		}
	default:
		if p.zero {
			nodes, err := g.AllNodes()
			if err != nil {
				return nil, err
			}
			for _, n := range nodes {
				emit(PathMatch{S: n, O: n})
			}
		}
		edges, err := p.arg.eval(g, nil, nil)
		if err != nil {
			return nil, err
		}
		starts := map[rdf.Term]bool{}
		for _, e := range edges {
			if !p.more {
				emit(e)
				continue
			}
			if starts[e.S] {
				continue
			}
			starts[e.S] = true
			from := e.S
			err := p.reach(g, from, func(n rdf.Term) ([]PathMatch, error) { return p.arg.eval(g, n, nil) },
				func(m PathMatch) rdf.Term { return m.O },
				func(m PathMatch) { emit(PathMatch{S: from, O: m.O}) })
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

type pathFrame struct {
	edges []PathMatch
	next  int
}

// reach visits the edges reachable from start depth first. step expands a
// node into edges and far picks the node an edge leads to. Without more only
// the edges of start are visited.
func (p mulPath) reach(g *Graph, start rdf.Term, step func(rdf.Term) ([]PathMatch, error),
	far func(PathMatch) rdf.Term, visit func(PathMatch)) error {
	seen := map[rdf.Term]bool{start: true}
	first, err := step(start)
	if err != nil {
		return err
	}
	stack := []pathFrame{{edges: first}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.edges) {
			stack = stack[:len(stack)-1]
			continue
		}
		e := top.edges[top.next]
		top.next++
		visit(e)
		if !p.more {
			continue
		}
		n := far(e)
		if seen[n] {
			continue
		}
		seen[n] = true
		edges, err := step(n)
		if err != nil {
			return err
		}
		stack = append(stack, pathFrame{edges: edges})
	}
	return nil
}

type negatedPath struct{ args []Path }

// NegatedPath matches a single triple whose predicate is none of args
// (!(a|^b)). Each arg must be a Pred or the InversePath of a Pred.
func NegatedPath(args ...Path) Path { return negatedPath{args: args} }

func (p negatedPath) String() string {
	if len(p.args) == 1 {
		return "!" + p.args[0].String()
	}
	return "!(" + joinPaths(p.args, "|") + ")"
}

func (p negatedPath) eval(g *Graph, s, o rdf.Term) ([]PathMatch, error) {
	var out []PathMatch
	for t, err := range g.Triples(rdf.Pattern{S: s, O: o}) {
		if err != nil {
			return nil, err
		}
		excluded, err := p.excludes(g, t)
		if err != nil {
			return nil, err
		}
		if !excluded {
			out = append(out, PathMatch{S: t.S, O: t.O})
		}
	}
	return out, nil
}

func (p negatedPath) excludes(g *Graph, t rdf.Triple) (bool, error) {
	for _, arg := range p.args {
		switch a := arg.(type) {
		case predicatePath:
			if t.P == a.iri {
				return true, nil
			}
		case inversePath:
			pred, ok := a.arg.(predicatePath)
			if !ok {
				return false, errNegatedPathArg
			}
			ok, err := g.Contains(rdf.Pattern{S: t.O, P: pred.iri, O: t.S})
			if err != nil || ok {
				return ok, err
			}
		default:
			return false, errNegatedPathArg
		}
	}
	return false, nil
}

func joinPaths(paths []Path, sep string) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = groupPath(p)
	}
	return strings.Join(parts, sep)
}

func groupPath(p Path) string {
	switch p.(type) {
	case sequencePath, alternativePath:
		return "(" + p.String() + ")"
	}
	return p.String()
}

// PathTriples returns the (subject, object) pairs joined by path. A nil
// subject or object is unbound.
func (g *Graph) PathTriples(subject rdf.Term, path Path, object rdf.Term) iter.Seq2[PathMatch, error] {
	return func(yield func(PathMatch, error) bool) {
		matches, err := path.eval(g, subject, object)
		if err != nil {
			yield(PathMatch{}, err)
			return
		}
		for _, m := range matches {
			if !yield(m, nil) {
				return
			}
		}
	}
}

// PathObjects returns the nodes reachable from subject along path.
func (g *Graph) PathObjects(subject rdf.Term, path Path) iter.Seq2[rdf.Term, error] {
	return func(yield func(rdf.Term, error) bool) {
		for m, err := range g.PathTriples(subject, path, nil) {
			if !yield(m.O, err) || err != nil {
				return
			}
		}
	}
}

// PathSubjects returns the nodes from which object is reachable along path.
func (g *Graph) PathSubjects(path Path, object rdf.Term) iter.Seq2[rdf.Term, error] {
	return func(yield func(rdf.Term, error) bool) {
		for m, err := range g.PathTriples(nil, path, object) {
			if !yield(m.S, err) || err != nil {
				return
			}
		}
	}
}
