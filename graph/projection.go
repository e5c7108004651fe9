package graph

import (
	"iter"

	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// SubjectPredicate is a (subject, predicate) projection of a triple.
type SubjectPredicate struct {
	S rdf.Term
	P rdf.IRI
}

// SubjectObject is a (subject, object) projection of a triple.
type SubjectObject struct {
	S rdf.Term
	O rdf.Term
}

// PredicateObject is a (predicate, object) projection of a triple.
type PredicateObject struct {
	P rdf.IRI
	O rdf.Term
}

// project maps the triples matching p through key. With unique set, values
// already produced are skipped; when the graph's unique limit is reached the
// sequence ends with rdf.ErrUniqueLimitExceeded.
func project[K comparable](g *Graph, p rdf.Pattern, unique bool, key func(rdf.Triple) K) iter.Seq2[K, error] {
	return func(yield func(K, error) bool) {
		var zero K
		var seen map[K]struct{}
		if unique {
			seen = map[K]struct{}{}
		}
		for t, err := range g.Triples(p) {
			if err != nil {
				yield(zero, err)
				return
			}
			k := key(t)
			if unique {
				if _, dup := seen[k]; dup {
					continue
				}
				if g.uniqueLimit > 0 && len(seen) >= g.uniqueLimit {
					g.log.Error("unique projection exceeded its limit",
						zap.Int("limit", g.uniqueLimit), zap.String("graph", rdf.FormatTerm(g.id)))
					yield(zero, rdf.ErrUniqueLimitExceeded)
					return
				}
				seen[k] = struct{}{}
			}
			if !yield(k, nil) {
				return
			}
		}
	}
}

// Subjects returns the subjects of triples matching (*, predicate, object).
func (g *Graph) Subjects(predicate, object rdf.Term, unique bool) iter.Seq2[rdf.Term, error] {
	return project(g, rdf.Pattern{P: predicate, O: object}, unique, func(t rdf.Triple) rdf.Term { return t.S })
}

// Predicates returns the predicates of triples matching (subject, *, object).
func (g *Graph) Predicates(subject, object rdf.Term, unique bool) iter.Seq2[rdf.IRI, error] {
	return project(g, rdf.Pattern{S: subject, O: object}, unique, func(t rdf.Triple) rdf.IRI { return t.P })
}

// Objects returns the objects of triples matching (subject, predicate, *).
func (g *Graph) Objects(subject, predicate rdf.Term, unique bool) iter.Seq2[rdf.Term, error] {
	return project(g, rdf.Pattern{S: subject, P: predicate}, unique, func(t rdf.Triple) rdf.Term { return t.O })
}

// SubjectPredicates returns the (subject, predicate) pairs of triples with
// the given object.
func (g *Graph) SubjectPredicates(object rdf.Term, unique bool) iter.Seq2[SubjectPredicate, error] {
	return project(g, rdf.Pattern{O: object}, unique, func(t rdf.Triple) SubjectPredicate {
		return SubjectPredicate{S: t.S, P: t.P}
	})
}

// SubjectObjects returns the (subject, object) pairs of triples with the
// given predicate.
func (g *Graph) SubjectObjects(predicate rdf.Term, unique bool) iter.Seq2[SubjectObject, error] {
	return project(g, rdf.Pattern{P: predicate}, unique, func(t rdf.Triple) SubjectObject {
		return SubjectObject{S: t.S, O: t.O}
	})
}

// PredicateObjects returns the (predicate, object) pairs of triples with the
// given subject.
func (g *Graph) PredicateObjects(subject rdf.Term, unique bool) iter.Seq2[PredicateObject, error] {
	return project(g, rdf.Pattern{S: subject}, unique, func(t rdf.Triple) PredicateObject {
		return PredicateObject{P: t.P, O: t.O}
	})
}

// ValueOption configures Value.
type ValueOption func(*valueOptions)

type valueOptions struct {
	def    rdf.Term
	unique bool
}

// Default sets the term Value returns when nothing matches.
func Default(t rdf.Term) ValueOption {
	return func(o *valueOptions) { o.def = t }
}

// RequireUnique makes Value fail with a *rdf.UniquenessError when more than
// one value matches.
func RequireUnique() ValueOption {
	return func(o *valueOptions) { o.unique = true }
}

// Value resolves the one nil position of (subject, predicate, object) to the
// first matching term. More than one nil position is ambiguous and yields the
// default. With every position bound, Value returns object when the triple
// is present. A missing match yields the default, not an error.
func (g *Graph) Value(subject, predicate, object rdf.Term, opts ...ValueOption) (rdf.Term, error) {
	var o valueOptions
	for _, opt := range opts {
		opt(&o)
	}
	unbound := 0
	for _, t := range []rdf.Term{subject, predicate, object} {
		if t == nil {
			unbound++
		}
	}
	if unbound > 1 {
		return o.def, nil
	}
	if unbound == 0 {
		ok, err := g.Contains(rdf.Pattern{S: subject, P: predicate, O: object})
		if err != nil || !ok {
			return o.def, err
		}
		return object, nil
	}

	var values iter.Seq2[rdf.Term, error]
	switch {
	case object == nil:
		values = g.Objects(subject, predicate, false)
	case subject == nil:
		values = g.Subjects(predicate, object, false)
	default:
		values = func(yield func(rdf.Term, error) bool) {
			for p, err := range g.Predicates(subject, object, false) {
				if !yield(p, err) {
					return
				}
			}
		}
	}

	var first rdf.Term
	for v, err := range values {
		if err != nil {
			return nil, err
		}
		if first == nil {
			first = v
			if !o.unique {
				break
			}
			continue
		}
		return nil, g.uniquenessError(subject, predicate, object)
	}
	if first == nil {
		return o.def, nil
	}
	return first, nil
}

func (g *Graph) uniquenessError(subject, predicate, object rdf.Term) error {
	e := &rdf.UniquenessError{Subject: subject, Predicate: predicate, Object: object}
	for m, err := range g.store.Triples(rdf.Pattern{S: subject, P: predicate, O: object}, g.context()) {
		if err != nil {
			return err
		}
		for _, ctx := range m.Contexts {
			e.Matches = append(e.Matches, m.Triple.ToQuadInGraph(ctx))
		}
	}
	return e
}
