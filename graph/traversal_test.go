package graph

import (
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

func cycle(t testing.TB) *Graph {
	return build(t,
		tr(ex("a"), ex("p"), ex("b")),
		tr(ex("b"), ex("p"), ex("c")),
		tr(ex("c"), ex("p"), ex("a")))
}

func TestTransitiveObjectsAndSubjects(t *testing.T) {
	g := cycle(t)
	assert.Equal(t, []rdf.Term{ex("a"), ex("b"), ex("c")}, terms(t, g.TransitiveObjects(ex("a"), ex("p"))))
	assert.Equal(t, []rdf.Term{ex("a"), ex("c"), ex("b")}, terms(t, g.TransitiveSubjects(ex("p"), ex("a"))))
	assert.Equal(t, []rdf.Term{ex("z")}, terms(t, g.TransitiveObjects(ex("z"), ex("p"))))
}

func follow(p rdf.IRI) StepFunc {
	return func(n rdf.Term, g *Graph) iter.Seq2[rdf.Term, error] {
		return g.Objects(n, p, false)
	}
}

func TestTransitiveClosureTerminatesOnCycles(t *testing.T) {
	g := cycle(t)
	got := terms(t, g.TransitiveClosure(follow(ex("p")), ex("a")))
	assert.Equal(t, []rdf.Term{ex("b"), ex("c"), ex("a")}, got)
}

func TestTransitiveClosureStopsEarly(t *testing.T) {
	g := cycle(t)
	var got []rdf.Term
	for n, err := range g.TransitiveClosure(follow(ex("p")), ex("a")) {
		require.NoError(t, err)
		got = append(got, n)
		break
	}
	assert.Equal(t, []rdf.Term{ex("b")}, got)
}

func TestCBDFollowsBlankNodes(t *testing.T) {
	o1 := bnode("o1")
	g := build(t,
		tr(ex("r"), ex("p1"), o1),
		tr(o1, ex("p2"), ex("o3")),
		tr(ex("o3"), ex("p"), ex("elsewhere")),
		tr(ex("other"), ex("p1"), ex("x")))

	cbd, err := g.CBD(ex("r"))
	require.NoError(t, err)
	sameTriples(t, build(t, tr(ex("r"), ex("p1"), o1), tr(o1, ex("p2"), ex("o3"))), cbd)
}

func TestCBDIncludesReifications(t *testing.T) {
	o1 := bnode("o1")
	x := bnode("x")
	reified := []rdf.Triple{
		tr(x, rdf.RDFSubject, ex("r")),
		tr(x, rdf.RDFPredicate, ex("p1")),
		tr(x, rdf.RDFObject, o1),
	}
	base := []rdf.Triple{tr(ex("r"), ex("p1"), o1), tr(o1, ex("p2"), ex("o3"))}
	g := build(t, append(base, reified...)...)

	target := New()
	cbd, err := g.CBD(ex("r"), CBDInto(target))
	require.NoError(t, err)
	assert.Same(t, target, cbd)
	sameTriples(t, build(t, append(base, reified...)...), cbd)
}

func TestCBDOfSelfReferencingBlankNodes(t *testing.T) {
	a, b := bnode("a"), bnode("b")
	g := build(t, tr(ex("r"), ex("p"), a), tr(a, ex("p"), b), tr(b, ex("p"), a))
	cbd, err := g.CBD(ex("r"))
	require.NoError(t, err)
	n, err := cbd.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSkolemizeRoundTrip(t *testing.T) {
	g := build(t,
		tr(bnode("b1"), ex("p"), bnode("b2")),
		tr(bnode("b2"), ex("p"), lit("x")),
		tr(ex("a"), ex("p"), bnode("b1")))

	sk, err := g.Skolemize()
	require.NoError(t, err)
	for x := range sk.All() {
		assert.False(t, rdf.IsBlank(x.S) || rdf.IsBlank(x.O), "blank node left in %s", x)
	}
	assert.Contains(t, all(t, sk), tr(rdf.NewIRI(rdf.SkolemNamespace+"b1"), ex("p"), rdf.NewIRI(rdf.SkolemNamespace+"b2")))

	back, err := sk.DeSkolemize()
	require.NoError(t, err)
	sameTriples(t, g, back)

	n, err := g.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n, "source is untouched")
}

func TestSkolemizeOptions(t *testing.T) {
	g := build(t, tr(bnode("b1"), ex("p"), bnode("b2")))

	only, err := g.Skolemize(OnlyNode(bnode("b1")))
	require.NoError(t, err)
	x := all(t, only)[0]
	assert.IsType(t, rdf.IRI{}, x.S)
	assert.Equal(t, bnode("b2"), x.O)

	custom, err := g.Skolemize(SkolemAuthority("http://example.com"), SkolemBasePath("/.well-known/genid/rdflib/"))
	require.NoError(t, err)
	x = all(t, custom)[0]
	assert.True(t, strings.HasPrefix(x.S.(rdf.IRI).Value, "http://example.com/.well-known/genid/rdflib/"))

	target := New()
	out, err := g.Skolemize(SkolemInto(target))
	require.NoError(t, err)
	assert.Same(t, target, out)

	back, err := custom.DeSkolemize(OnlyNode(x.S))
	require.NoError(t, err)
	assert.Equal(t, bnode("b1"), all(t, back)[0].S)
	assert.IsType(t, rdf.IRI{}, all(t, back)[0].O)
}

func TestDeSkolemizeExternalGenIDs(t *testing.T) {
	ext := rdf.NewIRI("http://other.example/.well-known/genid/abc")
	g := build(t, tr(ext, ex("p"), ex("a")), tr(ex("b"), ex("p"), ext), tr(ex("c"), ex("p"), ex("plain")))

	back, err := g.DeSkolemize()
	require.NoError(t, err)
	triples := all(t, back)
	require.Len(t, triples, 3)
	assert.IsType(t, rdf.BlankNode{}, triples[0].S)
	assert.Equal(t, triples[0].S, triples[1].O, "the same genid maps to the same blank node")
	assert.Equal(t, ex("plain"), triples[2].O)

	unchanged, err := g.DeSkolemize(OnlyNode(ex("plain")))
	require.NoError(t, err)
	sameTriples(t, g, unchanged)
}

func TestSeq(t *testing.T) {
	s := ex("list")
	g := build(t,
		tr(s, rdf.RDFType, rdf.RDFSeq),
		tr(s, rdf.ContainerMembership(2), lit("b")),
		tr(s, rdf.ContainerMembership(10), lit("j")),
		tr(s, rdf.ContainerMembership(1), lit("a")),
		tr(s, rdf.ContainerMembership(2), lit("dup")),
		tr(s, ex("label"), lit("not a member")))

	seq, ok, err := g.Seq(s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, seq.Len())
	assert.Equal(t, []rdf.Term{lit("a"), lit("b"), lit("j")}, seq.Items())
	assert.Equal(t, lit("j"), seq.At(2))
	for i, item := range seq.All() {
		assert.Equal(t, seq.At(i), item)
	}

	_, ok, err = g.Seq(ex("untyped"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestItems(t *testing.T) {
	l1, l2 := bnode("l1"), bnode("l2")
	g := build(t,
		tr(l1, rdf.RDFFirst, lit("a")),
		tr(l1, rdf.RDFRest, l2),
		tr(l2, rdf.RDFFirst, lit("b")),
		tr(l2, rdf.RDFRest, rdf.RDFNil))
	assert.Equal(t, []rdf.Term{lit("a"), lit("b")}, terms(t, g.Items(l1)))

	require.NoError(t, g.Set(tr(l2, rdf.RDFRest, l1)))
	var got []rdf.Term
	var last error
	for item, err := range g.Items(l1) {
		if err != nil {
			last = err
			break
		}
		got = append(got, item)
	}
	assert.ErrorIs(t, last, rdf.ErrListCycle)
	assert.Equal(t, []rdf.Term{lit("a"), lit("b")}, got)
}

func pathFixture(t testing.TB) *Graph {
	return build(t,
		tr(ex("a"), ex("knows"), ex("b")),
		tr(ex("b"), ex("knows"), ex("c")),
		tr(ex("c"), ex("knows"), ex("d")),
		tr(ex("a"), ex("name"), lit("A")),
		tr(ex("b"), ex("name"), lit("B")))
}

func TestPaths(t *testing.T) {
	g := pathFixture(t)
	knows, name := Pred(ex("knows")), Pred(ex("name"))

	cases := []struct {
		name string
		got  []rdf.Term
		want []rdf.Term
	}{
		{"sequence", terms(t, g.PathObjects(ex("a"), SequencePath(knows, name))), []rdf.Term{lit("B")}},
		{"one or more", terms(t, g.PathObjects(ex("a"), OneOrMore(knows))), []rdf.Term{ex("b"), ex("c"), ex("d")}},
		{"zero or more", terms(t, g.PathObjects(ex("a"), ZeroOrMore(knows))), []rdf.Term{ex("a"), ex("b"), ex("c"), ex("d")}},
		{"zero or one", terms(t, g.PathObjects(ex("a"), ZeroOrOne(knows))), []rdf.Term{ex("a"), ex("b")}},
		{"inverse", terms(t, g.PathObjects(ex("b"), InversePath(knows))), []rdf.Term{ex("a")}},
		{"alternative", terms(t, g.PathObjects(ex("a"), AlternativePath(knows, name))), []rdf.Term{ex("b"), lit("A")}},
		{"negated", terms(t, g.PathObjects(ex("a"), NegatedPath(knows))), []rdf.Term{lit("A")}},
		{"backward one or more", terms(t, g.PathSubjects(OneOrMore(knows), ex("d"))), []rdf.Term{ex("c"), ex("b"), ex("a")}},
		{"backward sequence", terms(t, g.PathSubjects(SequencePath(knows, knows), ex("c"))), []rdf.Term{ex("a")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestPathTriplesBothBound(t *testing.T) {
	g := pathFixture(t)
	var got []PathMatch
	for m, err := range g.PathTriples(ex("a"), OneOrMore(Pred(ex("knows"))), ex("d")) {
		require.NoError(t, err)
		got = append(got, m)
	}
	assert.Equal(t, []PathMatch{{S: ex("a"), O: ex("d")}}, got)
}

func TestNegatedPathRejectsComplexArguments(t *testing.T) {
	g := pathFixture(t)
	bad := NegatedPath(SequencePath(Pred(ex("knows")), Pred(ex("name"))))
	_, err := collect(g.PathObjects(ex("a"), bad))
	assert.ErrorIs(t, err, errNegatedPathArg)
}

func TestPathString(t *testing.T) {
	knows, name := Pred(ex("knows")), Pred(ex("name"))
	p := SequencePath(InversePath(knows), ZeroOrMore(AlternativePath(knows, name)))
	assert.Equal(t, "^<http://example.org/knows>/(<http://example.org/knows>|<http://example.org/name>)*", p.String())
	assert.Equal(t, "!(<http://example.org/knows>|^<http://example.org/name>)", NegatedPath(knows, InversePath(name)).String())
}

func TestPathTriplesAgreesWithTriplesForPredicates(t *testing.T) {
	g := pathFixture(t)
	var want []PathMatch
	for x, err := range g.Triples(rdf.Pattern{P: ex("knows")}) {
		require.NoError(t, err)
		want = append(want, PathMatch{S: x.S, O: x.O})
	}
	var got []PathMatch
	for m, err := range g.PathTriples(nil, Pred(ex("knows")), nil) {
		require.NoError(t, err)
		got = append(got, m)
	}
	assert.ElementsMatch(t, want, got)
	assert.Len(t, got, 3)
}
