package graph

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

func sorted(t testing.TB, g *Graph) []rdf.Triple {
	t.Helper()
	out := all(t, g)
	slices.SortFunc(out, rdf.CompareTriples)
	return out
}

func sameTriples(t testing.TB, want, got *Graph) {
	t.Helper()
	if diff := cmp.Diff(sorted(t, want), sorted(t, got)); diff != "" {
		t.Errorf("triples mismatch (-want +got):\n%s", diff)
	}
}

func algebraFixture(t testing.TB) (*Graph, *Graph) {
	shared := tr(ex("s"), ex("p"), ex("shared"))
	g1 := build(t, shared, tr(ex("s"), ex("p"), ex("left")), tr(ex("s"), ex("q"), lit("1")))
	g2 := build(t, shared, tr(ex("s"), ex("p"), ex("right")))
	g1.Bind("left", "http://left.example/")
	g2.Bind("right", "http://right.example/")
	return g1, g2
}

func TestSetAlgebra(t *testing.T) {
	g1, g2 := algebraFixture(t)

	union, err := g1.Union(g2)
	require.NoError(t, err)
	n, err := union.Len()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	inter, err := g1.Intersection(g2)
	require.NoError(t, err)
	assert.Equal(t, []rdf.Triple{tr(ex("s"), ex("p"), ex("shared"))}, all(t, inter))

	diff, err := g1.Difference(g2)
	require.NoError(t, err)
	sameTriples(t, build(t, tr(ex("s"), ex("p"), ex("left")), tr(ex("s"), ex("q"), lit("1"))), diff)

	xor, err := g1.SymmetricDifference(g2)
	require.NoError(t, err)
	sameTriples(t, build(t,
		tr(ex("s"), ex("p"), ex("left")),
		tr(ex("s"), ex("q"), lit("1")),
		tr(ex("s"), ex("p"), ex("right"))), xor)

	// operands are untouched
	n, err = g1.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSetAlgebraLaws(t *testing.T) {
	g1, g2 := algebraFixture(t)

	// (g1 - g2) + (g1 & g2) == g1
	diff, err := g1.Difference(g2)
	require.NoError(t, err)
	inter, err := g1.Intersection(g2)
	require.NoError(t, err)
	require.NoError(t, diff.Merge(inter))
	sameTriples(t, g1, diff)

	// g1 ^ g2 == (g1 | g2) - (g1 & g2)
	xor, err := g1.SymmetricDifference(g2)
	require.NoError(t, err)
	union, err := g1.Union(g2)
	require.NoError(t, err)
	require.NoError(t, union.Subtract(inter))
	sameTriples(t, xor, union)

	// union and intersection commute
	u1, err := g1.Union(g2)
	require.NoError(t, err)
	u2, err := g2.Union(g1)
	require.NoError(t, err)
	sameTriples(t, u1, u2)
	i1, err := g2.Intersection(g1)
	require.NoError(t, err)
	sameTriples(t, inter, i1)
}

func TestSetAlgebraCopiesNamespaces(t *testing.T) {
	g1, g2 := algebraFixture(t)
	for name, op := range map[string]func(Source) (*Graph, error){
		"union":        g1.Union,
		"intersection": g1.Intersection,
		"difference":   g1.Difference,
		"xor":          g1.SymmetricDifference,
	} {
		t.Run(name, func(t *testing.T) {
			out, err := op(g2)
			require.NoError(t, err)
			ns := out.NamespaceManager()
			_, ok := ns.Namespace("left")
			assert.True(t, ok)
			_, ok = ns.Namespace("right")
			assert.True(t, ok)
		})
	}
}

func TestMergeAndSubtractInPlace(t *testing.T) {
	g1, g2 := algebraFixture(t)
	require.NoError(t, g1.Merge(g2))
	n, err := g1.Len()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, g1.Subtract(g2))
	n, err = g1.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIsomorphic(t *testing.T) {
	g1 := build(t, tr(ex("a"), ex("p"), ex("b")), tr(bnode("x"), ex("p"), ex("b")))
	g2 := build(t, tr(ex("a"), ex("p"), ex("b")), tr(bnode("y"), ex("p"), ex("b")))
	g3 := build(t, tr(ex("a"), ex("p"), ex("c")), tr(bnode("y"), ex("p"), ex("b")))

	ok, err := g1.Isomorphic(g2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g1.Isomorphic(g3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g1.Isomorphic(build(t, tr(ex("a"), ex("p"), ex("b"))))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g1.Isomorphic(g1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConnected(t *testing.T) {
	empty := New()
	ok, err := empty.Connected()
	require.NoError(t, err)
	assert.False(t, ok)

	chain := build(t,
		tr(ex("a"), ex("p"), ex("b")),
		tr(ex("c"), ex("p"), ex("b")),
		tr(ex("c"), ex("q"), lit("leaf")))
	ok, err = chain.Connected()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = chain.Connected(RandomNode(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	assert.True(t, ok)

	split := build(t, tr(ex("a"), ex("p"), ex("b")), tr(ex("c"), ex("p"), ex("d")))
	ok, err = split.Connected()
	require.NoError(t, err)
	assert.False(t, ok)

	last := func(nodes []rdf.Term) int { return len(nodes) - 1 }
	ok, err = split.Connected(last)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllNodes(t *testing.T) {
	g := build(t, tr(ex("a"), ex("p"), ex("b")), tr(ex("b"), ex("p"), ex("a")), tr(ex("c"), ex("p"), lit("x")))
	nodes, err := g.AllNodes()
	require.NoError(t, err)
	assert.Equal(t, []rdf.Term{ex("a"), ex("b"), ex("c"), lit("x")}, nodes)
}

func TestAggregate(t *testing.T) {
	g1, g2 := algebraFixture(t)
	agg := NewAggregate(g1, g2)

	n, err := agg.Len()
	require.NoError(t, err)
	assert.Equal(t, 5, n, "length is the sum of the members")

	var got []rdf.Triple
	for x, err := range agg.Triples(rdf.Pattern{O: ex("shared")}) {
		require.NoError(t, err)
		got = append(got, x)
	}
	assert.Len(t, got, 2, "a triple held by two members is seen twice")

	ok, err := agg.Contains(rdf.Pattern{O: ex("right")})
	require.NoError(t, err)
	assert.True(t, ok)

	prefixes := map[string]string{}
	for p, ns := range agg.Namespaces() {
		prefixes[p] = ns
	}
	assert.Contains(t, prefixes, "left")
	assert.Contains(t, prefixes, "right")
	assert.Len(t, agg.Graphs(), 2)

	// an aggregate can be an operand of set algebra
	union, err := New().Union(agg)
	require.NoError(t, err)
	n, err = union.Len()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

// lifecycle is the store lifecycle shared by graphs, datasets and aggregates.
type lifecycle interface {
	Open(config string, create bool) error
	Close(commitPending bool) error
	Commit() error
	Rollback() error
	Destroy(config string) error
}

var (
	_ lifecycle = (*Graph)(nil)
	_ lifecycle = (*Dataset)(nil)
	_ lifecycle = (*Aggregate)(nil)
)

func TestAggregateIsReadOnly(t *testing.T) {
	g1, g2 := algebraFixture(t)
	agg := NewAggregate(g1, g2)
	x := tr(ex("a"), ex("p"), ex("b"))

	assert.ErrorIs(t, agg.Add(x), rdf.ErrModification)
	assert.ErrorIs(t, agg.AddN([]rdf.Quad{x.ToQuad()}), rdf.ErrModification)
	assert.ErrorIs(t, agg.Remove(rdf.Any), rdf.ErrModification)
	assert.ErrorIs(t, agg.Commit(), rdf.ErrModification)
	assert.ErrorIs(t, agg.Rollback(), rdf.ErrModification)
	assert.ErrorIs(t, agg.Destroy(""), rdf.ErrModification)
	assert.Equal(t, rdf.ErrCodeModification, rdf.Code(agg.Add(x)))

	assert.ErrorIs(t, agg.Parse(nil), rdf.ErrUnsupportedAggregateOperation)
	assert.ErrorIs(t, agg.Merge(g1), rdf.ErrUnsupportedAggregateOperation)
	assert.ErrorIs(t, agg.Subtract(g1), rdf.ErrUnsupportedAggregateOperation)
	for _, op := range []func(Source) (*Graph, error){agg.Union, agg.Difference, agg.Intersection, agg.SymmetricDifference} {
		out, err := op(g1)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, rdf.ErrUnsupportedAggregateOperation)
	}

	var lc lifecycle = agg
	require.NoError(t, lc.Open("", false))
	require.NoError(t, lc.Close(false))
}
