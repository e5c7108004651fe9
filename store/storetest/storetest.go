// Package storetest is a conformance suite for store.Store implementations.
package storetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
)

// Factory returns an empty, opened store. Cleanup is registered on t.
type Factory func(t testing.TB) store.Store

var (
	ex = func(local string) rdf.IRI { return rdf.IRI{Value: "http://example.org/" + local} }

	alice = ex("alice")
	bob   = ex("bob")
	carol = ex("carol")
	knows = ex("knows")
	name  = ex("name")

	g1 = ex("g1")
	g2 = ex("g2")
)

// MakeTriples returns a small social graph.
//
//	alice -knows-> bob -knows-> carol
//	alice -name-> "Alice"
//	_:b   -knows-> alice
func MakeTriples() []rdf.Triple {
	return []rdf.Triple{
		rdf.NewTriple(alice, knows, bob),
		rdf.NewTriple(bob, knows, carol),
		rdf.NewTriple(alice, name, rdf.NewLangLiteral("Alice", "en")),
		rdf.NewTriple(rdf.BlankNode{ID: "b"}, knows, alice),
	}
}

// Run executes every conformance test against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("AddAndScanInInsertionOrder", func(t *testing.T) { TestAddAndScan(t, newStore) })
	t.Run("PatternSelection", func(t *testing.T) { TestPatternSelection(t, newStore) })
	t.Run("ContextsAndUnion", func(t *testing.T) { TestContextsAndUnion(t, newStore) })
	t.Run("RemoveScopedToContext", func(t *testing.T) { TestRemoveScopedToContext(t, newStore) })
	t.Run("QuotedTriplesStayInFormula", func(t *testing.T) { TestQuotedTriples(t, newStore) })
	t.Run("GraphRegistry", func(t *testing.T) { TestGraphRegistry(t, newStore) })
	t.Run("TriplesChoices", func(t *testing.T) { TestTriplesChoices(t, newStore) })
	t.Run("ScanReflectsWrites", func(t *testing.T) { TestScanReflectsWrites(t, newStore) })
	t.Run("Destroy", func(t *testing.T) { TestDestroy(t, newStore) })
}

// Collect drains a scan into its triples.
func Collect(t testing.TB, s store.Store, p rdf.Pattern, graph rdf.Term) []rdf.Triple {
	t.Helper()
	var out []rdf.Triple
	for m, err := range s.Triples(p, graph) {
		require.NoError(t, err)
		out = append(out, m.Triple)
	}
	return out
}

func contexts(t testing.TB, s store.Store, tr *rdf.Triple) []rdf.Term {
	t.Helper()
	var out []rdf.Term
	for ctx, err := range s.Contexts(tr) {
		require.NoError(t, err)
		out = append(out, ctx)
	}
	return out
}

func length(t testing.TB, s store.Store, graph rdf.Term) int {
	t.Helper()
	n, err := s.Len(graph)
	require.NoError(t, err)
	return n
}

func TestAddAndScan(t testing.TB, newStore Factory) {
	s := newStore(t)
	triples := MakeTriples()
	for _, tr := range triples {
		require.NoError(t, s.Add(tr, g1, false))
	}
	// duplicates are ignored
	require.NoError(t, s.Add(triples[0], g1, false))

	assert.Equal(t, triples, Collect(t, s, rdf.Any, g1))
	assert.Equal(t, 4, length(t, s, g1))
	assert.Equal(t, 0, length(t, s, g2))
	assert.Empty(t, Collect(t, s, rdf.Any, g2))
}

func TestPatternSelection(t testing.TB, newStore Factory) {
	s := newStore(t)
	triples := MakeTriples()
	for _, tr := range triples {
		require.NoError(t, s.Add(tr, nil, false))
	}

	assert.Equal(t, []rdf.Triple{triples[0], triples[2]}, Collect(t, s, rdf.Pattern{S: alice}, nil))
	assert.Equal(t, []rdf.Triple{triples[0], triples[1], triples[3]}, Collect(t, s, rdf.Pattern{P: knows}, nil))
	assert.Equal(t, []rdf.Triple{triples[3]}, Collect(t, s, rdf.Pattern{O: alice}, nil))
	assert.Equal(t, []rdf.Triple{triples[1]}, Collect(t, s, triples[1].AsPattern(), nil))
	assert.Empty(t, Collect(t, s, rdf.Pattern{S: carol}, nil))
	assert.Empty(t, Collect(t, s, rdf.Pattern{S: alice, O: carol}, nil))

	// a nil write context is the default graph
	assert.Equal(t, triples, Collect(t, s, rdf.Any, rdf.DefaultGraphIRI))
}

func TestContextsAndUnion(t testing.TB, newStore Factory) {
	s := newStore(t)
	tr := MakeTriples()[0]
	other := MakeTriples()[1]
	require.NoError(t, s.Add(tr, g1, false))
	require.NoError(t, s.Add(tr, g2, false))
	require.NoError(t, s.AddN([]rdf.Quad{other.ToQuadInGraph(g2)}))

	assert.Equal(t, 2, length(t, s, nil), "union counts distinct triples")
	assert.Equal(t, []rdf.Term{g1, g2}, contexts(t, s, &tr))
	assert.Equal(t, []rdf.Term{g1, g2}, contexts(t, s, nil))

	var matches []store.Match
	for m, err := range s.Triples(tr.AsPattern(), nil) {
		require.NoError(t, err)
		matches = append(matches, m)
	}
	require.Len(t, matches, 1)
	assert.ElementsMatch(t, []rdf.Term{g1, g2}, matches[0].Contexts)
}

func TestRemoveScopedToContext(t testing.TB, newStore Factory) {
	s := newStore(t)
	triples := MakeTriples()
	for _, tr := range triples {
		require.NoError(t, s.Add(tr, g1, false))
		require.NoError(t, s.Add(tr, g2, false))
	}

	require.NoError(t, s.Remove(rdf.Pattern{S: alice}, g1))
	assert.Equal(t, []rdf.Triple{triples[1], triples[3]}, Collect(t, s, rdf.Any, g1))
	assert.Equal(t, triples, Collect(t, s, rdf.Any, g2))
	assert.Equal(t, 4, length(t, s, nil))

	require.NoError(t, s.Remove(rdf.Pattern{P: knows}, nil))
	assert.Empty(t, Collect(t, s, rdf.Any, g1))
	assert.Equal(t, []rdf.Triple{triples[2]}, Collect(t, s, rdf.Any, g2))
	assert.Equal(t, 1, length(t, s, nil))
}

func TestQuotedTriples(t testing.TB, newStore Factory) {
	s := newStore(t)
	if !s.Capabilities().FormulaAware {
		t.Skip("store is not formula aware")
	}
	formula := rdf.BlankNode{ID: "formula"}
	tr := MakeTriples()[0]
	require.NoError(t, s.Add(tr, formula, true))

	assert.Equal(t, []rdf.Triple{tr}, Collect(t, s, rdf.Any, formula))
	assert.Empty(t, Collect(t, s, rdf.Any, nil))
	assert.Empty(t, contexts(t, s, &tr))
	assert.NotContains(t, contexts(t, s, nil), rdf.Term(formula))
	assert.Equal(t, 0, length(t, s, nil))

	quoted, err := s.IsFormula(formula)
	require.NoError(t, err)
	assert.True(t, quoted)
	quoted, err = s.IsFormula(g1)
	require.NoError(t, err)
	assert.False(t, quoted)

	// removing everything asserted leaves the formula alone
	require.NoError(t, s.Remove(rdf.Any, nil))
	assert.Equal(t, []rdf.Triple{tr}, Collect(t, s, rdf.Any, formula))
}

func TestGraphRegistry(t testing.TB, newStore Factory) {
	s := newStore(t)
	if !s.Capabilities().GraphAware {
		t.Skip("store is not graph aware")
	}
	require.NoError(t, s.AddGraph(g1))
	assert.Equal(t, []rdf.Term{g1}, contexts(t, s, nil))
	assert.Equal(t, 0, length(t, s, g1))

	require.NoError(t, s.Add(MakeTriples()[0], g1, false))
	require.NoError(t, s.AddGraph(g1))
	assert.Equal(t, 1, length(t, s, g1), "re-adding a graph keeps its triples")

	require.NoError(t, s.RemoveGraph(g1))
	assert.Empty(t, contexts(t, s, nil))
	assert.Equal(t, 0, length(t, s, nil))
}

func TestTriplesChoices(t testing.TB, newStore Factory) {
	s := newStore(t)
	triples := MakeTriples()
	for _, tr := range triples {
		require.NoError(t, s.Add(tr, g1, false))
	}
	var got []rdf.Triple
	choices := rdf.Choices{Pattern: rdf.Pattern{P: knows}, Subjects: []rdf.Term{bob, alice, carol}}
	for m, err := range s.TriplesChoices(choices, g1) {
		require.NoError(t, err)
		got = append(got, m.Triple)
	}
	assert.Equal(t, []rdf.Triple{triples[1], triples[0]}, got)
}

func TestScanReflectsWrites(t testing.TB, newStore Factory) {
	s := newStore(t)
	triples := MakeTriples()
	require.NoError(t, s.Add(triples[0], g1, false))
	scan := s.Triples(rdf.Any, g1)

	// the scan is evaluated when iterated
	require.NoError(t, s.Add(triples[1], g1, false))
	var first []rdf.Triple
	for m, err := range scan {
		require.NoError(t, err)
		first = append(first, m.Triple)
		// writes during iteration must not disturb the running scan
		require.NoError(t, s.Add(triples[2], g1, false))
	}
	assert.Equal(t, triples[:2], first)

	var second []rdf.Triple
	for m, err := range scan {
		require.NoError(t, err)
		second = append(second, m.Triple)
	}
	assert.Equal(t, triples[:3], second)
}

func TestDestroy(t testing.TB, newStore Factory) {
	s := newStore(t)
	for _, tr := range MakeTriples() {
		require.NoError(t, s.Add(tr, g1, false))
	}
	require.NoError(t, s.Destroy(""))
	assert.Equal(t, 0, length(t, s, nil))
	assert.Empty(t, contexts(t, s, nil))
}
