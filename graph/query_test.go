package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
	"github.com/recalcitrantsupplant/rdflib/store/memory"
)

// subjectsProcessor answers every query with the graph's subjects.
type subjectsProcessor struct {
	last    store.QueryOptions
	updates []string
}

func (p *subjectsProcessor) Query(g *Graph, query string, opts store.QueryOptions) (store.QueryResult, error) {
	p.last = opts
	res := store.QueryResult{Vars: []string{"s"}}
	for s, err := range g.Subjects(nil, nil, true) {
		if err != nil {
			return store.QueryResult{}, err
		}
		res.Rows = append(res.Rows, map[string]rdf.Term{"s": s})
	}
	return res, nil
}

func (p *subjectsProcessor) Update(g *Graph, update string, opts store.QueryOptions) error {
	p.updates = append(p.updates, update)
	return g.Add(tr(ex("updated"), ex("by"), lit(update)))
}

// nativeStore answers queries itself unless told to defer.
type nativeStore struct {
	store.Store
	deferred bool
}

func (n *nativeStore) Query(query string, opts store.QueryOptions) (store.QueryResult, error) {
	if n.deferred {
		return store.QueryResult{}, rdf.ErrNotImplemented
	}
	yes := true
	return store.QueryResult{Boolean: &yes}, nil
}

func (n *nativeStore) Update(update string, opts store.QueryOptions) error {
	if n.deferred {
		return rdf.ErrNotImplemented
	}
	return nil
}

func TestQueryUsesRegisteredProcessor(t *testing.T) {
	p := &subjectsProcessor{}
	RegisterQueryProcessor("test-subjects", p)
	RegisterUpdateProcessor("test-subjects", p)

	g := build(t, tr(ex("a"), ex("p"), ex("b")), tr(ex("a"), ex("q"), ex("c")))
	g.Bind("ex", "http://example.org/")
	res, err := g.Query("SELECT ?s WHERE { ?s ?p ?o }",
		WithProcessor("test-subjects"), WithBindings(map[string]rdf.Term{"o": ex("b")}))
	require.NoError(t, err)
	assert.Equal(t, []map[string]rdf.Term{{"s": ex("a")}}, res.Rows)
	assert.Equal(t, "http://example.org/", p.last.Namespaces["ex"])
	assert.Equal(t, ex("b"), p.last.Bindings["o"])
	assert.Equal(t, g.Identifier(), p.last.Graph)

	require.NoError(t, g.Update("INSERT DATA {}", WithProcessor("test-subjects")))
	assert.Equal(t, []string{"INSERT DATA {}"}, p.updates)
	ok, err := g.Contains(rdf.Pattern{S: ex("updated")})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = g.Query("ASK {}", WithProcessor("test-subjects"), WithNamespaces(map[string]string{"x": "urn:x:"}))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x": "urn:x:"}, p.last.Namespaces)
}

func TestQueryWithoutProcessor(t *testing.T) {
	g := New()
	_, err := g.Query("ASK {}", WithProcessor("missing"))
	assert.ErrorIs(t, err, rdf.ErrNoProcessor)
	assert.ErrorIs(t, g.Update("CLEAR ALL", WithProcessor("missing")), rdf.ErrNoProcessor)
}

func TestQueryPrefersStore(t *testing.T) {
	p := &subjectsProcessor{}
	RegisterQueryProcessor("test-native", p)
	RegisterUpdateProcessor("test-native", p)
	ns := &nativeStore{Store: memory.New()}
	g := New(WithStore(ns))
	require.NoError(t, g.Add(tr(ex("a"), ex("p"), ex("b"))))

	res, err := g.Query("ASK {}", WithProcessor("test-native"))
	require.NoError(t, err)
	require.NotNil(t, res.Boolean)
	assert.True(t, *res.Boolean)

	res, err = g.Query("ASK {}", WithProcessor("test-native"), SkipStore())
	require.NoError(t, err)
	assert.Nil(t, res.Boolean)
	assert.Len(t, res.Rows, 1)

	ns.deferred = true
	res, err = g.Query("ASK {}", WithProcessor("test-native"))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1, "falls back to the processor")

	require.NoError(t, g.Update("CLEAR ALL", WithProcessor("test-native")))
	assert.Equal(t, []string{"CLEAR ALL"}, p.updates)
}
