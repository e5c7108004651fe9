package graph

import (
	"errors"
	"fmt"
	"sync"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
)

// DefaultProcessor is the processor name Query and Update use.
const DefaultProcessor = "sparql"

// QueryProcessor evaluates queries over a graph.
type QueryProcessor interface {
	Query(g *Graph, query string, opts store.QueryOptions) (store.QueryResult, error)
}

// UpdateProcessor applies updates to a graph.
type UpdateProcessor interface {
	Update(g *Graph, update string, opts store.QueryOptions) error
}

var processors = struct {
	sync.RWMutex
	query  map[string]QueryProcessor
	update map[string]UpdateProcessor
}{
	query:  map[string]QueryProcessor{},
	update: map[string]UpdateProcessor{},
}

// RegisterQueryProcessor makes p available under name, replacing any
// previous registration.
func RegisterQueryProcessor(name string, p QueryProcessor) {
	processors.Lock()
	defer processors.Unlock()
	processors.query[name] = p
}

// RegisterUpdateProcessor makes p available under name, replacing any
// previous registration.
func RegisterUpdateProcessor(name string, p UpdateProcessor) {
	processors.Lock()
	defer processors.Unlock()
	processors.update[name] = p
}

// QueryOption configures Query and Update.
type QueryOption func(*queryOptions)

type queryOptions struct {
	processor     string
	namespaces    map[string]string
	bindings      map[string]rdf.Term
	storeProvided bool
}

// WithProcessor selects a registered processor.
func WithProcessor(name string) QueryOption {
	return func(o *queryOptions) { o.processor = name }
}

// WithNamespaces replaces the graph's prefix bindings for the request.
func WithNamespaces(ns map[string]string) QueryOption {
	return func(o *queryOptions) { o.namespaces = ns }
}

// WithBindings sets initial variable bindings.
func WithBindings(b map[string]rdf.Term) QueryOption {
	return func(o *queryOptions) { o.bindings = b }
}

// SkipStore evaluates with the processor even when the store can answer
// natively.
func SkipStore() QueryOption {
	return func(o *queryOptions) { o.storeProvided = false }
}

func (g *Graph) queryOptions(opts []QueryOption) (queryOptions, store.QueryOptions) {
	o := queryOptions{processor: DefaultProcessor, storeProvided: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.namespaces == nil {
		o.namespaces = g.ns.Map()
	}
	if o.bindings == nil {
		o.bindings = map[string]rdf.Term{}
	}
	return o, store.QueryOptions{Namespaces: o.namespaces, Bindings: o.bindings, Graph: g.context()}
}

// Query evaluates query. A store implementing store.Querier answers first;
// when it reports rdf.ErrNotImplemented the registered processor runs.
func (g *Graph) Query(query string, opts ...QueryOption) (store.QueryResult, error) {
	o, req := g.queryOptions(opts)
	if q, ok := g.store.(store.Querier); ok && o.storeProvided {
		res, err := q.Query(query, req)
		if !errors.Is(err, rdf.ErrNotImplemented) {
			return res, err
		}
	}
	processors.RLock()
	p, ok := processors.query[o.processor]
	processors.RUnlock()
	if !ok {
		return store.QueryResult{}, fmt.Errorf("graph: query processor %q: %w", o.processor, rdf.ErrNoProcessor)
	}
	return p.Query(g, query, req)
}

// Update applies update. A store implementing store.Updater applies it
// first; when it reports rdf.ErrNotImplemented the registered processor
// runs.
func (g *Graph) Update(update string, opts ...QueryOption) error {
	o, req := g.queryOptions(opts)
	if u, ok := g.store.(store.Updater); ok && o.storeProvided {
		err := u.Update(update, req)
		if !errors.Is(err, rdf.ErrNotImplemented) {
			return err
		}
	}
	processors.RLock()
	p, ok := processors.update[o.processor]
	processors.RUnlock()
	if !ok {
		return fmt.Errorf("graph: update processor %q: %w", o.processor, rdf.ErrNoProcessor)
	}
	return p.Update(g, update, req)
}
