// Package store defines the backend contract graphs and datasets are built on
// and a registry that resolves backends by name.
//
// A Store holds triples in contexts. A context is named by an IRI or blank
// node; rdf.DefaultGraphIRI names the default graph. A nil context means "no
// context filter": scans run over the union of every asserted context and
// removals apply to every asserted context. Triples added with quoted=true
// belong only to their formula context and never appear in union scans.
package store

import (
	"iter"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// Capabilities describes what a backend supports.
type Capabilities struct {
	// ContextAware stores keep triples in separate contexts.
	ContextAware bool
	// GraphAware stores track graph names independently of their triples,
	// so empty graphs exist.
	GraphAware bool
	// FormulaAware stores keep quoted triples apart from asserted ones.
	FormulaAware bool
	// Transactional stores buffer writes until Commit.
	Transactional bool
}

// Match is a triple found by a scan together with the asserted contexts
// holding it. A scan of a single context reports only that context.
type Match struct {
	Triple   rdf.Triple
	Contexts []rdf.Term
}

// Store is a pluggable triple backend.
//
// Scans are evaluated when iterated, reflect every write that completed
// before iteration started, and yield triples in insertion order. Writes made
// while a scan is in progress are not guaranteed to be visible to it.
type Store interface {
	// Add inserts t into graph. A nil graph is the default graph.
	Add(t rdf.Triple, graph rdf.Term, quoted bool) error
	// AddN inserts asserted quads; a nil G is the default graph.
	AddN(quads []rdf.Quad) error
	// Remove deletes triples matching p from graph, or from every asserted
	// context when graph is nil.
	Remove(p rdf.Pattern, graph rdf.Term) error
	// Triples scans graph, or the union of asserted contexts when graph is nil.
	Triples(p rdf.Pattern, graph rdf.Term) iter.Seq2[Match, error]
	// TriplesChoices scans one pattern per choice, in choice order.
	TriplesChoices(c rdf.Choices, graph rdf.Term) iter.Seq2[Match, error]
	// Len counts triples in graph, or distinct asserted triples when graph is nil.
	Len(graph rdf.Term) (int, error)
	// Contexts lists asserted contexts containing t, or every known asserted
	// context when t is nil.
	Contexts(t *rdf.Triple) iter.Seq2[rdf.Term, error]
	// IsFormula reports whether graph holds quoted triples.
	IsFormula(graph rdf.Term) (bool, error)
	// AddGraph registers an empty graph name.
	AddGraph(graph rdf.Term) error
	// RemoveGraph deletes a graph name and its triples.
	RemoveGraph(graph rdf.Term) error

	Open(config string, create bool) error
	Close(commitPending bool) error
	Commit() error
	Rollback() error
	// Destroy removes the persistent data identified by config.
	Destroy(config string) error

	Capabilities() Capabilities
}

// QueryOptions carries the namespace bindings and initial variable
// bindings of a query or update.
type QueryOptions struct {
	Namespaces map[string]string
	Bindings   map[string]rdf.Term
	// Graph is the context the request runs against; nil is the union.
	Graph rdf.Term
}

// QueryResult is a query answer: solution rows for SELECT, a boolean for
// ASK, or triples for CONSTRUCT and DESCRIBE.
type QueryResult struct {
	Vars    []string
	Rows    []map[string]rdf.Term
	Boolean *bool
	Triples []rdf.Triple
}

// Querier is implemented by backends that evaluate queries natively.
// Returning rdf.ErrNotImplemented defers to the registered processor.
type Querier interface {
	Query(query string, opts QueryOptions) (QueryResult, error)
}

// Updater is implemented by backends that apply updates natively.
// Returning rdf.ErrNotImplemented defers to the registered processor.
type Updater interface {
	Update(update string, opts QueryOptions) error
}

// ExpandChoices implements TriplesChoices on top of Triples. Backends without
// a native multi-value scan delegate to it.
func ExpandChoices(s Store, c rdf.Choices, graph rdf.Term) iter.Seq2[Match, error] {
	return func(yield func(Match, error) bool) {
		for _, p := range c.Expand() {
			for m, err := range s.Triples(p, graph) {
				if !yield(m, err) || err != nil {
					return
				}
			}
		}
	}
}

// NormalizeContext maps a nil write context to the default graph.
func NormalizeContext(graph rdf.Term) rdf.Term {
	if graph == nil {
		return rdf.DefaultGraphIRI
	}
	return graph
}
