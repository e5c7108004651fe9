// Package graph provides graphs and datasets over a pluggable store.
//
// A Graph is a view of one context of a store.Store: it holds no triples of
// its own, and every read or write goes to the store under the graph's
// identifier. Several graphs may share one store. A QuotedGraph, built with
// NewQuoted, keeps its triples as formula statements that union scans do not
// see.
//
// A Dataset groups named graphs and one default graph over a graph-aware
// store:
//
//	ds, err := graph.NewDataset(graph.WithStore(s))
//	if err != nil {
//	    // handle error
//	}
//	g, err := ds.Graph(rdf.NewIRI("http://example.org/g"))
//	if err != nil {
//	    // handle error
//	}
//	err = g.Add(rdf.NewTriple(alice, knows, bob))
//
// Scans return iter.Seq2 sequences that run against the store when iterated.
// An error, if any, is the last element yielded.
//
// Reading operations beyond pattern matching include set algebra, transitive
// closure, Concise Bounded Description, skolemization, property paths and
// ordered container views.
package graph
