package graph

import (
	"iter"
	"testing"

	"go.uber.org/goleak"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ex(local string) rdf.IRI { return rdf.NewIRI("http://example.org/" + local) }

func bnode(id string) rdf.BlankNode { return rdf.BlankNode{ID: id} }

func lit(s string) rdf.Literal { return rdf.NewLiteral(s) }

func tr(s rdf.Term, p rdf.IRI, o rdf.Term) rdf.Triple { return rdf.NewTriple(s, p, o) }

// build returns a memory graph holding triples.
func build(t testing.TB, triples ...rdf.Triple) *Graph {
	t.Helper()
	g := New()
	for _, x := range triples {
		if err := g.Add(x); err != nil {
			t.Fatalf("add %s: %v", x, err)
		}
	}
	return g
}

func all(t testing.TB, g *Graph) []rdf.Triple {
	t.Helper()
	out, err := collect(g.All())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func terms(t testing.TB, seq iter.Seq2[rdf.Term, error]) []rdf.Term {
	t.Helper()
	var out []rdf.Term
	for v, err := range seq {
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		out = append(out, v)
	}
	return out
}
