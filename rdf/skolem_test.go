package rdf

import "testing"

func TestSkolemizeRoundTrip(t *testing.T) {
	b := BlankNode{ID: "abc123"}
	iri := b.Skolemize("", "")
	if iri.Value != "https://rdflib.github.io/.well-known/genid/rdflib/abc123" {
		t.Fatalf("unexpected skolem IRI %s", iri)
	}
	if !IsSkolem(iri) || IsExternalSkolem(iri) {
		t.Fatal("expected own skolem IRI")
	}
	back, ok := DeSkolemize(iri)
	if !ok || back != b {
		t.Fatalf("expected %v, got %v", b, back)
	}
}

func TestSkolemizeCustomAuthority(t *testing.T) {
	iri := BlankNode{ID: "x"}.Skolemize("http://example.org/", "")
	if iri.Value != "http://example.org/.well-known/genid/rdflib/x" {
		t.Fatalf("unexpected skolem IRI %s", iri)
	}
	if !IsSkolem(iri) {
		t.Fatal("expected skolem IRI under any authority with the default base path")
	}
}

func TestDeSkolemizeExternalIsStable(t *testing.T) {
	iri := IRI{Value: "http://other.example/.well-known/genid/xyz"}
	if !IsExternalSkolem(iri) {
		t.Fatal("expected external skolem IRI")
	}
	a, ok := DeSkolemize(iri)
	if !ok {
		t.Fatal("expected external genid to map to a blank node")
	}
	b, _ := DeSkolemize(iri)
	if a != b {
		t.Fatalf("expected memoized blank node, got %v and %v", a, b)
	}
}

func TestDeSkolemizeRejectsPlainIRI(t *testing.T) {
	if _, ok := DeSkolemize(IRI{Value: "http://example.org/thing"}); ok {
		t.Fatal("expected plain IRI to be left alone")
	}
	if IsSkolem(IRI{Value: "/.well-known/genid/rdflib/x"}) {
		t.Fatal("expected relative reference to be rejected")
	}
}
