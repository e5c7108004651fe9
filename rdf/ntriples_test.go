package rdf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, input string, format Format) []Quad {
	t.Helper()
	dec, err := NewReader(strings.NewReader(input), format)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out []Quad
	for q, err := range Statements(dec) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, q)
	}
	return out
}

func TestNTriplesDecodeErrors(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> .\n"
	dec, err := NewReader(strings.NewReader(input), FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := dec.Next(); err == nil {
		t.Fatal("expected error for missing object")
	}

	input = "<http://example.org/s> <http://example.org/p> <http://example.org/o>\n"
	dec, err = NewReader(strings.NewReader(input), FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = dec.Next()
	if err == nil {
		t.Fatal("expected error for missing dot")
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != 1 || perr.Column == 0 {
		t.Fatalf("expected positioned parse error, got %v", err)
	}
}

func TestNQuadsRejectGraphInTriples(t *testing.T) {
	line := "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n"
	dec, err := NewReader(strings.NewReader(line), FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := dec.Next(); err == nil {
		t.Fatal("expected error for graph term in ntriples")
	}
}

func TestNTriplesDecodeBlankAndLiteral(t *testing.T) {
	quads := readAll(t, "_:b1 <http://example.org/p> \"v\"@EN-us .\n", FormatNTriples)
	if len(quads) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(quads))
	}
	if b, ok := quads[0].S.(BlankNode); !ok || b.ID != "b1" {
		t.Fatalf("expected blank node subject, got %v", quads[0].S)
	}
	if lit, ok := quads[0].O.(Literal); !ok || lit.Lang != "en-us" {
		t.Fatalf("expected canonical lang literal, got %v", quads[0].O)
	}
}

func TestNTriplesDecodeDatatypeLiteral(t *testing.T) {
	quads := readAll(t, "<http://example.org/s> <http://example.org/p> \"1\"^^<http://www.w3.org/2001/XMLSchema#integer> .", FormatNTriples)
	lit, ok := quads[0].O.(Literal)
	if !ok || lit.Datatype != XSDInteger || lit.Lexical != "1" {
		t.Fatalf("expected typed literal, got %v", quads[0].O)
	}
}

func TestNTriplesBlankNodeBeforeDot(t *testing.T) {
	quads := readAll(t, "<http://example.org/s> <http://example.org/p> _:o.\n", FormatNTriples)
	if quads[0].O != Term(BlankNode{ID: "o"}) {
		t.Fatalf("unexpected object %v", quads[0].O)
	}
}

func TestNTriplesSkipsCommentsAndBlankLines(t *testing.T) {
	input := "# header\n\n<http://example.org/s> <http://example.org/p> <http://example.org/o> . # trailing\n"
	quads := readAll(t, input, FormatNTriples)
	if len(quads) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(quads))
	}
}

func TestNQuadsDecodeGraph(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> \"o\" <http://example.org/g> .\n" +
		"<http://example.org/s> <http://example.org/p> \"o\" .\n"
	quads := readAll(t, input, FormatNQuads)
	if len(quads) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(quads))
	}
	if quads[0].G != Term(IRI{Value: "http://example.org/g"}) {
		t.Fatalf("unexpected graph %v", quads[0].G)
	}
	if !quads[1].InDefaultGraph() {
		t.Fatalf("expected default graph, got %v", quads[1].G)
	}
}

func TestNTriplesEscapesRoundTrip(t *testing.T) {
	lit := Literal{Lexical: "line1\nline2 \"quoted\" \\ tab\t\x01 é"}
	q := Quad{S: IRI{Value: "http://example.org/s"}, P: IRI{Value: "http://example.org/p"}, O: lit}

	var buf bytes.Buffer
	enc, err := NewWriter(&buf, FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := enc.Write(q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected a single line, got %q", buf.String())
	}

	quads := readAll(t, buf.String(), FormatNTriples)
	if quads[0].O != Term(lit) {
		t.Fatalf("round trip mismatch: %v", quads[0].O)
	}
}

func TestNTriplesUnicodeEscapes(t *testing.T) {
	quads := readAll(t, `<http://example.org/s> <http://example.org/p> "é\U0001F600" .`, FormatNTriples)
	if quads[0].O.(Literal).Lexical != "é😀" {
		t.Fatalf("unexpected lexical %q", quads[0].O.(Literal).Lexical)
	}
}

func TestNQuadsEncoderOmitsDefaultGraph(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewWriter(&buf, FormatNQuads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, p, o := IRI{Value: "http://example.org/s"}, IRI{Value: "http://example.org/p"}, IRI{Value: "http://example.org/o"}
	_ = enc.Write(Quad{S: s, P: p, O: o, G: DefaultGraphIRI})
	_ = enc.Write(Quad{S: s, P: p, O: o, G: IRI{Value: "http://example.org/g"}})
	if err := enc.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n" +
		"<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestNTriplesEncoderRejectsIncomplete(t *testing.T) {
	enc, err := NewWriter(io.Discard, FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := enc.Write(Quad{}); err == nil {
		t.Fatal("expected error for empty statement")
	}
	if err := enc.Write(Quad{S: IRI{Value: "http://example.org/s"}}); err == nil {
		t.Fatal("expected error for missing fields")
	}
}

func TestStrictValidationRejectsRelativeIRI(t *testing.T) {
	dec, err := NewReader(strings.NewReader("<s> <http://example.org/p> <http://example.org/o> .\n"), FormatNTriples, OptStrictIRIValidation())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = dec.Next()
	if Code(err) != ErrCodeInvalidTerm {
		t.Fatalf("expected invalid term, got %v", err)
	}
}

func TestParseTermAndFormatTerm(t *testing.T) {
	terms := []Term{
		IRI{Value: "http://example.org/x"},
		BlankNode{ID: "b0"},
		Literal{Lexical: "plain"},
		Literal{Lexical: "hallo", Lang: "de"},
		Literal{Lexical: "5", Datatype: XSDInteger},
	}
	for _, term := range terms {
		parsed, err := ParseTerm(FormatTerm(term))
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", term, err)
		}
		if parsed != term {
			t.Fatalf("expected %v, got %v", term, parsed)
		}
	}
	if _, err := ParseTerm("<http://example.org/x> trailing"); err == nil {
		t.Fatal("expected error for trailing content")
	}
	if FormatTerm(nil) != "" {
		t.Fatal("expected empty rendering for nil term")
	}
}
