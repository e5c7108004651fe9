package rdf

import (
	"bytes"
	"strings"
	"testing"
)

func TestJSONLDDecode(t *testing.T) {
	input := `{
  "@id": "http://example.org/s",
  "http://example.org/p": [{"@value": "v", "@language": "en"}],
  "@type": "http://example.org/T"
}`
	quads := readAll(t, input, FormatJSONLD)
	if len(quads) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(quads), quads)
	}
	var sawType, sawValue bool
	for _, q := range quads {
		if q.S != Term(IRI{Value: "http://example.org/s"}) {
			t.Fatalf("unexpected subject %v", q.S)
		}
		switch q.P {
		case RDFType:
			sawType = q.O == Term(IRI{Value: "http://example.org/T"})
		case IRI{Value: "http://example.org/p"}:
			sawValue = q.O == Term(Literal{Lexical: "v", Lang: "en"})
		}
	}
	if !sawType || !sawValue {
		t.Fatalf("missing statements: %v", quads)
	}
}

func TestJSONLDDecodeInvalidJSON(t *testing.T) {
	dec, err := NewReader(strings.NewReader("{not json"), FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := dec.Next(); Code(err) != ErrCodeParseError {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestJSONLDEncode(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewWriter(&buf, FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := Quad{S: IRI{Value: "http://example.org/s"}, P: IRI{Value: "http://example.org/p"}, O: Literal{Lexical: "v"}}
	if err := enc.Write(q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"@id": "http://example.org/s"`) || !strings.Contains(out, `"@value": "v"`) {
		t.Fatalf("unexpected output: %s", out)
	}

	quads := readAll(t, out, FormatJSONLD)
	if len(quads) != 1 || quads[0].ToTriple() != q.ToTriple() {
		t.Fatalf("round trip mismatch: %v", quads)
	}
}
