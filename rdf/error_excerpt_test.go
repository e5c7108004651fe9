package rdf

import (
	"errors"
	"strings"
	"testing"
)

func TestParseErrorExcerptCaret(t *testing.T) {
	err := &ParseError{Format: "ntriples", Statement: "<a> <b> oops .", Line: 3, Column: 9, Err: errors.New("unexpected token")}
	msg := err.Error()
	if !strings.HasPrefix(msg, "ntriples:3:9: unexpected token") {
		t.Fatalf("unexpected prefix: %s", msg)
	}
	lines := strings.Split(msg, "\n")
	if len(lines) != 3 || strings.Index(lines[2], "^") != strings.Index(lines[1], "oops") {
		t.Fatalf("caret misplaced:\n%s", msg)
	}
}

func TestParseErrorLongStatementTruncated(t *testing.T) {
	err := &ParseError{Format: "nquads", Statement: strings.Repeat("x", 200), Err: errors.New("bad")}
	if !strings.Contains(err.Error(), "...") {
		t.Fatalf("expected truncated excerpt: %s", err.Error())
	}
}
