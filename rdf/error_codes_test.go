package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestErrorCode_UnsupportedFormat(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), Format("unknown"))
	if err == nil {
		t.Fatal("expected error")
	}
	if code := Code(err); code != ErrCodeUnsupportedFormat {
		t.Errorf("expected ErrCodeUnsupportedFormat, got %v", code)
	}
}

func TestErrorCode_LineTooLong(t *testing.T) {
	longLine := strings.Repeat("a", 65<<10)
	dec, err := NewReader(strings.NewReader(longLine+"\n"), FormatNTriples, OptMaxLineBytes(64<<10))
	if err != nil {
		t.Fatalf("unexpected error creating reader: %v", err)
	}
	defer dec.Close()

	_, err = dec.Next()
	if code := Code(err); code != ErrCodeLineTooLong {
		t.Errorf("expected ErrCodeLineTooLong, got %v", code)
	}
}

func TestErrorCode_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Parse(ctx, strings.NewReader("<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"), FormatNTriples, func(Quad) error { return nil })
	if code := Code(err); code != ErrCodeContextCanceled {
		t.Errorf("expected ErrCodeContextCanceled, got %v", code)
	}
}

func TestErrorCode_Nil(t *testing.T) {
	if Code(nil) != "" || Code(io.EOF) != "" {
		t.Fatal("expected empty code")
	}
}

func TestErrorCode_Taxonomy(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{&InvalidTermError{Position: PositionSubject, Reason: "missing term"}, ErrCodeInvalidTerm},
		{&UniquenessError{}, ErrCodeUniqueness},
		{fmt.Errorf("wrapped: %w", ErrModification), ErrCodeModification},
		{ErrUnsupportedAggregateOperation, ErrCodeUnsupportedAggregate},
		{&ConfigurationError{Store: "x", Err: ErrNotGraphAware}, ErrCodeConfiguration},
		{&ParseFormatError{Attempted: "ntriples", Err: errors.New("boom")}, ErrCodeParseFormat},
		{ErrUniqueLimitExceeded, ErrCodeResourceExhausted},
		{ErrGraphNotFound, ErrCodeGraphNotFound},
		{ErrWrongGraphKind, ErrCodeWrongGraphKind},
		{ErrNotImplemented, ErrCodeNotImplemented},
		{ErrStoreClosed, ErrCodeStore},
		{errors.New("other"), ErrCodeParseError},
	}
	for _, tc := range cases {
		if code := Code(tc.err); code != tc.code {
			t.Errorf("%v: expected %v, got %v", tc.err, tc.code, code)
		}
	}
}

func TestUniquenessErrorListsMatches(t *testing.T) {
	s, p := IRI{Value: "http://example.org/s"}, IRI{Value: "http://example.org/p"}
	err := &UniquenessError{
		Subject:   s,
		Predicate: p,
		Matches: []Quad{
			{S: s, P: p, O: Literal{Lexical: "a"}, G: IRI{Value: "http://example.org/g"}},
			{S: s, P: p, O: Literal{Lexical: "b"}, G: IRI{Value: "http://example.org/g"}},
		},
	}
	msg := err.Error()
	if !strings.Contains(msg, `"a"`) || !strings.Contains(msg, `"b"`) {
		t.Fatalf("expected both matches in message: %s", msg)
	}
}

func TestParseFormatErrorNamesFormats(t *testing.T) {
	err := &ParseFormatError{Source: "data.unknown", Attempted: "ntriples", Err: errors.New("bad")}
	msg := err.Error()
	if !strings.Contains(msg, "guessed: none") || !strings.Contains(msg, "ntriples") {
		t.Fatalf("unexpected message: %s", msg)
	}
	if !errors.Is(&ConfigurationError{Store: "x", Err: ErrNotGraphAware}, ErrNotGraphAware) {
		t.Fatal("expected ConfigurationError to unwrap")
	}
}
