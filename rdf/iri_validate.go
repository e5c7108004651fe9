package rdf

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// ValidateIRI validates an IRI string.
// Returns an error if the IRI is invalid, nil otherwise.
//
// Stored IRIs must be absolute: a scheme starting with a letter is required,
// and control characters, spaces and angle brackets are rejected.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("empty IRI")
	}

	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("invalid IRI syntax: %w", err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("IRI is not absolute: %s", iri)
	}
	first := parsed.Scheme[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return fmt.Errorf("scheme must start with a letter: %s", iri)
	}

	for i, r := range iri {
		if r <= 0x20 {
			return fmt.Errorf("invalid character %q at position %d in IRI: %s", r, i, iri)
		}
		if r == '<' || r == '>' || r == '"' {
			return fmt.Errorf("invalid character '%c' at position %d in IRI (should be percent-encoded): %s", r, i, iri)
		}
	}

	return nil
}

// Term positions reported by InvalidTermError.
const (
	PositionSubject   = "subject"
	PositionPredicate = "predicate"
	PositionObject    = "object"
	PositionGraph     = "graph"
)

// ValidateTriple checks that t is well formed for storage.
func ValidateTriple(t Triple) error {
	if err := ValidateTerm(PositionSubject, t.S); err != nil {
		return err
	}
	if err := ValidateTerm(PositionPredicate, t.P); err != nil {
		return err
	}
	return ValidateTerm(PositionObject, t.O)
}

// ValidateTerm checks that term may appear at position.
func ValidateTerm(position string, term Term) error {
	invalid := func(reason string) error {
		return &InvalidTermError{Position: position, Term: term, Reason: reason}
	}
	if term == nil {
		return invalid("missing term")
	}
	switch v := term.(type) {
	case IRI:
		if err := ValidateIRI(v.Value); err != nil {
			return invalid(err.Error())
		}
	case BlankNode:
		if position == PositionPredicate {
			return invalid("blank node not allowed as predicate")
		}
		if v.ID == "" {
			return invalid("blank node id missing")
		}
	case Literal:
		if position != PositionObject {
			return invalid("literal not allowed as " + position)
		}
		if v.Lang != "" {
			if v.Datatype.Value != "" && v.Datatype != RDFLangString {
				return invalid("literal has both language and datatype")
			}
			if _, err := language.Parse(v.Lang); err != nil {
				return invalid(fmt.Sprintf("invalid language tag %q", v.Lang))
			}
		}
		if v.Datatype.Value != "" {
			if err := ValidateIRI(v.Datatype.Value); err != nil {
				return invalid("datatype: " + err.Error())
			}
		}
	default:
		return invalid(fmt.Sprintf("unsupported term type %T", term))
	}
	return nil
}

// CanonicalLang returns the canonical casing of a BCP 47 language tag, or the
// input unchanged when it does not parse.
func CanonicalLang(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return strings.ToLower(t.String())
}
