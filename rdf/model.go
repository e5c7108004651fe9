package rdf

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "iri"
	case TermBlankNode:
		return "blank node"
	case TermLiteral:
		return "literal"
	default:
		return fmt.Sprintf("TermKind(%d)", uint8(k))
	}
}

// Term is a value that can appear in RDF statements.
// The only implementations are IRI, BlankNode and Literal; all three are
// comparable and may be used as map keys.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// NewIRI returns an IRI for value.
func NewIRI(value string) IRI { return IRI{Value: value} }

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// HasPrefix reports whether the IRI starts with prefix.
func (i IRI) HasPrefix(prefix string) bool { return strings.HasPrefix(i.Value, prefix) }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// NewBlankNode mints a blank node with a process-unique identifier.
func NewBlankNode() BlankNode {
	return BlankNode{ID: "N" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// NewLiteral returns a plain literal.
func NewLiteral(lexical string) Literal { return Literal{Lexical: lexical} }

// NewLangLiteral returns a language-tagged literal with a canonical tag.
func NewLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Lang: CanonicalLang(lang)}
}

// NewTypedLiteral returns a literal with a datatype.
func NewTypedLiteral(lexical string, datatype IRI) Literal {
	return Literal{Lexical: lexical, Datatype: datatype}
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns the literal in N-Triples syntax.
func (l Literal) String() string { return FormatTerm(l) }

// Triple is an RDF triple.
type Triple struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// NewTriple builds a triple.
func NewTriple(s Term, p IRI, o Term) Triple { return Triple{S: s, P: p, O: o} }

func (t Triple) String() string {
	return fmt.Sprintf("(%s, %s, %s)", termString(t.S), t.P.String(), termString(t.O))
}

// Quad is an RDF quad (triple + optional graph name).
type Quad struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
	// G is the graph name, or nil for the default graph.
	G Term
}

func (q Quad) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s)", termString(q.S), q.P.String(), termString(q.O), termString(q.G))
}

// IsZero reports whether the quad has no subject/predicate/object.
func (q Quad) IsZero() bool {
	return q.S == nil && q.P.Value == "" && q.O == nil && q.G == nil
}

// ToTriple extracts the triple from a quad (ignores graph).
func (q Quad) ToTriple() Triple {
	return Triple{S: q.S, P: q.P, O: q.O}
}

// InDefaultGraph reports whether the quad is in the default graph. A nil
// graph and DefaultGraphIRI are the same graph.
func (q Quad) InDefaultGraph() bool {
	return q.G == nil || q.G == Term(DefaultGraphIRI)
}

// ToQuad converts a triple to a quad in the default graph.
func (t Triple) ToQuad() Quad {
	return Quad{S: t.S, P: t.P, O: t.O, G: nil}
}

// ToQuadInGraph converts a triple to a quad in a named graph.
func (t Triple) ToQuadInGraph(graph Term) Quad {
	return Quad{S: t.S, P: t.P, O: t.O, G: graph}
}

// Compare orders terms: IRIs before blank nodes before literals, then by value.
// A nil term sorts before everything else.
func Compare(a, b Term) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}
	switch av := a.(type) {
	case IRI:
		return strings.Compare(av.Value, b.(IRI).Value)
	case BlankNode:
		return strings.Compare(av.ID, b.(BlankNode).ID)
	case Literal:
		bv := b.(Literal)
		if c := strings.Compare(av.Lexical, bv.Lexical); c != 0 {
			return c
		}
		if c := strings.Compare(av.Datatype.Value, bv.Datatype.Value); c != 0 {
			return c
		}
		return strings.Compare(av.Lang, bv.Lang)
	default:
		return strings.Compare(a.String(), b.String())
	}
}

// CompareTriples orders triples by subject, predicate, then object.
func CompareTriples(a, b Triple) int {
	if c := Compare(a.S, b.S); c != 0 {
		return c
	}
	if c := Compare(a.P, b.P); c != 0 {
		return c
	}
	return Compare(a.O, b.O)
}

// IsBlank reports whether term is a blank node.
func IsBlank(term Term) bool {
	_, ok := term.(BlankNode)
	return ok
}

func termString(term Term) string {
	if term == nil {
		return "nil"
	}
	return term.String()
}
