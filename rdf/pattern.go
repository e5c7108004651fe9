package rdf

// Pattern selects triples. A nil position matches any term.
type Pattern struct {
	S Term
	P Term
	O Term
}

// Any matches every triple.
var Any = Pattern{}

// Matches reports whether t satisfies the pattern.
func (p Pattern) Matches(t Triple) bool {
	if p.S != nil && p.S != t.S {
		return false
	}
	if p.P != nil && p.P != Term(t.P) {
		return false
	}
	if p.O != nil && p.O != t.O {
		return false
	}
	return true
}

// IsBound reports whether every position is bound.
func (p Pattern) IsBound() bool {
	return p.S != nil && p.P != nil && p.O != nil
}

// AsPattern returns a fully bound pattern for t.
func (t Triple) AsPattern() Pattern {
	return Pattern{S: t.S, P: t.P, O: t.O}
}

// QuadPattern selects quads. A nil G matches every graph.
type QuadPattern struct {
	S Term
	P Term
	O Term
	G Term
}

// Triple returns the triple part of the pattern.
func (p QuadPattern) Triple() Pattern {
	return Pattern{S: p.S, P: p.P, O: p.O}
}

// Choices is a pattern where one position ranges over a list of terms.
// Exactly one of Subjects, Predicates or Objects should be non-empty; the
// remaining positions come from Pattern.
type Choices struct {
	Pattern    Pattern
	Subjects   []Term
	Predicates []Term
	Objects    []Term
}

// Expand returns one pattern per choice.
func (c Choices) Expand() []Pattern {
	var out []Pattern
	switch {
	case len(c.Subjects) > 0:
		for _, s := range c.Subjects {
			p := c.Pattern
			p.S = s
			out = append(out, p)
		}
	case len(c.Predicates) > 0:
		for _, pr := range c.Predicates {
			p := c.Pattern
			p.P = pr
			out = append(out, p)
		}
	case len(c.Objects) > 0:
		for _, o := range c.Objects {
			p := c.Pattern
			p.O = o
			out = append(out, p)
		}
	default:
		out = append(out, c.Pattern)
	}
	return out
}
