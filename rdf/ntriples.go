package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type ntDecoder struct {
	reader *bufio.Reader
	opts   Options
	format Format
	line   int
	err    error
}

func newNTriplesReader(r io.Reader, opts Options) (Reader, error) {
	return &ntDecoder{reader: bufio.NewReader(r), opts: opts, format: FormatNTriples}, nil
}

func newNQuadsReader(r io.Reader, opts Options) (Reader, error) {
	return &ntDecoder{reader: bufio.NewReader(r), opts: opts, format: FormatNQuads}, nil
}

func (d *ntDecoder) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	for {
		if err := checkDecodeContext(d.opts.Context); err != nil {
			d.err = err
			return Quad{}, err
		}
		raw, err := readLineWithLimit(d.reader, d.opts.MaxLineBytes)
		if err != nil {
			if err != io.EOF {
				d.line++
				err = &ParseError{Format: string(d.format), Line: d.line, Err: err}
			}
			d.err = err
			return Quad{}, err
		}
		d.line++
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quad, err := parseNTLine(line, d.format)
		if err == nil && d.opts.StrictIRIValidation {
			err = validateQuad(quad)
		}
		if err != nil {
			column := 0
			if perr, ok := err.(*ntSyntaxError); ok {
				column = perr.column
			}
			d.err = wrapParseErrorWithPosition(string(d.format), line, d.line, column, err)
			return Quad{}, d.err
		}
		return quad, nil
	}
}

func (d *ntDecoder) Close() error {
	return nil
}

func validateQuad(q Quad) error {
	if err := ValidateTriple(q.ToTriple()); err != nil {
		return err
	}
	if q.G != nil {
		return ValidateTerm(PositionGraph, q.G)
	}
	return nil
}

func parseNTLine(line string, format Format) (Quad, error) {
	cursor := &ntCursor{input: line}
	subject, err := cursor.parseTerm(false)
	if err != nil {
		return Quad{}, err
	}
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Quad{}, err
	}
	object, err := cursor.parseTerm(true)
	if err != nil {
		return Quad{}, err
	}

	var graph Term
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '.' {
		if format != FormatNQuads {
			return Quad{}, cursor.errorf("graph term not allowed in N-Triples")
		}
		graph, err = cursor.parseTerm(false)
		if err != nil {
			return Quad{}, err
		}
	}
	if !cursor.consume('.') {
		return Quad{}, cursor.errorf("expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Quad{}, cursor.errorf("unexpected content after statement")
	}

	return Quad{S: subject, P: predicate, O: object, G: graph}, nil
}

// ParseTerm parses a single term written in N-Triples syntax.
func ParseTerm(s string) (Term, error) {
	cursor := &ntCursor{input: s}
	term, err := cursor.parseTerm(true)
	if err != nil {
		return nil, err
	}
	cursor.skipWS()
	if cursor.pos != len(cursor.input) {
		return nil, cursor.errorf("unexpected content after term")
	}
	return term, nil
}

type ntSyntaxError struct {
	msg    string
	column int
}

func (e *ntSyntaxError) Error() string { return e.msg }

type ntCursor struct {
	input string
	pos   int
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token %q", c.input[c.pos])
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	c.skipWS()
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, c.errorf("unterminated IRI")
	}
	value, err := UnescapeString(c.input[start:c.pos])
	if err != nil {
		return IRI{}, c.errorf("IRI: %v", err)
	}
	c.pos++
	return IRI{Value: value}, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.skipWS()
	if !strings.HasPrefix(c.input[c.pos:], "_:") {
		return BlankNode{}, c.errorf("expected blank node")
	}
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// a trailing '.' belongs to the statement, not the label
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	c.skipWS()
	if !c.consume('"') {
		return Literal{}, c.errorf("expected literal")
	}
	start := c.pos
	closed := false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '\\' {
			c.pos += 2
			continue
		}
		if ch == '"' {
			closed = true
			break
		}
		c.pos++
	}
	if !closed || c.pos > len(c.input) {
		return Literal{}, c.errorf("unterminated literal")
	}
	lexical, err := UnescapeString(c.input[start:c.pos])
	if err != nil {
		return Literal{}, c.errorf("literal: %v", err)
	}
	c.pos++

	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && (isLangChar(c.input[c.pos])) {
			c.pos++
		}
		if start == c.pos {
			return Literal{}, c.errorf("language tag missing")
		}
		return Literal{Lexical: lexical, Lang: CanonicalLang(c.input[start:c.pos])}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	}
	return Literal{Lexical: lexical}, nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	return &ntSyntaxError{msg: "ntriples: " + fmt.Sprintf(format, args...), column: c.pos + 1}
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '<', '"':
		return true
	default:
		return false
	}
}

func isLangChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-'
}

type ntEncoder struct {
	writer *bufio.Writer
	format Format
	err    error
}

func newNTriplesWriter(w io.Writer, _ Options) (Writer, error) {
	return &ntEncoder{writer: bufio.NewWriter(w), format: FormatNTriples}, nil
}

func newNQuadsWriter(w io.Writer, _ Options) (Writer, error) {
	return &ntEncoder{writer: bufio.NewWriter(w), format: FormatNQuads}, nil
}

func (e *ntEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if q.IsZero() {
		return fmt.Errorf("ntriples: empty statement")
	}
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return fmt.Errorf("ntriples: missing statement fields")
	}
	line := FormatTerm(q.S) + " " + FormatTerm(q.P) + " " + FormatTerm(q.O)
	if e.format == FormatNQuads && !q.InDefaultGraph() {
		line += " " + FormatTerm(q.G)
	}
	line += " .\n"
	_, err := e.writer.WriteString(line)
	if err != nil {
		e.err = err
	}
	return err
}

func (e *ntEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *ntEncoder) Close() error {
	return e.Flush()
}

// FormatTerm renders a term in N-Triples syntax. A nil term renders as "".
func FormatTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return "<" + value.Value + ">"
	case BlankNode:
		return "_:" + value.ID
	case Literal:
		quoted := `"` + escapeString(value.Lexical) + `"`
		if value.Lang != "" {
			return quoted + "@" + value.Lang
		}
		if value.Datatype.Value != "" {
			return quoted + "^^<" + value.Datatype.Value + ">"
		}
		return quoted
	default:
		return ""
	}
}
