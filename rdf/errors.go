package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeParseFormat indicates the input format could not be determined.
	ErrCodeParseFormat ErrorCode = "PARSE_FORMAT"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeInvalidTerm indicates a malformed term was passed to a write.
	ErrCodeInvalidTerm ErrorCode = "INVALID_TERM"
	// ErrCodeUniqueness indicates a unique value lookup found several values.
	ErrCodeUniqueness ErrorCode = "UNIQUENESS"
	// ErrCodeModification indicates a write on a read-only view.
	ErrCodeModification ErrorCode = "MODIFICATION"
	// ErrCodeUnsupportedAggregate indicates an operation a read-only aggregate cannot perform.
	ErrCodeUnsupportedAggregate ErrorCode = "UNSUPPORTED_AGGREGATE_OPERATION"
	// ErrCodeConfiguration indicates an unusable store configuration.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
	// ErrCodeResourceExhausted indicates a bounded resource could not grow.
	ErrCodeResourceExhausted ErrorCode = "RESOURCE_EXHAUSTED"
	// ErrCodeGraphNotFound indicates a named graph does not exist.
	ErrCodeGraphNotFound ErrorCode = "GRAPH_NOT_FOUND"
	// ErrCodeWrongGraphKind indicates a graph name that denotes a different kind of graph.
	ErrCodeWrongGraphKind ErrorCode = "WRONG_GRAPH_KIND"
	// ErrCodeNotImplemented indicates an optional capability is missing.
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	// ErrCodeStore indicates a backend failure.
	ErrCodeStore ErrorCode = "STORE_ERROR"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
	// ErrModification is returned by writes and transactions on read-only aggregates.
	ErrModification = errors.New("rdf: modifications and transactional operations not allowed on read-only graph aggregates")
	// ErrUnsupportedAggregateOperation is returned for operations read-only aggregates do not support.
	ErrUnsupportedAggregateOperation = errors.New("rdf: operation not supported by read-only graph aggregates")
	// ErrNotGraphAware is wrapped by ConfigurationError when a dataset needs a graph-aware store.
	ErrNotGraphAware = errors.New("rdf: dataset must be backed by a graph-aware store")
	// ErrUniqueLimitExceeded is yielded when a unique projection cannot track more values.
	ErrUniqueLimitExceeded = errors.New("rdf: uniqueness set limit exceeded; consider not requesting unique results")
	// ErrGraphNotFound indicates a named graph is not present.
	ErrGraphNotFound = errors.New("rdf: named graph not found")
	// ErrWrongGraphKind indicates a graph name that is present but not a named graph.
	ErrWrongGraphKind = errors.New("rdf: identifier does not name an asserted graph")
	// ErrListCycle indicates an RDF list with a recursive rdf:rest reference.
	ErrListCycle = errors.New("rdf: list contains a recursive rdf:rest reference")
	// ErrNotImplemented is returned by optional store capabilities a backend lacks.
	ErrNotImplemented = errors.New("rdf: not implemented")
	// ErrNoProcessor indicates no query or update processor is registered under a name.
	ErrNoProcessor = errors.New("rdf: no processor registered")
	// ErrStoreClosed is returned by operations on a closed store.
	ErrStoreClosed = errors.New("rdf: store is closed")
)

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}

	// EOF is not an error condition
	if err == io.EOF {
		return ""
	}

	var (
		termErr   *InvalidTermError
		uniqErr   *UniquenessError
		confErr   *ConfigurationError
		formatErr *ParseFormatError
		parseErr  *ParseError
	)
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.As(err, &termErr):
		return ErrCodeInvalidTerm
	case errors.As(err, &uniqErr):
		return ErrCodeUniqueness
	case errors.Is(err, ErrModification):
		return ErrCodeModification
	case errors.Is(err, ErrUnsupportedAggregateOperation):
		return ErrCodeUnsupportedAggregate
	case errors.As(err, &confErr), errors.Is(err, ErrNotGraphAware):
		return ErrCodeConfiguration
	case errors.As(err, &formatErr):
		return ErrCodeParseFormat
	case errors.Is(err, ErrUniqueLimitExceeded):
		return ErrCodeResourceExhausted
	case errors.Is(err, ErrGraphNotFound):
		return ErrCodeGraphNotFound
	case errors.Is(err, ErrWrongGraphKind):
		return ErrCodeWrongGraphKind
	case errors.Is(err, ErrNotImplemented), errors.Is(err, ErrNoProcessor):
		return ErrCodeNotImplemented
	case errors.Is(err, ErrStoreClosed):
		return ErrCodeStore
	case errors.Is(err, context.Canceled):
		return ErrCodeContextCanceled
	}

	if errors.As(err, &parseErr) {
		// Check underlying error for more specific codes
		underlyingCode := Code(parseErr.Err)
		if underlyingCode != ErrCodeParseError && underlyingCode != "" {
			return underlyingCode
		}
		return ErrCodeParseError
	}

	return ErrCodeParseError
}

// InvalidTermError reports a malformed subject, predicate, object or graph
// passed to a write operation.
type InvalidTermError struct {
	Position string // subject, predicate, object or graph
	Term     Term
	Reason   string
}

func (e *InvalidTermError) Error() string {
	return fmt.Sprintf("rdf: invalid %s %s: %s", e.Position, termString(e.Term), e.Reason)
}

// UniquenessError reports that a lookup expecting one value found several.
type UniquenessError struct {
	Subject   Term
	Predicate Term
	Object    Term
	// Matches lists every competing statement; G holds one of its contexts.
	Matches []Quad
}

func (e *UniquenessError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "rdf: while trying to find a value for (%s, %s, %s) the following multiple values were found:",
		termString(e.Subject), termString(e.Predicate), termString(e.Object))
	for _, m := range e.Matches {
		fmt.Fprintf(&msg, "\n  (%s, %s, %s) (context: %s)", termString(m.S), m.P.String(), termString(m.O), termString(m.G))
	}
	return msg.String()
}

// ConfigurationError reports a store that cannot serve the requested role.
type ConfigurationError struct {
	Store  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("rdf: store %s: %s: %v", e.Store, e.Reason, e.Err)
	}
	return fmt.Sprintf("rdf: store %s: %v", e.Store, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ParseFormatError reports that no format could be determined for an input
// and the fallback syntax also failed to parse it.
type ParseFormatError struct {
	Source    string // path or description of the input, if known
	Guessed   string // format guessed from the source, empty when none
	Attempted string // format actually tried
	Err       error
}

func (e *ParseFormatError) Error() string {
	guessed := e.Guessed
	if guessed == "" {
		guessed = "none"
	}
	return fmt.Sprintf("rdf: could not guess RDF format for %q (guessed: %s) so tried %s but failed; specify the format explicitly: %v",
		e.Source, guessed, e.Attempted, e.Err)
}

func (e *ParseFormatError) Unwrap() error { return e.Err }

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    string // Format name (e.g., "ntriples", "nquads")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Column    int    // 1-based column number (0 if unknown)
	Offset    int    // Byte offset in input (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	// Build error message with position information
	var msg strings.Builder
	msg.WriteString(e.Format)

	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	} else if e.Offset >= 0 {
		fmt.Fprintf(&msg, " (offset %d)", e.Offset)
	}

	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())

	if e.Statement != "" {
		excerpt := e.formatExcerpt()
		if excerpt != "" {
			msg.WriteString("\n  ")
			msg.WriteString(excerpt)
		}
	}

	return msg.String()
}

// formatExcerpt formats a readable excerpt of the statement around the error position.
func (e *ParseError) formatExcerpt() string {
	const maxExcerptLen = 80
	const contextLen = 40

	if e.Column > 0 {
		start := e.Column - 1
		if start > len(e.Statement) {
			start = len(e.Statement)
		}
		excerptStart := max(start-contextLen, 0)
		excerptEnd := min(start+contextLen, len(e.Statement))

		excerpt := e.Statement[excerptStart:excerptEnd]
		caretPos := start - excerptStart
		if excerptStart > 0 {
			excerpt = "..." + excerpt
			caretPos += 3
		}
		if excerptEnd < len(e.Statement) {
			excerpt += "..."
		}
		if caretPos >= len(excerpt) {
			caretPos = max(len(excerpt)-1, 0)
		}
		return excerpt + "\n  " + strings.Repeat(" ", caretPos) + "^"
	}

	if len(e.Statement) > maxExcerptLen {
		return e.Statement[:maxExcerptLen] + "..."
	}
	return e.Statement
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseErrorWithPosition adds format/statement/position context to a parse error.
func wrapParseErrorWithPosition(format, statement string, line, column int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if parseErr.Line > 0 && line == 0 {
			line = parseErr.Line
		}
		if parseErr.Column > 0 && column == 0 {
			column = parseErr.Column
		}
	}
	return &ParseError{
		Format:    format,
		Statement: statement,
		Line:      line,
		Column:    column,
		Err:       err,
	}
}
