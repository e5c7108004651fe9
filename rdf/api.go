package rdf

import (
	"context"
	"io"
	"iter"
)

// Reader streams RDF statements from an input. Next returns io.EOF when the
// input is exhausted. Statements from triple-only formats have a nil G.
type Reader interface {
	Next() (Quad, error)
	Close() error
}

// Writer streams RDF statements to an output.
// For triple-only formats, the graph (G) field is ignored.
type Writer interface {
	Write(Quad) error
	Flush() error
	Close() error
}

// Handler processes statements in push mode.
type Handler func(Quad) error

// Option configures reader/writer behavior.
type Option func(*Options)

// Options configures parser/encoder behavior.
type Options struct {
	// Context for cancellation and timeouts
	Context context.Context

	// MaxLineBytes bounds a single line of line-oriented input; zero or
	// negative disables the limit.
	MaxLineBytes int

	// Base IRI for formats with relative references.
	Base string

	// StrictIRIValidation runs ValidateTerm on every decoded term.
	StrictIRIValidation bool
}

// DefaultMaxLineBytes is the default line limit for line-oriented formats.
const DefaultMaxLineBytes = 1 << 20

// NewReader creates a reader for the specified format.
// If format is FormatAuto (empty string), the format is automatically detected.
// Auto-detection reads from the reader, so the reader position will be advanced.
func NewReader(r io.Reader, format Format, opts ...Option) (Reader, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if format == FormatAuto {
		detected, reader, ok := DetectFormat(r)
		if !ok {
			return nil, ErrUnsupportedFormat
		}
		format = detected
		r = reader
	}

	_, factory, err := LookupParser(string(format))
	if err != nil {
		return nil, err
	}
	return factory(r, options)
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...Option) (Writer, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	_, factory, err := LookupSerializer(string(format))
	if err != nil {
		return nil, err
	}
	return factory(w, options)
}

// Parse parses RDF from the reader and streams statements to the handler.
// If format is FormatAuto (empty string), the format is automatically detected.
// If ctx is nil, context.Background() is used as the default.
func Parse(ctx context.Context, r io.Reader, format Format, handler Handler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reader, err := NewReader(r, format, append([]Option{OptContext(ctx)}, opts...)...)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		stmt, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := handler(stmt); err != nil {
			return err
		}
	}
}

// Statements adapts a Reader to a range-over-func sequence. The reader is
// closed when iteration ends.
func Statements(reader Reader) iter.Seq2[Quad, error] {
	return func(yield func(Quad, error) bool) {
		defer reader.Close()
		for {
			q, err := reader.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Quad{}, err)
				return
			}
			if !yield(q, nil) {
				return
			}
		}
	}
}

// WriteAll writes every statement and flushes the writer.
func WriteAll(w Writer, quads iter.Seq2[Quad, error]) error {
	for q, err := range quads {
		if err != nil {
			return err
		}
		if err := w.Write(q); err != nil {
			return err
		}
	}
	return w.Flush()
}

// OptContext sets the context for cancellation and timeouts.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptMaxLineBytes sets the maximum line size limit.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptBase sets the base IRI used to resolve relative references.
func OptBase(base string) Option {
	return func(opts *Options) {
		opts.Base = base
	}
}

// OptStrictIRIValidation enables term validation during parsing.
// Invalid terms cause parse errors when this option is enabled.
func OptStrictIRIValidation() Option {
	return func(opts *Options) {
		opts.StrictIRIValidation = true
	}
}

func defaultOptions() Options {
	return Options{
		Context:      context.Background(),
		MaxLineBytes: DefaultMaxLineBytes,
	}
}
