package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	ctx       context.Context
	format    rdf.Format
	source    string
	base      string
	batchSize int
	codec     []rdf.Option
}

// ParseFormat selects the input syntax by name or media type.
func ParseFormat(format string) ParseOption {
	return func(o *parseOptions) {
		if f, ok := rdf.ParseFormat(format); ok {
			o.format = f
		} else {
			o.format = rdf.Format(format)
		}
	}
}

// ParseSource names the input, typically a file path, so its extension can
// select the syntax.
func ParseSource(name string) ParseOption {
	return func(o *parseOptions) { o.source = name }
}

// ParseBase sets the base IRI for relative references.
func ParseBase(base string) ParseOption {
	return func(o *parseOptions) { o.base = base }
}

// ParseContext sets the context that cancels parsing.
func ParseContext(ctx context.Context) ParseOption {
	return func(o *parseOptions) { o.ctx = ctx }
}

// ParseBatchSize sets how many statements are buffered per store write.
func ParseBatchSize(n int) ParseOption {
	return func(o *parseOptions) { o.batchSize = n }
}

// ParseCodecOptions passes options through to the decoder.
func ParseCodecOptions(opts ...rdf.Option) ParseOption {
	return func(o *parseOptions) { o.codec = append(o.codec, opts...) }
}

func newParseOptions(opts []ParseOption, base string) parseOptions {
	o := parseOptions{ctx: context.Background(), base: base, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolveFormat picks the syntax: the explicit format, then the source
// extension, then content sniffing, then fallback. guessed reports whether
// anything but the fallback was used.
func resolveFormat(r io.Reader, o parseOptions, fallback rdf.Format) (rdf.Format, io.Reader, bool) {
	if o.format != rdf.FormatAuto {
		return o.format, r, true
	}
	if o.source != "" {
		if f, ok := rdf.GuessFormat(o.source); ok {
			return f, r, true
		}
	}
	f, replay, ok := rdf.DetectFormat(r)
	if ok {
		return f, replay, true
	}
	return fallback, replay, false
}

// decode streams the statements of r to handle. Errors from a fallback parse
// are reported as *rdf.ParseFormatError.
func decode(r io.Reader, o parseOptions, fallback rdf.Format, log *zap.Logger, handle rdf.Handler) error {
	format, input, guessed := resolveFormat(r, o, fallback)
	if !guessed {
		log.Debug("could not determine input format, falling back",
			zap.String("source", o.source), zap.String("format", string(format)))
	}
	codec := append([]rdf.Option{rdf.OptBase(o.base)}, o.codec...)
	err := rdf.Parse(o.ctx, input, format, handle, codec...)
	if err == nil || guessed {
		return err
	}
	var syntax *rdf.ParseError
	if errors.As(err, &syntax) {
		return &rdf.ParseFormatError{Source: o.source, Attempted: string(format), Err: err}
	}
	return err
}

// Parse reads RDF from r into the graph. The syntax comes from ParseFormat,
// the ParseSource extension, or content sniffing, in that order; when none
// applies the input is parsed as N-Triples and a syntax error is reported as
// *rdf.ParseFormatError. Statements are added in batches; graph names in
// quad formats are ignored.
func (g *Graph) Parse(r io.Reader, opts ...ParseOption) error {
	o := newParseOptions(opts, g.base)
	return WithBatch(g, o.batchSize, func(b *BatchAdder) error {
		return decode(r, o, rdf.FormatNTriples, g.log, func(q rdf.Quad) error {
			return b.Add(q.ToTriple())
		})
	})
}

// SerializeOption configures Serialize.
type SerializeOption func(*serializeOptions)

type serializeOptions struct {
	format rdf.Format
	base   string
	codec  []rdf.Option
}

// SerializeFormat selects the output syntax by name or media type.
func SerializeFormat(format string) SerializeOption {
	return func(o *serializeOptions) {
		if f, ok := rdf.ParseFormat(format); ok {
			o.format = f
		} else {
			o.format = rdf.Format(format)
		}
	}
}

// SerializeBase sets the base IRI written by syntaxes that support one.
func SerializeBase(base string) SerializeOption {
	return func(o *serializeOptions) { o.base = base }
}

// SerializeCodecOptions passes options through to the encoder.
func SerializeCodecOptions(opts ...rdf.Option) SerializeOption {
	return func(o *serializeOptions) { o.codec = append(o.codec, opts...) }
}

func encode(w io.Writer, opts []SerializeOption, fallback rdf.Format, base string, quads iter.Seq2[rdf.Quad, error]) error {
	o := serializeOptions{format: fallback, base: base}
	for _, opt := range opts {
		opt(&o)
	}
	writer, err := rdf.NewWriter(w, o.format, append([]rdf.Option{rdf.OptBase(o.base)}, o.codec...)...)
	if err != nil {
		return fmt.Errorf("graph: serialize: %w", err)
	}
	if err := rdf.WriteAll(writer, quads); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

// Serialize writes the graph to w, as N-Triples unless SerializeFormat says
// otherwise.
func (g *Graph) Serialize(w io.Writer, opts ...SerializeOption) error {
	return encode(w, opts, rdf.FormatNTriples, g.base, g.quads())
}

// quads returns the graph's triples as quads in its context.
func (g *Graph) quads() iter.Seq2[rdf.Quad, error] {
	return func(yield func(rdf.Quad, error) bool) {
		for t, err := range g.All() {
			if err != nil {
				yield(rdf.Quad{}, err)
				return
			}
			if !yield(t.ToQuadInGraph(g.id), nil) {
				return
			}
		}
	}
}
