package rdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

const nquadsMediaType = "application/n-quads"

// jsonLDLoader caches remote contexts for the life of the process.
var jsonLDLoader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))

func newJSONGoldOptions(opts Options) *ld.JsonLdOptions {
	goldOpts := ld.NewJsonLdOptions(opts.Base)
	goldOpts.Format = nquadsMediaType
	goldOpts.DocumentLoader = jsonLDLoader
	return goldOpts
}

type jsonldDecoder struct {
	r      io.Reader
	opts   Options
	quads  Reader
	loaded bool
	err    error
}

func newJSONLDReader(r io.Reader, opts Options) (Reader, error) {
	return &jsonldDecoder{r: r, opts: opts}, nil
}

func (d *jsonldDecoder) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	if !d.loaded {
		d.loaded = true
		if err := d.load(); err != nil {
			d.err = &ParseError{Format: string(FormatJSONLD), Err: err}
			return Quad{}, d.err
		}
	}
	q, err := d.quads.Next()
	if err != nil {
		d.err = err
	}
	return q, err
}

func (d *jsonldDecoder) Close() error {
	if d.quads != nil {
		return d.quads.Close()
	}
	return nil
}

// load expands the whole document to N-Quads; JSON-LD cannot be decoded
// incrementally.
func (d *jsonldDecoder) load() error {
	if err := checkDecodeContext(d.opts.Context); err != nil {
		return err
	}
	var doc interface{}
	if err := json.NewDecoder(d.r).Decode(&doc); err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}
	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(doc, newJSONGoldOptions(d.opts))
	if err != nil {
		return fmt.Errorf("jsonld: to rdf: %w", err)
	}
	nquads, ok := result.(string)
	if !ok {
		return fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}
	d.quads, err = newNQuadsReader(strings.NewReader(nquads), Options{Context: d.opts.Context, StrictIRIValidation: d.opts.StrictIRIValidation})
	return err
}

type jsonldEncoder struct {
	w       io.Writer
	opts    Options
	buf     bytes.Buffer
	nquads  Writer
	pending bool
	err     error
}

func newJSONLDWriter(w io.Writer, opts Options) (Writer, error) {
	e := &jsonldEncoder{w: w, opts: opts}
	nquads, err := newNQuadsWriter(&e.buf, opts)
	if err != nil {
		return nil, err
	}
	e.nquads = nquads
	return e, nil
}

func (e *jsonldEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if err := e.nquads.Write(q); err != nil {
		e.err = err
		return err
	}
	e.pending = true
	return nil
}

// Flush emits the buffered statements as one expanded JSON-LD document.
func (e *jsonldEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if !e.pending {
		return nil
	}
	e.pending = false
	if err := e.nquads.Flush(); err != nil {
		e.err = err
		return err
	}
	proc := ld.NewJsonLdProcessor()
	output, err := proc.FromRDF(e.buf.String(), newJSONGoldOptions(e.opts))
	e.buf.Reset()
	if err != nil {
		e.err = fmt.Errorf("jsonld: from rdf: %w", err)
		return e.err
	}
	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		e.err = fmt.Errorf("jsonld: %w", err)
		return e.err
	}
	if _, err := e.w.Write(append(encoded, '\n')); err != nil {
		e.err = err
	}
	return e.err
}

func (e *jsonldEncoder) Close() error {
	return e.Flush()
}
