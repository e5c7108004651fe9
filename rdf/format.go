package rdf

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"
)

// Format identifies RDF serialization formats.
type Format string

const (
	// FormatAuto requests content sniffing.
	FormatAuto     Format = ""
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format name, file extension or media type.
// Names registered with RegisterParser or RegisterSerializer are accepted too.
func ParseFormat(value string) (Format, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if mediaType, _, err := mime.ParseMediaType(normalized); err == nil {
		normalized = mediaType
	}
	switch normalized {
	case "ntriples", "n-triples", "nt", "nt11", "application/n-triples", "text/plain":
		return FormatNTriples, true
	case "nquads", "n-quads", "nq", "application/n-quads":
		return FormatNQuads, true
	case "jsonld", "json-ld", "json", "application/ld+json", "application/json":
		return FormatJSONLD, true
	}
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	f := Format(normalized)
	if _, ok := registry.parsers[f]; ok {
		return f, true
	}
	if _, ok := registry.serializers[f]; ok {
		return f, true
	}
	return "", false
}

// MediaType returns the registered media type of the format.
func (f Format) MediaType() string {
	switch f {
	case FormatNTriples:
		return "application/n-triples"
	case FormatNQuads:
		return "application/n-quads"
	case FormatJSONLD:
		return "application/ld+json"
	default:
		return ""
	}
}

// SupportsQuads reports whether the format can carry graph names.
func (f Format) SupportsQuads() bool {
	return f == FormatNQuads || f == FormatJSONLD
}

// GuessFormat returns the format implied by a file name's extension.
func GuessFormat(path string) (Format, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", false
	}
	return ParseFormat(ext)
}

// ParserFactory builds a Reader over r.
type ParserFactory func(r io.Reader, opts Options) (Reader, error)

// SerializerFactory builds a Writer over w.
type SerializerFactory func(w io.Writer, opts Options) (Writer, error)

var registry = struct {
	mu          sync.RWMutex
	parsers     map[Format]ParserFactory
	serializers map[Format]SerializerFactory
}{
	parsers:     map[Format]ParserFactory{},
	serializers: map[Format]SerializerFactory{},
}

func init() {
	RegisterParser(FormatNTriples, newNTriplesReader)
	RegisterParser(FormatNQuads, newNQuadsReader)
	RegisterParser(FormatJSONLD, newJSONLDReader)
	RegisterSerializer(FormatNTriples, newNTriplesWriter)
	RegisterSerializer(FormatNQuads, newNQuadsWriter)
	RegisterSerializer(FormatJSONLD, newJSONLDWriter)
}

// RegisterParser installs a parser plugin under a format name, replacing any
// previous registration.
func RegisterParser(format Format, factory ParserFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.parsers[Format(strings.ToLower(string(format)))] = factory
}

// RegisterSerializer installs a serializer plugin under a format name,
// replacing any previous registration.
func RegisterSerializer(format Format, factory SerializerFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.serializers[Format(strings.ToLower(string(format)))] = factory
}

// LookupParser resolves a format name to its parser plugin.
func LookupParser(name string) (Format, ParserFactory, error) {
	format, ok := ParseFormat(name)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	factory, ok := registry.parsers[format]
	if !ok {
		return "", nil, fmt.Errorf("%w: no parser for %s", ErrUnsupportedFormat, format)
	}
	return format, factory, nil
}

// LookupSerializer resolves a format name to its serializer plugin.
func LookupSerializer(name string) (Format, SerializerFactory, error) {
	format, ok := ParseFormat(name)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	factory, ok := registry.serializers[format]
	if !ok {
		return "", nil, fmt.Errorf("%w: no serializer for %s", ErrUnsupportedFormat, format)
	}
	return format, factory, nil
}
