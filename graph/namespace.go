package graph

import (
	"fmt"
	"iter"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// Well-known namespaces bound by NewNamespaceManager.
var defaultNamespaces = map[string]string{
	"owl":  "http://www.w3.org/2002/07/owl#",
	"rdf":  rdf.RDFNS,
	"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	"xml":  "http://www.w3.org/XML/1998/namespace",
	"xsd":  rdf.XSDNS,
}

// NamespaceManager maps prefixes to namespace IRIs. It is safe for
// concurrent use.
type NamespaceManager struct {
	mu       sync.RWMutex
	byPrefix map[string]string
	byNS     map[string]string
	next     int
}

// NewNamespaceManager returns a manager with the owl, rdf, rdfs, xml and xsd
// prefixes bound.
func NewNamespaceManager() *NamespaceManager {
	m := &NamespaceManager{byPrefix: map[string]string{}, byNS: map[string]string{}, next: 1}
	for prefix, ns := range defaultNamespaces {
		m.byPrefix[prefix] = ns
		m.byNS[ns] = prefix
	}
	return m
}

// Bind maps prefix to namespace. When the namespace already has another
// prefix the existing binding wins unless override is set. Rebinding a prefix
// replaces its namespace.
func (m *NamespaceManager) Bind(prefix, namespace string, override bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.byNS[namespace]; ok {
		if old == prefix || !override {
			return
		}
		delete(m.byPrefix, old)
	}
	if oldNS, ok := m.byPrefix[prefix]; ok {
		delete(m.byNS, oldNS)
	}
	m.byPrefix[prefix] = namespace
	m.byNS[namespace] = prefix
}

// Namespace returns the namespace bound to prefix.
func (m *NamespaceManager) Namespace(prefix string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.byPrefix[prefix]
	return ns, ok
}

// Prefix returns the prefix bound to namespace.
func (m *NamespaceManager) Prefix(namespace string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix, ok := m.byNS[namespace]
	return prefix, ok
}

// All returns the bindings ordered by prefix.
func (m *NamespaceManager) All() iter.Seq2[string, string] {
	m.mu.RLock()
	prefixes := make([]string, 0, len(m.byPrefix))
	for prefix := range m.byPrefix {
		prefixes = append(prefixes, prefix)
	}
	bindings := make(map[string]string, len(m.byPrefix))
	for k, v := range m.byPrefix {
		bindings[k] = v
	}
	m.mu.RUnlock()
	slices.Sort(prefixes)
	return func(yield func(string, string) bool) {
		for _, prefix := range prefixes {
			if !yield(prefix, bindings[prefix]) {
				return
			}
		}
	}
}

// Map returns a copy of the bindings.
func (m *NamespaceManager) Map() map[string]string {
	out := map[string]string{}
	for prefix, ns := range m.All() {
		out[prefix] = ns
	}
	return out
}

// QName renders iri as prefix:local, binding a generated nsN prefix when its
// namespace is unbound.
func (m *NamespaceManager) QName(iri rdf.IRI) (string, error) {
	ns, local, ok := rdf.SplitIRI(iri)
	if !ok {
		return "", fmt.Errorf("graph: cannot split %s into a prefixed name", iri)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix, ok := m.byNS[ns]
	if !ok {
		for {
			prefix = fmt.Sprintf("ns%d", m.next)
			m.next++
			if _, taken := m.byPrefix[prefix]; !taken {
				break
			}
		}
		m.byPrefix[prefix] = ns
		m.byNS[ns] = prefix
	}
	if prefix == "" {
		return local, nil
	}
	return prefix + ":" + local, nil
}

// Expand resolves a prefix:local name.
func (m *NamespaceManager) Expand(curie string) (rdf.IRI, error) {
	prefix, local, ok := strings.Cut(curie, ":")
	if !ok {
		return rdf.IRI{}, fmt.Errorf("graph: %q is not a prefixed name", curie)
	}
	ns, bound := m.Namespace(prefix)
	if !bound {
		return rdf.IRI{}, fmt.Errorf("graph: prefix %q is not bound", prefix)
	}
	return rdf.IRI{Value: ns + local}, nil
}

// Bind binds prefix to namespace, replacing an existing prefix of the
// namespace.
func (g *Graph) Bind(prefix, namespace string) {
	g.ns.Bind(prefix, namespace, true)
}

// Namespaces returns the graph's prefix bindings ordered by prefix.
func (g *Graph) Namespaces() iter.Seq2[string, string] {
	return g.ns.All()
}

// QName renders iri as a prefixed name.
func (g *Graph) QName(iri rdf.IRI) (string, error) {
	return g.ns.QName(iri)
}

// Absolutize resolves uri against the graph's base, or against the working
// directory when no base is set, and drops any fragment.
func (g *Graph) Absolutize(uri string) rdf.IRI {
	base := g.base
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "/"
		}
		base = (&url.URL{Scheme: "file", Path: filepath.ToSlash(cwd) + "/"}).String()
	}
	resolved := rdf.ResolveIRI(base, uri)
	if i := strings.IndexByte(resolved, '#'); i >= 0 {
		resolved = resolved[:i]
	}
	return rdf.IRI{Value: resolved}
}
