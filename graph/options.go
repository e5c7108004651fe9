package graph

import (
	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
)

// Option configures a Graph or Dataset.
type Option func(*config)

type config struct {
	store        store.Store
	identifier   rdf.Term
	base         string
	log          *zap.Logger
	uniqueLimit  int
	namespaces   *NamespaceManager
	defaultUnion bool
}

func newConfig(opts []Option) config {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.namespaces == nil {
		cfg.namespaces = NewNamespaceManager()
	}
	return cfg
}

// WithStore sets the backing store. Graphs default to a fresh memory store.
func WithStore(s store.Store) Option {
	return func(c *config) { c.store = s }
}

// WithIdentifier names the graph's context. Graphs default to a fresh blank
// node.
func WithIdentifier(id rdf.Term) Option {
	return func(c *config) { c.identifier = id }
}

// WithBase sets the base IRI used to absolutize references.
func WithBase(base string) Option {
	return func(c *config) { c.base = base }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithUniqueLimit bounds the number of distinct values a unique projection
// tracks. Zero means unbounded.
func WithUniqueLimit(n int) Option {
	return func(c *config) { c.uniqueLimit = n }
}

// WithNamespaceManager shares prefix bindings between graphs.
func WithNamespaceManager(ns *NamespaceManager) Option {
	return func(c *config) { c.namespaces = ns }
}

// WithDefaultUnion makes a dataset's default graph read from the union of
// every asserted graph.
func WithDefaultUnion() Option {
	return func(c *config) { c.defaultUnion = true }
}
