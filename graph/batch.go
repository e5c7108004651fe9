package graph

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

// DefaultBatchSize is the batch size used by the CLI and parsers.
const DefaultBatchSize = 1000

// BatchAdder buffers writes to a graph and hands them to the graph's AddN in
// batches.
type BatchAdder struct {
	graph     *Graph
	size      int
	batchAddN bool
	batch     []rdf.Quad
	count     int
}

// BatchOption configures a BatchAdder.
type BatchOption func(*BatchAdder)

// BatchAddN routes AddN through the buffer instead of passing quads straight
// to the graph.
func BatchAddN() BatchOption {
	return func(b *BatchAdder) { b.batchAddN = true }
}

// NewBatchAdder returns a buffer of size entries in front of g. The size
// must be at least 2.
func NewBatchAdder(g *Graph, size int, opts ...BatchOption) (*BatchAdder, error) {
	if size < 2 {
		return nil, fmt.Errorf("graph: batch size must be at least 2, got %d", size)
	}
	b := &BatchAdder{graph: g, size: size}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset()
	return b, nil
}

// Graph returns the wrapped graph.
func (b *BatchAdder) Graph() *Graph { return b.graph }

// Count returns the number of statements added since the last Reset.
func (b *BatchAdder) Count() int { return b.count }

// Pending returns the number of buffered statements.
func (b *BatchAdder) Pending() int { return len(b.batch) }

// Reset drops the buffer and zeroes the count.
func (b *BatchAdder) Reset() {
	b.batch = make([]rdf.Quad, 0, b.size)
	b.count = 0
}

// Add buffers t for the wrapped graph, flushing first when the buffer is
// full.
func (b *BatchAdder) Add(t rdf.Triple) error {
	return b.AddQuad(t.ToQuadInGraph(b.graph.id))
}

// AddQuad buffers q as given. The graph drops quads addressed to another
// context when the batch is flushed.
func (b *BatchAdder) AddQuad(q rdf.Quad) error {
	if len(b.batch) >= b.size {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	b.count++
	b.batch = append(b.batch, q)
	return nil
}

// AddN buffers quads when BatchAddN is set and otherwise writes them
// directly.
func (b *BatchAdder) AddN(quads []rdf.Quad) error {
	if !b.batchAddN {
		return b.graph.AddN(quads)
	}
	for _, q := range quads {
		if err := b.AddQuad(q); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes the buffered statements.
func (b *BatchAdder) Flush() error {
	if len(b.batch) == 0 {
		return nil
	}
	b.graph.log.Debug("flushing batch",
		zap.String("graph", rdf.FormatTerm(b.graph.id)),
		zap.Int("batch", len(b.batch)),
		zap.Int("count", b.count))
	if err := b.graph.AddN(b.batch); err != nil {
		return err
	}
	b.batch = b.batch[:0]
	return nil
}

// WithBatch runs fn with a fresh BatchAdder on g and flushes the remaining
// buffer when fn returns nil. When fn fails the buffer is discarded.
func WithBatch(g *Graph, size int, fn func(*BatchAdder) error, opts ...BatchOption) error {
	b, err := NewBatchAdder(g, size, opts...)
	if err != nil {
		return err
	}
	if err := fn(b); err != nil {
		return err
	}
	return b.Flush()
}
