// Package memory implements an in-memory, graph-aware and formula-aware
// store. It is the default backend of graphs and datasets.
package memory

import (
	"iter"
	"sync"

	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
)

func init() {
	factory := func(cfg store.Config) (store.Store, error) {
		return New(WithLogger(cfg.Logger)), nil
	}
	store.Register("memory", factory)
	store.Register("default", factory)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for store lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

// Store keeps triples in per-context indexes plus a union index over
// asserted contexts. It is safe for concurrent use; scans copy their results
// under a read lock and yield without holding it.
type Store struct {
	mu  sync.RWMutex
	log *zap.Logger

	contexts       *orderedSet[rdf.Term]
	graphs         map[rdf.Term]*index
	formulas       map[rdf.Term]bool
	union          *index
	tripleContexts map[rdf.Triple]*orderedSet[rdf.Term]
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.contexts = newOrderedSet[rdf.Term]()
	s.graphs = map[rdf.Term]*index{}
	s.formulas = map[rdf.Term]bool{}
	s.union = newIndex()
	s.tripleContexts = map[rdf.Triple]*orderedSet[rdf.Term]{}
}

// Capabilities reports a context-, graph- and formula-aware store.
func (s *Store) Capabilities() store.Capabilities {
	return store.Capabilities{ContextAware: true, GraphAware: true, FormulaAware: true}
}

func (s *Store) graphIndex(graph rdf.Term) *index {
	idx, ok := s.graphs[graph]
	if !ok {
		idx = newIndex()
		s.graphs[graph] = idx
		s.contexts.add(graph)
	}
	return idx
}

// Add inserts t into graph.
func (s *Store) Add(t rdf.Triple, graph rdf.Term, quoted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(t, store.NormalizeContext(graph), quoted)
	return nil
}

func (s *Store) add(t rdf.Triple, graph rdf.Term, quoted bool) {
	s.graphIndex(graph).add(t)
	if quoted {
		s.formulas[graph] = true
		return
	}
	s.union.add(t)
	ctxs, ok := s.tripleContexts[t]
	if !ok {
		ctxs = newOrderedSet[rdf.Term]()
		s.tripleContexts[t] = ctxs
	}
	ctxs.add(graph)
}

// AddN inserts asserted quads.
func (s *Store) AddN(quads []rdf.Quad) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range quads {
		s.add(q.ToTriple(), store.NormalizeContext(q.G), false)
	}
	return nil
}

// Remove deletes matching triples from graph, or from every asserted
// context when graph is nil.
func (s *Store) Remove(p rdf.Pattern, graph rdf.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if graph == nil {
		for _, t := range s.union.match(p) {
			for _, ctx := range s.tripleContexts[t].values() {
				s.graphs[ctx].remove(t)
			}
			delete(s.tripleContexts, t)
			s.union.remove(t)
		}
		return nil
	}
	idx, ok := s.graphs[graph]
	if !ok {
		return nil
	}
	for _, t := range idx.match(p) {
		idx.remove(t)
		if ctxs, ok := s.tripleContexts[t]; ok && ctxs.remove(graph) {
			if ctxs.len() == 0 {
				delete(s.tripleContexts, t)
				s.union.remove(t)
			}
		}
	}
	return nil
}

// Triples scans graph, or the asserted union when graph is nil.
func (s *Store) Triples(p rdf.Pattern, graph rdf.Term) iter.Seq2[store.Match, error] {
	return func(yield func(store.Match, error) bool) {
		for _, m := range s.snapshot(p, graph) {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func (s *Store) snapshot(p rdf.Pattern, graph rdf.Term) []store.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if graph == nil {
		triples := s.union.match(p)
		out := make([]store.Match, len(triples))
		for i, t := range triples {
			out[i] = store.Match{Triple: t, Contexts: s.tripleContexts[t].values()}
		}
		return out
	}
	idx, ok := s.graphs[graph]
	if !ok {
		return nil
	}
	triples := idx.match(p)
	out := make([]store.Match, len(triples))
	for i, t := range triples {
		out[i] = store.Match{Triple: t, Contexts: []rdf.Term{graph}}
	}
	return out
}

// TriplesChoices scans one pattern per choice.
func (s *Store) TriplesChoices(c rdf.Choices, graph rdf.Term) iter.Seq2[store.Match, error] {
	return store.ExpandChoices(s, c, graph)
}

// Len counts triples in graph, or distinct asserted triples when graph is nil.
func (s *Store) Len(graph rdf.Term) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if graph == nil {
		return s.union.all.len(), nil
	}
	if idx, ok := s.graphs[graph]; ok {
		return idx.all.len(), nil
	}
	return 0, nil
}

// Contexts lists the asserted contexts of t, or every asserted context.
func (s *Store) Contexts(t *rdf.Triple) iter.Seq2[rdf.Term, error] {
	return func(yield func(rdf.Term, error) bool) {
		s.mu.RLock()
		var ctxs []rdf.Term
		if t == nil {
			for _, ctx := range s.contexts.values() {
				if !s.formulas[ctx] {
					ctxs = append(ctxs, ctx)
				}
			}
		} else if set, ok := s.tripleContexts[*t]; ok {
			ctxs = set.values()
		}
		s.mu.RUnlock()
		for _, ctx := range ctxs {
			if !yield(ctx, nil) {
				return
			}
		}
	}
}

// IsFormula reports whether graph holds quoted triples.
func (s *Store) IsFormula(graph rdf.Term) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.formulas[graph], nil
}

// AddGraph registers an empty graph.
func (s *Store) AddGraph(graph rdf.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphIndex(graph)
	return nil
}

// RemoveGraph deletes graph and its triples.
func (s *Store) RemoveGraph(graph rdf.Term) error {
	if err := s.Remove(rdf.Any, graph); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, graph)
	delete(s.formulas, graph)
	s.contexts.remove(graph)
	return nil
}

// Open is a no-op; the store has no persistent state.
func (s *Store) Open(config string, create bool) error {
	s.log.Debug("memory store opened")
	return nil
}

// Close is a no-op; the contents survive until Destroy.
func (s *Store) Close(commitPending bool) error {
	s.log.Debug("memory store closed")
	return nil
}

// Commit is a no-op.
func (s *Store) Commit() error { return nil }

// Rollback is a no-op.
func (s *Store) Rollback() error { return nil }

// Destroy discards every context.
func (s *Store) Destroy(config string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.log.Debug("memory store destroyed")
	return nil
}

// index holds one context's triples with per-position lookups.
type index struct {
	all         *orderedSet[rdf.Triple]
	bySubject   map[rdf.Term]*orderedSet[rdf.Triple]
	byPredicate map[rdf.IRI]*orderedSet[rdf.Triple]
	byObject    map[rdf.Term]*orderedSet[rdf.Triple]
}

func newIndex() *index {
	return &index{
		all:         newOrderedSet[rdf.Triple](),
		bySubject:   map[rdf.Term]*orderedSet[rdf.Triple]{},
		byPredicate: map[rdf.IRI]*orderedSet[rdf.Triple]{},
		byObject:    map[rdf.Term]*orderedSet[rdf.Triple]{},
	}
}

func addTo[K comparable](m map[K]*orderedSet[rdf.Triple], k K, t rdf.Triple) {
	set, ok := m[k]
	if !ok {
		set = newOrderedSet[rdf.Triple]()
		m[k] = set
	}
	set.add(t)
}

func removeFrom[K comparable](m map[K]*orderedSet[rdf.Triple], k K, t rdf.Triple) {
	if set, ok := m[k]; ok {
		set.remove(t)
		if set.len() == 0 {
			delete(m, k)
		}
	}
}

func (x *index) add(t rdf.Triple) {
	if !x.all.add(t) {
		return
	}
	addTo(x.bySubject, t.S, t)
	addTo(x.byPredicate, t.P, t)
	addTo(x.byObject, t.O, t)
}

func (x *index) remove(t rdf.Triple) {
	if !x.all.remove(t) {
		return
	}
	removeFrom(x.bySubject, t.S, t)
	removeFrom(x.byPredicate, t.P, t)
	removeFrom(x.byObject, t.O, t)
}

// match returns the triples matching p in insertion order, scanning the
// smallest candidate set.
func (x *index) match(p rdf.Pattern) []rdf.Triple {
	if p.IsBound() {
		t, ok := patternTriple(p)
		if ok && x.all.has(t) {
			return []rdf.Triple{t}
		}
		return nil
	}
	candidates := x.all
	if p.S != nil {
		set, ok := x.bySubject[p.S]
		if !ok {
			return nil
		}
		candidates = set
	}
	if p.P != nil {
		iri, ok := p.P.(rdf.IRI)
		if !ok {
			return nil
		}
		set, ok := x.byPredicate[iri]
		if !ok {
			return nil
		}
		if set.len() < candidates.len() {
			candidates = set
		}
	}
	if p.O != nil {
		set, ok := x.byObject[p.O]
		if !ok {
			return nil
		}
		if set.len() < candidates.len() {
			candidates = set
		}
	}
	var out []rdf.Triple
	for _, e := range candidates.entries {
		if e.live && p.Matches(e.value) {
			out = append(out, e.value)
		}
	}
	return out
}

func patternTriple(p rdf.Pattern) (rdf.Triple, bool) {
	iri, ok := p.P.(rdf.IRI)
	if !ok {
		return rdf.Triple{}, false
	}
	return rdf.Triple{S: p.S, P: iri, O: p.O}, true
}
