// Package redis implements a graph-aware store on Redis sorted sets.
//
// Every key lives under a configurable prefix:
//
//	<prefix>seq           counter scoring inserts
//	<prefix>graphs        zset of graph names in registration order
//	<prefix>formulas      set of graphs holding quoted triples
//	<prefix>g:<graph>     zset of the triples in one graph
//	<prefix>union         zset of asserted triples in first-assertion order
//	<prefix>tc:<triple>   zset of the asserted graphs holding a triple
package redis

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
)

// DefaultPrefix namespaces keys when no prefix is configured.
const DefaultPrefix = "rdflib:"

func init() {
	store.Register("redis", func(cfg store.Config) (store.Store, error) {
		opts := &redis.Options{Addr: cfg.Addr, DB: cfg.DB}
		if opts.Addr == "" {
			opts.Addr = "localhost:6379"
		}
		return New(opts, WithPrefix(cfg.Prefix), WithLogger(cfg.Logger)), nil
	})
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithContext sets the context used for every Redis call.
func WithContext(ctx context.Context) Option {
	return func(s *Store) { s.ctx = ctx }
}

// Store keeps quads in Redis.
type Store struct {
	options *redis.Options
	prefix  string
	log     *zap.Logger
	ctx     context.Context

	// mu serializes multi-key writes issued by this process.
	mu     sync.Mutex
	client *redis.Client
}

var _ store.Store = (*Store)(nil)

// New returns an unopened store for the server described by options.
func New(options *redis.Options, opts ...Option) *Store {
	s := &Store{options: options, prefix: DefaultPrefix, log: zap.NewNop(), ctx: context.Background()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capabilities reports a graph- and formula-aware store.
func (s *Store) Capabilities() store.Capabilities {
	return store.Capabilities{ContextAware: true, GraphAware: true, FormulaAware: true}
}

// Open connects to Redis. A non-empty config is a redis:// URL overriding
// the configured options.
func (s *Store) Open(config string, create bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return nil
	}
	options := s.options
	if config != "" {
		parsed, err := redis.ParseURL(config)
		if err != nil {
			return fmt.Errorf("redis: open: %w", err)
		}
		options = parsed
	}
	client := redis.NewClient(options)
	if err := client.Ping(s.ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("redis: connect %s: %w", options.Addr, err)
	}
	s.client = client
	s.log.Debug("redis store opened", zap.String("addr", options.Addr), zap.String("prefix", s.prefix))
	return nil
}

// Close disconnects. Writes are applied immediately, so commitPending has no
// effect.
func (s *Store) Close(commitPending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	s.log.Debug("redis store closed", zap.String("prefix", s.prefix))
	return err
}

// Commit is a no-op.
func (s *Store) Commit() error { return nil }

// Rollback is a no-op.
func (s *Store) Rollback() error { return nil }

// Destroy deletes every key under the prefix, or under config when given.
func (s *Store) Destroy(config string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return rdf.ErrStoreClosed
	}
	prefix := s.prefix
	if config != "" {
		prefix = config
	}
	it := s.client.Scan(s.ctx, 0, prefix+"*", 500).Iterator()
	var batch []string
	for it.Next(s.ctx) {
		batch = append(batch, it.Val())
		if len(batch) == 500 {
			if err := s.client.Del(s.ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis: destroy: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("redis: destroy: %w", err)
	}
	if len(batch) > 0 {
		if err := s.client.Del(s.ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis: destroy: %w", err)
		}
	}
	s.log.Debug("redis store destroyed", zap.String("prefix", prefix))
	return nil
}

func (s *Store) key(parts ...string) string {
	return s.prefix + strings.Join(parts, ":")
}

func (s *Store) graphKey(graph rdf.Term) string {
	return s.key("g", rdf.FormatTerm(graph))
}

func (s *Store) contextsKey(member string) string {
	return s.key("tc", member)
}

// encodeTriple joins the N-Triples forms of the terms with NUL, which no
// encoded term contains.
func encodeTriple(t rdf.Triple) string {
	return rdf.FormatTerm(t.S) + "\x00" + rdf.FormatTerm(t.P) + "\x00" + rdf.FormatTerm(t.O)
}

func decodeTriple(member string) (rdf.Triple, error) {
	parts := strings.SplitN(member, "\x00", 3)
	if len(parts) != 3 {
		return rdf.Triple{}, fmt.Errorf("redis: malformed triple %q", member)
	}
	terms := make([]rdf.Term, 3)
	for i, part := range parts {
		term, err := rdf.ParseTerm(part)
		if err != nil {
			return rdf.Triple{}, fmt.Errorf("redis: decode %q: %w", part, err)
		}
		terms[i] = term
	}
	predicate, ok := terms[1].(rdf.IRI)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("redis: decode predicate %q: not an IRI", parts[1])
	}
	return rdf.Triple{S: terms[0], P: predicate, O: terms[2]}, nil
}

func (s *Store) connected() error {
	if s.client == nil {
		return rdf.ErrStoreClosed
	}
	return nil
}

// Add inserts t into graph.
func (s *Store) Add(t rdf.Triple, graph rdf.Term, quoted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connected(); err != nil {
		return err
	}
	if err := s.add(t, store.NormalizeContext(graph), quoted); err != nil {
		return fmt.Errorf("redis: add: %w", err)
	}
	return nil
}

func (s *Store) add(t rdf.Triple, graph rdf.Term, quoted bool) error {
	seq, err := s.client.Incr(s.ctx, s.key("seq")).Result()
	if err != nil {
		return err
	}
	member := encodeTriple(t)
	name := rdf.FormatTerm(graph)
	z := func(m string) redis.Z { return redis.Z{Score: float64(seq), Member: m} }
	_, err = s.client.TxPipelined(s.ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddNX(s.ctx, s.key("graphs"), z(name))
		pipe.ZAddNX(s.ctx, s.graphKey(graph), z(member))
		if quoted {
			pipe.SAdd(s.ctx, s.key("formulas"), name)
			return nil
		}
		pipe.ZAddNX(s.ctx, s.key("union"), z(member))
		pipe.ZAddNX(s.ctx, s.contextsKey(member), z(name))
		return nil
	})
	return err
}

// AddN inserts asserted quads.
func (s *Store) AddN(quads []rdf.Quad) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connected(); err != nil {
		return err
	}
	for _, q := range quads {
		if err := s.add(q.ToTriple(), store.NormalizeContext(q.G), false); err != nil {
			return fmt.Errorf("redis: add batch: %w", err)
		}
	}
	return nil
}

// members returns the decoded triples of a zset matching p, in score order.
func (s *Store) members(key string, p rdf.Pattern) ([]rdf.Triple, []string, error) {
	if p.P != nil {
		if _, ok := p.P.(rdf.IRI); !ok {
			return nil, nil, nil
		}
	}
	if p.IsBound() {
		t := rdf.Triple{S: p.S, P: p.P.(rdf.IRI), O: p.O}
		member := encodeTriple(t)
		_, err := s.client.ZScore(s.ctx, key, member).Result()
		if errors.Is(err, redis.Nil) {
			return nil, nil, nil
		}
		if err != nil {
			return nil, nil, err
		}
		return []rdf.Triple{t}, []string{member}, nil
	}
	raw, err := s.client.ZRange(s.ctx, key, 0, -1).Result()
	if err != nil {
		return nil, nil, err
	}
	var triples []rdf.Triple
	var kept []string
	for _, member := range raw {
		t, err := decodeTriple(member)
		if err != nil {
			return nil, nil, err
		}
		if p.Matches(t) {
			triples = append(triples, t)
			kept = append(kept, member)
		}
	}
	return triples, kept, nil
}

func (s *Store) terms(key string) ([]rdf.Term, error) {
	raw, err := s.client.ZRange(s.ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]rdf.Term, 0, len(raw))
	for _, name := range raw {
		term, err := rdf.ParseTerm(name)
		if err != nil {
			return nil, fmt.Errorf("redis: decode graph %q: %w", name, err)
		}
		out = append(out, term)
	}
	return out, nil
}

// Remove deletes matching triples from graph, or from every asserted
// context when graph is nil.
func (s *Store) Remove(p rdf.Pattern, graph rdf.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connected(); err != nil {
		return err
	}
	if graph == nil {
		_, members, err := s.members(s.key("union"), p)
		if err != nil {
			return fmt.Errorf("redis: remove: %w", err)
		}
		for _, member := range members {
			names, err := s.client.ZRange(s.ctx, s.contextsKey(member), 0, -1).Result()
			if err != nil {
				return fmt.Errorf("redis: remove: %w", err)
			}
			_, err = s.client.TxPipelined(s.ctx, func(pipe redis.Pipeliner) error {
				for _, name := range names {
					pipe.ZRem(s.ctx, s.key("g", name), member)
				}
				pipe.Del(s.ctx, s.contextsKey(member))
				pipe.ZRem(s.ctx, s.key("union"), member)
				return nil
			})
			if err != nil {
				return fmt.Errorf("redis: remove: %w", err)
			}
		}
		return nil
	}
	_, members, err := s.members(s.graphKey(graph), p)
	if err != nil {
		return fmt.Errorf("redis: remove: %w", err)
	}
	name := rdf.FormatTerm(graph)
	for _, member := range members {
		if err := s.client.ZRem(s.ctx, s.graphKey(graph), member).Err(); err != nil {
			return fmt.Errorf("redis: remove: %w", err)
		}
		removed, err := s.client.ZRem(s.ctx, s.contextsKey(member), name).Result()
		if err != nil {
			return fmt.Errorf("redis: remove: %w", err)
		}
		if removed == 0 {
			continue
		}
		left, err := s.client.ZCard(s.ctx, s.contextsKey(member)).Result()
		if err != nil {
			return fmt.Errorf("redis: remove: %w", err)
		}
		if left == 0 {
			if err := s.client.ZRem(s.ctx, s.key("union"), member).Err(); err != nil {
				return fmt.Errorf("redis: remove: %w", err)
			}
		}
	}
	return nil
}

// Triples scans graph, or the asserted union when graph is nil.
func (s *Store) Triples(p rdf.Pattern, graph rdf.Term) iter.Seq2[store.Match, error] {
	return func(yield func(store.Match, error) bool) {
		matches, err := s.scan(p, graph)
		if err != nil {
			yield(store.Match{}, err)
			return
		}
		for _, m := range matches {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func (s *Store) scan(p rdf.Pattern, graph rdf.Term) ([]store.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connected(); err != nil {
		return nil, err
	}
	key := s.key("union")
	if graph != nil {
		key = s.graphKey(graph)
	}
	triples, members, err := s.members(key, p)
	if err != nil {
		return nil, fmt.Errorf("redis: scan: %w", err)
	}
	out := make([]store.Match, len(triples))
	for i, t := range triples {
		if graph != nil {
			out[i] = store.Match{Triple: t, Contexts: []rdf.Term{graph}}
			continue
		}
		ctxs, err := s.terms(s.contextsKey(members[i]))
		if err != nil {
			return nil, fmt.Errorf("redis: scan: %w", err)
		}
		out[i] = store.Match{Triple: t, Contexts: ctxs}
	}
	return out, nil
}

// TriplesChoices scans one pattern per choice.
func (s *Store) TriplesChoices(c rdf.Choices, graph rdf.Term) iter.Seq2[store.Match, error] {
	return store.ExpandChoices(s, c, graph)
}

// Len counts triples in graph, or distinct asserted triples when graph is nil.
func (s *Store) Len(graph rdf.Term) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connected(); err != nil {
		return 0, err
	}
	key := s.key("union")
	if graph != nil {
		key = s.graphKey(graph)
	}
	n, err := s.client.ZCard(s.ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: len: %w", err)
	}
	return int(n), nil
}

// Contexts lists the asserted contexts of t, or every asserted context.
func (s *Store) Contexts(t *rdf.Triple) iter.Seq2[rdf.Term, error] {
	return func(yield func(rdf.Term, error) bool) {
		ctxs, err := s.contexts(t)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, ctx := range ctxs {
			if !yield(ctx, nil) {
				return
			}
		}
	}
}

func (s *Store) contexts(t *rdf.Triple) ([]rdf.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connected(); err != nil {
		return nil, err
	}
	if t != nil {
		return s.terms(s.contextsKey(encodeTriple(*t)))
	}
	all, err := s.terms(s.key("graphs"))
	if err != nil {
		return nil, err
	}
	formulas, err := s.client.SMembers(s.ctx, s.key("formulas")).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: contexts: %w", err)
	}
	skip := make(map[string]bool, len(formulas))
	for _, name := range formulas {
		skip[name] = true
	}
	out := all[:0]
	for _, ctx := range all {
		if !skip[rdf.FormatTerm(ctx)] {
			out = append(out, ctx)
		}
	}
	return out, nil
}

// IsFormula reports whether graph holds quoted triples.
func (s *Store) IsFormula(graph rdf.Term) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connected(); err != nil {
		return false, err
	}
	ok, err := s.client.SIsMember(s.ctx, s.key("formulas"), rdf.FormatTerm(graph)).Result()
	if err != nil {
		return false, fmt.Errorf("redis: is formula: %w", err)
	}
	return ok, nil
}

// AddGraph registers an empty graph.
func (s *Store) AddGraph(graph rdf.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connected(); err != nil {
		return err
	}
	seq, err := s.client.Incr(s.ctx, s.key("seq")).Result()
	if err != nil {
		return fmt.Errorf("redis: add graph: %w", err)
	}
	err = s.client.ZAddNX(s.ctx, s.key("graphs"), redis.Z{Score: float64(seq), Member: rdf.FormatTerm(graph)}).Err()
	if err != nil {
		return fmt.Errorf("redis: add graph: %w", err)
	}
	return nil
}

// RemoveGraph deletes graph and its triples.
func (s *Store) RemoveGraph(graph rdf.Term) error {
	if err := s.Remove(rdf.Any, graph); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connected(); err != nil {
		return err
	}
	name := rdf.FormatTerm(graph)
	_, err := s.client.TxPipelined(s.ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(s.ctx, s.graphKey(graph))
		pipe.ZRem(s.ctx, s.key("graphs"), name)
		pipe.SRem(s.ctx, s.key("formulas"), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: remove graph: %w", err)
	}
	return nil
}
