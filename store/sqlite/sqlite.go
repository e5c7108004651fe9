// Package sqlite implements a durable, graph-aware store on SQLite.
//
// The pure Go driver (modernc.org/sqlite, driver name "sqlite") is the
// default; the cgo driver (github.com/mattn/go-sqlite3, driver name
// "sqlite3") can be selected with WithDriver.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema
// 1 - Added partial (s, p, o) index over asserted rows
const currentSchemaVersion = 1

// DefaultDriver is the database/sql driver used unless WithDriver is given.
const DefaultDriver = "sqlite"

func init() {
	store.Register("sqlite", func(cfg store.Config) (store.Store, error) {
		opts := []Option{WithLogger(cfg.Logger)}
		if cfg.Driver != "" {
			opts = append(opts, WithDriver(cfg.Driver))
		}
		return New(opts...), nil
	})
}

// Option configures a Store.
type Option func(*Store)

// WithDriver selects the database/sql driver name.
func WithDriver(driver string) Option {
	return func(s *Store) { s.driver = driver }
}

// WithLogger sets the logger for lifecycle and transaction events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithContext sets the context used for every database call.
func WithContext(ctx context.Context) Option {
	return func(s *Store) { s.ctx = ctx }
}

// WithTransactions buffers writes in a transaction until Commit.
func WithTransactions() Option {
	return func(s *Store) { s.transactional = true }
}

// Store persists quads in a SQLite database.
type Store struct {
	driver        string
	log           *zap.Logger
	ctx           context.Context
	transactional bool

	mu   sync.Mutex
	db   *sql.DB
	tx   *sql.Tx
	path string
}

var _ store.Store = (*Store)(nil)

// New returns an unopened store.
func New(opts ...Option) *Store {
	s := &Store{driver: DefaultDriver, log: zap.NewNop(), ctx: context.Background()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capabilities reports a graph- and formula-aware store.
func (s *Store) Capabilities() store.Capabilities {
	return store.Capabilities{ContextAware: true, GraphAware: true, FormulaAware: true, Transactional: s.transactional}
}

// Open creates or opens the database at path. When create is false the
// file must already exist.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func (s *Store) Open(path string, create bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}
	if path == "" {
		path = ":memory:"
	}
	if !create && path != ":memory:" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("sqlite: open %s: %w", path, err)
		}
	}

	db, err := sql.Open(s.driver, path)
	if err != nil {
		return fmt.Errorf("sqlite: failed to open database: %w", err)
	}
	if err := db.PingContext(s.ctx); err != nil {
		db.Close()
		return fmt.Errorf("sqlite: failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, and :memory: databases
	// exist per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(s.ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("sqlite: failed to apply pragmas: %w", err)
	}
	if err := applySchema(s.ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("sqlite: failed to apply schema: %w", err)
	}

	s.db = db
	s.path = path
	s.log.Debug("sqlite store opened", zap.String("path", path), zap.String("driver", s.driver))
	return nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < 1 {
		_, err := db.ExecContext(ctx, `
			CREATE INDEX IF NOT EXISTS idx_quads_spo_asserted
			ON quads(s, p, o) WHERE quoted = 0
		`)
		if err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Close commits or discards a pending transaction and closes the database.
func (s *Store) Close(commitPending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	var txErr error
	if s.tx != nil {
		if commitPending {
			txErr = s.tx.Commit()
		} else {
			txErr = s.tx.Rollback()
		}
		s.tx = nil
	}
	err := s.db.Close()
	s.db = nil
	s.log.Debug("sqlite store closed", zap.String("path", s.path), zap.Bool("commit", commitPending))
	return errors.Join(txErr, err)
}

// Commit commits the pending transaction, if any.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		s.log.Error("sqlite commit failed", zap.Error(err))
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Rollback discards the pending transaction, if any.
func (s *Store) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil {
		s.log.Error("sqlite rollback failed", zap.Error(err))
		return fmt.Errorf("sqlite: rollback: %w", err)
	}
	return nil
}

// Destroy deletes every quad and graph of the open database. A config
// naming another database file removes that file instead.
func (s *Store) Destroy(config string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil || (config != "" && config != s.path) {
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(config + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("sqlite: destroy: %w", err)
			}
		}
		return nil
	}
	for _, stmt := range []string{"DELETE FROM quads", "DELETE FROM graphs"} {
		if _, err := s.conn().ExecContext(s.ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: destroy: %w", err)
		}
	}
	s.log.Debug("sqlite store destroyed", zap.String("path", s.path))
	return nil
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the active transaction or the database. The caller holds mu.
func (s *Store) conn() execQuerier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// writer returns the connection writes go through, starting a transaction
// in transactional mode. The caller holds mu.
func (s *Store) writer() (execQuerier, error) {
	if s.db == nil {
		return nil, rdf.ErrStoreClosed
	}
	if !s.transactional || s.tx != nil {
		return s.conn(), nil
	}
	tx, err := s.db.BeginTx(s.ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	s.tx = tx
	return tx, nil
}

func (s *Store) reader() (execQuerier, error) {
	if s.db == nil {
		return nil, rdf.ErrStoreClosed
	}
	return s.conn(), nil
}
