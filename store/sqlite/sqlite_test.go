package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
	"github.com/recalcitrantsupplant/rdflib/store/storetest"
)

func openTemp(t testing.TB, opts ...Option) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s := New(opts...)
	require.NoError(t, s.Open(path, true))
	t.Cleanup(func() { s.Close(false) })
	return s, path
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t testing.TB) store.Store {
		s, _ := openTemp(t)
		return s
	})
}

func TestConformanceInMemoryDatabase(t *testing.T) {
	storetest.Run(t, func(t testing.TB) store.Store {
		s := New()
		require.NoError(t, s.Open("", true))
		t.Cleanup(func() { s.Close(false) })
		return s
	})
}

func TestSchemaVersion(t *testing.T) {
	s, _ := openTemp(t)
	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestPersistsAcrossReopen(t *testing.T) {
	s, path := openTemp(t)
	triples := storetest.MakeTriples()
	g := rdf.IRI{Value: "http://example.org/g"}
	for _, tr := range triples {
		require.NoError(t, s.Add(tr, g, false))
	}
	require.NoError(t, s.Close(true))

	reopened := New()
	require.NoError(t, reopened.Open(path, false))
	defer reopened.Close(false)
	assert.Equal(t, triples, storetest.Collect(t, reopened, rdf.Any, g))
}

func TestOpenWithoutCreateRequiresFile(t *testing.T) {
	s := New()
	err := s.Open(filepath.Join(t.TempDir(), "missing.db"), false)
	assert.Error(t, err)
}

func TestClosedStore(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Close(false))
	err := s.Add(storetest.MakeTriples()[0], nil, false)
	assert.True(t, errors.Is(err, rdf.ErrStoreClosed))
	_, err = s.Len(nil)
	assert.True(t, errors.Is(err, rdf.ErrStoreClosed))
}

func TestTransactions(t *testing.T) {
	s, _ := openTemp(t, WithTransactions())
	assert.True(t, s.Capabilities().Transactional)
	triples := storetest.MakeTriples()

	require.NoError(t, s.Add(triples[0], nil, false))
	assert.Len(t, storetest.Collect(t, s, rdf.Any, nil), 1, "reads see the pending transaction")
	require.NoError(t, s.Rollback())
	assert.Empty(t, storetest.Collect(t, s, rdf.Any, nil))

	require.NoError(t, s.AddN([]rdf.Quad{triples[1].ToQuad()}))
	require.NoError(t, s.Commit())
	require.NoError(t, s.Rollback())
	assert.Equal(t, []rdf.Triple{triples[1]}, storetest.Collect(t, s, rdf.Any, nil))
}

func TestDestroyRemovesFile(t *testing.T) {
	s, path := openTemp(t)
	require.NoError(t, s.Add(storetest.MakeTriples()[0], nil, false))
	require.NoError(t, s.Close(true))
	require.NoError(t, s.Destroy(path))

	err := New().Open(path, false)
	assert.Error(t, err)
}

func TestRegistered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reg.db")
	s, err := store.Open("sqlite", store.Config{Path: path, Create: true})
	require.NoError(t, err)
	defer s.Close(false)
	assert.IsType(t, &Store{}, s)
	assert.Equal(t, DefaultDriver, s.(*Store).driver)
}

func TestCgoDriver(t *testing.T) {
	s := New(WithDriver("sqlite3"))
	if err := s.Open(filepath.Join(t.TempDir(), "cgo.db"), true); err != nil {
		t.Skipf("cgo sqlite driver unavailable: %v", err)
	}
	defer s.Close(false)
	tr := storetest.MakeTriples()[2]
	require.NoError(t, s.Add(tr, nil, false))
	assert.Equal(t, []rdf.Triple{tr}, storetest.Collect(t, s, rdf.Any, nil))
}
