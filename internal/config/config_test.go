package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recalcitrantsupplant/rdflib/rdf"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{"RDFLIB_STORE", "RDFLIB_STORE_PATH", "RDFLIB_REDIS_ADDR", "RDFLIB_REDIS_DB", "RDFLIB_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, rdf.SkolemAuthority, cfg.Skolem.Authority)
}

func TestLoadOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rdfgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: sqlite
  path: /tmp/graph.db
  driver: sqlite3
batch:
  size: 50
logging:
  level: debug
  json: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "sqlite3", cfg.Store.Driver)
	assert.Equal(t, 50, cfg.Batch.Size)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr, "unset keys keep their defaults")

	sc := cfg.StoreConfig()
	assert.Equal(t, "/tmp/graph.db", sc.Path)
	assert.True(t, sc.Create)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RDFLIB_STORE", "redis")
	t.Setenv("RDFLIB_REDIS_ADDR", "cache:6380")
	t.Setenv("RDFLIB_REDIS_DB", "3")
	t.Setenv("RDFLIB_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.StoreConfig().Addr)
	assert.Equal(t, 3, cfg.StoreConfig().DB)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"no backend":       func(c *Config) { c.Store.Backend = "" },
		"sqlite sans path": func(c *Config) { c.Store.Backend = "sqlite" },
		"tiny batch":       func(c *Config) { c.Batch.Size = 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unterminated"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "rdfgraph.yaml")
	cfg := Default()
	cfg.Batch.Size = 7
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
