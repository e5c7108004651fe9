package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "rdfgraph", cmd.Use)
	assert.Contains(t, cmd.Long, "SQLite")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"load", "stats", "graphs", "cbd", "skolemize", "convert"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "command %s should exist", name)
			require.NotNil(t, sub)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	cfgFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfgFlag)
	assert.Equal(t, "c", cfgFlag.Shorthand)
	assert.Equal(t, "rdfgraph.yaml", cfgFlag.DefValue)

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, tc := range []struct{ command, flag, shorthand string }{
		{"load", "graph", "g"},
		{"graphs", "non-empty", ""},
		{"graphs", "subject", ""},
		{"cbd", "graph", "g"},
		{"skolemize", "de", ""},
		{"convert", "to", ""},
		{"convert", "from", ""},
	} {
		t.Run(tc.command+"/"+tc.flag, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{tc.command})
			require.NoError(t, err)
			f := sub.Flags().Lookup(tc.flag)
			require.NotNil(t, f)
			assert.Equal(t, tc.shorthand, f.Shorthand)
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "", "stats", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
