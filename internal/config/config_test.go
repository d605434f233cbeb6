package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverridesDefaultsAndKeepsUnsetFieldsDefault(t *testing.T) {
	r := strings.NewReader(`
[log]
level = "debug"

[sql]
url = "sqlite3://./data.db"
`)
	cfg, err := Parse(r)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite3://./data.db", cfg.SQL.URL)
	assert.Equal(t, "String", cfg.CSV.DefaultTypeHint) // untouched, stays at Default()
}

func TestParseRejectsMalformedToml(t *testing.T) {
	_, err := Parse(strings.NewReader("not = [valid"))
	require.Error(t, err)
}
