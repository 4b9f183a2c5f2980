package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolatedViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(t.TempDir())
	setDefaults(v)
	return v
}

func TestLoadFrom_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadFrom(isolatedViper(t), "")
	require.NoError(t, err)
	assert.Equal(t, GetDefaults(), cfg)
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
tree:
  expand_level: 0
  use_unicode_tree: false
search:
  filter: false
ui:
  theme: catppuccin
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadFrom(isolatedViper(t), path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Tree.ExpandLevel)
	assert.False(t, cfg.Tree.UseUnicodeTree)
	assert.False(t, cfg.Search.Filter)
	assert.Equal(t, "catppuccin", cfg.UI.Theme)
	// untouched keys keep their defaults
	assert.Equal(t, 80, cfg.Tree.MaxValueLength)
	assert.True(t, cfg.Search.SearchValues)
}

func TestLoadFrom_MissingExplicitFile(t *testing.T) {
	_, err := LoadFrom(isolatedViper(t), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tree: [unclosed"), 0o644))

	_, err := LoadFrom(isolatedViper(t), path)
	assert.Error(t, err)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LAZYJSON_TREE_EXPAND_LEVEL", "4")
	t.Setenv("LAZYJSON_LOG_LEVEL", "debug")

	v := New()
	assert.Equal(t, 4, v.GetInt("tree.expand_level"))
	assert.Equal(t, "debug", v.GetString("logging.level"))
}

func TestDataFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	path, err := DataFile("history.db")
	require.NoError(t, err)
	assert.Equal(t, "history.db", filepath.Base(path))
	assert.DirExists(t, filepath.Dir(path))
}
