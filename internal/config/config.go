package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName is used for the config directory and file names
const AppName = "lazyjson"

// Config holds all application configuration
type Config struct {
	UI      UIConfig      `mapstructure:"ui"`
	Tree    TreeConfig    `mapstructure:"tree"`
	Search  SearchConfig  `mapstructure:"search"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
	ShowPreview  bool   `mapstructure:"show_preview"`
}

type TreeConfig struct {
	ExpandLevel         int  `mapstructure:"expand_level"`
	ShowArrayIndices    bool `mapstructure:"show_array_indices"`
	ShowPrimitiveValues bool `mapstructure:"show_primitive_values"`
	MaxValueLength      int  `mapstructure:"max_value_length"`
	UseUnicodeTree      bool `mapstructure:"use_unicode_tree"`
	ShowSchemaTypes     bool `mapstructure:"show_schema_types"`
}

type SearchConfig struct {
	CaseSensitive bool `mapstructure:"case_sensitive"`
	SearchValues  bool `mapstructure:"search_values"`
	Filter        bool `mapstructure:"filter"`
}

type HistoryConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty means <config dir>/lazyjson.log
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
			ShowPreview:  false,
		},
		Tree: TreeConfig{
			ExpandLevel:         2,
			ShowArrayIndices:    true,
			ShowPrimitiveValues: true,
			MaxValueLength:      80,
			UseUnicodeTree:      true,
			ShowSchemaTypes:     false,
		},
		Search: SearchConfig{
			CaseSensitive: false,
			SearchValues:  true,
			Filter:        true,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// setDefaults registers every key so env and flag overrides resolve
func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("ui.show_preview", d.UI.ShowPreview)
	v.SetDefault("tree.expand_level", d.Tree.ExpandLevel)
	v.SetDefault("tree.show_array_indices", d.Tree.ShowArrayIndices)
	v.SetDefault("tree.show_primitive_values", d.Tree.ShowPrimitiveValues)
	v.SetDefault("tree.max_value_length", d.Tree.MaxValueLength)
	v.SetDefault("tree.use_unicode_tree", d.Tree.UseUnicodeTree)
	v.SetDefault("tree.show_schema_types", d.Tree.ShowSchemaTypes)
	v.SetDefault("search.case_sensitive", d.Search.CaseSensitive)
	v.SetDefault("search.search_values", d.Search.SearchValues)
	v.SetDefault("search.filter", d.Search.Filter)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// New returns a viper instance with defaults and the standard search paths.
// Callers may bind flags to it before calling LoadFrom.
func New() *viper.Viper {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 1. User config directory
	if configDir, err := GetConfigPath(); err == nil {
		v.AddConfigPath(configDir)
	}
	// 2. Current directory
	v.AddConfigPath(".")
	// 3. Default config directory
	v.AddConfigPath("./config")

	v.SetEnvPrefix("LAZYJSON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("logging.level", "LAZYJSON_LOG_LEVEL")

	setDefaults(v)
	return v
}

// Load loads configuration from the standard locations
func Load() (*Config, error) {
	return LoadFrom(New(), "")
}

// LoadFrom reads configuration into v and unmarshals it. When file is set it
// is used instead of the search paths and must exist.
func LoadFrom(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// DataFile returns the path of a file kept in the config directory,
// creating the directory when needed
func DataFile(name string) (string, error) {
	dir, err := GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	return filepath.Join(dir, name), nil
}
