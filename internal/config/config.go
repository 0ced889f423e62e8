package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/Tiliavir/trivial-todo/internal/storage"
)

// Config is the root configuration for tdl, stored in ~/.tdl/config.json.
// The file is HuJSON: comments and trailing commas are allowed.
type Config struct {
	// DataFile is the task file. Empty means ~/.tdl/tasks.msgpack.
	DataFile string    `json:"data_file"`
	Log      LogConfig `json:"log"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level"`
	// Format is one of text, logfmt, json.
	Format string `json:"format"`
	// File is where the interactive UI writes its log. Empty means ~/.tdl/tdl.log.
	File string `json:"file"`
}

const (
	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
	// DefaultLogFormat is used when no format is configured.
	DefaultLogFormat = "text"
	// EnvDataFile overrides DataFile when set.
	EnvDataFile = "TDL_DATA_FILE"
)

// configTemplate is the annotated config written on first run.
const configTemplate = `// tdl configuration – ~/.tdl/config.json
//
// All settings are optional. Comments and trailing commas are allowed.
{
  // Task file. Leave empty for ~/.tdl/tasks.msgpack.
  // Can be overridden with the TDL_DATA_FILE environment variable or --data.
  "data_file": "",

  "log": {
    // debug, info, warn or error.
    "level": "info",
    // text, logfmt or json.
    "format": "text",
    // Log file used by the interactive UI. Leave empty for ~/.tdl/tdl.log.
    "file": "",
  },
}
`

// defaultConfig returns a Config pre-filled with defaults rooted at base.
func defaultConfig(base string) Config {
	return Config{
		DataFile: filepath.Join(base, storage.DataFileName),
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			File:   filepath.Join(base, "tdl.log"),
		},
	}
}

// Load reads ~/.tdl/config.json, creating it with annotated defaults on first
// run. Without a home directory no file is read and the paths stay empty
// unless EnvDataFile names the data file.
func Load() (Config, error) {
	base, err := storage.BaseDir()
	if err != nil {
		cfg := Config{Log: LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat}}
		applyEnv(&cfg)
		return cfg, err
	}
	return LoadFrom(base)
}

// LoadFrom reads <base>/config.json. Missing fields are filled with defaults
// rooted at base, and EnvDataFile overrides the data file.
func LoadFrom(base string) (Config, error) {
	path := filepath.Join(base, "config.json")
	cfg, err := read(path, base)
	applyEnv(&cfg)
	return cfg, err
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDataFile); v != "" {
		cfg.DataFile = v
	}
}

func read(path, base string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(base), nil
	}
	if err != nil {
		return defaultConfig(base), fmt.Errorf("reading config file %s: %w", path, err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return defaultConfig(base), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return defaultConfig(base), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	def := defaultConfig(base)
	if cfg.DataFile == "" {
		cfg.DataFile = def.DataFile
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Log.File == "" {
		cfg.Log.File = def.Log.File
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
