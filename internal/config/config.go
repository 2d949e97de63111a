// Package config holds all AiOS configuration. Config lives in a
// project-local .aios directory (falling back to the user's home) as YAML,
// with environment variables taking precedence over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by MemoryConfig.Backend.
const (
	BackendInMemory = "inmem"
	BackendSQLite   = "sqlite"
)

// Config holds all AiOS configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Shell   ShellConfig   `yaml:"shell"`
	Memory  MemoryConfig  `yaml:"memory"`
	Modules ModulesConfig `yaml:"modules"`
	Emotion EmotionConfig `yaml:"emotion"`
	Logging LoggingConfig `yaml:"logging"`
}

// ShellConfig configures the interactive shell.
type ShellConfig struct {
	Theme string `yaml:"theme"` // "light" or "dark"
}

// MemoryConfig configures the celestial memory backend.
type MemoryConfig struct {
	Backend      string `yaml:"backend"`       // inmem or sqlite
	DatabasePath string `yaml:"database_path"` // used by the sqlite backend
}

// ModulesConfig configures the module registry.
type ModulesConfig struct {
	Dir        string `yaml:"dir"`         // directory holding module files
	LedgerPath string `yaml:"ledger_path"` // flat JSON ledger ("blockchain")
}

// EmotionConfig configures the emotion engine.
type EmotionConfig struct {
	LexiconPath string `yaml:"lexicon_path"` // optional YAML lexicon override
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug/info/warn/error
	Categories map[string]bool `yaml:"categories"`
	JSONFormat bool            `yaml:"json_format"`
}

// Default returns the default configuration rooted at dataDir.
func Default(dataDir string) *Config {
	return &Config{
		Name:    "AiOS",
		Version: "0.3.0",
		Shell:   ShellConfig{Theme: "dark"},
		Memory: MemoryConfig{
			Backend:      BackendInMemory,
			DatabasePath: filepath.Join(dataDir, "celestial.db"),
		},
		Modules: ModulesConfig{
			Dir:        "modules",
			LedgerPath: filepath.Join(dataDir, "blockchain.json"),
		},
		Emotion: EmotionConfig{},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DataDir returns the directory AiOS state lives in. An existing
// project-local .aios directory wins; otherwise ~/.aios. AIOS_DATA_DIR
// overrides both.
func DataDir() (string, error) {
	if dir := os.Getenv("AIOS_DATA_DIR"); dir != "" {
		return dir, nil
	}
	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ".aios")
		if stat, err := os.Stat(local); err == nil && stat.IsDir() {
			return local, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(home, ".aios"), nil
}

// File returns the full path of the config file under dataDir.
func File(dataDir string) string {
	return filepath.Join(dataDir, "config.yaml")
}

// Load reads the config file under dataDir. A missing file yields defaults;
// a malformed file is an error. Environment overrides are applied last.
func Load(dataDir string) (*Config, error) {
	cfg := Default(dataDir)

	data, err := os.ReadFile(File(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config as YAML under dataDir, creating the directory.
func (c *Config) Save(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(File(dataDir), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if theme := os.Getenv("AIOS_THEME"); theme != "" {
		c.Shell.Theme = theme
	}
	if backend := os.Getenv("AIOS_MEMORY_BACKEND"); backend != "" {
		c.Memory.Backend = backend
	}
	if dir := os.Getenv("AIOS_MODULES_DIR"); dir != "" {
		c.Modules.Dir = dir
	}
}

// Validate reports configuration values that cannot be acted on.
func (c *Config) Validate() error {
	switch c.Memory.Backend {
	case BackendInMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown memory backend %q", c.Memory.Backend)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
