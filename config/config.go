// Package config resolves where deskbook keeps its data files. Defaults
// can be overridden by a YAML config file and by environment variables; a
// .env file next to the binary is loaded first if present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables. DESKBOOK_CONFIG points at an alternate YAML file.
const (
	EnvConfig  = "DESKBOOK_CONFIG"
	EnvDataDir = "DESKBOOK_DATA_DIR"
)

// DefaultConfigFile is looked for in the working directory when
// DESKBOOK_CONFIG is unset.
const DefaultConfigFile = "deskbook.yaml"

// Config holds the data directory and the per-store file names. File names
// are joined onto DataDir; the delimited formats behind them are part of
// the compatibility surface and are not configurable.
type Config struct {
	DataDir      string `yaml:"data_dir"`
	ContactsFile string `yaml:"contacts_file"`
	TasksFile    string `yaml:"tasks_file"`
	UsersFile    string `yaml:"users_file"`
	PostsFile    string `yaml:"posts_file"`
	AccountsFile string `yaml:"accounts_file"`
	LedgerFile   string `yaml:"ledger_file"`
	ExportFile   string `yaml:"export_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:      "data",
		ContactsFile: "database.txt",
		TasksFile:    "tasks.txt",
		UsersFile:    "users.txt",
		PostsFile:    "posts.txt",
		AccountsFile: "accounts.txt",
		LedgerFile:   "transactions.txt",
		ExportFile:   "contacts_export.csv",
	}
}

// Load builds the effective configuration: defaults, then the YAML file if
// one exists, then environment overrides. A missing .env or YAML file is
// not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	path := os.Getenv(EnvConfig)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file, defaults apply.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

// EnsureDataDir creates the data directory if needed.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o755)
}

func (c *Config) ContactsPath() string { return filepath.Join(c.DataDir, c.ContactsFile) }
func (c *Config) TasksPath() string    { return filepath.Join(c.DataDir, c.TasksFile) }
func (c *Config) UsersPath() string    { return filepath.Join(c.DataDir, c.UsersFile) }
func (c *Config) PostsPath() string    { return filepath.Join(c.DataDir, c.PostsFile) }
func (c *Config) AccountsPath() string { return filepath.Join(c.DataDir, c.AccountsFile) }
func (c *Config) LedgerPath() string   { return filepath.Join(c.DataDir, c.LedgerFile) }
func (c *Config) ExportPath() string   { return filepath.Join(c.DataDir, c.ExportFile) }
