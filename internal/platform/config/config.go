package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

type Config struct {
	APIURL     string     `mapstructure:"api_url"`
	DataDir    string     `mapstructure:"data_dir"`
	TokenStore TokenStore `mapstructure:"token_store"`
	HTTP       HTTP       `mapstructure:"http"`
	Cache      Cache      `mapstructure:"cache"`
	Log        Log        `mapstructure:"log"`
	ExportDir  string     `mapstructure:"export_dir"`
}

type TokenStore struct {
	Backend string `mapstructure:"backend"`
}

type HTTP struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type Cache struct {
	DetailTTL time.Duration `mapstructure:"detail_ttl"`
	ListTTL   time.Duration `mapstructure:"list_ttl"`
}

type Log struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DBPath is the SQLite file backing the token store.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "goalplan.db")
}

// KVDir is the directory backing the file token store.
func (c Config) KVDir() string {
	return filepath.Join(c.DataDir, "kv")
}

// Load reads config.yaml from configPath (when set), $GOALPLAN_CONFIG_PATH,
// ~/.goalplan and the working directory, then applies GOALPLAN_* env vars.
// A missing config file is not an error.
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GOALPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	if override := os.Getenv("GOALPLAN_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("$HOME/.goalplan")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return normalize(cfg)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", "http://localhost:8000")
	v.SetDefault("data_dir", "~/.goalplan")
	v.SetDefault("token_store.backend", BackendSQLite)
	v.SetDefault("http.timeout", "0s")
	v.SetDefault("cache.detail_ttl", "5m")
	v.SetDefault("cache.list_ttl", "0s")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("export_dir", ".")
}

func normalize(cfg Config) (Config, error) {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		return Config{}, fmt.Errorf("api_url is required")
	}

	dataDir, err := homedir.Expand(cfg.DataDir)
	if err != nil {
		return Config{}, fmt.Errorf("expand data_dir: %w", err)
	}
	cfg.DataDir = dataDir

	exportDir, err := homedir.Expand(cfg.ExportDir)
	if err != nil {
		return Config{}, fmt.Errorf("expand export_dir: %w", err)
	}
	cfg.ExportDir = exportDir

	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.DataDir, "goalplan.log")
	} else if cfg.Log.File, err = homedir.Expand(cfg.Log.File); err != nil {
		return Config{}, fmt.Errorf("expand log.file: %w", err)
	}

	switch cfg.TokenStore.Backend {
	case BackendSQLite, BackendFile:
	default:
		return Config{}, fmt.Errorf("unknown token_store.backend %q: want sqlite|file", cfg.TokenStore.Backend)
	}
	if cfg.HTTP.Timeout < 0 || cfg.Cache.DetailTTL < 0 || cfg.Cache.ListTTL < 0 {
		return Config{}, fmt.Errorf("durations must be non-negative")
	}
	return cfg, nil
}
