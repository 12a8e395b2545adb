package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends selectable at startup.
const (
	StoreSQLite = "sqlite"
	StoreBadger = "badger"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Store         StoreConfig   `yaml:"store"`
}

type StoreConfig struct {
	// Backend selects the persistence implementation: sqlite or badger.
	Backend string `yaml:"backend"`
	// DatabasePath is the SQLite file (sqlite backend).
	DatabasePath string `yaml:"database_path"`
	// DataDir is the document store directory (badger backend).
	DataDir string `yaml:"data_dir"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour

	cfg := &Config{
		Addr:          getEnv("WORKLOG_ADDR", ":8080"),
		JWTSecret:     getEnv("WORKLOG_JWT_SECRET", "supersecretkey"),
		APITimeout:    apiTimeout,
		TokenDuration: tokenDuration,
		Store: StoreConfig{
			Backend:      getEnv("WORKLOG_STORE", StoreSQLite),
			DatabasePath: getEnv("WORKLOG_DB_PATH", "worklogs.db"),
			DataDir:      getEnv("WORKLOG_DATA_DIR", "worklogs.badger"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Store.Backend != StoreSQLite && cfg.Store.Backend != StoreBadger {
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
