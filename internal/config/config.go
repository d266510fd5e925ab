// Package config loads process configuration for the resumepdf binaries
// from a TOML file.
//
// The file is looked up in this order: an explicit path, the
// RESUMEPDF_CONFIG environment variable, then
// $XDG_CONFIG_HOME/resumepdf/config.toml (~/.config/resumepdf/config.toml).
// A missing file yields Default; a malformed one is an error.
//
//	[fonts]
//	dir = "/usr/share/fonts/truetype/dejavu"
//	fallback = "DejaVuSans"
//
//	[assets]
//	dirs = ["./themes-extra"]
//	default_theme = "aqua-card"
//
//	[server]
//	addr = ":8080"
//	timeout = "30s"
//
//	[store]
//	backend = "redis"
//
//	[store.redis]
//	addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvVar names the environment variable that selects the config file.
const EnvVar = "RESUMEPDF_CONFIG"

const appName = "resumepdf"

// Store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// ErrInvalid is returned for a config file that parses but holds values
// that cannot be used.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete process configuration.
type Config struct {
	Fonts  Fonts  `toml:"fonts"`
	Assets Assets `toml:"assets"`
	Server Server `toml:"server"`
	Store  Store  `toml:"store"`
	Batch  Batch  `toml:"batch"`
}

// Fonts configures font discovery.
type Fonts struct {
	Dir      string `toml:"dir"`
	Fallback string `toml:"fallback"`
}

// Assets configures where themes, layouts and letterheads are found.
// Directories are searched in order before the embedded documents.
type Assets struct {
	Dirs         []string `toml:"dirs"`
	DefaultTheme string   `toml:"default_theme"`
}

// Server configures the HTTP front end.
type Server struct {
	Addr    string        `toml:"addr"`
	Timeout time.Duration `toml:"timeout"`
}

// Store configures profile persistence.
type Store struct {
	Backend string     `toml:"backend"`
	Dir     string     `toml:"dir"`
	Redis   RedisStore `toml:"redis"`
	Mongo   MongoStore `toml:"mongo"`
}

// RedisStore holds Redis connection settings.
type RedisStore struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoStore holds MongoDB connection settings.
type MongoStore struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Batch configures the batch command.
type Batch struct {
	Workers int `toml:"workers"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Assets: Assets{DefaultTheme: "default"},
		Server: Server{Addr: ":8080", Timeout: 30 * time.Second},
		Store: Store{
			Backend: BackendFile,
			Redis:   RedisStore{Addr: "localhost:6379", Prefix: "resumepdf:profile:"},
			Mongo: MongoStore{
				URI:        "mongodb://localhost:27017",
				Database:   appName,
				Collection: "profiles",
			},
		},
		Batch: Batch{Workers: 4},
	}
}

// Path returns the config file location when none is given explicitly.
func Path() (string, error) {
	if p := os.Getenv(EnvVar); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path, or at Path() when path is empty.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports values that cannot be used.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendFile, BackendRedis, BackendMongo:
	default:
		errs = append(errs, fmt.Errorf("%w: store.backend %q (want file, redis or mongo)", ErrInvalid, c.Store.Backend))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: batch.workers must be at least 1", ErrInvalid))
	}
	if c.Server.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: server.timeout must not be negative", ErrInvalid))
	}
	return errors.Join(errs...)
}

// StoreDir returns the profile directory of the file backend, defaulting
// to $XDG_DATA_HOME/resumepdf/profiles (~/.local/share/resumepdf/profiles).
func (c Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName, "profiles"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "profiles"), nil
}
