// Package config loads uncalendar settings from a TOML file.
//
// The file is looked up in this order:
//
//  1. the path passed to [Load] (from --config)
//  2. $XDG_CONFIG_HOME/uncalendar/config.toml (or ~/.config/uncalendar/config.toml)
//
// If neither exists, [Default] is used. Every key is optional; missing keys
// keep their defaults.
//
// Example:
//
//	[server]
//	addr = ":8080"
//
//	[render]
//	width = 1920
//	height = 1080
//	background = "#101010"
//	foreground = "wheat"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	prefix = "uncalendar:"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/uncalendar/pkg/errors"
	"github.com/matzehuels/uncalendar/pkg/pipeline"
	"github.com/matzehuels/uncalendar/pkg/render"
)

// AppName names the XDG subdirectories.
const AppName = "uncalendar"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultAddr is the default listen address of the HTTP server.
const DefaultAddr = ":8080"

// Config is the full configuration file.
type Config struct {
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// RenderConfig holds image defaults applied to every request.
type RenderConfig struct {
	Width        int     `toml:"width"`
	Height       int     `toml:"height"`
	Background   string  `toml:"background"`
	Foreground   string  `toml:"foreground"`
	BaseFontSize float64 `toml:"base_font_size"`
	MarginRatio  float64 `toml:"margin_ratio"`
	Font         string  `toml:"font"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: DefaultAddr},
		Render: RenderConfig{
			Width:        pipeline.DefaultWidth,
			Height:       pipeline.DefaultHeight,
			Background:   pipeline.DefaultBackground,
			Foreground:   pipeline.DefaultForeground,
			BaseFontSize: pipeline.DefaultBaseFontSize,
			MarginRatio:  pipeline.DefaultMarginRatio,
		},
		Cache: CacheConfig{Backend: BackendFile},
	}
}

// Load reads the configuration. An explicit path must exist; the XDG path
// is optional.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}
	p := filepath.Join(ConfigDir(), "config.toml")
	if _, err := os.Stat(p); err != nil {
		return Default(), nil
	}
	return loadFile(p)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
// Unknown keys are rejected so typos do not pass silently.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and the backend name.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	r := c.Render
	if err := errors.ValidateCanvas(r.Width, r.Height, r.MarginRatio); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render")
	}
	if r.BaseFontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.base_font_size must be positive, got %v", r.BaseFontSize)
	}
	for _, s := range []string{r.Background, r.Foreground} {
		if _, err := render.ParseColor(s); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render")
		}
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of file, redis, none; got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	return nil
}

// PipelineOptions returns pipeline options carrying the render defaults.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:        c.Render.Width,
		Height:       c.Render.Height,
		Background:   c.Render.Background,
		Foreground:   c.Render.Foreground,
		BaseFontSize: c.Render.BaseFontSize,
		MarginRatio:  c.Render.MarginRatio,
		FontPath:     c.Render.Font,
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/uncalendar, falling back to
// ~/.config/uncalendar.
func ConfigDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", AppName)
	}
	return filepath.Join(home, ".config", AppName)
}

// CacheDir returns the file cache directory: cache.dir when set, else
// $XDG_CACHE_HOME/uncalendar, falling back to ~/.cache/uncalendar.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// DefaultCacheDir returns the XDG cache directory for uncalendar.
func DefaultCacheDir() (string, error) {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return filepath.Join(v, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
