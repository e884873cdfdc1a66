package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/uncalendar/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
[server]
addr = "127.0.0.1:9000"

[render]
width = 1920
height = 1080
foreground = "#333"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2
prefix = "cal:"
`)
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := Default()
	want.Server.Addr = "127.0.0.1:9000"
	want.Render.Width = 1920
	want.Render.Height = 1080
	want.Render.Foreground = "#333"
	want.Cache = CacheConfig{Backend: BackendRedis, RedisAddr: "localhost:6379", RedisDB: 2, Prefix: "cal:"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[server`},
		{"unknown key", "[render]\ncolour = \"red\""},
		{"unknown section", "[metrics]\nenabled = true"},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"bad color", "[render]\nbackground = \"nope\""},
		{"zero width", "[render]\nwidth = -1"},
		{"bad margin", "[render]\nmargin_ratio = 0.7"},
		{"bad font size", "[render]\nbase_font_size = -4"},
		{"empty addr", "[server]\naddr = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("ExplicitPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		if err := os.WriteFile(path, []byte("[server]\naddr = \":1234\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != ":1234" {
			t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":1234")
		}
		if cfg.Path != path {
			t.Errorf("Path = %q, want %q", cfg.Path, path)
		}
	})

	t.Run("MissingExplicitPath", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("Load() = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("XDG", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		dir := filepath.Join(home, AppName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[render]\nwidth = 800\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Render.Width != 800 {
			t.Errorf("Render.Width = %d, want 800", cfg.Render.Width)
		}
	})

	t.Run("NoFile", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if diff := cmp.Diff(Default(), cfg); diff != "" {
			t.Errorf("Load() without file mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := Default().CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error = %v", err)
	}
	if want := filepath.Join("/tmp/xdg-cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}

	cfg := Default()
	cfg.Cache.Dir = "/srv/cache"
	if dir, _ := cfg.CacheDir(); dir != "/srv/cache" {
		t.Errorf("CacheDir() with cache.dir = %q, want /srv/cache", dir)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Render.Font = "/fonts/mono.ttf"
	opts := cfg.PipelineOptions()
	if opts.Width != cfg.Render.Width || opts.Height != cfg.Render.Height {
		t.Errorf("canvas = %dx%d, want %dx%d", opts.Width, opts.Height, cfg.Render.Width, cfg.Render.Height)
	}
	if opts.FontPath != "/fonts/mono.ttf" {
		t.Errorf("FontPath = %q", opts.FontPath)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("options from default config should validate: %v", err)
	}
}
