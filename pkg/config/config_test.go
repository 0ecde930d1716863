package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperr "github.com/subwayviz/spiderglyph/pkg/errors"
	"github.com/subwayviz/spiderglyph/pkg/projection"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	opts := cfg.Options()
	if opts.Projector() != projection.DefaultProjector() {
		t.Errorf("Projector = %+v", opts.Projector())
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[data]
network = "net.json"
spider = "spider.json"

[frame]
width = 600
height = 400
margin = { top = 10, right = 10, bottom = 30, left = 10 }

[glyph]
scale = "sqrt"

[render]
formats = ["svg", "geojson"]
caption = false

[server]
session_ttl = "30m"
allowed_origins = ["http://localhost:5173"]
`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Data.Network != "net.json" || cfg.Frame.Width != 600 || cfg.Frame.Margin.Bottom != 30 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Glyph.Scale != "sqrt" || cfg.Glyph.MaxRatio != 0.7 {
		t.Errorf("glyph = %+v (unset fields should keep defaults)", cfg.Glyph)
	}
	if cfg.Server.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %s", cfg.Server.SessionTTL)
	}
	if cfg.Render.Caption || !cfg.Render.EndDots {
		t.Errorf("render = %+v", cfg.Render)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	opts := cfg.Options()
	if opts.Scale != "sqrt" || len(opts.Formats) != 2 || opts.Margin.Top != 10 {
		t.Errorf("Options = %+v", opts)
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode("[frame\nwidth = ")
	if !apperr.Is(err, apperr.ErrCodeInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without url", func(c *Config) { c.Cache.Backend = CacheRedis }},
		{"session ttl", func(c *Config) { c.Server.SessionTTL = 0 }},
		{"frame", func(c *Config) { c.Frame.Width = 10 }},
		{"scale", func(c *Config) { c.Glyph.Scale = "log" }},
		{"format", func(c *Config) { c.Render.Formats = []string{"bmp"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(&cfg)
			if err := cfg.Validate(); !apperr.Is(err, apperr.ErrCodeInvalidConfig) {
				t.Errorf("Validate = %v, want invalid config", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SPIDERGLYPH_NETWORK", "/data/net.json")
	t.Setenv("SPIDERGLYPH_CACHE", "redis")
	t.Setenv("SPIDERGLYPH_REDIS_URL", "redis://cache:6379/1")
	t.Setenv("SPIDERGLYPH_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SPIDERGLYPH_SESSION_TTL", "15m")
	t.Setenv("SPIDERGLYPH_WIDTH", "500")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Data.Network != "/data/net.json" || cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL != "redis://cache:6379/1" {
		t.Errorf("cfg = %+v", cfg)
	}
	if got := cfg.Server.AllowedOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %q", got)
	}
	if cfg.Server.SessionTTL != 15*time.Minute || cfg.Frame.Width != 500 {
		t.Errorf("ttl = %s width = %g", cfg.Server.SessionTTL, cfg.Frame.Width)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("SPIDERGLYPH_SESSION_TTL", "soon")
	cfg := Default()
	if err := cfg.ApplyEnv(); !apperr.Is(err, apperr.ErrCodeInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spiderglyph.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9000\"\n[data]\nspider = \"file.json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPIDERGLYPH_SPIDER", "env.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Data.Spider != "env.json" {
		t.Errorf("environment should override the file: Spider = %q", cfg.Data.Spider)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !apperr.Is(err, apperr.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, ".env")
	local := filepath.Join(dir, ".env.local")
	_ = os.WriteFile(base, []byte("SPIDERGLYPH_TEST_A=base\nSPIDERGLYPH_TEST_B=base\n"), 0644)
	_ = os.WriteFile(local, []byte("SPIDERGLYPH_TEST_B=local\n"), 0644)
	t.Setenv("SPIDERGLYPH_TEST_A", "")
	t.Setenv("SPIDERGLYPH_TEST_B", "")
	os.Unsetenv("SPIDERGLYPH_TEST_A")
	os.Unsetenv("SPIDERGLYPH_TEST_B")

	if err := LoadDotenv(filepath.Join(dir, "absent"), base, local); err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}
	if got := os.Getenv("SPIDERGLYPH_TEST_A"); got != "base" {
		t.Errorf("A = %q", got)
	}
	if got := os.Getenv("SPIDERGLYPH_TEST_B"); got != "local" {
		t.Errorf("B = %q, want the last file to win", got)
	}
}

func TestLoadExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "downtown", "spiderglyph.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Network != "station-network.json" || cfg.Glyph.Scale != "sqrt" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Server.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %s", cfg.Server.SessionTTL)
	}
}
