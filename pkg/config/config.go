// Package config loads spiderglyph settings from a TOML file, .env files and
// SPIDERGLYPH_* environment variables, in increasing order of precedence.
//
// A minimal spiderglyph.toml:
//
//	[data]
//	network = "data/station-network.json"
//	spider  = "data/spider.json"
//	samples = "data/historical.json"
//	medians = "data/medians.json"
//
//	[frame]
//	width  = 300
//	height = 300
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	apperr "github.com/subwayviz/spiderglyph/pkg/errors"
	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
	"github.com/subwayviz/spiderglyph/pkg/projection"
	"github.com/subwayviz/spiderglyph/pkg/session"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SPIDERGLYPH_"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete set of settings.
type Config struct {
	Data   DataConfig   `toml:"data"`
	Frame  FrameConfig  `toml:"frame"`
	Glyph  GlyphConfig  `toml:"glyph"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// DataConfig names the input files.
type DataConfig struct {
	Network string `toml:"network"`
	Spider  string `toml:"spider"`
	Samples string `toml:"samples"`
	Medians string `toml:"medians"`
}

// FrameConfig is the drawing area.
type FrameConfig struct {
	Width  float64           `toml:"width"`
	Height float64           `toml:"height"`
	Margin projection.Margin `toml:"margin"`
}

// GlyphConfig is the width scale.
type GlyphConfig struct {
	Scale    string  `toml:"scale"`
	MinRatio float64 `toml:"min_ratio"`
	MaxRatio float64 `toml:"max_ratio"`
	Domain   float64 `toml:"domain"`
}

// RenderConfig holds output settings.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	EndDots    bool     `toml:"end_dots"`
	Caption    bool     `toml:"caption"`
	Background string   `toml:"background"`
	PNGScale   float64  `toml:"png_scale"`
}

// ServerConfig configures `spiderglyph serve`.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	AllowedOrigins []string      `toml:"allowed_origins"`
	SessionTTL     time.Duration `toml:"session_ttl"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
}

// CacheConfig selects the artifact and session backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"` // empty uses the user cache directory
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Frame: FrameConfig{
			Width:  projection.DefaultWidth,
			Height: projection.DefaultHeight,
			Margin: projection.DefaultMargin,
		},
		Glyph: GlyphConfig{
			Scale:    pipeline.DefaultScale,
			MinRatio: pipeline.DefaultMinRatio,
			MaxRatio: pipeline.DefaultMaxRatio,
			Domain:   glyph.DefaultEntriesDomain,
		},
		Render: RenderConfig{
			Formats:  []string{pipeline.FormatSVG},
			EndDots:  true,
			Caption:  true,
			PNGScale: pipeline.DefaultPNGScale,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			SessionTTL:     session.DefaultTTL,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		Cache: CacheConfig{Backend: CacheFile},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (if
// path is not empty), then the environment. .env and .env.local in the
// working directory are loaded first; .env.local overrides .env but neither
// overrides variables already set.
func Load(path string) (Config, error) {
	if err := LoadDotenv(".env", ".env.local"); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return Config{}, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML text over the defaults without touching the
// environment.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, nil
}

// LoadDotenv loads each existing file into the environment. Missing files
// are skipped. The last file is loaded with godotenv.Overload so it can
// shadow the ones before it; the others never replace variables that are
// already set.
func LoadDotenv(files ...string) error {
	for i, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		load := godotenv.Load
		if i > 0 && i == len(files)-1 {
			load = godotenv.Overload
		}
		if err := load(f); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return nil
}

// ApplyEnv overrides fields from SPIDERGLYPH_* variables.
func (c *Config) ApplyEnv() error {
	c.Data.Network = getEnv("NETWORK", c.Data.Network)
	c.Data.Spider = getEnv("SPIDER", c.Data.Spider)
	c.Data.Samples = getEnv("SAMPLES", c.Data.Samples)
	c.Data.Medians = getEnv("MEDIANS", c.Data.Medians)

	c.Server.Addr = getEnv("ADDR", c.Server.Addr)
	c.Server.AllowedOrigins = getEnvList("ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	c.Cache.Backend = getEnv("CACHE", c.Cache.Backend)
	c.Cache.Dir = getEnv("CACHE_DIR", c.Cache.Dir)
	c.Cache.RedisURL = getEnv("REDIS_URL", c.Cache.RedisURL)
	c.Cache.Prefix = getEnv("CACHE_PREFIX", c.Cache.Prefix)

	var err error
	if c.Server.SessionTTL, err = getEnvDuration("SESSION_TTL", c.Server.SessionTTL); err != nil {
		return err
	}
	if c.Frame.Width, err = getEnvFloat("WIDTH", c.Frame.Width); err != nil {
		return err
	}
	if c.Frame.Height, err = getEnvFloat("HEIGHT", c.Frame.Height); err != nil {
		return err
	}
	return nil
}

// Validate checks the settings that the pipeline does not check itself.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return apperr.New(apperr.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidConfig,
			"invalid cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Server.SessionTTL <= 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "session_ttl must be positive, got %s", c.Server.SessionTTL)
	}
	opts := c.Options()
	if err := opts.ValidateForFrame(); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "frame settings")
	}
	if err := opts.ValidateForRender(); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "render settings")
	}
	return nil
}

// Options returns pipeline options for the configured data and frame.
// Interaction fields are left at their zero values.
func (c Config) Options() pipeline.Options {
	m := c.Frame.Margin
	return pipeline.Options{
		Network:    c.Data.Network,
		Spider:     c.Data.Spider,
		Samples:    c.Data.Samples,
		Medians:    c.Data.Medians,
		Width:      c.Frame.Width,
		Height:     c.Frame.Height,
		Margin:     &m,
		Scale:      c.Glyph.Scale,
		MinRatio:   c.Glyph.MinRatio,
		MaxRatio:   c.Glyph.MaxRatio,
		Domain:     c.Glyph.Domain,
		Formats:    append([]string(nil), c.Render.Formats...),
		EndDots:    c.Render.EndDots,
		Caption:    c.Render.Caption,
		Background: c.Render.Background,
		PNGScale:   c.Render.PNGScale,
	}
}

// =============================================================================
// Environment helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, key)
	}
	return d, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, key)
	}
	return f, nil
}
