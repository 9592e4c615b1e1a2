// Package config loads widgetshare settings from TOML.
//
// Settings are resolved in this order, later sources winning:
//
//  1. Built-in defaults ([Default]).
//  2. The config file: the --config flag, $WIDGETSHARE_CONFIG,
//     $XDG_CONFIG_HOME/widgetshare/config.toml or
//     ~/.config/widgetshare/config.toml, whichever is found first.
//  3. Environment overrides ([Config.ApplyEnvOverrides]).
//
// Keys missing from the file keep their defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/share"
)

// =============================================================================
// Sections
// =============================================================================

// Config is the full settings tree.
type Config struct {
	Export   ExportConfig   `toml:"export"`
	Share    ShareConfig    `toml:"share"`
	Download DownloadConfig `toml:"download"`
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
	Log      LogConfig      `toml:"log"`
}

// ExportConfig fixes encoder output.
type ExportConfig struct {
	PDF      export.PDFLayout   `toml:"pdf"`
	Image    export.ImageConfig `toml:"image"`
	Compress bool               `toml:"compress"` // PDF stream compression
}

// ShareConfig tunes the share dispatcher.
type ShareConfig struct {
	StartDelay              time.Duration `toml:"start_delay"`
	RevokeDelay             time.Duration `toml:"revoke_delay"`
	DownloadOnlyRevokeDelay time.Duration `toml:"download_only_revoke_delay"`
	UserAgent               string        `toml:"user_agent"` // consulted for mobile detection
	DefaultTitle            string        `toml:"default_title"`
	DefaultText             string        `toml:"default_text"`
}

// Download modes.
const (
	DownloadDisk    = "disk"    // write files into Download.Dir
	DownloadBrowser = "browser" // open a transient URL in the browser
)

// DownloadConfig selects how artifacts reach the device.
type DownloadConfig struct {
	Mode string `toml:"mode"`
	Dir  string `toml:"dir"`
}

// ServerConfig is the listen address of the transient object server used by
// browser downloads.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	TTL           time.Duration `toml:"ttl"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// =============================================================================
// Defaults
// =============================================================================

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			PDF:      export.DefaultPDFLayout(),
			Image:    export.DefaultImageConfig(),
			Compress: true,
		},
		Share: ShareConfig{
			StartDelay:              share.DefaultStartDelay,
			RevokeDelay:             share.DefaultRevokeDelay,
			DownloadOnlyRevokeDelay: share.DefaultDownloadOnlyRevokeDelay,
			DefaultTitle:            share.DefaultTitle,
			DefaultText:             share.DefaultText,
		},
		Download: DownloadConfig{
			Mode: DownloadDisk,
			Dir:  DefaultDownloadDir(),
		},
		Server: ServerConfig{Addr: "127.0.0.1:0"},
		Cache: CacheConfig{
			Backend:   CacheFile,
			Dir:       DefaultCacheDir(),
			RedisAddr: "localhost:6379",
			TTL:       24 * time.Hour,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultDownloadDir returns ~/Downloads, or the working directory when the
// home directory is unknown.
func DefaultDownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Downloads")
	}
	return "."
}

// DefaultCacheDir returns the per-user cache directory for artifacts.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "widgetshare")
	}
	return filepath.Join(os.TempDir(), "widgetshare-cache")
}

// =============================================================================
// Loading
// =============================================================================

// Environment variables.
const (
	EnvConfig       = "WIDGETSHARE_CONFIG"
	EnvDownloadDir  = "WIDGETSHARE_DOWNLOAD_DIR"
	EnvDownloadMode = "WIDGETSHARE_DOWNLOAD_MODE"
	EnvCacheBackend = "WIDGETSHARE_CACHE_BACKEND"
	EnvRedisAddr    = "WIDGETSHARE_REDIS_ADDR"
	EnvUserAgent    = "WIDGETSHARE_USER_AGENT"
	EnvLogLevel     = "WIDGETSHARE_LOG_LEVEL"
)

const (
	configDirName  = "widgetshare"
	configFileName = "config.toml"
)

// Path returns the config file location for an explicit flag value. The
// file need not exist.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, configDirName, configFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", configDirName, configFileName)
	}
	return ""
}

// Load resolves the config file for explicit and loads it over the
// defaults. A missing file is fine unless explicit names it.
func Load(explicit string) (*Config, error) {
	cfg := Default()
	path := Path(explicit)

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := cfg.decodeFile(path); err != nil {
				return nil, err
			}
		case !os.IsNotExist(err) || explicit != "":
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse decodes TOML from r over the defaults and validates the result.
// Environment overrides are not applied.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// checkUndecoded rejects keys that match no field.
func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("unknown config keys: %s", strings.Join(names, ", "))
}

// ApplyEnvOverrides copies WIDGETSHARE_* variables into c.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvDownloadDir); v != "" {
		c.Download.Dir = v
	}
	if v := os.Getenv(EnvDownloadMode); v != "" {
		c.Download.Mode = strings.ToLower(v)
	}
	if v := os.Getenv(EnvCacheBackend); v != "" {
		c.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		c.Share.UserAgent = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Validation
// =============================================================================

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if err := c.Export.PDF.Validate(); err != nil {
		add("export.pdf", "%v", err)
	}
	if err := c.Export.Image.Validate(); err != nil {
		add("export.image", "%v", err)
	}

	if c.Share.StartDelay < 0 {
		add("share.start_delay", "cannot be negative")
	}
	if c.Share.RevokeDelay < 0 || c.Share.DownloadOnlyRevokeDelay < 0 {
		add("share.revoke_delay", "cannot be negative")
	}

	switch c.Download.Mode {
	case DownloadDisk:
		if c.Download.Dir == "" {
			add("download.dir", "required in disk mode")
		}
	case DownloadBrowser:
	default:
		add("download.mode", "must be %q or %q, got %q", DownloadDisk, DownloadBrowser, c.Download.Mode)
	}

	switch c.Cache.Backend {
	case CacheNone:
	case CacheFile:
		if c.Cache.Dir == "" {
			add("cache.dir", "required for the file backend")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			add("cache.redis_addr", "required for the redis backend")
		}
	default:
		add("cache.backend", "must be none, file or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		add("cache.ttl", "cannot be negative")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		add("log.level", "must be debug, info, warn or error, got %q", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
