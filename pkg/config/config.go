package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	BackendYouTube   = "youtube"
	BackendProviders = "providers"

	LogFormatText   = "text"
	LogFormatJSON   = "json"
	LogFormatPretty = "pretty"

	DefaultPort            = 3000
	DefaultReadAheadBytes  = 1 << 20
	DefaultProviderTimeout = 60 * time.Second
)

// Config is built once at start-up and never mutated afterwards.
type Config struct {
	// Port the HTTP server listens on.
	Port int `toml:"port"`
	// APIKey is the optional shared secret. Empty disables the check.
	APIKey string `toml:"api_key"`
	// PublicBaseURL overrides scheme://host when building stream links.
	PublicBaseURL string `toml:"public_base_url"`
	// StreamAuth puts the API key check in front of /stream as well as /resolve.
	StreamAuth bool `toml:"stream_auth"`

	// Backend selects the media source: "youtube" or "providers".
	Backend string `toml:"backend"`
	// ProxyURL routes all upstream traffic through an HTTP/SOCKS proxy.
	ProxyURL string `toml:"proxy_url"`
	// ProviderTimeout bounds one provider race (providers backend only).
	ProviderTimeout time.Duration `toml:"provider_timeout"`
	// UpstreamTimeout bounds a whole upstream request. Zero means none.
	UpstreamTimeout time.Duration `toml:"upstream_timeout"`
	// ReadAheadBytes is the size of the relay buffer per stream.
	ReadAheadBytes int `toml:"read_ahead_bytes"`

	WebUI     bool   `toml:"web_ui"`
	Debug     bool   `toml:"debug"`
	LogFormat string `toml:"log_format"`
}

func Default() Config {
	return Config{
		Port:            DefaultPort,
		Backend:         BackendYouTube,
		ProviderTimeout: DefaultProviderTimeout,
		ReadAheadBytes:  DefaultReadAheadBytes,
		LogFormat:       LogFormatText,
	}
}

// LoadFile reads a TOML file on top of Default(). Keys missing from the
// file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Backend {
	case BackendYouTube, BackendProviders:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON, LogFormatPretty:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.ReadAheadBytes <= 0 {
		return fmt.Errorf("read-ahead must be positive, got %d", c.ReadAheadBytes)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("provider timeout must be positive, got %s", c.ProviderTimeout)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("upstream timeout must not be negative, got %s", c.UpstreamTimeout)
	}
	if c.PublicBaseURL != "" {
		u, err := url.Parse(c.PublicBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("public base url must be an absolute http(s) url, got %q", c.PublicBaseURL)
		}
	}
	return nil
}

// BaseURL returns PublicBaseURL without a trailing slash.
func (c Config) BaseURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/")
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AuthEnabled reports whether a shared secret is configured.
func (c Config) AuthEnabled() bool {
	return c.APIKey != ""
}
