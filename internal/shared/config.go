package shared

import (
	_ "embed"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// DefaultRedirectURI is used when no redirect URI is configured. It must match
// the loopback callback registered with Spotify for the application.
const DefaultRedirectURI = "http://127.0.0.1:8888/callback"

// Config represents the application configuration loaded from a TOML file with
// environment variable overrides applied on top.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and the persisted token pair
// from the last authorization.
type SpotifyConfig struct {
	ClientID     string    `toml:"client_id" env:"SPOTIFY_CLIENT_ID"`
	ClientSecret string    `toml:"client_secret" env:"SPOTIFY_CLIENT_SECRET"`
	RedirectURI  string    `toml:"redirect_uri" env:"SPOTIFY_REDIRECT_URI"`
	AccessToken  string    `toml:"access_token"`
	RefreshToken string    `toml:"refresh_token"`
	Expiry       time.Time `toml:"expiry"`
}

// Validate checks that the credentials required to start a session are present.
func (s SpotifyConfig) Validate() error {
	if s.ClientID == "" {
		return fmt.Errorf("%w: SPOTIFY_CLIENT_ID is not set", ErrMissingCredentials)
	}
	if s.ClientSecret == "" {
		return fmt.Errorf("%w: SPOTIFY_CLIENT_SECRET is not set", ErrMissingCredentials)
	}
	return nil
}

// Token returns the persisted token pair as an [oauth2.Token], or nil when no
// tokens have been saved yet.
func (s SpotifyConfig) Token() *oauth2.Token {
	if s.AccessToken == "" && s.RefreshToken == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Expiry:       s.Expiry,
	}
}

// Update stores a token pair obtained from the authorization flow.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("token cannot be nil")
	}
	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	s.Expiry = token.Expiry
	return nil
}

// CallbackAddr derives the loopback server address from the redirect URI so
// the server and the registered URI cannot drift apart. A URI without an
// explicit port gets the default port of its scheme.
func (s SpotifyConfig) CallbackAddr() (string, error) {
	raw := s.RedirectURI
	if raw == "" {
		raw = DefaultRedirectURI
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: redirect URI %q: %v", ErrInvalidConfig, raw, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: redirect URI %q has no host", ErrInvalidConfig, raw)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		default:
			return "", fmt.Errorf("%w: redirect URI %q has no port and scheme %q has no default", ErrInvalidConfig, raw, u.Scheme)
		}
	}

	return net.JoinHostPort(u.Hostname(), port), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overlays SPOTIFY_* environment variables onto the configuration.
// Environment values take precedence over the file.
func ApplyEnv(config *Config) error {
	if err := env.Parse(&config.Credentials.Spotify); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if config.Credentials.Spotify.RedirectURI == "" {
		config.Credentials.Spotify.RedirectURI = DefaultRedirectURI
	}
	return nil
}

// SaveConfig writes the configuration to the specified path as TOML.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
