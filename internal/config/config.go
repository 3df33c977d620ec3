package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the persistent application configuration
type Config struct {
	// DataDir holds the database and logs. Empty means ~/.hogwash.
	DataDir string `toml:"data_dir,omitempty"`

	Feed   FeedConfig   `toml:"feed"`
	Player PlayerConfig `toml:"player"`
	AI     AIConfig     `toml:"ai"`
	TikTok TikTokConfig `toml:"tiktok"`
}

// FeedConfig controls pagination, history and polling.
type FeedConfig struct {
	PageSize        int  `toml:"page_size"`
	HistoryCap      int  `toml:"history_cap"`
	LivePollSeconds int  `toml:"live_poll_seconds"`
	ScrollThreshold int  `toml:"scroll_threshold"` // cards from the end that trigger the next page
	RefreshOnStart  bool `toml:"refresh_on_start"`
}

// PlayerConfig selects the external media player.
type PlayerConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Socket  string   `toml:"socket,omitempty"` // mpv IPC socket; empty means <data_dir>/mpv.sock
}

// AIConfig holds recommendation provider settings
type AIConfig struct {
	Preferred string      `toml:"preferred"`
	Models    ModelConfig `toml:"models"`
}

// ModelConfig holds AI model settings
type ModelConfig struct {
	Claude ModelSettings `toml:"claude"`
	OpenAI ModelSettings `toml:"openai"`
	Gemini ModelSettings `toml:"gemini"`
	Grok   ModelSettings `toml:"grok"`
	Ollama ModelSettings `toml:"ollama"`
}

// ModelSettings for a single AI provider
type ModelSettings struct {
	APIKey   string `toml:"api_key,omitempty"`
	Endpoint string `toml:"endpoint,omitempty"` // For Ollama or custom endpoints
	Model    string `toml:"model,omitempty"`
}

// TikTokConfig controls the oEmbed-backed trending feed.
type TikTokConfig struct {
	Enabled           bool     `toml:"enabled"`
	OEmbedEndpoint    string   `toml:"oembed_endpoint"`
	URLs              []string `toml:"urls"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

// DefaultTikTokURLs are the public videos resolved for the trending feed.
var DefaultTikTokURLs = []string{
	"https://www.tiktok.com/@zachking/video/7314220791646391595",
	"https://www.tiktok.com/@jamescharles/video/6790333339028901126",
	"https://www.tiktok.com/@addisonre/video/6794921679332216070",
	"https://www.tiktok.com/@therock/video/7325234932374637867",
	"https://www.tiktok.com/@charlidamelio/video/6793399039983946962",
	"https://www.tiktok.com/@bellapoarch/video/6862153931888200965",
	"https://www.tiktok.com/@justmaiko/video/6824962154563931397",
	"https://www.tiktok.com/@scout2015/video/6718335390845095173",
	"https://www.tiktok.com/@dancemachine/video/7331942365384609067",
	"https://www.tiktok.com/@mrbeast/video/7174099433433648430",
	"https://www.tiktok.com/@lorengray/video/6795431969348980000",
	"https://www.tiktok.com/@cznburak/video/7321821867147775274",
	"https://www.tiktok.com/@willsmith/video/6738337351887326470",
	"https://www.tiktok.com/@kyliejenner/video/7325515324888255790",
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			PageSize:        20,
			HistoryCap:      50,
			LivePollSeconds: 30,
			ScrollThreshold: 4,
			RefreshOnStart:  true,
		},
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{"--force-window=yes", "--keep-open=no"},
		},
		AI: AIConfig{
			Preferred: "claude",
			Models: ModelConfig{
				Claude: ModelSettings{Model: "claude-sonnet-4-5-20250929"},
				OpenAI: ModelSettings{Model: "gpt-4o"},
				Gemini: ModelSettings{Model: "gemini-2.5-flash"},
				Grok:   ModelSettings{Model: "grok-3-fast"},
				Ollama: ModelSettings{Endpoint: "http://localhost:11434"},
			},
		},
		TikTok: TikTokConfig{
			Enabled:           true,
			OEmbedEndpoint:    "https://www.tiktok.com/oembed",
			URLs:              append([]string(nil), DefaultTikTokURLs...),
			RequestsPerSecond: 4,
		},
	}
}

// ConfigPath returns the path to the config file:
// $XDG_CONFIG_HOME/hogwash/config.toml, else ~/.hogwash/config.toml.
func ConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hogwash", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hogwash", "config.toml")
}

// Load reads config from disk, or returns defaults. Values in the file are
// merged over the defaults; environment keys are applied last.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom is Load with an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.normalize()
	cfg.AutoPopulateFromEnv()
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, buf.Bytes(), 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in API keys and overrides from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if key := os.Getenv("CLAUDE_API_KEY"); key != "" {
		c.AI.Models.Claude.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.AI.Models.Claude.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.AI.Models.OpenAI.APIKey = key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.AI.Models.Gemini.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.AI.Models.Gemini.APIKey = key
	}
	if key := os.Getenv("XAI_API_KEY"); key != "" {
		c.AI.Models.Grok.APIKey = key
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.AI.Models.Ollama.Endpoint = host
	}
	if p := os.Getenv("HOGWASH_PROVIDER"); p != "" {
		c.AI.Preferred = p
	}
	if cmd := os.Getenv("HOGWASH_PLAYER"); cmd != "" {
		c.Player.Command = cmd
	}
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Feed.PageSize <= 0 {
		c.Feed.PageSize = def.Feed.PageSize
	}
	if c.Feed.HistoryCap <= 0 {
		c.Feed.HistoryCap = def.Feed.HistoryCap
	}
	if c.Feed.LivePollSeconds <= 0 {
		c.Feed.LivePollSeconds = def.Feed.LivePollSeconds
	}
	if c.Feed.ScrollThreshold < 0 {
		c.Feed.ScrollThreshold = def.Feed.ScrollThreshold
	}
	if c.TikTok.RequestsPerSecond <= 0 {
		c.TikTok.RequestsPerSecond = def.TikTok.RequestsPerSecond
	}
	if c.TikTok.OEmbedEndpoint == "" {
		c.TikTok.OEmbedEndpoint = def.TikTok.OEmbedEndpoint
	}
}

// DataPath returns the data directory, defaulting to ~/.hogwash.
func (c *Config) DataPath() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hogwash")
}

// SocketPath returns the mpv IPC socket path.
func (c *Config) SocketPath() string {
	if c.Player.Socket != "" {
		return c.Player.Socket
	}
	return filepath.Join(c.DataPath(), "mpv.sock")
}

// LivePoll returns the live feed polling interval.
func (c *Config) LivePoll() time.Duration {
	return time.Duration(c.Feed.LivePollSeconds) * time.Second
}
