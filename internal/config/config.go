package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultBaseURL = "https://www.archdaily.com"

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Source   SourceConfig   `mapstructure:"source"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

// SourceConfig controls how slideshow pages are fetched from the source site.
type SourceConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	HTTPTimeout      time.Duration `mapstructure:"http_timeout"`
	UserAgent        string        `mapstructure:"user_agent"`
	MaxResponseBytes int64         `mapstructure:"max_response_bytes"`
	BrowserTLS       bool          `mapstructure:"browser_tls"`
	AllowPrivate     bool          `mapstructure:"allow_private"`
	AllowedHosts     []string      `mapstructure:"allowed_hosts"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type UIConfig struct {
	Colors          UIColors      `mapstructure:"colors"`
	PageSize        int           `mapstructure:"page_size"`
	ControlsTimeout time.Duration `mapstructure:"controls_timeout"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type MediaConfig struct {
	Darwin        []string `mapstructure:"darwin"`
	Linux         []string `mapstructure:"linux"`
	Windows       []string `mapstructure:"windows"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit           string `mapstructure:"quit"`
	Search         string `mapstructure:"search"`
	Recents        string `mapstructure:"recents"`
	Favorites      string `mapstructure:"favorites"`
	NewSlideshow   string `mapstructure:"new_slideshow"`
	Next           string `mapstructure:"next"`
	Previous       string `mapstructure:"previous"`
	ToggleFavorite string `mapstructure:"toggle_favorite"`
	Fullscreen     string `mapstructure:"fullscreen"`
	OpenImage      string `mapstructure:"open_image"`
	CopyLink       string `mapstructure:"copy_link"`
	Back           string `mapstructure:"back"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".slyde", "slyde.db")
	searchIndexPath := filepath.Join(homeDir, ".slyde", "index.bleve")
	logPath := filepath.Join(homeDir, ".slyde", "slyde.log")

	return &Config{
		Database: DatabaseConfig{
			Path:        dbPath,
			Timeout:     1 * time.Second,
			SearchIndex: searchIndexPath,
		},
		Source: SourceConfig{
			BaseURL:          DefaultBaseURL,
			HTTPTimeout:      30 * time.Second,
			UserAgent:        "Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0",
			MaxResponseBytes: 16 * 1024 * 1024,
			BrowserTLS:       false,
			AllowPrivate:     false,
			AllowedHosts:     []string{},
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8787",
			ShutdownTimeout: 5 * time.Second,
			Mode:            "release",
		},
		Log: LogConfig{
			Level: "off",
			File:  logPath,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			PageSize:        20,
			ControlsTimeout: 3 * time.Second,
		},
		Media: MediaConfig{
			Darwin:        []string{"feh", "open"},
			Linux:         []string{"feh", "sxiv", "eog", "xdg-open"},
			Windows:       []string{"start"},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:           "q",
				Search:         "s",
				Recents:        "r",
				Favorites:      "f",
				NewSlideshow:   "n",
				Next:           "right",
				Previous:       "left",
				ToggleFavorite: "*",
				Fullscreen:     "z",
				OpenImage:      "o",
				CopyLink:       "y",
				Back:           "esc",
			},
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultConfigPath is where Load looks when no explicit path is given.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "slyde", "config.toml")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// leaf keys must be known for SLYDE_* variables to reach nested fields
	setDefaults(v, "", settings(defaultConfig()))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultConfigPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SLYDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.File = expandPath(cfg.Log.File)
}

// settings flattens config into the nested key layout of the TOML file.
// Durations are written as strings so the TOML stays readable.
func settings(config *Config) map[string]interface{} {
	b := config.Keys.Bindings
	return map[string]interface{}{
		"database": map[string]interface{}{
			"path":         config.Database.Path,
			"timeout":      config.Database.Timeout.String(),
			"search_index": config.Database.SearchIndex,
		},
		"source": map[string]interface{}{
			"base_url":           config.Source.BaseURL,
			"http_timeout":       config.Source.HTTPTimeout.String(),
			"user_agent":         config.Source.UserAgent,
			"max_response_bytes": config.Source.MaxResponseBytes,
			"browser_tls":        config.Source.BrowserTLS,
			"allow_private":      config.Source.AllowPrivate,
			"allowed_hosts":      config.Source.AllowedHosts,
		},
		"server": map[string]interface{}{
			"addr":             config.Server.Addr,
			"shutdown_timeout": config.Server.ShutdownTimeout.String(),
			"mode":             config.Server.Mode,
		},
		"log": map[string]interface{}{
			"level": config.Log.Level,
			"file":  config.Log.File,
		},
		"ui": map[string]interface{}{
			"colors": map[string]interface{}{
				"primary":    config.UI.Colors.Primary,
				"secondary":  config.UI.Colors.Secondary,
				"accent":     config.UI.Colors.Accent,
				"background": config.UI.Colors.Background,
				"surface":    config.UI.Colors.Surface,
				"text":       config.UI.Colors.Text,
				"muted":      config.UI.Colors.Muted,
				"error":      config.UI.Colors.Error,
				"success":    config.UI.Colors.Success,
			},
			"page_size":        config.UI.PageSize,
			"controls_timeout": config.UI.ControlsTimeout.String(),
		},
		"media": map[string]interface{}{
			"darwin":         config.Media.Darwin,
			"linux":          config.Media.Linux,
			"windows":        config.Media.Windows,
			"default_opener": config.Media.DefaultOpener,
		},
		"keys": map[string]interface{}{
			"modifier": config.Keys.Modifier,
			"bindings": map[string]interface{}{
				"quit":            b.Quit,
				"search":          b.Search,
				"recents":         b.Recents,
				"favorites":       b.Favorites,
				"new_slideshow":   b.NewSlideshow,
				"next":            b.Next,
				"previous":        b.Previous,
				"toggle_favorite": b.ToggleFavorite,
				"fullscreen":      b.Fullscreen,
				"open_image":      b.OpenImage,
				"copy_link":       b.CopyLink,
				"back":            b.Back,
			},
		},
	}
}

// setDefaults registers every leaf of m under prefix.
func setDefaults(v *viper.Viper, prefix string, m map[string]interface{}) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := val.(map[string]interface{}); ok {
			setDefaults(v, key, nested)
			continue
		}
		v.SetDefault(key, val)
	}
}

func Save(config *Config, path string) error {
	v := viper.New()
	for k, val := range settings(config) {
		v.Set(k, val)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
