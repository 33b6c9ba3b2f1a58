package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    "", // in-memory bookmark store
			Timeout: 1 * time.Second,
		},
		Source: SourceConfig{
			BaseURL:          DefaultBaseURL,
			HTTPTimeout:      5 * time.Second,
			UserAgent:        "slyde-test/1.0",
			MaxResponseBytes: 1024 * 1024,
			AllowPrivate:     true, // httptest servers listen on loopback
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:0",
			ShutdownTimeout: 1 * time.Second,
			Mode:            "test",
		},
		Log:   LogConfig{Level: "off"},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
	}
}
