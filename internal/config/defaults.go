package config

import "path/filepath"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:                    8710,
		DataDir:                 filepath.Join(".accesskit", "data"),
		GuideAutoDismissSeconds: 12,
		AllowAllOrigins:         false,
		LogLevel:                LogInfo,
	}
}
