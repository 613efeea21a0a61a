package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Engine    EngineConfig    `json:"engine"`
	Captioner CaptionerConfig `json:"captioner"`
	Server    ServerConfig    `json:"server"`
	Output    OutputConfig    `json:"output"`
}

// EngineConfig holds configuration for insight generation
type EngineConfig struct {
	// EnabledInsightTypes limits which insight types are produced.
	// Empty means all types.
	EnabledInsightTypes []string `json:"enabled_insight_types"`
}

// CaptionerConfig holds configuration for the vision-model captioner
type CaptionerConfig struct {
	Backend     string `json:"backend"` // none, ollama, or llamacpp
	URL         string `json:"url"`
	Model       string `json:"model"`
	SendFormat  string `json:"send_format"`
	SendMaxDim  int    `json:"send_max_dim"`
	SendQuality int    `json:"send_quality"`
}

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Address      string `json:"address"`
	UploadDir    string `json:"upload_dir"`
	DatabasePath string `json:"database_path"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	DefaultFormat string `json:"default_format"`
	OutputDir     string `json:"output_dir"`
	Quality       int    `json:"quality"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Engine: EngineConfig{},
		Captioner: CaptionerConfig{
			Backend:     "none",
			Model:       "openbmb/minicpm-v4.5",
			SendFormat:  "jpg",
			SendMaxDim:  1536,
			SendQuality: 85,
		},
		Server: ServerConfig{
			Address:      ":8090",
			UploadDir:    "./uploads",
			DatabasePath: "./insights.db",
		},
		Output: OutputConfig{
			DefaultFormat: "jpg",
			OutputDir:     "./output",
			Quality:       90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Captioner.Backend {
	case "", "none", "ollama", "llamacpp":
	default:
		return fmt.Errorf("captioner.backend must be none, ollama, or llamacpp")
	}

	if c.Captioner.SendMaxDim < 0 {
		return fmt.Errorf("captioner.send_max_dim must not be negative")
	}

	if c.Captioner.SendQuality < 1 || c.Captioner.SendQuality > 100 {
		return fmt.Errorf("captioner.send_quality must be between 1 and 100")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if c.Server.Address == "" {
		return fmt.Errorf("server.address cannot be empty")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "image-insights", "config.json")
}
