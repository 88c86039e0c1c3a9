// Package config loads the YAML configuration and builds the logger.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codebuildervaibhav/audio-intelligence/internal/transform"
)

// APIKeyEnv overrides AssemblyAI.APIKey when set
const APIKeyEnv = "ASSEMBLYAI_API_KEY"

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	AssemblyAI struct {
		BaseURL             string `yaml:"base_url"`
		APIKey              string `yaml:"api_key"`
		PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
		MaxPollAttempts     int    `yaml:"max_poll_attempts"`
	} `yaml:"assemblyai"`

	Workers struct {
		Count     int `yaml:"count"`
		QueueSize int `yaml:"queue_size"`
	} `yaml:"workers"`

	Storage struct {
		TempDir  string `yaml:"temp_dir"`
		Database string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes    int `yaml:"interval_minutes"`
		MaxAgeHours        int `yaml:"max_age_hours"`
		SessionIdleMinutes int `yaml:"session_idle_minutes"`
		SessionRetainDays  int `yaml:"session_retain_days"`
	} `yaml:"cleanup"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
	} `yaml:"google_drive"`

	Limits struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"limits"`

	Report struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"report"`

	Transform transform.Options `yaml:"transform"`

	Log LogConfig `yaml:"log"`
}

// LogConfig selects the log level and format
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used for every value the file leaves out
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML, fills defaults and applies environment overrides
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.AssemblyAI.APIKey = key
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Port, 3000)
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.AssemblyAI.BaseURL == "" {
		c.AssemblyAI.BaseURL = "https://api.assemblyai.com/v2"
	}
	setDefault(&c.AssemblyAI.PollIntervalSeconds, 5)
	setDefault(&c.Workers.Count, 2)
	setDefault(&c.Workers.QueueSize, 100)
	if c.Storage.TempDir == "" {
		c.Storage.TempDir = "temp"
	}
	if c.Storage.Database == "" {
		c.Storage.Database = "sessions.db"
	}
	setDefault(&c.Cleanup.IntervalMinutes, 30)
	setDefault(&c.Cleanup.MaxAgeHours, 6)
	setDefault(&c.Cleanup.SessionIdleMinutes, 60)
	setDefault(&c.Cleanup.SessionRetainDays, 30)
	if c.GoogleDrive.TokenFile == "" {
		c.GoogleDrive.TokenFile = "token.json"
	}
	setDefault(&c.Limits.MaxFileSizeMB, 500)
	setDefault(&c.Report.TimeoutSeconds, 30)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func (c *Config) validate() error {
	if c.AssemblyAI.MaxPollAttempts < 0 {
		return fmt.Errorf("assemblyai.max_poll_attempts must not be negative")
	}
	for name, v := range map[string]float64{
		"transform.topic_threshold":     c.Transform.TopicThreshold,
		"transform.highlight_threshold": c.Transform.HighlightThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	return nil
}

// Addr is the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PollInterval is the delay between transcript status checks
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.AssemblyAI.PollIntervalSeconds) * time.Second
}

// MaxUploadBytes is the largest accepted request body
func (c *Config) MaxUploadBytes() int {
	return c.Limits.MaxFileSizeMB * 1024 * 1024
}
