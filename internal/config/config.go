// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	RabbitMQ struct {
		URL string `yaml:"url"`
	} `yaml:"rabbitmq"`

	Source struct {
		ReminderTab string `yaml:"reminder_tab"`
		UsersTab    string `yaml:"users_tab"`
	} `yaml:"source"`

	Poll struct {
		IntervalSeconds     int `yaml:"interval_seconds"`
		FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	} `yaml:"poll"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Source.ReminderTab == "" {
		cfg.Source.ReminderTab = "ReminderData"
	}
	if cfg.Source.UsersTab == "" {
		cfg.Source.UsersTab = "pharmacyonboarding"
	}
	return cfg, nil
}

// PollInterval is how often the change detector re-fetches; defaults to 10s.
func (c *Config) PollInterval() time.Duration {
	if c.Poll.IntervalSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Poll.IntervalSeconds) * time.Second
}

// FetchTimeout bounds one upstream fetch; an expired timeout counts as a
// fetch failure. Defaults to 5s.
func (c *Config) FetchTimeout() time.Duration {
	if c.Poll.FetchTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Poll.FetchTimeoutSeconds) * time.Second
}
