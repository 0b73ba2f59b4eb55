package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration loaded at process start. The room list
// is read-only for the lifetime of the process.
type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Rooms []string `yaml:"rooms"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Export struct {
		Path string `yaml:"path"`
	} `yaml:"export"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/roomres.db"
	}
	if cfg.Export.Path == "" {
		cfg.Export.Path = "exports"
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Rooms) == 0 {
		return fmt.Errorf("no consultation rooms defined")
	}

	names := make(map[string]bool)
	for i, room := range c.Rooms {
		if strings.TrimSpace(room) == "" {
			return fmt.Errorf("rooms[%d]: name is required", i)
		}
		if names[room] {
			return fmt.Errorf("rooms[%d]: duplicate room '%s'", i, room)
		}
		names[room] = true
	}

	if c.Backup.Enabled && c.Backup.Path == "" {
		return fmt.Errorf("backup.path is required when backup is enabled")
	}

	return nil
}

// HasRoom reports whether name is a member of the configured room list.
func (c *Config) HasRoom(name string) bool {
	for _, room := range c.Rooms {
		if room == name {
			return true
		}
	}
	return false
}

// CacheTTL returns the Redis cache TTL, defaulting to 60 seconds.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

// BackupInterval returns the backup interval, defaulting to 24 hours.
func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}
