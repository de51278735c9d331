package config

import (
	"fmt"
	"strings"
	"time"

	"skincare-tracker/pkg/config"
)

type AgendaConfig struct {
	// number of agenda entries shown by the dashboard widget
	SummaryLimit int `yaml:"summary_limit"`
	// number of recent activities shown by the dashboard feed
	ActivityLimit int `yaml:"activity_limit"`
}

type WorkerConfig struct {
	Queue      string        `yaml:"queue"`
	BindingKey string        `yaml:"binding_key"`
	MaxRetries int64         `yaml:"max_retries"`
	DedupTTL   time.Duration `yaml:"dedup_ttl"`
}

type Config struct {
	Server ServerConfig       `yaml:"server"`
	DB     config.DBConfig    `yaml:"db"`
	Store  config.StoreConfig `yaml:"store"`
	MQ     config.MQConfig    `yaml:"mq"`
	Redis  config.RedisConfig `yaml:"redis"`
	JWT    config.JWTConfig   `yaml:"jwt"`
	Log    config.LogConfig   `yaml:"log"`
	Agenda AgendaConfig       `yaml:"agenda"`
	Worker WorkerConfig       `yaml:"worker"`
}

type ServerConfig = config.ServerConfig

// Load reads <dir>/base.yaml, layers <dir>/<env>.yaml and secrets.env on
// top, then applies environment overrides and defaults.
func Load(env, dir string) (*Config, error) {
	merged, err := config.LoadConfig(env, dir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := config.Decode(merged, &cfg); err != nil {
		return nil, err
	}

	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideStoreFromEnv(&cfg.Store)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideJWTFromEnv(&cfg.JWT)
	config.OverrideServerFromEnv(&cfg.Server)

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "postgres"
	}
	if c.Store.SlowThreshold == 0 {
		c.Store.SlowThreshold = 100 * time.Millisecond
	}
	if c.Agenda.SummaryLimit <= 0 {
		c.Agenda.SummaryLimit = 3
	}
	if c.Agenda.ActivityLimit <= 0 {
		c.Agenda.ActivityLimit = 5
	}
	if c.Worker.Queue == "" {
		c.Worker.Queue = "activity.q"
	}
	if c.Worker.BindingKey == "" {
		c.Worker.BindingKey = "activity.#"
	}
	if c.Worker.MaxRetries <= 0 {
		c.Worker.MaxRetries = 3
	}
	if c.Worker.DedupTTL == 0 {
		c.Worker.DedupTTL = 24 * time.Hour
	}
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.JWT.Secret == "" || strings.HasPrefix(c.JWT.Secret, "${") {
		return fmt.Errorf("jwt.secret must be set")
	}
	return nil
}
