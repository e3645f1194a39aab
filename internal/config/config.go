package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken      string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath        string `envconfig:"DB_PATH" default:"./data/officina.db"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr      string `envconfig:"HTTP_ADDR" default:":8080"`
	NotifyHour    int    `envconfig:"NOTIFY_HOUR" default:"8"` // UTC
	NotifyMinute  int    `envconfig:"NOTIFY_MINUTE" default:"0"`
	NotifyOnStart bool   `envconfig:"NOTIFY_ON_START" default:"true"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
