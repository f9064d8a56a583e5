package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	Maps   MapsConfig
	Timers TimerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"SERVER_HOST"`
	Port         int           `mapstructure:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

// MapsConfig holds Google Maps Platform settings. An empty API key
// disables routing and reverse geocoding.
type MapsConfig struct {
	APIKey string `mapstructure:"MAPS_API_KEY"`
}

// TimerConfig holds the per-session background timer intervals.
type TimerConfig struct {
	BusJitter      time.Duration `mapstructure:"TIMER_BUS_JITTER"`
	ConnectedUsers time.Duration `mapstructure:"TIMER_CONNECTED_USERS"`
	ExpirySweep    time.Duration `mapstructure:"TIMER_EXPIRY_SWEEP"`
	SentimentScan  time.Duration `mapstructure:"TIMER_SENTIMENT_SCAN"`
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and .env file.
// Postgres and Redis keep their own env-driven config in the db and
// cache packages.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")

	viper.SetDefault("MAPS_API_KEY", "")

	viper.SetDefault("TIMER_BUS_JITTER", "5s")
	viper.SetDefault("TIMER_CONNECTED_USERS", "7s")
	viper.SetDefault("TIMER_EXPIRY_SWEEP", "60s")
	viper.SetDefault("TIMER_SENTIMENT_SCAN", "3s")

	// Try to read .env file. If it doesn't exist (e.g., inside Docker),
	// env vars injected by docker-compose env_file are used instead.
	_ = viper.ReadInConfig()

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Host:         viper.GetString("SERVER_HOST"),
		Port:         viper.GetInt("SERVER_PORT"),
		ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
	}

	cfg.Maps = MapsConfig{
		APIKey: viper.GetString("MAPS_API_KEY"),
	}

	cfg.Timers = TimerConfig{
		BusJitter:      viper.GetDuration("TIMER_BUS_JITTER"),
		ConnectedUsers: viper.GetDuration("TIMER_CONNECTED_USERS"),
		ExpirySweep:    viper.GetDuration("TIMER_EXPIRY_SWEEP"),
		SentimentScan:  viper.GetDuration("TIMER_SENTIMENT_SCAN"),
	}

	return cfg, nil
}
