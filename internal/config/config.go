package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type AuthConfig struct {
	PasswordHashCost   int    `yaml:"password_hash_cost"`
	SessionTokenLength int    `yaml:"session_token_length"`
	ResetTokenLength   int    `yaml:"reset_token_length"`
	ResetTokenTTL      string `yaml:"reset_token_ttl"`
	SessionTTL         string `yaml:"session_ttl"`
}

type BackoffConfig struct {
	Threshold int    `yaml:"threshold"`
	Window    int    `yaml:"window"`
	Unit      string `yaml:"unit"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Auth     AuthConfig     `yaml:"auth"`
	Backoff  BackoffConfig  `yaml:"backoff"`
}

type Config struct {
	// Port is not consumed here; it is carried for the embedding
	// application's transport binding.
	Port               string
	DSN                string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	JWTSecret          string
	JWTIssuer          string
	APITokenTTL        time.Duration
	PasswordHashCost   int
	SessionTokenLength int
	ResetTokenLength   int
	ResetTokenTTL      time.Duration
	SessionTTL         time.Duration
	BackoffThreshold   int
	BackoffWindow      int
	BackoffUnit        time.Duration
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	apiTTL, err := time.ParseDuration(configFile.JWT.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT TTL: %w", err)
	}

	resetTTL, err := time.ParseDuration(configFile.Auth.ResetTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid reset token TTL: %w", err)
	}

	sessionTTL, err := time.ParseDuration(configFile.Auth.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	backoffUnit, err := time.ParseDuration(configFile.Backoff.Unit)
	if err != nil {
		return nil, fmt.Errorf("invalid backoff unit: %w", err)
	}

	return &Config{
		Port:               fmt.Sprintf("%d", configFile.App.Port),
		DSN:                env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:          env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:      env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:            configFile.Redis.DB,
		JWTSecret:          env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:          configFile.JWT.Issuer,
		APITokenTTL:        apiTTL,
		PasswordHashCost:   configFile.Auth.PasswordHashCost,
		SessionTokenLength: configFile.Auth.SessionTokenLength,
		ResetTokenLength:   configFile.Auth.ResetTokenLength,
		ResetTokenTTL:      resetTTL,
		SessionTTL:         sessionTTL,
		BackoffThreshold:   configFile.Backoff.Threshold,
		BackoffWindow:      configFile.Backoff.Window,
		BackoffUnit:        backoffUnit,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
