package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the service configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Tracing     TracingConfig
	Messaging   MessagingConfig
	Worker      WorkerConfig
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port int
	Mode string // debug, release, test
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// TracingConfig holds the New Relic configuration
type TracingConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// MessagingConfig holds the knobs for the simulated bill-notification channel
type MessagingConfig struct {
	// FailureRate is the probability in [0,1] that a simulated send fails.
	FailureRate float64
	// SendDelay is the artificial latency applied to each simulated send.
	SendDelay time.Duration
}

// WorkerConfig holds the background worker configuration
type WorkerConfig struct {
	// RedriveInterval controls how often pending message logs are re-driven.
	RedriveInterval time.Duration
	// PendingAge is how old a Pending log must be before the worker picks it up.
	PendingAge time.Duration
}

// InitConfig initializes the configuration using Viper
func InitConfig(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/milk-management")
		viper.SetConfigName("config")
	}

	// MILK_SERVER_PORT overrides server.port, and so on
	viper.SetEnvPrefix("MILK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Load returns the configuration assembled from viper
func Load() (Config, error) {
	cfg := Config{
		Environment: viper.GetString("environment"),
		Server: ServerConfig{
			Port: viper.GetInt("server.port"),
			Mode: viper.GetString("server.mode"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("database.host"),
			Port:     viper.GetInt("database.port"),
			User:     viper.GetString("database.user"),
			Password: viper.GetString("database.password"),
			DBName:   viper.GetString("database.dbname"),
			SSLMode:  viper.GetString("database.sslmode"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("redis.host"),
			Port:     viper.GetInt("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			Enabled:  viper.GetBool("redis.enabled"),
		},
		Tracing: TracingConfig{
			AppName:    viper.GetString("tracing.appname"),
			LicenseKey: viper.GetString("tracing.licensekey"),
			Enabled:    viper.GetBool("tracing.enabled"),
		},
		Messaging: MessagingConfig{
			FailureRate: viper.GetFloat64("messaging.failure_rate"),
			SendDelay:   viper.GetDuration("messaging.send_delay"),
		},
		Worker: WorkerConfig{
			RedriveInterval: viper.GetDuration("worker.redrive_interval"),
			PendingAge:      viper.GetDuration("worker.pending_age"),
		},
	}

	if cfg.Messaging.FailureRate < 0 || cfg.Messaging.FailureRate > 1 {
		return cfg, fmt.Errorf("messaging.failure_rate must be within [0,1], got %v", cfg.Messaging.FailureRate)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")

	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "milk")
	viper.SetDefault("database.password", "milk")
	viper.SetDefault("database.dbname", "milk_management_db")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.enabled", true)

	viper.SetDefault("tracing.appname", "Milk Management Local")
	viper.SetDefault("tracing.enabled", false)

	viper.SetDefault("messaging.failure_rate", 0.0)
	viper.SetDefault("messaging.send_delay", 800*time.Millisecond)

	viper.SetDefault("worker.redrive_interval", 5*time.Minute)
	viper.SetDefault("worker.pending_age", 2*time.Minute)
}
