package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage configuration. StorageDriver selects "mongo" or "memory";
	// the in-memory driver is meant for local development and tests.
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Scheduling defaults, used to seed a tenant's calendar policy when no
	// stored policy exists yet.
	Timezone           string `mapstructure:"TIMEZONE"`
	SlotGranularityMin int    `mapstructure:"SLOT_GRANULARITY_MIN"`
	WorkdayOpen        string `mapstructure:"WORKDAY_OPEN"`  // "09:00"
	WorkdayClose       string `mapstructure:"WORKDAY_CLOSE"` // "17:00"
	OpenOnSaturday     bool   `mapstructure:"OPEN_ON_SATURDAY"`
	OpenOnSunday       bool   `mapstructure:"OPEN_ON_SUNDAY"`

	// Availability scan horizon for next-available-date lookups, in days.
	ScanHorizonDays int `mapstructure:"SCAN_HORIZON_DAYS"`

	// Lifecycle sweeper knobs: how long a pending booking may sit
	// unconfirmed, and how often the sweeper runs.
	PendingTTLMin    int `mapstructure:"PENDING_TTL_MIN"`
	SweepIntervalMin int `mapstructure:"SWEEP_INTERVAL_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("STORAGE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "ototakibim")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("TIMEZONE", "Europe/Istanbul")
	viper.SetDefault("SLOT_GRANULARITY_MIN", 30)
	viper.SetDefault("WORKDAY_OPEN", "09:00")
	viper.SetDefault("WORKDAY_CLOSE", "17:00")
	viper.SetDefault("OPEN_ON_SATURDAY", false)
	viper.SetDefault("OPEN_ON_SUNDAY", false)
	viper.SetDefault("SCAN_HORIZON_DAYS", 90)
	viper.SetDefault("PENDING_TTL_MIN", 30)
	viper.SetDefault("SWEEP_INTERVAL_MIN", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
