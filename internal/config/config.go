package config

import "time"

type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Defaults   DefaultsConfig `mapstructure:"defaults"`
	Split      SplitConfig    `mapstructure:"split"`
	Emi        EmiConfig      `mapstructure:"emi"`
	Logging    LoggingConfig  `mapstructure:"logging"`
	Events     EventsConfig   `mapstructure:"events"`
	ConfigPath string         `mapstructure:"-"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "memory".
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type DefaultsConfig struct {
	Currency string `mapstructure:"currency"`
	// Decimals is the number of minor-unit digits of one currency unit.
	Decimals int32 `mapstructure:"decimals"`
}

type SplitConfig struct {
	// Epsilon is the tolerated difference between the shares and the total
	// of a custom split, in currency units.
	Epsilon string `mapstructure:"epsilon"`
	// RemainderPolicy decides who absorbs the remainder of an even split:
	// "creator" or "first".
	RemainderPolicy string `mapstructure:"remainder_policy"`
}

type EmiConfig struct {
	GracePeriod time.Duration `mapstructure:"grace_period"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text|json
	File   string `mapstructure:"file"`
}

type EventsConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

const (
	RemainderToCreator = "creator"
	RemainderToFirst   = "first"
)

func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: "sqlite", Path: ""},
		Defaults: DefaultsConfig{Currency: "APT", Decimals: 8},
		Split: SplitConfig{
			Epsilon:         "0.000001",
			RemainderPolicy: RemainderToCreator,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Events:  EventsConfig{Kafka: KafkaConfig{Topic: "aptex.events"}},
	}
}
