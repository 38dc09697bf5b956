package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type WebServerConfig struct {
	Port            string `mapstructure:"port"`
	IP              string `mapstructure:"ip"`
	Scheme          string `mapstructure:"scheme"`
	BaseURL         string `mapstructure:"base_url"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Backend      string `mapstructure:"backend"` // "file" or "redis"
	URLsFile     string `mapstructure:"urls_file"`
	UsersFile    string `mapstructure:"users_file"`
	MessagesFile string `mapstructure:"messages_file"`
}

type RedisConfig struct {
	Address          string `mapstructure:"address"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	PoolSize         int    `mapstructure:"pool_size"`
	MinIdleConns     int    `mapstructure:"min_idle_conns"`
	OperationTimeout int    `mapstructure:"operation_timeout"`
}

type SessionConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	MaxAge    int    `mapstructure:"max_age"`
}

type SMTPConfig struct {
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	FromEmail     string `mapstructure:"from_email"`
	FromName      string `mapstructure:"from_name"`
	OperatorEmail string `mapstructure:"operator_email"`
	Enabled       bool   `mapstructure:"enabled"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	WebServer WebServerConfig `mapstructure:"webserver"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Session   SessionConfig   `mapstructure:"session"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// LoadConfig reads config.yaml from the working directory (optional) with
// SHORTENER_* environment variable overrides on top of the defaults.
func LoadConfig() (Config, error) {
	var config Config

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("SHORTENER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Error reading config file: %v", err)
			return config, err
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		log.Printf("Unable to decode into struct: %v", err)
		return config, err
	}

	return config, nil
}

func MustLoadConfig() Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return config
}

func setDefaults() {
	// WebServer defaults
	viper.SetDefault("webserver.port", "6867")
	viper.SetDefault("webserver.ip", "127.0.0.1")
	viper.SetDefault("webserver.scheme", "http")
	viper.SetDefault("webserver.base_url", "")
	viper.SetDefault("webserver.read_timeout", 15)
	viper.SetDefault("webserver.write_timeout", 15)
	viper.SetDefault("webserver.shutdown_timeout", 30)

	// Storage defaults
	viper.SetDefault("storage.backend", "file")
	viper.SetDefault("storage.urls_file", "urls.json")
	viper.SetDefault("storage.users_file", "users.json")
	viper.SetDefault("storage.messages_file", "messages.json")

	// Redis defaults (used when storage.backend is "redis")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 5)
	viper.SetDefault("redis.operation_timeout", 5)

	// Session defaults
	viper.SetDefault("session.secret_key", "your_default_secret_key")
	viper.SetDefault("session.max_age", 7*24*60*60)

	// SMTP defaults
	viper.SetDefault("smtp.host", "localhost")
	viper.SetDefault("smtp.port", "587")
	viper.SetDefault("smtp.username", "")
	viper.SetDefault("smtp.password", "")
	viper.SetDefault("smtp.from_email", "noreply@example.com")
	viper.SetDefault("smtp.from_name", "Keyword Shortener")
	viper.SetDefault("smtp.operator_email", "")
	viper.SetDefault("smtp.enabled", false)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
}
