package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/medibook/booking-api/internal/service/notification"
)

type Config struct {
	Server     ServerConfig        `mapstructure:"server"`
	Database   DatabaseConfig      `mapstructure:"database"`
	Redis      RedisConfig         `mapstructure:"redis"`
	RateLimit  RateLimitConfig     `mapstructure:"rate_limit"`
	Outbox     OutboxConfig        `mapstructure:"outbox"`
	Payment    PaymentConfig       `mapstructure:"payment"`
	SMTP       notification.Config `mapstructure:"smtp"`
	Monitoring MonitoringConfig    `mapstructure:"monitoring"`

	Secrets Secrets `mapstructure:"-"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type RedisConfig struct {
	URL     string `mapstructure:"url"`
	Channel string `mapstructure:"channel"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type OutboxConfig struct {
	BatchSize    int           `mapstructure:"batch_size"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type PaymentConfig struct {
	Currency string `mapstructure:"currency"`
}

type MonitoringConfig struct {
	MetricsPath string `mapstructure:"metrics_path"`
	Namespace   string `mapstructure:"namespace"`
}

// Secrets never live in the config file; they come from the environment
// (or a .env file loaded before startup).
type Secrets struct {
	JWTSecret         string `envconfig:"JWT_SECRET" required:"true"`
	AdminEmail        string `envconfig:"ADMIN_EMAIL" required:"true"`
	AdminPassword     string `envconfig:"ADMIN_PASSWORD" required:"true"`
	MongoURI          string `envconfig:"MONGODB_URI"`
	RedisURL          string `envconfig:"REDIS_URL"`
	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET"`
	CloudinaryCloud   string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryKey     string `envconfig:"CLOUDINARY_API_KEY"`
	CloudinarySecret  string `envconfig:"CLOUDINARY_API_SECRET"`
	SMTPPassword      string `envconfig:"SMTP_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config.Secrets); err != nil {
		return nil, fmt.Errorf("failed to read secrets from environment: %w", err)
	}

	// Environment wins over the file for connection strings.
	if config.Secrets.MongoURI != "" {
		config.Database.URI = config.Secrets.MongoURI
	}
	if config.Secrets.RedisURL != "" {
		config.Redis.URL = config.Secrets.RedisURL
	}
	if config.SMTP.Password == "" {
		config.SMTP.Password = config.Secrets.SMTPPassword
	}

	return &config, nil
}
