// Package config loads the service configuration. Sources are applied in order, each
// overriding the previous one: defaults, the YAML file named by --config, the .env file
// and the process environment, and finally explicitly set command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config stores the service settings.
type Config struct {
	HTTPPort          int      `yaml:"http_port"`
	DB                DB       `yaml:"db"`
	Outbox            Outbox   `yaml:"outbox"`
	Transport         string   `yaml:"transport"`
	Kafka             Kafka    `yaml:"kafka"`
	RabbitMQ          RabbitMQ `yaml:"rabbitmq"`
	ServiceAreaCities []string `yaml:"service_area_cities"`
	LogLevel          string   `yaml:"log_level"`
}

type DB struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type Outbox struct {
	Interval       time.Duration `yaml:"interval"`
	MaxParallelism int           `yaml:"max_parallelism"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type RabbitMQ struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

// SlogLevel converts LogLevel; Validate guarantees it parses.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// Load reads the configuration. args are the command line arguments without the
// program name.
func Load(args []string) (Config, error) {
	cfg := Defaults()

	flags := pflag.NewFlagSet("fulfillment", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to a YAML configuration file")
	envFile := flags.String("env-file", ".env", "path to a .env file")
	httpPort := flags.IntP("port", "p", cfg.HTTPPort, "port to listen on")
	transport := flags.String("transport", cfg.Transport, "event transport: kafka, rabbitmq or log")
	interval := flags.Duration("outbox-interval", cfg.Outbox.Interval, "interval between outbox drains")
	parallelism := flags.Int("outbox-max-parallelism", cfg.Outbox.MaxParallelism, "parallel outbox publishers")
	logLevel := flags.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		if err := loadYAML(*configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", *envFile, err)
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if flags.Changed("port") {
		cfg.HTTPPort = *httpPort
	}
	if flags.Changed("transport") {
		cfg.Transport = *transport
	}
	if flags.Changed("outbox-interval") {
		cfg.Outbox.Interval = *interval
	}
	if flags.Changed("outbox-max-parallelism") {
		cfg.Outbox.MaxParallelism = *parallelism
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		return fmt.Errorf("invalid DB_PORT: %d", c.DB.Port)
	}
	if c.DB.Host == "" {
		return errors.New("DB_HOST is required")
	}
	if c.DB.Name == "" {
		return errors.New("DB_NAME is required")
	}
	if c.Outbox.Interval <= 0 {
		return fmt.Errorf("invalid OUTBOX_INTERVAL: %s", c.Outbox.Interval)
	}
	if c.Outbox.MaxParallelism < 1 {
		return fmt.Errorf("invalid OUTBOX_MAX_PARALLELISM: %d", c.Outbox.MaxParallelism)
	}

	switch c.Transport {
	case TransportKafka:
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for the kafka transport")
		}
		if c.Kafka.Topic == "" {
			return errors.New("KAFKA_ORDER_EVENTS_TOPIC is required for the kafka transport")
		}
	case TransportRabbitMQ:
		if c.RabbitMQ.URL == "" {
			return errors.New("RABBITMQ_URL is required for the rabbitmq transport")
		}
		if c.RabbitMQ.Exchange == "" {
			return errors.New("RABBITMQ_EXCHANGE is required for the rabbitmq transport")
		}
	case TransportLog:
	default:
		return fmt.Errorf("invalid TRANSPORT: %q", c.Transport)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %q", c.LogLevel)
	}

	return nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v := os.Getenv(key); v != "" {
			*dst = splitList(v)
		}
	}
	num := func(key string, dst *int) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("DB_HOST", &cfg.DB.Host)
	str("DB_USER", &cfg.DB.User)
	str("DB_PASSWORD", &cfg.DB.Password)
	str("DB_NAME", &cfg.DB.Name)
	str("DB_SSLMODE", &cfg.DB.SSLMode)
	str("TRANSPORT", &cfg.Transport)
	str("KAFKA_ORDER_EVENTS_TOPIC", &cfg.Kafka.Topic)
	str("RABBITMQ_URL", &cfg.RabbitMQ.URL)
	str("RABBITMQ_EXCHANGE", &cfg.RabbitMQ.Exchange)
	str("LOG_LEVEL", &cfg.LogLevel)
	list("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	list("SERVICE_AREA_CITIES", &cfg.ServiceAreaCities)

	if err := errors.Join(
		num("HTTP_PORT", &cfg.HTTPPort),
		num("DB_PORT", &cfg.DB.Port),
		num("OUTBOX_MAX_PARALLELISM", &cfg.Outbox.MaxParallelism),
	); err != nil {
		return err
	}

	if v := os.Getenv("OUTBOX_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid OUTBOX_INTERVAL: %w", err)
		}
		cfg.Outbox.Interval = d
	}

	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
