package config

import "time"

const (
	TransportKafka    = "kafka"
	TransportRabbitMQ = "rabbitmq"
	TransportLog      = "log"
)

const (
	defaultHTTPPort             = 8080
	defaultOutboxInterval       = 5 * time.Minute
	defaultOutboxMaxParallelism = 10
	defaultKafkaTopic           = "OrderDomainEvents"
	defaultRabbitMQExchange     = "order_events"
	defaultLogLevel             = "info"
)

// Defaults returns the configuration used when no source overrides a value.
func Defaults() Config {
	return Config{
		HTTPPort: defaultHTTPPort,
		DB: DB{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "fulfillment",
			SSLMode: "disable",
		},
		Outbox: Outbox{
			Interval:       defaultOutboxInterval,
			MaxParallelism: defaultOutboxMaxParallelism,
		},
		Transport: TransportLog,
		Kafka: Kafka{
			Topic: defaultKafkaTopic,
		},
		RabbitMQ: RabbitMQ{
			Exchange: defaultRabbitMQExchange,
		},
		LogLevel: defaultLogLevel,
	}
}
