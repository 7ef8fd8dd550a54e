package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/geo"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/logtransport"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/menurepo"
	"fulfillment/internal/adapters/out/rabbitmq"
	"fulfillment/internal/config"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
	clock      kernel.Clock

	registry         *prometheus.Registry
	publisherMetrics *metrics.PublisherMetrics
	transport        ports.EventTransport
	closers          []io.Closer

	publisher *commands.PublishOutboxEventsCommandHandler
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		clock:      kernel.SystemClock{},
		registry:   prometheus.NewRegistry(),
	}

	if err := c.registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := c.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}

	publisherMetrics, err := metrics.NewPublisherMetrics(c.registry)
	if err != nil {
		return nil, err
	}
	c.publisherMetrics = publisherMetrics

	if err = c.openTransport(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) openTransport() error {
	switch c.configs.Transport {
	case config.TransportKafka:
		t, err := kafka.NewTransport(c.configs.Kafka.Brokers, c.configs.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("kafka transport: %w", err)
		}
		c.transport = t
		c.closers = append(c.closers, t)
	case config.TransportRabbitMQ:
		conn, err := rabbitmq.Dial(c.configs.RabbitMQ.URL, c.logger)
		if err != nil {
			return err
		}
		t, err := rabbitmq.NewTransport(conn, c.configs.RabbitMQ.Exchange)
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("rabbitmq transport: %w", err)
		}
		c.transport = t
		c.closers = append(c.closers, t)
	case config.TransportLog:
		c.transport = logtransport.NewTransport(c.logger)
	default:
		return fmt.Errorf("unknown transport %q", c.configs.Transport)
	}

	c.logger.Info("event transport ready", "transport", c.configs.Transport)
	return nil
}

// Close releases the transport connections.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) outboxUoWFactory() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
}

// CreatePublishOutboxEventsCommandHandler returns the single publisher shared by the
// drain job and the immediate dispatch after commit.
func (c *CompositionRoot) CreatePublishOutboxEventsCommandHandler() *commands.PublishOutboxEventsCommandHandler {
	if c.publisher == nil {
		c.publisher = commands.NewPublishOutboxEventsCommandHandler(
			c.outboxUoWFactory(), c.transport, c.publisherMetrics, c.logger)
	}
	return c.publisher
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(
		c.orderUoWFactory(),
		menurepo.NewGormMenuCatalog(c.gormDB),
		geo.NewServiceAreaValidator(c.configs.ServiceAreaCities),
		c.CreatePublishOutboxEventsCommandHandler(),
		c.clock,
	)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(
		c.orderUoWFactory(), c.CreatePublishOutboxEventsCommandHandler(), c.clock)
}

func (c *CompositionRoot) CreateAssignDeliveryStaffCommandHandler() commands.AssignDeliveryStaffCommandHandler {
	return commands.NewAssignDeliveryStaffCommandHandler(
		c.orderUoWFactory(), c.CreatePublishOutboxEventsCommandHandler(), c.clock)
}

func (c *CompositionRoot) CreateOrderLifecycleService() *commands.OrderLifecycleService {
	return commands.NewOrderLifecycleService(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateAssignDeliveryStaffCommandHandler(),
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateFilterOrdersQueryHandler() queries.FilterOrdersQueryHandler {
	return queries.NewFilterOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateOrderLifecycleService(),
		c.CreateGetOrderQueryHandler(),
		c.CreateFilterOrdersQueryHandler(),
	)
}

func (c *CompositionRoot) CreateHTTPMetrics() (*metrics.HTTPMetrics, error) {
	return metrics.NewHTTPMetrics(c.registry)
}

// MetricsHandler serves the registry in the Prometheus exposition format.
func (c *CompositionRoot) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	job, err := jobs.NewOutboxPublisherJob(
		c.CreatePublishOutboxEventsCommandHandler(),
		c.configs.Outbox.Interval,
		c.configs.Outbox.MaxParallelism,
		c.logger,
	)
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(job), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
