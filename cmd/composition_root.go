package cmd

import (
	"context"
	"log/slog"
	"net/http"

	httpadapter "takeout/internal/adapters/in/http"
	"takeout/internal/adapters/out/kafka"
	"takeout/internal/adapters/out/payment"
	"takeout/internal/adapters/out/postgres"
	"takeout/internal/adapters/out/redis/cartstore"
	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/application/usecases/queries"
	"takeout/internal/core/ports"
	"takeout/internal/jobs"
	"takeout/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	redis      redis.UniversalClient
	cart       ports.CartStore
	gateway    ports.PaymentGateway
	publisher  ports.OrderEventPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger

	closers []func() error
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, redisClient redis.UniversalClient, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		redis:      redisClient,
		cart:       cartstore.NewRedisCartStore(redisClient, cartstore.DefaultTTL),
		metrics:    metrics.New(),
		logger:     logger,
	}

	if configs.PaymentGatewayURL != "" {
		c.gateway = payment.NewHTTPGateway(configs.PaymentGatewayURL, &http.Client{})
	} else {
		logger.Warn("PAYMENT_GATEWAY_URL is empty, using the simulated payment gateway")
		c.gateway = payment.NewSimulatedGateway(logger)
	}

	if configs.KafkaHost != "" {
		p := kafka.NewOrderStatusPublisher(kafka.NewWriter(configs.KafkaHost, configs.KafkaOrderChangedTopic))
		c.publisher = p
		c.closers = append(c.closers, p.Close)
	} else {
		c.publisher = kafka.NoopPublisher{}
	}
	return c
}

func (c *CompositionRoot) transitionOptions() commands.TransitionOptions {
	return commands.TransitionOptions{GatewayTimeout: c.configs.PaymentTimeout}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	var f commands.SubmitUoWFactory = FuncSubmitUoWFactory(func() commands.SubmitUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitOrderCommandHandler(f, c.cart, nil, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(
		c.orderUoWFactory(), c.gateway, c.publisher, c.transitionOptions(), c.logger)
}

func (c *CompositionRoot) CreateRepeatOrderCommandHandler() commands.RepeatOrderCommandHandler {
	return commands.NewRepeatOrderCommandHandler(c.orderUoWFactory(), c.cart)
}

func (c *CompositionRoot) CreateSweepOrdersCommandHandler() commands.SweepOrdersCommandHandler {
	return commands.NewSweepOrdersCommandHandler(
		c.orderUoWFactory(), c.gateway, c.publisher, c.transitionOptions(), c.configs.SweepConcurrency, c.logger)
}

func (c *CompositionRoot) CreateGetOrderDetailsQueryHandler() queries.GetOrderDetailsQueryHandler {
	return queries.NewGetOrderDetailsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateSearchOrdersQueryHandler() queries.SearchOrdersQueryHandler {
	return queries.NewSearchOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderStatisticsQueryHandler() queries.GetOrderStatisticsQueryHandler {
	return queries.NewGetOrderStatisticsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateSweepOrdersCommandHandler(), jobs.Schedules{
		ExpirySchedule:   c.configs.ExpirySchedule,
		PaymentGrace:     c.configs.PaymentGrace,
		DeliverySchedule: c.configs.DeliverySchedule,
		DeliveryGrace:    c.configs.DeliveryGrace,
	}, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateEcho() *echo.Echo {
	server := httpadapter.NewServer(
		c.CreateSubmitOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateRepeatOrderCommandHandler(),
		c.CreateGetOrderDetailsQueryHandler(),
		c.CreateSearchOrdersQueryHandler(),
		c.CreateGetOrderStatisticsQueryHandler(),
	)
	return httpadapter.NewEcho(server, c.metrics, c.health, c.logger)
}

func (c *CompositionRoot) health(ctx context.Context) error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		return err
	}
	return c.redis.Ping(ctx).Err()
}

// Close releases the publisher. The database and Redis clients belong to
// the caller.
func (c *CompositionRoot) Close() error {
	var first error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncSubmitUoWFactory func() commands.SubmitUoW

func (f FuncSubmitUoWFactory) Create() commands.SubmitUoW {
	return f()
}
