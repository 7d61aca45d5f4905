// Package http is the echo transport. Handlers parse and validate requests,
// call one command or query handler, and render the result; every error
// goes through the shared error handler.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/application/usecases/queries"
	"takeout/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server holds the use cases behind the customer and merchant routes.
type Server struct {
	// Command handlers
	submitOrderHandler  commands.SubmitOrderCommandHandler
	changeStatusHandler commands.ChangeOrderStatusCommandHandler
	repeatOrderHandler  commands.RepeatOrderCommandHandler

	// Query handlers
	orderDetailsHandler    queries.GetOrderDetailsQueryHandler
	searchOrdersHandler    queries.SearchOrdersQueryHandler
	orderStatisticsHandler queries.GetOrderStatisticsQueryHandler
}

func NewServer(
	submitOrderHandler commands.SubmitOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	repeatOrderHandler commands.RepeatOrderCommandHandler,
	orderDetailsHandler queries.GetOrderDetailsQueryHandler,
	searchOrdersHandler queries.SearchOrdersQueryHandler,
	orderStatisticsHandler queries.GetOrderStatisticsQueryHandler,
) *Server {
	return &Server{
		submitOrderHandler:     submitOrderHandler,
		changeStatusHandler:    changeStatusHandler,
		repeatOrderHandler:     repeatOrderHandler,
		orderDetailsHandler:    orderDetailsHandler,
		searchOrdersHandler:    searchOrdersHandler,
		orderStatisticsHandler: orderStatisticsHandler,
	}
}

// HealthCheck reports whether the service's dependencies answer.
type HealthCheck func(ctx context.Context) error

// NewEcho builds the echo instance with every route registered.
func NewEcho(s *Server, m *metrics.Metrics, health HealthCheck, logger *slog.Logger) *echo.Echo {
	logger = logger.With("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = newErrorHandler(logger)

	e.Use(middleware.Recover())
	if m != nil {
		e.Use(m.Middleware())
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	e.GET("/health", func(c echo.Context) error {
		if health != nil {
			if err := health(c.Request().Context()); err != nil {
				logger.WarnContext(c.Request().Context(), "health check failed", "error", err)
				return c.String(http.StatusServiceUnavailable, "Unhealthy")
			}
		}
		return c.String(http.StatusOK, "Healthy")
	})

	s.Register(e)
	return e
}

// Register mounts the customer routes under /user/order and the merchant
// routes under /admin/order.
func (s *Server) Register(e *echo.Echo) {
	user := e.Group("/user/order", requireUser)
	user.POST("/submit", s.SubmitOrder)
	user.PUT("/payment", s.Payment)
	user.PUT("/cancel/:id", s.UserCancel)
	user.GET("/orderDetail/:id", s.UserOrderDetail)
	user.GET("/historyOrders", s.HistoryOrders)
	user.POST("/repetition/:id", s.RepeatOrder)

	admin := e.Group("/admin/order")
	admin.GET("/conditionSearch", s.ConditionSearch)
	admin.GET("/statistics", s.Statistics)
	admin.GET("/details/:id", s.AdminOrderDetail)
	admin.PUT("/confirm", s.Confirm)
	admin.PUT("/rejection", s.Reject)
	admin.PUT("/cancel", s.AdminCancel)
	admin.PUT("/delivery/:id", s.Dispatch)
	admin.PUT("/complete/:id", s.Complete)
}
