package http

import (
	"net/http"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/application/usecases/queries"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

const (
	// UserIDHeader carries the authenticated customer, set by the gateway in
	// front of this service.
	UserIDHeader = "X-User-ID"

	userIDKey = "userID"
)

func requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(UserIDHeader)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing "+UserIDHeader+" header")
		}
		userID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "malformed "+UserIDHeader+" header")
		}
		c.Set(userIDKey, userID)
		return next(c)
	}
}

func currentUser(c echo.Context) kernel.UUID {
	id, _ := c.Get(userIDKey).(kernel.UUID)
	return id
}

func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return id, nil
}

// SubmitOrder handles POST /user/order/submit.
func (s *Server) SubmitOrder(c echo.Context) error {
	var req SubmitOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	addressID, err := kernel.UUIDFromString(req.AddressBookID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewSubmitOrderCommand(currentUser(c), addressID, req.Remark)
	if err != nil {
		return err
	}
	res, err := s.submitOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, submitResponse(res))
}

// Payment handles PUT /user/order/payment.
func (s *Server) Payment(c echo.Context) error {
	var req PaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	number, err := order.NewNumber(req.OrderNumber)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRecordPaymentCommand(currentUser(c), number)
	if err != nil {
		return err
	}
	return s.change(c, cmd)
}

// UserCancel handles PUT /user/order/cancel/:id.
func (s *Server) UserCancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewUserCancelCommand(currentUser(c), id)
	if err != nil {
		return err
	}
	return s.change(c, cmd)
}

// UserOrderDetail handles GET /user/order/orderDetail/:id.
func (s *Server) UserOrderDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOwnOrderDetailsQuery(currentUser(c), id)
	if err != nil {
		return err
	}
	view, err := s.orderDetailsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(view))
}

// HistoryOrders handles GET /user/order/historyOrders: the caller's orders,
// newest first.
func (s *Server) HistoryOrders(c echo.Context) error {
	var req PageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID := currentUser(c)
	query, err := queries.NewSearchOrdersQuery(queries.OrderFilter{
		UserID: &userID,
		Status: order.Status(req.Status),
	}, req.Page, req.PageSize)
	if err != nil {
		return err
	}
	return s.search(c, query)
}

// RepeatOrder handles POST /user/order/repetition/:id.
func (s *Server) RepeatOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRepeatOrderCommand(currentUser(c), id)
	if err != nil {
		return err
	}
	if err = s.repeatOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) change(c echo.Context, cmd commands.ChangeOrderStatusCommand) error {
	tr, err := s.changeStatusHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transitionResponse(tr))
}

func (s *Server) search(c echo.Context, query queries.SearchOrdersQuery) error {
	page, err := s.searchOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResponse(page))
}
