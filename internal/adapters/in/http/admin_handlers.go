package http

import (
	"net/http"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/application/usecases/queries"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// searchTimeLayout is what the merchant console sends; RFC 3339 is accepted too.
const searchTimeLayout = "2006-01-02 15:04:05"

func parseSearchTime(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(searchTimeLayout, raw, time.Local)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
		}
	}
	return &t, nil
}

// ConditionSearch handles GET /admin/order/conditionSearch.
func (s *Server) ConditionSearch(c echo.Context) error {
	var req ConditionSearchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	begin, err := parseSearchTime("beginTime", req.BeginTime)
	if err != nil {
		return err
	}
	end, err := parseSearchTime("endTime", req.EndTime)
	if err != nil {
		return err
	}

	query, err := queries.NewSearchOrdersQuery(queries.OrderFilter{
		Status: order.Status(req.Status),
		Number: req.Number,
		Phone:  req.Phone,
		Begin:  begin,
		End:    end,
	}, req.Page, req.PageSize)
	if err != nil {
		return err
	}
	return s.search(c, query)
}

// Statistics handles GET /admin/order/statistics.
func (s *Server) Statistics(c echo.Context) error {
	stats, err := s.orderStatisticsHandler.Handle(c.Request().Context(), queries.NewGetOrderStatisticsQuery())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatisticsResponse{
		ToBeConfirmed:      stats.ToBeConfirmed,
		Confirmed:          stats.Confirmed,
		DeliveryInProgress: stats.InDelivery,
	})
}

// AdminOrderDetail handles GET /admin/order/details/:id.
func (s *Server) AdminOrderDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderDetailsQuery(id)
	if err != nil {
		return err
	}
	view, err := s.orderDetailsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(view))
}

// Confirm handles PUT /admin/order/confirm.
func (s *Server) Confirm(c echo.Context) error {
	var req ConfirmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	id, err := kernel.UUIDFromString(req.ID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewMerchantConfirmCommand(id)
	if err != nil {
		return err
	}
	return s.change(c, cmd)
}

// Reject handles PUT /admin/order/rejection. A paid order is refunded.
func (s *Server) Reject(c echo.Context) error {
	var req RejectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	id, err := kernel.UUIDFromString(req.ID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewMerchantRejectCommand(id, req.RejectionReason)
	if err != nil {
		return err
	}
	return s.change(c, cmd)
}

// AdminCancel handles PUT /admin/order/cancel. A paid order is refunded.
func (s *Server) AdminCancel(c echo.Context) error {
	var req CancelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	id, err := kernel.UUIDFromString(req.ID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewMerchantCancelCommand(id, req.CancelReason)
	if err != nil {
		return err
	}
	return s.change(c, cmd)
}

// Dispatch handles PUT /admin/order/delivery/:id.
func (s *Server) Dispatch(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDispatchCommand(id)
	if err != nil {
		return err
	}
	return s.change(c, cmd)
}

// Complete handles PUT /admin/order/complete/:id.
func (s *Server) Complete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewCompleteCommand(id)
	if err != nil {
		return err
	}
	return s.change(c, cmd)
}
