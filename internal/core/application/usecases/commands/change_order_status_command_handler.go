package commands

import (
	"context"
	"log/slog"

	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"
)

// ChangeOrderStatusCommandHandler carries out customer and merchant actions.
//
//	cmd, _ := NewMerchantRejectCommand(orderID, "sold out")
//	tr, err := handler.Handle(ctx, cmd)
//	// tr.To == order.Cancelled, tr.Gateway == order.GatewayRefund for a paid order
type ChangeOrderStatusCommandHandler struct {
	transitioner *orderTransitioner
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.OrderEventPublisher,
	opts TransitionOptions,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		transitioner: newOrderTransitioner(uowFactory, gateway, publisher, opts,
			logger.With("component", "change_order_status_handler")),
	}
}

// Handle returns the committed transition. Errors classify as
// errs.ErrObjectNotFound, order.ErrInvalidTransition,
// errs.ErrConcurrentModification, ErrChargeFailed or ErrRefundFailed.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (order.Transition, error) {
	if err := cmd.Validate(); err != nil {
		return order.Transition{}, err
	}
	return h.transitioner.run(ctx, cmd.ref, cmd.userID, cmd.event)
}
