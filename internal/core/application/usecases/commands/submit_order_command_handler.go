package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"takeout/internal/core/domain/model/customer"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/errs"
)

const numberAttempts = 3

// SubmitOrderResult is what the customer needs to go on and pay.
type SubmitOrderResult struct {
	OrderID   kernel.UUID
	Number    order.Number
	Amount    kernel.Money
	OrderTime time.Time
}

// SubmitOrderCommandHandler turns the caller's cart into a PendingPayment order.
type SubmitOrderCommandHandler struct {
	uowFactory SubmitUoWFactory
	cart       ports.CartStore
	now        func() time.Time
	logger     *slog.Logger
}

func NewSubmitOrderCommandHandler(
	uowFactory SubmitUoWFactory,
	cart ports.CartStore,
	now func() time.Time,
	logger *slog.Logger,
) SubmitOrderCommandHandler {
	if now == nil {
		now = time.Now
	}
	return SubmitOrderCommandHandler{
		uowFactory: uowFactory,
		cart:       cart,
		now:        now,
		logger:     logger.With("component", "submit_order_handler"),
	}
}

// Handle checks the address and cart, snapshots both into a new order,
// inserts order and details in one transaction and then clears the cart.
// A number collision is retried with a fresh number.
func (h SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (SubmitOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return SubmitOrderResult{}, err
	}

	address, err := h.deliveryAddress(ctx, cmd)
	if err != nil {
		return SubmitOrderResult{}, err
	}

	lines, err := h.cart.List(ctx, cmd.UserID())
	if err != nil {
		return SubmitOrderResult{}, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return SubmitOrderResult{}, ErrCartEmpty
	}
	details, err := detailsFromCart(lines)
	if err != nil {
		return SubmitOrderResult{}, err
	}

	now := h.now()
	for attempt := 1; attempt <= numberAttempts; attempt++ {
		o, err := order.NewOrder(
			kernel.NewUUID(),
			order.GenerateNumber(now),
			cmd.UserID(),
			address,
			details,
			cmd.Remark(),
			now,
		)
		if err != nil {
			return SubmitOrderResult{}, err
		}

		err = h.insert(ctx, o)
		if errors.Is(err, ports.ErrDuplicateOrderNumber) {
			h.logger.WarnContext(ctx, "order number collision", "number", o.Number().String(), "attempt", attempt)
			continue
		}
		if err != nil {
			return SubmitOrderResult{}, err
		}

		if err = h.cart.Clear(ctx, cmd.UserID()); err != nil {
			h.logger.WarnContext(ctx, "order placed but cart was not cleared",
				"order_id", o.ID().String(), "user_id", cmd.UserID().String(), "error", err)
		}

		h.logger.InfoContext(ctx, "order submitted",
			"order_id", o.ID().String(), "number", o.Number().String(), "amount", o.Amount().String())
		return SubmitOrderResult{
			OrderID:   o.ID(),
			Number:    o.Number(),
			Amount:    o.Amount(),
			OrderTime: o.OrderTime(),
		}, nil
	}

	return SubmitOrderResult{}, ErrNumberExhausted
}

func (h SubmitOrderCommandHandler) deliveryAddress(ctx context.Context, cmd SubmitOrderCommand) (order.AddressSnapshot, error) {
	uow := h.uowFactory.Create()
	book, err := uow.AddressRepository().Get(ctx, cmd.AddressID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.AddressSnapshot{}, ErrAddressMissing
	}
	if err != nil {
		return order.AddressSnapshot{}, err
	}
	if !book.BelongsTo(cmd.UserID()) {
		return order.AddressSnapshot{}, ErrAddressMissing
	}
	return order.NewAddressSnapshot(book.Consignee(), book.Phone(), book.Line())
}

func (h SubmitOrderCommandHandler) insert(ctx context.Context, o *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func detailsFromCart(lines []customer.CartLine) ([]order.Detail, error) {
	details := make([]order.Detail, 0, len(lines))
	for _, l := range lines {
		d, err := order.NewDetail(l.ItemID, l.Name, l.Flavor, l.Quantity, l.UnitAmount)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}
