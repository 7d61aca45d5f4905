package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// one try plus one retry against the fresh row
	transitionAttempts = 2

	DefaultGatewayTimeout = 5 * time.Second
)

// TransitionOptions tune how decided transitions are carried out.
type TransitionOptions struct {
	// GatewayTimeout bounds each charge or refund call. Zero means DefaultGatewayTimeout.
	GatewayTimeout time.Duration
	// Now is the clock handed to the lifecycle. Nil means time.Now.
	Now func() time.Time
}

func (o TransitionOptions) withDefaults() TransitionOptions {
	if o.GatewayTimeout <= 0 {
		o.GatewayTimeout = DefaultGatewayTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// orderRef points at an order by id or, for payments, by number.
type orderRef struct {
	id     kernel.UUID
	number order.Number
}

func (r orderRef) load(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
	if r.number != "" {
		return repo.GetByNumber(ctx, r.number)
	}
	return repo.Get(ctx, r.id)
}

func (r orderRef) String() string {
	if r.number != "" {
		return r.number.String()
	}
	return r.id.String()
}

// orderTransitioner is the single write path for status changes. User and
// merchant actions and both sweeps go through run.
type orderTransitioner struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	publisher  ports.OrderEventPublisher
	opts       TransitionOptions
	logger     *slog.Logger
	tracer     trace.Tracer
}

func newOrderTransitioner(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.OrderEventPublisher,
	opts TransitionOptions,
	logger *slog.Logger,
) *orderTransitioner {
	return &orderTransitioner{
		uowFactory: uowFactory,
		gateway:    gateway,
		publisher:  publisher,
		opts:       opts.withDefaults(),
		logger:     logger,
		tracer:     otel.Tracer("takeout/commands"),
	}
}

// run loads the order, asks the lifecycle for a transition, and writes it
// conditioned on the loaded status. A lost race is retried once; the second
// loss surfaces as *errs.ConcurrentModificationError. When owner is set the
// order must belong to that user.
func (t *orderTransitioner) run(
	ctx context.Context,
	ref orderRef,
	owner *kernel.UUID,
	ev order.Event,
) (order.Transition, error) {
	ctx, span := t.tracer.Start(ctx, "order.transition", trace.WithAttributes(
		attribute.String("order.ref", ref.String()),
		attribute.String("order.event", ev.String()),
	))
	defer span.End()

	var err error
	for attempt := 1; attempt <= transitionAttempts; attempt++ {
		var tr order.Transition
		tr, err = t.attempt(ctx, ref, owner, ev)
		if err == nil {
			span.SetAttributes(
				attribute.String("order.from", tr.From.String()),
				attribute.String("order.to", tr.To.String()),
			)
			return tr, nil
		}
		if !errors.Is(err, errs.ErrConcurrentModification) {
			break
		}
		t.logger.DebugContext(ctx, "conditional update lost the race",
			"order", ref.String(), "event", ev.String(), "attempt", attempt)
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return order.Transition{}, err
}

func (t *orderTransitioner) attempt(
	ctx context.Context,
	ref orderRef,
	owner *kernel.UUID,
	ev order.Event,
) (order.Transition, error) {
	uow := t.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Transition{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := ref.load(ctx, repo)
	if err != nil {
		return order.Transition{}, err
	}
	if owner != nil && !o.UserID().IsEqual(*owner) {
		return order.Transition{}, errs.NewObjectNotFoundError("order", ref.String())
	}

	tr, err := order.Decide(o, ev, t.opts.Now())
	if err != nil {
		return order.Transition{}, err
	}
	if err = o.Apply(tr); err != nil {
		return order.Transition{}, err
	}

	rows, err := repo.UpdateIfStatus(ctx, o, tr)
	if err != nil {
		return order.Transition{}, err
	}
	if rows == 0 {
		return order.Transition{}, errs.NewConcurrentModificationError("order", o.ID().String(), tr.From)
	}

	// The row is claimed but not committed: only this writer reaches the
	// gateway, and a gateway failure rolls the claim back.
	if err = t.settle(ctx, o, tr); err != nil {
		return order.Transition{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		if tr.Gateway != order.GatewayNone {
			t.logger.ErrorContext(ctx, "gateway settled but commit failed",
				"order_id", o.ID().String(), "number", o.Number().String(),
				"gateway", tr.Gateway.String(), "error", err)
		}
		return order.Transition{}, err
	}

	t.logger.InfoContext(ctx, "order status changed",
		"order_id", o.ID().String(),
		"number", o.Number().String(),
		"from", tr.From.String(),
		"to", tr.To.String(),
		"event", tr.Event.String(),
	)
	t.publish(ctx, o, tr)
	return tr, nil
}

func (t *orderTransitioner) settle(ctx context.Context, o *order.Order, tr order.Transition) error {
	if tr.Gateway == order.GatewayNone {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.opts.GatewayTimeout)
	defer cancel()

	switch tr.Gateway {
	case order.GatewayCharge:
		res, err := t.gateway.Charge(ctx, o.Number(), o.Amount())
		if err != nil {
			return fmt.Errorf("%w: order %s: %w", ErrChargeFailed, o.Number(), err)
		}
		if !res.Paid {
			return fmt.Errorf("%w: order %s: payment not confirmed", ErrChargeFailed, o.Number())
		}
	case order.GatewayRefund:
		res, err := t.gateway.Refund(ctx, o.Number(), o.Amount())
		if err != nil {
			return fmt.Errorf("%w: order %s: %w", ErrRefundFailed, o.Number(), err)
		}
		if !res.OK {
			return fmt.Errorf("%w: order %s: refund not confirmed", ErrRefundFailed, o.Number())
		}
	}
	return nil
}

// publish is best effort: the transition is already committed.
func (t *orderTransitioner) publish(ctx context.Context, o *order.Order, tr order.Transition) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.PublishStatusChanged(ctx, o, tr); err != nil {
		t.logger.WarnContext(ctx, "failed to publish status change",
			"order_id", o.ID().String(), "to", tr.To.String(), "error", err)
	}
}
