package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

const DefaultSweepConcurrency = 4

// SweepResult counts what one pass did. Skipped orders were moved by someone
// else between the query and the write; Failed ones hit an unexpected error.
type SweepResult struct {
	Candidates   int
	Transitioned int
	Skipped      int
	Failed       int
}

// SweepOrdersCommandHandler runs a sweep through the same transition path as
// customer and merchant actions.
type SweepOrdersCommandHandler struct {
	uowFactory   OrderUoWFactory
	transitioner *orderTransitioner
	concurrency  int
	logger       *slog.Logger
}

func NewSweepOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.OrderEventPublisher,
	opts TransitionOptions,
	concurrency int,
	logger *slog.Logger,
) SweepOrdersCommandHandler {
	if concurrency <= 0 {
		concurrency = DefaultSweepConcurrency
	}
	logger = logger.With("component", "sweep_orders_handler")
	return SweepOrdersCommandHandler{
		uowFactory:   uowFactory,
		transitioner: newOrderTransitioner(uowFactory, gateway, publisher, opts, logger),
		concurrency:  concurrency,
		logger:       logger,
	}
}

// Handle queries the candidates and fires the sweep event at each with
// bounded parallelism. Per-order failures are logged and counted; only a
// failed candidate query is returned as an error.
func (h SweepOrdersCommandHandler) Handle(ctx context.Context, cmd SweepOrdersCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	cutoff := h.transitioner.opts.Now().Add(-cmd.Grace())
	candidates, err := h.uowFactory.Create().OrderRepository().
		FindByStatusOlderThan(ctx, cmd.Status(), cutoff, cmd.Limit())
	if err != nil {
		return SweepResult{}, fmt.Errorf("%s: find candidates: %w", cmd.Name(), err)
	}

	var (
		mu     sync.Mutex
		result = SweepResult{Candidates: len(candidates)}
		g      errgroup.Group
	)
	g.SetLimit(h.concurrency)

	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		ref := orderRef{id: candidate.ID()}
		g.Go(func() error {
			_, runErr := h.transitioner.run(ctx, ref, nil, cmd.event)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case runErr == nil:
				result.Transitioned++
			case isSkippable(runErr):
				result.Skipped++
			default:
				result.Failed++
				h.logger.ErrorContext(ctx, "sweep could not transition order",
					"sweep", cmd.Name(), "order_id", ref.String(), "error", runErr)
			}
			return nil
		})
	}
	_ = g.Wait()

	if result.Candidates > 0 {
		h.logger.InfoContext(ctx, "sweep finished",
			"sweep", cmd.Name(),
			"candidates", result.Candidates,
			"transitioned", result.Transitioned,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}
	return result, ctx.Err()
}

// isSkippable reports outcomes where another actor already moved the order.
func isSkippable(err error) bool {
	return errors.Is(err, order.ErrInvalidTransition) ||
		errors.Is(err, errs.ErrConcurrentModification) ||
		errors.Is(err, errs.ErrObjectNotFound)
}
