package commands_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

// memoryStore is an order store whose UpdateIfStatus is a real
// compare-and-swap. Transactions are no-ops, so it is only used where no
// rollback is expected.
type memoryStore struct {
	mu         sync.Mutex
	orders     map[kernel.UUID]order.Snapshot
	history    []order.Transition
	failUpdate map[kernel.UUID]error

	// afterGet runs after a load has read the row and before it returns.
	afterGet func()
}

func newMemoryStore(t *testing.T, orders ...*order.Order) *memoryStore {
	t.Helper()
	s := &memoryStore{
		orders:     make(map[kernel.UUID]order.Snapshot),
		failUpdate: make(map[kernel.UUID]error),
	}
	for _, o := range orders {
		require.NoError(t, s.Add(t.Context(), o))
	}
	return s
}

func (s *memoryStore) Add(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = o.Snapshot()
	return nil
}

func (s *memoryStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.Lock()
	snap, ok := s.orders[id]
	s.mu.Unlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	if s.afterGet != nil {
		s.afterGet()
	}
	return order.RestoreOrder(snap)
}

func (s *memoryStore) GetByNumber(ctx context.Context, number order.Number) (*order.Order, error) {
	s.mu.Lock()
	var id kernel.UUID
	for k, snap := range s.orders {
		if snap.Number == number {
			id = k
		}
	}
	s.mu.Unlock()
	return s.Get(ctx, id)
}

func (s *memoryStore) UpdateIfStatus(_ context.Context, o *order.Order, tr order.Transition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failUpdate[o.ID()]; err != nil {
		return 0, err
	}
	if s.orders[o.ID()].Status != tr.From {
		return 0, nil
	}
	s.orders[o.ID()] = o.Snapshot()
	s.history = append(s.history, tr)
	return 1, nil
}

func (s *memoryStore) FindByStatusOlderThan(
	_ context.Context,
	status order.Status,
	cutoff time.Time,
	limit int,
) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*order.Order
	for _, snap := range s.orders {
		if snap.Status == status && snap.OrderTime.Before(cutoff) {
			o, err := order.RestoreOrder(snap)
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderTime().Before(out[j].OrderTime()) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryStore) status(id kernel.UUID) order.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].Status
}

func (s *memoryStore) snapshot(id kernel.UUID) order.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id]
}

type memoryUoW struct{ store *memoryStore }

func (u memoryUoW) Begin(context.Context) error            { return nil }
func (u memoryUoW) Commit(context.Context) error           { return nil }
func (u memoryUoW) Rollback(context.Context) error         { return nil }
func (u memoryUoW) OrderRepository() ports.OrderRepository { return u.store }

type memoryUoWFactory struct{ store *memoryStore }

func (f memoryUoWFactory) Create() commands.OrderUoW { return memoryUoW(f) }

// okGateway confirms every charge and refund and counts them.
type okGateway struct {
	mu      sync.Mutex
	charges int
	refunds int
}

func (g *okGateway) Charge(context.Context, order.Number, kernel.Money) (ports.PaymentResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges++
	return ports.PaymentResult{Paid: true}, nil
}

func (g *okGateway) Refund(context.Context, order.Number, kernel.Money) (ports.RefundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds++
	return ports.RefundResult{OK: true}, nil
}
