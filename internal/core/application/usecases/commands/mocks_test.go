package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/domain/model/customer"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number order.Number) (*order.Order, error) {
	args := m.Called(ctx, number)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) UpdateIfStatus(ctx context.Context, o *order.Order, tr order.Transition) (int64, error) {
	args := m.Called(ctx, o, tr)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindByStatusOlderThan(
	ctx context.Context,
	status order.Status,
	cutoff time.Time,
	limit int,
) ([]*order.Order, error) {
	args := m.Called(ctx, status, cutoff, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockAddressRepository struct{ mock.Mock }

func (m *MockAddressRepository) Add(ctx context.Context, a customer.Address) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAddressRepository) Get(ctx context.Context, id kernel.UUID) (customer.Address, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(customer.Address)
	return a, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockSubmitUoW struct {
	MockOrderUoW
}

func (m *MockSubmitUoW) AddressRepository() ports.AddressRepository {
	args := m.Called()
	return args.Get(0).(ports.AddressRepository)
}

type MockSubmitUoWFactory struct{ mock.Mock }

func (m *MockSubmitUoWFactory) Create() commands.SubmitUoW {
	args := m.Called()
	return args.Get(0).(commands.SubmitUoW)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Charge(ctx context.Context, number order.Number, amount kernel.Money) (ports.PaymentResult, error) {
	args := m.Called(ctx, number, amount)
	return args.Get(0).(ports.PaymentResult), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, number order.Number, amount kernel.Money) (ports.RefundResult, error) {
	args := m.Called(ctx, number, amount)
	return args.Get(0).(ports.RefundResult), args.Error(1)
}

type MockCartStore struct{ mock.Mock }

func (m *MockCartStore) List(ctx context.Context, userID kernel.UUID) ([]customer.CartLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]customer.CartLine)
	return lines, args.Error(1)
}

func (m *MockCartStore) Add(ctx context.Context, userID kernel.UUID, lines ...customer.CartLine) error {
	args := m.Called(ctx, userID, lines)
	return args.Error(0)
}

func (m *MockCartStore) Clear(ctx context.Context, userID kernel.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishStatusChanged(ctx context.Context, o *order.Order, tr order.Transition) error {
	args := m.Called(ctx, o, tr)
	return args.Error(0)
}

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions() commands.TransitionOptions {
	return commands.TransitionOptions{GatewayTimeout: time.Second, Now: fixedClock}
}

// pendingOrder places an order for userID at placedAt with two lines totalling 58.00.
func pendingOrder(t *testing.T, userID kernel.UUID, placedAt time.Time) *order.Order {
	t.Helper()
	rice, err := order.NewDetail("dish-1", "Braised pork rice", "", 2, kernel.MustMoney("14.50"))
	require.NoError(t, err)
	soup, err := order.NewDetail("dish-2", "Seaweed soup", "", 1, kernel.MustMoney("29.00"))
	require.NoError(t, err)
	address, err := order.NewAddressSnapshot("Li Lei", "13800000000", "No. 1 Main Street")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateNumber(placedAt), userID, address,
		[]order.Detail{rice, soup}, "", placedAt)
	require.NoError(t, err)
	return o
}

// advance moves o through events at placed time plus one minute.
func advance(t *testing.T, o *order.Order, events ...order.Event) *order.Order {
	t.Helper()
	at := o.OrderTime().Add(time.Minute)
	for _, ev := range events {
		tr, err := order.Decide(o, ev, at)
		require.NoError(t, err)
		require.NoError(t, o.Apply(tr))
	}
	return o
}

func paidOrder(t *testing.T, userID kernel.UUID) *order.Order {
	t.Helper()
	return advance(t, pendingOrder(t, userID, testNow.Add(-10*time.Minute)), order.NewPaymentConfirmed())
}

// reload returns an independent copy, as a repository read would.
func reload(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	c, err := order.RestoreOrder(o.Snapshot())
	require.NoError(t, err)
	return c
}
