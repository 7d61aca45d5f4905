package postgres_test

import (
	"testing"
	"time"

	postgres_adapter "takeout/internal/adapters/out/postgres"
	"takeout/internal/adapters/out/postgres/testdb"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := t.Context()
	factory := postgres_adapter.NewGormUnitOfWorkFactory(testdb.New(t))

	d, err := order.NewDetail("dish-1", "Braised pork rice", "", 1, kernel.MustMoney("14.50"))
	require.NoError(t, err)
	address, err := order.NewAddressSnapshot("Li Lei", "13800000000", "No. 1 Main Street")
	require.NoError(t, err)
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateNumber(now), kernel.NewUUID(), address,
		[]order.Detail{d}, "", now)
	require.NoError(t, err)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.Commit(ctx))
	require.Error(t, uow.Rollback(ctx))

	// A second unit sees the committed row without opening a transaction.
	got, err := factory.Create().OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, o.Number(), got.Number())

	rolled := factory.Create()
	require.NoError(t, rolled.Begin(ctx))
	tr, err := order.Decide(got, order.NewUserCancel(), now.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, got.Apply(tr))
	rows, err := rolled.OrderRepository().UpdateIfStatus(ctx, got, tr)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	require.NoError(t, rolled.Rollback(ctx))

	after, err := factory.Create().OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.PendingPayment, after.Status())
}
