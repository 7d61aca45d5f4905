package orderrepo_test

import (
	"testing"
	"time"

	"takeout/internal/adapters/out/postgres/orderrepo"
	"takeout/internal/adapters/out/postgres/testdb"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/errs"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var placedAt = time.Date(2024, 5, 20, 11, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, at time.Time) *order.Order {
	t.Helper()
	rice, err := order.NewDetail("dish-1", "Braised pork rice", "less spicy", 2, kernel.MustMoney("14.50"))
	require.NoError(t, err)
	soup, err := order.NewDetail("dish-2", "Seaweed soup", "", 1, kernel.MustMoney("29.00"))
	require.NoError(t, err)
	address, err := order.NewAddressSnapshot("Li Lei", "13800000000", "No. 1 Main Street")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateNumber(at), kernel.NewUUID(), address,
		[]order.Detail{rice, soup}, "no cilantro", at)
	require.NoError(t, err)
	return o
}

func decide(t *testing.T, o *order.Order, ev order.Event, at time.Time) order.Transition {
	t.Helper()
	tr, err := order.Decide(o, ev, at)
	require.NoError(t, err)
	require.NoError(t, o.Apply(tr))
	return tr
}

// OrderRepositoryTestSuite runs the repository against in-memory SQLite.
type OrderRepositoryTestSuite struct {
	suite.Suite
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (s *OrderRepositoryTestSuite) SetupTest() {
	s.db = testdb.New(s.T())
	s.repository = orderrepo.NewGormOrderRepository(s.db)
}

func (s *OrderRepositoryTestSuite) TestAdd_PersistsOrderWithDetails() {
	ctx := s.T().Context()
	o := newOrder(s.T(), placedAt)

	s.Require().NoError(s.repository.Add(ctx, o))

	got, err := s.repository.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(o.ID(), got.ID())
	s.Equal(o.Number(), got.Number())
	s.Equal(o.UserID(), got.UserID())
	s.Equal(order.PendingPayment, got.Status())
	s.Equal(order.Unpaid, got.PayStatus())
	s.Equal("58.00", got.Amount().String())
	s.Equal("no cilantro", got.Remark())
	s.Equal("No. 1 Main Street", got.Address().Line())
	s.True(placedAt.Equal(got.OrderTime()))

	details := got.Details()
	s.Require().Len(details, 2)
	s.Equal("dish-1", details[0].ItemID())
	s.Equal("less spicy", details[0].Flavor())
	s.Equal(2, details[0].Quantity())
	s.Equal("14.50", details[0].UnitAmount().String())
	s.Equal("29.00", details[1].Subtotal().String())

	byNumber, err := s.repository.GetByNumber(ctx, o.Number())
	s.Require().NoError(err)
	s.Equal(o.ID(), byNumber.ID())
}

func (s *OrderRepositoryTestSuite) TestAdd_DuplicateNumber() {
	ctx := s.T().Context()
	first := newOrder(s.T(), placedAt)
	s.Require().NoError(s.repository.Add(ctx, first))

	second := newOrder(s.T(), placedAt)
	snap := second.Snapshot()
	snap.Number = first.Number()
	clash, err := order.RestoreOrder(snap)
	s.Require().NoError(err)

	s.Require().ErrorIs(s.repository.Add(ctx, clash), ports.ErrDuplicateOrderNumber)
}

func (s *OrderRepositoryTestSuite) TestGet_NotFound() {
	ctx := s.T().Context()

	_, err := s.repository.Get(ctx, kernel.NewUUID())
	var notFound *errs.ObjectNotFoundError
	s.Require().ErrorAs(err, &notFound)

	_, err = s.repository.GetByNumber(ctx, order.Number("12345"))
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *OrderRepositoryTestSuite) TestUpdateIfStatus_WritesWhenStatusMatches() {
	ctx := s.T().Context()
	o := newOrder(s.T(), placedAt)
	s.Require().NoError(s.repository.Add(ctx, o))

	paidAt := placedAt.Add(2 * time.Minute)
	tr := decide(s.T(), o, order.NewPaymentConfirmed(), paidAt)

	rows, err := s.repository.UpdateIfStatus(ctx, o, tr)
	s.Require().NoError(err)
	s.Equal(int64(1), rows)

	got, err := s.repository.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(order.ToBeConfirmed, got.Status())
	s.Equal(order.Paid, got.PayStatus())
	s.Require().NotNil(got.CheckoutTime())
	s.True(paidAt.Equal(*got.CheckoutTime()))
	s.Len(got.Details(), 2)

	history, err := s.repository.History(ctx, o.ID())
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(int(order.PendingPayment), history[0].FromStatus)
	s.Equal(int(order.ToBeConfirmed), history[0].ToStatus)
	s.Equal("PaymentConfirmed", history[0].Event)
}

func (s *OrderRepositoryTestSuite) TestUpdateIfStatus_StaleWriterChangesNothing() {
	ctx := s.T().Context()
	o := newOrder(s.T(), placedAt)
	s.Require().NoError(s.repository.Add(ctx, o))

	cancelled, err := s.repository.Get(ctx, o.ID())
	s.Require().NoError(err)
	paid, err := s.repository.Get(ctx, o.ID())
	s.Require().NoError(err)

	cancelTr := decide(s.T(), cancelled, order.NewUserCancel(), placedAt.Add(time.Minute))
	payTr := decide(s.T(), paid, order.NewPaymentConfirmed(), placedAt.Add(time.Minute))

	rows, err := s.repository.UpdateIfStatus(ctx, cancelled, cancelTr)
	s.Require().NoError(err)
	s.Equal(int64(1), rows)

	rows, err = s.repository.UpdateIfStatus(ctx, paid, payTr)
	s.Require().NoError(err)
	s.Zero(rows)

	got, err := s.repository.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(order.Cancelled, got.Status())
	s.Equal(order.Unpaid, got.PayStatus())
	s.Nil(got.CheckoutTime())
	s.Equal(order.ReasonUserCancelled, got.CancelReason())

	history, err := s.repository.History(ctx, o.ID())
	s.Require().NoError(err)
	s.Len(history, 1)
	s.Equal(order.ReasonUserCancelled, history[0].Reason)
}

func (s *OrderRepositoryTestSuite) TestUpdateIfStatus_RejectsMismatchedTransition() {
	ctx := s.T().Context()
	o := newOrder(s.T(), placedAt)
	s.Require().NoError(s.repository.Add(ctx, o))

	tr, err := order.Decide(o, order.NewPaymentConfirmed(), placedAt.Add(time.Minute))
	s.Require().NoError(err)

	// o was never applied, so it is still PendingPayment.
	_, err = s.repository.UpdateIfStatus(ctx, o, tr)
	s.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (s *OrderRepositoryTestSuite) TestFindByStatusOlderThan() {
	ctx := s.T().Context()
	cutoff := placedAt.Add(-15 * time.Minute)

	oldest := newOrder(s.T(), cutoff.Add(-30*time.Minute))
	old := newOrder(s.T(), cutoff.Add(-time.Minute))
	young := newOrder(s.T(), cutoff.Add(time.Minute))
	oldPaid := newOrder(s.T(), cutoff.Add(-20*time.Minute))
	for _, o := range []*order.Order{old, young, oldest, oldPaid} {
		s.Require().NoError(s.repository.Add(ctx, o))
	}
	tr := decide(s.T(), oldPaid, order.NewPaymentConfirmed(), placedAt)
	_, err := s.repository.UpdateIfStatus(ctx, oldPaid, tr)
	s.Require().NoError(err)

	found, err := s.repository.FindByStatusOlderThan(ctx, order.PendingPayment, cutoff, 0)
	s.Require().NoError(err)
	s.Require().Len(found, 2)
	s.Equal(oldest.ID(), found[0].ID())
	s.Equal(old.ID(), found[1].ID())
	s.Len(found[0].Details(), 2)

	limited, err := s.repository.FindByStatusOlderThan(ctx, order.PendingPayment, cutoff, 1)
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Equal(oldest.ID(), limited[0].ID())

	paid, err := s.repository.FindByStatusOlderThan(ctx, order.ToBeConfirmed, cutoff, 0)
	s.Require().NoError(err)
	s.Require().Len(paid, 1)
	s.Equal(oldPaid.ID(), paid[0].ID())
}

func TestOrderRepository(t *testing.T) {
	suite.Run(t, new(OrderRepositoryTestSuite))
}
