package order_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paymentGrace = 15 * time.Minute

// edges is the expected lifecycle, written out independently of the package table.
var edges = map[order.EventKind]map[order.Status]order.Status{
	order.PaymentConfirmed: {order.PendingPayment: order.ToBeConfirmed},
	order.MerchantConfirm:  {order.ToBeConfirmed: order.Confirmed},
	order.MerchantReject:   {order.ToBeConfirmed: order.Cancelled},
	order.MerchantCancel:   {order.ToBeConfirmed: order.Cancelled, order.Confirmed: order.Cancelled},
	order.UserCancel:       {order.PendingPayment: order.Cancelled, order.ToBeConfirmed: order.Cancelled},
	order.Dispatch:         {order.Confirmed: order.InDelivery},
	order.Deliver:          {order.InDelivery: order.Completed},
	order.TimeoutExpire:    {order.PendingPayment: order.Cancelled},
	order.TimeoutForceComplete: {
		order.InDelivery: order.Completed,
	},
}

func mustEvent(t *testing.T) func(order.Event, error) order.Event {
	return func(ev order.Event, err error) order.Event {
		t.Helper()
		require.NoError(t, err)
		return ev
	}
}

func allEvents(t *testing.T) []order.Event {
	t.Helper()
	return []order.Event{
		order.NewPaymentConfirmed(),
		order.NewMerchantConfirm(),
		mustEvent(t)(order.NewMerchantReject("sold out")),
		mustEvent(t)(order.NewMerchantCancel("kitchen closed")),
		order.NewUserCancel(),
		order.NewDispatch(),
		order.NewDeliver(),
		mustEvent(t)(order.NewTimeoutExpire(paymentGrace)),
		mustEvent(t)(order.NewTimeoutForceComplete(time.Hour)),
	}
}

// orderIn returns a fresh order moved to the requested status along the happy path.
func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o := newTestOrder(t)
	at := baseTime.Add(time.Minute)
	path := map[order.Status][]order.Event{
		order.PendingPayment: nil,
		order.ToBeConfirmed:  {order.NewPaymentConfirmed()},
		order.Confirmed:      {order.NewPaymentConfirmed(), order.NewMerchantConfirm()},
		order.InDelivery:     {order.NewPaymentConfirmed(), order.NewMerchantConfirm(), order.NewDispatch()},
		order.Completed: {
			order.NewPaymentConfirmed(), order.NewMerchantConfirm(), order.NewDispatch(), order.NewDeliver(),
		},
		order.Cancelled: {order.NewUserCancel()},
	}
	drive(t, o, at, path[status]...)
	require.Equal(t, status, o.Status())
	return o
}

func TestDecide_TransitionTable(t *testing.T) {
	late := baseTime.Add(2 * time.Hour)
	for _, ev := range allEvents(t) {
		for s := order.PendingPayment; s <= order.Cancelled; s++ {
			t.Run(ev.String()+"/"+s.String(), func(t *testing.T) {
				o := orderIn(t, s)
				before := o.Snapshot()

				tr, err := order.Decide(o, ev, late)

				want, allowed := edges[ev.Kind()][s]
				if !allowed {
					var invalid *order.InvalidTransitionError
					require.ErrorAs(t, err, &invalid)
					assert.Equal(t, s, invalid.From)
					assert.Equal(t, ev.Kind(), invalid.Event)
					assert.Equal(t, before, o.Snapshot())
					return
				}
				require.NoError(t, err)
				assert.Equal(t, s, tr.From)
				assert.Equal(t, want, tr.To)
				assert.Equal(t, before, o.Snapshot(), "Decide must not mutate the order")
			})
		}
	}
}

func TestDecide_SideEffects(t *testing.T) {
	at := baseTime.Add(5 * time.Minute)

	t.Run("payment charges and stamps checkout time", func(t *testing.T) {
		o := orderIn(t, order.PendingPayment)
		tr, err := order.Decide(o, order.NewPaymentConfirmed(), at)
		require.NoError(t, err)
		assert.Equal(t, order.GatewayCharge, tr.Gateway)
		assert.Equal(t, order.Paid, tr.PayStatus)

		require.NoError(t, o.Apply(tr))
		assert.Equal(t, order.ToBeConfirmed, o.Status())
		assert.Equal(t, order.Paid, o.PayStatus())
		require.NotNil(t, o.CheckoutTime())
		assert.Equal(t, at, *o.CheckoutTime())
	})

	t.Run("merchant reject of a paid order refunds and records only the rejection reason", func(t *testing.T) {
		o := orderIn(t, order.ToBeConfirmed)
		tr, err := order.Decide(o, mustEvent(t)(order.NewMerchantReject("sold out")), at)
		require.NoError(t, err)
		assert.Equal(t, order.GatewayRefund, tr.Gateway)
		assert.Equal(t, "sold out", tr.Reason())

		require.NoError(t, o.Apply(tr))
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, order.Refunded, o.PayStatus())
		assert.Equal(t, "sold out", o.RejectionReason())
		assert.Empty(t, o.CancelReason())
		require.NotNil(t, o.CancelTime())
		assert.NotNil(t, o.CheckoutTime(), "a refunded order keeps its checkout time")
	})

	t.Run("merchant cancel of a confirmed order refunds", func(t *testing.T) {
		o := orderIn(t, order.Confirmed)
		tr, err := order.Decide(o, mustEvent(t)(order.NewMerchantCancel("rider unavailable")), at)
		require.NoError(t, err)
		assert.Equal(t, order.GatewayRefund, tr.Gateway)
		require.NoError(t, o.Apply(tr))
		assert.Equal(t, "rider unavailable", o.RejectionReason())
	})

	t.Run("user cancel of an unpaid order needs no gateway", func(t *testing.T) {
		o := orderIn(t, order.PendingPayment)
		tr, err := order.Decide(o, order.NewUserCancel(), at)
		require.NoError(t, err)
		assert.Equal(t, order.GatewayNone, tr.Gateway)
		require.NoError(t, o.Apply(tr))
		assert.Equal(t, order.Unpaid, o.PayStatus())
		assert.Equal(t, order.ReasonUserCancelled, o.CancelReason())
	})

	t.Run("user cancel of a paid order refunds", func(t *testing.T) {
		o := orderIn(t, order.ToBeConfirmed)
		tr, err := order.Decide(o, order.NewUserCancel(), at)
		require.NoError(t, err)
		assert.Equal(t, order.GatewayRefund, tr.Gateway)
		assert.Equal(t, order.Refunded, tr.PayStatus)
	})

	t.Run("deliver stamps delivery time", func(t *testing.T) {
		o := orderIn(t, order.InDelivery)
		drive(t, o, at, order.NewDeliver())
		require.NotNil(t, o.DeliveryTime())
		assert.Equal(t, at, *o.DeliveryTime())
	})
}

func TestDecide_AgeGuards(t *testing.T) {
	expire := mustEvent(t)(order.NewTimeoutExpire(paymentGrace))

	t.Run("young unpaid orders are left alone", func(t *testing.T) {
		o := orderIn(t, order.PendingPayment)
		_, err := order.Decide(o, expire, baseTime.Add(paymentGrace))
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "does not exceed")
	})

	t.Run("unpaid order 20 minutes old is cancelled for payment timeout without refund", func(t *testing.T) {
		o := orderIn(t, order.PendingPayment)
		tr, err := order.Decide(o, expire, baseTime.Add(20*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, order.GatewayNone, tr.Gateway)

		require.NoError(t, o.Apply(tr))
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, order.Unpaid, o.PayStatus())
		assert.Equal(t, order.ReasonPaymentTimeout, o.CancelReason())
	})

	t.Run("stuck delivery is force completed after the window", func(t *testing.T) {
		o := orderIn(t, order.InDelivery)
		force := mustEvent(t)(order.NewTimeoutForceComplete(time.Hour))

		_, err := order.Decide(o, force, baseTime.Add(30*time.Minute))
		require.ErrorIs(t, err, order.ErrInvalidTransition)

		drive(t, o, baseTime.Add(61*time.Minute), force)
		assert.Equal(t, order.Completed, o.Status())
		assert.NotNil(t, o.DeliveryTime())
	})

	t.Run("timeout events need a positive threshold", func(t *testing.T) {
		_, err := order.NewTimeoutExpire(0)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		_, err = order.NewTimeoutForceComplete(-time.Second)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestDecide_TimeoutExpireIsIdempotent(t *testing.T) {
	o := orderIn(t, order.PendingPayment)
	expire := mustEvent(t)(order.NewTimeoutExpire(paymentGrace))
	at := baseTime.Add(20 * time.Minute)

	drive(t, o, at, expire)
	cancelled := o.Snapshot()

	_, err := order.Decide(o, expire, at.Add(time.Minute))
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Equal(t, cancelled, o.Snapshot())
}

func TestDecide_RejectsUnknownAndUnconstructed(t *testing.T) {
	_, err := order.Decide(orderIn(t, order.PendingPayment), order.Event{}, baseTime)
	require.ErrorIs(t, err, order.ErrInvalidTransition)

	_, err = order.Decide(&order.Order{}, order.NewDispatch(), baseTime)
	require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)

	_, err = order.NewMerchantReject("  ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

// TestDecide_RandomSequences feeds random event streams through Decide/Apply
// and checks that only table edges are ever taken and invariants always hold.
func TestDecide_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7)) //nolint:gosec // deterministic test input
	events := allEvents(t)

	for run := 0; run < 300; run++ {
		o := newTestOrder(t)
		now := baseTime

		for step := 0; step < 12; step++ {
			now = now.Add(time.Duration(rng.IntN(40)) * time.Minute)
			ev := events[rng.IntN(len(events))]
			from := o.Status()

			tr, err := order.Decide(o, ev, now)
			if err != nil {
				require.ErrorIs(t, err, order.ErrInvalidTransition)
				assert.Equal(t, from, o.Status())
				continue
			}

			want, ok := edges[ev.Kind()][from]
			require.True(t, ok, "%s from %s is not a lifecycle edge", ev, from)
			require.NoError(t, o.Apply(tr))
			require.Equal(t, want, o.Status())

			require.NoError(t, o.Validate())
			if o.PayStatus() == order.Paid {
				assert.NotEqual(t, order.PendingPayment, o.Status())
				assert.NotEqual(t, order.Cancelled, o.Status())
			}
		}
	}
}
