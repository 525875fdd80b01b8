package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dao"
	"pg-bridge-api/internal/event"
	"pg-bridge-api/internal/logger"
	ordermodel "pg-bridge-api/internal/model/order"
	"pg-bridge-api/internal/testkit"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.OrderStatusEvent
}

func (p *recordingPublisher) Publish(topic string, msg any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := msg.(event.OrderStatusEvent); ok && topic == event.TopicOrderStatus {
		p.events = append(p.events, e)
	}
	return nil
}

func newLedger(t *testing.T) (*Ledger, *recordingPublisher) {
	pub := &recordingPublisher{}
	return New(dao.NewOrderDaoWithDB(testkit.NewDB(t)), pub, logger.Discard()), pub
}

func str(s string) *string { return &s }

func seed(t *testing.T, l *Ledger, ref string, status ordermodel.Status) *ordermodel.Order {
	o := &ordermodel.Order{
		ReferenceNo:     ref,
		Flow:            constant.ModuleAsyncCheckout,
		OrderID:         "order-" + ref,
		MallID:          "demo",
		ShopNo:          1,
		Currency:        "PHP",
		RequestedAmount: "3065.00",
		Status:          status,
		ExtraData:       ordermodel.ExtraData{"pgName": "pg-demo-app"},
	}
	require.NoError(t, l.Create(context.Background(), o))
	return o
}

func TestMapRawStatus(t *testing.T) {
	cases := map[string]Mapping{
		"P":  {Status: ordermodel.StatusPending},
		"F":  {Status: ordermodel.StatusFailed},
		"C":  {Status: ordermodel.StatusCancelled},
		"S":  {Status: ordermodel.StatusPaid},
		"R":  {Status: ordermodel.StatusRefunded, Refund: ordermodel.RefundDone},
		"RP": {Refund: ordermodel.RefundPending},
		"RX": {Refund: ordermodel.RefundRejected},
		"E":  {Status: ordermodel.StatusExpired},
		"A":  {Status: ordermodel.StatusAuthorized},
	}
	for raw, want := range cases {
		got, err := MapRawStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "X", "s", "PAID"} {
		_, err := MapRawStatus(raw)
		assert.ErrorIs(t, err, constant.NewError(constant.CodeUnknownGatewayStatus), raw)
	}

	_, err := MapCheckoutStatus("RP")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeUnknownGatewayStatus))
	_, err = MapRefundStatus("S")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeUnknownGatewayStatus))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(ordermodel.StatusRequested, ordermodel.StatusPending, false))
	assert.True(t, CanTransition(ordermodel.StatusPending, ordermodel.StatusPaid, false))
	assert.True(t, CanTransition(ordermodel.StatusAuthorized, ordermodel.StatusPaid, false))
	assert.True(t, CanTransition(ordermodel.StatusPaid, ordermodel.StatusRefunded, false))

	assert.False(t, CanTransition(ordermodel.StatusPaid, ordermodel.StatusPending, false))
	assert.False(t, CanTransition(ordermodel.StatusPaid, ordermodel.StatusFailed, false))
	assert.True(t, CanTransition(ordermodel.StatusPaid, ordermodel.StatusFailed, true))
	assert.False(t, CanTransition(ordermodel.StatusAuthorized, ordermodel.StatusPending, false))

	for _, terminal := range []ordermodel.Status{ordermodel.StatusRefunded, ordermodel.StatusFailed, ordermodel.StatusCancelled, ordermodel.StatusExpired} {
		assert.True(t, terminal.IsTerminal())
		assert.False(t, CanTransition(terminal, ordermodel.StatusPaid, true), terminal)
	}
}

func TestCreateRejectsDuplicateMallOrder(t *testing.T) {
	l, _ := newLedger(t)
	seed(t, l, "1001", ordermodel.StatusRequested)

	dup := &ordermodel.Order{ReferenceNo: "1002", OrderID: "order-1001", MallID: "demo", Currency: "PHP", RequestedAmount: "1.00"}
	err := l.Create(context.Background(), dup)
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderAlreadyExist))
}

func TestLookupsReturnOrderNotFound(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.GetByReference(ctx, "missing")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderNotFound))
	_, err = l.Get(ctx, "demo", "missing")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderNotFound))
	_, err = l.GetByOrderKey(ctx, "missing")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderNotFound))

	_, _, err = l.Transition(ctx, "missing", Change{Status: ordermodel.StatusPaid})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderNotFound))
}

func TestTransitionAppliesAllFieldsTogether(t *testing.T) {
	l, pub := newLedger(t)
	ctx := context.Background()
	seed(t, l, "2001", ordermodel.StatusPending)

	o, applied, err := l.Transition(ctx, "2001", Change{
		Status:             ordermodel.StatusPaid,
		PaidAmount:         str("3065.00"),
		PgOrderReferenceNo: str("pg-order-001"),
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, ordermodel.StatusPaid, o.Status)
	assert.Equal(t, "3065.00", o.PaidAmountOr(""))
	assert.Equal(t, "pg-order-001", o.PgOrderRef())
	assert.Equal(t, int64(1), o.Version)
	assert.Equal(t, "pg-demo-app", o.ExtraData["pgName"])

	require.Len(t, pub.events, 2)
	assert.Equal(t, "pending", pub.events[1].FromStatus)
	assert.Equal(t, "paid", pub.events[1].ToStatus)
}

func TestTransitionIsIdempotent(t *testing.T) {
	l, pub := newLedger(t)
	ctx := context.Background()
	seed(t, l, "3001", ordermodel.StatusPending)

	_, applied, err := l.Transition(ctx, "3001", Change{Status: ordermodel.StatusPaid, PaidAmount: str("3065.00")})
	require.NoError(t, err)
	require.True(t, applied)

	o, applied, err := l.Transition(ctx, "3001", Change{Status: ordermodel.StatusPaid, PaidAmount: str("1.00")})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, "3065.00", o.PaidAmountOr(""))
	assert.Len(t, pub.events, 2)
}

func TestTransitionRejectsBackwardMoves(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	seed(t, l, "4001", ordermodel.StatusPaid)

	_, _, err := l.Transition(ctx, "4001", Change{Status: ordermodel.StatusPending})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderStatusInvalid))

	_, _, err = l.Transition(ctx, "4001", Change{Status: ordermodel.StatusFailed})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderStatusInvalid))

	o, applied, err := l.Transition(ctx, "4001", Change{Status: ordermodel.StatusFailed, Rollback: true, PaidAmount: str("0.00")})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, ordermodel.StatusFailed, o.Status)
	assert.Equal(t, "0.00", o.PaidAmountOr(""))

	_, _, err = l.Transition(ctx, "4001", Change{Status: ordermodel.StatusPaid})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderStatusInvalid))
}

func TestRefundTransitions(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	seed(t, l, "5001", ordermodel.StatusPending)
	_, _, err := l.Transition(ctx, "5001", Change{RefundStatus: ordermodel.RefundPending})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderStatusInvalid), "refund needs a paid order")

	seed(t, l, "5002", ordermodel.StatusPaid)
	o, applied, err := l.Transition(ctx, "5002", Change{RefundStatus: ordermodel.RefundPending, RequestRefundAmount: str("3065.00")})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, ordermodel.RefundPending, *o.RefundStatus)
	assert.Equal(t, ordermodel.StatusPaid, o.Status)

	_, applied, err = l.Transition(ctx, "5002", Change{RefundStatus: ordermodel.RefundPending})
	require.NoError(t, err)
	assert.False(t, applied, "refund_pending on refund_pending is a no-op")

	o, applied, err = l.Transition(ctx, "5002", Change{
		Status:       ordermodel.StatusRefunded,
		RefundStatus: ordermodel.RefundDone,
		RefundAmount: str("3065.00"),
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, ordermodel.StatusRefunded, o.Status)
	assert.Equal(t, ordermodel.RefundDone, *o.RefundStatus)

	_, _, err = l.Transition(ctx, "5002", Change{RefundStatus: ordermodel.RefundRejected})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderStatusInvalid))

	seed(t, l, "5003", ordermodel.StatusPaid)
	o, applied, err = l.Transition(ctx, "5003", Change{RefundStatus: ordermodel.RefundRejected})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, ordermodel.StatusPaid, o.Status, "a rejected refund leaves the order paid")
}

func TestCancelNotificationURLFilledOnce(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	seed(t, l, "6001", ordermodel.StatusPaid)

	o, _, err := l.Transition(ctx, "6001", Change{RefundStatus: ordermodel.RefundPending, CancelNotificationURL: "https://mall.example/first"})
	require.NoError(t, err)
	assert.Equal(t, "https://mall.example/first", o.CancelNotificationURL)

	o, _, err = l.Transition(ctx, "6001", Change{RefundStatus: ordermodel.RefundDone, Status: ordermodel.StatusRefunded, CancelNotificationURL: "https://mall.example/second"})
	require.NoError(t, err)
	assert.Equal(t, "https://mall.example/first", o.CancelNotificationURL)
}

func TestConcurrentTransitionHasOneWinner(t *testing.T) {
	l, _ := newLedger(t)
	seed(t, l, "7001", ordermodel.StatusPaid)
	_, _, err := l.Transition(context.Background(), "7001", Change{RefundStatus: ordermodel.RefundPending})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		winners int32
		start   = make(chan struct{})
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, applied, err := l.Transition(context.Background(), "7001", Change{
				Status:       ordermodel.StatusRefunded,
				RefundStatus: ordermodel.RefundDone,
				RefundAmount: str("3065.00"),
			})
			assert.NoError(t, err)
			if applied {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), winners)
	o, err := l.GetByReference(context.Background(), "7001")
	require.NoError(t, err)
	assert.Equal(t, ordermodel.StatusRefunded, o.Status)
	assert.Equal(t, int64(2), o.Version)
}

func TestRedeliverReclaimsOnlyAfterFailedNotice(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	seed(t, l, "6001", ordermodel.StatusFailed)
	redeliver := Change{Status: ordermodel.StatusPaid, PaidAmount: str("3065.00"), Redeliver: true}

	// the mall took the last notice, failed stays final
	_, _, err := l.Transition(ctx, "6001", redeliver)
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderStatusInvalid))

	failed := int8(ordermodel.NotifyFailed)
	_, applied, err := l.Transition(ctx, "6001", Change{NotifyStatus: &failed})
	require.NoError(t, err)
	require.True(t, applied)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, err := l.Transition(ctx, "6001", redeliver); err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)

	o, err := l.GetByReference(ctx, "6001")
	require.NoError(t, err)
	assert.Equal(t, ordermodel.StatusPaid, o.Status)
	assert.Equal(t, "3065.00", o.PaidAmountOr(""))
	assert.Equal(t, ordermodel.NotifyPending, o.NotifyStatus)
}
