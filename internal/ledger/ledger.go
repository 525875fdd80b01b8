package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dao"
	"pg-bridge-api/internal/event"
	ordermodel "pg-bridge-api/internal/model/order"
	"pg-bridge-api/internal/utils"
)

const defaultMaxAttempts = 5

// Change is one atomic edit of an order. Empty Status / RefundStatus keep the
// current value; nil pointers leave their column untouched.
type Change struct {
	Status       ordermodel.Status
	RefundStatus ordermodel.RefundStatus
	// Rollback permits paid -> failed after the Mall rejected the payment notice.
	Rollback bool
	// Redeliver reclaims an order whose last notice failed: it permits leaving
	// failed and resets notify_status to pending, so only one redelivery wins.
	Redeliver bool

	RequestedAmount      *string
	PaidAmount           *string
	RefundAmount         *string
	RequestRefundAmount  *string
	ShippingFee          *string
	PgOrderReferenceNo   *string
	PgPaymentReferenceNo *string
	PgRefundReferenceNo  *string
	// filled only while the stored value is empty
	CancelNotificationURL string
	NotifyStatus          *int8
}

func (c Change) movesState() bool {
	return c.Status != "" || c.RefundStatus != ""
}

// holds reports whether every state the change asks for is already in place.
func (c Change) holds(o *ordermodel.Order) bool {
	if !c.movesState() || c.reclaims(o) {
		return false
	}
	if c.Status != "" && o.Status != c.Status {
		return false
	}
	if c.RefundStatus != "" && (o.RefundStatus == nil || *o.RefundStatus != c.RefundStatus) {
		return false
	}
	return true
}

func (c Change) reclaims(o *ordermodel.Order) bool {
	return c.Redeliver && o.NotifyStatus == ordermodel.NotifyFailed
}

func (c Change) validate(o *ordermodel.Order) error {
	if c.Status != "" && c.Status != o.Status && !CanTransition(o.Status, c.Status, c.Rollback) &&
		!(c.reclaims(o) && o.Status == ordermodel.StatusFailed && CanTransition(ordermodel.StatusRequested, c.Status, false)) {
		return constant.NewErrorf(constant.CodeOrderStatusInvalid,
			"order %s cannot move from %s to %s", o.ReferenceNo, o.Status, c.Status)
	}
	if c.RefundStatus != "" && (o.RefundStatus == nil || *o.RefundStatus != c.RefundStatus) {
		if o.Status != ordermodel.StatusPaid {
			return constant.NewErrorf(constant.CodeOrderStatusInvalid,
				"order %s is %s, refunds need a paid order", o.ReferenceNo, o.Status)
		}
		if !CanTransitionRefund(o.RefundStatus, c.RefundStatus) {
			return constant.NewErrorf(constant.CodeOrderStatusInvalid,
				"order %s refund cannot move from %s to %s", o.ReferenceNo, *o.RefundStatus, c.RefundStatus)
		}
	}
	return nil
}

func (c Change) updates(o *ordermodel.Order) map[string]interface{} {
	u := map[string]interface{}{}
	if c.Status != "" {
		u["status"] = c.Status
	}
	if c.RefundStatus != "" {
		u["refund_status"] = c.RefundStatus
	}
	set := func(col string, v *string) {
		if v != nil {
			u[col] = *v
		}
	}
	set("requested_amount", c.RequestedAmount)
	set("paid_amount", c.PaidAmount)
	set("refund_amount", c.RefundAmount)
	set("request_refund_amount", c.RequestRefundAmount)
	set("shipping_fee", c.ShippingFee)
	set("pg_order_reference_no", c.PgOrderReferenceNo)
	set("pg_payment_reference_no", c.PgPaymentReferenceNo)
	set("pg_refund_reference_no", c.PgRefundReferenceNo)
	if c.CancelNotificationURL != "" && o.CancelNotificationURL == "" {
		u["cancel_notification_url"] = c.CancelNotificationURL
	}
	if c.NotifyStatus != nil {
		u["notify_status"] = *c.NotifyStatus
		u["notify_time"] = time.Now()
	} else if c.reclaims(o) {
		u["notify_status"] = ordermodel.NotifyPending
	}
	u["update_time"] = time.Now()
	return u
}

// Ledger is the single writer of pg_order. Every state change goes through
// Transition, which compares and swaps on the version column.
type Ledger struct {
	orders      *dao.OrderDao
	pub         event.Publisher
	log         *logrus.Logger
	maxAttempts int
}

func New(orders *dao.OrderDao, pub event.Publisher, log *logrus.Logger) *Ledger {
	if pub == nil {
		pub = event.NopPublisher{}
	}
	return &Ledger{orders: orders, pub: pub, log: log, maxAttempts: defaultMaxAttempts}
}

// Create stores a new order. (mall_id, order_id) must not exist yet.
func (l *Ledger) Create(ctx context.Context, o *ordermodel.Order) error {
	if o.ReferenceNo == "" || o.MallID == "" || o.OrderID == "" || o.Currency == "" || o.RequestedAmount == "" {
		return constant.NewErrorf(constant.CodeInvalidRequest, "order is missing reference, mall, order id, currency or amount")
	}
	if o.Status == "" {
		o.Status = ordermodel.StatusRequested
	}
	existing, err := l.orders.GetByOrderID(ctx, o.MallID, o.OrderID)
	if err != nil {
		return constant.Wrap(constant.CodeDatabaseError, err)
	}
	if existing != nil {
		return constant.NewErrorf(constant.CodeOrderAlreadyExist, "order %s already exists for mall %s", o.OrderID, o.MallID)
	}
	o.Version = 0
	if err := l.orders.Insert(ctx, o); err != nil {
		return constant.Wrap(constant.CodeDatabaseError, err)
	}
	l.publish(ctx, o, "")
	return nil
}

// Get looks an order up by mall and Mall order id.
func (l *Ledger) Get(ctx context.Context, mallID, orderID string) (*ordermodel.Order, error) {
	o, err := l.orders.GetByOrderID(ctx, mallID, orderID)
	return l.found(o, err, "order "+orderID)
}

func (l *Ledger) GetByReference(ctx context.Context, referenceNo string) (*ordermodel.Order, error) {
	if strings.TrimSpace(referenceNo) == "" {
		return nil, constant.NewErrorf(constant.CodeInvalidRequest, "reference_no is required")
	}
	o, err := l.orders.GetByReference(ctx, referenceNo)
	return l.found(o, err, "reference "+referenceNo)
}

func (l *Ledger) GetByOrderKey(ctx context.Context, orderKey string) (*ordermodel.Order, error) {
	if strings.TrimSpace(orderKey) == "" {
		return nil, constant.NewErrorf(constant.CodeInvalidRequest, "order key is required")
	}
	o, err := l.orders.GetByOrderKey(ctx, orderKey)
	return l.found(o, err, "order key "+orderKey)
}

func (l *Ledger) found(o *ordermodel.Order, err error, what string) (*ordermodel.Order, error) {
	if err != nil {
		return nil, constant.Wrap(constant.CodeDatabaseError, err)
	}
	if o == nil {
		return nil, constant.NewErrorf(constant.CodeOrderNotFound, "%s not found", what)
	}
	return o, nil
}

// Transition applies ch to the order identified by referenceNo.
//
// It returns applied=false with no error when the requested state already holds,
// including when a concurrent caller applied the same change first. Only the
// caller that gets applied=true may perform the side effects of the transition.
func (l *Ledger) Transition(ctx context.Context, referenceNo string, ch Change) (*ordermodel.Order, bool, error) {
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		cur, err := l.GetByReference(ctx, referenceNo)
		if err != nil {
			return nil, false, err
		}
		if ch.holds(cur) {
			return cur, false, nil
		}
		if err := ch.validate(cur); err != nil {
			return cur, false, err
		}

		won, err := l.orders.CompareAndSwap(ctx, referenceNo, cur.Version, ch.updates(cur))
		if err != nil {
			return cur, false, constant.Wrap(constant.CodeDatabaseError, err)
		}
		if !won {
			l.log.WithFields(logrus.Fields{"reference_no": referenceNo, "version": cur.Version, "attempt": attempt}).
				Info("[LEDGER] version moved, re-reading")
			continue
		}

		fresh, err := l.GetByReference(ctx, referenceNo)
		if err != nil {
			return nil, true, err
		}
		if ch.movesState() {
			l.publish(ctx, fresh, cur.Status)
		}
		return fresh, true, nil
	}
	return nil, false, constant.NewErrorf(constant.CodeOrderConflict, "order %s kept changing, gave up after %d attempts", referenceNo, l.maxAttempts)
}

func (l *Ledger) publish(ctx context.Context, o *ordermodel.Order, from ordermodel.Status) {
	e := event.OrderStatusEvent{
		ReferenceNo: o.ReferenceNo,
		OrderID:     o.OrderID,
		MallID:      o.MallID,
		Flow:        o.Flow,
		FromStatus:  string(from),
		ToStatus:    string(o.Status),
		Version:     o.Version,
		TraceID:     utils.TraceIDFrom(ctx),
		OccurredAt:  time.Now(),
	}
	if o.RefundStatus != nil {
		e.RefundStatus = string(*o.RefundStatus)
	}
	if err := l.pub.Publish(event.TopicOrderStatus, e); err != nil {
		l.log.WithError(err).WithField("reference_no", o.ReferenceNo).Warn("[LEDGER] publish order.status failed")
	}
}
