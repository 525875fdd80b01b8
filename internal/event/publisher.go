package event

import "time"

const TopicOrderStatus = "order.status"

type Publisher interface {
	Publish(topic string, msg any) error
}

// OrderStatusEvent is emitted once per applied ledger transition.
type OrderStatusEvent struct {
	ReferenceNo  string    `json:"reference_no"`
	OrderID      string    `json:"order_id"`
	MallID       string    `json:"mall_id"`
	Flow         string    `json:"flow"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	RefundStatus string    `json:"refund_status,omitempty"`
	Version      int64     `json:"version"`
	TraceID      string    `json:"trace_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NopPublisher drops every event; used when rabbitmq is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }
