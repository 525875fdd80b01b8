package ordermodel

import "time"

// OrderEventLog is one applied ledger transition, written by the order.status consumer
// into the monthly shard tables pg_order_event_{YYYYMM}_p{n}.
type OrderEventLog struct {
	ID           uint64    `gorm:"primaryKey"`
	ReferenceNo  string    `gorm:"column:reference_no;type:varchar(32);index"`
	OrderID      string    `gorm:"column:order_id;type:varchar(64)"`
	MallID       string    `gorm:"column:mall_id;type:varchar(64)"`
	Flow         string    `gorm:"column:flow;type:varchar(32)"`
	FromStatus   string    `gorm:"column:from_status;type:varchar(32)"`
	ToStatus     string    `gorm:"column:to_status;type:varchar(32)"`
	RefundStatus string    `gorm:"column:refund_status;type:varchar(32)"`
	Version      int64     `gorm:"column:version"`
	TraceID      string    `gorm:"column:trace_id;type:varchar(64)"`
	OccurredAt   time.Time `gorm:"column:occurred_at"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
