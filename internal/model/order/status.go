package ordermodel

// Status is the canonical order state.
type Status string

const (
	StatusRequested  Status = "requested"
	StatusPending    Status = "pending"
	StatusAuthorized Status = "authorized"
	StatusPaid       Status = "paid"
	StatusRefunded   Status = "refunded"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusExpired    Status = "expired"
)

// RefundStatus tracks the refund side without touching Status until the PG settles it.
type RefundStatus string

const (
	RefundPending  RefundStatus = "refund_pending"
	RefundDone     RefundStatus = "refunded"
	RefundRejected RefundStatus = "refund_rejected"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusRefunded, StatusFailed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}
