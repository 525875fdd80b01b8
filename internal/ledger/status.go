package ledger

import (
	"strings"

	"pg-bridge-api/internal/constant"
	ordermodel "pg-bridge-api/internal/model/order"
)

// Mapping is the canonical meaning of one raw PG status code. Checkout codes set
// Status, refund codes set Refund, R sets both.
type Mapping struct {
	Status ordermodel.Status
	Refund ordermodel.RefundStatus
}

var rawStatus = map[string]Mapping{
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

// MapRawStatus is the single lookup from PG status codes to ledger states.
func MapRawStatus(raw string) (Mapping, error) {
	m, ok := rawStatus[strings.TrimSpace(raw)]
	if !ok {
		return Mapping{}, constant.NewErrorf(constant.CodeUnknownGatewayStatus, "unknown gateway status %q", raw)
	}
	return m, nil
}

// MapCheckoutStatus accepts only codes that describe the order itself.
func MapCheckoutStatus(raw string) (ordermodel.Status, error) {
	m, err := MapRawStatus(raw)
	if err != nil {
		return "", err
	}
	if m.Status == "" {
		return "", constant.NewErrorf(constant.CodeUnknownGatewayStatus, "status %q is not a checkout status", raw)
	}
	return m.Status, nil
}

// MapRefundStatus accepts only R, RP and RX.
func MapRefundStatus(raw string) (ordermodel.RefundStatus, error) {
	m, err := MapRawStatus(raw)
	if err != nil {
		return "", err
	}
	if m.Refund == "" {
		return "", constant.NewErrorf(constant.CodeUnknownGatewayStatus, "status %q is not a refund status", raw)
	}
	return m.Refund, nil
}

var forward = map[ordermodel.Status][]ordermodel.Status{
	ordermodel.StatusRequested: {
		ordermodel.StatusPending, ordermodel.StatusAuthorized, ordermodel.StatusPaid,
		ordermodel.StatusFailed, ordermodel.StatusCancelled, ordermodel.StatusExpired,
	},
	ordermodel.StatusPending: {
		ordermodel.StatusAuthorized, ordermodel.StatusPaid,
		ordermodel.StatusFailed, ordermodel.StatusCancelled, ordermodel.StatusExpired,
	},
	ordermodel.StatusAuthorized: {
		ordermodel.StatusPaid, ordermodel.StatusFailed, ordermodel.StatusCancelled, ordermodel.StatusExpired,
	},
	ordermodel.StatusPaid: {ordermodel.StatusRefunded},
}

// CanTransition reports whether from -> to is a forward edge. paid -> failed is
// only legal as the notify rollback.
func CanTransition(from, to ordermodel.Status, rollback bool) bool {
	if rollback && from == ordermodel.StatusPaid && to == ordermodel.StatusFailed {
		return true
	}
	for _, s := range forward[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionRefund: none -> any, refund_pending -> refunded | refund_rejected.
func CanTransitionRefund(from *ordermodel.RefundStatus, to ordermodel.RefundStatus) bool {
	if from == nil {
		return true
	}
	return *from == ordermodel.RefundPending && (to == ordermodel.RefundDone || to == ordermodel.RefundRejected)
}
