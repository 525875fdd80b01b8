package signature

import "strconv"

// CheckoutFields amount + currency + order_id + partner_id
type CheckoutFields struct {
	Amount    string
	Currency  string
	OrderID   string
	PartnerID string
}

func (f CheckoutFields) Fields() []string {
	return []string{f.Amount, f.Currency, f.OrderID, f.PartnerID}
}

// RefundFields cancel_amount + currency + order_id + partner_id + tid.
// The cancelnoty notice signs the same sequence.
type RefundFields struct {
	CancelAmount string
	Currency     string
	OrderID      string
	PartnerID    string
	TID          string
}

func (f RefundFields) Fields() []string {
	return []string{f.CancelAmount, f.Currency, f.OrderID, f.PartnerID, f.TID}
}

// WebhookFields reference_id:order_code:status:amount:currency, pg secret appended by Sign.
type WebhookFields struct {
	ReferenceID string
	OrderCode   string
	Status      string
	Amount      string
	Currency    string
}

func (f WebhookFields) Fields() []string {
	return []string{f.ReferenceID, f.OrderCode, f.Status, f.Amount, f.Currency}
}

// RefundWebhookFields reference_no:refund_code:refund_status:refund_amount, pg secret appended by Sign.
type RefundWebhookFields struct {
	ReferenceNo  string
	RefundCode   string
	RefundStatus string
	RefundAmount string
}

func (f RefundWebhookFields) Fields() []string {
	return []string{f.ReferenceNo, f.RefundCode, f.RefundStatus, f.RefundAmount}
}

// StatusFields paid_amount + currency + order_id + partner_id + pg_order_reference_no
type StatusFields struct {
	PaidAmount         string
	Currency           string
	OrderID            string
	PartnerID          string
	PgOrderReferenceNo string
}

func (f StatusFields) Fields() []string {
	return []string{f.PaidAmount, f.Currency, f.OrderID, f.PartnerID, f.PgOrderReferenceNo}
}

// PaymentNoticeFields amount + currency + order_id + partner_id + tid
type PaymentNoticeFields struct {
	Amount    string
	Currency  string
	OrderID   string
	PartnerID string
	TID       string
}

func (f PaymentNoticeFields) Fields() []string {
	return []string{f.Amount, f.Currency, f.OrderID, f.PartnerID, f.TID}
}

// ReservationFields total + order_id + response_time + return_notification_url.
// Total is the bridge-computed integer amount, never a client supplied one.
type ReservationFields struct {
	Total                 int64
	OrderID               string
	ResponseTime          string
	ReturnNotificationURL string
}

func (f ReservationFields) Fields() []string {
	return []string{strconv.FormatInt(f.Total, 10), f.OrderID, f.ResponseTime, f.ReturnNotificationURL}
}

// OrderRequestFields mall_id + request_time + client_key + member_id
type OrderRequestFields struct {
	MallID      string
	RequestTime string
	ClientKey   string
	MemberID    string
}

func (f OrderRequestFields) Fields() []string {
	return []string{f.MallID, f.RequestTime, f.ClientKey, f.MemberID}
}
