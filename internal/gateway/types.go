package gateway

import (
	"context"

	"pg-bridge-api/internal/utils"
)

// Mode selects the PG product a request belongs to.
type Mode string

const (
	ModeSyncCheckout     Mode = "synchronous-checkout"
	ModeAsyncCheckout    Mode = "asynchronous-checkout"
	ModeExternalCheckout Mode = "synchronous-external-checkout"
	ModeSyncRefund       Mode = "synchronous-refund"
	ModeAsyncRefund      Mode = "asynchronous-refund"
)

// Credentials are the merchant's PG key pair.
type Credentials struct {
	PublicKey string
	SecretKey string
}

type CheckoutRequest struct {
	ReferenceNo string `json:"reference_no"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	CallbackURL string `json:"callback_url,omitempty"`
	WebhookURL  string `json:"webhook_url,omitempty"`
	ReviewURL   string `json:"review_url,omitempty"`
	// external checkout: Mall return base and notification url
	ExtraField1 string `json:"extra_field_1,omitempty"`
	ExtraField2 string `json:"extra_field_2,omitempty"`
}

type CheckoutResult struct {
	ReferenceNo string `json:"reference_no"`
	RedirectURI string `json:"redirect_uri"`
	RawStatus   string `json:"order_status"`
	Signature   string `json:"signature,omitempty"`
	PublicKey   string `json:"public_key,omitempty"`
}

type ShippingAddress struct {
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	City        string `json:"city"`
	State       string `json:"state"`
	Name        string `json:"name"`
	Add1        string `json:"add_1"`
	Add2        string `json:"add_2"`
	Add3        string `json:"add_3"`
	Country     string `json:"country"`
	District    string `json:"district"`
	PhoneNumber string `json:"phone_number"`
}

type OrderSnapshot struct {
	ReferenceNo        string                `json:"reference_no"`
	RawStatus          string                `json:"order_status"`
	PaymentStatus      string                `json:"payment_status,omitempty"`
	PaidAmount         *utils.StringOrNumber `json:"paid_amount,omitempty"`
	PaymentReferenceNo string                `json:"payment_reference_no,omitempty"`
	Preference         string                `json:"preference,omitempty"`
	ShippingAddress    *ShippingAddress      `json:"shipping_address,omitempty"`
}

// Paid returns the paid amount reported by the PG, or def.
func (s *OrderSnapshot) Paid(def string) string {
	if s.PaidAmount == nil || *s.PaidAmount == "" {
		return def
	}
	return string(*s.PaidAmount)
}

type PaymentData struct {
	ReferenceNo        string `json:"reference_no"`
	PaymentReferenceNo string `json:"payment_reference_no"`
	RedirectURL        string `json:"redirect_url"`
	Amount             string `json:"amount"`
}

type PaymentResult struct {
	PaymentReferenceNo string `json:"payment_reference_no"`
	RedirectURL        string `json:"redirect_url"`
	RawStatus          string `json:"order_status,omitempty"`
}

type RefundRequest struct {
	MerchantReferenceNo string `json:"merchant_reference_no"`
	RefundAmount        string `json:"refund_amount"`
	Currency            string `json:"currency"`
	WebhookURL          string `json:"webhook_url,omitempty"`
}

type RefundResult struct {
	OrderCode       string                `json:"order_code"`
	RefundCode      string                `json:"refund_code"`
	RefundStatus    string                `json:"refund_status"`
	RequestedAmount utils.StringOrNumber  `json:"request_refund_amount"`
	RefundedAmount  *utils.StringOrNumber `json:"refunded_amount,omitempty"`
	Currency        string                `json:"currency"`
	Message         string                `json:"message,omitempty"`
}

// Client is the PG company's API as the bridge uses it.
type Client interface {
	CreateCheckout(ctx context.Context, creds Credentials, mode Mode, req CheckoutRequest) (*CheckoutResult, error)
	GetOrder(ctx context.Context, creds Credentials, mode Mode, referenceNo string) (*OrderSnapshot, error)
	PayOrder(ctx context.Context, creds Credentials, mode Mode, referenceNo string, data PaymentData) (*PaymentResult, error)
	CreateRefund(ctx context.Context, creds Credentials, mode Mode, referenceNo string, req RefundRequest) (*RefundResult, error)
}
