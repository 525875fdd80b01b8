package signature

import "pg-bridge-api/internal/config"

// Engine binds the recipes to the bridge's pre-shared secrets.
type Engine struct {
	serviceKey       string
	clientServiceKey string
	clientID         string
}

func NewEngine(serviceKey, clientServiceKey, clientID string) *Engine {
	return &Engine{serviceKey: serviceKey, clientServiceKey: clientServiceKey, clientID: clientID}
}

func NewEngineFromConfig(c config.SecurityCfg) *Engine {
	return NewEngine(c.ServiceKey, c.ClientServiceKey, c.ClientID)
}

func (e *Engine) SignCheckout(f CheckoutFields) string {
	return Sign(CheckoutRequest, f.Fields(), e.serviceKey)
}

func (e *Engine) VerifyCheckout(f CheckoutFields, provided string) error {
	return Verify(CheckoutRequest, f.Fields(), e.serviceKey, provided)
}

func (e *Engine) SignRefund(f RefundFields) string {
	return Sign(RefundRequest, f.Fields(), e.serviceKey)
}

func (e *Engine) VerifyRefund(f RefundFields, provided string) error {
	return Verify(RefundRequest, f.Fields(), e.serviceKey, provided)
}

// SignWebhook is keyed by the merchant's PG secret, not a bridge secret.
func (e *Engine) SignWebhook(f WebhookFields, pgSecret string) string {
	return Sign(WebhookNotification, f.Fields(), pgSecret)
}

func (e *Engine) VerifyWebhook(f WebhookFields, pgSecret, digest string) error {
	return Verify(WebhookNotification, f.Fields(), pgSecret, digest)
}

// SignRefundWebhook is keyed by the merchant's PG secret, like SignWebhook.
func (e *Engine) SignRefundWebhook(f RefundWebhookFields, pgSecret string) string {
	return Sign(RefundNotification, f.Fields(), pgSecret)
}

func (e *Engine) VerifyRefundWebhook(f RefundWebhookFields, pgSecret, digest string) error {
	return Verify(RefundNotification, f.Fields(), pgSecret, digest)
}

func (e *Engine) SignStatusQuery(f StatusFields) string {
	return Sign(StatusQuery, f.Fields(), e.clientServiceKey)
}

func (e *Engine) SignPaymentNotice(f PaymentNoticeFields) string {
	return Sign(PaymentNotice, f.Fields(), e.serviceKey)
}

func (e *Engine) SignCancelNotice(f RefundFields) string {
	return Sign(CancellationNotice, f.Fields(), e.serviceKey)
}

// reservation key is client id + order id
func (e *Engine) SignReservation(f ReservationFields) string {
	return Sign(OrderReservation, f.Fields(), e.clientID+f.OrderID)
}

func (e *Engine) VerifyReservation(f ReservationFields, provided string) error {
	return Verify(OrderReservation, f.Fields(), e.clientID+f.OrderID, provided)
}

func (e *Engine) SignOrderRequest(f OrderRequestFields) string {
	return Sign(OrderRequest, f.Fields(), e.serviceKey)
}
