package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-bridge-api/internal/constant"
)

func newTestEngine() *Engine {
	return NewEngine("test-service-key", "test-client-service", "client-id")
}

func TestSignCheckoutKnownVector(t *testing.T) {
	e := newTestEngine()
	got := e.SignCheckout(CheckoutFields{Amount: "3065.00", Currency: "PHP", OrderID: "X", PartnerID: "demo:0:key"})
	assert.Equal(t, "nrrcZjtoJUIZZCPHYzc9luaWNKxdocjxzX18NlhBoI8=", got)
}

func TestWebhookDigestKnownVector(t *testing.T) {
	e := newTestEngine()
	f := WebhookFields{ReferenceID: "Y", OrderCode: "pg-order-001", Status: "S", Amount: "100", Currency: "PHP"}
	assert.Equal(t, "b92ebe0e173c03bfec942d362a3d44a2aff03d3b", e.SignWebhook(f, "demo-app-secret-key"))
	assert.NoError(t, e.VerifyWebhook(f, "demo-app-secret-key", "b92ebe0e173c03bfec942d362a3d44a2aff03d3b"))
}

func TestReservationSignsJSONQuotedMessage(t *testing.T) {
	e := newTestEngine()
	f := ReservationFields{
		Total:                 1900,
		OrderID:               "20220513-0000079",
		ResponseTime:          "1652424242",
		ReturnNotificationURL: "https://mall.example/noty/ä",
	}
	assert.Equal(t, "ohrTbnX68nkNr+R4DYBaq0OxzWzqxVhj3/rGXVJVXr4=", e.SignReservation(f))
	assert.Equal(t, `"a/b"`, jsonQuote("a/b"))
}

func TestVerifyRejectsAnySingleMutatedField(t *testing.T) {
	e := newTestEngine()
	base := RefundFields{CancelAmount: "3065.00", Currency: "PHP", OrderID: "X", PartnerID: "demo:0:key", TID: "pg-order-001"}
	sig := e.SignRefund(base)
	require.NoError(t, e.VerifyRefund(base, sig))

	mutations := map[string]func(f *RefundFields){
		"cancel_amount": func(f *RefundFields) { f.CancelAmount = "3065.0" },
		"currency":      func(f *RefundFields) { f.Currency = "USD" },
		"order_id":      func(f *RefundFields) { f.OrderID = "Y" },
		"partner_id":    func(f *RefundFields) { f.PartnerID = "demo:1:key" },
		"tid":           func(f *RefundFields) { f.TID = "pg-order-002" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			f := base
			mutate(&f)
			err := e.VerifyRefund(f, sig)
			assert.ErrorIs(t, err, constant.NewError(constant.CodeAuthenticationFailed))
		})
	}
}

func TestRecipesAreDistinct(t *testing.T) {
	e := newTestEngine()
	fields := []string{"100", "PHP", "X", "demo:0:key", "tid"}
	refund := Sign(RefundRequest, fields, "k")
	notice := Sign(PaymentNotice, fields, "k")
	// same algorithm, same key, same fields: identical by construction
	assert.Equal(t, refund, notice)

	status := e.SignStatusQuery(StatusFields{PaidAmount: "100", Currency: "PHP", OrderID: "X", PartnerID: "demo:0:key", PgOrderReferenceNo: "tid"})
	cancel := e.SignCancelNotice(RefundFields{CancelAmount: "100", Currency: "PHP", OrderID: "X", PartnerID: "demo:0:key", TID: "tid"})
	assert.NotEqual(t, status, cancel, "status query is keyed by the client service key")

	webhook := e.SignWebhook(WebhookFields{ReferenceID: "1", OrderCode: "pg-order-001", Status: "R", Amount: "100"}, "pg-secret")
	refund = e.SignRefundWebhook(RefundWebhookFields{ReferenceNo: "1", RefundCode: "pg-refund-001", RefundStatus: "R", RefundAmount: "100"}, "pg-secret")
	assert.NotEqual(t, webhook, refund, "payment webhook also signs currency")
	assert.NoError(t, e.VerifyRefundWebhook(RefundWebhookFields{ReferenceNo: "1", RefundCode: "pg-refund-001", RefundStatus: "R", RefundAmount: "100"}, "pg-secret", refund))
	assert.ErrorIs(t, e.VerifyRefundWebhook(RefundWebhookFields{ReferenceNo: "1", RefundCode: "pg-refund-001", RefundStatus: "R", RefundAmount: "3065"}, "pg-secret", refund),
		constant.NewError(constant.CodeAuthenticationFailed))
}

func TestVerifyEmptySignature(t *testing.T) {
	e := newTestEngine()
	err := e.VerifyCheckout(CheckoutFields{Amount: "1"}, "")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeAuthenticationFailed))
}
