package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	ordermodel "pg-bridge-api/internal/model/order"
	"pg-bridge-api/internal/signature"
)

func (h *harness) checkoutReq(orderID, amount, currency, partnerID string) dto.CheckoutReq {
	return dto.CheckoutReq{
		OrderID:       orderID,
		Amount:        amount,
		Currency:      currency,
		PartnerID:     partnerID,
		ShopNo:        1,
		ReturnURL:     mallReturnURL,
		ReturnNotyURL: mallNotyURL,
		ExtraData:     map[string]interface{}{"pgName": "pg-demo-app"},
		HashData: h.signer.SignCheckout(signature.CheckoutFields{
			Amount: amount, Currency: currency, OrderID: orderID, PartnerID: partnerID,
		}),
	}
}

func TestSyncCheckoutCreateCheckout(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncCheckoutService(h.deps)

	resp, err := svc.CreateCheckout(context.Background(), h.checkoutReq("20220519-0000029", "3065.00", "PHP", demoPartnerID))
	require.NoError(t, err)
	assert.Equal(t, constant.ResultSuccess, resp.ResultCode)
	assert.True(t, strings.HasPrefix(resp.PaymentURL, "https://dummy-pg/checkout/pg-order-001?key=sync-checkout:"), resp.PaymentURL)

	o, err := h.deps.Ledger.Get(context.Background(), "demo", "20220519-0000029")
	require.NoError(t, err)
	assert.Equal(t, ordermodel.StatusPending, o.Status)
	assert.Equal(t, "3065.00", o.RequestedAmount)
	assert.Equal(t, "pg-order-001", o.PgOrderRef())
	assert.Equal(t, "0.00", o.PaidAmountOr(""))
	assert.NotEmpty(t, o.OrderKey)
}

func TestSyncCheckoutRejects(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncCheckoutService(h.deps)

	bad := h.checkoutReq("o-1", "3065.00", "PHP", demoPartnerID)
	bad.HashData = "tampered"
	disabledShop := h.checkoutReq("o-2", "10.00", "PHP", "demo:1:"+"demo-app-public-key")
	unknownMall := h.checkoutReq("o-3", "10.00", "PHP", "nomall:0:key")
	malformed := h.checkoutReq("o-4", "10.00", "PHP", "demo")
	badAmount := h.checkoutReq("o-5", "ten", "PHP", demoPartnerID)

	cases := []struct {
		name string
		req  dto.CheckoutReq
		code int
	}{
		{"bad hmac", bad, constant.CodeAuthenticationFailed},
		{"shop without gateway", disabledShop, constant.CodeGatewayNotEnabled},
		{"unknown mall", unknownMall, constant.CodeMerchantNotFound},
		{"malformed partner", malformed, constant.CodeMalformedPartnerID},
		{"bad amount", badAmount, constant.CodeOrderAmountInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCheckout(context.Background(), tc.req)
			assert.Equal(t, tc.code, constant.CodeOf(err))
			_, gerr := h.deps.Ledger.Get(context.Background(), "demo", tc.req.OrderID)
			assert.ErrorIs(t, gerr, constant.NewError(constant.CodeOrderNotFound))
		})
	}
}

func TestSyncCheckoutPGFailureMarksOrderFailed(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncCheckoutService(h.deps)

	_, err := svc.CreateCheckout(context.Background(), h.checkoutReq("o-krw", "100", "KRW", demoPartnerID))
	assert.ErrorIs(t, err, constant.NewError(constant.CodeGatewayUnprocessable))

	o, err := h.deps.Ledger.Get(context.Background(), "demo", "o-krw")
	require.NoError(t, err)
	assert.Equal(t, ordermodel.StatusFailed, o.Status)
}

func TestSyncCheckoutCallbackAndStatus(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncCheckoutService(h.deps)
	ctx := context.Background()

	resp, err := svc.CreateCheckout(ctx, h.checkoutReq("20220519-0000029", "3065.00", "PHP", demoPartnerID))
	require.NoError(t, err)
	key := resp.PaymentURL[strings.Index(resp.PaymentURL, "key=")+len("key="):]
	o, err := h.deps.Ledger.Get(ctx, "demo", "20220519-0000029")
	require.NoError(t, err)

	before, err := svc.GetPaymentStatus(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, constant.ResultNotPaid, before.ResultCode)
	assert.Equal(t, "F", before.PayedTF)

	require.NoError(t, h.pg.Settle("pg-order-001", "S"))
	redirect, err := svc.HandleCallback(ctx, dto.SyncCallbackReq{ReferenceNo: o.ReferenceNo, OrderCode: "pg-order-001", Key: key})
	require.NoError(t, err)
	u, err := url.Parse(redirect.Location)
	require.NoError(t, err)
	assert.Equal(t, "demo.cafe24shop.com", u.Host)
	assert.Equal(t, constant.ResultSuccess, u.Query().Get("result_code"))
	assert.Equal(t, key, u.Query().Get("key"))
	assert.JSONEq(t, `{"pgName":"pg-demo-app"}`, u.Query().Get("extra_data"))

	after, err := svc.GetPaymentStatus(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, constant.ResultSuccess, after.ResultCode)
	assert.Equal(t, "T", after.PayedTF)
	assert.Equal(t, "3065.00", after.Amount)
	assert.Equal(t, "pg-order-001", after.TID)
	assert.Equal(t, h.signer.SignStatusQuery(signature.StatusFields{
		PaidAmount: "3065.00", Currency: "PHP", OrderID: "20220519-0000029", PartnerID: demoPartnerID, PgOrderReferenceNo: "pg-order-001",
	}), after.HashData)
}

func TestSyncCheckoutCallbackFailures(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncCheckoutService(h.deps)
	ctx := context.Background()

	_, err := svc.HandleCallback(ctx, dto.SyncCallbackReq{})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeInvalidRequest))
	_, err = svc.HandleCallback(ctx, dto.SyncCallbackReq{ReferenceNo: "404"})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderNotFound))

	_, err = svc.CreateCheckout(ctx, h.checkoutReq("o-fail", "50.00", "PHP", demoPartnerID))
	require.NoError(t, err)
	o, err := h.deps.Ledger.Get(ctx, "demo", "o-fail")
	require.NoError(t, err)
	require.NoError(t, h.pg.Settle(o.PgOrderRef(), "F"))

	redirect, err := svc.HandleCallback(ctx, dto.SyncCallbackReq{ReferenceNo: o.ReferenceNo})
	require.NoError(t, err)
	u, _ := url.Parse(redirect.Location)
	assert.Equal(t, constant.ResultInvalidRequest, u.Query().Get("result_code"))

	o, err = h.deps.Ledger.GetByReference(ctx, o.ReferenceNo)
	require.NoError(t, err)
	assert.Equal(t, ordermodel.StatusFailed, o.Status)
	assert.Equal(t, "0.00", o.PaidAmountOr(""))

	// unknown pg status still redirects
	require.NoError(t, h.pg.Settle(o.PgOrderRef(), "ZZ"))
	redirect, err = svc.HandleCallback(ctx, dto.SyncCallbackReq{ReferenceNo: o.ReferenceNo})
	require.NoError(t, err)
	u, _ = url.Parse(redirect.Location)
	assert.Equal(t, constant.ResultInvalidRequest, u.Query().Get("result_code"))
}

func TestSyncCheckoutCallbackIgnoresForeignOrderCode(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncCheckoutService(h.deps)
	ctx := context.Background()

	_, err := svc.CreateCheckout(ctx, h.checkoutReq("cheap", "1.00", "PHP", demoPartnerID))
	require.NoError(t, err)
	_, err = svc.CreateCheckout(ctx, h.checkoutReq("big", "99999.00", "PHP", demoPartnerID))
	require.NoError(t, err)
	cheap, err := h.deps.Ledger.Get(ctx, "demo", "cheap")
	require.NoError(t, err)
	big, err := h.deps.Ledger.Get(ctx, "demo", "big")
	require.NoError(t, err)
	require.NoError(t, h.pg.Settle(cheap.PgOrderRef(), "S"))

	redirect, err := svc.HandleCallback(ctx, dto.SyncCallbackReq{ReferenceNo: big.ReferenceNo, OrderCode: cheap.PgOrderRef()})
	require.NoError(t, err)
	u, err := url.Parse(redirect.Location)
	require.NoError(t, err)
	assert.Equal(t, constant.ResultInvalidRequest, u.Query().Get("result_code"))

	after, err := h.deps.Ledger.GetByReference(ctx, big.ReferenceNo)
	require.NoError(t, err)
	assert.Equal(t, ordermodel.StatusPending, after.Status)
	assert.Equal(t, big.PgOrderRef(), after.PgOrderRef())
	assert.Equal(t, "0.00", after.PaidAmountOr(""))

	// without order_code the stored pg order decides, and it is unpaid
	redirect, err = svc.HandleCallback(ctx, dto.SyncCallbackReq{ReferenceNo: big.ReferenceNo})
	require.NoError(t, err)
	u, _ = url.Parse(redirect.Location)
	assert.Equal(t, constant.ResultInvalidRequest, u.Query().Get("result_code"))
	after, err = h.deps.Ledger.GetByReference(ctx, big.ReferenceNo)
	require.NoError(t, err)
	assert.NotEqual(t, ordermodel.StatusPaid, after.Status)
	assert.Equal(t, big.PgOrderRef(), after.PgOrderRef())
}

func TestGetPaymentStatusKeyFormat(t *testing.T) {
	h := newHarness(t)
	svc := NewSyncCheckoutService(h.deps)

	_, err := svc.GetPaymentStatus(context.Background(), "no-colon")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeInvalidRequest))
	_, err = svc.GetPaymentStatus(context.Background(), "sync-checkout:unknown")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeOrderNotFound))
}
