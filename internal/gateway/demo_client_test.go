package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-bridge-api/internal/constant"
)

func TestDemoClientRejectsForeignCredentials(t *testing.T) {
	d := NewDemoClient()
	_, err := d.GetOrder(context.Background(), Credentials{PublicKey: "x", SecretKey: "y"}, ModeSyncCheckout, "VALIDATION-ORDER")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeGatewayInvalidCredentials))

	_, err = d.GetOrder(context.Background(), demoCreds, ModeSyncCheckout, "VALIDATION-ORDER")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeGatewayNotFound))
}

func TestDemoClientRejectsUnsupportedCurrency(t *testing.T) {
	_, err := NewDemoClient().CreateCheckout(context.Background(), demoCreds, ModeSyncCheckout, CheckoutRequest{ReferenceNo: "1", Amount: "1.00", Currency: "EUR"})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeGatewayUnprocessable))
}

func TestDemoClientLifecycle(t *testing.T) {
	ctx := context.Background()
	d := NewDemoClient()

	res, err := d.CreateCheckout(ctx, demoCreds, ModeAsyncCheckout, CheckoutRequest{ReferenceNo: "bridge-1", Amount: "3065.00", Currency: "PHP"})
	require.NoError(t, err)
	assert.Equal(t, "pg-order-001", res.ReferenceNo)
	assert.Equal(t, "pg-order-001", d.PGCode("bridge-1"))

	snap, err := d.GetOrder(ctx, demoCreds, ModeAsyncCheckout, "bridge-1")
	require.NoError(t, err)
	assert.Equal(t, "P", snap.RawStatus)
	assert.Nil(t, snap.PaidAmount)

	_, err = d.CreateRefund(ctx, demoCreds, ModeAsyncRefund, "pg-order-001", RefundRequest{RefundAmount: "1.00"})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeGatewayUnprocessable), "unpaid orders cannot be refunded")

	require.NoError(t, d.Settle("pg-order-001", "S"))
	snap, err = d.GetOrder(ctx, demoCreds, ModeAsyncCheckout, "pg-order-001")
	require.NoError(t, err)
	assert.Equal(t, "3065.00", snap.Paid(""))

	_, err = d.CreateRefund(ctx, demoCreds, ModeSyncRefund, "pg-order-001", RefundRequest{RefundAmount: "9999.00"})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeGatewayUnprocessable))

	refund, err := d.CreateRefund(ctx, demoCreds, ModeAsyncRefund, "pg-order-001", RefundRequest{RefundAmount: "3065.00"})
	require.NoError(t, err)
	assert.Equal(t, "RP", refund.RefundStatus)
	assert.Equal(t, "pg-refund-001", refund.RefundCode)

	refund, err = d.CreateRefund(ctx, demoCreds, ModeSyncRefund, "pg-order-001", RefundRequest{RefundAmount: "3065.00"})
	require.NoError(t, err)
	assert.Equal(t, "R", refund.RefundStatus)
	require.NotNil(t, refund.RefundedAmount)
	assert.Equal(t, "3065.00", string(*refund.RefundedAmount))
}

func TestDemoClientExternalCheckout(t *testing.T) {
	ctx := context.Background()
	d := NewDemoClient()
	res, err := d.CreateCheckout(ctx, demoCreds, ModeExternalCheckout, CheckoutRequest{
		ReferenceNo: "bridge-2", Amount: "1900", Currency: "PHP",
		ReviewURL: "https://bridge/api/external-checkout/order/review?mall_id=demo&order_id=1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://bridge/api/external-checkout/order/review?mall_id=demo&order_id=1", res.RedirectURI)
	assert.Equal(t, DemoPublicKey, res.PublicKey)

	pay, err := d.PayOrder(ctx, demoCreds, ModeExternalCheckout, res.ReferenceNo, PaymentData{Amount: "8720.00"})
	require.NoError(t, err)
	assert.Equal(t, "S", pay.RawStatus)

	snap, err := d.GetOrder(ctx, demoCreds, ModeExternalCheckout, res.ReferenceNo)
	require.NoError(t, err)
	assert.Equal(t, "8720.00", snap.Paid(""))
}
