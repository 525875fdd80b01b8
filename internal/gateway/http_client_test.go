package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-bridge-api/internal/config"
	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/logger"
)

var demoCreds = Credentials{PublicKey: DemoPublicKey, SecretKey: DemoSecretKey}

func newTestClient(url string) *HTTPClient {
	return NewHTTPClient(config.UpstreamCfg{ApiUrl: url, TimeoutSec: 2, MaxRetries: 3, RetryIntervalMs: 1}, logger.Discard())
}

func TestHTTPClientCreateCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkouts", r.URL.Path)
		assert.Equal(t, string(ModeAsyncCheckout), r.Header.Get("X-PG-Mode"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, DemoPublicKey, user)
		assert.Equal(t, DemoSecretKey, pass)

		var req CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "3065.00", req.Amount)
		assert.Equal(t, "https://bridge/api/asynchronous-checkout/checkout/webhook", req.WebhookURL)

		_, _ = w.Write([]byte(`{"code":200,"reference_no":"pg-order-001","redirect_uri":"https://pg/checkout?o=1","order_status":"P"}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).CreateCheckout(context.Background(), demoCreds, ModeAsyncCheckout, CheckoutRequest{
		ReferenceNo: "1790", Amount: "3065.00", Currency: "PHP",
		WebhookURL: "https://bridge/api/asynchronous-checkout/checkout/webhook",
	})
	require.NoError(t, err)
	assert.Equal(t, "pg-order-001", res.ReferenceNo)
	assert.Equal(t, "https://pg/checkout?o=1", res.RedirectURI)
}

func TestHTTPClientErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		code   int
	}{
		{"401", http.StatusUnauthorized, `{"code":401,"message":"Invalid credentials"}`, constant.CodeGatewayInvalidCredentials},
		{"404", http.StatusNotFound, `{"code":404}`, constant.CodeGatewayNotFound},
		{"422", http.StatusUnprocessableEntity, `{}`, constant.CodeGatewayUnprocessable},
		{"500", http.StatusInternalServerError, `oops`, constant.CodeGatewayError},
		{"envelope code", http.StatusOK, `{"code":"401","message":"Invalid credentials"}`, constant.CodeGatewayInvalidCredentials},
		{"malformed", http.StatusOK, `not json`, constant.CodeGatewayError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).PayOrder(context.Background(), demoCreds, ModeExternalCheckout, "pg-order-001", PaymentData{})
			assert.ErrorIs(t, err, constant.NewError(tc.code))
		})
	}
}

func TestHTTPClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).CreateRefund(context.Background(), demoCreds, ModeSyncRefund, "pg-order-001", RefundRequest{RefundAmount: "1.00"})
	assert.ErrorIs(t, err, constant.NewError(constant.CodeGatewayError))
}

func TestHTTPClientGetOrderRetriesOnlyTransientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/orders/pg-order-001", r.URL.Path)
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"reference_no":"pg-order-001","order_status":"S","paid_amount":3065.00}`))
	}))
	defer srv.Close()

	snap, err := newTestClient(srv.URL).GetOrder(context.Background(), demoCreds, ModeSyncCheckout, "pg-order-001")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "S", snap.RawStatus)
	assert.Equal(t, "3065.00", snap.Paid(""))

	atomic.StoreInt32(&calls, 0)
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()
	_, err = newTestClient(notFound.URL).GetOrder(context.Background(), demoCreds, ModeSyncCheckout, "nope")
	assert.ErrorIs(t, err, constant.NewError(constant.CodeGatewayNotFound))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
