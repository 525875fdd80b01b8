package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-bridge-api/internal/config"
	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/health"
	"pg-bridge-api/internal/logger"
	"pg-bridge-api/internal/signature"
)

type recordingAlerter struct {
	mu     sync.Mutex
	titles []string
}

func (a *recordingAlerter) Alert(_ context.Context, title string, _ map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.titles = append(a.titles, title)
}

var signer = signature.NewEngine("test-service-key", "test-client-service-key", "client-id")

func newDispatcher(alerter Alerter) *Dispatcher {
	return NewDispatcher(signer, config.NotifyCfg{TimeoutSec: 2, MaxRetries: 3, RetryIntervalMs: 1}, alerter, logger.Discard())
}

func paymentNotice() PaymentNotice {
	return PaymentNotice{
		PartnerID:     "demo:0:demo-app-public-key",
		TID:           "pg-order-001",
		Amount:        "3065.00",
		OrderID:       "20220519-0000029",
		Currency:      "PHP",
		Paid:          true,
		ExtraData:     map[string]interface{}{"pgName": "pg-demo-app", "LogKey": "abc"},
		ResultCode:    constant.ResultSuccess,
		ResultMessage: "Order paid",
	}
}

func TestNotifySendsSignedForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("request_type"))
		assert.Equal(t, "T", r.PostForm.Get("payed_tf"))
		assert.Equal(t, "etc", r.PostForm.Get("paymethod"))
		assert.Equal(t, "pg-demo-app", r.PostForm.Get("extra_data[pgName]"))
		assert.Equal(t, "abc", r.PostForm.Get("extra_data[LogKey]"))
		assert.Equal(t, "0000", r.PostForm.Get("result_code"))

		want := signer.SignPaymentNotice(signature.PaymentNoticeFields{
			Amount: "3065.00", Currency: "PHP", OrderID: "20220519-0000029",
			PartnerID: "demo:0:demo-app-public-key", TID: "pg-order-001",
		})
		assert.Equal(t, want, r.PostForm.Get("hash_data"))
		_, _ = w.Write([]byte(`{"result":"OK"}`))
	}))
	defer srv.Close()

	alerts := &recordingAlerter{}
	require.NoError(t, newDispatcher(alerts).Notify(context.Background(), srv.URL, paymentNotice()))
	assert.Empty(t, alerts.titles)
}

func TestNotifyRejectedIsNotRetried(t *testing.T) {
	for _, body := range []string{`{"result":"FAIL"}`, `OK`, `{}`, ``} {
		t.Run(body, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			alerts := &recordingAlerter{}
			err := newDispatcher(alerts).Notify(context.Background(), srv.URL, paymentNotice())
			assert.ErrorIs(t, err, constant.NewError(constant.CodeNotifyRejected))
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
			assert.Len(t, alerts.titles, 1)
		})
	}
}

func TestNotifyTransportErrorIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newDispatcher(nil).Notify(context.Background(), srv.URL, paymentNotice())
	assert.ErrorIs(t, err, constant.NewError(constant.CodeNotifyTransportError))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNotifyAlertsWhenHostDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	alerts := &recordingAlerter{}
	tracker := health.NewTracker(health.NewMemoryStore(), health.SlidingStrategy{StepUp: 10, StepDown: 30}, 60, time.Minute)
	d := newDispatcher(alerts).WithHealth(tracker)
	for i := 0; i < 3; i++ {
		_ = d.Notify(context.Background(), srv.URL, paymentNotice())
	}

	// 100 -> 70 -> 40 trips on the second order, the third stays quiet
	assert.Equal(t, []string{
		"Mall notification failed",
		"Mall notification host degraded",
		"Mall notification failed",
		"Mall notification failed",
	}, alerts.titles)
}

func TestNotifyRecoversAfterTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"result":"OK"}`))
	}))
	defer srv.Close()

	require.NoError(t, newDispatcher(nil).Notify(context.Background(), srv.URL, paymentNotice()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNotifyWithoutURL(t *testing.T) {
	err := newDispatcher(nil).Notify(context.Background(), "", paymentNotice())
	assert.ErrorIs(t, err, constant.NewError(constant.CodeNotifyTransportError))
}

func TestCancelNoticeForm(t *testing.T) {
	n := CancelNotice{
		PartnerID: "demo:0:demo-app-public-key", TID: "pg-order-001", OrderID: "o-1",
		Currency: "PHP", CancelAmount: "3065.00", Refunded: false,
		ResultCode: constant.ResultInvalidRequest, ResultMessage: "Refund rejected",
	}
	form := n.form(signer)
	assert.Equal(t, "cancelnoty", form.Get("request_type"))
	assert.Equal(t, "F", form.Get("status"))
	assert.Equal(t, "9999", form.Get("result_code"))
	assert.Equal(t, signer.SignCancelNotice(signature.RefundFields{
		CancelAmount: "3065.00", Currency: "PHP", OrderID: "o-1", PartnerID: "demo:0:demo-app-public-key", TID: "pg-order-001",
	}), form.Get("hash_data"))

	n.Refunded = true
	assert.Equal(t, "P", n.form(signer).Get("status"))
}
