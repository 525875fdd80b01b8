package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/config"
	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/utils"
)

// HTTPClient talks to the PG REST API.
//
//	POST /checkouts
//	GET  /orders/{ref}
//	POST /orders/{ref}/pay
//	POST /orders/{ref}/refunds
//
// Only GetOrder is retried; the POSTs are not idempotent on the PG side.
type HTTPClient struct {
	baseURL    string
	http       *http.Client
	maxRetries int
	interval   time.Duration
	log        *logrus.Logger
}

func NewHTTPClient(cfg config.UpstreamCfg, log *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.ApiUrl, "/"),
		http:       &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		maxRetries: cfg.MaxRetries,
		interval:   time.Duration(cfg.RetryIntervalMs) * time.Millisecond,
		log:        log,
	}
}

// envelope is the PG's common answer shape; code mirrors the HTTP status.
type envelope struct {
	Code    utils.StringOrNumber `json:"code"`
	Message utils.FlexibleMsg    `json:"message"`
}

func (c *HTTPClient) CreateCheckout(ctx context.Context, creds Credentials, mode Mode, req CheckoutRequest) (*CheckoutResult, error) {
	var out CheckoutResult
	if err := c.call(ctx, creds, mode, http.MethodPost, "/checkouts", req, &out); err != nil {
		return nil, err
	}
	if out.RedirectURI == "" {
		return nil, constant.NewErrorf(constant.CodeGatewayError, "checkout response has no redirect_uri")
	}
	return &out, nil
}

func (c *HTTPClient) GetOrder(ctx context.Context, creds Credentials, mode Mode, referenceNo string) (*OrderSnapshot, error) {
	var out OrderSnapshot
	path := "/orders/" + url.PathEscape(referenceNo)
	err := utils.DoWithRetry(ctx, c.maxRetries, c.interval, func() error {
		return c.call(ctx, creds, mode, http.MethodGet, path, nil, &out)
	}, isTransient)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PayOrder(ctx context.Context, creds Credentials, mode Mode, referenceNo string, data PaymentData) (*PaymentResult, error) {
	var out PaymentResult
	if err := c.call(ctx, creds, mode, http.MethodPost, "/orders/"+url.PathEscape(referenceNo)+"/pay", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateRefund(ctx context.Context, creds Credentials, mode Mode, referenceNo string, req RefundRequest) (*RefundResult, error) {
	var out RefundResult
	if err := c.call(ctx, creds, mode, http.MethodPost, "/orders/"+url.PathEscape(referenceNo)+"/refunds", req, &out); err != nil {
		return nil, err
	}
	if out.RefundStatus == "" {
		return nil, constant.NewErrorf(constant.CodeGatewayError, "refund response has no refund_status")
	}
	return &out, nil
}

func (c *HTTPClient) call(ctx context.Context, creds Credentials, mode Mode, method, path string, body, out interface{}) error {
	headers := map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(creds.PublicKey+":"+creds.SecretKey)),
		"X-PG-Mode":     string(mode),
	}
	start := time.Now()
	raw, err := utils.DoJSON(ctx, c.http, method, c.baseURL+path, headers, body)
	fields := logrus.Fields{"method": method, "path": path, "mode": mode, "latency_ms": time.Since(start).Milliseconds()}
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("[PG] request failed")
		return mapError(err)
	}
	c.log.WithFields(fields).Info("[PG] request ok")

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return constant.Wrap(constant.CodeGatewayError, fmt.Errorf("malformed envelope: %w", err))
	}
	if env.Code != "" && env.Code != "200" && env.Code != "201" {
		return mapStatus(string(env.Code), env.Message.Text)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return constant.Wrap(constant.CodeGatewayError, fmt.Errorf("malformed body: %w", err))
	}
	return nil
}

func mapError(err error) error {
	var he *utils.HTTPError
	if errors.As(err, &he) {
		var env envelope
		_ = json.Unmarshal(he.Body, &env)
		return mapStatus(fmt.Sprint(he.StatusCode), env.Message.Text)
	}
	return constant.Wrap(constant.CodeGatewayError, err)
}

func mapStatus(code, message string) error {
	switch code {
	case "401":
		return constant.NewErrorf(constant.CodeGatewayInvalidCredentials, "pg: invalid credentials %s", message)
	case "404":
		return constant.NewErrorf(constant.CodeGatewayNotFound, "pg: order not found %s", message)
	case "422":
		return constant.NewErrorf(constant.CodeGatewayUnprocessable, "pg: unprocessable %s", message)
	default:
		return constant.NewErrorf(constant.CodeGatewayError, "pg: status %s %s", code, message)
	}
}

// isTransient keeps definitive PG answers out of the retry loop.
func isTransient(err error) bool {
	switch constant.CodeOf(err) {
	case constant.CodeGatewayInvalidCredentials, constant.CodeGatewayNotFound, constant.CodeGatewayUnprocessable:
		return false
	}
	return true
}
