package mall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/config"
	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/utils"
)

// Client calls the Cafe24-style admin API with the mall's bearer token.
type Client struct {
	urlPattern string
	apiVersion string
	clientID   string
	tokens     TokenProvider
	http       *http.Client
	log        *logrus.Logger
}

func NewClient(cfg config.MallCfg, clientID string, tokens TokenProvider, log *logrus.Logger) *Client {
	return &Client{
		urlPattern: cfg.ApiUrlPattern,
		apiVersion: cfg.ApiVersion,
		clientID:   clientID,
		tokens:     tokens,
		http:       &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		log:        log,
	}
}

func (c *Client) base(mallID string) string {
	return fmt.Sprintf(c.urlPattern, mallID)
}

func (c *Client) CalculateOrder(ctx context.Context, mallID string, shopNo int, req CalculationRequest) (*Calculation, error) {
	body := map[string]interface{}{"shop_no": shopNo, "request": req}
	raw, err := c.call(ctx, mallID, http.MethodPost, "/admin/orders/calculation", body)
	if err != nil {
		return nil, err
	}
	var out struct {
		Calculation *Calculation `json:"calculation"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.Calculation == nil {
		return nil, constant.NewErrorf(constant.CodeMallAPIError, "malformed calculation response")
	}
	return out.Calculation, nil
}

func (c *Client) EnablePaymentGateway(ctx context.Context, mallID string, shopNo int, partnerID string) error {
	body := map[string]interface{}{
		"shop_no": shopNo,
		"request": map[string]string{"partner_id": partnerID, "membership_fee_type": "FREE"},
	}
	_, err := c.call(ctx, mallID, http.MethodPost, "/admin/paymentgateway", body)
	return err
}

func (c *Client) DisablePaymentGateway(ctx context.Context, mallID string, shopNo int) error {
	path := "/admin/paymentgateway/" + url.PathEscape(c.clientID) + "?shop_no=" + strconv.Itoa(shopNo)
	_, err := c.call(ctx, mallID, http.MethodDelete, path, nil)
	return err
}

func (c *Client) call(ctx context.Context, mallID, method, path string, body interface{}) ([]byte, error) {
	token, err := c.tokens.GetAccessToken(ctx, mallID)
	if err != nil {
		return nil, err
	}
	headers := map[string]string{
		"Authorization":        "Bearer " + token,
		"X-Cafe24-Api-Version": c.apiVersion,
	}
	raw, err := utils.DoJSON(ctx, c.http, method, c.base(mallID)+path, headers, body)
	entry := c.log.WithFields(logrus.Fields{"mall_id": mallID, "method": method, "path": path})
	if err != nil {
		entry.WithError(err).Warn("[MALL] request failed")
		var he *utils.HTTPError
		if errors.As(err, &he) {
			return nil, constant.NewErrorf(constant.CodeMallAPIError, "mall answered %d", he.StatusCode).WithData(he.StatusCode)
		}
		return nil, constant.Wrap(constant.CodeMallAPIError, err)
	}
	entry.Info("[MALL] request ok")
	return raw, nil
}

// StatusOf returns the Mall HTTP status carried by err, 0 when none.
func StatusOf(err error) int {
	var ce constant.Error
	if errors.As(err, &ce) && ce.Code() == constant.CodeMallAPIError {
		if s, ok := ce.Data().(int); ok {
			return s
		}
	}
	return 0
}
