package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/gateway"
	"pg-bridge-api/internal/ledger"
	"pg-bridge-api/internal/mall"
	"pg-bridge-api/internal/merchant"
	mainmodel "pg-bridge-api/internal/model/main"
	ordermodel "pg-bridge-api/internal/model/order"
	"pg-bridge-api/internal/notify"
	"pg-bridge-api/internal/partner"
	"pg-bridge-api/internal/signature"
)

// Notifier delivers notices to Mall notification URLs.
type Notifier interface {
	Notify(ctx context.Context, target string, n notify.Notice) error
}

// Deps are the collaborators shared by the flow services.
type Deps struct {
	Ledger    *ledger.Ledger
	Merchants merchant.Store
	Gateway   gateway.Client
	Signer    *signature.Engine
	Notifier  Notifier
	Mall      mall.API
	// public base url of the bridge, used to build callback and webhook urls
	AppURL string
	Log    *logrus.Logger
}

func (d Deps) url(path string, query url.Values) string {
	u := strings.TrimRight(d.AppURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func credentials(m *mainmodel.Merchant) gateway.Credentials {
	pub, sec := m.Keys()
	return gateway.Credentials{PublicKey: pub, SecretKey: sec}
}

// checkoutGate resolves the partner id to a connected merchant whose shop has
// the gateway enabled.
func (d Deps) checkoutGate(ctx context.Context, partnerID string) (*mainmodel.Merchant, *mainmodel.Shop, error) {
	pid, err := partner.Decode(partnerID)
	if err != nil {
		return nil, nil, err
	}
	m, err := d.Merchants.Get(ctx, pid.MallID)
	if err != nil {
		return nil, nil, err
	}
	shop := m.ShopAt(pid.ShopIndex)
	if !m.PgConnected || shop == nil || !shop.PgEnabled {
		return nil, nil, constant.NewErrorf(constant.CodeGatewayNotEnabled, "mall %s shop %d has no gateway", pid.MallID, pid.ShopIndex)
	}
	return m, shop, nil
}

// parseAmount accepts a non-negative decimal string and leaves the caller the
// original text to store.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, constant.NewErrorf(constant.CodeOrderAmountInvalid, "amount %q is invalid", s)
	}
	return d, nil
}

// withQuery appends params to a url that may already carry a query string.
func withQuery(base string, params url.Values) string {
	if len(params) == 0 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + params.Encode()
}

func extraDataJSON(extra map[string]interface{}) string {
	if extra == nil {
		return "{}"
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func strPtr(s string) *string { return &s }

func int8Ptr(v int8) *int8 { return &v }

// notifyRollback undoes a transition the Mall never confirmed: the order ends
// failed with nothing paid. Final statuses only record the failed notice, so
// the change never reads as already applied.
func notifyRollback(status ordermodel.Status) ledger.Change {
	ch := ledger.Change{NotifyStatus: int8Ptr(ordermodel.NotifyFailed)}
	if status == ordermodel.StatusFailed || status == ordermodel.StatusCancelled || status == ordermodel.StatusExpired {
		return ch
	}
	ch.Status = ordermodel.StatusFailed
	ch.PaidAmount = strPtr("0.00")
	ch.Rollback = status == ordermodel.StatusPaid
	return ch
}
