package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/config"
	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/health"
	"pg-bridge-api/internal/signature"
	"pg-bridge-api/internal/utils"
)

type ack struct {
	Result string `json:"result"`
}

// Dispatcher posts signed notices to Mall noty URLs.
type Dispatcher struct {
	signer     *signature.Engine
	http       *http.Client
	maxRetries int
	interval   time.Duration
	alerter    Alerter
	health     *health.Tracker
	log        *logrus.Logger
}

func NewDispatcher(signer *signature.Engine, cfg config.NotifyCfg, alerter Alerter, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		signer:     signer,
		http:       &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		maxRetries: cfg.MaxRetries,
		interval:   time.Duration(cfg.RetryIntervalMs) * time.Millisecond,
		alerter:    alerter,
		log:        log,
	}
}

// WithHealth makes the dispatcher feed transport outcomes per Mall host into t
// and alert when a host degrades.
func (d *Dispatcher) WithHealth(t *health.Tracker) *Dispatcher {
	d.health = t
	return d
}

// Notify delivers n to target. Transport failures are retried, a delivered
// answer other than {"result":"OK"} is NotifyRejected and is final.
func (d *Dispatcher) Notify(ctx context.Context, target string, n Notice) error {
	form := n.form(d.signer)
	entry := d.log.WithFields(logrus.Fields{"kind": n.Kind(), "order_id": n.OrderRef(), "url": target})

	if strings.TrimSpace(target) == "" {
		err := constant.NewErrorf(constant.CodeNotifyTransportError, "no notification url for order %s", n.OrderRef())
		d.fail(ctx, entry, n, target, err)
		return err
	}

	var body []byte
	err := utils.DoWithRetry(ctx, d.maxRetries, d.interval, func() error {
		b, err := utils.PostForm(ctx, d.http, target, form)
		if err != nil {
			return constant.Wrap(constant.CodeNotifyTransportError, err)
		}
		body = b
		return nil
	})
	if err != nil {
		if constant.CodeOf(err) != constant.CodeNotifyTransportError {
			err = constant.Wrap(constant.CodeNotifyTransportError, err)
		}
		d.record(ctx, entry, target, false)
		d.fail(ctx, entry, n, target, err)
		return err
	}
	d.record(ctx, entry, target, true)

	var a ack
	if jerr := json.Unmarshal(body, &a); jerr != nil || a.Result != "OK" {
		err := constant.NewErrorf(constant.CodeNotifyRejected, "mall answered %q", truncate(string(body), 200))
		d.fail(ctx, entry, n, target, err)
		return err
	}
	entry.Info("[NOTIFY] ✅ mall acknowledged")
	return nil
}

func (d *Dispatcher) fail(ctx context.Context, entry *logrus.Entry, n Notice, target string, err error) {
	entry.WithError(err).Error("[NOTIFY] ❌ notification failed")
	if d.alerter == nil {
		return
	}
	d.alerter.Alert(ctx, "Mall notification failed", map[string]string{
		"kind":     n.Kind(),
		"order_id": n.OrderRef(),
		"url":      target,
		"error":    err.Error(),
	})
}

// record counts reachability only; a Mall that answers, even with a rejection,
// is a healthy host.
func (d *Dispatcher) record(ctx context.Context, entry *logrus.Entry, target string, delivered bool) {
	if d.health == nil {
		return
	}
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return
	}
	rate, tripped, err := d.health.Record(ctx, u.Host, delivered)
	if err != nil {
		entry.WithError(err).Warn("[NOTIFY] health update failed")
		return
	}
	if !tripped {
		return
	}
	entry.WithField("rate", rate).Warn("[NOTIFY] mall host degraded")
	if d.alerter != nil {
		d.alerter.Alert(ctx, "Mall notification host degraded", map[string]string{
			"host": u.Host,
			"rate": fmt.Sprintf("%.1f%%", rate),
		})
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
