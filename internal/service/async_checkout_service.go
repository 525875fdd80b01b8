package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	"pg-bridge-api/internal/gateway"
	"pg-bridge-api/internal/idgen"
	"pg-bridge-api/internal/ledger"
	ordermodel "pg-bridge-api/internal/model/order"
	"pg-bridge-api/internal/notify"
	"pg-bridge-api/internal/signature"
)

const (
	asyncCallbackPath = "/api/asynchronous-checkout/checkout/callback"
	asyncWebhookPath  = "/api/asynchronous-checkout/checkout/webhook"
)

// AsyncCheckoutService 异步支付: 浏览器回调只负责跳转, 结果以 PG webhook 为准
type AsyncCheckoutService struct {
	Deps
}

func NewAsyncCheckoutService(d Deps) *AsyncCheckoutService {
	return &AsyncCheckoutService{Deps: d}
}

func (s *AsyncCheckoutService) CreateCheckout(ctx context.Context, req dto.CheckoutReq) (dto.CheckoutResp, error) {
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleAsyncCheckout, "order_id": req.OrderID, "partner_id": req.PartnerID})

	if err := s.Signer.VerifyCheckout(signature.CheckoutFields{
		Amount: req.Amount, Currency: req.Currency, OrderID: req.OrderID, PartnerID: req.PartnerID,
	}, req.HashData); err != nil {
		entry.Warn("[ASYNC-CHECKOUT] hash_data mismatch")
		return dto.CheckoutResp{}, err
	}
	if _, err := parseAmount(req.Amount); err != nil {
		return dto.CheckoutResp{}, err
	}
	m, shop, err := s.checkoutGate(ctx, req.PartnerID)
	if err != nil {
		entry.WithError(err).Warn("[ASYNC-CHECKOUT] gate rejected")
		return dto.CheckoutResp{}, err
	}

	o := &ordermodel.Order{
		ReferenceNo:           idgen.NewString(),
		Flow:                  constant.ModuleAsyncCheckout,
		OrderID:               req.OrderID,
		MallID:                m.MallID,
		ShopNo:                shopNo(req.ShopNo, shop.ShopNo),
		PartnerID:             req.PartnerID,
		BuyerID:               req.BuyerID,
		BuyerIsGuest:          req.BuyerID == "",
		Currency:              req.Currency,
		RequestedAmount:       req.Amount,
		Status:                ordermodel.StatusRequested,
		ReturnURL:             req.ReturnURL,
		ReturnNotificationURL: req.ReturnNotyURL,
		ExtraData:             req.ExtraData,
	}
	if err := s.Ledger.Create(ctx, o); err != nil {
		return dto.CheckoutResp{}, err
	}

	res, err := s.Gateway.CreateCheckout(ctx, credentials(m), gateway.ModeAsyncCheckout, gateway.CheckoutRequest{
		ReferenceNo: o.ReferenceNo,
		Amount:      req.Amount,
		Currency:    req.Currency,
		CallbackURL: s.url(asyncCallbackPath, nil),
		WebhookURL:  s.url(asyncWebhookPath, nil),
	})
	if err != nil {
		entry.WithError(err).Error("[ASYNC-CHECKOUT] pg checkout failed")
		if _, _, ferr := s.Ledger.Transition(ctx, o.ReferenceNo, ledger.Change{Status: ordermodel.StatusFailed}); ferr != nil {
			entry.WithError(ferr).Warn("[ASYNC-CHECKOUT] could not mark order failed")
		}
		return dto.CheckoutResp{}, err
	}
	if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, ledger.Change{PgOrderReferenceNo: strPtr(res.ReferenceNo)}); err != nil {
		return dto.CheckoutResp{}, err
	}

	entry.WithFields(logrus.Fields{"reference_no": o.ReferenceNo, "pg_reference_no": res.ReferenceNo}).Info("[ASYNC-CHECKOUT] checkout created")
	return dto.CheckoutResp{
		ResultCode:    constant.ResultSuccess,
		ResultMessage: "Successfully created checkout",
		PaymentURL:    res.RedirectURI,
	}, nil
}

// HandleCallback redirects the buyer based on the status the PG reports now;
// the inbound status parameter is only logged. The ledger is left to the webhook.
func (s *AsyncCheckoutService) HandleCallback(ctx context.Context, req dto.AsyncCallbackReq) (dto.Redirect, error) {
	if strings.TrimSpace(req.ReferenceNo) == "" {
		return dto.Redirect{}, constant.NewErrorf(constant.CodeInvalidRequest, "reference_no is required")
	}
	o, err := s.Ledger.GetByReference(ctx, req.ReferenceNo)
	if err != nil {
		return dto.Redirect{}, err
	}
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleAsyncCheckout, "reference_no": o.ReferenceNo, "claimed_status": req.Status})
	back := func(code, message string) dto.Redirect {
		return dto.Redirect{Location: withQuery(o.ReturnURL, url.Values{
			"result_code":    {code},
			"result_message": {message},
			"extra_data":     {extraDataJSON(o.ExtraData)},
		})}
	}

	m, err := s.Merchants.Get(ctx, o.MallID)
	if err != nil {
		entry.WithError(err).Warn("[ASYNC-CHECKOUT] merchant missing on callback")
		return back(constant.ResultInvalidRequest, "Cancelled"), nil
	}
	pgRef := o.PgOrderRef()
	if pgRef == "" {
		pgRef = o.ReferenceNo
	}
	snap, err := s.Gateway.GetOrder(ctx, credentials(m), gateway.ModeAsyncCheckout, pgRef)
	if err != nil {
		entry.WithError(err).Warn("[ASYNC-CHECKOUT] pg order lookup failed")
		return back(constant.ResultInvalidRequest, "Cancelled"), nil
	}
	if snap.RawStatus != req.Status {
		entry.WithField("pg_status", snap.RawStatus).Info("[ASYNC-CHECKOUT] callback status differs from pg")
	}
	switch snap.RawStatus {
	case "P", "S":
		return back(constant.ResultSuccess, "Success"), nil
	case "F":
		return back(constant.ResultFailed, "Failed"), nil
	default:
		return back(constant.ResultInvalidRequest, "Cancelled"), nil
	}
}

// HandleWebhook records the PG's payment outcome and forwards it to the Mall.
// Only the delivery that applies the transition notifies; a rejected notice
// rolls the order back to failed and a later redelivery notifies again.
func (s *AsyncCheckoutService) HandleWebhook(ctx context.Context, req dto.PaymentWebhookReq) (dto.MessageResp, error) {
	if req.ReferenceID == "" || req.OrderCode == "" || req.Status == "" || req.Amount == "" || req.Currency == "" {
		return dto.MessageResp{}, constant.NewErrorf(constant.CodeInvalidRequest, "webhook is missing fields")
	}
	o, err := s.Ledger.GetByReference(ctx, req.ReferenceID)
	if err != nil {
		return dto.MessageResp{}, err
	}
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleAsyncCheckout, "reference_no": o.ReferenceNo, "order_id": o.OrderID, "pg_status": req.Status})
	m, err := s.Merchants.Get(ctx, o.MallID)
	if err != nil {
		return dto.MessageResp{}, err
	}
	_, secret := m.Keys()
	if err := s.Signer.VerifyWebhook(signature.WebhookFields{
		ReferenceID: req.ReferenceID, OrderCode: req.OrderCode, Status: req.Status, Amount: req.Amount, Currency: req.Currency,
	}, secret, req.Digest); err != nil {
		entry.Warn("[ASYNC-CHECKOUT] webhook digest mismatch")
		return dto.MessageResp{}, err
	}
	status, err := ledger.MapCheckoutStatus(req.Status)
	if err != nil {
		return dto.MessageResp{}, err
	}

	paid := status == ordermodel.StatusPaid
	amount := "0"
	ch := ledger.Change{Status: status, PgOrderReferenceNo: strPtr(req.OrderCode), PaidAmount: strPtr("0.00")}
	if paid {
		amount = req.Amount
		ch.PaidAmount = strPtr(req.Amount)
	}
	cur, applied, err := s.Ledger.Transition(ctx, o.ReferenceNo, ch)
	if (err == nil && !applied) || constant.CodeOf(err) == constant.CodeOrderStatusInvalid {
		if cur != nil && cur.NotifyStatus == ordermodel.NotifyFailed {
			// the mall never took the last notice; this delivery tries again
			ch.Redeliver = true
			_, applied, err = s.Ledger.Transition(ctx, o.ReferenceNo, ch)
		}
	}
	if err != nil {
		if constant.CodeOf(err) == constant.CodeOrderStatusInvalid {
			entry.WithError(err).Info("[ASYNC-CHECKOUT] webhook for a settled order, ignored")
			return dto.MessageResp{Message: "Success webhook"}, nil
		}
		return dto.MessageResp{}, err
	}
	if !applied {
		entry.Info("[ASYNC-CHECKOUT] duplicate webhook, already applied")
		return dto.MessageResp{Message: "Success webhook"}, nil
	}

	code := constant.ResultInvalidRequest
	if paid {
		code = constant.ResultSuccess
	}
	nerr := s.Notifier.Notify(ctx, o.ReturnNotificationURL, notify.PaymentNotice{
		PartnerID:     o.PartnerID,
		TID:           req.OrderCode,
		Amount:        amount,
		OrderID:       o.OrderID,
		Currency:      req.Currency,
		Paid:          paid,
		ExtraData:     o.ExtraData,
		ResultCode:    code,
		ResultMessage: req.Message,
	})
	if nerr != nil {
		if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, notifyRollback(status)); err != nil {
			entry.WithError(err).Error("[ASYNC-CHECKOUT] rollback after failed notice did not apply")
		}
		return dto.MessageResp{}, nerr
	}
	if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, ledger.Change{NotifyStatus: int8Ptr(ordermodel.NotifySuccess)}); err != nil {
		entry.WithError(err).Warn("[ASYNC-CHECKOUT] could not record notify status")
	}
	entry.WithField("status", status).Info("[ASYNC-CHECKOUT] webhook applied and mall notified")
	return dto.MessageResp{Message: "Success webhook"}, nil
}
