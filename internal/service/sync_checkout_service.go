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
	"pg-bridge-api/internal/signature"
)

const syncCallbackPath = "/api/synchronous-checkout/checkout/callback"

// SyncCheckoutService 同步支付: Mall 下单 -> PG 支付页 -> 回调跳转 -> Mall 查询结果
type SyncCheckoutService struct {
	Deps
}

func NewSyncCheckoutService(d Deps) *SyncCheckoutService {
	return &SyncCheckoutService{Deps: d}
}

// CreateCheckout stores a pending order and asks the PG for a payment page.
func (s *SyncCheckoutService) CreateCheckout(ctx context.Context, req dto.CheckoutReq) (dto.CheckoutResp, error) {
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleSyncCheckout, "order_id": req.OrderID, "partner_id": req.PartnerID})

	if err := s.Signer.VerifyCheckout(signature.CheckoutFields{
		Amount: req.Amount, Currency: req.Currency, OrderID: req.OrderID, PartnerID: req.PartnerID,
	}, req.HashData); err != nil {
		entry.Warn("[SYNC-CHECKOUT] hash_data mismatch")
		return dto.CheckoutResp{}, err
	}
	if _, err := parseAmount(req.Amount); err != nil {
		return dto.CheckoutResp{}, err
	}
	m, shop, err := s.checkoutGate(ctx, req.PartnerID)
	if err != nil {
		entry.WithError(err).Warn("[SYNC-CHECKOUT] gate rejected")
		return dto.CheckoutResp{}, err
	}

	orderKey := idgen.NewString()
	mallKey := constant.ModuleSyncCheckout + ":" + orderKey
	o := &ordermodel.Order{
		ReferenceNo:           idgen.NewString(),
		OrderKey:              orderKey,
		Flow:                  constant.ModuleSyncCheckout,
		OrderID:               req.OrderID,
		MallID:                m.MallID,
		ShopNo:                shopNo(req.ShopNo, shop.ShopNo),
		PartnerID:             req.PartnerID,
		BuyerID:               req.BuyerID,
		BuyerIsGuest:          req.BuyerID == "",
		Currency:              req.Currency,
		RequestedAmount:       req.Amount,
		PaidAmount:            strPtr("0.00"),
		Status:                ordermodel.StatusPending,
		ReturnURL:             req.ReturnURL,
		ReturnNotificationURL: req.ReturnNotyURL,
		ExtraData:             req.ExtraData,
	}
	if err := s.Ledger.Create(ctx, o); err != nil {
		return dto.CheckoutResp{}, err
	}

	res, err := s.Gateway.CreateCheckout(ctx, credentials(m), gateway.ModeSyncCheckout, gateway.CheckoutRequest{
		ReferenceNo: o.ReferenceNo,
		Amount:      req.Amount,
		Currency:    req.Currency,
		CallbackURL: s.url(syncCallbackPath, url.Values{"key": {mallKey}}),
	})
	if err != nil {
		entry.WithError(err).Error("[SYNC-CHECKOUT] pg checkout failed")
		if _, _, ferr := s.Ledger.Transition(ctx, o.ReferenceNo, ledger.Change{Status: ordermodel.StatusFailed}); ferr != nil {
			entry.WithError(ferr).Warn("[SYNC-CHECKOUT] could not mark order failed")
		}
		return dto.CheckoutResp{}, err
	}
	if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, ledger.Change{PgOrderReferenceNo: strPtr(res.ReferenceNo)}); err != nil {
		return dto.CheckoutResp{}, err
	}

	entry.WithFields(logrus.Fields{"reference_no": o.ReferenceNo, "pg_reference_no": res.ReferenceNo}).Info("[SYNC-CHECKOUT] checkout created")
	return dto.CheckoutResp{
		ResultCode:    constant.ResultSuccess,
		ResultMessage: "Successfully created checkout",
		PaymentURL:    res.RedirectURI + "?key=" + mallKey,
	}, nil
}

// HandleCallback re-reads the order from the PG, records the outcome and sends
// the buyer back to the Mall. Only a missing or unknown reference is an error;
// every other failure still redirects with 9999.
func (s *SyncCheckoutService) HandleCallback(ctx context.Context, req dto.SyncCallbackReq) (dto.Redirect, error) {
	if strings.TrimSpace(req.ReferenceNo) == "" {
		return dto.Redirect{}, constant.NewErrorf(constant.CodeInvalidRequest, "reference_no is required")
	}
	o, err := s.Ledger.GetByReference(ctx, req.ReferenceNo)
	if err != nil {
		return dto.Redirect{}, err
	}
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleSyncCheckout, "reference_no": o.ReferenceNo, "order_id": o.OrderID})
	key := req.Key
	if key == "" {
		key = constant.ModuleSyncCheckout + ":" + o.OrderKey
	}
	back := func(code, message string) dto.Redirect {
		return dto.Redirect{Location: withQuery(o.ReturnURL, url.Values{
			"result_code":    {code},
			"result_message": {message},
			"key":            {key},
			"extra_data":     {extraDataJSON(o.ExtraData)},
		})}
	}

	m, err := s.Merchants.Get(ctx, o.MallID)
	if err != nil {
		entry.WithError(err).Warn("[SYNC-CHECKOUT] merchant missing on callback")
		return back(constant.ResultInvalidRequest, "Admin not found"), nil
	}
	// the browser's order_code is only compared, never looked up
	pgRef := o.PgOrderRef()
	if req.OrderCode != "" && pgRef != "" && req.OrderCode != pgRef {
		entry.WithField("order_code", req.OrderCode).Warn("[SYNC-CHECKOUT] callback order_code does not match the order")
		return back(constant.ResultInvalidRequest, "PG order mismatch"), nil
	}
	if pgRef == "" {
		pgRef = o.ReferenceNo
	}
	snap, err := s.Gateway.GetOrder(ctx, credentials(m), gateway.ModeSyncCheckout, pgRef)
	if err != nil {
		entry.WithError(err).Warn("[SYNC-CHECKOUT] pg order lookup failed")
		return back(constant.ResultInvalidRequest, "PG order not found"), nil
	}
	status, err := ledger.MapCheckoutStatus(snap.RawStatus)
	if err != nil {
		entry.WithError(err).Warn("[SYNC-CHECKOUT] unknown pg status")
		return back(constant.ResultInvalidRequest, constant.PublicMessage(err)), nil
	}

	ch := ledger.Change{Status: status, PaidAmount: strPtr("0.00")}
	if o.PgOrderRef() == "" && snap.ReferenceNo != "" {
		ch.PgOrderReferenceNo = strPtr(snap.ReferenceNo)
	}
	if status == ordermodel.StatusPaid {
		ch.PaidAmount = strPtr(snap.Paid(o.RequestedAmount))
	}
	if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, ch); err != nil {
		entry.WithError(err).Warn("[SYNC-CHECKOUT] transition refused")
		return back(constant.ResultInvalidRequest, constant.PublicMessage(err)), nil
	}
	entry.WithField("status", status).Info("[SYNC-CHECKOUT] callback recorded")
	if status == ordermodel.StatusPaid {
		return back(constant.ResultSuccess, "Order paid"), nil
	}
	return back(constant.ResultInvalidRequest, "Order Not Successful"), nil
}

// GetPaymentStatus answers the Mall's result query for key = module:orderKey,
// signed over the values currently in the ledger.
func (s *SyncCheckoutService) GetPaymentStatus(ctx context.Context, key string) (dto.PaymentStatusResp, error) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return dto.PaymentStatusResp{}, constant.NewErrorf(constant.CodeInvalidRequest, "key %q is not module:orderKey", key)
	}
	o, err := s.Ledger.GetByOrderKey(ctx, parts[1])
	if err != nil {
		return dto.PaymentStatusResp{}, err
	}

	paid := o.Status == ordermodel.StatusPaid
	amount := o.PaidAmountOr("0.00")
	resp := dto.PaymentStatusResp{
		PartnerID:    o.PartnerID,
		PayMethod:    "etc",
		TID:          o.PgOrderRef(),
		Amount:       amount,
		OrderID:      o.OrderID,
		CancelMode:   "sync",
		AllCancelTF:  "T",
		PartCancelTF: "F",
		EscrowTF:     "F",
		Currency:     o.Currency,
		PayedTF:      "F",
		EasyPay:      "F",
		HashData: s.Signer.SignStatusQuery(signature.StatusFields{
			PaidAmount: amount, Currency: o.Currency, OrderID: o.OrderID, PartnerID: o.PartnerID, PgOrderReferenceNo: o.PgOrderRef(),
		}),
		ExtraData:     o.ExtraData,
		ResultCode:    constant.ResultNotPaid,
		ResultMessage: "Order failed",
	}
	if paid {
		resp.PayedTF = "T"
		resp.ResultCode = constant.ResultSuccess
		resp.ResultMessage = "Order paid"
	}
	return resp, nil
}

func shopNo(requested, stored int) int {
	if requested > 0 {
		return requested
	}
	return stored
}
