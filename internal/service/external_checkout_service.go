package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	"pg-bridge-api/internal/gateway"
	"pg-bridge-api/internal/idgen"
	"pg-bridge-api/internal/ledger"
	"pg-bridge-api/internal/mall"
	"pg-bridge-api/internal/merchant"
	mainmodel "pg-bridge-api/internal/model/main"
	ordermodel "pg-bridge-api/internal/model/order"
	"pg-bridge-api/internal/notify"
	"pg-bridge-api/internal/partner"
	"pg-bridge-api/internal/signature"
)

const (
	externalReviewPath   = "/api/external-checkout/order/review"
	externalCallbackPath = "/api/external-checkout/order/callback"
)

// ExternalCheckoutService 外部结账按钮: 买家在 bridge 的确认页完成支付后再通知 Mall
type ExternalCheckoutService struct {
	Deps
}

func NewExternalCheckoutService(d Deps) *ExternalCheckoutService {
	return &ExternalCheckoutService{Deps: d}
}

// ScriptData bootstraps the payment button on a shop.
func (s *ExternalCheckoutService) ScriptData(ctx context.Context, req dto.ScriptDataReq) (dto.ScriptData, error) {
	m, err := merchant.Connected(ctx, s.Merchants, req.MallID)
	if err != nil {
		return dto.ScriptData{}, err
	}
	shop := m.ShopByNo(req.ShopNo)
	if shop == nil {
		return dto.ScriptData{}, constant.NewErrorf(constant.CodeShopNotFound, "mall %s has no shop %d", req.MallID, req.ShopNo)
	}
	pub, _ := m.Keys()
	return dto.ScriptData{PublicKey: pub, ShopName: shop.ShopName, ShopCurrency: shop.CurrencyCode}, nil
}

func (s *ExternalCheckoutService) OrderRequestHmac(req dto.OrderRequestHmacReq) dto.OrderRequestHmac {
	return dto.OrderRequestHmac{HmacKey: s.Signer.SignOrderRequest(signature.OrderRequestFields{
		MallID: req.MallID, RequestTime: req.RequestTime, ClientKey: req.ClientKey, MemberID: req.MemberID,
	})}
}

// LineItemsTotal is Σ(int(price)·qty + int(option)·qty).
func LineItemsTotal(items []dto.PayloadItem) int64 {
	var total int64
	for _, it := range items {
		total += intPart(it.ProductPrice)*it.Quantity + intPart(it.OptionPrice)*it.Quantity
	}
	return total
}

// CreatePayload verifies the Mall reservation against the bridge-computed total
// and opens an external checkout at the PG.
func (s *ExternalCheckoutService) CreatePayload(ctx context.Context, req dto.PayloadReq) (*gateway.CheckoutResult, error) {
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleExternalCheckout, "mall_id": req.MallID, "order_id": req.OrderID})
	total := LineItemsTotal(req.Items)
	if err := s.Signer.VerifyReservation(signature.ReservationFields{
		Total: total, OrderID: req.OrderID, ResponseTime: req.ResponseTime, ReturnNotificationURL: req.ReturnNotificationURL,
	}, req.Hmac); err != nil {
		entry.WithField("total", total).Warn("[EXTERNAL-CHECKOUT] reservation hmac mismatch")
		return nil, err
	}
	m, err := merchant.Connected(ctx, s.Merchants, req.MallID)
	if err != nil {
		return nil, err
	}
	shop := m.ShopByNo(req.ShopNo)
	if shop == nil {
		return nil, constant.NewErrorf(constant.CodeShopNotFound, "mall %s has no shop %d", req.MallID, req.ShopNo)
	}
	if !shop.PgEnabled {
		return nil, constant.NewErrorf(constant.CodeGatewayNotEnabled, "mall %s shop %d has no gateway", req.MallID, req.ShopNo)
	}

	ref := idgen.NewString()
	amount := strconv.FormatInt(total, 10)
	res, err := s.Gateway.CreateCheckout(ctx, credentials(m), gateway.ModeExternalCheckout, gateway.CheckoutRequest{
		ReferenceNo: ref,
		Amount:      amount,
		Currency:    req.Currency,
		ReviewURL:   s.url(externalReviewPath, url.Values{"mall_id": {req.MallID}, "order_id": {req.OrderID}}),
		ExtraField1: req.ReturnURLBase,
		ExtraField2: req.ReturnNotificationURL,
	})
	if err != nil {
		entry.WithError(err).Error("[EXTERNAL-CHECKOUT] pg checkout failed")
		return nil, err
	}
	status, err := ledger.MapCheckoutStatus(res.RawStatus)
	if err != nil {
		return nil, err
	}

	pub, _ := m.Keys()
	items := make(ordermodel.LineItems, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ordermodel.LineItem{
			ProductNo: it.ProductNo, VariantCode: it.VariantCode, ProductName: it.ProductName,
			ProductPrice: it.ProductPrice, OptionPrice: it.OptionPrice, Quantity: it.Quantity,
			ShopNo: req.ShopNo, ShippingType: it.ShippingType, ProductBundle: it.ProductBundle,
			ProductBundleNo: it.ProductBundleNo, PrepaidShippingFee: it.PrepaidShippingFee,
		})
	}
	o := &ordermodel.Order{
		ReferenceNo:           ref,
		Flow:                  constant.ModuleExternalCheckout,
		OrderID:               req.OrderID,
		MallID:                m.MallID,
		ShopNo:                req.ShopNo,
		PartnerID:             partner.Encode(m.MallID, shop.ShopIndex, pub),
		BuyerID:               req.MemberID,
		BuyerIsGuest:          req.MemberID == "",
		Currency:              req.Currency,
		RequestedAmount:       amount,
		PaidAmount:            strPtr("0"),
		PgOrderReferenceNo:    strPtr(res.ReferenceNo),
		Status:                status,
		ReturnURL:             req.ReturnURLBase,
		ReturnNotificationURL: req.ReturnNotificationURL,
		LineItems:             items,
	}
	if err := s.Ledger.Create(ctx, o); err != nil {
		return nil, err
	}
	entry.WithFields(logrus.Fields{"reference_no": ref, "pg_reference_no": res.ReferenceNo, "total": amount}).Info("[EXTERNAL-CHECKOUT] payload created")
	return res, nil
}

// DisplayOrderPreview prices the order at the Mall with the buyer's PG address
// and returns the review page data.
func (s *ExternalCheckoutService) DisplayOrderPreview(ctx context.Context, req dto.PreviewReq) (dto.OrderPreview, error) {
	o, m, err := s.load(ctx, req.MallID, req.OrderID)
	if err != nil {
		return dto.OrderPreview{}, err
	}
	snap, err := s.Gateway.GetOrder(ctx, credentials(m), gateway.ModeExternalCheckout, o.PgOrderRef())
	if err != nil {
		return dto.OrderPreview{}, err
	}
	addr := gateway.ShippingAddress{}
	if snap.ShippingAddress != nil {
		addr = *snap.ShippingAddress
	}

	calcReq := mall.CalculationRequest{
		ShippingType: "A",
		CountryCode:  strings.ToUpper(addr.CountryCode),
		ZipCode:      addr.PostalCode,
		AddressFull:  addr.City + "," + addr.State,
	}
	if !o.BuyerIsGuest {
		calcReq.MemberID = strPtr(o.BuyerID)
	}
	for _, it := range o.LineItems {
		if it.ShippingType != "" {
			calcReq.ShippingType = it.ShippingType
		}
		item := mall.CalculationItem{
			ProductNo: it.ProductNo, VariantCode: it.VariantCode, Quantity: it.Quantity,
			ProductPrice: it.ProductPrice, OptionPrice: it.OptionPrice,
			ProductBundle: it.ProductBundle, PrepaidShippingFee: it.PrepaidShippingFee,
		}
		if it.ProductBundle == "T" && it.ProductBundleNo != "" && it.ProductBundleNo != "0" {
			item.ProductBundleNo = it.ProductBundleNo
		}
		calcReq.Items = append(calcReq.Items, item)
	}
	calc, err := s.Mall.CalculateOrder(ctx, o.MallID, o.ShopNo, calcReq)
	if err != nil {
		return dto.OrderPreview{}, err
	}

	shippingDiscount := intPart(string(calc.ShippingFeeDiscountAmount))
	shipping := intPart(string(calc.ShippingFee)) - shippingDiscount
	if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, ledger.Change{
		PgPaymentReferenceNo: strPtr(snap.PaymentReferenceNo),
		RequestedAmount:      strPtr(string(calc.TotalAmountDue)),
		ShippingFee:          strPtr(strconv.FormatInt(shipping, 10)),
	}); err != nil {
		return dto.OrderPreview{}, err
	}

	products := make([]dto.PreviewProduct, 0, len(o.LineItems))
	for _, it := range o.LineItems {
		products = append(products, dto.PreviewProduct{
			ProductNo: it.ProductNo, ProductName: it.ProductName, VariantCode: it.VariantCode,
			Price: thousands(intPart(it.ProductPrice)), OptionPrice: thousands(intPart(it.OptionPrice)),
			Quantity: it.Quantity,
			Subtotal: thousands((intPart(it.ProductPrice) + intPart(it.OptionPrice)) * it.Quantity),
		})
	}
	return dto.OrderPreview{
		MallID:          m.MallName,
		OrderNo:         o.OrderID,
		ReturnButtonURL: o.ReturnURL,
		AddressInfo: dto.AddressInfo{
			Name: addr.Name, Add1: addr.Add1, Add2: addr.Add2, Add3: addr.Add3,
			City: addr.City, District: addr.District, State: addr.State,
			Postal: addr.PostalCode, Country: addr.CountryCode, Phone: addr.PhoneNumber,
		},
		Preference:    snap.Preference,
		OrderProducts: products,
		ShippingInfo: dto.ShippingInfo{
			ShippingFee:      strconv.FormatInt(shipping, 10),
			ShippingDiscount: strconv.FormatInt(shippingDiscount, 10),
		},
		OrderInfo: dto.OrderInfo{
			TotalAmount:      thousands(intPart(string(calc.TotalAmountDue))),
			TotalShippingFee: thousands(intPart(string(calc.ShippingFee))),
			TotalItem:        thousands(intPart(string(calc.OrderPriceAmount))),
			TotalDiscount:    thousands(intPart(string(calc.TotalDiscountAmount))),
			Currency:         o.Currency,
		},
	}, nil
}

// HandleExternalCheckoutPayment confirms the reviewed order at the PG.
func (s *ExternalCheckoutService) HandleExternalCheckoutPayment(ctx context.Context, req dto.PreviewReq) (dto.PaymentResp, error) {
	o, m, err := s.load(ctx, req.MallID, req.OrderID)
	if err != nil {
		return dto.PaymentResp{}, err
	}
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleExternalCheckout, "reference_no": o.ReferenceNo, "order_id": o.OrderID})
	res, err := s.Gateway.PayOrder(ctx, credentials(m), gateway.ModeExternalCheckout, o.PgOrderRef(), gateway.PaymentData{
		ReferenceNo:        o.PgOrderRef(),
		PaymentReferenceNo: o.PgPaymentRef(),
		RedirectURL:        s.url(externalCallbackPath, url.Values{"reference_no": {o.ReferenceNo}}),
		Amount:             o.RequestedAmount,
	})
	if err != nil {
		entry.WithError(err).Error("[EXTERNAL-CHECKOUT] pg payment failed")
		return dto.PaymentResp{Message: "Payment request failed", RedirectURL: o.ReturnURL}, err
	}
	if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, ledger.Change{
		Status:               ordermodel.StatusAuthorized,
		PgPaymentReferenceNo: strPtr(res.PaymentReferenceNo),
	}); err != nil {
		return dto.PaymentResp{Message: constant.PublicMessage(err), RedirectURL: o.ReturnURL}, err
	}
	entry.Info("[EXTERNAL-CHECKOUT] payment confirmed at pg")
	return dto.PaymentResp{Message: "Success payment", RedirectURL: res.RedirectURL}, nil
}

// HandleExternalCheckoutCallback settles the order from the PG's final status,
// notifies the Mall and sends the buyer to the shop's result page.
func (s *ExternalCheckoutService) HandleExternalCheckoutCallback(ctx context.Context, req dto.ExternalCallbackReq) (dto.Redirect, error) {
	if strings.TrimSpace(req.ReferenceNo) == "" {
		return dto.Redirect{}, constant.NewErrorf(constant.CodeInvalidRequest, "reference_no is required")
	}
	o, err := s.Ledger.GetByReference(ctx, req.ReferenceNo)
	if err != nil {
		return dto.Redirect{}, err
	}
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleExternalCheckout, "reference_no": o.ReferenceNo, "order_id": o.OrderID})
	m, err := s.Merchants.Get(ctx, o.MallID)
	if err != nil {
		entry.WithError(err).Warn("[EXTERNAL-CHECKOUT] merchant missing on callback")
		return s.resultPage(o, false, "async"), nil
	}
	snap, err := s.Gateway.GetOrder(ctx, credentials(m), gateway.ModeExternalCheckout, o.PgOrderRef())
	if err != nil {
		entry.WithError(err).Warn("[EXTERNAL-CHECKOUT] pg order lookup failed")
		return s.resultPage(o, false, "async"), nil
	}
	status, err := ledger.MapCheckoutStatus(snap.RawStatus)
	if err != nil {
		entry.WithError(err).Warn("[EXTERNAL-CHECKOUT] unknown pg status")
		return s.resultPage(o, false, "async"), nil
	}

	paid := status == ordermodel.StatusPaid
	amount := snap.Paid("0")
	ch := ledger.Change{Status: status, PaidAmount: strPtr(amount)}
	if !paid {
		ch.PaidAmount = strPtr("0.00")
	}
	_, applied, err := s.Ledger.Transition(ctx, o.ReferenceNo, ch)
	if err != nil {
		entry.WithError(err).Warn("[EXTERNAL-CHECKOUT] transition refused")
		return s.resultPage(o, false, "async"), nil
	}
	if !applied {
		entry.Info("[EXTERNAL-CHECKOUT] duplicate callback, already applied")
		return s.resultPage(o, paid, "async"), nil
	}

	code, message := constant.ResultInvalidRequest, "Order Not Successful"
	if paid {
		code, message = constant.ResultSuccess, "Order paid"
	}
	nerr := s.Notifier.Notify(ctx, o.ReturnNotificationURL, notify.PaymentNotice{
		PartnerID:     s.partnerID(o, m),
		TID:           o.PgOrderRef(),
		Amount:        amount,
		OrderID:       o.OrderID,
		Currency:      o.Currency,
		Paid:          paid,
		ExtraData:     o.ExtraData,
		ResultCode:    code,
		ResultMessage: message,
	})
	if nerr != nil {
		if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, notifyRollback(status)); err != nil {
			entry.WithError(err).Error("[EXTERNAL-CHECKOUT] rollback after failed notice did not apply")
		}
		entry.WithError(nerr).Warn("[EXTERNAL-CHECKOUT] mall notice failed")
		return s.resultPage(o, false, "async"), nil
	}
	if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, ledger.Change{NotifyStatus: int8Ptr(ordermodel.NotifySuccess)}); err != nil {
		entry.WithError(err).Warn("[EXTERNAL-CHECKOUT] could not record notify status")
	}
	entry.WithField("status", status).Info("[EXTERNAL-CHECKOUT] callback applied and mall notified")
	return s.resultPage(o, paid, "async"), nil
}

func (s *ExternalCheckoutService) resultPage(o *ordermodel.Order, paid bool, syncType string) dto.Redirect {
	path := "/api/shop/pg_fail"
	if paid {
		path = "/api/shop/pgsuccess"
	}
	return dto.Redirect{Location: withQuery(strings.TrimRight(o.ReturnURL, "/")+path, url.Values{
		"order_id":  {o.OrderID},
		"sync_type": {syncType},
	})}
}

// partnerID is the stored one, rebuilt from the shop when absent.
func (s *ExternalCheckoutService) partnerID(o *ordermodel.Order, m *mainmodel.Merchant) string {
	if o.PartnerID != "" {
		return o.PartnerID
	}
	pub, _ := m.Keys()
	idx := 0
	if shop := m.ShopByNo(o.ShopNo); shop != nil {
		idx = shop.ShopIndex
	}
	return partner.Encode(o.MallID, idx, pub)
}

func (s *ExternalCheckoutService) load(ctx context.Context, mallID, orderID string) (*ordermodel.Order, *mainmodel.Merchant, error) {
	m, err := merchant.Connected(ctx, s.Merchants, mallID)
	if err != nil {
		return nil, nil, err
	}
	o, err := s.Ledger.Get(ctx, mallID, orderID)
	if err != nil {
		return nil, nil, err
	}
	return o, m, nil
}
