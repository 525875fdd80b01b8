package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	"pg-bridge-api/internal/gateway"
	"pg-bridge-api/internal/ledger"
	ordermodel "pg-bridge-api/internal/model/order"
	"pg-bridge-api/internal/notify"
	"pg-bridge-api/internal/signature"
)

const asyncRefundWebhookPath = "/api/asynchronous-refund/cancel/webhook"

// AsyncRefundService 异步退款: 先登记 refund_pending, 结果由 PG webhook 带回并通知 Mall
type AsyncRefundService struct {
	Deps
}

func NewAsyncRefundService(d Deps) *AsyncRefundService {
	return &AsyncRefundService{Deps: d}
}

func (s *AsyncRefundService) CancelPayment(ctx context.Context, req dto.CancelReq) (dto.ResultResp, error) {
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleAsyncRefund, "order_id": req.OrderID, "partner_id": req.PartnerID})
	m, o, err := s.refundGate(ctx, req)
	if err != nil {
		entry.WithError(err).Warn("[ASYNC-REFUND] gate rejected")
		return dto.ResultResp{}, err
	}
	amount, err := refundAmount(req)
	if err != nil {
		return dto.ResultResp{}, err
	}

	res, err := s.Gateway.CreateRefund(ctx, credentials(m), gateway.ModeAsyncRefund, o.PgOrderRef(), gateway.RefundRequest{
		MerchantReferenceNo: o.OrderID,
		RefundAmount:        amount,
		Currency:            currencyOr(req.Currency, o.Currency),
		WebhookURL:          s.url(asyncRefundWebhookPath, nil),
	})
	if err != nil {
		entry.WithError(err).Error("[ASYNC-REFUND] pg refund failed")
		return dto.ResultResp{}, err
	}
	refund, err := ledger.MapRefundStatus(res.RefundStatus)
	if err != nil {
		return dto.ResultResp{}, err
	}
	// the outcome of an accepted request arrives by webhook
	if refund == ordermodel.RefundDone {
		refund = ordermodel.RefundPending
	}

	requested := string(res.RequestedAmount)
	if requested == "" {
		requested = amount
	}
	if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, ledger.Change{
		RefundStatus:          refund,
		RequestRefundAmount:   strPtr(requested),
		PgRefundReferenceNo:   strPtr(res.RefundCode),
		CancelNotificationURL: req.CancelNotyURL,
	}); err != nil {
		entry.WithError(err).Error("[ASYNC-REFUND] ledger refused refund request")
		return dto.ResultResp{}, err
	}
	entry.WithFields(logrus.Fields{"reference_no": o.ReferenceNo, "refund_status": refund}).Info("[ASYNC-REFUND] refund requested")
	if refund == ordermodel.RefundRejected {
		return dto.ResultResp{ResultCode: constant.ResultInvalidRequest, ResultMessage: "Refund rejected"}, nil
	}
	return dto.ResultResp{ResultCode: constant.ResultSuccess, ResultMessage: "Refund requested"}, nil
}

// HandleCancellationWebhook settles a pending refund. RP changes nothing; R and
// RX are claimed once and the claiming delivery notifies the Mall. Deliveries
// must carry a digest keyed by the PG secret and may not refund more than was
// requested. A failed notice is reported but the refund outcome stays recorded.
func (s *AsyncRefundService) HandleCancellationWebhook(ctx context.Context, req dto.CancelWebhookReq) (dto.CodeMessageResp, error) {
	if strings.TrimSpace(req.ReferenceNo) == "" {
		return dto.CodeMessageResp{}, constant.NewErrorf(constant.CodeInvalidRequest, "reference_no is required")
	}
	o, err := s.Ledger.GetByReference(ctx, req.ReferenceNo)
	if err != nil {
		return dto.CodeMessageResp{}, err
	}
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleAsyncRefund, "reference_no": o.ReferenceNo, "pg_refund_status": req.RefundStatus})
	m, err := s.Merchants.Get(ctx, o.MallID)
	if err != nil {
		return dto.CodeMessageResp{}, err
	}
	_, secret := m.Keys()
	if err := s.Signer.VerifyRefundWebhook(signature.RefundWebhookFields{
		ReferenceNo: req.ReferenceNo, RefundCode: req.RefundCode, RefundStatus: req.RefundStatus, RefundAmount: req.RefundAmount,
	}, secret, req.Digest); err != nil {
		entry.Warn("[ASYNC-REFUND] webhook digest mismatch")
		return dto.CodeMessageResp{}, err
	}
	if o.PgRefundReferenceNo != nil && *o.PgRefundReferenceNo != "" && req.RefundCode != *o.PgRefundReferenceNo {
		entry.WithField("refund_code", req.RefundCode).Warn("[ASYNC-REFUND] webhook for another refund")
		return dto.CodeMessageResp{}, constant.NewErrorf(constant.CodeInvalidRequest, "refund_code does not match the pending refund")
	}
	refund, err := ledger.MapRefundStatus(req.RefundStatus)
	if err != nil {
		return dto.CodeMessageResp{}, err
	}
	entry = entry.WithField("refund_status", refund)
	if refund == ordermodel.RefundPending {
		entry.Info("[ASYNC-REFUND] refund still pending")
		return dto.CodeMessageResp{Code: 200, Message: "Refund still pending"}, nil
	}

	ch := ledger.Change{RefundStatus: refund}
	cancelAmount := "0.00"
	if refund == ordermodel.RefundDone {
		cancelAmount = req.RefundAmount
		if cancelAmount == "" && o.RequestRefundAmount != nil {
			cancelAmount = *o.RequestRefundAmount
		}
		if err := withinRequested(cancelAmount, o.RequestRefundAmount); err != nil {
			entry.WithError(err).Warn("[ASYNC-REFUND] refund amount rejected")
			return dto.CodeMessageResp{}, err
		}
		ch.Status = ordermodel.StatusRefunded
		ch.RefundAmount = strPtr(cancelAmount)
	}
	_, applied, err := s.Ledger.Transition(ctx, o.ReferenceNo, ch)
	if err != nil {
		return dto.CodeMessageResp{}, err
	}
	if !applied {
		entry.Info("[ASYNC-REFUND] duplicate webhook, already applied")
		return dto.CodeMessageResp{Code: 200, Message: "Refund success"}, nil
	}

	refunded := refund == ordermodel.RefundDone
	code := constant.ResultInvalidRequest
	if refunded {
		code = constant.ResultSuccess
	}
	nerr := s.Notifier.Notify(ctx, o.CancelNotificationURL, notify.CancelNotice{
		PartnerID:     o.PartnerID,
		TID:           o.PgOrderRef(),
		OrderID:       o.OrderID,
		Currency:      o.Currency,
		CancelAmount:  cancelAmount,
		Refunded:      refunded,
		ExtraData:     o.ExtraData,
		ResultCode:    code,
		ResultMessage: req.Message,
	})
	status := ordermodel.NotifySuccess
	if nerr != nil {
		status = ordermodel.NotifyFailed
	}
	if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, ledger.Change{NotifyStatus: int8Ptr(status)}); err != nil {
		entry.WithError(err).Warn("[ASYNC-REFUND] could not record notify status")
	}
	if nerr != nil {
		return dto.CodeMessageResp{}, nerr
	}
	entry.Info("[ASYNC-REFUND] refund settled and mall notified")
	return dto.CodeMessageResp{Code: 200, Message: "Refund success"}, nil
}

// withinRequested rejects a settled amount above what the Mall asked to refund.
func withinRequested(amount string, requested *string) error {
	got, err := parseAmount(amount)
	if err != nil {
		return err
	}
	if requested == nil || *requested == "" {
		return nil
	}
	want, err := parseAmount(*requested)
	if err != nil {
		return err
	}
	if got.GreaterThan(want) {
		return constant.NewErrorf(constant.CodeOrderAmountInvalid, "refund amount %s exceeds requested %s", got, want)
	}
	return nil
}
