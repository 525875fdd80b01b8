package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	"pg-bridge-api/internal/gateway"
	"pg-bridge-api/internal/ledger"
	ordermodel "pg-bridge-api/internal/model/order"
)

// SyncRefundService 同步退款, PG 当场给出结果
type SyncRefundService struct {
	Deps
}

func NewSyncRefundService(d Deps) *SyncRefundService {
	return &SyncRefundService{Deps: d}
}

func (s *SyncRefundService) CancelPayment(ctx context.Context, req dto.CancelReq) (dto.ResultResp, error) {
	entry := s.Log.WithFields(logrus.Fields{"flow": constant.ModuleSyncRefund, "order_id": req.OrderID, "partner_id": req.PartnerID})
	m, o, err := s.refundGate(ctx, req)
	if err != nil {
		entry.WithError(err).Warn("[SYNC-REFUND] gate rejected")
		return dto.ResultResp{}, err
	}
	amount, err := refundAmount(req)
	if err != nil {
		return dto.ResultResp{}, err
	}

	res, err := s.Gateway.CreateRefund(ctx, credentials(m), gateway.ModeSyncRefund, o.PgOrderRef(), gateway.RefundRequest{
		MerchantReferenceNo: o.OrderID,
		RefundAmount:        amount,
		Currency:            currencyOr(req.Currency, o.Currency),
	})
	if err != nil {
		entry.WithError(err).Error("[SYNC-REFUND] pg refund failed")
		return dto.ResultResp{}, err
	}
	refund, err := ledger.MapRefundStatus(res.RefundStatus)
	if err != nil {
		return dto.ResultResp{}, err
	}

	requested := string(res.RequestedAmount)
	if requested == "" {
		requested = amount
	}
	ch := ledger.Change{
		RefundStatus:          refund,
		RequestRefundAmount:   strPtr(requested),
		PgRefundReferenceNo:   strPtr(res.RefundCode),
		CancelNotificationURL: req.CancelNotyURL,
	}
	if refund == ordermodel.RefundDone {
		ch.Status = ordermodel.StatusRefunded
		refunded := amount
		if res.RefundedAmount != nil && *res.RefundedAmount != "" {
			refunded = string(*res.RefundedAmount)
		}
		ch.RefundAmount = strPtr(refunded)
	}
	if _, _, err := s.Ledger.Transition(ctx, o.ReferenceNo, ch); err != nil {
		entry.WithError(err).Error("[SYNC-REFUND] ledger refused refund outcome")
		return dto.ResultResp{}, err
	}

	entry.WithFields(logrus.Fields{"reference_no": o.ReferenceNo, "refund_status": refund}).Info("[SYNC-REFUND] refund recorded")
	switch refund {
	case ordermodel.RefundRejected:
		return dto.ResultResp{ResultCode: constant.ResultInvalidRequest, ResultMessage: "Refund rejected"}, nil
	case ordermodel.RefundPending:
		return dto.ResultResp{ResultCode: constant.ResultSuccess, ResultMessage: "Refund requested"}, nil
	default:
		return dto.ResultResp{ResultCode: constant.ResultSuccess, ResultMessage: "Refund success"}, nil
	}
}
