package service

import (
	"context"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	"pg-bridge-api/internal/merchant"
	mainmodel "pg-bridge-api/internal/model/main"
	ordermodel "pg-bridge-api/internal/model/order"
	"pg-bridge-api/internal/partner"
	"pg-bridge-api/internal/signature"
)

// refundGate verifies a Mall cancel request and loads the merchant and order.
// Only a paid order that has never been sent for refund may proceed.
func (d Deps) refundGate(ctx context.Context, req dto.CancelReq) (*mainmodel.Merchant, *ordermodel.Order, error) {
	if err := d.Signer.VerifyRefund(signature.RefundFields{
		CancelAmount: req.CancelAmount, Currency: req.Currency, OrderID: req.OrderID, PartnerID: req.PartnerID, TID: req.TID,
	}, req.HashData); err != nil {
		return nil, nil, err
	}
	pid, err := partner.Decode(req.PartnerID)
	if err != nil {
		return nil, nil, err
	}
	m, err := merchant.Connected(ctx, d.Merchants, pid.MallID)
	if err != nil {
		return nil, nil, err
	}
	o, err := d.Ledger.Get(ctx, pid.MallID, req.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if o.Status != ordermodel.StatusPaid || o.RefundStatus != nil {
		return nil, nil, constant.NewErrorf(constant.CodeOrderStatusInvalid, "order %s cannot be refunded in status %s", o.OrderID, o.Status)
	}
	return m, o, nil
}

// refundAmount is cancel_amount when the Mall sent one, else amount.
func refundAmount(req dto.CancelReq) (string, error) {
	amount := req.CancelAmount
	if amount == "" {
		amount = req.Amount
	}
	if _, err := parseAmount(amount); err != nil {
		return "", err
	}
	return amount, nil
}

func currencyOr(requested, stored string) string {
	if requested != "" {
		return requested
	}
	return stored
}
