package notify

import (
	"fmt"
	"net/url"

	"pg-bridge-api/internal/signature"
)

// Notice is one message to a Mall notification endpoint.
type Notice interface {
	Kind() string
	OrderRef() string
	form(e *signature.Engine) url.Values
}

// PaymentNotice reports a checkout outcome (request_type=payment).
type PaymentNotice struct {
	PartnerID     string
	TID           string
	Amount        string
	OrderID       string
	Currency      string
	Paid          bool
	ExtraData     map[string]interface{}
	ResultCode    string
	ResultMessage string
}

func (n PaymentNotice) Kind() string     { return "payment" }
func (n PaymentNotice) OrderRef() string { return n.OrderID }

func (n PaymentNotice) form(e *signature.Engine) url.Values {
	v := url.Values{}
	v.Set("request_type", "payment")
	v.Set("partner_id", n.PartnerID)
	v.Set("paymethod", "etc")
	v.Set("tid", n.TID)
	v.Set("amount", n.Amount)
	v.Set("order_id", n.OrderID)
	v.Set("all_cancel_tf", "T")
	v.Set("part_cancel_tf", "T")
	v.Set("escrow_tf", "F")
	v.Set("currency", n.Currency)
	v.Set("payed_tf", tf(n.Paid))
	v.Set("easypay", "F")
	v.Set("hash_data", e.SignPaymentNotice(signature.PaymentNoticeFields{
		Amount: n.Amount, Currency: n.Currency, OrderID: n.OrderID, PartnerID: n.PartnerID, TID: n.TID,
	}))
	setExtraData(v, n.ExtraData)
	v.Set("result_code", n.ResultCode)
	v.Set("result_message", n.ResultMessage)
	return v
}

// CancelNotice reports a refund outcome (request_type=cancelnoty).
type CancelNotice struct {
	PartnerID     string
	TID           string
	OrderID       string
	Currency      string
	CancelAmount  string
	Refunded      bool
	ExtraData     map[string]interface{}
	ResultCode    string
	ResultMessage string
}

func (n CancelNotice) Kind() string     { return "cancelnoty" }
func (n CancelNotice) OrderRef() string { return n.OrderID }

func (n CancelNotice) form(e *signature.Engine) url.Values {
	v := url.Values{}
	v.Set("request_type", "cancelnoty")
	v.Set("partner_id", n.PartnerID)
	v.Set("tid", n.TID)
	v.Set("order_id", n.OrderID)
	v.Set("paymethod", "etc")
	v.Set("currency", n.Currency)
	v.Set("cancel_amount", n.CancelAmount)
	status := "F"
	if n.Refunded {
		status = "P"
	}
	v.Set("status", status)
	v.Set("hash_data", e.SignCancelNotice(signature.RefundFields{
		CancelAmount: n.CancelAmount, Currency: n.Currency, OrderID: n.OrderID, PartnerID: n.PartnerID, TID: n.TID,
	}))
	setExtraData(v, n.ExtraData)
	v.Set("result_code", n.ResultCode)
	v.Set("result_message", n.ResultMessage)
	return v
}

// setExtraData encodes the opaque map the way PHP form arrays arrive: extra_data[key]=value.
func setExtraData(v url.Values, extra map[string]interface{}) {
	for k, val := range extra {
		if val == nil {
			v.Set("extra_data["+k+"]", "")
			continue
		}
		v.Set("extra_data["+k+"]", fmt.Sprint(val))
	}
}

func tf(b bool) string {
	if b {
		return "T"
	}
	return "F"
}
