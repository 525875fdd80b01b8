package ordermodel

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ExtraData is carried from checkout creation to every notification untouched.
type ExtraData map[string]interface{}

func (d *ExtraData) Scan(value interface{}) error {
	b, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("ExtraData scan failed: %w", err)
	}
	if len(b) == 0 {
		*d = nil
		return nil
	}
	return json.Unmarshal(b, d)
}

func (d ExtraData) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	return string(b), err
}

// LineItem is one product line of a button checkout.
type LineItem struct {
	ProductNo          int64  `json:"product_no"`
	VariantCode        string `json:"variant_code"`
	ProductName        string `json:"product_name,omitempty"`
	ProductPrice       string `json:"product_price"`
	OptionPrice        string `json:"option_price"`
	Quantity           int64  `json:"quantity"`
	ShopNo             int    `json:"shop_no"`
	ShippingType       string `json:"shipping_type"`
	ProductBundle      string `json:"product_bundle"`
	ProductBundleNo    string `json:"product_bundle_no,omitempty"`
	PrepaidShippingFee string `json:"prefaid_shipping_fee"`
}

type LineItems []LineItem

func (l *LineItems) Scan(value interface{}) error {
	b, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("LineItems scan failed: %w", err)
	}
	if len(b) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(b, l)
}

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}

// Order represents pg_order. Amount columns keep the exact string received so
// signatures recomputed later match the ones the Mall and PG computed.
type Order struct {
	ID                    uint64        `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ReferenceNo           string        `gorm:"column:reference_no;type:varchar(32);uniqueIndex;not null" json:"referenceNo"` // 桥接流水号, 发送给 PG
	OrderKey              string        `gorm:"column:order_key;type:varchar(64);index" json:"orderKey"`                      // sync checkout 的 opaque key
	Flow                  string        `gorm:"column:flow;type:varchar(32);not null" json:"flow"`
	OrderID               string        `gorm:"column:order_id;type:varchar(64);not null;uniqueIndex:uk_mall_order" json:"orderId"`
	MallID                string        `gorm:"column:mall_id;type:varchar(64);not null;uniqueIndex:uk_mall_order" json:"mallId"`
	ShopNo                int           `gorm:"column:shop_no;not null" json:"shopNo"`
	PartnerID             string        `gorm:"column:partner_id;type:varchar(255)" json:"partnerId"`
	BuyerID               string        `gorm:"column:buyer_id;type:varchar(64)" json:"buyerId"`
	BuyerIsGuest          bool          `gorm:"column:buyer_is_guest" json:"buyerIsGuest"`
	Currency              string        `gorm:"column:currency;type:char(3);not null" json:"currency"`
	RequestedAmount       string        `gorm:"column:requested_amount;type:varchar(32);not null" json:"requestedAmount"`
	PaidAmount            *string       `gorm:"column:paid_amount;type:varchar(32)" json:"paidAmount"`
	RequestRefundAmount   *string       `gorm:"column:request_refund_amount;type:varchar(32)" json:"requestRefundAmount"`
	RefundAmount          *string       `gorm:"column:refund_amount;type:varchar(32)" json:"refundAmount"`
	ShippingFee           *string       `gorm:"column:shipping_fee;type:varchar(32)" json:"shippingFee"`
	PgOrderReferenceNo    *string       `gorm:"column:pg_order_reference_no;type:varchar(64)" json:"pgOrderReferenceNo"`
	PgPaymentReferenceNo  *string       `gorm:"column:pg_payment_reference_no;type:varchar(64)" json:"pgPaymentReferenceNo"`
	PgRefundReferenceNo   *string       `gorm:"column:pg_refund_reference_no;type:varchar(64)" json:"pgRefundReferenceNo"`
	Status                Status        `gorm:"column:status;type:varchar(32);not null" json:"status"`
	RefundStatus          *RefundStatus `gorm:"column:refund_status;type:varchar(32)" json:"refundStatus"`
	ReturnURL             string        `gorm:"column:return_url;type:varchar(512)" json:"returnUrl"`
	ReturnNotificationURL string        `gorm:"column:return_notification_url;type:varchar(512)" json:"returnNotificationUrl"`
	CancelNotificationURL string        `gorm:"column:cancel_notification_url;type:varchar(512)" json:"cancelNotificationUrl"`
	ExtraData             ExtraData     `gorm:"column:extra_data;type:text" json:"extraData"`
	LineItems             LineItems     `gorm:"column:line_items;type:text" json:"lineItems"`
	NotifyStatus          int8          `gorm:"column:notify_status;not null;default:0" json:"notifyStatus"` // 0:未通知 1:成功 2:失败
	NotifyTime            *time.Time    `gorm:"column:notify_time" json:"notifyTime"`
	Version               int64         `gorm:"column:version;not null;default:0" json:"version"`
	CreateTime            time.Time     `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime            time.Time     `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Order) TableName() string { return "pg_order" }

// PaidAmountOr returns the paid amount or def when none was recorded.
func (o *Order) PaidAmountOr(def string) string {
	if o.PaidAmount == nil {
		return def
	}
	return *o.PaidAmount
}

func (o *Order) PgOrderRef() string {
	if o.PgOrderReferenceNo == nil {
		return ""
	}
	return *o.PgOrderReferenceNo
}

func (o *Order) PgPaymentRef() string {
	if o.PgPaymentReferenceNo == nil {
		return ""
	}
	return *o.PgPaymentReferenceNo
}

const (
	NotifyPending int8 = 0
	NotifySuccess int8 = 1
	NotifyFailed  int8 = 2
)
