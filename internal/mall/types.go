package mall

import (
	"context"

	"pg-bridge-api/internal/utils"
)

// API is the part of the Mall admin API the bridge calls.
type API interface {
	CalculateOrder(ctx context.Context, mallID string, shopNo int, req CalculationRequest) (*Calculation, error)
	EnablePaymentGateway(ctx context.Context, mallID string, shopNo int, partnerID string) error
	DisablePaymentGateway(ctx context.Context, mallID string, shopNo int) error
}

// TokenProvider hands out the Mall OAuth access token of a mall.
type TokenProvider interface {
	GetAccessToken(ctx context.Context, mallID string) (string, error)
}

type CalculationItem struct {
	ProductNo          int64  `json:"product_no"`
	VariantCode        string `json:"variant_code"`
	Quantity           int64  `json:"quantity"`
	ProductPrice       string `json:"product_price"`
	OptionPrice        string `json:"option_price"`
	ProductBundle      string `json:"product_bundle"`
	ProductBundleNo    string `json:"product_bundle_no,omitempty"`
	PrepaidShippingFee string `json:"prefaid_shipping_fee"`
}

type CalculationRequest struct {
	MemberID     *string           `json:"member_id"`
	ShippingType string            `json:"shipping_type"`
	CountryCode  string            `json:"country_code"`
	ZipCode      string            `json:"zip_code"`
	AddressFull  string            `json:"address_full"`
	Items        []CalculationItem `json:"items"`
}

type Calculation struct {
	ShopNo                    int                  `json:"shop_no"`
	MembershipDiscountAmount  utils.StringOrNumber `json:"membership_discount_amount"`
	ShippingFeeDiscountAmount utils.StringOrNumber `json:"shipping_fee_discount_amount"`
	ProductDiscountAmount     utils.StringOrNumber `json:"product_discount_amount"`
	OrderPriceAmount          utils.StringOrNumber `json:"order_price_amount"`
	TotalDiscountAmount       utils.StringOrNumber `json:"total_discount_amount"`
	ShippingFee               utils.StringOrNumber `json:"shipping_fee"`
	TotalAmountDue            utils.StringOrNumber `json:"total_amount_due"`
}
