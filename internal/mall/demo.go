package mall

import (
	"context"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"pg-bridge-api/internal/utils"
)

// DemoAPI stands in for the Mall in upstream.mode=demo. It prices the items,
// charges a flat shipping fee and records gateway registrations.
type DemoAPI struct {
	mu          sync.Mutex
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
	enabled     map[string]string // mallID:shopNo -> partner id
}

func NewDemoAPI() *DemoAPI {
	return &DemoAPI{
		ShippingFee: decimal.NewFromInt(500),
		Discount:    decimal.NewFromInt(200),
		enabled:     map[string]string{},
	}
}

func (d *DemoAPI) CalculateOrder(_ context.Context, _ string, shopNo int, req CalculationRequest) (*Calculation, error) {
	total := decimal.Zero
	for _, it := range req.Items {
		price, _ := decimal.NewFromString(it.ProductPrice)
		option, _ := decimal.NewFromString(it.OptionPrice)
		total = total.Add(price.Add(option).Mul(decimal.NewFromInt(it.Quantity)))
	}
	due := total.Add(d.ShippingFee).Sub(d.Discount)
	return &Calculation{
		ShopNo:                    shopNo,
		MembershipDiscountAmount:  "0.00",
		ShippingFeeDiscountAmount: utils.StringOrNumber(d.Discount.StringFixed(2)),
		ProductDiscountAmount:     "0.00",
		OrderPriceAmount:          utils.StringOrNumber(total.StringFixed(2)),
		TotalDiscountAmount:       utils.StringOrNumber(d.Discount.StringFixed(2)),
		ShippingFee:               utils.StringOrNumber(d.ShippingFee.StringFixed(2)),
		TotalAmountDue:            utils.StringOrNumber(due.StringFixed(2)),
	}, nil
}

func (d *DemoAPI) EnablePaymentGateway(_ context.Context, mallID string, shopNo int, partnerID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled[key(mallID, shopNo)] = partnerID
	return nil
}

func (d *DemoAPI) DisablePaymentGateway(_ context.Context, mallID string, shopNo int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.enabled, key(mallID, shopNo))
	return nil
}

// PartnerID returns the partner id registered for a shop, "" when disabled.
func (d *DemoAPI) PartnerID(mallID string, shopNo int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled[key(mallID, shopNo)]
}

func key(mallID string, shopNo int) string {
	return mallID + ":" + strconv.Itoa(shopNo)
}
