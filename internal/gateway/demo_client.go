package gateway

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/shopspring/decimal"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/utils"
)

const (
	DemoPublicKey = "demo-app-public-key"
	DemoSecretKey = "demo-app-secret-key"
)

type demoOrder struct {
	code         string
	reference    string
	mode         Mode
	amount       string
	currency     string
	status       string
	paid         string
	paymentRef   string
	refundStatus string
}

// DemoClient is an in-memory PG used by upstream.mode=demo and tests. It accepts
// only the demo key pair and the supported currencies.
type DemoClient struct {
	mu     sync.Mutex
	seq    int
	orders map[string]*demoOrder // by PG code and by bridge reference
	// status reported by GetOrder right after checkout, "P" when empty
	InitialStatus string
	// outcome of CreateRefund per mode; R for sync, RP for async when empty
	RefundOutcome map[Mode]string
}

func NewDemoClient() *DemoClient {
	return &DemoClient{orders: map[string]*demoOrder{}, RefundOutcome: map[Mode]string{}}
}

func (d *DemoClient) auth(creds Credentials) error {
	if creds.PublicKey != DemoPublicKey || creds.SecretKey != DemoSecretKey {
		return constant.NewError(constant.CodeGatewayInvalidCredentials)
	}
	return nil
}

func (d *DemoClient) find(ref string) (*demoOrder, error) {
	o, ok := d.orders[ref]
	if !ok {
		return nil, constant.NewErrorf(constant.CodeGatewayNotFound, "pg order %s not found", ref)
	}
	return o, nil
}

func (d *DemoClient) CreateCheckout(_ context.Context, creds Credentials, mode Mode, req CheckoutRequest) (*CheckoutResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.auth(creds); err != nil {
		return nil, err
	}
	if !constant.IsSupportedCurrency(req.Currency) {
		return nil, constant.NewErrorf(constant.CodeGatewayUnprocessable, "currency %s is not supported", req.Currency)
	}
	if _, err := decimal.NewFromString(req.Amount); err != nil {
		return nil, constant.NewErrorf(constant.CodeGatewayUnprocessable, "amount %q is not a number", req.Amount)
	}
	d.seq++
	status := d.InitialStatus
	if status == "" {
		status = "P"
	}
	o := &demoOrder{
		code:       fmt.Sprintf("pg-order-%03d", d.seq),
		reference:  req.ReferenceNo,
		mode:       mode,
		amount:     req.Amount,
		currency:   req.Currency,
		status:     status,
		paymentRef: fmt.Sprintf("pg-pay-%03d", d.seq),
	}
	d.orders[o.code] = o
	if o.reference != "" {
		d.orders[o.reference] = o
	}

	res := &CheckoutResult{
		ReferenceNo: o.code,
		RedirectURI: "https://dummy-pg/checkout/" + url.PathEscape(o.code),
		RawStatus:   "P",
	}
	if mode == ModeExternalCheckout {
		res.RedirectURI = req.ReviewURL
		res.Signature = "demo-signature"
		res.PublicKey = DemoPublicKey
	}
	return res, nil
}

func (d *DemoClient) GetOrder(_ context.Context, creds Credentials, _ Mode, referenceNo string) (*OrderSnapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.auth(creds); err != nil {
		return nil, err
	}
	o, err := d.find(referenceNo)
	if err != nil {
		return nil, err
	}
	snap := &OrderSnapshot{
		ReferenceNo:        o.code,
		RawStatus:          o.status,
		PaymentStatus:      o.status,
		PaymentReferenceNo: o.paymentRef,
		Preference:         "icash",
		ShippingAddress: &ShippingAddress{
			PostalCode: "1550", CountryCode: "PH", City: "Mandaluyong", State: "NCR",
			Name: "Demo Buyer", Add1: "address1", Add2: "address2", Add3: "address3",
			Country: "Philippines", District: "Bagong Silang", PhoneNumber: "+639000000001",
		},
	}
	if o.paid != "" {
		paid := utils.StringOrNumber(o.paid)
		snap.PaidAmount = &paid
	}
	return snap, nil
}

func (d *DemoClient) PayOrder(_ context.Context, creds Credentials, _ Mode, referenceNo string, data PaymentData) (*PaymentResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.auth(creds); err != nil {
		return nil, err
	}
	o, err := d.find(referenceNo)
	if err != nil {
		return nil, err
	}
	if o.status != "P" && o.status != "A" {
		return nil, constant.NewErrorf(constant.CodeGatewayUnprocessable, "pg order %s is %s", o.code, o.status)
	}
	if data.Amount != "" {
		o.amount = data.Amount
	}
	o.status = "S"
	o.paid = o.amount
	return &PaymentResult{
		PaymentReferenceNo: o.paymentRef,
		RedirectURL:        "https://dummy-pg/payment/" + url.PathEscape(o.code),
		RawStatus:          o.status,
	}, nil
}

func (d *DemoClient) CreateRefund(_ context.Context, creds Credentials, mode Mode, referenceNo string, req RefundRequest) (*RefundResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.auth(creds); err != nil {
		return nil, err
	}
	o, err := d.find(referenceNo)
	if err != nil {
		return nil, err
	}
	if o.status != "S" {
		return nil, constant.NewErrorf(constant.CodeGatewayUnprocessable, "pg order %s is not paid", o.code)
	}
	want, err := decimal.NewFromString(req.RefundAmount)
	if err != nil || want.IsNegative() {
		return nil, constant.NewErrorf(constant.CodeGatewayUnprocessable, "refund amount %q is invalid", req.RefundAmount)
	}
	if paid, _ := decimal.NewFromString(o.paid); want.GreaterThan(paid) {
		return nil, constant.NewErrorf(constant.CodeGatewayUnprocessable, "refund %s exceeds paid %s", req.RefundAmount, o.paid)
	}

	outcome := d.RefundOutcome[mode]
	if outcome == "" {
		outcome = "R"
		if mode == ModeAsyncRefund {
			outcome = "RP"
		}
	}
	o.refundStatus = outcome
	res := &RefundResult{
		OrderCode:       o.code,
		RefundCode:      "pg-refund-" + o.code[len("pg-order-"):],
		RefundStatus:    outcome,
		RequestedAmount: utils.StringOrNumber(req.RefundAmount),
		Currency:        o.currency,
	}
	if outcome == "R" {
		o.status = "R"
		refunded := utils.StringOrNumber(req.RefundAmount)
		res.RefundedAmount = &refunded
		res.Message = "Successfully refunded"
	}
	return res, nil
}

// Settle forces the PG-side status of an order, the way a buyer finishing or
// abandoning the PG page would.
func (d *DemoClient) Settle(referenceNo, rawStatus string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	o, err := d.find(referenceNo)
	if err != nil {
		return err
	}
	o.status = rawStatus
	if rawStatus == "S" {
		o.paid = o.amount
	}
	return nil
}

// PGCode returns the PG order code created for a bridge reference.
func (d *DemoClient) PGCode(referenceNo string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if o, ok := d.orders[referenceNo]; ok {
		return o.code
	}
	return ""
}
