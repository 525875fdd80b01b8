package dto

// ButtonResp 外部结账按钮接口的统一外壳
type ButtonResp struct {
	MData   interface{} `json:"mData"`
	BResult bool        `json:"bResult"`
}

// ScriptDataReq 按钮脚本初始化
type ScriptDataReq struct {
	MallID string `form:"mall_id" json:"mall_id" binding:"required"`
	ShopNo int    `form:"shop_no" json:"shop_no" binding:"required"`
}

type ScriptData struct {
	PublicKey    string `json:"public_key"`
	ShopName     string `json:"shop_name"`
	ShopCurrency string `json:"shop_currency"`
}

// OrderRequestHmacReq 按钮下单前的签名请求
type OrderRequestHmacReq struct {
	MallID      string `form:"mall_id" json:"mall_id" binding:"required"`
	RequestTime string `form:"request_time" json:"request_time" binding:"required"`
	ClientKey   string `form:"client_key" json:"client_key"`
	MemberID    string `form:"member_id" json:"member_id"`
}

type OrderRequestHmac struct {
	HmacKey string `json:"hmac_key"`
}

// PayloadItem 按钮下单的商品行
type PayloadItem struct {
	ProductNo          int64  `json:"product_no"`
	ProductName        string `json:"product_name"`
	VariantCode        string `json:"variant_code"`
	ProductPrice       string `json:"product_price"`
	OptionPrice        string `json:"option_price"`
	Quantity           int64  `json:"quantity"`
	ShippingType       string `json:"shipping_type"`
	ProductBundle      string `json:"product_bundle"`
	ProductBundleNo    string `json:"product_bundle_no"`
	PrepaidShippingFee string `json:"prefaid_shipping_fee"`
}

// PayloadReq 按钮下单 (Mall 预约订单后调用)
type PayloadReq struct {
	MallID                string        `json:"mall_id" binding:"required"`
	ShopNo                int           `json:"shop_no" binding:"required"`
	OrderID               string        `json:"order_id" binding:"required"`
	MemberID              string        `json:"member_id"`
	Currency              string        `json:"currency" binding:"required"`
	ReturnURLBase         string        `json:"return_url_base" binding:"required"`
	ReturnNotificationURL string        `json:"return_notification_url" binding:"required"`
	ResponseTime          string        `json:"response_time" binding:"required"`
	Hmac                  string        `json:"hmac" binding:"required"`
	Items                 []PayloadItem `json:"items" binding:"required,min=1,dive"`
	TotalAmount           string        `json:"total_amount"` // 仅记录, 以服务端计算为准
}

// PreviewReq 订单确认页 / 支付 请求
type PreviewReq struct {
	MallID  string `form:"mall_id" json:"mall_id" binding:"required"`
	OrderID string `form:"order_id" json:"order_id" binding:"required"`
}

type AddressInfo struct {
	Name     string `json:"name"`
	Add1     string `json:"add_1"`
	Add2     string `json:"add_2"`
	Add3     string `json:"add_3"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
	Postal   string `json:"postal"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

type ShippingInfo struct {
	ShippingFee      string `json:"shipping_fee"`
	ShippingDiscount string `json:"shipping_discount"`
}

type OrderInfo struct {
	TotalAmount      string `json:"total_amount"`
	TotalShippingFee string `json:"total_shipping_fee"`
	TotalItem        string `json:"total_item"`
	TotalDiscount    string `json:"total_discount"`
	Currency         string `json:"currency"`
}

// PreviewProduct 确认页商品行, 金额已格式化
type PreviewProduct struct {
	ProductNo   int64  `json:"product_no"`
	ProductName string `json:"product_name"`
	VariantCode string `json:"variant_code"`
	Price       string `json:"price"`
	OptionPrice string `json:"option_price"`
	Quantity    int64  `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

// OrderPreview 订单确认页的视图数据
type OrderPreview struct {
	MallID          string               `json:"mall_id"`
	OrderNo         string               `json:"order_no"`
	ReturnButtonURL string               `json:"return_button_url"`
	AddressInfo     AddressInfo          `json:"address_info"`
	Preference      string               `json:"preference"`
	OrderProducts   []PreviewProduct `json:"order_products"`
	ShippingInfo    ShippingInfo         `json:"shipping_info"`
	OrderInfo       OrderInfo            `json:"order_info"`
}

// PaymentResp 按钮支付结果
type PaymentResp struct {
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url"`
}

// ExternalCallbackReq PG 支付完成后的跳转
type ExternalCallbackReq struct {
	ReferenceNo string `form:"reference_no" json:"reference_no"`
}
