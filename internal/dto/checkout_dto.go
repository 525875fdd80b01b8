package dto

// CheckoutReq Mall 发起的支付请求 (sync / async checkout)
type CheckoutReq struct {
	OrderID       string                 `form:"order_id" json:"order_id" binding:"required"`
	Amount        string                 `form:"amount" json:"amount" binding:"required"`
	Currency      string                 `form:"currency" json:"currency" binding:"required,len=3"`
	PartnerID     string                 `form:"partner_id" json:"partner_id" binding:"required"`
	HashData      string                 `form:"hash_data" json:"hash_data" binding:"required"`
	ShopNo        int                    `form:"shop_no" json:"shop_no"`
	BuyerID       string                 `form:"buyer_id" json:"buyer_id"`
	ReturnURL     string                 `form:"return_url" json:"return_url"`           // 买家跳回地址
	ReturnNotyURL string                 `form:"return_noty_url" json:"return_noty_url"` // 异步支付结果通知地址
	ExtraData     map[string]interface{} `form:"-" json:"extra_data"`                    // 透传, 表单里是 extra_data[key]
}

// CheckoutResp Mall 支付请求应答
type CheckoutResp struct {
	ResultCode    string `json:"result_code"`
	ResultMessage string `json:"result_message"`
	PaymentURL    string `json:"payment_url"`
}

// SyncCallbackReq PG 跳转回 bridge 的同步回调参数
type SyncCallbackReq struct {
	ReferenceNo string `form:"reference_no" json:"reference_no"`
	OrderCode   string `form:"order_code" json:"order_code"`
	Key         string `form:"key" json:"key"`
}

// AsyncCallbackReq 异步 checkout 的浏览器回调
type AsyncCallbackReq struct {
	ReferenceNo string `form:"reference_no" json:"reference_no"`
	Status      string `form:"status" json:"status"`
}

// PaymentStatusReq Mall 查询支付结果, key = module:orderKey
type PaymentStatusReq struct {
	Key string `form:"key" json:"key"`
}

// PaymentStatusResp 支付结果查询应答
type PaymentStatusResp struct {
	PartnerID     string                 `json:"partner_id"`
	PayMethod     string                 `json:"paymethod"`
	TID           string                 `json:"tid"`
	Amount        string                 `json:"amount"`
	OrderID       string                 `json:"order_id"`
	CancelMode    string                 `json:"cancel_mode"`
	AllCancelTF   string                 `json:"all_cancel_tf"`
	PartCancelTF  string                 `json:"part_cancel_tf"`
	EscrowTF      string                 `json:"escrow_tf"`
	Currency      string                 `json:"currency"`
	PayedTF       string                 `json:"payed_tf"`
	EasyPay       string                 `json:"easy_pay"`
	HashData      string                 `json:"hash_data"`
	ExtraData     map[string]interface{} `json:"extra_data"`
	ResultCode    string                 `json:"result_code"`
	ResultMessage string                 `json:"result_message"`
}

// PaymentWebhookReq PG 支付结果 webhook
type PaymentWebhookReq struct {
	ReferenceID string `form:"reference_id" json:"reference_id"`
	OrderCode   string `form:"order_code" json:"order_code"`
	Status      string `form:"status" json:"status"`
	Amount      string `form:"amount" json:"amount"`
	Currency    string `form:"currency" json:"currency"`
	Digest      string `form:"digest" json:"digest"`
	Message     string `form:"message" json:"message"`
}

// MessageResp PG webhook 应答
type MessageResp struct {
	Message string `json:"message"`
}

// Redirect 回调处理的结果: 302 到 Location
type Redirect struct {
	Location string
}
