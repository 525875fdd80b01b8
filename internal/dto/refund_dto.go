package dto

// CancelReq Mall 发起的退款请求
type CancelReq struct {
	OrderID       string `form:"order_id" json:"order_id" binding:"required"`
	Amount        string `form:"amount" json:"amount" binding:"required"`
	PartnerID     string `form:"partner_id" json:"partner_id" binding:"required"`
	CancelAmount  string `form:"cancel_amount" json:"cancel_amount"`
	Currency      string `form:"currency" json:"currency"`
	TID           string `form:"tid" json:"tid"`
	HashData      string `form:"hash_data" json:"hash_data"`
	CancelNotyURL string `form:"cancel_noty_url" json:"cancel_noty_url"` // 异步退款结果通知地址
}

// ResultResp Mall 侧的 result_code 应答
type ResultResp struct {
	ResultCode    string `json:"result_code"`
	ResultMessage string `json:"result_message"`
}

// CancelWebhookReq PG 退款结果 webhook
type CancelWebhookReq struct {
	ReferenceNo  string `form:"reference_no" json:"reference_no"`
	RefundCode   string `form:"refund_code" json:"refund_code"`
	RefundStatus string `form:"refund_status" json:"refund_status"`
	RefundAmount string `form:"refund_amount" json:"refund_amount"`
	Digest       string `form:"digest" json:"digest"`
	Message      string `form:"message" json:"message"`
}

// CodeMessageResp 退款 webhook 应答
type CodeMessageResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
