package constant

// 上游 (PG) 与商城通知错误码 (3xxx)
const (
	// CodeGatewayError PG 调用失败的通用错误，调用方按硬失败处理
	CodeGatewayError = 3000

	// CodeGatewayInvalidCredentials PG 返回 401，商户需要重新录入密钥，不可重试
	CodeGatewayInvalidCredentials = 3001

	// CodeGatewayNotFound PG 返回 404
	CodeGatewayNotFound = 3002

	// CodeGatewayUnprocessable PG 返回 422
	CodeGatewayUnprocessable = 3003

	// CodeUnknownGatewayStatus 无法映射的原始状态码，一律按失败处理
	CodeUnknownGatewayStatus = 3004

	// CodeMallAPIError 商城 API 调用失败
	CodeMallAPIError = 3005
)

const (
	// CodeNotifyRejected 商城应答不是 {"result":"OK"}
	CodeNotifyRejected = 3100

	// CodeNotifyTransportError 网络错误、超时或非 2xx
	CodeNotifyTransportError = 3101
)
