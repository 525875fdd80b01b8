package constant

// ErrorInfo 错误信息结构
type ErrorInfo struct {
	CN string `json:"cn"`
	EN string `json:"en"`
}

// ErrorMessages 错误信息映射
var ErrorMessages = map[int]ErrorInfo{
	CodeSuccess:       {"操作成功", "Success"},
	CodeSystemError:   {"系统错误", "System error"},
	CodeDatabaseError: {"数据库错误", "Database error"},
	CodeRedisError:    {"缓存错误", "Redis error"},
	CodeTimeout:       {"请求超时", "Request timeout"},

	CodeInvalidRequest:       {"请求参数无效", "Invalid request"},
	CodeAuthenticationFailed: {"签名校验失败", "Invalid Hmac"},
	CodeMalformedPartnerID:   {"partner_id 格式错误", "Malformed partner id"},
	CodeUnauthorized:         {"未授权访问", "Unauthorized"},

	CodeMerchantNotFound:      {"商户不存在", "Mall does not exist"},
	CodeMerchantAlreadyExist:  {"商户已存在", "Mall already exists"},
	CodeMerchantKeyPairBroken: {"公钥私钥必须同时设置", "Public and secret key must be set together"},
	CodeShopNotFound:          {"店铺不存在", "Shop does not exist"},

	CodeOrderNotFound:      {"订单不存在", "Order not found"},
	CodeOrderAlreadyExist:  {"订单已存在", "Order already exists"},
	CodeOrderStatusInvalid: {"订单状态无效", "Order status transition not allowed"},
	CodeOrderAmountInvalid: {"订单金额无效", "Order amount invalid"},
	CodeOrderConflict:      {"订单并发更新冲突", "Order update conflict"},

	CodeGatewayNotEnabled:     {"店铺未开通支付", "Payment gateway is not enabled on this shop"},
	CodeCurrencyNotSupported:  {"店铺币种不支持", "Shop currency is not supported by PG company"},
	CodeShopEnableRequiresPG:  {"商户未连接支付网关", "Merchant is not connected to the payment gateway"},
	CodeToggleActionInvalid:   {"操作类型无效", "Invalid toggle action"},
	CodeAccessTokenNotPresent: {"商城访问令牌缺失", "Mall access token not found"},

	CodeGatewayError:              {"支付网关错误", "Something went wrong in requesting to the PG company"},
	CodeGatewayInvalidCredentials: {"支付网关密钥无效", "Invalid credentials"},
	CodeGatewayNotFound:           {"支付网关订单不存在", "PG order not found"},
	CodeGatewayUnprocessable:      {"支付网关无法处理", "PG request unprocessable"},
	CodeUnknownGatewayStatus:      {"未知的支付网关状态", "Unknown PG status"},
	CodeMallAPIError:              {"商城接口错误", "Error requesting to Cafe24"},

	CodeNotifyRejected:       {"商城拒绝通知", "Mall rejected the notification"},
	CodeNotifyTransportError: {"商城通知发送失败", "Failed to notify the Mall"},
}
