package constant

// 业务级错误码 (2xxx)

// 商户相关错误码
const (
	CodeMerchantNotFound      = 2000 // mall has no settings record
	CodeMerchantAlreadyExist  = 2001
	CodeMerchantKeyPairBroken = 2002 // publicKey/secretKey must be both set or both empty
	CodeShopNotFound          = 2003
)

// 订单相关错误码
const (
	CodeOrderNotFound      = 2100
	CodeOrderAlreadyExist  = 2101
	CodeOrderStatusInvalid = 2102 // transition not allowed by the state graph
	CodeOrderAmountInvalid = 2103
	CodeOrderConflict      = 2104 // compare-and-set kept losing
)

// 通道开通相关错误码
const (
	CodeGatewayNotEnabled     = 2201 // merchant not connected or shop pg disabled
	CodeCurrencyNotSupported  = 2202
	CodeShopEnableRequiresPG  = 2203 // pg_enabled needs pg_connected on the merchant
	CodeToggleActionInvalid   = 2204
	CodeAccessTokenNotPresent = 2205
)
