package constant

// 商城侧 result_code
const (
	ResultSuccess        = "0000"
	ResultFailed         = "0001" // async checkout redirect, buyer payment failed
	ResultNotPaid        = "1400" // status query on an unpaid order
	ResultInvalidRequest = "9999"
)

// 支付网关模块名 (order key 前缀)
const (
	ModuleSyncCheckout     = "sync-checkout"
	ModuleAsyncCheckout    = "async-checkout"
	ModuleExternalCheckout = "external-checkout"
	ModuleSyncRefund       = "sync-refund"
	ModuleAsyncRefund      = "async-refund"
)

// PG 支持的币种
var SupportedCurrencies = []string{"JPY", "PHP", "USD"}

func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
