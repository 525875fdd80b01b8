package constant

// 系统级错误码 (1xxx)
const (
	CodeSuccess       = 0    // 操作成功
	CodeSystemError   = 1000 // 系统内部错误
	CodeDatabaseError = 1005 // 数据库操作失败
	CodeRedisError    = 1006 // Redis 读写失败
	CodeTimeout       = 1007 // 请求处理超时
)

// 请求校验错误码
const (
	CodeInvalidRequest       = 1001 // missing or malformed fields
	CodeAuthenticationFailed = 1002 // hmac / digest mismatch, never retryable
	CodeMalformedPartnerID   = 1003 // partner id has fewer than 2 segments or a bad shop index
	CodeUnauthorized         = 1200 // admin api signature missing or wrong
)
