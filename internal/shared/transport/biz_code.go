package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体 code：0 成功；1~499 业务拒绝（访问日志记 WARN）；>=500 技术错误（记 ERROR）。
const (
	OK             = 0
	InvalidParam   = 1
	NotFound       = 2
	ValidateFailed = 3
	DataUnchanged  = 4

	SystemError      = 500
	StoreUnavailable = 503
)
