package errx

// 系统类错误码，跨模块统一。
//
// 约束：
// - 仅用于系统/技术类错误（存储不可达、内部异常、入参无法解析）
// - 业务错误码（例如 VEHICLE_NOT_FOUND）由各业务域自行定义
const (
	// CodeInternal 服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（MongoDB 连接失败、驱动层报错等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeReqParamError 请求参数无法解析。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "存储服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
