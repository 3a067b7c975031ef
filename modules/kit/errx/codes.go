package errx

// 跨模块统一的系统类错误码。
//
// 约束：
// - 这里只放“系统/技术类”错误码，便于告警与排障
// - 规则域错误码（例如 RULES_ILLEGAL_ACTION）由各业务包自行定义，不在 kit 里集中

const (
	// CodeInternal 表示不可预期的内部错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖或运行时不可用（actor 未启动、配置缺失等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示请求超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeReqParamError 表示调用参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 统一系统类哨兵错误（通过 WithData/WithCause 派生新对象，禁止原地修改）。
var (
	ErrInternal    = NewSys(CodeInternal, "内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrReqParamERR = NewSys(CodeReqParamError, "请求参数错误")
)
