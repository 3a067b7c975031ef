package transport

import (
	"Skirmish/internal/rules/domain"
	"Skirmish/modules/kit/errx"
)

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

const (
	OK               BizCode = 0
	IllegalAction    BizCode = 400
	MissingReference BizCode = 404
	Timeout          BizCode = 504
	SystemError      BizCode = 500
)

// CodeFromError 把引擎错误映射到 access 日志使用的业务码。
func CodeFromError(err error) BizCode {
	if err == nil {
		return OK
	}
	xe, ok := errx.As(err)
	if !ok {
		return SystemError
	}
	switch xe.Code() {
	case domain.CodeIllegalAction:
		return IllegalAction
	case domain.CodeMissingReference:
		return MissingReference
	case errx.CodeTimeout:
		return Timeout
	default:
		return SystemError
	}
}
