package domain

import "Skirmish/modules/kit/errx"

// Code 表示规则域错误码。
//
// 约定：
// - ILLEGAL_ACTION / MISSING_REFERENCE 是业务拒绝，状态不变，原因码写在 data.reason
// - FORMULA_FAULT / RESOLUTION_LIMIT 是系统错误，只进日志，带 cause 和一次栈
type Code = errx.Code

const (
	CodeIllegalAction    Code = "RULES_ILLEGAL_ACTION"
	CodeMissingReference Code = "RULES_MISSING_REFERENCE"
	CodeFormulaFault     Code = "RULES_FORMULA_FAULT"
	CodeResolutionLimit  Code = "RULES_RESOLUTION_LIMIT"
	CodeUnknownEffect    Code = "RULES_UNKNOWN_EFFECT"
)

// 哨兵错误：只读，通过 WithReason/WithData 派生。
var (
	ErrIllegalAction    = errx.NewBiz(CodeIllegalAction, "非法动作")
	ErrMissingReference = errx.NewBiz(CodeMissingReference, "引用不存在")
	ErrFormulaFault     = errx.NewSys(CodeFormulaFault, "公式求值失败")
	ErrResolutionLimit  = errx.NewSys(CodeResolutionLimit, "结算次数超过上限")
	ErrUnknownEffect    = errx.NewBiz(CodeUnknownEffect, "未注册的效果类型")
)

// Illegal 构造一个带原因码的非法动作错误。
func Illegal(reason errx.ReasonOf) *errx.Error {
	return ErrIllegalAction.WithReason(reason)
}

// Missing 构造引用缺失错误，kind/id 写进 data 方便排查。
func Missing(reason errx.ReasonOf, kind string, id any) *errx.Error {
	return ErrMissingReference.WithReason(reason).WithData(kind, id)
}

// ReasonOf 取出错误上挂的原因码；非 errx 错误返回空串。
func ReasonOf(err error) string {
	if xe, ok := errx.As(err); ok {
		return xe.Reason()
	}
	return ""
}
