package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是规则引擎各组件共享的最小日志接口。
//
// 约束：
// - 只承载结构化字段 + ctx 透传（trace/match 等）
// - 组件通过构造函数注入，nil 视为不打印
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}

// OrNop 把 nil 替换成不输出的 logger，组件内部不必到处判空。
func OrNop(l Logger) Logger {
	if l == nil {
		return NewZapLogger(nil)
	}
	return l
}
