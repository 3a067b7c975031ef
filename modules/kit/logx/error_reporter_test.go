package logx

import (
	"context"
	"errors"
	"testing"

	"Skirmish/modules/kit/errx"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	cause := errors.New("division by zero")
	e := errx.NewSys("RULES_FORMULA_FAULT", "公式求值失败").
		WithData("formula", "caster.STR / 0").
		WithCause(cause)

	meta := BuildErrorLog(e)
	if meta.Code != "RULES_FORMULA_FAULT" {
		t.Fatalf("code=%q", meta.Code)
	}
	if meta.Msg == "" {
		t.Fatalf("期望 meta.Msg 非空")
	}
	if meta.Data["formula"] != "caster.STR / 0" {
		t.Fatalf("data=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 cause 链非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望带栈 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestReportAccess_按业务码选择级别(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportAccessWithLoggerContext(context.Background(), l, "playCard", 0)
	ReportAccessWithLoggerContext(context.Background(), l, "playCard", 400)
	ReportAccessWithLoggerContext(context.Background(), l, "playCard", 500)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("期望 3 条日志, got=%d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条级别=%v want=%v", i, e.Level, want[i])
		}
	}
}

func TestReportBiz_带reason字段(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportBizWithLoggerContext(context.Background(), l, NewBizLog("moveUnit", "NOT_ENOUGH_MOVEMENT", "移动力不足"))
	entries := logs.FilterField(zap.String("reason", "NOT_ENOUGH_MOVEMENT")).All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条带 reason 的日志, got=%d", len(entries))
	}
}

func TestOrNop_nil不panic(t *testing.T) {
	l := OrNop(nil)
	l.Info("x")
	l.With(zap.String("k", "v")).WithContext(context.Background()).Warn("y")
}
