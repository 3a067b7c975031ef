package transport

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"Skirmish/internal/rules/domain"
	"Skirmish/modules/kit/errx"
	"Skirmish/modules/kit/logx"
	"Skirmish/modules/kit/tracex"
)

func TestNewContextWithParent_沿用上游TraceID(t *testing.T) {
	parent := tracex.WithTraceID(context.Background(), "trace-1")
	ctx := NewContextWithParent(parent, "playCard")
	tid, _ := tracex.TraceIDFrom(ctx)
	if tid != "trace-1" {
		t.Fatalf("trace_id=%q", tid)
	}
	if FromContext(ctx) == nil {
		t.Fatalf("缺少 AccessLog")
	}
}

func TestWriteAccessLog_失败带原因(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logx.NewZapLogger(zap.New(core))

	ctx := NewContext("moveUnit")
	SetPlayer(ctx, "p1")
	SetBizCode(ctx, IllegalAction)
	SetErrorReason(ctx, "WRONG_PHASE")
	WriteAccessLog(ctx, log)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["error_reason"] != "WRONG_PHASE" || fields["player"] != "p1" || fields["result"] != "failure" {
		t.Fatalf("fields=%v", fields)
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("level=%v", entries[0].Level)
	}
}

func TestCodeFromError_映射(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want BizCode
	}{
		{"nil", nil, OK},
		{"非法动作", domain.ErrIllegalAction, IllegalAction},
		{"引用缺失", domain.ErrMissingReference, MissingReference},
		{"超时", errx.ErrTimeout, Timeout},
		{"普通错误", context.Canceled, SystemError},
	}
	for _, tc := range cases {
		if got := CodeFromError(tc.err); got != tc.want {
			t.Fatalf("%s: got=%d want=%d", tc.name, got, tc.want)
		}
	}
}
