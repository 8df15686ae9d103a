package logx

import (
	"context"
	"testing"

	"Racetrack/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_入口与trace字段(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core)).ForEntry("cli")
	ctx := tracex.WithSpanID(tracex.WithTraceID(context.Background(), "t-1"), "s-1")

	l.WithContext(ctx).Warn("x")
	l.Info("y")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("期望 2 条日志, got=%d", len(entries))
	}
	m := entries[0].ContextMap()
	if m["entry"] != "cli" || m["trace_id"] != "t-1" || m["span_id"] != "s-1" {
		t.Fatalf("字段缺失: %v", m)
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok || entries[1].ContextMap()["entry"] != "cli" {
		t.Fatalf("未带 ctx 的日志不应有 trace_id: %v", entries[1].ContextMap())
	}
}

func TestZapLogger_nil安全(t *testing.T) {
	var z *ZapLogger
	z.WithContext(context.Background()).Info("丢弃")
	var empty context.Context
	NewZapLogger(nil).WithContext(empty).Info("丢弃")
}
