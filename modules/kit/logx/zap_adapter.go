package logx

import (
	"context"

	"Racetrack/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger 把 Logger 落到 zap 上。admin 和 cli 共用同一个进程级 zap.Logger，
// 通过 ForEntry 区分日志来自哪个入口。
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l}
}

// ForEntry 给之后的每条日志固定带上 entry 字段（http / cli）。
func (z *ZapLogger) ForEntry(entry string) *ZapLogger {
	return &ZapLogger{logger: z.logger.With(zap.String("entry", entry))}
}

// WithContext 带上 ctx 里的 trace_id/span_id。HTTP 请求由 access log 中间件生成，
// cli 每个子命令一个 trace。
func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	if ctx == nil {
		return z
	}
	l := z.logger
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		l = l.With(zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		l = l.With(zap.String("span_id", sid))
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field) {
	z.logger.Info(msg, fields...)
}

func (z *ZapLogger) Error(msg string, fields ...zap.Field) {
	z.logger.Error(msg, fields...)
}

func (z *ZapLogger) Debug(msg string, fields ...zap.Field) {
	z.logger.Debug(msg, fields...)
}

func (z *ZapLogger) Warn(msg string, fields ...zap.Field) {
	z.logger.Warn(msg, fields...)
}
