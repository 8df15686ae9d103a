package transport

import (
	"context"
	"time"

	"Racetrack/modules/kit/logx"
	"Racetrack/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 是请求级日志上下文，HTTP 和 CLI 共用。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	startTime   time.Time
	action      string
	// codeSet 为 false 时入口按自己的规则兜底（例如 HTTP 状态码）
	codeSet bool
}

type accessLogKey struct{}

// NewContext 创建带 AccessLog 的新 context（以 background 为父 context）。
func NewContext(action, span string) context.Context {
	return NewContextWithParent(context.Background(), action, span)
}

// NewContextWithParent 创建带 AccessLog 的新 context（保留父 context 的取消/超时信号）。
// span 标识入口，例如 http / cli。
func NewContextWithParent(parent context.Context, action, span string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	if _, ok := tracex.TraceIDFrom(ctx); !ok {
		if traceID := tracex.NewTraceID(); traceID != "" {
			ctx = tracex.WithTraceID(ctx, traceID)
		}
	}
	if span != "" {
		ctx = tracex.WithSpanID(ctx, span)
	}

	al := &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
		al.codeSet = true
	}
}

// BizCodeOf 返回已设置的业务码；处理函数没有设置过时 ok=false。
func BizCodeOf(ctx context.Context) (BizCode, bool) {
	al := FromContext(ctx)
	if al == nil || !al.codeSet {
		return 0, false
	}
	return al.BizCode, true
}

// SetErrorReason 设置 access 日志错误原因（失败场景）。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WriteAccessLog 输出访问日志（在中间件或命令结束时调用一次），extra 追加在固定字段之后。
func WriteAccessLog(ctx context.Context, log logx.Logger, extra ...zap.Field) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	fields = append(fields, extra...)
	logx.ReportAccess(ctx, log, al.action, int(al.BizCode), fields...)
}
