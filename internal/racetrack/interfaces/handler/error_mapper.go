package handler

import (
	"context"

	"Racetrack/internal/racetrack/domain"
	"Racetrack/internal/shared/transport"
	"Racetrack/modules/kit/errx"
)

// BizCodeOf 把失败原因映射成响应体 code，nil 为 OK。
func BizCodeOf(err error) int {
	switch domain.CategoryOf(err) {
	case domain.CategoryNone:
		return transport.OK
	case domain.CategoryNotFound:
		return transport.NotFound
	case domain.CategoryValidation:
		if errx.CodeOf(err) == errx.CodeReqParamError {
			return transport.InvalidParam
		}
		return transport.ValidateFailed
	case domain.CategoryNoOpWrite:
		return transport.DataUnchanged
	default:
		if errx.CodeOf(err) == errx.CodeUnavailable {
			return transport.StoreUnavailable
		}
		return transport.SystemError
	}
}

// HandleOutcome 记录失败原因到访问日志，返回响应 code 和消息。
func HandleOutcome(ctx context.Context, out domain.UpdateOutcome) (int, string) {
	if out.Success {
		return transport.OK, "ok"
	}
	transport.SetErrorReason(ctx, out.Reason)
	return BizCodeOf(out.Err()), out.Error
}

// HandleError 用于非 UpdateOutcome 的错误（参数解析失败等）。技术错误不向调用方暴露细节。
func HandleError(ctx context.Context, err error) (int, string) {
	if reason := errx.CodeOf(err); reason != "" {
		transport.SetErrorReason(ctx, string(reason))
	}
	code := BizCodeOf(err)
	if code >= transport.SystemError {
		return code, "系统繁忙，请稍后重试"
	}
	return code, errx.MsgOf(err)
}
