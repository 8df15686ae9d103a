package middleware

import (
	"net/http"

	"Racetrack/internal/shared/transport"
	"Racetrack/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog 每个请求写一条访问日志。业务码由处理函数通过 transport.SetBizCode 写入
// 请求 context；没写过的（未匹配路由、框架直接返回的错误）按 HTTP 状态码兜底。
func AccessLog(log logx.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route, "http")
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if _, ok := skip[c.Request.URL.Path]; ok {
			return
		}
		status := c.Writer.Status()
		if _, ok := transport.BizCodeOf(ctx); !ok {
			transport.SetBizCode(ctx, statusBizCode(status))
		}
		transport.WriteAccessLog(ctx, log,
			zap.Int("status", status),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func statusBizCode(status int) transport.BizCode {
	switch {
	case status >= http.StatusInternalServerError:
		return transport.BizCode(transport.SystemError)
	case status == http.StatusNotFound:
		return transport.BizCode(transport.NotFound)
	case status >= http.StatusBadRequest:
		return transport.BizCode(transport.InvalidParam)
	default:
		return transport.BizCode(transport.OK)
	}
}
