package http

import (
	"context"
	nethttp "net/http"
	"time"

	"Racetrack/internal/shared/metrics"
	"Racetrack/internal/shared/transport/http/middleware"
	"Racetrack/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Registrar 由业务模块实现，把自己的路由挂到服务的根分组上。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

type Option func(*Server)

// WithMetrics 记录每个请求的指标，并在 path 上暴露 Prometheus 抓取接口。
func WithMetrics(m *metrics.Metrics, path string) Option {
	return func(s *Server) {
		s.metrics = m
		s.metricsPath = path
	}
}

type Server struct {
	engine      *gin.Engine
	group       *gin.RouterGroup
	srv         *nethttp.Server
	metrics     *metrics.Metrics
	metricsPath string
}

func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger, opts ...Option) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	s := &Server{engine: engine}
	for _, opt := range opts {
		opt(s)
	}

	if s.metricsPath == "" {
		s.metricsPath = "/metrics"
	}
	engine.Use(middleware.Cors())
	// 探活和抓取接口调用频繁，不写访问日志
	engine.Use(middleware.AccessLog(logger, "/healthz", s.metricsPath))
	if s.metrics != nil {
		engine.Use(middleware.Metrics(s.metrics))
		engine.GET(s.metricsPath, gin.WrapH(s.metrics.Handler()))
	}
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	s.group = engine.Group("")
	s.srv = &nethttp.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) Register(rs ...Registrar) {
	for _, r := range rs {
		r.HttpRegister(s.group)
	}
}

// Start 启动 HTTP 服务（阻塞）。关闭时会返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
