package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"Racetrack/internal/racetrack/bootstrap"
	"Racetrack/internal/racetrack/interfaces"
	"Racetrack/internal/shared/config"
	"Racetrack/internal/shared/logs"
	transporthttp "Racetrack/internal/shared/transport/http"
	"Racetrack/modules/kit/logx"

	"github.com/gin-gonic/gin"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.StringP("config", "c", "", "配置文件路径，默认向上查找 configs/conf.yml")
	flag.Parse()

	conf, err := config.Load(*cfgPath, func(next config.Config) {
		logs.SetLevel(next.Log.Level)
		logs.Info("config reloaded", zap.String("log_level", next.Log.Level))
	})
	if err != nil {
		panic(err)
	}
	if err := logs.Init("racetrack-admin", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))

	a, err := bootstrap.Build(conf, "admin", logs.Logger())
	if err != nil {
		logs.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	host := conf.HTTPServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.HTTPServer.Port)

	if !conf.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	baseLogger := logx.NewZapLogger(logs.Logger()).ForEntry("http")
	var opts []transporthttp.Option
	if a.Metrics != nil {
		opts = append(opts, transporthttp.WithMetrics(a.Metrics, conf.Metrics.Path))
	}
	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger, opts...)
	httpServer.Register(interfaces.New(a.Service))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("racetrack admin listening", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("admin server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}
