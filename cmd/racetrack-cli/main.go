package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Racetrack/internal/racetrack/bootstrap"
	"Racetrack/internal/racetrack/interfaces/cli"
	"Racetrack/internal/shared/config"
	"Racetrack/internal/shared/logs"
	"Racetrack/modules/kit/errx"
	"Racetrack/modules/kit/logx"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 全局参数只认 --config，其余原样交给子命令
	fs := flag.NewFlagSet("racetrack-cli", flag.ContinueOnError)
	fs.SetInterspersed(false)
	cfgPath := fs.StringP("config", "c", "", "配置文件路径，默认向上查找 configs/conf.yml")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}

	conf, err := config.Load(*cfgPath, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "加载配置失败:", err)
		return 1
	}
	if err := logs.Init("racetrack-cli", conf.Log); err != nil {
		fmt.Fprintln(os.Stderr, "初始化日志失败:", err)
		return 1
	}
	defer logs.Sync()

	a, err := bootstrap.Build(conf, "cli", logs.Logger())
	if err != nil {
		logs.Error("bootstrap failed", zap.Error(err))
		return 1
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := cli.New(a.Service, os.Stdout, os.Stderr, logx.NewZapLogger(logs.Logger()).ForEntry("cli"))
	if err := c.Run(ctx, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", errx.MsgOf(err))
		if errx.CodeOf(err) == errx.CodeReqParamError {
			return 2
		}
		return 1
	}
	return 0
}
