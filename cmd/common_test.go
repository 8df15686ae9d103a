package cmd

import (
	"testing"

	"Racetrack/internal/shared/config"
	"Racetrack/internal/shared/logs"

	"go.uber.org/zap"
)

// 从 cmd 目录向上能找到仓库里的 configs/conf.yml
func TestReadConfig(t *testing.T) {
	conf, err := config.Load("", nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if conf.MongoDB.Database == "" || conf.HTTPServer.Port == 0 {
		t.Fatalf("unexpected conf: %+v", conf)
	}
	if err := logs.Init("TestReadConfig", conf.Log); err != nil {
		t.Fatalf("init logs: %v", err)
	}
	logs.Info("conf", zap.Any("conf", conf))
}
