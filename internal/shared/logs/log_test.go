package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"Racetrack/internal/shared/config"
)

func TestInit_写入滚动文件(t *testing.T) {
	file := filepath.Join(t.TempDir(), "admin.log")
	if err := Init("test", config.LogConfig{FileDir: file, Level: "debug"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	Info("update player rank", zap.Int64("uid", 10000621))
	Sync()

	raw, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"uid":10000621`) {
		t.Fatalf("期望文件中包含 JSON 字段 uid, got=%s", raw)
	}
}

func TestSetLevel_无法解析时回退info(t *testing.T) {
	SetLevel("warn")
	if atomicLevel.Level() != zapcore.WarnLevel {
		t.Fatalf("期望 warn, got=%v", atomicLevel.Level())
	}
	SetLevel("not-a-level")
	if atomicLevel.Level() != zapcore.InfoLevel {
		t.Fatalf("期望回退 info, got=%v", atomicLevel.Level())
	}
}
