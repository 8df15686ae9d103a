// Package bootstrap 按配置组装存储、指标和 RacetrackService，admin 与 cli 共用。
package bootstrap

import (
	"fmt"

	"Racetrack/internal/racetrack/app"
	"Racetrack/internal/racetrack/app/port"
	"Racetrack/internal/racetrack/infra/persistence/memory"
	"Racetrack/internal/racetrack/infra/persistence/mongodb"
	"Racetrack/internal/shared/config"
	mongoinfra "Racetrack/internal/shared/infrastructure/mongo"
	"Racetrack/internal/shared/metrics"
	"Racetrack/modules/kit/logx"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type App struct {
	Service *app.RacetrackService
	// Metrics 在 metrics.enabled=false 时为 nil
	Metrics *metrics.Metrics

	client *mongo.Client
	l      *zap.Logger
}

// Build 连接存储并创建服务。subsystem 用作指标前缀，例如 admin / cli。
func Build(cfg config.Config, subsystem string, l *zap.Logger) (*App, error) {
	if l == nil {
		l = zap.NewNop()
	}
	a := &App{l: l}

	var repo port.PlayerRepository
	switch cfg.MongoDB.Driver {
	case "", DriverMongo:
		client, err := mongoinfra.Open(cfg.MongoDB, l)
		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		a.client = client
		repo = mongodb.NewPlayerRepo(client.Database(cfg.MongoDB.Database))
	case DriverMemory:
		l.Warn("using in-memory store, data is lost on exit")
		repo = memory.NewPlayerRepo()
	default:
		return nil, fmt.Errorf("unknown mongodb.driver %q", cfg.MongoDB.Driver)
	}

	var rec port.OpRecorder
	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New(metrics.WithSubsystem(subsystem))
		rec = a.Metrics
	}
	a.Service = app.NewRacetrackService(repo, logx.NewZapLogger(l), rec, cfg.Batch.Concurrency)
	return a, nil
}

// Close 释放存储连接。
func (a *App) Close() {
	mongoinfra.Close(a.client, a.l)
}
