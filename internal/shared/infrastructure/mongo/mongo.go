package mongo

import (
	"context"
	"errors"
	"time"

	"Racetrack/internal/shared/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// Open 建立到 MongoDB 的唯一连接并 ping 一次确认可用。
// server selection 超时只作为连接级配置，不对单次操作另设超时。
func Open(cfg config.MongoDBConfig, l *zap.Logger) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb uri is empty")
	}
	if l == nil {
		l = zap.NewNop()
	}

	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	selection := time.Duration(cfg.ServerSelectionTimeoutMS) * time.Millisecond
	if selection <= 0 {
		selection = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(selection))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	l.Info("open mongodb success",
		zap.String("database", cfg.Database),
		zap.Duration("server_selection_timeout", selection),
	)
	return client, nil
}

// Close 断开连接，最多等待 5 秒。
func Close(client *mongo.Client, l *zap.Logger) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil && l != nil {
		l.Warn("disconnect mongodb failed", zap.Error(err))
	}
}
