package mongo

import (
	"testing"

	"Racetrack/internal/shared/config"
)

func TestOpen_uri为空直接返回错误(t *testing.T) {
	client, err := Open(config.MongoDBConfig{}, nil)
	if err == nil || client != nil {
		t.Fatalf("期望 uri 为空时报错, client=%v err=%v", client, err)
	}
}

func TestClose_nil客户端不panic(t *testing.T) {
	Close(nil, nil)
}
