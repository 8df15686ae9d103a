// Package memory 是 PlayerRepository 的进程内实现，按 MongoDB 的 $set 语义修改文档：
// 点分路径逐级创建子文档，写入值与现值相同时 Modified=0。用于测试和本地演示。
package memory

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"Racetrack/internal/racetrack/app/port"
	"Racetrack/internal/racetrack/domain"
	"Racetrack/internal/racetrack/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type PlayerRepo struct {
	mu    sync.Mutex
	colls map[port.Collection][]bson.D
	fail  error
}

func NewPlayerRepo() *PlayerRepo {
	return &PlayerRepo{colls: map[port.Collection][]bson.D{}}
}

// Seed 插入一个文档，doc 必须带 uid（整数或字符串）。
// doc 可以是 map（键按字母序保存）、domain.Fields 或 bson.D（保持原顺序）。
func (r *PlayerRepo) Seed(c port.Collection, doc any) {
	d, ok := model.ToBSON(doc).(bson.D)
	if !ok {
		panic(fmt.Sprintf("memory: seed document must be an object, got %T", doc))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.colls[c] = append(r.colls[c], d)
}

// FailWith 让之后的所有读写都返回 err，nil 恢复正常。
func (r *PlayerRepo) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

// Document 返回文档的深拷贝，测试断言用。
func (r *PlayerRepo) Document(c port.Collection, uid domain.PlayerID) (map[string]any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(c, uid)
	if i < 0 {
		return nil, false
	}
	return model.Plain(r.colls[c][i]).(map[string]any), true
}

func (r *PlayerRepo) GetRankRecord(ctx context.Context, uid domain.PlayerID) (*domain.PlayerRankRecord, error) {
	var doc model.UserInfoDoc
	found, err := r.load(port.CollectionUserInfo, uid, &doc)
	if err != nil || !found {
		return nil, err
	}
	return doc.RankRecord(), nil
}

func (r *PlayerRepo) GetVehicles(ctx context.Context, uid domain.PlayerID) (domain.VehicleCollection, error) {
	var doc model.UserExtraInfoDoc
	if _, err := r.load(port.CollectionUserExtraInfo, uid, &doc); err != nil {
		return nil, err
	}
	return doc.Vehicles(), nil
}

func (r *PlayerRepo) GetRecentRankList(ctx context.Context, uid domain.PlayerID) (domain.RecentRankList, error) {
	var doc model.UserExtraInfoDoc
	if _, err := r.load(port.CollectionUserExtraInfo, uid, &doc); err != nil {
		return nil, err
	}
	return doc.RecentRankList()
}

// SetFields 和服务端一样逐字段比较，子文档的键顺序不同也算修改。
func (r *PlayerRepo) SetFields(ctx context.Context, c port.Collection, uid domain.PlayerID, patch port.Patch) (port.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return port.UpdateResult{}, domain.ErrUnavailable.WithData("uid", int64(uid)).WithCause(r.fail)
	}
	i := r.find(c, uid)
	if i < 0 {
		return port.UpdateResult{}, nil
	}

	doc := r.colls[c][i]
	next := model.ToBSON(doc).(bson.D)
	for _, f := range patch {
		var err error
		if next, err = setPath(next, strings.Split(f.Path, "."), model.ToBSON(f.Value)); err != nil {
			return port.UpdateResult{}, domain.ErrUnavailable.WithData("uid", int64(uid)).WithCause(
				fmt.Errorf("cannot create field %q: %w", f.Path, err))
		}
	}
	if reflect.DeepEqual(doc, next) {
		return port.UpdateResult{Matched: 1}, nil
	}
	r.colls[c][i] = next
	return port.UpdateResult{Matched: 1, Modified: 1}, nil
}

// load 走一遍 BSON 编解码，和真实驱动使用同一套文档模型。
func (r *PlayerRepo) load(c port.Collection, uid domain.PlayerID, out any) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return false, domain.ErrUnavailable.WithData("uid", int64(uid)).WithCause(r.fail)
	}
	i := r.find(c, uid)
	if i < 0 {
		return false, nil
	}
	raw, err := bson.Marshal(r.colls[c][i])
	if err != nil {
		return false, domain.ErrUnavailable.WithData("uid", int64(uid)).WithCause(err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return false, domain.ErrUnavailable.WithData("uid", int64(uid)).WithCause(err)
	}
	return true, nil
}

// find 按 uid 的整数或十进制字符串形态匹配第一个文档，返回下标，没有时返回 -1。
func (r *PlayerRepo) find(c port.Collection, uid domain.PlayerID) int {
	return slices.IndexFunc(r.colls[c], func(doc bson.D) bool {
		switch v := lookup(doc, port.FieldUID).(type) {
		case int64:
			return v == int64(uid)
		case string:
			return v == uid.String()
		}
		return false
	})
}

func lookup(doc bson.D, key string) any {
	for _, e := range doc {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// setPath 按点分路径写入：已有字段原位替换，新字段追加在末尾，缺失的中间层创建为空文档；
// 中间层不是文档时报错。doc 必须是调用方独占的拷贝。
func setPath(doc bson.D, parts []string, value any) (bson.D, error) {
	i := slices.IndexFunc(doc, func(e bson.E) bool { return e.Key == parts[0] })
	if len(parts) == 1 {
		if i < 0 {
			return append(doc, bson.E{Key: parts[0], Value: value}), nil
		}
		doc[i].Value = value
		return doc, nil
	}

	var child bson.D
	if i >= 0 && doc[i].Value != nil {
		d, ok := doc[i].Value.(bson.D)
		if !ok {
			return nil, fmt.Errorf("element %q has type %T", parts[0], doc[i].Value)
		}
		child = d
	}
	child, err := setPath(child, parts[1:], value)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return append(doc, bson.E{Key: parts[0], Value: child}), nil
	}
	doc[i].Value = child
	return doc, nil
}
