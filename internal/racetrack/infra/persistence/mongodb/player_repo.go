package mongodb

import (
	"context"
	"errors"
	"strconv"

	"Racetrack/internal/racetrack/app/port"
	"Racetrack/internal/racetrack/domain"
	"Racetrack/internal/racetrack/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UIDFilter 同时匹配 uid 的整数和十进制字符串两种存储形态。
func UIDFilter(uid domain.PlayerID) bson.D {
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: port.FieldUID, Value: int64(uid)}},
		bson.D{{Key: port.FieldUID, Value: strconv.FormatInt(int64(uid), 10)}},
	}}}
}

// SetDocument 把补丁转换成 {"$set": {...}}，字段顺序与补丁一致；
// 子文档的键顺序见 model.ToBSON。
func SetDocument(patch port.Patch) bson.D {
	fields := make(bson.D, 0, len(patch))
	for _, f := range patch {
		fields = append(fields, bson.E{Key: f.Path, Value: model.ToBSON(f.Value)})
	}
	return bson.D{{Key: "$set", Value: fields}}
}

type PlayerRepo struct {
	db *mongo.Database
}

func NewPlayerRepo(db *mongo.Database) *PlayerRepo {
	return &PlayerRepo{db: db}
}

func (r *PlayerRepo) coll(c port.Collection) *mongo.Collection {
	return r.db.Collection(string(c))
}

// findOne 只取 projection 指定的字段；文档不存在时返回 found=false。
func (r *PlayerRepo) findOne(ctx context.Context, c port.Collection, uid domain.PlayerID, projection bson.D, out any) (bool, error) {
	opts := options.FindOne().SetProjection(projection)
	err := r.coll(c).FindOne(ctx, UIDFilter(uid), opts).Decode(out)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, domain.ErrUnavailable.
		WithData("uid", int64(uid)).
		WithData("collection", string(c)).
		WithCause(err)
}

func (r *PlayerRepo) GetRankRecord(ctx context.Context, uid domain.PlayerID) (*domain.PlayerRankRecord, error) {
	var doc model.UserInfoDoc
	found, err := r.findOne(ctx, port.CollectionUserInfo, uid, bson.D{{Key: port.PathRankData, Value: 1}}, &doc)
	if err != nil || !found {
		return nil, err
	}
	return doc.RankRecord(), nil
}

func (r *PlayerRepo) GetVehicles(ctx context.Context, uid domain.PlayerID) (domain.VehicleCollection, error) {
	var doc model.UserExtraInfoDoc
	found, err := r.findOne(ctx, port.CollectionUserExtraInfo, uid, bson.D{{Key: port.PathCarList, Value: 1}}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.VehicleCollection{}, nil
	}
	return doc.Vehicles(), nil
}

func (r *PlayerRepo) GetRecentRankList(ctx context.Context, uid domain.PlayerID) (domain.RecentRankList, error) {
	var doc model.UserExtraInfoDoc
	found, err := r.findOne(ctx, port.CollectionUserExtraInfo, uid, bson.D{{Key: port.PathRecentRankList, Value: 1}}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.RecentRankList{}, nil
	}
	return doc.RecentRankList()
}

// SetFields 一次 UpdateOne；ModifiedCount 由服务端给出，写入相同值时为 0。
func (r *PlayerRepo) SetFields(ctx context.Context, c port.Collection, uid domain.PlayerID, patch port.Patch) (port.UpdateResult, error) {
	res, err := r.coll(c).UpdateOne(ctx, UIDFilter(uid), SetDocument(patch))
	if err != nil {
		return port.UpdateResult{}, domain.ErrUnavailable.
			WithData("uid", int64(uid)).
			WithData("collection", string(c)).
			WithData("fields", patch.Paths()).
			WithCause(err)
	}
	return port.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}
