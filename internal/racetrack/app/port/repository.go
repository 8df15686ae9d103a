package port

import (
	"context"
	"time"

	"Racetrack/internal/racetrack/domain"
)

// Collection 是存储中的集合名。
type Collection string

const (
	CollectionUserInfo      Collection = "UserInfo"
	CollectionUserExtraInfo Collection = "UserExtraInfo"
)

// 文档中的字段路径。
const (
	FieldUID           = "uid"
	PathRankData       = "racetrack_rank_data"
	PathRankScore      = "racetrack_rank_data.rank_score"
	PathRankLevel      = "racetrack_rank_data.rank_level"
	PathCarList        = "car_garage.car_list"
	PathRecentRankList = "racetrack_match_data.recent_rank_list"
	FieldVehicleRank   = "rank_score"
	FieldVehicleSeason = "season_best_rank_score"
	FieldVehiclePalace = "palace_score_list"
)

// VehicleFieldPath 返回 car_garage.car_list.<vehicleId>.<field>。
func VehicleFieldPath(id domain.VehicleID, field string) string {
	return PathCarList + "." + string(id) + "." + field
}

// PatchField 是一次 $set 中的一个字段路径和值。值只使用 int64/bool/string/[]any/map[string]any。
type PatchField struct {
	Path  string
	Value any
}

// Patch 是对单个文档的一次 $set，保持构建顺序。
type Patch []PatchField

func (p *Patch) Set(path string, value any) {
	*p = append(*p, PatchField{Path: path, Value: value})
}

func (p Patch) Paths() []string {
	out := make([]string, len(p))
	for i, f := range p {
		out[i] = f.Path
	}
	return out
}

// UpdateResult 是一次单文档写入的结果。Modified 是唯一的成功信号：
// 写入与现值相同的数据时 Matched=1, Modified=0。
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// PlayerRepository 是文档存储的读写端口。所有方法都按 uid（整数或字符串形态）匹配文档。
//
// 读方法在文档或字段缺失时返回零值和 nil error，只有驱动/网络错误才返回 error。
type PlayerRepository interface {
	// GetRankRecord 缺失或两个字段不全时返回 nil。
	GetRankRecord(ctx context.Context, uid domain.PlayerID) (*domain.PlayerRankRecord, error)
	// GetVehicles 缺失时返回空 map。
	GetVehicles(ctx context.Context, uid domain.PlayerID) (domain.VehicleCollection, error)
	// GetRecentRankList 缺失时返回空列表。
	GetRecentRankList(ctx context.Context, uid domain.PlayerID) (domain.RecentRankList, error)
	// SetFields 对匹配的单个文档执行一次 $set。
	SetFields(ctx context.Context, coll Collection, uid domain.PlayerID, patch Patch) (UpdateResult, error)
}

// OpRecorder 记录操作耗时和结果，reason 为空表示成功。
type OpRecorder interface {
	ObserveOp(op, reason string, d time.Duration)
	ObserveBatch(op string, n int)
}
