package domain

import (
	"strings"

	"github.com/samber/lo"
)

// VehicleID 是车辆在 car_garage.car_list 下的键。
type VehicleID string

const (
	// PalaceSlots 是 palace_score_list 的固定长度，下标 0..4 依次对应最近的比赛槽位。
	PalaceSlots = 5
	// NoScore 表示该槽位没有记录分数。
	NoScore int64 = -1
)

type PalaceScoreEntry struct {
	Score        int64 `json:"score"`
	ProtectState int64 `json:"protect_state"`
	Invalid      bool  `json:"invalid"`
}

// Document 返回写入存储时的子文档，键顺序固定为 score, protect_state, invalid。
func (e PalaceScoreEntry) Document() Fields {
	return Fields{
		{Key: "score", Value: e.Score},
		{Key: "protect_state", Value: e.ProtectState},
		{Key: "invalid", Value: e.Invalid},
	}
}

type VehicleRecord struct {
	RankScore           *int64             `json:"rank_score,omitempty"`
	SeasonBestRankScore *int64             `json:"season_best_rank_score,omitempty"`
	PalaceScoreList     []PalaceScoreEntry `json:"palace_score_list,omitempty"`
}

// PalaceEntryAt 返回第 i 个槽位；列表不足时返回默认值（protect_state=0, invalid=false），
// 此时 Score 为 NoScore。
func (v VehicleRecord) PalaceEntryAt(i int) PalaceScoreEntry {
	if i >= 0 && i < len(v.PalaceScoreList) {
		return v.PalaceScoreList[i]
	}
	return PalaceScoreEntry{Score: NoScore}
}

// WithPalaceScores 用新分数替换 5 个槽位的 score，保留每个槽位原有的 protect_state/invalid。
func (v VehicleRecord) WithPalaceScores(scores []int64) ([]PalaceScoreEntry, error) {
	if len(scores) != PalaceSlots {
		return nil, ErrInvalidPalaceScores.WithData("len", len(scores))
	}
	out := make([]PalaceScoreEntry, PalaceSlots)
	for i, s := range scores {
		cur := v.PalaceEntryAt(i)
		out[i] = PalaceScoreEntry{Score: s, ProtectState: cur.ProtectState, Invalid: cur.Invalid}
	}
	return out, nil
}

// VehicleScores 是查询接口使用的分数视图，palace_score_list 固定 5 个整数。
type VehicleScores struct {
	RankScore           *int64             `json:"rank_score"`
	SeasonBestRankScore *int64             `json:"season_best_rank_score"`
	PalaceScoreList     [PalaceSlots]int64 `json:"palace_score_list"`
}

func (v VehicleRecord) Scores() VehicleScores {
	out := VehicleScores{
		RankScore:           v.RankScore,
		SeasonBestRankScore: v.SeasonBestRankScore,
	}
	for i := range out.PalaceScoreList {
		out.PalaceScoreList[i] = v.PalaceEntryAt(i).Score
	}
	return out
}

// VehicleCollection 是一个玩家的 car_list。
type VehicleCollection map[VehicleID]VehicleRecord

func (c VehicleCollection) Has(id VehicleID) bool {
	_, ok := c[id]
	return ok
}

func (c VehicleCollection) Scores() map[VehicleID]VehicleScores {
	return lo.MapValues(c, func(v VehicleRecord, _ VehicleID) VehicleScores {
		return v.Scores()
	})
}

// UpdatedVehicleFields 是写入后回读的字段子集，只包含调用方请求更新的字段。
type UpdatedVehicleFields struct {
	RankScore           *int64              `json:"rank_score,omitempty"`
	SeasonBestRankScore *int64              `json:"season_best_rank_score,omitempty"`
	PalaceScoreList     *[PalaceSlots]int64 `json:"palace_score_list,omitempty"`
}

// Select 按 spec 中出现的字段裁剪分数视图。
func (v VehicleScores) Select(spec FieldUpdateSpec) UpdatedVehicleFields {
	var out UpdatedVehicleFields
	if spec.RankScore != nil {
		out.RankScore = v.RankScore
	}
	if spec.SeasonBestRankScore != nil {
		out.SeasonBestRankScore = v.SeasonBestRankScore
	}
	if spec.PalaceScores != nil {
		list := v.PalaceScoreList
		out.PalaceScoreList = &list
	}
	return out
}

// ValidKey 判断车辆 ID 能否安全地拼进字段路径（不含 '.'，不以 '$' 开头，非空）。
func (id VehicleID) ValidKey() bool {
	s := string(id)
	return s != "" && s[0] != '$' && !strings.Contains(s, ".")
}
