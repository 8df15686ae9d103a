// Package model 定义 UserInfo / UserExtraInfo 两个集合的存储文档形态，以及与领域类型的转换。
package model

import (
	"Racetrack/internal/racetrack/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserInfoDoc 只声明本服务关心的字段，其余字段解码时忽略。
type UserInfoDoc struct {
	RacetrackRankData *RankDataDoc `bson:"racetrack_rank_data,omitempty"`
}

type RankDataDoc struct {
	RankScore *int64 `bson:"rank_score,omitempty"`
	RankLevel *int64 `bson:"rank_level,omitempty"`
}

type UserExtraInfoDoc struct {
	CarGarage          *CarGarageDoc `bson:"car_garage,omitempty"`
	RacetrackMatchData *MatchDataDoc `bson:"racetrack_match_data,omitempty"`
}

type CarGarageDoc struct {
	CarList map[string]VehicleDoc `bson:"car_list,omitempty"`
}

type VehicleDoc struct {
	RankScore           *int64           `bson:"rank_score,omitempty"`
	SeasonBestRankScore *int64           `bson:"season_best_rank_score,omitempty"`
	PalaceScoreList     []PalaceEntryDoc `bson:"palace_score_list,omitempty"`
}

type PalaceEntryDoc struct {
	Score        *int64 `bson:"score,omitempty"`
	ProtectState *int64 `bson:"protect_state,omitempty"`
	Invalid      *bool  `bson:"invalid,omitempty"`
}

type MatchDataDoc struct {
	RecentRankList bson.A `bson:"recent_rank_list,omitempty"`
}

// RankRecord 两个字段任一缺失都视为没有段位数据。
func (d UserInfoDoc) RankRecord() *domain.PlayerRankRecord {
	rd := d.RacetrackRankData
	if rd == nil || rd.RankScore == nil || rd.RankLevel == nil {
		return nil
	}
	return &domain.PlayerRankRecord{RankScore: *rd.RankScore, RankLevel: *rd.RankLevel}
}

func (d UserExtraInfoDoc) Vehicles() domain.VehicleCollection {
	out := domain.VehicleCollection{}
	if d.CarGarage == nil {
		return out
	}
	for id, v := range d.CarGarage.CarList {
		out[domain.VehicleID(id)] = v.Record()
	}
	return out
}

func (d VehicleDoc) Record() domain.VehicleRecord {
	rec := domain.VehicleRecord{
		RankScore:           d.RankScore,
		SeasonBestRankScore: d.SeasonBestRankScore,
	}
	if len(d.PalaceScoreList) > 0 {
		rec.PalaceScoreList = make([]domain.PalaceScoreEntry, len(d.PalaceScoreList))
		for i, e := range d.PalaceScoreList {
			rec.PalaceScoreList[i] = e.Entry()
		}
	}
	return rec
}

// Entry 缺失的 score 记为 -1，protect_state/invalid 缺失取零值。
func (d PalaceEntryDoc) Entry() domain.PalaceScoreEntry {
	e := domain.PalaceScoreEntry{Score: domain.NoScore}
	if d.Score != nil {
		e.Score = *d.Score
	}
	if d.ProtectState != nil {
		e.ProtectState = *d.ProtectState
	}
	if d.Invalid != nil {
		e.Invalid = *d.Invalid
	}
	return e
}

// RecentRankList 没有比赛数据时返回空列表（非 nil）。
func (d UserExtraInfoDoc) RecentRankList() (domain.RecentRankList, error) {
	if d.RacetrackMatchData == nil {
		return domain.RecentRankList{}, nil
	}
	raw := d.RacetrackMatchData.RecentRankList
	out := make(domain.RecentRankList, 0, len(raw))
	for _, v := range raw {
		rec, err := domain.MatchRecordFrom(FromBSON(v))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
