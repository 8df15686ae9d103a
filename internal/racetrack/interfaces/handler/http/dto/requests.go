package dto

import "Racetrack/internal/racetrack/domain"

type QueryReq struct {
	UIDs []domain.PlayerID `json:"uids" binding:"required"`
	// Type 为 user / car / rank-list / all，默认 all
	Type domain.QueryKind `json:"type"`
}

type UpdateUserReq struct {
	UID   *domain.PlayerID `json:"uid" binding:"required"`
	Score *int64           `json:"score" binding:"required"`
	Level *int64           `json:"level" binding:"required"`
}

type UpdateCarReq struct {
	UID         *domain.PlayerID `json:"uid" binding:"required"`
	CarID       domain.VehicleID `json:"car_id" binding:"required"`
	RankScore   *int64           `json:"rank_score" binding:"required"`
	SeasonScore *int64           `json:"season_score" binding:"required"`
}

type BatchUpdateCarReq struct {
	UIDs        []domain.PlayerID `json:"uids" binding:"required"`
	CarID       domain.VehicleID  `json:"car_id" binding:"required"`
	RankScore   *int64            `json:"rank_score" binding:"required"`
	SeasonScore *int64            `json:"season_score" binding:"required"`
}

type BatchUpdateUserCarsReq struct {
	UID     *domain.PlayerID      `json:"uid" binding:"required"`
	Updates domain.VehicleUpdates `json:"updates" binding:"required"`
}

type UpdateRankListReq struct {
	UID     *domain.PlayerID      `json:"uid" binding:"required"`
	NewList domain.RecentRankList `json:"new_list" binding:"required"`
}

type BatchUpdateRankListReq struct {
	UIDs    []domain.PlayerID     `json:"uids" binding:"required"`
	NewList domain.RecentRankList `json:"new_list" binding:"required"`
}

type UpdateRecordReq struct {
	UID   *domain.PlayerID    `json:"uid" binding:"required"`
	Index *int                `json:"index" binding:"required"`
	Value *domain.MatchRecord `json:"value" binding:"required"`
}

type BatchUpdateRecordReq struct {
	UIDs  []domain.PlayerID   `json:"uids" binding:"required"`
	Index *int                `json:"index" binding:"required"`
	Value *domain.MatchRecord `json:"value" binding:"required"`
}

type ComboUpdateReq struct {
	UIDs        []domain.PlayerID     `json:"uids" binding:"required"`
	CarID       domain.VehicleID      `json:"car_id" binding:"required"`
	RankScore   *int64                `json:"rank_score" binding:"required"`
	SeasonScore *int64                `json:"season_score" binding:"required"`
	RankList    domain.RecentRankList `json:"rank_list" binding:"required"`
}
