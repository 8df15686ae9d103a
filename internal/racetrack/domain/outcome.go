package domain

import "Racetrack/modules/kit/errx"

// UpdateOutcome 是每个写操作的结果，只在进程内传递和序列化输出，不落库。
type UpdateOutcome struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	// Reason 是失败时的错误码，例如 DATA_UNCHANGED
	Reason string `json:"reason,omitempty"`

	err error
}

func Succeeded(data any) UpdateOutcome {
	return UpdateOutcome{Success: true, Data: data}
}

// Failed 把错误转换为失败结果；非 *errx.Error 的错误归为 INTERNAL_ERROR。
func Failed(err error) UpdateOutcome {
	if err == nil {
		err = errx.ErrInternal
	}
	reason := errx.CodeOf(err)
	if reason == "" {
		reason = errx.CodeInternal
	}
	return UpdateOutcome{
		Success: false,
		Error:   errx.MsgOf(err),
		Reason:  string(reason),
		err:     err,
	}
}

// Err 返回失败原因，成功时为 nil。
func (o UpdateOutcome) Err() error {
	return o.err
}

// ComboOutcome 是组合更新中一个 uid 的结果：先车辆分数，再比赛记录。
type ComboOutcome struct {
	Success        bool          `json:"success"`
	VehicleScores  UpdateOutcome `json:"vehicle_scores"`
	RecentRankList UpdateOutcome `json:"recent_rank_list"`
}

// QueryKind 决定 Query 返回哪些数据。
type QueryKind string

const (
	QueryUser     QueryKind = "user"
	QueryCar      QueryKind = "car"
	QueryRankList QueryKind = "rank-list"
	QueryAll      QueryKind = "all"
)

func (k QueryKind) Valid() bool {
	switch k {
	case QueryUser, QueryCar, QueryRankList, QueryAll:
		return true
	}
	return false
}

func (k QueryKind) Includes(part QueryKind) bool {
	return k == QueryAll || k == part
}

// PlayerSnapshot 是 Query 对单个 uid 的返回。
type PlayerSnapshot struct {
	Rank           *PlayerRankRecord            `json:"rank,omitempty"`
	Vehicles       map[VehicleID]VehicleScores `json:"vehicles,omitempty"`
	RecentRankList RecentRankList              `json:"recent_rank_list,omitempty"`
}
