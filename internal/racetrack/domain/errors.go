package domain

import (
	"errors"

	"Racetrack/modules/kit/errx"
)

// Code 表示领域错误码，作为 UpdateOutcome.reason 对外暴露。
type Code = errx.Code

const (
	CodePlayerNotFound      Code = "PLAYER_NOT_FOUND"
	CodeVehicleNotFound     Code = "VEHICLE_NOT_FOUND"
	CodeNoVehicleData       Code = "NO_VEHICLE_DATA"
	CodeInvalidVehicleIDs   Code = "INVALID_VEHICLE_IDS"
	CodeInvalidPalaceScores Code = "INVALID_PALACE_SCORES"
	CodeNoValidFields       Code = "NO_VALID_FIELDS"
	CodeInvalidUpdateSpec   Code = "INVALID_UPDATE_SPEC"
	CodeIndexOutOfRange     Code = "INDEX_OUT_OF_RANGE"
	CodeInvalidMatchRecord  Code = "INVALID_MATCH_RECORD"
	CodeDataUnchanged       Code = "DATA_UNCHANGED"
	CodeUnavailable         Code = errx.CodeUnavailable
)

var (
	ErrPlayerNotFound      = errx.NewBiz(CodePlayerNotFound, "用户数据不存在")
	ErrVehicleNotFound     = errx.NewBiz(CodeVehicleNotFound, "车辆不存在")
	ErrNoVehicleData       = errx.NewBiz(CodeNoVehicleData, "用户无车辆数据")
	ErrInvalidVehicleIDs   = errx.NewBiz(CodeInvalidVehicleIDs, "无效车辆ID")
	ErrInvalidPalaceScores = errx.NewBiz(CodeInvalidPalaceScores, "palace_scores必须是长度为5的列表")
	ErrNoValidFields       = errx.NewBiz(CodeNoValidFields, "无有效更新字段")
	ErrInvalidUpdateSpec   = errx.NewBiz(CodeInvalidUpdateSpec, "更新内容格式错误")
	ErrIndexOutOfRange     = errx.NewBiz(CodeIndexOutOfRange, "索引超出范围")
	ErrInvalidMatchRecord  = errx.NewBiz(CodeInvalidMatchRecord, "比赛记录只能是对象或整数")
	ErrDataUnchanged       = errx.NewBiz(CodeDataUnchanged, "数据未改变")
	ErrUnavailable         = errx.ErrUnavailable
)

// Category 是错误的粗分类，决定调用方如何处理失败。
type Category string

const (
	CategoryNone       Category = ""
	CategoryNotFound   Category = "not_found"
	CategoryValidation Category = "validation"
	CategoryNoOpWrite  Category = "noop_write"
	CategoryTransport  Category = "transport"
)

// CategoryOf 把错误归入 not_found / validation / noop_write / transport 之一。
// 不认识的系统错误一律视为 transport。
func CategoryOf(err error) Category {
	if err == nil {
		return CategoryNone
	}
	switch {
	case errors.Is(err, ErrPlayerNotFound), errors.Is(err, ErrVehicleNotFound), errors.Is(err, ErrNoVehicleData):
		return CategoryNotFound
	case errors.Is(err, ErrDataUnchanged):
		return CategoryNoOpWrite
	case errors.Is(err, ErrInvalidVehicleIDs), errors.Is(err, ErrInvalidPalaceScores),
		errors.Is(err, ErrNoValidFields), errors.Is(err, ErrInvalidUpdateSpec),
		errors.Is(err, ErrIndexOutOfRange), errors.Is(err, ErrInvalidMatchRecord),
		errors.Is(err, errx.ErrReqParamERR):
		return CategoryValidation
	default:
		return CategoryTransport
	}
}
