package domain

import (
	"bytes"
	"encoding/json"

	"github.com/go-viper/mapstructure/v2"
)

// FieldUpdateSpec 是一辆车的稀疏更新请求，nil 表示该字段未请求更新。
type FieldUpdateSpec struct {
	RankScore           *int64   `json:"rank_score,omitempty" mapstructure:"rank_score"`
	SeasonBestRankScore *int64   `json:"season_best_rank_score,omitempty" mapstructure:"season_best_rank_score"`
	PalaceScores        *[]int64 `json:"palace_scores,omitempty" mapstructure:"palace_scores"`
}

// Empty 表示没有请求任何已知字段。
func (s FieldUpdateSpec) Empty() bool {
	return s.RankScore == nil && s.SeasonBestRankScore == nil && s.PalaceScores == nil
}

// DecodeFieldUpdateSpec 从通用对象解码，不认识的键直接报错而不是忽略。
func DecodeFieldUpdateSpec(raw map[string]any) (FieldUpdateSpec, error) {
	var spec FieldUpdateSpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &spec,
	})
	if err != nil {
		return FieldUpdateSpec{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return FieldUpdateSpec{}, ErrInvalidUpdateSpec.WithMsg(err.Error()).WithCause(err)
	}
	return spec, nil
}

func (s *FieldUpdateSpec) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return ErrInvalidUpdateSpec.WithCause(err)
	}
	spec, err := DecodeFieldUpdateSpec(raw)
	if err != nil {
		return err
	}
	*s = spec
	return nil
}

// VehicleUpdates 是 BatchUpdateVehicles 的请求体：vehicleId -> FieldUpdateSpec。
type VehicleUpdates map[VehicleID]FieldUpdateSpec

func Int64Ptr(v int64) *int64 {
	return &v
}

func ScoresPtr(v ...int64) *[]int64 {
	return &v
}
