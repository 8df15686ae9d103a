package app

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"Racetrack/internal/racetrack/app/port"
	"Racetrack/internal/racetrack/domain"
	"Racetrack/modules/kit/errx"

	"github.com/samber/lo"
)

// UpdatePlayerRank 一次写入 rank_score 和 rank_level，成功后回读完整的段位记录。
func (s *RacetrackService) UpdatePlayerRank(ctx context.Context, uid domain.PlayerID, score, level int64) domain.UpdateOutcome {
	start := time.Now()
	return s.finish(ctx, OpUpdatePlayerRank, uid, start, s.updatePlayerRank(ctx, uid, score, level))
}

func (s *RacetrackService) updatePlayerRank(ctx context.Context, uid domain.PlayerID, score, level int64) domain.UpdateOutcome {
	var patch port.Patch
	patch.Set(port.PathRankScore, score)
	patch.Set(port.PathRankLevel, level)

	if err := s.write(ctx, port.CollectionUserInfo, uid, patch); err != nil {
		return domain.Failed(err)
	}
	rec, err := s.repo.GetRankRecord(ctx, uid)
	if err != nil {
		return domain.Failed(storeErr(ReasonStoreReReadFail, uid, err))
	}
	if rec == nil {
		return domain.Failed(domain.ErrPlayerNotFound.WithData("uid", int64(uid)))
	}
	return domain.Succeeded(rec)
}

// UpdateVehicleScores 更新一辆已有车辆的 rank_score 和 season_best_rank_score。
func (s *RacetrackService) UpdateVehicleScores(ctx context.Context, uid domain.PlayerID, vid domain.VehicleID, rankScore, seasonBest int64) domain.UpdateOutcome {
	start := time.Now()
	return s.finish(ctx, OpUpdateVehicleScores, uid, start, s.updateVehicleScores(ctx, uid, vid, rankScore, seasonBest))
}

func (s *RacetrackService) updateVehicleScores(ctx context.Context, uid domain.PlayerID, vid domain.VehicleID, rankScore, seasonBest int64) domain.UpdateOutcome {
	spec := domain.FieldUpdateSpec{
		RankScore:           domain.Int64Ptr(rankScore),
		SeasonBestRankScore: domain.Int64Ptr(seasonBest),
	}
	current, err := s.repo.GetVehicles(ctx, uid)
	if err != nil {
		return domain.Failed(storeErr(ReasonStoreReadFail, uid, err))
	}
	if !current.Has(vid) || !vid.ValidKey() {
		return domain.Failed(domain.ErrVehicleNotFound.
			WithMsgf("车辆 %s 不存在", vid).
			WithData("uid", int64(uid)).
			WithData("vehicle_id", string(vid)))
	}

	var patch port.Patch
	patch.Set(port.VehicleFieldPath(vid, port.FieldVehicleRank), rankScore)
	patch.Set(port.VehicleFieldPath(vid, port.FieldVehicleSeason), seasonBest)
	if err := s.write(ctx, port.CollectionUserExtraInfo, uid, patch); err != nil {
		return domain.Failed(err)
	}
	return s.reReadVehicles(ctx, uid, domain.VehicleUpdates{vid: spec})
}

// BatchUpdateVehicles 把多辆车的稀疏更新合并成一次写入。
//
// 所有校验都在写入前完成：任何一辆车不合法都不会写入任何数据。
func (s *RacetrackService) BatchUpdateVehicles(ctx context.Context, uid domain.PlayerID, updates domain.VehicleUpdates) domain.UpdateOutcome {
	start := time.Now()
	return s.finish(ctx, OpBatchUpdateVehicles, uid, start, s.batchUpdateVehicles(ctx, uid, updates))
}

func (s *RacetrackService) batchUpdateVehicles(ctx context.Context, uid domain.PlayerID, updates domain.VehicleUpdates) domain.UpdateOutcome {
	if len(updates) == 0 {
		return domain.Failed(domain.ErrNoValidFields.WithData("uid", int64(uid)))
	}

	current, err := s.repo.GetVehicles(ctx, uid)
	if err != nil {
		return domain.Failed(storeErr(ReasonStoreReadFail, uid, err))
	}
	if len(current) == 0 {
		return domain.Failed(domain.ErrNoVehicleData.WithData("uid", int64(uid)))
	}

	ids := lo.Keys(updates)
	slices.Sort(ids)
	invalid := lo.Filter(ids, func(id domain.VehicleID, _ int) bool {
		return !current.Has(id) || !id.ValidKey()
	})
	if len(invalid) > 0 {
		names := lo.Map(invalid, func(id domain.VehicleID, _ int) string { return string(id) })
		return domain.Failed(domain.ErrInvalidVehicleIDs.
			WithMsgf("无效车辆ID: %s", strings.Join(names, ", ")).
			WithData("uid", int64(uid)).
			WithData("vehicle_ids", names))
	}

	if lo.EveryBy(lo.Values(updates), domain.FieldUpdateSpec.Empty) {
		return domain.Failed(domain.ErrNoValidFields.WithData("uid", int64(uid)))
	}
	patch, err := buildVehiclePatch(current, ids, updates)
	if err != nil {
		return domain.Failed(err)
	}

	if err := s.write(ctx, port.CollectionUserExtraInfo, uid, patch); err != nil {
		return domain.Failed(err)
	}
	return s.reReadVehicles(ctx, uid, updates)
}

// buildVehiclePatch 按车辆 ID 的顺序生成字段路径补丁；palace 分数保留每个槽位原有的
// protect_state/invalid。
func buildVehiclePatch(current domain.VehicleCollection, ids []domain.VehicleID, updates domain.VehicleUpdates) (port.Patch, error) {
	var patch port.Patch
	for _, id := range ids {
		spec := updates[id]
		if spec.RankScore != nil {
			patch.Set(port.VehicleFieldPath(id, port.FieldVehicleRank), *spec.RankScore)
		}
		if spec.SeasonBestRankScore != nil {
			patch.Set(port.VehicleFieldPath(id, port.FieldVehicleSeason), *spec.SeasonBestRankScore)
		}
		if spec.PalaceScores != nil {
			entries, err := current[id].WithPalaceScores(*spec.PalaceScores)
			if err != nil {
				var xe *errx.Error
				if errors.As(err, &xe) {
					return nil, xe.
						WithMsgf("车辆 %s: %s", id, xe.Msg()).
						WithData("vehicle_id", string(id))
				}
				return nil, err
			}
			docs := lo.Map(entries, func(e domain.PalaceScoreEntry, _ int) any { return e.Document() })
			patch.Set(port.VehicleFieldPath(id, port.FieldVehiclePalace), docs)
		}
	}
	return patch, nil
}

// reReadVehicles 写入成功后回读，只返回每辆车请求过的字段。
func (s *RacetrackService) reReadVehicles(ctx context.Context, uid domain.PlayerID, updates domain.VehicleUpdates) domain.UpdateOutcome {
	after, err := s.repo.GetVehicles(ctx, uid)
	if err != nil {
		return domain.Failed(storeErr(ReasonStoreReReadFail, uid, err))
	}
	out := make(map[domain.VehicleID]domain.UpdatedVehicleFields, len(updates))
	for id, spec := range updates {
		out[id] = after[id].Scores().Select(spec)
	}
	return domain.Succeeded(out)
}

// UpdateRecentRankList 整表替换最近比赛记录，nil 按空列表写入。
func (s *RacetrackService) UpdateRecentRankList(ctx context.Context, uid domain.PlayerID, list domain.RecentRankList) domain.UpdateOutcome {
	start := time.Now()
	return s.finish(ctx, OpUpdateRecentRankList, uid, start, s.updateRecentRankList(ctx, uid, list))
}

func (s *RacetrackService) updateRecentRankList(ctx context.Context, uid domain.PlayerID, list domain.RecentRankList) domain.UpdateOutcome {
	if list == nil {
		list = domain.RecentRankList{}
	}
	var patch port.Patch
	patch.Set(port.PathRecentRankList, list.Values())
	if err := s.write(ctx, port.CollectionUserExtraInfo, uid, patch); err != nil {
		return domain.Failed(err)
	}
	return domain.Succeeded(list)
}

// UpdateSingleRecord 替换最近比赛记录中的一项，然后整表写回。
func (s *RacetrackService) UpdateSingleRecord(ctx context.Context, uid domain.PlayerID, index int, value domain.MatchRecord) domain.UpdateOutcome {
	start := time.Now()
	return s.finish(ctx, OpUpdateSingleRecord, uid, start, s.updateSingleRecord(ctx, uid, index, value))
}

func (s *RacetrackService) updateSingleRecord(ctx context.Context, uid domain.PlayerID, index int, value domain.MatchRecord) domain.UpdateOutcome {
	current, err := s.repo.GetRecentRankList(ctx, uid)
	if err != nil {
		return domain.Failed(storeErr(ReasonStoreReadFail, uid, err))
	}
	next, err := current.Replace(index, value)
	if err != nil {
		return domain.Failed(err)
	}
	var patch port.Patch
	patch.Set(port.PathRecentRankList, next.Values())
	if err := s.write(ctx, port.CollectionUserExtraInfo, uid, patch); err != nil {
		return domain.Failed(err)
	}
	return domain.Succeeded(next)
}

// write 执行一次 $set。只有 Modified>0 才算成功：
// 没匹配到文档返回 PLAYER_NOT_FOUND，匹配到但值没变返回 DATA_UNCHANGED。
func (s *RacetrackService) write(ctx context.Context, coll port.Collection, uid domain.PlayerID, patch port.Patch) error {
	res, err := s.repo.SetFields(ctx, coll, uid, patch)
	if err != nil {
		return storeErr(ReasonStoreWriteFail, uid, err)
	}
	switch {
	case res.Modified > 0:
		return nil
	case res.Matched == 0:
		return domain.ErrPlayerNotFound.
			WithData("uid", int64(uid)).
			WithData("collection", string(coll))
	default:
		return domain.ErrDataUnchanged.
			WithData("uid", int64(uid)).
			WithData("fields", patch.Paths())
	}
}
