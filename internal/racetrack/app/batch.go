package app

import (
	"context"
	"time"

	"Racetrack/internal/racetrack/domain"
	"Racetrack/modules/kit/errx"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// forEachPlayer 对去重后的每个 uid 独立执行 fn，最多 limit 个同时进行。
// 一个 uid 失败不影响其他 uid；fn 自己负责把失败写进结果。
func forEachPlayer[T any](ctx context.Context, limit int, uids []domain.PlayerID, fn func(context.Context, domain.PlayerID) T) map[domain.PlayerID]T {
	unique := lo.Uniq(uids)
	results := make([]T, len(unique))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, uid := range unique {
		g.Go(func() error {
			results[i] = fn(ctx, uid)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[domain.PlayerID]T, len(unique))
	for i, uid := range unique {
		out[uid] = results[i]
	}
	return out
}

// BatchUpdateRecentRankList 对每个 uid 写入同一份最近比赛记录。
func (s *RacetrackService) BatchUpdateRecentRankList(ctx context.Context, uids []domain.PlayerID, list domain.RecentRankList) map[domain.PlayerID]domain.UpdateOutcome {
	s.rec.ObserveBatch(OpBatchUpdateRecentRankList, len(uids))
	return forEachPlayer(ctx, s.concurrency, uids, func(ctx context.Context, uid domain.PlayerID) domain.UpdateOutcome {
		return s.UpdateRecentRankList(ctx, uid, list.Clone())
	})
}

// BatchUpdateSingleRecord 对每个 uid 替换同一个下标的比赛记录，越界只影响对应 uid。
func (s *RacetrackService) BatchUpdateSingleRecord(ctx context.Context, uids []domain.PlayerID, index int, value domain.MatchRecord) map[domain.PlayerID]domain.UpdateOutcome {
	s.rec.ObserveBatch(OpBatchUpdateSingleRecord, len(uids))
	return forEachPlayer(ctx, s.concurrency, uids, func(ctx context.Context, uid domain.PlayerID) domain.UpdateOutcome {
		return s.UpdateSingleRecord(ctx, uid, index, value)
	})
}

func (s *RacetrackService) BatchUpdateVehicleScores(ctx context.Context, uids []domain.PlayerID, vid domain.VehicleID, rankScore, seasonBest int64) map[domain.PlayerID]domain.UpdateOutcome {
	s.rec.ObserveBatch(OpBatchUpdateVehicleScores, len(uids))
	return forEachPlayer(ctx, s.concurrency, uids, func(ctx context.Context, uid domain.PlayerID) domain.UpdateOutcome {
		return s.UpdateVehicleScores(ctx, uid, vid, rankScore, seasonBest)
	})
}

// ComboUpdate 对每个 uid 先更新车辆分数，再替换最近比赛记录。两步互不依赖，
// 第一步失败时第二步照常执行；两步都成功才算该 uid 成功。
func (s *RacetrackService) ComboUpdate(ctx context.Context, uids []domain.PlayerID, vid domain.VehicleID, rankScore, seasonBest int64, list domain.RecentRankList) map[domain.PlayerID]domain.ComboOutcome {
	s.rec.ObserveBatch(OpComboUpdate, len(uids))
	return forEachPlayer(ctx, s.concurrency, uids, func(ctx context.Context, uid domain.PlayerID) domain.ComboOutcome {
		start := time.Now()
		car := s.UpdateVehicleScores(ctx, uid, vid, rankScore, seasonBest)
		rank := s.UpdateRecentRankList(ctx, uid, list.Clone())
		out := domain.ComboOutcome{
			Success:        car.Success && rank.Success,
			VehicleScores:  car,
			RecentRankList: rank,
		}
		reason := ""
		if !out.Success {
			reason = lo.Ternary(car.Success, rank.Reason, car.Reason)
		}
		s.rec.ObserveOp(OpComboUpdate, reason, time.Since(start))
		return out
	})
}

// Query 按 kind 读取每个 uid 的数据快照。
func (s *RacetrackService) Query(ctx context.Context, uids []domain.PlayerID, kind domain.QueryKind) (map[domain.PlayerID]domain.PlayerSnapshot, error) {
	if !kind.Valid() {
		return nil, errx.ErrReqParamERR.WithMsgf("不支持的查询类型: %s", kind)
	}
	s.rec.ObserveBatch(OpQuery, len(uids))
	return forEachPlayer(ctx, s.concurrency, uids, func(ctx context.Context, uid domain.PlayerID) domain.PlayerSnapshot {
		var snap domain.PlayerSnapshot
		if kind.Includes(domain.QueryUser) {
			snap.Rank = s.GetPlayerRank(ctx, uid)
		}
		if kind.Includes(domain.QueryCar) {
			snap.Vehicles = s.GetVehicleScores(ctx, uid)
		}
		if kind.Includes(domain.QueryRankList) {
			snap.RecentRankList = s.GetRecentRankList(ctx, uid)
		}
		return snap
	}), nil
}
