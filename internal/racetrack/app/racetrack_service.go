package app

import (
	"context"
	"time"

	"Racetrack/internal/racetrack/app/port"
	"Racetrack/internal/racetrack/domain"
	"Racetrack/modules/kit/errx"
	"Racetrack/modules/kit/logx"

	"go.uber.org/zap"
)

type nopRecorder struct{}

func (nopRecorder) ObserveOp(string, string, time.Duration) {}
func (nopRecorder) ObserveBatch(string, int)                {}

type RacetrackService struct {
	repo        port.PlayerRepository
	log         logx.Logger
	rec         port.OpRecorder
	concurrency int
}

// NewRacetrackService concurrency 是批量操作同时处理的 uid 数上限，<=0 按 1 处理（严格顺序）。
func NewRacetrackService(repo port.PlayerRepository, log logx.Logger, rec port.OpRecorder, concurrency int) *RacetrackService {
	if log == nil {
		log = logx.Nop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &RacetrackService{
		repo:        repo,
		log:         log,
		rec:         rec,
		concurrency: concurrency,
	}
}

// GetPlayerRank 返回 UserInfo.racetrack_rank_data；缺失或存储异常时返回 nil（异常会记日志）。
func (s *RacetrackService) GetPlayerRank(ctx context.Context, uid domain.PlayerID) *domain.PlayerRankRecord {
	start := time.Now()
	rec, err := s.repo.GetRankRecord(ctx, uid)
	s.observeRead(ctx, OpGetPlayerRank, uid, start, err)
	if err != nil {
		return nil
	}
	return rec
}

// GetVehicleCollection 返回完整的 car_list，任何情况下都不返回 nil。
func (s *RacetrackService) GetVehicleCollection(ctx context.Context, uid domain.PlayerID) domain.VehicleCollection {
	start := time.Now()
	vehicles, err := s.repo.GetVehicles(ctx, uid)
	s.observeRead(ctx, OpGetVehicles, uid, start, err)
	if err != nil || vehicles == nil {
		return domain.VehicleCollection{}
	}
	return vehicles
}

func (s *RacetrackService) GetVehicleScores(ctx context.Context, uid domain.PlayerID) map[domain.VehicleID]domain.VehicleScores {
	return s.GetVehicleCollection(ctx, uid).Scores()
}

// GetRecentRankList 缺失时返回空列表，只有存储异常才返回 nil。
func (s *RacetrackService) GetRecentRankList(ctx context.Context, uid domain.PlayerID) domain.RecentRankList {
	start := time.Now()
	list, err := s.repo.GetRecentRankList(ctx, uid)
	s.observeRead(ctx, OpGetRecentRankList, uid, start, err)
	if err != nil {
		return nil
	}
	if list == nil {
		list = domain.RecentRankList{}
	}
	return list
}

func (s *RacetrackService) observeRead(ctx context.Context, op string, uid domain.PlayerID, start time.Time, err error) {
	reason := ""
	if err != nil {
		err = storeErr(ReasonStoreReadFail, uid, err)
		reason = string(errx.CodeOf(err))
		s.report(ctx, op, uid, err)
	}
	s.rec.ObserveOp(op, reason, time.Since(start))
}

// finish 统一处理写操作的指标和日志。
func (s *RacetrackService) finish(ctx context.Context, op string, uid domain.PlayerID, start time.Time, out domain.UpdateOutcome) domain.UpdateOutcome {
	s.rec.ObserveOp(op, out.Reason, time.Since(start))
	if !out.Success {
		s.report(ctx, op, uid, out.Err())
	}
	return out
}

func (s *RacetrackService) report(ctx context.Context, op string, uid domain.PlayerID, err error) {
	if err == nil {
		return
	}
	if errx.IsBiz(err) {
		logx.ReportBiz(ctx, s.log, logx.NewBizLog(op, string(errx.CodeOf(err)), errx.MsgOf(err)), zap.Int64("uid", int64(uid)))
		return
	}
	logx.ReportSysError(ctx, s.log, logx.NewSysLog(op, err), zap.Int64("uid", int64(uid)))
}

// storeErr 把驱动/网络错误包装为 SERVICE_UNAVAILABLE，原始错误保留在 cause 链上。
func storeErr(r Reason, uid domain.PlayerID, err error) error {
	return domain.ErrUnavailable.
		WithMsg(r.Message).
		WithData("reason", r.Code).
		WithData("uid", int64(uid)).
		WithCause(err)
}
