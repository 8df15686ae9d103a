package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"Racetrack/internal/racetrack/domain"
	"Racetrack/modules/kit/errx"
)

func TestForEachPlayer_去重且并发受限(t *testing.T) {
	var running, peak atomic.Int32
	var mu sync.Mutex
	calls := map[domain.PlayerID]int{}

	uids := []domain.PlayerID{1, 2, 3, 2, 4, 5, 1, 6}
	out := forEachPlayer(context.Background(), 2, uids, func(ctx context.Context, uid domain.PlayerID) int64 {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)

		mu.Lock()
		calls[uid]++
		mu.Unlock()
		return int64(uid) * 10
	})

	if len(out) != 6 {
		t.Fatalf("expected 6 unique results, got=%d", len(out))
	}
	for uid, n := range calls {
		if n != 1 {
			t.Fatalf("uid %d processed %d times", uid, n)
		}
		if out[uid] != int64(uid)*10 {
			t.Fatalf("result mismatch for %d: %d", uid, out[uid])
		}
	}
	if peak.Load() > 2 {
		t.Fatalf("concurrency limit exceeded: %d", peak.Load())
	}
}

func TestForEachPlayer_并发为1时严格顺序(t *testing.T) {
	var order []domain.PlayerID
	forEachPlayer(context.Background(), 1, []domain.PlayerID{3, 1, 2}, func(ctx context.Context, uid domain.PlayerID) struct{} {
		order = append(order, uid)
		return struct{}{}
	})
	if len(order) != 3 || order[0] != 3 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestBatchUpdateRecentRankList_单个失败不影响其他(t *testing.T) {
	s, _, _, rec := newTestService(4)
	list := domain.RecentRankList{domain.PlaceholderRecord(0), domain.PlaceholderRecord(0)}

	out := s.BatchUpdateRecentRankList(context.Background(), []domain.PlayerID{uidA, 404, uidB, uidA}, list)
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got=%v", out)
	}
	if !out[uidA].Success || !out[uidB].Success {
		t.Fatalf("existing players should succeed: %+v", out)
	}
	if out[404].Success || out[404].Reason != string(domain.CodePlayerNotFound) {
		t.Fatalf("missing player should fail: %+v", out[404])
	}
	if rec.batches[OpBatchUpdateRecentRankList] != 4 {
		t.Fatalf("batch size not recorded: %v", rec.batches)
	}
}

func TestBatchUpdateSingleRecord_越界只影响对应uid(t *testing.T) {
	s, _, _, _ := newTestService(2)

	out := s.BatchUpdateSingleRecord(context.Background(), []domain.PlayerID{uidA, uidB}, 1, domain.PlaceholderRecord(9))
	if !out[uidA].Success {
		t.Fatalf("uidA should succeed: %+v", out[uidA])
	}
	if out[uidB].Reason != string(domain.CodeIndexOutOfRange) {
		t.Fatalf("uidB should be out of range: %+v", out[uidB])
	}
}

func TestBatchUpdateVehicleScores_字符串uid(t *testing.T) {
	s, _, _, _ := newTestService(2)

	out := s.BatchUpdateVehicleScores(context.Background(), []domain.PlayerID{uidA, uidS, uidB}, "10001", 300, 400)
	if !out[uidA].Success || !out[uidS].Success {
		t.Fatalf("expected success for both forms of uid: %+v", out)
	}
	if out[uidB].Reason != string(domain.CodeVehicleNotFound) {
		t.Fatalf("uidB has no such vehicle: %+v", out[uidB])
	}
}

func TestComboUpdate_两步都成功才算成功(t *testing.T) {
	s, _, _, _ := newTestService(2)
	list := domain.RecentRankList{domain.ResultRecord(map[string]any{"rank": int64(1)})}

	out := s.ComboUpdate(context.Background(), []domain.PlayerID{uidA, uidB}, "10001", 700, 800, list)

	a := out[uidA]
	if !a.Success || !a.VehicleScores.Success || !a.RecentRankList.Success {
		t.Fatalf("uidA should fully succeed: %+v", a)
	}
	b := out[uidB]
	if b.Success {
		t.Fatalf("uidB should fail overall: %+v", b)
	}
	if b.VehicleScores.Reason != string(domain.CodeVehicleNotFound) {
		t.Fatalf("vehicle step should fail: %+v", b.VehicleScores)
	}
	if !b.RecentRankList.Success {
		t.Fatalf("rank list step runs independently: %+v", b.RecentRankList)
	}
}

func TestQuery_按类型返回(t *testing.T) {
	s, _, _, _ := newTestService(2)
	ctx := context.Background()

	all, err := s.Query(ctx, []domain.PlayerID{uidA}, domain.QueryAll)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	snap := all[uidA]
	if snap.Rank == nil || len(snap.Vehicles) != 2 || len(snap.RecentRankList) != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	cars, _ := s.Query(ctx, []domain.PlayerID{uidA}, domain.QueryCar)
	if cars[uidA].Rank != nil || cars[uidA].RecentRankList != nil || len(cars[uidA].Vehicles) != 2 {
		t.Fatalf("car query should only return vehicles: %+v", cars[uidA])
	}

	if _, err := s.Query(ctx, []domain.PlayerID{uidA}, "bogus"); errx.CodeOf(err) != errx.CodeReqParamError {
		t.Fatalf("expected param error, got=%v", err)
	}
}
