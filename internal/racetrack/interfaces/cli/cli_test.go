package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Racetrack/internal/racetrack/app"
	"Racetrack/internal/racetrack/app/port"
	"Racetrack/internal/racetrack/domain"
	"Racetrack/internal/racetrack/infra/persistence/memory"
	"Racetrack/modules/kit/errx"
)

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer, *memory.PlayerRepo) {
	t.Helper()
	repo := memory.NewPlayerRepo()
	for _, uid := range []int64{1001, 1002} {
		repo.Seed(port.CollectionUserInfo, map[string]any{
			"uid":                 uid,
			"racetrack_rank_data": map[string]any{"rank_score": int64(100), "rank_level": int64(2)},
		})
		repo.Seed(port.CollectionUserExtraInfo, map[string]any{
			"uid": uid,
			"car_garage": map[string]any{"car_list": map[string]any{
				"10001": map[string]any{"rank_score": int64(10)},
			}},
			"racetrack_match_data": map[string]any{"recent_rank_list": []any{
				int64(1), map[string]any{"rank": int64(3), "map": "desert"},
			}},
		})
	}
	out := &bytes.Buffer{}
	svc := app.NewRacetrackService(repo, nil, nil, 2)
	return New(svc, out, &bytes.Buffer{}, nil), out, repo
}

func TestRun_未知命令(t *testing.T) {
	c, _, _ := newTestCLI(t)
	err := c.Run(context.Background(), []string{"bogus"})
	if errx.CodeOf(err) != errx.CodeReqParamError {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := c.Run(context.Background(), []string{"car"}); err == nil {
		t.Fatalf("group without subcommand should fail")
	}
}

func TestRun_缺少必填参数(t *testing.T) {
	c, _, _ := newTestCLI(t)
	err := c.Run(context.Background(), []string{"update-user", "--uid", "1001", "--score", "1"})
	if err == nil || !strings.Contains(errx.MsgOf(err), "--level") {
		t.Fatalf("expected missing --level, got %v", err)
	}
}

func TestQuery_输出各部分(t *testing.T) {
	c, out, _ := newTestCLI(t)
	if err := c.Run(context.Background(), []string{"query", "--uids", "1001,404"}); err != nil {
		t.Fatalf("query: %v", err)
	}
	s := out.String()
	for _, part := range []string{"===== UID 1001 查询结果 =====", "[用户排名]:", "[车辆分数]:", `"season_best_rank_score": N/A`, "[比赛记录]:", `map: "desert",`, "===== UID 404 查询结果 ====="} {
		if !strings.Contains(s, part) {
			t.Fatalf("missing %q in:\n%s", part, s)
		}
	}
	if strings.Count(s, "[用户排名]") != 1 {
		t.Fatalf("empty sections must be skipped:\n%s", s)
	}
}

func TestQuery_非法类型(t *testing.T) {
	c, _, _ := newTestCLI(t)
	err := c.Run(context.Background(), []string{"query", "--uids", "1001", "--type", "bogus"})
	if errx.CodeOf(err) != errx.CodeReqParamError {
		t.Fatalf("expected param error, got %v", err)
	}
}

func TestCarBatchUpdate_从文件读取(t *testing.T) {
	c, out, repo := newTestCLI(t)
	file := filepath.Join(t.TempDir(), "uids.txt")
	if err := os.WriteFile(file, []byte("1001\n\n404\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := c.Run(context.Background(), []string{"car", "batch-update", "--file", file,
		"--car-id", "10001", "--rank-score", "500", "--season-score", "600"})
	if err != nil {
		t.Fatalf("batch-update: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "UID来源: 从文件 "+file+" 读取") || !strings.Contains(s, `"总计": "1/2"`) {
		t.Fatalf("unexpected output:\n%s", s)
	}
	doc, _ := repo.Document(port.CollectionUserExtraInfo, 1001)
	car := doc["car_garage"].(map[string]any)["car_list"].(map[string]any)["10001"].(map[string]any)
	if car["rank_score"] != int64(500) {
		t.Fatalf("rank_score not written: %v", car)
	}
}

func TestParseUIDs(t *testing.T) {
	if _, _, err := parseUIDs("1,2", "x.txt"); err == nil {
		t.Fatalf("both sources should be rejected")
	}
	if _, _, err := parseUIDs("", ""); err == nil {
		t.Fatalf("no source should be rejected")
	}
	ids, src, err := parseUIDs(" 1, 2,,3 ", "")
	if err != nil || len(ids) != 3 || src != "从命令行参数读取" {
		t.Fatalf("unexpected: %v %q %v", ids, src, err)
	}
	if _, _, err := parseUIDs("1,abc", ""); err == nil {
		t.Fatalf("bad uid should be rejected")
	}
}

func TestRankList_获取与更新(t *testing.T) {
	c, out, _ := newTestCLI(t)
	ctx := context.Background()
	if err := c.Run(ctx, []string{"rank-list", "update-record", "--uid", "1001", "--index", "0", "--value", `{"rank":2}`}); err != nil {
		t.Fatalf("update-record: %v", err)
	}
	out.Reset()
	if err := c.Run(ctx, []string{"rank-list", "get", "--uid", "1001"}); err != nil {
		t.Fatalf("get: %v", err)
	}
	want := "[\n  {\n    rank: 2,\n  },\n  {\n    map: \"desert\",\n    rank: 3,\n  },\n]"
	if !strings.Contains(out.String(), want) {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	err := c.Run(ctx, []string{"rank-list", "update-record", "--uid", "1001", "--index", "0", "--value", `"x"`})
	if errx.CodeOf(err) != domain.CodeInvalidMatchRecord {
		t.Fatalf("expected invalid record, got %v", err)
	}
}

func TestBatchUpdateUserCars_未知字段(t *testing.T) {
	c, _, _ := newTestCLI(t)
	err := c.Run(context.Background(), []string{"car", "batch-update-user-cars", "--uid", "1001",
		"--updates", `{"10001":{"score":1}}`})
	if errx.CodeOf(err) != domain.CodeInvalidUpdateSpec {
		t.Fatalf("expected invalid update spec, got %v", err)
	}
}

func TestComboUpdate_汇总(t *testing.T) {
	c, out, _ := newTestCLI(t)
	err := c.Run(context.Background(), []string{"combo-update", "--uids", "1001,404",
		"--car-id", "10001", "--rank-score", "1", "--season-score", "2", "--rank-list", "[1,1,3]"})
	if err != nil {
		t.Fatalf("combo-update: %v", err)
	}
	s := out.String()
	for _, part := range []string{"===== 开始组合更新 =====", "处理 UID 1001:", "成功: 1 个", "失败: 1 个", "UID 404:", "车辆更新失败", "===== 组合更新完成 ====="} {
		if !strings.Contains(s, part) {
			t.Fatalf("missing %q in:\n%s", part, s)
		}
	}
}

func TestUpdateCarScore_失败输出原因(t *testing.T) {
	c, out, _ := newTestCLI(t)
	err := c.Run(context.Background(), []string{"update-car-score", "--uid", "1001",
		"--car-id", "99999", "--rank-score", "1", "--season-score", "2"})
	if err != nil {
		t.Fatalf("update-car-score: %v", err)
	}
	if !strings.Contains(out.String(), "===== 更新失败 =====") || !strings.Contains(out.String(), "错误原因:") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}
