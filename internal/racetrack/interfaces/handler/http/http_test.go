package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Racetrack/internal/racetrack/app"
	"Racetrack/internal/racetrack/app/port"
	"Racetrack/internal/racetrack/infra/persistence/memory"
	"Racetrack/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestEngine(t *testing.T) (*gin.Engine, *memory.PlayerRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewPlayerRepo()
	repo.Seed(port.CollectionUserInfo, map[string]any{
		"uid":                 int64(1001),
		"racetrack_rank_data": map[string]any{"rank_score": int64(100), "rank_level": int64(2)},
	})
	repo.Seed(port.CollectionUserExtraInfo, map[string]any{
		"uid": "1001",
		"car_garage": map[string]any{"car_list": map[string]any{
			"10001": map[string]any{"rank_score": int64(10), "season_best_rank_score": int64(20)},
		}},
		"racetrack_match_data": map[string]any{"recent_rank_list": []any{int64(0), int64(0)}},
	})

	svc := app.NewRacetrackService(repo, nil, nil, 2)
	engine := gin.New()
	NewHttpHandler(svc).RegisterRoutes(engine.Group(""))
	return engine, repo
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) envelope {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("%s %s: status=%d body=%s", method, path, w.Code, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v body=%s", err, w.Body.String())
	}
	return env
}

func TestIndex(t *testing.T) {
	engine, _ := newTestEngine(t)
	env := do(t, engine, nethttp.MethodGet, "/", "")
	if env.Code != transport.OK || !strings.Contains(string(env.Data), "运行中") {
		t.Fatalf("unexpected: %+v", env)
	}
}

func TestUpdateUser_成功与未改变(t *testing.T) {
	engine, _ := newTestEngine(t)

	env := do(t, engine, nethttp.MethodPost, "/api/update-user", `{"uid":1001,"score":1500,"level":7}`)
	if env.Code != transport.OK {
		t.Fatalf("unexpected: %+v", env)
	}
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			RankScore int64 `json:"rank_score"`
			RankLevel int64 `json:"rank_level"`
		} `json:"data"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.Data.RankScore != 1500 || out.Data.RankLevel != 7 {
		t.Fatalf("unexpected outcome: %s", env.Data)
	}

	env = do(t, engine, nethttp.MethodPost, "/api/update-user", `{"uid":"1001","score":1500,"level":7}`)
	if env.Code != transport.DataUnchanged || !strings.Contains(string(env.Data), `"reason":"DATA_UNCHANGED"`) {
		t.Fatalf("expected DataUnchanged: %+v data=%s", env, env.Data)
	}
}

func TestUpdateUser_缺少参数(t *testing.T) {
	engine, _ := newTestEngine(t)
	env := do(t, engine, nethttp.MethodPost, "/api/update-user", `{"uid":1001,"score":1}`)
	if env.Code != transport.InvalidParam {
		t.Fatalf("expected InvalidParam: %+v", env)
	}
}

func TestBatchUpdateUserCars_未知字段拒绝(t *testing.T) {
	engine, repo := newTestEngine(t)
	before, _ := repo.Document(port.CollectionUserExtraInfo, 1001)

	env := do(t, engine, nethttp.MethodPost, "/api/batch-update-user-cars",
		`{"uid":1001,"updates":{"10001":{"rank_score":1,"recent_palace_score":[1]}}}`)
	if env.Code != transport.InvalidParam || !strings.Contains(env.Msg, "recent_palace_score") {
		t.Fatalf("expected InvalidParam naming the key: %+v", env)
	}
	after, _ := repo.Document(port.CollectionUserExtraInfo, 1001)
	if !jsonEqual(t, before, after) {
		t.Fatalf("document must not change")
	}
}

func TestBatchUpdateUserCars_无效车辆(t *testing.T) {
	engine, _ := newTestEngine(t)
	env := do(t, engine, nethttp.MethodPost, "/api/batch-update-user-cars",
		`{"uid":1001,"updates":{"9":{"rank_score":1},"8":{"rank_score":1}}}`)
	if env.Code != transport.ValidateFailed || !strings.Contains(env.Msg, "8, 9") {
		t.Fatalf("unexpected: %+v", env)
	}
}

func TestBatchUpdateUserCars_成功只返回请求字段(t *testing.T) {
	engine, _ := newTestEngine(t)
	env := do(t, engine, nethttp.MethodPost, "/api/batch-update-user-cars",
		`{"uid":1001,"updates":{"10001":{"palace_scores":[1,2,3,4,5]}}}`)
	if env.Code != transport.OK {
		t.Fatalf("unexpected: %+v", env)
	}
	want := `"data":{"10001":{"palace_score_list":[1,2,3,4,5]}}`
	if !strings.Contains(string(env.Data), want) {
		t.Fatalf("unexpected data: %s", env.Data)
	}
}

func TestUpdateRecord_越界(t *testing.T) {
	engine, _ := newTestEngine(t)
	env := do(t, engine, nethttp.MethodPost, "/api/update-record", `{"uid":1001,"index":5,"value":{"rank":1}}`)
	if env.Code != transport.ValidateFailed || !strings.Contains(env.Msg, "0-1") {
		t.Fatalf("unexpected: %+v", env)
	}
}

func TestUpdateRecord_非法记录(t *testing.T) {
	engine, _ := newTestEngine(t)
	env := do(t, engine, nethttp.MethodPost, "/api/update-record", `{"uid":1001,"index":0,"value":"x"}`)
	if env.Code != transport.InvalidParam {
		t.Fatalf("unexpected: %+v", env)
	}
}

func TestBatchUpdateRankList_逐个返回(t *testing.T) {
	engine, _ := newTestEngine(t)
	env := do(t, engine, nethttp.MethodPost, "/api/batch-update-rank-list", `{"uids":[1001,404],"new_list":[{"rank":1},0]}`)
	if env.Code != transport.OK {
		t.Fatalf("unexpected: %+v", env)
	}
	var res map[string]struct {
		Success bool   `json:"success"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res["1001"].Success || res["404"].Success || res["404"].Reason != "PLAYER_NOT_FOUND" {
		t.Fatalf("unexpected results: %s", env.Data)
	}
}

func TestQuery_默认全部(t *testing.T) {
	engine, _ := newTestEngine(t)
	env := do(t, engine, nethttp.MethodPost, "/api/query", `{"uids":[1001]}`)
	if env.Code != transport.OK {
		t.Fatalf("unexpected: %+v", env)
	}
	for _, part := range []string{`"rank":{"rank_score":100,"rank_level":2}`, `"palace_score_list":[-1,-1,-1,-1,-1]`, `"recent_rank_list":[0,0]`} {
		if !strings.Contains(string(env.Data), part) {
			t.Fatalf("missing %s in %s", part, env.Data)
		}
	}

	env = do(t, engine, nethttp.MethodPost, "/api/query", `{"uids":[1001],"type":"bogus"}`)
	if env.Code != transport.InvalidParam {
		t.Fatalf("unexpected: %+v", env)
	}
}

func TestPlayerRoutes(t *testing.T) {
	engine, _ := newTestEngine(t)

	if env := do(t, engine, nethttp.MethodGet, "/api/players/1001/rank", ""); env.Code != transport.OK {
		t.Fatalf("rank: %+v", env)
	}
	if env := do(t, engine, nethttp.MethodGet, "/api/players/404/rank", ""); env.Code != transport.NotFound {
		t.Fatalf("missing rank: %+v", env)
	}
	if env := do(t, engine, nethttp.MethodGet, "/api/players/abc/vehicles", ""); env.Code != transport.InvalidParam {
		t.Fatalf("bad uid: %+v", env)
	}
	env := do(t, engine, nethttp.MethodGet, "/api/players/404/recent-rank-list", "")
	if env.Code != transport.OK || string(env.Data) != "[]" {
		t.Fatalf("missing list should be empty: %+v data=%s", env, env.Data)
	}
}

func TestComboUpdate(t *testing.T) {
	engine, _ := newTestEngine(t)
	env := do(t, engine, nethttp.MethodPost, "/api/combo-update",
		`{"uids":[1001],"car_id":"10001","rank_score":11,"season_score":21,"rank_list":[1,2]}`)
	if env.Code != transport.OK || !strings.Contains(string(env.Data), `"1001":{"success":true`) {
		t.Fatalf("unexpected: %+v data=%s", env, env.Data)
	}
}

func jsonEqual(t *testing.T, a, b any) bool {
	t.Helper()
	x, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	y, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.Equal(x, y)
}
