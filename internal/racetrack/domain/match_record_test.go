package domain

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestMatchRecord_JSON两种形态(t *testing.T) {
	var list RecentRankList
	if err := json.Unmarshal([]byte(`[0, {"rank": 1, "time": 12.5, "tags": ["a"]}, 3]`), &list); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len=%d", len(list))
	}
	res, ok := list[1].Result()
	if !ok {
		t.Fatalf("slot1 should be result")
	}
	rank, _ := res.Get("rank")
	tm, _ := res.Get("time")
	if rank != int64(1) || tm != 12.5 {
		t.Fatalf("numbers should be normalized: %#v", res)
	}
	if v, ok := list[2].Placeholder(); !ok || v != 3 {
		t.Fatalf("slot2 should be placeholder 3")
	}

	b, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `[0,{"rank":1,"tags":["a"],"time":12.5},3]` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestMatchRecord_拒绝其他类型(t *testing.T) {
	for _, in := range []string{`"x"`, `true`, `[1]`, `1.5`, `null`} {
		var m MatchRecord
		err := json.Unmarshal([]byte(in), &m)
		if !errors.Is(err, ErrInvalidMatchRecord) {
			t.Fatalf("input %s: expected INVALID_MATCH_RECORD, got=%v", in, err)
		}
	}
}

func TestRecentRankList_Replace(t *testing.T) {
	list := RecentRankList{PlaceholderRecord(0), PlaceholderRecord(0)}

	next, err := list.Replace(1, ResultRecord(map[string]any{"rank": int64(1)}))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !next[1].IsResult() || list[1].IsResult() {
		t.Fatalf("replace must not mutate the original list")
	}

	for _, idx := range []int{-1, 2} {
		if _, err := list.Replace(idx, PlaceholderRecord(1)); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected INDEX_OUT_OF_RANGE, got=%v", idx, err)
		}
	}
}

func TestRecentRankList_Values(t *testing.T) {
	list := RecentRankList{PlaceholderRecord(2), ResultRecord(nil)}
	vals := list.Values()
	if vals[0] != int64(2) {
		t.Fatalf("placeholder value=%#v", vals[0])
	}
	if m, ok := vals[1].(Fields); !ok || m == nil || len(m) != 0 {
		t.Fatalf("empty result should be an empty object: %#v", vals[1])
	}
}

func TestMatchRecord_保持存储中的键顺序(t *testing.T) {
	stored := Fields{{Key: "rank", Value: int32(1)}, {Key: "car_id", Value: "10001"}}
	rec, err := MatchRecordFrom(stored)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	res, _ := rec.Result()
	if !reflect.DeepEqual(res.Keys(), []string{"rank", "car_id"}) {
		t.Fatalf("key order lost: %v", res.Keys())
	}
	if v, _ := res.Get("rank"); v != int64(1) {
		t.Fatalf("int32 should be widened: %#v", v)
	}
	b, _ := json.Marshal(rec)
	if string(b) != `{"rank":1,"car_id":"10001"}` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestMatchRecord_超出int64范围的浮点(t *testing.T) {
	for _, in := range []float64{1e300, -1e300, 9223372036854775807, math.Inf(1), math.NaN()} {
		if _, err := MatchRecordFrom(in); !errors.Is(err, ErrInvalidMatchRecord) {
			t.Fatalf("input %v: expected INVALID_MATCH_RECORD, got=%v", in, err)
		}
	}
	rec, err := MatchRecordFrom(float64(-9223372036854775808))
	if v, ok := rec.Placeholder(); err != nil || !ok || v != math.MinInt64 {
		t.Fatalf("min int64 should be accepted: %v %v", v, err)
	}
}
