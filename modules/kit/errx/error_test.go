package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("VEHICLE_NOT_FOUND", "车辆 10001 不存在").WithData("uid", 1)
	e2 := NewBiz("VEHICLE_NOT_FOUND", "车辆 10002 不存在")
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is(e1, e2)==true, e1=%v e2=%v", e1, e2)
	}
	wrapped := fmt.Errorf("wrap: %w", e1)
	if !errors.Is(wrapped, e2) {
		t.Fatalf("期望包装后仍能按 code 匹配, wrapped=%v", wrapped)
	}
}

func TestError_业务错误不捕获栈_但保留cause链(t *testing.T) {
	cause := errors.New("bad index")
	err := NewBiz("INDEX_OUT_OF_RANGE", "索引越界").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
}

func TestError_系统错误捕获一次栈_且不重复捕获(t *testing.T) {
	sys := ErrUnavailable.WithCause(errors.New("server selection timeout"))
	if len(sys.Stack()) == 0 {
		t.Fatalf("期望系统错误捕获栈")
	}
	sys2 := ErrInternal.WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("期望上层系统错误不重复捕获栈，got=%v", got)
	}
}

func TestError_WithMsg_不污染哨兵错误(t *testing.T) {
	base := NewBiz("INVALID_VEHICLE_IDS", "无效车辆ID")
	err := base.WithMsgf("无效车辆ID: %s", "9,10")
	if base.Msg() != "无效车辆ID" {
		t.Fatalf("哨兵错误 msg 被修改: %q", base.Msg())
	}
	if err.Msg() != "无效车辆ID: 9,10" {
		t.Fatalf("unexpected msg: %q", err.Msg())
	}
	if !errors.Is(err, base) {
		t.Fatalf("期望派生错误与哨兵同 code")
	}
}

func TestError_Data_防止外部map污染(t *testing.T) {
	m := map[string]any{"k": "v"}
	err := NewBiz("X", "").WithDataMap(m)
	m["k"] = "mutated"
	if got := err.Data()["k"]; got != "v" {
		t.Fatalf("期望构造时复制 data；got=%v", got)
	}
}

func TestCodeOf_IsBiz_MsgOf(t *testing.T) {
	biz := fmt.Errorf("op: %w", NewBiz("DATA_UNCHANGED", "数据未改变"))
	if CodeOf(biz) != "DATA_UNCHANGED" || !IsBiz(biz) || MsgOf(biz) != "数据未改变" {
		t.Fatalf("unexpected: code=%q biz=%v msg=%q", CodeOf(biz), IsBiz(biz), MsgOf(biz))
	}
	plain := errors.New("boom")
	if CodeOf(plain) != "" || IsBiz(plain) || MsgOf(plain) != "boom" {
		t.Fatalf("plain error should be treated as system error")
	}
}
