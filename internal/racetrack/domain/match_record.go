package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// MatchRecord 是 recent_rank_list 的一项：要么是整数占位，要么是结构化的比赛结果。
// 零值是占位 0。
type MatchRecord struct {
	placeholder int64
	result      Fields
}

func PlaceholderRecord(v int64) MatchRecord {
	return MatchRecord{placeholder: v}
}

// ResultRecord 构造结构化比赛结果，键按字母序排列；fields 为 nil 时视为空对象。
func ResultRecord(fields map[string]any) MatchRecord {
	return ResultFields(FieldsFromMap(fields))
}

// ResultFields 按给定的键顺序构造比赛结果，用于从存储读出的子文档。
func ResultFields(fields Fields) MatchRecord {
	out := make(Fields, len(fields))
	for i, f := range fields {
		out[i] = Field{Key: f.Key, Value: normalizeValue(f.Value)}
	}
	return MatchRecord{result: out}
}

func (m MatchRecord) IsResult() bool {
	return m.result != nil
}

func (m MatchRecord) Placeholder() (int64, bool) {
	return m.placeholder, m.result == nil
}

func (m MatchRecord) Result() (Fields, bool) {
	return m.result, m.result != nil
}

// Value 返回写入存储时的形态：int64 或 Fields。
func (m MatchRecord) Value() any {
	if m.result != nil {
		return m.result
	}
	return m.placeholder
}

func (m MatchRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Value())
}

func (m *MatchRecord) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ErrInvalidMatchRecord.WithCause(err)
	}
	rec, err := MatchRecordFrom(v)
	if err != nil {
		return err
	}
	*m = rec
	return nil
}

// MatchRecordFrom 把解码后的通用值（JSON 或存储）转换为 MatchRecord。
// 整数（含无小数部分的浮点）为占位，对象为比赛结果，其他类型拒绝。
// Fields 保持原键顺序，map 没有顺序，按键排序。
func MatchRecordFrom(v any) (MatchRecord, error) {
	switch t := v.(type) {
	case Fields:
		return ResultFields(t), nil
	case map[string]any:
		return ResultRecord(t), nil
	default:
		if n, ok := toInt64(v); ok {
			return PlaceholderRecord(n), nil
		}
		return MatchRecord{}, ErrInvalidMatchRecord.WithMsgf("比赛记录只能是对象或整数, got=%T", v)
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		// float64(math.MaxInt64) 等于 2^63，已经越界
		if n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64 {
			return int64(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	return 0, false
}

// normalizeValue 把 json.Number 转成 int64/float64，保证写入存储的是数值而不是字符串；
// 嵌套的 map 转成按键排序的 Fields。
func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case map[string]any:
		return ResultRecord(t).result
	case Fields:
		return ResultFields(t).result
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeValue(t[i])
		}
		return out
	default:
		return v
	}
}

// RecentRankList 是 racetrack_match_data.recent_rank_list，长度由调用方决定。
type RecentRankList []MatchRecord

// Values 返回写入存储的形态。
func (l RecentRankList) Values() []any {
	out := make([]any, len(l))
	for i, m := range l {
		out[i] = m.Value()
	}
	return out
}

// Clone 浅拷贝列表本身，修改某个槽位不影响原列表。
func (l RecentRankList) Clone() RecentRankList {
	if l == nil {
		return nil
	}
	out := make(RecentRankList, len(l))
	copy(out, l)
	return out
}

// Replace 返回替换第 index 项后的新列表；index 越界时返回 INDEX_OUT_OF_RANGE，不会自动扩容。
func (l RecentRankList) Replace(index int, rec MatchRecord) (RecentRankList, error) {
	if index < 0 || index >= len(l) {
		return nil, ErrIndexOutOfRange.
			WithMsgf("索引 %d 超出范围（0-%d）", index, len(l)-1).
			WithData("index", index).
			WithData("len", len(l))
	}
	next := l.Clone()
	next[index] = rec
	return next, nil
}

func (l RecentRankList) String() string {
	b, err := json.Marshal(l)
	if err != nil {
		return fmt.Sprintf("%v", []MatchRecord(l))
	}
	return string(b)
}
