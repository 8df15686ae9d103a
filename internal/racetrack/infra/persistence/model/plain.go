package model

import (
	"slices"

	"Racetrack/internal/racetrack/domain"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Plain 把驱动解码出的 bson.D / bson.M / bson.A 递归转换成 map[string]any / []any，
// 整数统一为 int64。键顺序会丢失，只用于断言和展示。
func Plain(v any) any {
	switch t := v.(type) {
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = Plain(e.Value)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Plain(e)
		}
		return out
	case bson.A:
		return plainSlice(t)
	case []any:
		return plainSlice(t)
	case int32:
		return int64(t)
	case int:
		return int64(t)
	default:
		return v
	}
}

func plainSlice(in []any) []any {
	out := make([]any, len(in))
	for i, e := range in {
		out[i] = Plain(e)
	}
	return out
}

// FromBSON 和 Plain 一样转换容器，但 bson.D 保持键顺序转成 domain.Fields。
// 驱动把数组里的子文档解码成 bson.D，读出的比赛结果因此能按原顺序写回。
func FromBSON(v any) any {
	switch t := v.(type) {
	case bson.D:
		return domain.Fields(lo.Map(t, func(e bson.E, _ int) domain.Field {
			return domain.Field{Key: e.Key, Value: FromBSON(e.Value)}
		}))
	case bson.M:
		return lo.MapValues(t, func(e any, _ string) any { return FromBSON(e) })
	case map[string]any:
		return lo.MapValues(t, func(e any, _ string) any { return FromBSON(e) })
	case bson.A:
		return lo.Map(t, func(e any, _ int) any { return FromBSON(e) })
	case []any:
		return lo.Map(t, func(e any, _ int) any { return FromBSON(e) })
	case int32:
		return int64(t)
	case int:
		return int64(t)
	default:
		return v
	}
}

// ToBSON 把领域值转换成交给驱动编码的形态，每次都构造新的容器：
// domain.Fields 和 bson.D 按原顺序转成 bson.D；map 没有顺序，按键排序转成 bson.D，
// 否则相同内容的子文档每次写入的键顺序都可能不同，服务端会把它当成修改。
func ToBSON(v any) any {
	switch t := v.(type) {
	case domain.Fields:
		d := make(bson.D, len(t))
		for i, f := range t {
			d[i] = bson.E{Key: f.Key, Value: ToBSON(f.Value)}
		}
		return d
	case bson.D:
		d := make(bson.D, len(t))
		for i, e := range t {
			d[i] = bson.E{Key: e.Key, Value: ToBSON(e.Value)}
		}
		return d
	case bson.M:
		return sortedDoc(t)
	case map[string]any:
		return sortedDoc(t)
	case bson.A:
		return lo.Map(t, func(e any, _ int) any { return ToBSON(e) })
	case []any:
		return lo.Map(t, func(e any, _ int) any { return ToBSON(e) })
	case int32:
		return int64(t)
	case int:
		return int64(t)
	default:
		return v
	}
}

func sortedDoc(m map[string]any) bson.D {
	keys := lo.Keys(m)
	slices.Sort(keys)
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: ToBSON(m[k])})
	}
	return d
}
