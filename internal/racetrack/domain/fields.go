package domain

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/samber/lo"
)

// Field 是有序子文档中的一个键值对。
type Field struct {
	Key   string
	Value any
}

// Fields 是保持键顺序的子文档。存储比较子文档时连同键顺序一起比较，
// 读出的子文档原样写回必须保持原顺序，否则会被当成修改。
type Fields []Field

// FieldsFromMap 按键排序构造 Fields，用于本身没有顺序的输入（JSON 对象、map 字面量）。
func FieldsFromMap(m map[string]any) Fields {
	keys := lo.Keys(m)
	slices.Sort(keys)
	out := make(Fields, 0, len(keys))
	for _, k := range keys {
		out = append(out, Field{Key: k, Value: m[k]})
	}
	return out
}

func (f Fields) Get(key string) (any, bool) {
	for _, e := range f {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func (f Fields) Keys() []string {
	return lo.Map(f, func(e Field, _ int) string { return e.Key })
}

// MarshalJSON 按字段顺序输出对象。
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
