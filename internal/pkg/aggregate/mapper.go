// Package aggregate 在连表查询产生的点号平铺行与嵌套对象之间互转
package aggregate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

const DefaultSeparator = "."

var ErrKeyConflict = errors.New("aggregate: key conflict")

// Mapper 无状态，可并发使用
type Mapper struct {
	Sep string
}

var std = &Mapper{Sep: DefaultSeparator}

func Flatten(nested map[string]any) (map[string]any, error) {
	return std.Flatten(nested)
}

func Unflatten(flat map[string]any) (map[string]any, error) {
	return std.Unflatten(flat)
}

func DecodeRow(row map[string]any, out any, nullable ...string) error {
	return std.DecodeRow(row, out, nullable...)
}

func DecodeRows(rows []map[string]any, out any, nullable ...string) error {
	return std.DecodeRows(rows, out, nullable...)
}

func (m *Mapper) sep() string {
	if m.Sep == "" {
		return DefaultSeparator
	}
	return m.Sep
}

// Flatten 把嵌套对象展开为 a.b.c 形式，空 map 视为叶子
func (m *Mapper) Flatten(nested map[string]any) (map[string]any, error) {
	flat := make(map[string]any, len(nested))
	if err := m.flatten(flat, "", nested); err != nil {
		return nil, err
	}
	return flat, nil
}

func (m *Mapper) flatten(dst map[string]any, prefix string, src map[string]any) error {
	for _, k := range sortedKeys(src) {
		key := k
		if prefix != "" {
			key = prefix + m.sep() + k
		}
		if child, ok := src[k].(map[string]any); ok && len(child) > 0 {
			if err := m.flatten(dst, key, child); err != nil {
				return err
			}
			continue
		}
		if _, exists := dst[key]; exists {
			return fmt.Errorf("%w: %s", ErrKeyConflict, key)
		}
		dst[key] = src[k]
	}
	return nil
}

// Unflatten 每出现一次分隔符折叠一层
func (m *Mapper) Unflatten(flat map[string]any) (map[string]any, error) {
	out := make(map[string]any)
	// 记录由本次折叠创建的中间节点，避免写入调用方传入的 map
	created := make(map[string]bool)
	for _, key := range sortedKeys(flat) {
		parts := strings.Split(key, m.sep())
		cur := out
		for i, p := range parts[:len(parts)-1] {
			path := strings.Join(parts[:i+1], m.sep())
			next, exists := cur[p]
			if !exists {
				child := make(map[string]any)
				cur[p] = child
				created[path] = true
				cur = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok || !created[path] {
				return nil, fmt.Errorf("%w: %s", ErrKeyConflict, path)
			}
			cur = child
		}
		last := parts[len(parts)-1]
		if _, exists := cur[last]; exists {
			return nil, fmt.Errorf("%w: %s", ErrKeyConflict, key)
		}
		cur[last] = flat[key]
	}
	return out, nil
}

// DecodeRow 折叠后解码到读模型；nullable 中的子对象若全部为 nil 则整体置 nil
func (m *Mapper) DecodeRow(row map[string]any, out any, nullable ...string) error {
	nested, err := m.Unflatten(derefRow(row))
	if err != nil {
		return err
	}
	DropEmpty(nested, nullable...)
	return decode(nested, out)
}

// DecodeRows out 为指向切片的指针
func (m *Mapper) DecodeRows(rows []map[string]any, out any, nullable ...string) error {
	list := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		nested, err := m.Unflatten(derefRow(row))
		if err != nil {
			return err
		}
		DropEmpty(nested, nullable...)
		list = append(list, nested)
	}
	return decode(list, out)
}

// DropEmpty LEFT JOIN 未命中时子对象的字段全为 nil，此时直接置 nil
func DropEmpty(nested map[string]any, keys ...string) {
	for _, k := range keys {
		child, ok := nested[k].(map[string]any)
		if !ok {
			continue
		}
		empty := true
		for _, v := range child {
			if v != nil {
				empty = false
				break
			}
		}
		if empty {
			nested[k] = nil
		}
	}
}

// derefRow 无类型的派生列会被扫描成 *interface{}，先解引用再折叠
func derefRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = deref(v)
	}
	return out
}

func deref(v any) any {
	for v != nil {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
	return v
}

func decode(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			bytesToStringHook,
			stringToTimeHook,
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// 部分驱动以 []byte 返回文本列
func bytesToStringHook(from reflect.Type, _ reflect.Type, data any) (any, error) {
	if b, ok := data.([]byte); ok && from.Kind() == reflect.Slice {
		return string(b), nil
	}
	return data, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	s, _ := data.(string)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("aggregate: unsupported time format %q", s)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
