package lms

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Field 扁平化后的一个表单字段
type Field struct {
	Key   string
	Value string
}

// Encode 将嵌套结构编码为旧式 application/x-www-form-urlencoded 请求体。
// 嵌套对象展开为 p[k]，数组展开为 p[k][i]，nil 值整体省略。
func Encode(payload map[string]any) string {
	fields := Flatten(payload)
	if len(fields) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(f.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(f.Value))
	}
	return sb.String()
}

// Flatten 按编码顺序返回扁平化后的字段列表，map 的键按字典序展开
func Flatten(payload map[string]any) []Field {
	fields := make([]Field, 0, len(payload))
	for _, k := range sortedKeys(payload) {
		flattenValue(k, payload[k], &fields)
	}
	return fields
}

func flattenValue(key string, v any, out *[]Field) {
	if v == nil {
		return
	}

	switch t := v.(type) {
	case string:
		*out = append(*out, Field{Key: key, Value: t})
		return
	case bool:
		*out = append(*out, Field{Key: key, Value: strconv.FormatBool(t)})
		return
	case json.Number:
		*out = append(*out, Field{Key: key, Value: t.String()})
		return
	case map[string]any:
		for _, k := range sortedKeys(t) {
			flattenValue(key+"["+k+"]", t[k], out)
		}
		return
	case []any:
		for i, e := range t {
			flattenValue(key+"["+strconv.Itoa(i)+"]", e, out)
		}
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return
		}
		flattenValue(key, rv.Elem().Interface(), out)
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			*out = append(*out, Field{Key: key, Value: fmt.Sprint(v)})
			return
		}
		keys := make([]string, 0, rv.Len())
		for _, mk := range rv.MapKeys() {
			keys = append(keys, mk.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenValue(key+"["+k+"]", rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface(), out)
		}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return
		}
		for i := 0; i < rv.Len(); i++ {
			flattenValue(key+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface(), out)
		}
	case reflect.Float32:
		*out = append(*out, Field{Key: key, Value: strconv.FormatFloat(rv.Float(), 'f', -1, 32)})
	case reflect.Float64:
		*out = append(*out, Field{Key: key, Value: strconv.FormatFloat(rv.Float(), 'f', -1, 64)})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		*out = append(*out, Field{Key: key, Value: strconv.FormatInt(rv.Int(), 10)})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		*out = append(*out, Field{Key: key, Value: strconv.FormatUint(rv.Uint(), 10)})
	default:
		*out = append(*out, Field{Key: key, Value: fmt.Sprint(v)})
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
