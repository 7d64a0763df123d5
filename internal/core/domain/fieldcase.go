package domain

import "strings"

// Field-name conversion between the camelCase wire convention of the legacy
// client and the snake_case convention of the store. Applied recursively over
// nested objects and arrays at the storage boundary. The two directions are
// symmetric: ToCamelCase(ToSnakeCase(x)) == x for any camelCase-keyed value
// and vice versa.

func SnakeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func CamelKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	upperNext := false
	for _, r := range key {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext && r >= 'a' && r <= 'z' {
			b.WriteRune(r - 'a' + 'A')
		} else {
			b.WriteRune(r)
		}
		upperNext = false
	}
	return b.String()
}

// ToSnakeCase rewrites every map key in v from camelCase to snake_case,
// recursing into nested maps and slices. Scalars pass through untouched.
func ToSnakeCase(v interface{}) interface{} {
	return convertKeys(v, SnakeKey)
}

// ToCamelCase is the inverse of ToSnakeCase.
func ToCamelCase(v interface{}) interface{} {
	return convertKeys(v, CamelKey)
}

func convertKeys(v interface{}, convert func(string) string) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, nested := range val {
			out[convert(k)] = convertKeys(nested, convert)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, nested := range val {
			out[i] = convertKeys(nested, convert)
		}
		return out
	default:
		return v
	}
}
