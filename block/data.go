package block

import (
	"strings"

	"github.com/lvillar/resumepdf/profile"
	"github.com/lvillar/resumepdf/style"
)

// Data is the key/value bag handed to a renderer. The documented keys of
// each built-in block are listed with its renderer.
type Data map[string]any

// Text wraps a scalar as {"text": s}.
func Text(s string) Data { return Data{"text": s} }

// Has reports whether key is present with a non-empty value.
func (d Data) Has(key string) bool { return !IsEmpty(d[key]) }

// String returns the value at key as trimmed text.
func (d Data) String(key string) string { return profile.Text(d[key]) }

// First returns the first non-empty string among keys.
func (d Data) First(keys ...string) string {
	for _, k := range keys {
		if s := d.String(k); s != "" {
			return s
		}
	}
	return ""
}

// Strings returns a list value as strings. A string value is split into
// lines.
func (d Data) Strings(key string) []string {
	switch v := d[key].(type) {
	case string:
		var out []string
		for _, ln := range strings.Split(v, "\n") {
			if ln = strings.TrimSpace(ln); ln != "" {
				out = append(out, ln)
			}
		}
		return out
	case nil:
		return nil
	default:
		return profile.StringList(v)
	}
}

// Float returns the number at key, or def when absent or not a number.
func (d Data) Float(key string, def float64) float64 {
	if f, ok := style.Number(d[key]); ok {
		return f
	}
	return def
}

// Int returns the number at key truncated to an int.
func (d Data) Int(key string, def int) int {
	if f, ok := style.Number(d[key]); ok {
		return int(f)
	}
	return def
}

// Bool returns the boolean at key, or def.
func (d Data) Bool(key string, def bool) bool {
	if b, ok := d[key].(bool); ok {
		return b
	}
	return def
}

// Map returns the nested mapping at key.
func (d Data) Map(key string) map[string]any {
	switch m := d[key].(type) {
	case map[string]any:
		return m
	case Data:
		return m
	}
	return nil
}

// Rows returns a list of rows, each padded or cut to n cells. Rows may be
// given as lists, as mappings (cells read from keys in order) or as bare
// strings (first cell).
func (d Data) Rows(key string, n int, keys ...[]string) [][]string {
	var items []any
	switch v := d[key].(type) {
	case [][]string:
		for _, r := range v {
			items = append(items, r)
		}
	case []any:
		items = v
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	default:
		return nil
	}
	var out [][]string
	for _, it := range items {
		row := make([]string, n)
		switch x := it.(type) {
		case []string:
			copy(row, x)
		case []any:
			for i := 0; i < n && i < len(x); i++ {
				row[i] = profile.Text(x[i])
			}
		case map[string]any:
			for i := 0; i < n && i < len(keys); i++ {
				for _, k := range keys[i] {
					if s := profile.Text(x[k]); s != "" {
						row[i] = s
						break
					}
				}
			}
		default:
			row[0] = profile.Text(x)
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		if strings.Join(row, "") != "" {
			out = append(out, row)
		}
	}
	return out
}

// Bytes returns a binary payload given as bytes, base64 text or a data URI.
func (d Data) Bytes(key string) ([]byte, bool) {
	return profile.DecodeImage(d[key])
}

// Merge returns a copy of d with over applied on top, recursively for
// nested mappings.
func (d Data) Merge(over map[string]any) Data {
	out := style.Merge(nil, d)
	return Data(style.Merge(out, over))
}

// IsEmpty reports whether v is nil, an empty string, list or mapping.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case [][]string:
		return len(x) == 0
	case []byte:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	case Data:
		return len(x) == 0
	}
	return false
}
