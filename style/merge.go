package style

// Merge copies src into dst leaf by leaf. Nested maps merge recursively;
// any other value in src replaces the value in dst outright. Maps from src
// are copied so dst never aliases them. Merge returns dst, allocating it
// when nil.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				dst[k] = Merge(dm, sm)
				continue
			}
			dst[k] = Merge(nil, sm)
			continue
		}
		dst[k] = v
	}
	return dst
}

// FillMissing copies into dst only the keys dst does not have yet,
// recursing into maps present on both sides.
func FillMissing(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		cur, exists := dst[k]
		if !exists {
			if sm, ok := v.(map[string]any); ok {
				dst[k] = Merge(nil, sm)
			} else {
				dst[k] = v
			}
			continue
		}
		dm, ok1 := cur.(map[string]any)
		sm, ok2 := v.(map[string]any)
		if ok1 && ok2 {
			dst[k] = FillMissing(dm, sm)
		}
	}
	return dst
}

// Clone returns a deep copy of the nested maps in m. Slices and scalars are
// shared.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return Merge(nil, m)
}
