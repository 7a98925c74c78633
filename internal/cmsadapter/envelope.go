package cmsadapter

// listKeys are the envelope keys that may wrap a list response, in the
// order they are tried.
var listKeys = []string{"data", "items", "results", "cases", "documents", "matters", "projects", "files"}

// unwrapList accepts a bare array or an object wrapping one under a known
// key. Non-object entries are dropped.
func unwrapList(v any) []map[string]any {
	switch val := v.(type) {
	case []any:
		return records(val)
	case map[string]any:
		for _, key := range listKeys {
			if inner, ok := val[key].([]any); ok {
				return records(inner)
			}
		}
	}
	return []map[string]any{}
}

// unwrapRecord accepts a bare object or one wrapped in {data: {...}}.
func unwrapRecord(v any) (map[string]any, bool) {
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	if inner, ok := rec["data"].(map[string]any); ok {
		return inner, true
	}
	return rec, true
}

func records(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

// hasMore reads a continuation flag. The second result is false when the
// response carries no such flag.
func hasMore(v any) (bool, bool) {
	rec, ok := v.(map[string]any)
	if !ok {
		return false, false
	}
	for _, path := range []string{"hasMore", "has_more", "meta.hasMore", "meta.has_more", "pagination.hasMore", "pagination.has_more"} {
		if b, ok := lookup(rec, path).(bool); ok {
			return b, true
		}
	}
	return false, false
}
