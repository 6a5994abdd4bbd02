package lavalink

// DeepMerge merges src into dst recursively. Nested maps are merged key by
// key; any other value in src replaces the value in dst. dst is modified in
// place, src is never modified.
func DeepMerge(dst, src map[string]any) {
	for key, srcVal := range src {
		if dstMap, ok := dst[key].(map[string]any); ok {
			if srcMap, ok := srcVal.(map[string]any); ok {
				DeepMerge(dstMap, srcMap)
				continue
			}
		}
		dst[key] = deepCopyValue(srcVal)
	}
}

// deepCopyValue copies maps and slices so later merges cannot alias into the
// source document.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		copied := make(map[string]any, len(val))
		for k, item := range val {
			copied[k] = deepCopyValue(item)
		}
		return copied
	case []any:
		copied := make([]any, len(val))
		for i, item := range val {
			copied[i] = deepCopyValue(item)
		}
		return copied
	default:
		return v
	}
}
