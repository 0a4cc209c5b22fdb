// Package extract converts indexed savegame records into flat, typed
// datasets, one extractor per analytical subject. Extractors are pure
// functions of the registry and configuration; cross-references are resolved
// field by field, and a reference that does not resolve produces a missing
// marker in the row rather than dropping it.
package extract

import "math"

// The save schema is undocumented and drifts between game versions, so
// field access is defensive: each accessor tries the given keys in order
// and reports whether any matched. Keys later in the list are older names
// kept for backward compatibility.

func fieldNumber(fields map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := fields[k].(float64); ok {
			return v, true
		}
	}
	return 0, false
}

func fieldString(fields map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := fields[k].(string); ok {
			return v, true
		}
	}
	return "", false
}

func fieldSlice(fields map[string]any, keys ...string) ([]any, bool) {
	for _, k := range keys {
		if v, ok := fields[k].([]any); ok {
			return v, true
		}
	}
	return nil, false
}

func fieldMap(fields map[string]any, keys ...string) (map[string]any, bool) {
	for _, k := range keys {
		if v, ok := fields[k].(map[string]any); ok {
			return v, true
		}
	}
	return nil, false
}

// round truncates v to the given number of decimal places, matching the
// precision the downstream tables are published with.
func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
