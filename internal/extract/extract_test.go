package extract

import (
	"github.com/MartinUnity/games-terra-invicta/internal/registry"
)

// Fixture helpers shared by the extractor tests. Field values use float64
// for numbers, matching what encoding/json produces for a real save.

// entry builds one save collection entry in the wrapper form, stamping the
// identifier into the record body.
func entry(id any, fields map[string]any) map[string]any {
	fields["ID"] = map[string]any{"value": id}
	return map[string]any{
		"Key":   map[string]any{"value": id},
		"Value": fields,
	}
}

// ref builds a cross-reference node as it appears in saves.
func ref(id float64) map[string]any {
	return map[string]any{"value": id}
}

// buildRegistry indexes a fixture document whose states map uses record
// kinds as keys, translating them to the default collection names.
func buildRegistry(states map[string][]any) *registry.Registry {
	collections := registry.DefaultCollections()
	gamestates := make(map[string]any, len(states))
	for kind, entries := range states {
		gamestates[collections[kind]] = entries
	}
	doc := map[string]any{"gamestates": gamestates}
	return registry.Build(doc, collections, nil)
}

// timeState builds the time gamestate for a given in-game date.
func timeState(year, month, day float64) []any {
	return []any{
		entry(float64(900), map[string]any{
			"currentDateTime": map[string]any{
				"year":  year,
				"month": month,
				"day":   day,
			},
		}),
	}
}
