package app

import (
	"sort"
	"strconv"
	"strings"

	"pokemon_review/internal/domain"
)

/********** alias registry **********/

var pokemonAliases = map[string][]string{
	"name": {"name", "species.name", "forms.0.name"},
	"type": {"type", "types.0.type.name", "types.0.name"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps; numeric parts index slices.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch obj := cur.(type) {
		case map[string]any:
			v, ok := obj[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(obj) {
				return nil
			}
			cur = obj[i]
		default:
			return nil
		}
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// primaryType picks the slot-1 type when PokeAPI lists several.
func primaryType(m map[string]any) string {
	raw, ok := lookupAny(m, "types").([]any)
	if !ok || len(raw) == 0 {
		return firstNonEmptyAlias(m, pokemonAliases, "type")
	}
	type slotted struct {
		slot int
		name string
	}
	var ts []slotted
	for _, it := range raw {
		t, ok := it.(map[string]any)
		if !ok {
			continue
		}
		name := lookupStr(t, "type.name")
		if name == "" {
			continue
		}
		slot := 0
		if f, ok := t["slot"].(float64); ok {
			slot = int(f)
		}
		ts = append(ts, slotted{slot: slot, name: name})
	}
	if len(ts) == 0 {
		return firstNonEmptyAlias(m, pokemonAliases, "type")
	}
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].slot < ts[j].slot })
	return ts[0].name
}

/********** pokemon mapper **********/

// mapPokemon turns an upstream payload into a Pokemon ready to be created.
// ok is false when the payload carries no usable name.
func mapPokemon(p map[string]any) (domain.Pokemon, bool) {
	name := firstNonEmptyAlias(p, pokemonAliases, "name")
	if name == "" {
		return domain.Pokemon{}, false
	}
	return domain.Pokemon{Name: name, Type: primaryType(p)}, true
}
