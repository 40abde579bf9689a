package skill

import (
	"encoding/json"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The upstream API is inconsistent across endpoints: some return a bare
// array, some wrap the list in a top-level field, some bury it under a
// "result" envelope, and singular vs plural field names vary. Entities
// tries an explicit priority list of shape matchers and returns the
// first list found. Absence of data is an empty slice, never an error.

type shapeMatcher func(payload any, key string) ([]any, bool)

var shapeMatchers = []shapeMatcher{
	matchBareArray,
	matchKeyedArray,
	matchResultArray,
}

// Entities extracts the canonical entity list named key from payload.
// Non-object items inside the list are dropped. Pure function.
func Entities(payload any, key string) []map[string]any {
	if payload == nil {
		return []map[string]any{}
	}
	for _, match := range shapeMatchers {
		if items, ok := match(payload, key); ok {
			return onlyObjects(items)
		}
	}
	log.Printf("[Skill] unrecognized payload shape for %q, treating as empty", key)
	return []map[string]any{}
}

func matchBareArray(payload any, _ string) ([]any, bool) {
	items, ok := payload.([]any)
	return items, ok
}

func matchKeyedArray(payload any, key string) ([]any, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, k := range keyVariants(key) {
		if items, ok := obj[k].([]any); ok {
			return items, true
		}
	}
	return nil, false
}

func matchResultArray(payload any, key string) ([]any, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	result, ok := obj["result"]
	if !ok {
		return nil, false
	}
	if items, ok := result.([]any); ok {
		return items, true
	}
	return matchKeyedArray(result, key)
}

// keyVariants tolerates singular/plural field-name drift ("room" vs
// "rooms") without callers having to know which endpoint does what.
func keyVariants(key string) []string {
	variants := []string{key}
	if trimmed := strings.TrimSuffix(key, "s"); trimmed != key {
		variants = append(variants, trimmed)
	} else {
		variants = append(variants, key+"s")
	}
	return variants
}

func onlyObjects(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if obj, ok := it.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// DecodeList converts loose entity documents into typed records via a
// JSON round trip. Fields the type does not declare are dropped.
func DecodeList[T any](items []map[string]any) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Number coerces a loose JSON value to a finite float64. Strings may
// carry thousands-separator commas ("1,250.50" -> 1250.5). Anything
// non-numeric or non-finite is absent.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// FormatNumber renders a coerced numeric id the way the upstream sends
// whole numbers (no trailing ".0").
func FormatNumber(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// ISODate extracts the first yyyy-mm-dd token from a loose date value
// ("2024-06-01T00:00:00Z" -> "2024-06-01"). Empty string when none.
func ISODate(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return isoDateRe.FindString(s)
}

var diacritics = map[rune]rune{
	'á': 'a', 'à': 'a', 'ä': 'a', 'â': 'a',
	'é': 'e', 'è': 'e', 'ë': 'e', 'ê': 'e',
	'í': 'i', 'ì': 'i', 'ï': 'i', 'î': 'i',
	'ó': 'o', 'ò': 'o', 'ö': 'o', 'ô': 'o',
	'ú': 'u', 'ù': 'u', 'ü': 'u', 'û': 'u',
	'ñ': 'n', 'ç': 'c',
}

// Fold lower-cases and strips the Spanish diacritics the upstream data
// actually uses ("Reunión Interna" -> "reunion interna").
func Fold(s string) string {
	return strings.Map(func(r rune) rune {
		if mapped, ok := diacritics[r]; ok {
			return mapped
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// FoldKey folds and keeps only letters and digits, for comparing field
// names and status labels ("Por confirmar" == "por-confirmar").
func FoldKey(s string) string {
	folded := Fold(s)
	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
