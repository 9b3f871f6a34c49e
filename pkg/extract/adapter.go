package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// AdapterFunc is a schema-specific hook that reshapes a freshly parsed value
// before the generic adaptation pass runs. It may change the top-level shape
// (e.g. wrap a bare list into the object the schema expects) and returns the
// reshaped value plus warnings describing what it did.
type AdapterFunc func(v any, s *Schema) (any, []string)

// Adapt normalizes a parsed object against the schema: synonym and
// case-variant keys are renamed onto canonical fields (the canonical key wins
// when both appear), scalar/list ambiguity is coerced in both directions,
// scalars are coerced toward the declared type, enum values are matched
// case-insensitively with the declared default on a miss, and missing
// optional fields receive their declared defaults. Required fields without a
// default are left absent for the validator to flag. The pass is purely
// structural; the input map is not mutated.
func Adapt(value map[string]any, s *Schema) (map[string]any, []string) {
	out := make(map[string]any, len(value))
	for k, v := range value {
		out[k] = v
	}
	var warnings []string

	for i := range s.Fields {
		f := &s.Fields[i]
		if w := renameField(out, f); w != "" {
			warnings = append(warnings, w)
		}

		v, ok := out[f.Name]
		if !ok {
			if !f.Required && f.Default != nil {
				out[f.Name] = f.Default
				warnings = append(warnings, fmt.Sprintf("field %q defaulted to %v", f.Name, f.Default))
			}
			continue
		}

		coerced, w, changed := coerceField(v, f)
		if changed {
			out[f.Name] = coerced
		}
		if w != "" {
			warnings = append(warnings, w)
		}
	}
	return out, warnings
}

// renameField moves a synonym or case-variant key onto the canonical field
// name. Nothing happens when the canonical key is already present.
func renameField(out map[string]any, f *FieldSpec) string {
	if _, ok := out[f.Name]; ok {
		return ""
	}
	candidates := make([]string, 0, len(f.Synonyms)+1)
	candidates = append(candidates, f.Name)
	candidates = append(candidates, f.Synonyms...)

	for key, v := range out {
		for _, cand := range candidates {
			if strings.EqualFold(key, cand) {
				delete(out, key)
				out[f.Name] = v
				return fmt.Sprintf("field %q renamed to %q", key, f.Name)
			}
		}
	}
	return ""
}

// coerceField nudges a value toward the declared type. The returned bool
// reports whether the value was replaced.
func coerceField(v any, f *FieldSpec) (any, string, bool) {
	switch f.Type {
	case TypeList:
		if _, ok := v.([]any); !ok {
			return []any{v}, fmt.Sprintf("field %q wrapped into a single-element list", f.Name), true
		}
	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
		if list, ok := v.([]any); ok && len(list) == 1 {
			inner, w, _ := coerceField(list[0], f)
			msg := fmt.Sprintf("field %q unwrapped from a single-element list", f.Name)
			if w != "" {
				msg = msg + "; " + w
			}
			return inner, msg, true
		}
	}

	switch f.Type {
	case TypeString:
		str, ok := v.(string)
		if !ok {
			switch n := v.(type) {
			case float64:
				return formatNumber(n), fmt.Sprintf("field %q number converted to string", f.Name), true
			case bool:
				return strconv.FormatBool(n), fmt.Sprintf("field %q boolean converted to string", f.Name), true
			}
			return v, "", false
		}
		if len(f.Enum) > 0 {
			return normalizeEnum(str, f)
		}
	case TypeNumber, TypeInteger:
		if str, ok := v.(string); ok {
			cleaned := strings.TrimSpace(strings.ReplaceAll(str, ",", ""))
			if n, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return n, fmt.Sprintf("field %q string parsed as number", f.Name), true
			}
		}
	case TypeBoolean:
		if str, ok := v.(string); ok {
			switch strings.ToLower(strings.TrimSpace(str)) {
			case "true", "yes":
				return true, fmt.Sprintf("field %q string parsed as boolean", f.Name), true
			case "false", "no":
				return false, fmt.Sprintf("field %q string parsed as boolean", f.Name), true
			}
		}
	}
	return v, "", false
}

// normalizeEnum maps a string onto the canonical enum spelling. A value that
// matches no allowed entry resolves to the schema's declared default and only
// warns; it never fails on its own.
func normalizeEnum(str string, f *FieldSpec) (any, string, bool) {
	trimmed := strings.TrimSpace(str)
	for _, allowed := range f.Enum {
		if allowed == trimmed {
			if trimmed != str {
				return trimmed, fmt.Sprintf("field %q enum value %q trimmed", f.Name, str), true
			}
			return str, "", false
		}
		if strings.EqualFold(allowed, trimmed) {
			return allowed, fmt.Sprintf("field %q enum value %q normalized to %q", f.Name, str, allowed), true
		}
	}
	fallback := f.EnumDefault
	if fallback == "" && len(f.Enum) > 0 {
		fallback = f.Enum[0]
	}
	return fallback, fmt.Sprintf("field %q value %q not in enum %v, using %q", f.Name, str, f.Enum, fallback), true
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
