package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// FieldType enumerates the value types a schema field can declare.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeObject  FieldType = "object"
	TypeList    FieldType = "list"
)

func (t FieldType) valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeObject, TypeList:
		return true
	}
	return false
}

// FieldSpec declares one field of a target schema together with its
// adaptation rules. Synonyms are alternate spellings the adapter maps onto
// the canonical name. Default fills the field when a completion omits it
// (optional fields only). Placeholder is the constant the fallback builder
// uses for a required field, so fallback output stays deterministic.
type FieldSpec struct {
	Name        string
	Type        FieldType
	Required    bool
	Synonyms    []string
	Default     any
	Placeholder any
	Enum        []string
	EnumDefault string
	Elem        FieldType // element type for lists; empty accepts any element
}

// Schema is a named, versioned description of the structured record a report
// type expects. Schemas are built ahead of time and read-only during
// extraction.
type Schema struct {
	Name    string
	Version string
	Fields  []FieldSpec
}

// Validate checks the schema definition itself, not a value.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("extract: schema requires a name")
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("extract: schema %s: field %d has no name", s.Name, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("extract: schema %s: duplicate field %q", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
		if !f.Type.valid() {
			return fmt.Errorf("extract: schema %s: field %q has unknown type %q", s.Name, f.Name, f.Type)
		}
		if len(f.Enum) > 0 && f.Type != TypeString {
			return fmt.Errorf("extract: schema %s: field %q declares an enum on non-string type", s.Name, f.Name)
		}
		if f.EnumDefault != "" && !containsFold(f.Enum, f.EnumDefault) {
			return fmt.Errorf("extract: schema %s: field %q enum default %q not in enum", s.Name, f.Name, f.EnumDefault)
		}
	}
	return nil
}

// Field returns the spec for name, if declared.
func (s *Schema) Field(name string) (*FieldSpec, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// Check strictly validates an adapted value against the schema: every
// required field must be present with the declared type, optional fields must
// be well-typed when present, and enum fields must hold an allowed value.
// Fields the schema does not declare are tolerated.
func (s *Schema) Check(value map[string]any) error {
	if value == nil {
		return fmt.Errorf("extract: schema %s: value is nil", s.Name)
	}
	for _, f := range s.Fields {
		v, ok := value[f.Name]
		if !ok {
			if f.Required {
				return fmt.Errorf("extract: schema %s: missing required field %q", s.Name, f.Name)
			}
			continue
		}
		if err := checkFieldType(v, &f); err != nil {
			return fmt.Errorf("extract: schema %s: field %q: %w", s.Name, f.Name, err)
		}
	}
	return nil
}

func checkFieldType(v any, f *FieldSpec) error {
	switch f.Type {
	case TypeString:
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		if len(f.Enum) > 0 && !containsFold(f.Enum, str) {
			return fmt.Errorf("value %q not in enum %v", str, f.Enum)
		}
	case TypeNumber:
		if !isNumeric(v) {
			return fmt.Errorf("expected number, got %T", v)
		}
	case TypeInteger:
		if !isIntegral(v) {
			return fmt.Errorf("expected integer, got %v (%T)", v, v)
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", v)
		}
	case TypeObject:
		if _, ok := v.(map[string]any); !ok {
			return fmt.Errorf("expected object, got %T", v)
		}
	case TypeList:
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("expected list, got %T", v)
		}
		if f.Elem != "" {
			elem := FieldSpec{Name: f.Name, Type: f.Elem}
			for i, item := range items {
				if err := checkFieldType(item, &elem); err != nil {
					return fmt.Errorf("element %d: %w", i, err)
				}
			}
		}
	}
	return nil
}

func isNumeric(v any) bool {
	switch n := v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		_, err := n.Float64()
		return err == nil
	}
	return false
}

func isIntegral(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return n == math.Trunc(n)
	case float32:
		return float64(n) == math.Trunc(float64(n))
	case json.Number:
		_, err := n.Int64()
		return err == nil
	}
	return false
}

// BuildFallback constructs the schema's minimal valid instance: every
// required field carries its declared placeholder (or an inferred zero when
// none is declared) and the triggering error is recorded under "error" so the
// value is explicitly marked, not silently synthetic.
func BuildFallback(s *Schema, reason string) map[string]any {
	out := make(map[string]any, len(s.Fields)+1)
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		if f.Placeholder != nil {
			out[f.Name] = f.Placeholder
			continue
		}
		out[f.Name] = zeroValue(&f)
	}
	if reason != "" {
		out["error"] = reason
	}
	return out
}

func zeroValue(f *FieldSpec) any {
	switch f.Type {
	case TypeString:
		if f.EnumDefault != "" {
			return f.EnumDefault
		}
		if len(f.Enum) > 0 {
			return f.Enum[0]
		}
		return ""
	case TypeNumber:
		return float64(0)
	case TypeInteger:
		return float64(0)
	case TypeBoolean:
		return false
	case TypeObject:
		return map[string]any{}
	case TypeList:
		return []any{}
	}
	return nil
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
