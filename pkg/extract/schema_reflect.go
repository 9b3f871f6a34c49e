package extract

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SchemaFromStruct derives a Schema from a struct definition. The json tag
// names the field ("-" skips it, ",omitempty" marks it optional); adaptation
// rules come from dedicated tags:
//
//	synonyms:"writer|author_name"   alternate field names, pipe separated
//	enum:"high|medium|low"          allowed values for a string field
//	enum_default:"low"              value used when the enum match fails
//	default:"recommended"           default for a missing optional field
//	placeholder:"Unknown"           fallback-builder constant
//
// Scalar tag values are parsed according to the field's Go type.
func SchemaFromStruct(name, version string, v any) (*Schema, error) {
	if v == nil {
		return nil, errors.New("extract: schema value cannot be nil")
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("extract: schema must be a struct, got %s", t.Kind())
	}

	s := &Schema{Name: name, Version: version}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("json") == "-" {
			continue
		}

		fieldName, omitEmpty := parseJSONTag(field)
		if fieldName == "" {
			fieldName = field.Name
		}

		ft, elem, err := fieldTypeFor(field.Type)
		if err != nil {
			return nil, fmt.Errorf("extract: schema %s: field %s: %w", name, field.Name, err)
		}

		spec := FieldSpec{
			Name:     fieldName,
			Type:     ft,
			Elem:     elem,
			Required: !omitEmpty,
		}
		if syn := field.Tag.Get("synonyms"); syn != "" {
			spec.Synonyms = strings.Split(syn, "|")
		}
		if enum := field.Tag.Get("enum"); enum != "" {
			spec.Enum = strings.Split(enum, "|")
		}
		spec.EnumDefault = field.Tag.Get("enum_default")
		if def, ok := field.Tag.Lookup("default"); ok {
			parsed, err := parseTagValue(def, ft)
			if err != nil {
				return nil, fmt.Errorf("extract: schema %s: field %s default: %w", name, field.Name, err)
			}
			spec.Default = parsed
		}
		if ph, ok := field.Tag.Lookup("placeholder"); ok {
			parsed, err := parseTagValue(ph, ft)
			if err != nil {
				return nil, fmt.Errorf("extract: schema %s: field %s placeholder: %w", name, field.Name, err)
			}
			spec.Placeholder = parsed
		}

		s.Fields = append(s.Fields, spec)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustSchemaFromStruct panics on a bad struct definition; for init blocks.
func MustSchemaFromStruct(name, version string, v any) *Schema {
	s, err := SchemaFromStruct(name, version, v)
	if err != nil {
		panic(err)
	}
	return s
}

func parseJSONTag(field reflect.StructField) (name string, omitEmpty bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, part := range parts[1:] {
		if part == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}

func fieldTypeFor(t reflect.Type) (FieldType, FieldType, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return TypeString, "", nil
	case reflect.Bool:
		return TypeBoolean, "", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger, "", nil
	case reflect.Float32, reflect.Float64:
		return TypeNumber, "", nil
	case reflect.Slice, reflect.Array:
		// Nested lists validate shallowly: the element type is recorded but
		// its own elements are not.
		elem, _, err := fieldTypeFor(t.Elem())
		if err != nil {
			return "", "", err
		}
		return TypeList, elem, nil
	case reflect.Map, reflect.Struct:
		return TypeObject, "", nil
	default:
		return "", "", fmt.Errorf("unsupported kind %s", t.Kind())
	}
}

func parseTagValue(raw string, t FieldType) (any, error) {
	switch t {
	case TypeString:
		return raw, nil
	case TypeBoolean:
		return strconv.ParseBool(raw)
	case TypeInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		return float64(n), nil
	case TypeNumber:
		return strconv.ParseFloat(raw, 64)
	case TypeList:
		if raw == "" {
			return []any{}, nil
		}
		items := strings.Split(raw, "|")
		out := make([]any, 0, len(items))
		for _, item := range items {
			out = append(out, item)
		}
		return out, nil
	case TypeObject:
		if raw == "" {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("object tag values must be empty")
	}
	return nil, fmt.Errorf("cannot parse tag value for type %q", t)
}
