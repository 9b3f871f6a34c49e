package extract

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// schemaFile mirrors the on-disk YAML layout of a schema definition.
type schemaFile struct {
	Name    string            `yaml:"name"`
	Version string            `yaml:"version"`
	Fields  []schemaFileField `yaml:"fields"`
}

type schemaFileField struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Required    bool     `yaml:"required"`
	Synonyms    []string `yaml:"synonyms"`
	Default     any      `yaml:"default"`
	Placeholder any      `yaml:"placeholder"`
	Enum        []string `yaml:"enum"`
	EnumDefault string   `yaml:"enum_default"`
	Elem        string   `yaml:"elem"`
}

// ParseSchema decodes a single schema definition from r and validates it.
func ParseSchema(r io.Reader) (*Schema, error) {
	var file schemaFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("extract: decode schema: %w", err)
	}
	s := &Schema{
		Name:    file.Name,
		Version: file.Version,
		Fields:  make([]FieldSpec, 0, len(file.Fields)),
	}
	for _, f := range file.Fields {
		ft, err := fieldTypeFromString(f.Type)
		if err != nil {
			return nil, fmt.Errorf("extract: schema %q field %q: %w", file.Name, f.Name, err)
		}
		spec := FieldSpec{
			Name:        f.Name,
			Type:        ft,
			Required:    f.Required,
			Synonyms:    f.Synonyms,
			Default:     normalizeYAMLValue(f.Default),
			Placeholder: normalizeYAMLValue(f.Placeholder),
			Enum:        f.Enum,
			EnumDefault: f.EnumDefault,
		}
		if f.Elem != "" {
			et, err := fieldTypeFromString(f.Elem)
			if err != nil {
				return nil, fmt.Errorf("extract: schema %q field %q elem: %w", file.Name, f.Name, err)
			}
			spec.Elem = et
		}
		s.Fields = append(s.Fields, spec)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSchemaFile reads a YAML schema definition from path.
func LoadSchemaFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extract: open schema file: %w", err)
	}
	defer f.Close()
	s, err := ParseSchema(f)
	if err != nil {
		return nil, fmt.Errorf("extract: schema file %s: %w", path, err)
	}
	return s, nil
}

func fieldTypeFromString(s string) (FieldType, error) {
	switch FieldType(s) {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeObject, TypeList:
		return FieldType(s), nil
	case "":
		return "", fmt.Errorf("missing type")
	default:
		return "", fmt.Errorf("unknown type %q", s)
	}
}

// normalizeYAMLValue converts YAML integer defaults to float64 so that
// defaults compare cleanly against JSON-decoded values.
func normalizeYAMLValue(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalizeYAMLValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[k] = normalizeYAMLValue(e)
		}
		return out
	default:
		return v
	}
}
