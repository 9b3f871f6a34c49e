package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const tripSchemaYAML = `
name: trip_file
version: "2"
fields:
  - name: destination
    type: string
    required: true
    synonyms: [location, place]
    placeholder: Unknown destination
  - name: budget
    type: number
    synonyms: [cost]
    default: 0
  - name: stops
    type: list
    elem: string
  - name: tier
    type: string
    enum: [budget, standard, luxury]
    enum_default: standard
`

func TestParseSchema(t *testing.T) {
	t.Run("full definition", func(t *testing.T) {
		s, err := ParseSchema(strings.NewReader(tripSchemaYAML))
		require.NoError(t, err)
		require.Equal(t, "trip_file", s.Name)
		require.Equal(t, "2", s.Version)
		require.Len(t, s.Fields, 4)

		dest, ok := s.Field("destination")
		require.True(t, ok)
		require.True(t, dest.Required)
		require.Equal(t, []string{"location", "place"}, dest.Synonyms)
		require.Equal(t, "Unknown destination", dest.Placeholder)

		budget, ok := s.Field("budget")
		require.True(t, ok)
		require.Equal(t, TypeNumber, budget.Type)
		require.Equal(t, float64(0), budget.Default, "yaml integers normalize to float64")

		stops, ok := s.Field("stops")
		require.True(t, ok)
		require.Equal(t, TypeList, stops.Type)
		require.Equal(t, TypeString, stops.Elem)

		tier, ok := s.Field("tier")
		require.True(t, ok)
		require.Equal(t, "standard", tier.EnumDefault)
	})

	t.Run("missing field type", func(t *testing.T) {
		_, err := ParseSchema(strings.NewReader("name: bad\nfields:\n  - name: a\n"))
		require.Error(t, err)
	})

	t.Run("unknown field type", func(t *testing.T) {
		_, err := ParseSchema(strings.NewReader("name: bad\nfields:\n  - name: a\n    type: datetime\n"))
		require.Error(t, err)
	})

	t.Run("unknown yaml key rejected", func(t *testing.T) {
		_, err := ParseSchema(strings.NewReader("name: bad\nrequired_fields: [a]\n"))
		require.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseSchema(strings.NewReader("{["))
		require.Error(t, err)
	})
}

func TestLoadSchemaFile(t *testing.T) {
	t.Run("round trip through disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trip.yaml")
		require.NoError(t, os.WriteFile(path, []byte(tripSchemaYAML), 0o644))

		s, err := LoadSchemaFile(path)
		require.NoError(t, err)
		require.Equal(t, "trip_file", s.Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSchemaFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
