package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("register and lookup", func(t *testing.T) {
		s := &Schema{Name: "registry_lookup", Fields: []FieldSpec{{Name: "a", Type: TypeString}}}
		require.NoError(t, Register(s, nil))

		got, adapter, ok := Lookup("registry_lookup")
		require.True(t, ok)
		require.Nil(t, adapter)
		require.Equal(t, s, got)
	})

	t.Run("re-register replaces", func(t *testing.T) {
		first := &Schema{Name: "registry_replace", Version: "1", Fields: []FieldSpec{{Name: "a", Type: TypeString}}}
		second := &Schema{Name: "registry_replace", Version: "2", Fields: []FieldSpec{{Name: "a", Type: TypeString}}}
		require.NoError(t, Register(first, nil))
		require.NoError(t, Register(second, nil))

		got, _, ok := Lookup("registry_replace")
		require.True(t, ok)
		require.Equal(t, "2", got.Version)
	})

	t.Run("adapter hook returned", func(t *testing.T) {
		s := &Schema{Name: "registry_hook", Fields: []FieldSpec{{Name: "a", Type: TypeString}}}
		hook := func(v any, _ *Schema) (any, []string) { return v, nil }
		require.NoError(t, Register(s, hook))

		_, adapter, ok := Lookup("registry_hook")
		require.True(t, ok)
		require.NotNil(t, adapter)
	})

	t.Run("invalid schema rejected", func(t *testing.T) {
		require.Error(t, Register(&Schema{}, nil))
		require.Error(t, Register(nil, nil))
	})

	t.Run("unknown name misses", func(t *testing.T) {
		_, _, ok := Lookup("registry_missing")
		require.False(t, ok)
	})

	t.Run("names listed sorted", func(t *testing.T) {
		require.NoError(t, Register(&Schema{Name: "registry_zz", Fields: []FieldSpec{{Name: "a", Type: TypeString}}}, nil))
		require.NoError(t, Register(&Schema{Name: "registry_aa", Fields: []FieldSpec{{Name: "a", Type: TypeString}}}, nil))

		names := RegisteredSchemas()
		require.Contains(t, names, "registry_aa")
		require.Contains(t, names, "registry_zz")
		require.IsIncreasing(t, names)
	})
}
