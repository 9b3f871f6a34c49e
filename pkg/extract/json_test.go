package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		v, err := parseJSON(`{"a": 1}`)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": float64(1)}, v)
	})

	t.Run("trailing garbage rejected", func(t *testing.T) {
		_, err := parseJSON(`{"a": 1} {"b": 2}`)
		require.Error(t, err)
	})

	t.Run("trailing whitespace tolerated", func(t *testing.T) {
		_, err := parseJSON("{\"a\": 1}\n  ")
		require.NoError(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := parseJSON(`{`)
		require.Error(t, err)
	})
}

func TestDecodeValue(t *testing.T) {
	type target struct {
		Name  string  `json:"name"`
		Count float64 `json:"count"`
	}

	t.Run("map to struct", func(t *testing.T) {
		var out target
		err := DecodeValue(map[string]any{"name": "x", "count": 2.0}, &out)
		require.NoError(t, err)
		require.Equal(t, target{Name: "x", Count: 2.0}, out)
	})

	t.Run("mismatched shape errors", func(t *testing.T) {
		var out target
		err := DecodeValue(map[string]any{"name": []any{1, 2}}, &out)
		require.Error(t, err)
	})
}
