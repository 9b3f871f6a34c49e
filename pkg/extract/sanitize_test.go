package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json untouched",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "code fence stripped",
			in:   "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "fence without language",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "half fence left alone",
			in:   "```json\n{\"a\": 1}",
			want: "```json\n{\"a\": 1}",
		},
		{
			name: "smart quotes straightened",
			in:   `{“destination”: “Paris”}`,
			want: `{"destination": "Paris"}`,
		},
		{
			name: "thousands separators removed",
			in:   `{"budget": 1,200, "total": 1,234,567}`,
			want: `{"budget": 1200, "total": 1234567}`,
		},
		{
			name: "comma in string survives",
			in:   `{"note": "around 1,200 dollars"}`,
			want: `{"note": "around 1,200 dollars"}`,
		},
		{
			name: "list of small numbers untouched",
			in:   `{"pair": [1, 200]}`,
			want: `{"pair": [1, 200]}`,
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  \n {\"a\": 1} \n ",
			want: `{"a": 1}`,
		},
		{
			name: "empty input",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"budget\": 1,200}\n```",
		`{“q”: “it’s fine”}`,
		`{"note": "keep 1,200 as written", "n": 1,200}`,
	}
	for _, in := range inputs {
		once := Sanitize(in)
		require.Equal(t, once, Sanitize(once))
	}
}

func TestApplyOutsideStrings(t *testing.T) {
	upper := func(s string) string { return "<" + s + ">" }

	t.Run("string spans pass through", func(t *testing.T) {
		got := applyOutsideStrings(`a "keep" b`, upper)
		require.Equal(t, `<a >"keep"< b>`, got)
	})

	t.Run("escaped quotes stay inside the string", func(t *testing.T) {
		got := applyOutsideStrings(`x "a \" b" y`, upper)
		require.Equal(t, `<x >"a \" b"< y>`, got)
	})

	t.Run("unterminated string stays untouched", func(t *testing.T) {
		got := applyOutsideStrings(`x "open`, upper)
		require.Equal(t, `<x >"open`, got)
	})
}
