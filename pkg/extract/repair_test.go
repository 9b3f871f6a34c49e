package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRepairRules(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single quoted keys and values",
			in:   `{'destination': 'Paris', 'budget': 1200}`,
			want: `{"destination": "Paris", "budget": 1200}`,
		},
		{
			name: "bare keys",
			in:   `{destination: "Paris", budget: 1200}`,
			want: `{"destination": "Paris", "budget": 1200}`,
		},
		{
			name: "python literals",
			in:   `{"ok": True, "bad": False, "missing": None}`,
			want: `{"ok": true, "bad": false, "missing": null}`,
		},
		{
			name: "non finite numbers",
			in:   `{"rate": NaN, "max": Infinity, "min": -Infinity}`,
			want: `{"rate": null, "max": null, "min": null}`,
		},
		{
			name: "trailing comma in object",
			in:   `{"a": 1, "b": 2,}`,
			want: `{"a": 1, "b": 2}`,
		},
		{
			name: "trailing comma in array",
			in:   `{"xs": [1, 2, 3,]}`,
			want: `{"xs": [1, 2, 3]}`,
		},
		{
			name: "missing comma between line values",
			in:   "{\"a\": 1\n\"b\": 2}",
			want: "{\"a\": 1,\n\"b\": 2}",
		},
		{
			name: "missing comma between adjacent strings",
			in:   `{"xs": ["a" "b"]}`,
			want: `{"xs": ["a", "b"]}`,
		},
		{
			name: "missing comma between objects",
			in:   `{"xs": [{"a": 1} {"b": 2}]}`,
			want: `{"xs": [{"a": 1}, {"b": 2}]}`,
		},
		{
			name: "truncated object balanced",
			in:   `{"a": {"b": [1, 2`,
			want: `{"a": {"b": [1, 2]}}`,
		},
		{
			name: "truncated string closed then balanced",
			in:   `{"a": "unfinished`,
			want: `{"a": "unfinished"}`,
		},
		{
			name: "dangling comma after truncation",
			in:   `{"a": 1,`,
			want: `{"a": 1}`,
		},
		{
			name: "double encoded payload",
			in:   `{\"a\": 1, \"b\": \"two\"}`,
			want: `{"a": 1, "b": "two"}`,
		},
		{
			name: "bare identifier value",
			in:   `{"status": ready, "a": 1}`,
			want: `{"status": "ready", "a": 1}`,
		},
		{
			name: "smart quotes",
			in:   `{“a”: “b”}`,
			want: `{"a": "b"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, attempts := Repair(tt.in)
			require.Equal(t, tt.want, got)
			require.NotEmpty(t, attempts)

			var v any
			require.NoError(t, json.Unmarshal([]byte(got), &v), "repaired text must parse")
		})
	}
}

// Valid JSON must come out of the repair engine meaning the same thing it
// meant going in, even when a rule rewrites the text cosmetically.
func TestRepairPreservesValidJSON(t *testing.T) {
	inputs := []string{
		`{"a": 1, "b": [true, null], "c": {"d": "e"}}`,
		`{"text": "commas, {braces} and 'quotes' inside strings"}`,
		`{"note": "True and None are words here"}`,
		`{"path": "C:\\temp\\file"}`,
		`[]`,
		`{}`,
		`{"empty": ""}`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			out, _ := Repair(in)

			var before, after any
			require.NoError(t, json.Unmarshal([]byte(in), &before))
			require.NoError(t, json.Unmarshal([]byte(out), &after))
			require.Equal(t, before, after)
		})
	}
}

func TestRepairAttemptTrace(t *testing.T) {
	_, attempts := Repair(`{'a': True,}`)
	require.NotEmpty(t, attempts)

	names := make([]string, 0, len(attempts))
	for _, a := range attempts {
		require.NotEmpty(t, a.Rule)
		require.NotEqual(t, a.Before, a.After)
		names = append(names, a.Rule)
	}
	require.Contains(t, names, "translate_literals")
	require.Contains(t, names, "strip_trailing_commas")
}

func TestRepairSnippetTruncation(t *testing.T) {
	long := `{"xs": [`
	for i := 0; i < 200; i++ {
		long += `"padding entry",`
	}

	_, attempts := Repair(long)
	require.NotEmpty(t, attempts)
	for _, a := range attempts {
		require.LessOrEqual(t, len(a.Before), snippetLimit+len("..."))
		require.LessOrEqual(t, len(a.After), snippetLimit+len("..."))
	}
}
