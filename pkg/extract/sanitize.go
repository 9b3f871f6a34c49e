package extract

import (
	"regexp"
	"strings"
)

var (
	smartQuotes = strings.NewReplacer(
		"“", `"`, // “
		"”", `"`, // ”
		"‘", "'", // ‘
		"’", "'", // ’
	)

	// A comma splicing two digit groups where the trailing group is exactly
	// three digits and nothing numeric follows: 1,234 but not 1,23 or 1,2345.
	thousandsRE = regexp.MustCompile(`(\d),(\d{3})([^\d]|$)`)
)

// Sanitize normalizes a model completion before the first parse attempt:
// markdown code fences are stripped, typographic quotes become straight
// quotes, and thousands-separating commas are removed from numeric literals.
// Sanitize is idempotent.
func Sanitize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = stripCodeFence(text)
	text = smartQuotes.Replace(text)
	text = applyOutsideStrings(text, stripThousands)
	return strings.TrimSpace(text)
}

// stripCodeFence removes a leading "```lang" line and the trailing "```"
// marker. Both must be present; a half-fenced completion is left alone so the
// scanner can still find the payload.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[len(lines)-1]) != "```" {
		return text
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

func stripThousands(segment string) string {
	for {
		next := thousandsRE.ReplaceAllString(segment, "$1$2$3")
		if next == segment {
			return segment
		}
		segment = next
	}
}

// applyOutsideStrings runs transform over the spans of text that sit outside
// JSON string literals, copying string contents (quotes included) through
// untouched. On text with an unterminated string the trailing span is treated
// as part of the string, which keeps the transforms from mangling it.
func applyOutsideStrings(text string, transform func(string) string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	i := 0
	for i < len(text) {
		j := i
		for j < len(text) && text[j] != '"' {
			j++
		}
		b.WriteString(transform(text[i:j]))
		if j >= len(text) {
			break
		}

		k := j + 1
		escaped := false
		for k < len(text) {
			c := text[k]
			if escaped {
				escaped = false
				k++
				continue
			}
			if c == '\\' {
				escaped = true
				k++
				continue
			}
			k++
			if c == '"' {
				break
			}
		}
		b.WriteString(text[j:k])
		i = k
	}
	return b.String()
}
