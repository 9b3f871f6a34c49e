package extract

import (
	"regexp"
	"strings"
)

// snippetLimit bounds the before/after excerpts kept in a RepairAttempt.
const snippetLimit = 240

// repairRule is a single pure text transformation with a stable name.
type repairRule struct {
	name  string
	apply func(string) string
}

// repairRules is the fixed pass order. Later rules assume the earlier
// normalizations already ran; do not reorder without re-running the full
// heuristic test suite.
var repairRules = []repairRule{
	{"normalize_quotes", normalizeQuotes},
	{"insert_line_commas", insertLineCommas},
	{"translate_literals", translateLiterals},
	{"strip_trailing_commas", stripTrailingCommas},
	{"insert_adjacent_commas", insertAdjacentCommas},
	{"quote_bare_keys", quoteBareKeys},
	{"convert_single_quotes", convertSingleQuotes},
	{"quote_bare_values", quoteBareValues},
	{"balance_brackets", balanceBrackets},
	{"trim_dangling_comma", trimDanglingComma},
	{"strip_stray_escapes", stripStrayEscapes},
}

// Repair applies the heuristic rule sequence to near-JSON text and returns the
// repaired text plus a log of every rule that changed it. It is only worth
// calling after a first parse attempt failed; on already-valid JSON the rules
// leave the parsed value intact.
func Repair(text string) (string, []RepairAttempt) {
	var attempts []RepairAttempt
	for _, rule := range repairRules {
		out := rule.apply(text)
		if out != text {
			attempts = append(attempts, RepairAttempt{
				Rule:   rule.name,
				Before: snippet(text),
				After:  snippet(out),
			})
			text = out
		}
	}
	return text, attempts
}

func snippet(s string) string {
	if len(s) <= snippetLimit {
		return s
	}
	return s[:snippetLimit] + "..."
}

// normalizeQuotes repeats the sanitizer's smart-quote replacement so the
// repair engine stands alone when handed raw text.
func normalizeQuotes(s string) string {
	return smartQuotes.Replace(s)
}

// insertLineCommas appends a comma to a line that ends with a value terminal
// when the next non-blank line starts another value or key and nothing
// (comma, opener, colon) already joins them.
func insertLineCommas(s string) string {
	lines := strings.Split(s, "\n")
	for i := 0; i < len(lines)-1; i++ {
		cur := strings.TrimRight(lines[i], " \t\r")
		trimmed := strings.TrimSpace(cur)
		if trimmed == "" || !endsWithValueTerminal(trimmed) {
			continue
		}

		next := ""
		for j := i + 1; j < len(lines); j++ {
			if t := strings.TrimSpace(lines[j]); t != "" {
				next = t
				break
			}
		}
		if next == "" || !beginsValueToken(next[0]) {
			continue
		}
		lines[i] = cur + ","
	}
	return strings.Join(lines, "\n")
}

func endsWithValueTerminal(line string) bool {
	last := line[len(line)-1]
	switch {
	case last == ',' || last == '{' || last == '[' || last == ':':
		return false
	case last == '"' || last == '}' || last == ']':
		return true
	case last >= '0' && last <= '9':
		return true
	}
	for _, word := range []string{"true", "false", "null"} {
		if strings.HasSuffix(line, word) {
			return true
		}
	}
	return false
}

func beginsValueToken(c byte) bool {
	switch {
	case c == '"' || c == '{' || c == '[' || c == '-':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		return true
	}
	return false
}

var pythonLiterals = []struct {
	re  *regexp.Regexp
	out string
}{
	{regexp.MustCompile(`\bTrue\b`), "true"},
	{regexp.MustCompile(`\bFalse\b`), "false"},
	{regexp.MustCompile(`\bNone\b`), "null"},
	{regexp.MustCompile(`\bNaN\b`), "null"},
	{regexp.MustCompile(`-?\bInfinity\b`), "null"},
}

// translateLiterals rewrites language-native literal spellings (True, False,
// None) and non-finite numbers (NaN, Infinity) into JSON literals. String
// contents are left alone.
func translateLiterals(s string) string {
	return applyOutsideStrings(s, func(seg string) string {
		for _, lit := range pythonLiterals {
			seg = lit.re.ReplaceAllString(seg, lit.out)
		}
		return seg
	})
}

// stripTrailingCommas removes a comma that directly precedes a closing brace
// or bracket, outside string literals.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isSpaceByte(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // drop the comma, keep the whitespace
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// insertAdjacentCommas puts a comma between two adjacent value tokens that are
// separated only by whitespace: `"a" "b"`, `} {`, `] [`, `1 {` and friends.
// The scan is string-aware so values containing spaces and brackets survive.
// Two strings with nothing at all between them are left alone; that shape is
// indistinguishable from an empty string literal.
func insertAdjacentCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	var ws []byte // whitespace buffered since the last significant byte
	inString := false
	escaped := false
	lastValueEnd := false

	flush := func() {
		b.Write(ws)
		ws = ws[:0]
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
				lastValueEnd = true
			}
			continue
		}
		if isSpaceByte(c) {
			ws = append(ws, c)
			continue
		}
		switch {
		case c == '"':
			if lastValueEnd && len(ws) > 0 {
				b.WriteByte(',')
			}
			flush()
			inString = true
			lastValueEnd = false
			b.WriteByte(c)
		case c == '{' || c == '[':
			if lastValueEnd {
				b.WriteByte(',')
			}
			flush()
			lastValueEnd = false
			b.WriteByte(c)
		case (c == '}' || c == ']') || (c >= '0' && c <= '9'):
			flush()
			lastValueEnd = true
			b.WriteByte(c)
		default:
			flush()
			lastValueEnd = false
			b.WriteByte(c)
		}
	}
	flush()
	return b.String()
}

var bareKeyRE = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)

// quoteBareKeys wraps an unquoted identifier that starts an object member in
// double quotes: {key: 1} -> {"key": 1}.
func quoteBareKeys(s string) string {
	return applyOutsideStrings(s, func(seg string) string {
		return bareKeyRE.ReplaceAllString(seg, `$1"$2"$3`)
	})
}

var (
	singleQuotedKeyRE   = regexp.MustCompile(`([{,]\s*)'([^']*)'(\s*:)`)
	singleQuotedValueRE = regexp.MustCompile(`(:\s*)'([^']*)'`)
	singleQuotedItemRE  = regexp.MustCompile(`([\[,]\s*)'([^']*)'(\s*[,\]}])`)
)

// convertSingleQuotes rewrites single-quoted keys and values to double-quoted
// form. Quotes inside the converted span are escaped.
func convertSingleQuotes(s string) string {
	return applyOutsideStrings(s, func(seg string) string {
		seg = replaceSingleQuoted(seg, singleQuotedKeyRE)
		seg = replaceSingleQuoted(seg, singleQuotedValueRE)
		seg = replaceSingleQuoted(seg, singleQuotedItemRE)
		return seg
	})
}

func replaceSingleQuoted(seg string, re *regexp.Regexp) string {
	return re.ReplaceAllStringFunc(seg, func(m string) string {
		parts := re.FindStringSubmatch(m)
		inner := strings.ReplaceAll(parts[2], `"`, `\"`)
		tail := ""
		if len(parts) > 3 {
			tail = parts[3]
		}
		return parts[1] + `"` + inner + `"` + tail
	})
}

var bareValueRE = regexp.MustCompile(`(:\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*[,}\]])`)

// quoteBareValues wraps an unquoted identifier value in double quotes. This is
// best-effort: an identifier-looking token that was meant to stay bare will be
// quoted anyway, a known limitation of the heuristic. JSON literals are
// skipped (the literal pass already normalized their spelling).
func quoteBareValues(s string) string {
	return applyOutsideStrings(s, func(seg string) string {
		return bareValueRE.ReplaceAllStringFunc(seg, func(m string) string {
			parts := bareValueRE.FindStringSubmatch(m)
			switch parts[2] {
			case "true", "false", "null":
				return m
			}
			return parts[1] + `"` + parts[2] + `"` + parts[3]
		})
	})
}

// balanceBrackets appends the closers still owed at end of text. Truncation is
// assumed to happen only at the end, so openers are never inserted and nothing
// in the middle is touched.
func balanceBrackets(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 && !inString {
		return s
	}
	if inString && looksDoubleEncoded(s) {
		// What reads as one giant unterminated string is really a payload
		// whose quotes are all escaped. The stray-escape pass unwraps it;
		// appending closers here would corrupt it.
		return s
	}

	if !inString {
		// A comma dangling before the appended closers would re-introduce the
		// trailing-comma problem that already got stripped.
		s = danglingCommaRE.ReplaceAllString(s, "")
	}

	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

var danglingCommaRE = regexp.MustCompile(`,\s*$`)

// trimDanglingComma drops a comma left hanging at the very end of the text.
func trimDanglingComma(s string) string {
	return danglingCommaRE.ReplaceAllString(s, "")
}

// stripStrayEscapes unwraps completions that arrived double-encoded, i.e. the
// whole payload is escaped (`{\"key\": \"value\"}`) with no real string
// delimiters left. When bare quotes exist the text is assumed to be ordinary
// JSON and the escapes are legitimate.
func stripStrayEscapes(s string) string {
	if !looksDoubleEncoded(s) {
		return s
	}
	trimmed := strings.TrimSpace(s)
	if bareQuoteCount(s) == 2 && strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	return strings.ReplaceAll(trimmed, `\"`, `"`)
}

// looksDoubleEncoded reports whether the text appears to be a JSON payload
// whose string delimiters all arrived escaped: escape sequences present, at
// most an outer quote pair left bare.
func looksDoubleEncoded(s string) bool {
	return strings.Contains(s, `\"`) && bareQuoteCount(s) <= 2
}

func bareQuoteCount(s string) int {
	bare := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			bare++
		}
	}
	return bare
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
