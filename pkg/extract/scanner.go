package extract

import "strings"

// LocateJSON finds the boundaries of the first JSON object or array embedded
// in text. It returns the half-open byte range [start, end) of the balanced
// value, scanning with bracket depth and string-literal state so braces inside
// quoted strings do not count. An escape character always consumes the next
// byte. If the text ends before the value closes (truncated completion), end
// is len(text). ok is false when no opening bracket exists at all.
func LocateJSON(text string) (start, end int, ok bool) {
	start = strings.IndexAny(text, "{[")
	if start < 0 {
		return 0, 0, false
	}

	open := text[start]
	var closer byte = '}'
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return start, i + 1, true
			}
		}
	}

	// Ran off the end with the value still open. Hand back everything from
	// start so the repair engine can balance it.
	return start, len(text), true
}
