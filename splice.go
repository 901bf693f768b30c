package jsonedit

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// locateValueSpan finds the exact [start,end) byte span of the value
// addressed by p within serialized JSON text. ok=false means the span
// could not be located unambiguously: malformed text, a path that does
// not exist in the text, or a duplicate object key at the target level
// (splicing next to a duplicate could change which occurrence wins).
func locateValueSpan(text []byte, p Path) (start, end int, ok bool) {
	return seekValue(text, skipWS(text, 0), p)
}

func seekValue(text []byte, pos int, p Path) (int, int, bool) {
	pos = skipWS(text, pos)
	if pos >= len(text) {
		return 0, 0, false
	}
	if len(p) == 0 {
		end, ok := endOfValue(text, pos)
		return pos, end, ok
	}
	if p[0].IsIndex {
		return seekElement(text, pos, p)
	}
	return seekMember(text, pos, p)
}

func seekElement(text []byte, pos int, p Path) (int, int, bool) {
	if text[pos] != '[' {
		return 0, 0, false
	}
	i := skipWS(text, pos+1)
	if i < len(text) && text[i] == ']' {
		return 0, 0, false
	}
	idx := 0
	for {
		i = skipWS(text, i)
		if idx == p[0].Index {
			return seekValue(text, i, p[1:])
		}
		valEnd, ok := endOfValue(text, i)
		if !ok {
			return 0, 0, false
		}
		i = skipWS(text, valEnd)
		if i >= len(text) || text[i] != ',' {
			return 0, 0, false // closed before reaching the index
		}
		i++
		idx++
	}
}

func seekMember(text []byte, pos int, p Path) (int, int, bool) {
	if text[pos] != '{' {
		return 0, 0, false
	}
	i := skipWS(text, pos+1)
	if i < len(text) && text[i] == '}' {
		return 0, 0, false
	}
	var start, end int
	found := false
	for {
		i = skipWS(text, i)
		if i >= len(text) || text[i] != '"' {
			return 0, 0, false
		}
		key, keyEnd, ok := scanJSONString(text, i)
		if !ok {
			return 0, 0, false
		}
		i = skipWS(text, keyEnd)
		if i >= len(text) || text[i] != ':' {
			return 0, 0, false
		}
		i = skipWS(text, i+1)
		if key == p[0].Name {
			if found {
				return 0, 0, false // duplicate key, ambiguous target
			}
			s, e, ok := seekValue(text, i, p[1:])
			if !ok {
				return 0, 0, false
			}
			start, end, found = s, e, true
		}
		valEnd, ok := endOfValue(text, i)
		if !ok {
			return 0, 0, false
		}
		i = skipWS(text, valEnd)
		if i >= len(text) {
			return 0, 0, false
		}
		switch text[i] {
		case ',':
			i++
		case '}':
			if found {
				return start, end, true
			}
			return 0, 0, false
		default:
			return 0, 0, false
		}
	}
}

func skipWS(text []byte, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// endOfValue returns the index just past the JSON value starting at i.
func endOfValue(text []byte, i int) (int, bool) {
	if i >= len(text) {
		return 0, false
	}
	switch text[i] {
	case '"':
		_, end, ok := scanJSONString(text, i)
		return end, ok
	case '{', '[':
		return endOfContainer(text, i)
	case 't':
		return literalEnd(text, i, "true")
	case 'f':
		return literalEnd(text, i, "false")
	case 'n':
		return literalEnd(text, i, "null")
	default:
		return numberEnd(text, i)
	}
}

func endOfContainer(text []byte, i int) (int, bool) {
	depth := 0
	for i < len(text) {
		switch text[i] {
		case '{', '[':
			depth++
			i++
		case '}', ']':
			depth--
			i++
			if depth == 0 {
				return i, true
			}
		case '"':
			_, end, ok := scanJSONString(text, i)
			if !ok {
				return 0, false
			}
			i = end
		default:
			i++
		}
	}
	return 0, false
}

func literalEnd(text []byte, i int, lit string) (int, bool) {
	if len(text)-i >= len(lit) && string(text[i:i+len(lit)]) == lit {
		return i + len(lit), true
	}
	return 0, false
}

func numberEnd(text []byte, i int) (int, bool) {
	start := i
	for i < len(text) {
		c := text[i]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			i++
			continue
		}
		break
	}
	if i == start {
		return 0, false
	}
	return i, true
}

// scanJSONString decodes the string starting at the opening quote and
// returns its value plus the index past the closing quote.
func scanJSONString(text []byte, i int) (string, int, bool) {
	if i >= len(text) || text[i] != '"' {
		return "", 0, false
	}
	i++
	var sb strings.Builder
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"':
			return sb.String(), i + 1, true
		case c == '\\':
			if i+1 >= len(text) {
				return "", 0, false
			}
			esc := text[i+1]
			switch esc {
			case '"', '\\', '/':
				sb.WriteByte(esc)
				i += 2
			case 'b':
				sb.WriteByte('\b')
				i += 2
			case 'f':
				sb.WriteByte('\f')
				i += 2
			case 'n':
				sb.WriteByte('\n')
				i += 2
			case 'r':
				sb.WriteByte('\r')
				i += 2
			case 't':
				sb.WriteByte('\t')
				i += 2
			case 'u':
				r, next, ok := scanUnicodeEscape(text, i)
				if !ok {
					return "", 0, false
				}
				sb.WriteRune(r)
				i = next
			default:
				return "", 0, false
			}
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return "", 0, false
}

func scanUnicodeEscape(text []byte, i int) (rune, int, bool) {
	// i points at the backslash of \uXXXX.
	if i+6 > len(text) {
		return 0, 0, false
	}
	hi, err := strconv.ParseUint(string(text[i+2:i+6]), 16, 32)
	if err != nil {
		return 0, 0, false
	}
	r := rune(hi)
	i += 6
	if utf16.IsSurrogate(r) && i+6 <= len(text) && text[i] == '\\' && text[i+1] == 'u' {
		lo, err := strconv.ParseUint(string(text[i+2:i+6]), 16, 32)
		if err == nil {
			if combined := utf16.DecodeRune(r, rune(lo)); combined != utf8.RuneError {
				return combined, i + 6, true
			}
		}
	}
	if utf16.IsSurrogate(r) {
		r = utf8.RuneError
	}
	return r, i, true
}
