// https://drafts.csswg.org/cssom/#common-serializing-idioms
package selector

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

func EscapeIdentifier(unescaped string) string {
	var escaped strings.Builder
	for i := 0; i < len(unescaped); {
		r, w := utf8.DecodeRuneInString(unescaped[i:])
		switch {
		case r == '\u0000':
			escaped.WriteRune('\uFFFD')
		case r >= '\u0001' && r <= '\u001F', r == '\u007F',
			i == 0 && r >= '0' && r <= '9',
			i == 1 && r >= '0' && r <= '9' && unescaped[0] == '-':
			escaped.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		case i == 0 && len(unescaped) == 1 && r == '-':
			escaped.WriteString(`\-`)
		case r == '-' || r == '_' || r >= '\u0080' ||
			r >= '0' && r <= '9' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
			escaped.WriteRune(r)
		default:
			escaped.WriteString(`\` + string(r))
		}
		i += w
	}
	return escaped.String()
}

func EscapeString(unescaped string) string {
	var escaped strings.Builder
	escaped.WriteByte('"')
	for _, r := range unescaped {
		switch {
		case r == '\u0000':
			escaped.WriteRune('\uFFFD')
		case r >= '\u0001' && r <= '\u001F', r == '\u007F':
			escaped.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		case r == '"' || r == '\\':
			escaped.WriteString(`\` + string(r))
		default:
			escaped.WriteRune(r)
		}
	}
	escaped.WriteByte('"')
	return escaped.String()
}
