package bencode

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"
)

// String renders v on one line for debugging. Byte strings are shown quoted when they are valid UTF-8 and as 0x-prefixed
// hex otherwise; dictionaries keep their stored order.
func (v Value) String() string {
	var sb strings.Builder
	write_value(&sb, v)
	return sb.String()
}

func write_value(sb *strings.Builder, v Value) {
	switch v.kind {
	case IntegerKind:
		sb.WriteString(strconv.FormatInt(v.integer, 10))
	case StringKind:
		sb.WriteString(DisplayBytes(v.str))
	case ListKind:
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			write_value(sb, item)
		}
		sb.WriteByte(']')
	case DictionaryKind:
		sb.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(DisplayBytes(e.Key))
			sb.WriteString(": ")
			write_value(sb, e.Value)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("#!NULL!#")
	}
}

// DisplayBytes is the text form used for a byte string at a display boundary.
func DisplayBytes(s []byte) string {
	if utf8.Valid(s) {
		return strconv.Quote(string(s))
	}
	return "0x" + hex.EncodeToString(s)
}
