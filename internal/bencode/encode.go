package bencode

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
)

// Encode returns the canonical encoding of v: dictionary keys sorted by raw bytes, integers without padding.
func Encode(v Value) []byte {
	return AppendEncode(nil, v)
}

// AppendEncode appends the canonical encoding of v to dst. It panics on the zero Value, which no decode produces.
func AppendEncode(dst []byte, v Value) []byte {
	switch v.kind {
	case IntegerKind:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, v.integer, 10)
		return append(dst, 'e')
	case StringKind:
		return append_bytes(dst, v.str)
	case ListKind:
		dst = append(dst, 'l')
		for _, item := range v.items {
			dst = AppendEncode(dst, item)
		}
		return append(dst, 'e')
	case DictionaryKind:
		sorted := slices.Clone(v.entries)
		slices.SortFunc(sorted, func(a, b Entry) int {
			return bytes.Compare(a.Key, b.Key)
		})
		dst = append(dst, 'd')
		for _, e := range sorted {
			dst = append_bytes(dst, e.Key)
			dst = AppendEncode(dst, e.Value)
		}
		return append(dst, 'e')
	}
	panic(fmt.Sprintf("bencode: cannot encode a value of kind %v", v.kind))
}

func append_bytes(dst, s []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(s)), 10)
	dst = append(dst, ':')
	return append(dst, s...)
}
