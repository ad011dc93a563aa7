package bencode

import (
	"bytes"
	"errors"
	"strconv"
)

// Code to decode bencoded data, e.g. a torrent file. There are only four datatypes, and its all done around individual
// bytes (text encoding does not apply here)

// MaxDepth bounds list/dictionary nesting so that crafted input cannot exhaust the stack.
const MaxDepth = 10000

// Decode decodes the first bencoded value in data. Bytes after that value are ignored; use DecodePrefix to see them.
func Decode(data []byte) (Value, error) {
	v, _, err := DecodePrefix(data)
	return v, err
}

// DecodePrefix decodes the first bencoded value in data and returns whatever follows it.
func DecodePrefix(data []byte) (Value, []byte, error) {
	c := &cursor{data: data}
	v, err := decode_value(c, 0)
	if err != nil {
		return Value{}, nil, err
	}
	return v, c.remainder(), nil
}

func DecodeInteger(data []byte) (Value, error) {
	return DecodeAs(data, IntegerKind)
}

func DecodeString(data []byte) (Value, error) {
	return DecodeAs(data, StringKind)
}

func DecodeList(data []byte) (Value, error) {
	return DecodeAs(data, ListKind)
}

func DecodeDictionary(data []byte) (Value, error) {
	return DecodeAs(data, DictionaryKind)
}

// DecodeAs is the typed entry point for a kind chosen at runtime. Invalid accepts any kind.
func DecodeAs(data []byte, kind Kind) (Value, error) {
	v, _, err := DecodeAsPrefix(data, kind)
	return v, err
}

// DecodeAsPrefix only looks at the leading tag before deciding on a mismatch, no fallback parse is attempted.
func DecodeAsPrefix(data []byte, want Kind) (Value, []byte, error) {
	if len(data) == 0 {
		return Value{}, nil, errorf(UnexpectedEnd, 0, "no value in empty input")
	}
	got := kind_of_tag(data[0])
	if got == Invalid {
		return Value{}, nil, errorf(Malformed, 0, "unrecognised start token %q", data[0])
	}
	if want != Invalid && got != want {
		return Value{}, nil, errorf(TypeMismatch, 0, "wanted %v, input starts a %v", want, got)
	}
	return DecodePrefix(data)
}

func kind_of_tag(b byte) Kind {
	switch {
	case b == 'i':
		return IntegerKind
	case b == 'l':
		return ListKind
	case b == 'd':
		return DictionaryKind
	case is_digit(b):
		return StringKind
	}
	return Invalid
}

func decode_value(c *cursor, depth int) (Value, error) {
	b, ok := c.peek()
	if !ok {
		return Value{}, errorf(UnexpectedEnd, c.offset(), "expected a value")
	}

	switch kind_of_tag(b) {
	case IntegerKind:
		return parse_int(c)
	case StringKind:
		return parse_string(c)
	case ListKind:
		return parse_list(c, depth+1)
	case DictionaryKind:
		return parse_dict(c, depth+1)
	}
	return Value{}, errorf(Malformed, c.offset(), "unrecognised start token %q", b)
}

func parse_int(c *cursor) (Value, error) {
	start := c.offset()
	c.next() // 'i'

	negative := false
	if b, ok := c.peek(); ok && b == '-' {
		negative = true
		c.next()
	}

	digits_start := c.offset()
	for {
		b, ok := c.peek()
		if !ok {
			return Value{}, errorf(UnexpectedEnd, c.offset(), "invalid integer - should end with 'e'")
		}
		if !is_digit(b) {
			break
		}
		c.next()
	}
	digits := c.data[digits_start:c.offset()]

	if b, _ := c.peek(); b != 'e' {
		return Value{}, errorf(Malformed, c.offset(), "invalid integer - unexpected character %q", b)
	}
	if len(digits) == 0 {
		return Value{}, errorf(Malformed, c.offset(), "invalid integer - no number specified")
	}
	if digits[0] == '0' && (len(digits) > 1 || negative) {
		return Value{}, errorf(Malformed, digits_start, "invalid integer - cannot start with 0 or be negative 0")
	}

	// the sign is parsed with the digits so that the minimum int64 fits
	n, err := strconv.ParseInt(string(c.data[start+1:c.offset()]), 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return Value{}, errorf(Overflow, start, "integer %s does not fit in 64 bits", c.data[start+1:c.offset()])
	} else if err != nil {
		return Value{}, errorf(Malformed, start, "invalid integer - %v", err)
	}
	c.next() // 'e'
	return Integer(n), nil
}

func parse_string(c *cursor) (Value, error) {
	s, err := parse_bytes(c)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: StringKind, str: s}, nil
}

// parse_bytes reads a length-prefixed string and returns a copy of its body.
func parse_bytes(c *cursor) ([]byte, error) {
	start := c.offset()
	for {
		b, ok := c.peek()
		if !ok {
			return nil, errorf(UnexpectedEnd, c.offset(), "invalid string length - missing separator colon")
		}
		if b == ':' {
			break
		}
		if !is_digit(b) {
			return nil, errorf(Malformed, c.offset(), "invalid string length - unexpected character %q", b)
		}
		c.next()
	}
	header := c.data[start:c.offset()]

	if len(header) == 0 {
		return nil, errorf(Malformed, start, "invalid string length - no length specified")
	}
	if header[0] == '0' && len(header) > 1 {
		return nil, errorf(Malformed, start, "invalid string length - starts with 0")
	}
	length, err := strconv.Atoi(string(header))
	if err != nil {
		return nil, errorf(Overflow, start, "invalid string length - %s is too large", header)
	}
	c.next() // ':'

	body, ok := c.take(length)
	if !ok {
		return nil, errorf(UnexpectedEnd, c.offset(), "string len %d does not match the %d bytes remaining", length, len(c.remainder()))
	}
	return bytes.Clone(body), nil
}

func parse_list(c *cursor, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, errorf(Malformed, c.offset(), "nesting deeper than %d", MaxDepth)
	}
	c.next() // 'l'

	var items []Value
	for {
		b, ok := c.peek()
		if !ok {
			return Value{}, errorf(UnexpectedEnd, c.offset(), "invalid list - should end with 'e'")
		}
		if b == 'e' {
			c.next()
			return Value{kind: ListKind, items: items}, nil
		}
		item, err := decode_value(c, depth)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
}

func parse_dict(c *cursor, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, errorf(Malformed, c.offset(), "nesting deeper than %d", MaxDepth)
	}
	c.next() // 'd'

	result := Value{kind: DictionaryKind, index: make(map[string]int)}
	for {
		b, ok := c.peek()
		if !ok {
			return Value{}, errorf(UnexpectedEnd, c.offset(), "invalid dictionary - should end with 'e'")
		}
		if b == 'e' {
			c.next()
			return result, nil
		}
		if !is_digit(b) {
			return Value{}, errorf(Malformed, c.offset(), "invalid dictionary - keys should be strings, found %v", kind_of_tag(b))
		}

		key, err := parse_bytes(c)
		if err != nil {
			return Value{}, err
		}
		if b, ok := c.peek(); ok && b == 'e' {
			return Value{}, errorf(Malformed, c.offset(), "invalid dictionary - key %q is missing a defined value", key)
		}
		value, err := decode_value(c, depth)
		if err != nil {
			return Value{}, err
		}
		result.put(key, value)
	}
}

func is_digit(b byte) bool {
	return b >= '0' && b <= '9'
}
