package bencode

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// MarshalJSON gives a JSON view of the tree. Text strings become JSON strings and any other byte string becomes
// {"hex": "..."}; a dictionary key that is not UTF-8 is written as "0x" followed by its hex.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := marshal_json(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshal_json(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case IntegerKind:
		fmt.Fprintf(buf, "%d", v.integer)
	case StringKind:
		if !utf8.Valid(v.str) {
			fmt.Fprintf(buf, `{"hex":%q}`, hex.EncodeToString(v.str))
			return nil
		}
		return write_json_string(buf, string(v.str))
	case ListKind:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshal_json(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case DictionaryKind:
		buf.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key := string(e.Key)
			if !utf8.Valid(e.Key) {
				key = "0x" + hex.EncodeToString(e.Key)
			}
			if err := write_json_string(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := marshal_json(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("bencode: cannot marshal a value of kind %v", v.kind)
	}
	return nil
}

func write_json_string(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
