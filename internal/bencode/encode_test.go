package bencode

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"

	jackpal "github.com/jackpal/bencode-go"
	zeebo "github.com/zeebo/bencode"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  string
	}{
		{name: "zero", input: Integer(0), want: "i0e"},
		{name: "positive", input: Integer(42), want: "i42e"},
		{name: "negative", input: Integer(-3), want: "i-3e"},
		{name: "min int64", input: Integer(math.MinInt64), want: "i-9223372036854775808e"},
		{name: "string", input: Text("spam"), want: "4:spam"},
		{name: "empty string", input: Text(""), want: "0:"},
		{name: "binary string", input: String([]byte{0, 0xff}), want: "2:\x00\xff"},
		{name: "empty list", input: List(), want: "le"},
		{name: "list", input: List(Text("spam"), Text("eggs")), want: "l4:spam4:eggse"},
		{name: "empty dict", input: Dictionary(), want: "de"},
		{
			name:  "dict sorted on encode",
			input: Dictionary(Pair("spam", Text("eggs")), Pair("cow", Text("moo"))),
			want:  "d3:cow3:moo4:spam4:eggse",
		},
		{
			name:  "keys compared as raw bytes",
			input: Dictionary(Pair("b", Integer(1)), Pair("B", Integer(2)), Pair("\xff", Integer(3)), Pair("ba", Integer(4))),
			want:  "d1:Bi2e1:bi1e2:bai4e1:\xffi3ee",
		},
		{
			name:  "nested",
			input: List(Dictionary(Pair("z", List()), Pair("a", Dictionary())), Integer(7)),
			want:  "ld1:ade1:zleei7ee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.input)
			if string(got) != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeInvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Encode() of the zero Value did not panic")
		}
	}()
	Encode(Value{})
}

func TestAppendEncodeKeepsPrefix(t *testing.T) {
	got := AppendEncode([]byte("prefix:"), List(Integer(1)))
	if string(got) != "prefix:li1ee" {
		t.Errorf("AppendEncode() = %q", got)
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 9, 10, -10, 42, 1 << 31, -(1 << 31), 1<<53 + 1, math.MaxInt64, math.MinInt64}
	for _, n := range values {
		got, err := DecodeInteger(Encode(Integer(n)))
		if err != nil {
			t.Fatalf("DecodeInteger(Encode(%d)) error = %v", n, err)
		}
		if !got.Equal(Integer(n)) {
			t.Errorf("DecodeInteger(Encode(%d)) = %v", n, got)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	values := [][]byte{
		{},
		{0},
		[]byte("spam"),
		[]byte("with:colon"),
		{0xff, 0xfe, 0x00, 0x80},
		bytes.Repeat([]byte{'e'}, 1000),
		[]byte("héllo wörld"),
	}
	for _, s := range values {
		got, err := DecodeString(Encode(String(s)))
		if err != nil {
			t.Fatalf("DecodeString(Encode(%q)) error = %v", s, err)
		}
		if !got.Equal(String(s)) {
			t.Errorf("DecodeString(Encode(%q)) = %v", s, got)
		}
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	canonical := []string{
		"i42e",
		"4:spam",
		"le",
		"de",
		"l4:spam4:eggse",
		"d3:cow3:moo4:spam4:eggse",
		"d4:spaml1:a1:bee",
		"d8:announce9:localhost4:infod6:lengthi10e4:name3:abc12:piece lengthi16384eee",
		"li35ei65e4:spami-55eli5ei6eee",
	}
	for _, input := range canonical {
		v, err := Decode([]byte(input))
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", input, err)
		}
		if got := Encode(v); string(got) != input {
			t.Errorf("Encode(Decode(%q)) = %q", input, got)
		}
	}
}

// Unsorted or duplicated keys come back canonical, and a second pass changes nothing.
func TestCanonicalisationFixpoint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unsorted", input: "d4:spam4:eggs3:cow3:mooe", want: "d3:cow3:moo4:spam4:eggse"},
		{name: "unsorted inside list", input: "ld1:bi1e1:ai2eee", want: "ld1:ai2e1:bi1eee"},
		{name: "duplicates collapse", input: "d1:ai1e1:ai2ee", want: "d1:ai2ee"},
		{name: "deep", input: "d1:zd1:yi1e1:xi2ee1:ali3eee", want: "d1:ali3ee1:zd1:xi2e1:yi1eee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			once := Encode(first)
			if string(once) != tt.want {
				t.Errorf("first pass = %q, want %q", once, tt.want)
			}
			second, err := Decode(once)
			if err != nil {
				t.Fatalf("second Decode() error = %v", err)
			}
			if twice := Encode(second); !bytes.Equal(once, twice) {
				t.Errorf("second pass = %q, not a fixpoint of %q", twice, once)
			}
		})
	}
}

// to_any converts a tree into the shapes the reference codecs use for interface{} values.
func to_any(v Value) any {
	switch v.Kind() {
	case IntegerKind:
		n, _ := v.Int()
		return n
	case StringKind:
		s, _ := v.Bytes()
		return string(s)
	case ListKind:
		items, _ := v.Items()
		out := make([]any, 0, len(items))
		for _, item := range items {
			out = append(out, to_any(item))
		}
		return out
	case DictionaryKind:
		entries, _ := v.Entries()
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			out[string(e.Key)] = to_any(e.Value)
		}
		return out
	}
	return nil
}

var reference_docs = []any{
	int64(-12),
	"spam",
	"",
	[]any{int64(1), "two", []any{int64(3)}},
	map[string]any{
		"announce": "http://tracker.example/announce",
		"info": map[string]any{
			"name":         "file.iso",
			"length":       int64(1 << 40),
			"piece length": int64(262144),
			"pieces":       "\x01\x02\x03\x04\x05\x06\x07\x08\x09\x0a\x0b\x0c\x0d\x0e\x0f\x10\x11\x12\x13\x14",
		},
		"announce-list": []any{[]any{"a"}, []any{"b", "c"}},
		"comment":       "unsorted when built, sorted on the wire",
	},
}

func TestAgainstJackpal(t *testing.T) {
	for _, doc := range reference_docs {
		var wire bytes.Buffer
		if err := jackpal.Marshal(&wire, doc); err != nil {
			t.Fatalf("jackpal.Marshal(%v) error = %v", doc, err)
		}

		v, err := Decode(wire.Bytes())
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", wire.Bytes(), err)
		}
		if got := to_any(v); !reflect.DeepEqual(got, doc) {
			t.Errorf("Decode(%q) = %#v, want %#v", wire.Bytes(), got, doc)
		}
		if got := Encode(v); !bytes.Equal(got, wire.Bytes()) {
			t.Errorf("Encode() = %q, jackpal wrote %q", got, wire.Bytes())
		}

		back, err := jackpal.Decode(bytes.NewReader(Encode(v)))
		if err != nil {
			t.Fatalf("jackpal.Decode() error = %v", err)
		}
		if !reflect.DeepEqual(back, doc) {
			t.Errorf("jackpal.Decode(Encode()) = %#v, want %#v", back, doc)
		}
	}
}

func TestAgainstZeebo(t *testing.T) {
	for _, doc := range reference_docs {
		wire, err := zeebo.EncodeBytes(doc)
		if err != nil {
			t.Fatalf("zeebo.EncodeBytes(%v) error = %v", doc, err)
		}

		v, err := Decode(wire)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", wire, err)
		}
		if got := Encode(v); !bytes.Equal(got, wire) {
			t.Errorf("Encode() = %q, zeebo wrote %q", got, wire)
		}

		var back any
		if err := zeebo.DecodeBytes(Encode(v), &back); err != nil {
			t.Fatalf("zeebo.DecodeBytes() error = %v", err)
		}
		if !reflect.DeepEqual(back, doc) {
			t.Errorf("zeebo.DecodeBytes(Encode()) = %#v, want %#v", back, doc)
		}
	}
}

// Inputs every reference codec agrees are broken must be broken here too.
func TestRejectsWhatReferencesReject(t *testing.T) {
	inputs := []string{"", "l", "d3:foo", "5:ab", "i4", "x"}
	for _, input := range inputs {
		if _, err := jackpal.Decode(bytes.NewReader([]byte(input))); err == nil {
			continue
		}
		if _, err := Decode([]byte(input)); err == nil {
			t.Errorf("Decode(%q) accepted input jackpal rejects", input)
		} else if !errors.Is(err, UnexpectedEnd) && !errors.Is(err, Malformed) {
			t.Errorf("Decode(%q) error = %v", input, err)
		}
	}
}
