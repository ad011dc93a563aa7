package bencode

import (
	"bytes"
	"slices"
)

// Kind is the discriminator of a Value. There are exactly four decodable kinds, plus Invalid for the zero Value.
type Kind int

const (
	Invalid Kind = iota
	IntegerKind
	StringKind
	ListKind
	DictionaryKind
)

func (k Kind) String() string {
	switch k {
	case IntegerKind:
		return "integer"
	case StringKind:
		return "string"
	case ListKind:
		return "list"
	case DictionaryKind:
		return "dictionary"
	}
	return "invalid"
}

// Value is one node of a decoded tree. Containers own their children and nothing is shared between trees, so a Value
// is safe to read from many goroutines once built.
type Value struct {
	kind    Kind
	integer int64
	str     []byte
	items   []Value
	entries []Entry
	index   map[string]int // key -> position in entries
}

// Entry is a single key/value pair of a dictionary.
type Entry struct {
	Key   []byte
	Value Value
}

func Integer(n int64) Value {
	return Value{kind: IntegerKind, integer: n}
}

// String builds a byte string value. The bytes are copied.
func String(s []byte) Value {
	return Value{kind: StringKind, str: bytes.Clone(nonNil(s))}
}

// Text is String for callers holding a Go string.
func Text(s string) Value {
	return Value{kind: StringKind, str: []byte(s)}
}

func List(items ...Value) Value {
	return Value{kind: ListKind, items: slices.Clone(items)}
}

func Pair(key string, value Value) Entry {
	return Entry{Key: []byte(key), Value: value}
}

// Dictionary builds a dictionary keeping the given entry order. A repeated key replaces the earlier value in place.
func Dictionary(entries ...Entry) Value {
	d := Value{kind: DictionaryKind, index: make(map[string]int, len(entries))}
	for _, e := range entries {
		d.put(bytes.Clone(nonNil(e.Key)), e.Value)
	}
	return d
}

// put is last-write-wins; the entry keeps the position of the first occurrence of its key.
func (v *Value) put(key []byte, value Value) {
	if i, exists := v.index[string(key)]; exists {
		v.entries[i].Value = value
		return
	}
	v.index[string(key)] = len(v.entries)
	v.entries = append(v.entries, Entry{Key: key, Value: value})
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) Int() (int64, bool) {
	return v.integer, v.kind == IntegerKind
}

// Bytes returns the raw bytes of a string value. The slice belongs to the tree and must not be modified.
func (v Value) Bytes() ([]byte, bool) {
	return v.str, v.kind == StringKind
}

func (v Value) Items() ([]Value, bool) {
	return v.items, v.kind == ListKind
}

// Entries returns dictionary entries in the order they were decoded or constructed, not sorted.
func (v Value) Entries() ([]Entry, bool) {
	return v.entries, v.kind == DictionaryKind
}

func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != DictionaryKind {
		return Value{}, false
	}
	i, ok := v.index[key]
	if !ok {
		return Value{}, false
	}
	return v.entries[i].Value, true
}

// Len is the byte length of a string, or the element count of a list or dictionary. Integers have length 0.
func (v Value) Len() int {
	switch v.kind {
	case StringKind:
		return len(v.str)
	case ListKind:
		return len(v.items)
	case DictionaryKind:
		return len(v.entries)
	}
	return 0
}

// Equal compares two trees structurally. Dictionary entries are compared in order, so a decoded non-canonical
// dictionary is not Equal to its canonical re-decode unless the keys were already sorted.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case IntegerKind:
		return v.integer == other.integer
	case StringKind:
		return bytes.Equal(v.str, other.str)
	case ListKind:
		return slices.EqualFunc(v.items, other.items, Value.Equal)
	case DictionaryKind:
		return slices.EqualFunc(v.entries, other.entries, func(a, b Entry) bool {
			return bytes.Equal(a.Key, b.Key) && a.Value.Equal(b.Value)
		})
	}
	return true
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
