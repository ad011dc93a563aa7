package bencode

import (
	"bytes"
	"testing"
)

func FuzzDecode(f *testing.F) {
	seeds := []string{
		"i42e", "4:spam", "l4:spam4:eggse", "d3:cow3:moo4:spam4:eggse", "le", "de",
		"i-e", "5:ab", "d3:fooe", "i999999999999999999999e", "d1:bi1e1:ai2ee", "lllleeee",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		v, rem, err := DecodePrefix(data)
		if err != nil {
			if v.Kind() != Invalid {
				t.Fatalf("error %v came with a result %v", err, v)
			}
			return
		}
		consumed := data[:len(data)-len(rem)]

		once := Encode(v)
		again, err := Decode(once)
		if err != nil {
			t.Fatalf("Decode(Encode()) of %q error = %v", once, err)
		}
		if twice := Encode(again); !bytes.Equal(once, twice) {
			t.Fatalf("not a fixpoint: %q then %q", once, twice)
		}
		if len(once) > len(consumed) {
			t.Fatalf("canonical form %q is longer than its source %q", once, consumed)
		}
	})
}
