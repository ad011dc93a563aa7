package bencode

import "fmt"

// Get fetches key from a dictionary value and converts it to T. A string value satisfies both string and []byte.
func Get[T int64 | string | []byte | []Value | Value](dict Value, key string) (T, error) {
	var result T
	if dict.kind != DictionaryKind {
		return result, fmt.Errorf("cannot look up key %s in a %v", key, dict.kind)
	}
	val, exists := dict.Lookup(key)
	if !exists {
		return result, fmt.Errorf("key %s was not in map", key)
	}

	ok := false
	switch p := any(&result).(type) {
	case *int64:
		*p, ok = val.Int()
	case *string:
		var s []byte
		s, ok = val.Bytes()
		*p = string(s)
	case *[]byte:
		*p, ok = val.Bytes()
	case *[]Value:
		*p, ok = val.Items()
	case *Value:
		*p, ok = val, true
	}
	if !ok {
		var zero T
		return zero, fmt.Errorf("key %s's value was an invalid type: %v", key, val.kind)
	}
	return result, nil
}

// GetStrings fetches a list of byte strings, e.g. a file path in a torrent's info dictionary.
func GetStrings(dict Value, key string) ([]string, error) {
	list, err := Get[[]Value](dict, key)
	if err != nil {
		return nil, err
	}
	results := []string{}
	for _, v := range list {
		s, ok := v.Bytes()
		if !ok {
			return nil, fmt.Errorf("a non-string value was in the list: %v", v)
		}
		results = append(results, string(s))
	}
	return results, nil
}
