package bencode

import "fmt"

// ErrorKind classifies why a decode failed. It is itself an error, so callers can match with errors.Is(err, bencode.Overflow).
type ErrorKind int

const (
	Malformed ErrorKind = iota + 1
	UnexpectedEnd
	TypeMismatch
	Overflow
)

func (k ErrorKind) Error() string {
	switch k {
	case Malformed:
		return "malformed bencode"
	case UnexpectedEnd:
		return "unexpected end of input"
	case TypeMismatch:
		return "type mismatch"
	case Overflow:
		return "integer overflow"
	}
	return fmt.Sprintf("bencode error kind %d", int(k))
}

// DecodeError is returned for every failed decode. Offset is the position in the input where the problem was found.
type DecodeError struct {
	Kind   ErrorKind
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v at offset %d - %s", e.Kind, e.Offset, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

func errorf(kind ErrorKind, offset int, format string, a ...any) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Reason: fmt.Sprintf(format, a...)}
}
