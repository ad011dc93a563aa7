package bencode

// cursor is a read position over a fully buffered input. Every decoding routine branches on peek alone.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) peek() (byte, bool) {
	if c.at_end() {
		return 0, false
	}
	return c.data[c.pos], true
}

func (c *cursor) next() (byte, bool) {
	b, ok := c.peek()
	if ok {
		c.pos++
	}
	return b, ok
}

func (c *cursor) at_end() bool {
	return c.pos >= len(c.data)
}

// take consumes exactly n bytes, or nothing if fewer remain.
func (c *cursor) take(n int) ([]byte, bool) {
	if n < 0 || len(c.data)-c.pos < n {
		return nil, false
	}
	s := c.data[c.pos : c.pos+n]
	c.pos += n
	return s, true
}

func (c *cursor) offset() int {
	return c.pos
}

func (c *cursor) remainder() []byte {
	return c.data[c.pos:]
}
