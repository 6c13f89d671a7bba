package irtext

import (
	"fmt"

	"fortio.org/safecast"

	"shady/internal/source"
)

// cursor is a byte position in a file.
type cursor struct {
	file  *source.File
	off   uint32
	limit uint32
}

func newCursor(f *source.File) cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return cursor{file: f, limit: limit}
}

func (c *cursor) eof() bool {
	return c.off >= c.limit
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.file.Content[c.off]
}

func (c *cursor) peekAt(n uint32) byte {
	if c.off+n >= c.limit {
		return 0
	}
	return c.file.Content[c.off+n]
}

func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.file.Content[c.off]
	c.off++
	return b
}

func (c *cursor) bumpWhile(pred func(byte) bool) {
	for !c.eof() && pred(c.file.Content[c.off]) {
		c.off++
	}
}

func (c *cursor) spanFrom(start uint32) source.Span {
	return source.Span{File: c.file.ID, Start: start, End: c.off}
}

func (c *cursor) text(sp source.Span) string {
	return string(c.file.Content[sp.Start:sp.End])
}
