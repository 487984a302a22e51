package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"cascade/internal/source"
)

// Cursor is a byte position within a file.
type Cursor struct {
	File *source.File
	Off  uint32
	// limit is the exclusive upper bound for Off.
	limit uint32
}

// NewCursor creates a cursor at the start of the file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file content overflow: %w", err))
	}
	return Cursor{File: f, Off: 0, limit: limit}
}

func (c *Cursor) EOF() bool {
	return c.Off >= c.limit
}

// Peek reads the current byte without consuming it; 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt reads the byte n positions ahead; 0 if out of range.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Bump consumes one byte.
func (c *Cursor) Bump() {
	if !c.EOF() {
		c.Off++
	}
}

// Slice returns the bytes between from and the current offset.
func (c *Cursor) Slice(from uint32) []byte {
	return c.File.Content[from:c.Off]
}
