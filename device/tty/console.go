package tty

import (
	"debugcon/device/video/console"
	"debugcon/kernel"
	"debugcon/kernel/kfmt"
)

// OverflowPolicy selects what happens when the cursor moves past the last
// row of the attached surface.
type OverflowPolicy uint8

const (
	// OverflowScroll scrolls the surface up and keeps the cursor on the
	// last row.
	OverflowScroll OverflowPolicy = iota

	// OverflowDiscard lets the cursor row grow past the surface; output
	// written below the last row is dropped by the surface.
	OverflowDiscard
)

// tabStop is the column multiple that tab characters advance to.
const tabStop = 8

// ErrNoSurface is returned when attaching a nil surface.
var ErrNoSurface = &kernel.Error{Module: "tty", Message: "no surface attached"}

// Console is a minimal debug console that renders bytes onto a character-cell
// surface. It tracks a cursor and the attribute applied to written
// characters and interprets the following control characters:
//   - \b (backspace; moves the cursor left without erasing)
//   - \t (tab; advances to the next multiple of 8)
//   - \r (carriage-return)
//   - \n (line-feed; implies a carriage-return)
//
// Other bytes below 0x20 are ignored; everything else is written as a glyph.
//
// Output produced before a surface is attached is kept in a ring buffer and
// replayed by Attach. A Console is not safe for concurrent use.
type Console struct {
	surface       console.Surface
	width, height uint32

	cursorX, cursorY uint32
	attr             uint8
	overflow         OverflowPolicy

	early kfmt.RingBuffer
}

// NewConsole creates a console with no surface attached. Written characters
// use console.DefaultAttr until SetColor is called.
func NewConsole(overflow OverflowPolicy) *Console {
	return &Console{
		attr:     console.DefaultAttr,
		overflow: overflow,
	}
}

// Attach connects the console to a surface and replays any output that was
// buffered while the console was detached. The cursor starts at the top-left
// corner of the surface.
func (c *Console) Attach(s console.Surface) *kernel.Error {
	if s == nil {
		return ErrNoSurface
	}

	c.surface = s
	c.width, c.height = s.Dimensions()
	c.cursorX, c.cursorY = 0, 0

	var chunk [64]byte
	for c.early.Len() != 0 {
		n, _ := c.early.Read(chunk[:])
		for _, b := range chunk[:n] {
			c.PutChar(b)
		}
	}

	return nil
}

// Surface returns the attached surface or nil.
func (c *Console) Surface() console.Surface {
	return c.surface
}

// CursorPosition returns the current cursor column and row.
func (c *Console) CursorPosition() (uint32, uint32) {
	return c.cursorX, c.cursorY
}

// PutChar renders a single byte and advances the cursor.
func (c *Console) PutChar(ch byte) {
	if c.surface == nil {
		c.early.WriteByte(ch)
		return
	}

	switch {
	case ch == '\b':
		if c.cursorX > 0 {
			c.cursorX--
		}
	case ch == '\t':
		c.cursorX = (c.cursorX + tabStop) &^ (tabStop - 1)
	case ch == '\r':
		c.cursorX = 0
	case ch == '\n':
		c.cursorX = 0
		c.cursorY++
	case ch >= ' ':
		c.surface.SetCell(c.cursorX, c.cursorY, console.MakeCell(ch, c.attr))
		c.cursorX++
	}

	// wrap when we reach the right edge
	if c.cursorX >= c.width {
		c.cursorX = 0
		c.cursorY++
	}

	if c.cursorY >= c.height && c.overflow == OverflowScroll {
		c.scroll(c.cursorY - c.height + 1)
	}
}

// scroll moves the surface contents up by lines rows, blanks the rows that
// became free and keeps the cursor on the last row.
func (c *Console) scroll(lines uint32) {
	if lines > c.height {
		lines = c.height
	}

	c.surface.Scroll(console.ScrollDirUp, lines)
	c.surface.Fill(0, c.height-lines, c.width, lines, console.MakeCell(' ', c.attr))
	c.cursorY = c.height - 1
}

// PutString renders each byte of s in order. A nil or empty s is a no-op.
func (c *Console) PutString(s []byte) {
	for _, b := range s {
		c.PutChar(b)
	}
}

// Write implements io.Writer. It never fails.
func (c *Console) Write(p []byte) (int, error) {
	c.PutString(p)
	return len(p), nil
}

// WriteByte implements io.ByteWriter. It never fails.
func (c *Console) WriteByte(b byte) error {
	c.PutChar(b)
	return nil
}

// Printf renders template with args using kfmt.Fprintf. It returns the
// number of template bytes consumed or the error that stopped the
// interpretation; output written before an error is kept.
func (c *Console) Printf(template string, args ...kfmt.Arg) (int, *kernel.Error) {
	return kfmt.Fprintf(c, template, args...)
}

// SetColor sets the attribute used for subsequent characters and returns the
// previous one.
func (c *Console) SetColor(attr uint8) uint8 {
	prev := c.attr
	c.attr = attr
	return prev
}

// GotoXY moves the cursor to (x,y). Each axis is updated independently and
// only when the current position on that axis lies within the surface
// bounds (inclusive of the edge). The guard looks at the current position,
// not at the target. In addition to that guard, targets outside the surface
// are ignored per axis so that the column always stays below the width.
// Rejected moves are silently ignored.
func (c *Console) GotoXY(x, y uint32) {
	if c.cursorX <= c.width && x < c.width {
		c.cursorX = x
	}

	if c.cursorY <= c.height && y < c.height {
		c.cursorY = y
	}
}

// ClearScreen fills the surface with blanks using attr and moves the cursor
// to the top-left corner. On a detached console it discards the buffered
// early output instead. The current attribute is not changed.
func (c *Console) ClearScreen(attr uint8) {
	if c.surface != nil {
		c.surface.Fill(0, 0, c.width, c.height, console.MakeCell(' ', attr))
	} else {
		c.early.Reset()
	}

	c.cursorX, c.cursorY = 0, 0
}
