// Package termcons provides a console surface that renders onto a terminal
// through tcell. It lets the debug console run on a development host with
// the same 80x25 cell semantics as the VGA text mode.
package termcons

import (
	"debugcon/device/video/console"
	"debugcon/kernel"
	"debugcon/kernel/kfmt"
	"io"

	"github.com/gdamore/tcell/v2"
)

// Console is a console.Surface that keeps its cells in a memory buffer and
// mirrors every change onto a tcell screen. Cell attributes are translated
// to RGB styles using the EGA palette and characters are decoded as code
// page 437.
type Console struct {
	buf    *console.VgaTextConsole
	screen tcell.Screen
}

// New returns a terminal console of the default VGA text dimensions drawing
// onto screen. The screen is initialized by DriverInit.
func New(screen tcell.Screen) *Console {
	return &Console{
		buf:    console.NewBufferConsole(console.DefaultColumns, console.DefaultRows),
		screen: screen,
	}
}

// Dimensions returns the console width and height in characters.
func (c *Console) Dimensions() (uint32, uint32) {
	return c.buf.Dimensions()
}

// Cell returns the contents of the cell at (x,y).
func (c *Console) Cell(x, y uint32) (uint16, bool) {
	return c.buf.Cell(x, y)
}

// SetCell updates the cell at (x,y) and draws it on the screen.
func (c *Console) SetCell(x, y uint32, cell uint16) bool {
	if !c.buf.SetCell(x, y, cell) {
		return false
	}

	c.draw(x, y, cell)
	return true
}

// Fill sets the contents of the specified rectangular region to cell.
func (c *Console) Fill(x, y, width, height uint32, cell uint16) {
	c.buf.Fill(x, y, width, height, cell)
	c.redraw()
}

// Scroll the console contents to the specified direction.
func (c *Console) Scroll(dir console.ScrollDir, lines uint32) {
	c.buf.Scroll(dir, lines)
	c.redraw()
}

// Show makes pending changes visible on the terminal.
func (c *Console) Show() {
	c.screen.Show()
}

// WaitForKey blocks until a key is pressed, redrawing the console whenever
// the terminal is resized.
func (c *Console) WaitForKey() {
	for {
		switch c.screen.PollEvent().(type) {
		case *tcell.EventKey:
			return
		case *tcell.EventResize:
			c.screen.Sync()
		case nil:
			// screen was finalized
			return
		}
	}
}

// Close restores the terminal.
func (c *Console) Close() {
	c.screen.Fini()
}

func (c *Console) redraw() {
	w, h := c.buf.Dimensions()
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			cell, _ := c.buf.Cell(x, y)
			c.draw(x, y, cell)
		}
	}
}

func (c *Console) draw(x, y uint32, cell uint16) {
	ch, attr := console.SplitCell(cell)
	c.screen.SetContent(int(x), int(y), console.Glyph(ch), nil, Style(attr))
}

// Style converts an attribute byte into a tcell style.
func Style(attr uint8) tcell.Style {
	fg, bg := console.AttrColors(attr)
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
}

// DriverName returns the name of this driver.
func (c *Console) DriverName() string {
	return "tcell_console"
}

// DriverVersion returns the version of this driver.
func (c *Console) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes the terminal and draws the initial console
// contents.
func (c *Console) DriverInit(w io.Writer) *kernel.Error {
	if err := c.screen.Init(); err != nil {
		return &kernel.Error{Module: c.DriverName(), Message: err.Error()}
	}

	c.screen.HideCursor()
	c.redraw()

	if w != nil {
		termW, termH := c.screen.Size()
		kfmt.Fprintf(w, "terminal is %dx%d\n", kfmt.Int(int64(termW)), kfmt.Int(int64(termH)))
	}

	return nil
}
