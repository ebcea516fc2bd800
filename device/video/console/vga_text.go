package console

import (
	"debugcon/kernel"
	"debugcon/kernel/kfmt"
	"io"
)

// VgaTextConsole implements an EGA-compatible text surface using VGA mode
// 0x3. The surface is a row-major grid of 16-bit cells; each cell stores the
// character code in its low byte and the attribute (4 bits background, 4 bits
// foreground) in its high byte.
//
// A VgaTextConsole either maps the framebuffer of real hardware when its
// driver is initialized, or owns a plain memory buffer when created with
// NewBufferConsole.
type VgaTextConsole struct {
	width  uint32
	height uint32

	fbPhysAddr uintptr
	fb         []uint16
}

// NewVgaTextConsole creates an new vga text console with its framebuffer
// located at fbPhysAddr. The framebuffer gets mapped by DriverInit.
func NewVgaTextConsole(columns, rows uint32, fbPhysAddr uintptr) *VgaTextConsole {
	return &VgaTextConsole{
		width:      columns,
		height:     rows,
		fbPhysAddr: fbPhysAddr,
	}
}

// NewBufferConsole creates a text console backed by an in-memory buffer
// instead of a hardware framebuffer. The buffer is initialized with blank
// cells using DefaultAttr.
func NewBufferConsole(columns, rows uint32) *VgaTextConsole {
	cons := &VgaTextConsole{
		width:  columns,
		height: rows,
		fb:     make([]uint16, columns*rows),
	}
	cons.Fill(0, 0, columns, rows, MakeCell(' ', DefaultAttr))

	return cons
}

// Dimensions returns the console width and height in characters.
func (cons *VgaTextConsole) Dimensions() (uint32, uint32) {
	return cons.width, cons.height
}

// Framebuffer returns the cells backing the console. It returns nil if the
// framebuffer has not been mapped yet.
func (cons *VgaTextConsole) Framebuffer() []uint16 {
	return cons.fb
}

// Cell returns the contents of the cell at (x,y).
func (cons *VgaTextConsole) Cell(x, y uint32) (uint16, bool) {
	if !cons.inBounds(x, y) {
		return 0, false
	}

	return cons.fb[y*cons.width+x], true
}

// SetCell updates the cell at (x,y). Writes outside the console are dropped.
func (cons *VgaTextConsole) SetCell(x, y uint32, cell uint16) bool {
	if !cons.inBounds(x, y) {
		return false
	}

	cons.fb[y*cons.width+x] = cell
	return true
}

// Fill sets the contents of the specified rectangular region to cell.
func (cons *VgaTextConsole) Fill(x, y, width, height uint32, cell uint16) {
	if cons.fb == nil || x >= cons.width || y >= cons.height {
		return
	}

	// clip rectangle
	if width > cons.width-x {
		width = cons.width - x
	}
	if height > cons.height-y {
		height = cons.height - y
	}

	rowOffset := y*cons.width + x
	for ; height > 0; height, rowOffset = height-1, rowOffset+cons.width {
		for colOffset := rowOffset; colOffset < rowOffset+width; colOffset++ {
			cons.fb[colOffset] = cell
		}
	}
}

// Scroll the console contents to the specified direction. The caller
// is responsible for updating (e.g. clear or replace) the contents of
// the region that was scrolled.
func (cons *VgaTextConsole) Scroll(dir ScrollDir, lines uint32) {
	if cons.fb == nil || lines == 0 || lines > cons.height {
		return
	}

	offset := lines * cons.width
	switch dir {
	case ScrollDirUp:
		copy(cons.fb, cons.fb[offset:])
	case ScrollDirDown:
		copy(cons.fb[offset:], cons.fb[:uint32(len(cons.fb))-offset])
	}
}

func (cons *VgaTextConsole) inBounds(x, y uint32) bool {
	return cons.fb != nil && x < cons.width && y < cons.height
}

// DriverName returns the name of this driver.
func (cons *VgaTextConsole) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (cons *VgaTextConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes this driver by mapping its framebuffer. Consoles
// that already own a buffer are left untouched.
func (cons *VgaTextConsole) DriverInit(w io.Writer) *kernel.Error {
	if cons.fb != nil {
		return nil
	}

	fb, err := mapFramebufferFn(cons.fbPhysAddr, cons.width*cons.height)
	if err != nil {
		return err
	}
	cons.fb = fb

	if w != nil {
		kfmt.Fprintf(w, "mapped %dx%d framebuffer at 0x%x\n",
			kfmt.Int(int64(cons.width)),
			kfmt.Int(int64(cons.height)),
			kfmt.Int(int64(cons.fbPhysAddr)),
		)
	}

	return nil
}
