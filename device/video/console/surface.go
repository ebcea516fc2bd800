package console

// The dimensions of the standard VGA text mode (mode 0x3).
const (
	DefaultColumns = 80
	DefaultRows    = 25
)

// ScrollDir defines a scroll direction.
type ScrollDir uint8

// The supported list of scroll directions for the Surface Scroll() calls.
const (
	ScrollDirUp ScrollDir = iota
	ScrollDirDown
)

// The Surface interface is implemented by character-cell displays that can
// back a text console. Each cell is a 16-bit value holding a character in its
// low byte and an attribute in its high byte. Coordinates are 0-based with
// the top-left cell at (0,0) and cells are laid out in row-major order.
//
// Implementations must bounds-check every access: reads and writes outside
// the surface are dropped and reported through the boolean result.
type Surface interface {
	// Dimensions returns the surface width and height in cells.
	Dimensions() (columns, rows uint32)

	// Cell returns the contents of the cell at (x,y).
	Cell(x, y uint32) (uint16, bool)

	// SetCell updates the cell at (x,y).
	SetCell(x, y uint32, cell uint16) bool

	// Fill sets the contents of the specified rectangular region to cell.
	// The region is clipped to the surface.
	Fill(x, y, width, height uint32, cell uint16)

	// Scroll the surface contents to the specified direction. The caller
	// is responsible for updating (e.g. clear or replace) the contents of
	// the region that was scrolled.
	Scroll(dir ScrollDir, lines uint32)
}

// MakeCell packs a character and an attribute byte into a surface cell.
func MakeCell(ch byte, attr uint8) uint16 {
	return uint16(attr)<<8 | uint16(ch)
}

// SplitCell returns the character and attribute stored in cell.
func SplitCell(cell uint16) (ch byte, attr uint8) {
	return byte(cell), uint8(cell >> 8)
}
