package console

import "image/color"

// The 16 EGA colors, usable as either the foreground or the background
// nibble of an attribute byte.
const (
	Black uint8 = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	Yellow
	White
)

// DefaultAttr is light gray text on a black background.
const DefaultAttr = Black<<4 | LightGray

// Palette maps the EGA color indices to their RGB values.
var Palette = [16]color.RGBA{
	{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0x00, B: 0xaa, A: 0xff},
	{R: 0x00, G: 0xaa, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xaa, B: 0xaa, A: 0xff},
	{R: 0xaa, G: 0x00, B: 0x00, A: 0xff},
	{R: 0xaa, G: 0x00, B: 0xaa, A: 0xff},
	{R: 0xaa, G: 0x55, B: 0x00, A: 0xff},
	{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff},
	{R: 0x55, G: 0x55, B: 0x55, A: 0xff},
	{R: 0x55, G: 0x55, B: 0xff, A: 0xff},
	{R: 0x55, G: 0xff, B: 0x55, A: 0xff},
	{R: 0x55, G: 0xff, B: 0xff, A: 0xff},
	{R: 0xff, G: 0x55, B: 0x55, A: 0xff},
	{R: 0xff, G: 0x55, B: 0xff, A: 0xff},
	{R: 0xff, G: 0xff, B: 0x55, A: 0xff},
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// MakeAttr combines a foreground and a background color index into an
// attribute byte.
func MakeAttr(fg, bg uint8) uint8 {
	return (bg&0xf)<<4 | fg&0xf
}

// SplitAttr returns the foreground and background color indices encoded in
// attr. The blink/intensity bit of the background is kept as part of the
// index.
func SplitAttr(attr uint8) (fg, bg uint8) {
	return attr & 0xf, attr >> 4
}

// AttrColors returns the RGB values of the foreground and background colors
// encoded in attr.
func AttrColors(attr uint8) (fg, bg color.RGBA) {
	fgIndex, bgIndex := SplitAttr(attr)
	return Palette[fgIndex], Palette[bgIndex]
}
