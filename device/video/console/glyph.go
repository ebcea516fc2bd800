package console

import "golang.org/x/text/encoding/charmap"

// Glyph returns the rune that the VGA character generator displays for the
// character code ch, using the code page 437 layout of the default ROM
// font. Control codes are displayed as blanks.
func Glyph(ch byte) rune {
	if ch < ' ' {
		return ' '
	}

	return charmap.CodePage437.DecodeByte(ch)
}
