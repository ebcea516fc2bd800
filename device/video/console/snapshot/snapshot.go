// Package snapshot captures the contents of a console surface either as
// plain text or as a PNG image rendered with a 7x13 bitmap font.
package snapshot

import (
	"debugcon/device/video/console"
	"image"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Text returns the characters of s as one line per row. Trailing blanks and
// trailing empty rows are dropped.
func Text(s console.Surface) string {
	w, h := s.Dimensions()

	var (
		sb    strings.Builder
		lines = make([]string, 0, h)
	)
	for y := uint32(0); y < h; y++ {
		sb.Reset()
		for x := uint32(0); x < w; x++ {
			cell, _ := s.Cell(x, y)
			ch, _ := console.SplitCell(cell)
			sb.WriteRune(console.Glyph(ch))
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

// Image renders s into an RGBA image. Each cell occupies a 7x13 pixel box
// painted with the attribute's background color; the glyph is drawn with the
// foreground color.
func Image(s console.Surface) *image.RGBA {
	var (
		face       = basicfont.Face7x13
		cellW      = face.Advance
		cellH      = face.Height
		cols, rows = s.Dimensions()
		img        = image.NewRGBA(image.Rect(0, 0, int(cols)*cellW, int(rows)*cellH))
		glyph      [1]rune
	)

	for y := 0; y < int(rows); y++ {
		for x := 0; x < int(cols); x++ {
			cell, _ := s.Cell(uint32(x), uint32(y))
			ch, attr := console.SplitCell(cell)
			fg, bg := console.AttrColors(attr)

			box := image.Rect(x*cellW, y*cellH, (x+1)*cellW, (y+1)*cellH)
			draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Src)

			if ch <= ' ' {
				continue
			}

			glyph[0] = console.Glyph(ch)
			d := font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(fg),
				Face: face,
				Dot:  fixed.P(x*cellW, y*cellH+face.Ascent),
			}
			d.DrawString(string(glyph[:]))
		}
	}

	return img
}

// PNG renders s and writes it to w as a PNG image.
func PNG(w io.Writer, s console.Surface) error {
	return png.Encode(w, Image(s))
}
