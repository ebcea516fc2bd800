package tty

import (
	"debugcon/device/video/console"
	"debugcon/kernel/kfmt"
	"strings"
	"testing"
)

func newAttachedConsole(t *testing.T, overflow OverflowPolicy) (*Console, *console.VgaTextConsole) {
	t.Helper()

	surface := console.NewBufferConsole(console.DefaultColumns, console.DefaultRows)
	cons := NewConsole(overflow)
	if err := cons.Attach(surface); err != nil {
		t.Fatal(err)
	}

	return cons, surface
}

// rowText returns the characters of row y with trailing blanks removed.
func rowText(s console.Surface, y uint32) string {
	w, _ := s.Dimensions()

	var sb strings.Builder
	for x := uint32(0); x < w; x++ {
		cell, _ := s.Cell(x, y)
		ch, _ := console.SplitCell(cell)
		sb.WriteByte(ch)
	}

	return strings.TrimRight(sb.String(), " ")
}

func assertCursor(t *testing.T, cons *Console, expX, expY uint32) {
	t.Helper()

	if x, y := cons.CursorPosition(); x != expX || y != expY {
		t.Fatalf("expected cursor to be at (%d, %d); got (%d, %d)", expX, expY, x, y)
	}
}

func TestConsoleAttach(t *testing.T) {
	cons := NewConsole(OverflowScroll)

	if err := cons.Attach(nil); err != ErrNoSurface {
		t.Fatalf("expected ErrNoSurface; got %v", err)
	}

	if cons.Surface() != nil {
		t.Fatal("expected detached console to report a nil surface")
	}
}

func TestConsolePutCharControlCodes(t *testing.T) {
	specs := []struct {
		startX, startY uint32
		input          byte
		expX, expY     uint32
	}{
		// backspace
		{5, 3, '\b', 4, 3},
		{0, 3, '\b', 0, 3},
		// tab uses bitmask rounding
		{0, 0, '\t', 8, 0},
		{1, 0, '\t', 8, 0},
		{7, 0, '\t', 8, 0},
		{8, 0, '\t', 16, 0},
		{13, 2, '\t', 16, 2},
		{72, 2, '\t', 0, 3},
		{79, 2, '\t', 0, 3},
		// carriage return
		{42, 7, '\r', 0, 7},
		// line feed
		{42, 7, '\n', 0, 8},
		// ignored control codes
		{10, 10, 0x00, 10, 10},
		{10, 10, 0x07, 10, 10},
		{10, 10, 0x1b, 10, 10},
	}

	for specIndex, spec := range specs {
		cons, surface := newAttachedConsole(t, OverflowScroll)
		cons.GotoXY(spec.startX, spec.startY)
		before := append([]uint16(nil), surface.Framebuffer()...)

		cons.PutChar(spec.input)

		if x, y := cons.CursorPosition(); x != spec.expX || y != spec.expY {
			t.Errorf("[spec %d] expected cursor at (%d, %d) after 0x%x; got (%d, %d)", specIndex, spec.expX, spec.expY, spec.input, x, y)
		}

		for i, cell := range surface.Framebuffer() {
			if cell != before[i] {
				t.Errorf("[spec %d] expected control code 0x%x not to modify the surface", specIndex, spec.input)
				break
			}
		}
	}
}

func TestConsolePutCharPrintable(t *testing.T) {
	cons, surface := newAttachedConsole(t, OverflowScroll)
	attr := console.MakeAttr(console.Yellow, console.Blue)
	cons.SetColor(attr)

	cons.GotoXY(3, 4)
	cons.PutChar('G')

	cell, _ := surface.Cell(3, 4)
	if exp := uint16('G') | uint16(attr)<<8; cell != exp {
		t.Fatalf("expected cell (3, 4) to contain 0x%x; got 0x%x", exp, cell)
	}
	assertCursor(t, cons, 4, 4)

	// bytes above 0x7f are written as-is
	cons.PutChar(0xdb)
	if cell, _ := surface.Cell(4, 4); byte(cell) != 0xdb {
		t.Fatalf("expected cell (4, 4) to contain 0xdb; got 0x%x", byte(cell))
	}
}

func TestConsoleBackspaceDoesNotErase(t *testing.T) {
	cons, surface := newAttachedConsole(t, OverflowScroll)

	cons.PutString([]byte("ab\b"))
	assertCursor(t, cons, 1, 0)

	if got := rowText(surface, 0); got != "ab" {
		t.Fatalf("expected backspace to keep the glyph; row contains %q", got)
	}

	cons.PutChar('X')
	if got := rowText(surface, 0); got != "aX" {
		t.Fatalf("expected overwrite after backspace; row contains %q", got)
	}
}

func TestConsoleLineWrap(t *testing.T) {
	cons, surface := newAttachedConsole(t, OverflowScroll)

	cons.GotoXY(79, 2)
	cons.PutChar('A')
	assertCursor(t, cons, 0, 3)

	cons.PutChar('B')
	assertCursor(t, cons, 1, 3)

	if cell, _ := surface.Cell(79, 2); byte(cell) != 'A' {
		t.Fatalf("expected 'A' at (79, 2); got %q", byte(cell))
	}

	if cell, _ := surface.Cell(0, 3); byte(cell) != 'B' {
		t.Fatalf("expected 'B' at (0, 3); got %q", byte(cell))
	}

	t.Run("column never reaches the width", func(t *testing.T) {
		cons, _ := newAttachedConsole(t, OverflowScroll)
		for i := 0; i < 1000; i++ {
			cons.PutChar(byte(i))
			if x, _ := cons.CursorPosition(); x >= console.DefaultColumns {
				t.Fatalf("cursor column %d out of range after byte 0x%x", x, byte(i))
			}
		}
	})
}

func TestConsoleOverflow(t *testing.T) {
	t.Run("scroll", func(t *testing.T) {
		cons, surface := newAttachedConsole(t, OverflowScroll)

		for i := 0; i < 30; i++ {
			cons.Printf("line %d\n", kfmt.Int(int64(i)))
		}

		assertCursor(t, cons, 0, console.DefaultRows-1)

		// lines 6..29 remain visible on rows 0..23; row 24 is blank
		if got := rowText(surface, 0); got != "line 6" {
			t.Fatalf("expected first row to contain %q; got %q", "line 6", got)
		}

		if got := rowText(surface, console.DefaultRows-2); got != "line 29" {
			t.Fatalf("expected row 23 to contain %q; got %q", "line 29", got)
		}

		if got := rowText(surface, console.DefaultRows-1); got != "" {
			t.Fatalf("expected last row to be blank; got %q", got)
		}
	})

	t.Run("scroll clears with current attribute", func(t *testing.T) {
		cons, surface := newAttachedConsole(t, OverflowScroll)
		attr := console.MakeAttr(console.White, console.Red)
		cons.SetColor(attr)

		cons.GotoXY(0, console.DefaultRows-1)
		cons.PutChar('\n')

		cell, _ := surface.Cell(0, console.DefaultRows-1)
		if exp := console.MakeCell(' ', attr); cell != exp {
			t.Fatalf("expected scrolled-in cell to be 0x%x; got 0x%x", exp, cell)
		}
	})

	t.Run("discard", func(t *testing.T) {
		cons, surface := newAttachedConsole(t, OverflowDiscard)
		before := append([]uint16(nil), surface.Framebuffer()...)

		cons.GotoXY(0, console.DefaultRows-1)
		cons.PutString([]byte("\n\nlost"))

		assertCursor(t, cons, 4, console.DefaultRows+1)

		for i, cell := range surface.Framebuffer() {
			if cell != before[i] {
				t.Fatalf("expected output below the surface to be dropped; cell %d changed", i)
			}
		}
	})
}

func TestConsolePutString(t *testing.T) {
	cons, surface := newAttachedConsole(t, OverflowScroll)

	cons.PutString(nil)
	cons.PutString([]byte{})
	assertCursor(t, cons, 0, 0)

	cons.PutString([]byte("hello\r\nworld"))
	assertCursor(t, cons, 5, 1)

	if got := rowText(surface, 0); got != "hello" {
		t.Fatalf("expected row 0 to contain %q; got %q", "hello", got)
	}
	if got := rowText(surface, 1); got != "world" {
		t.Fatalf("expected row 1 to contain %q; got %q", "world", got)
	}

	n, err := cons.Write([]byte("!"))
	if n != 1 || err != nil {
		t.Fatalf("expected Write to return (1, nil); got (%d, %v)", n, err)
	}
	if got := rowText(surface, 1); got != "world!" {
		t.Fatalf("expected row 1 to contain %q; got %q", "world!", got)
	}
}

func TestConsolePrintf(t *testing.T) {
	t.Run("signed decimal", func(t *testing.T) {
		cons, surface := newAttachedConsole(t, OverflowScroll)

		n, err := cons.Printf("%d", kfmt.Int(-42))
		if err != nil {
			t.Fatal(err)
		}

		if n != 2 {
			t.Fatalf("expected Printf to consume 2 template bytes; got %d", n)
		}

		if got := rowText(surface, 0); got != "-42" {
			t.Fatalf("expected output %q; got %q", "-42", got)
		}
	})

	t.Run("unsupported directive", func(t *testing.T) {
		cons, surface := newAttachedConsole(t, OverflowScroll)

		if _, err := cons.Printf("%q"); err != kfmt.ErrUnsupportedDirective {
			t.Fatalf("expected ErrUnsupportedDirective; got %v", err)
		}
		assertCursor(t, cons, 0, 0)

		if _, err := cons.Printf("pre %q post"); err != kfmt.ErrUnsupportedDirective {
			t.Fatalf("expected ErrUnsupportedDirective; got %v", err)
		}

		if got := rowText(surface, 0); got != "pre" {
			t.Fatalf("expected output before the directive to be kept; got %q", got)
		}
		assertCursor(t, cons, 4, 0)
	})

	t.Run("mixed directives", func(t *testing.T) {
		cons, surface := newAttachedConsole(t, OverflowScroll)

		_, err := cons.Printf("%s:%c\t0x%X %i",
			kfmt.Text("irq"), kfmt.Char('7'), kfmt.Int(0x2f), kfmt.Int(-3),
		)
		if err != nil {
			t.Fatal(err)
		}

		if exp, got := "irq:7   0x2F -3", rowText(surface, 0); got != exp {
			t.Fatalf("expected output %q; got %q", exp, got)
		}
	})
}

func TestConsoleSetColor(t *testing.T) {
	cons := NewConsole(OverflowScroll)

	if prev := cons.SetColor(0x1f); prev != console.DefaultAttr {
		t.Fatalf("expected previous attribute to be 0x%x; got 0x%x", console.DefaultAttr, prev)
	}

	if prev := cons.SetColor(0x4e); prev != 0x1f {
		t.Fatalf("expected previous attribute to be 0x1f; got 0x%x", prev)
	}
}

func TestConsoleGotoXY(t *testing.T) {
	t.Run("in range", func(t *testing.T) {
		cons, _ := newAttachedConsole(t, OverflowScroll)
		cons.ClearScreen(console.DefaultAttr)

		cons.GotoXY(5, 5)
		assertCursor(t, cons, 5, 5)

		cons.ClearScreen(console.DefaultAttr)
		assertCursor(t, cons, 0, 0)
	})

	t.Run("out of range target", func(t *testing.T) {
		cons, _ := newAttachedConsole(t, OverflowScroll)
		cons.GotoXY(10, 10)

		cons.GotoXY(80, 3)
		assertCursor(t, cons, 10, 3)

		cons.GotoXY(4, 25)
		assertCursor(t, cons, 4, 3)
	})

	t.Run("row guard uses current position", func(t *testing.T) {
		cons, _ := newAttachedConsole(t, OverflowDiscard)

		cons.GotoXY(0, console.DefaultRows-1)
		cons.PutString([]byte("\n\n"))
		assertCursor(t, cons, 0, console.DefaultRows+1)

		// the row is past the guard so only the column moves
		cons.GotoXY(7, 2)
		assertCursor(t, cons, 7, console.DefaultRows+1)

		// ClearScreen resets the cursor regardless of the guard
		cons.ClearScreen(console.DefaultAttr)
		cons.GotoXY(7, 2)
		assertCursor(t, cons, 7, 2)
	})

	t.Run("detached", func(t *testing.T) {
		cons := NewConsole(OverflowScroll)
		cons.GotoXY(5, 5)
		assertCursor(t, cons, 0, 0)
	})
}

func TestConsoleClearScreen(t *testing.T) {
	cons, surface := newAttachedConsole(t, OverflowScroll)
	cons.PutString([]byte("some text"))

	attr := console.MakeAttr(console.LightGreen, console.Black)
	cons.ClearScreen(attr)

	exp := console.MakeCell(' ', attr)
	for i, cell := range surface.Framebuffer() {
		if cell != exp {
			t.Fatalf("expected cell %d to be 0x%x; got 0x%x", i, exp, cell)
		}
	}
	assertCursor(t, cons, 0, 0)

	// ClearScreen does not change the current attribute
	if prev := cons.SetColor(0); prev != console.DefaultAttr {
		t.Fatalf("expected current attribute to remain 0x%x; got 0x%x", console.DefaultAttr, prev)
	}
}

func TestConsoleEarlyOutput(t *testing.T) {
	cons := NewConsole(OverflowScroll)

	cons.Printf("booting %s\n", kfmt.Text("debugcon"))
	cons.PutString([]byte("stage 2"))
	assertCursor(t, cons, 0, 0)

	surface := console.NewBufferConsole(console.DefaultColumns, console.DefaultRows)
	if err := cons.Attach(surface); err != nil {
		t.Fatal(err)
	}

	if got := rowText(surface, 0); got != "booting debugcon" {
		t.Fatalf("expected replayed row 0 to be %q; got %q", "booting debugcon", got)
	}
	if got := rowText(surface, 1); got != "stage 2" {
		t.Fatalf("expected replayed row 1 to be %q; got %q", "stage 2", got)
	}
	assertCursor(t, cons, 7, 1)
}

func TestConsoleClearScreenDetached(t *testing.T) {
	cons := NewConsole(OverflowScroll)

	cons.PutString([]byte("stale boot output\n"))
	cons.ClearScreen(console.DefaultAttr)
	cons.PutString([]byte("fresh"))

	surface := console.NewBufferConsole(console.DefaultColumns, console.DefaultRows)
	if err := cons.Attach(surface); err != nil {
		t.Fatal(err)
	}

	specs := []struct {
		row uint32
		exp string
	}{
		{0, "fresh"},
		{1, ""},
	}

	for specIndex, spec := range specs {
		if got := rowText(surface, spec.row); got != spec.exp {
			t.Errorf("[spec %d] expected row %d to be %q; got %q", specIndex, spec.row, spec.exp, got)
		}
	}
	assertCursor(t, cons, 5, 0)
}
