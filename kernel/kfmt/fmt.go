package kfmt

import (
	"debugcon/kernel"
	"io"
)

// maxTextLen defines the capacity of the scratch buffer that %s copies its
// argument into. Longer text is truncated.
const maxTextLen = 64

var (
	// ErrUnsupportedDirective is returned when a '%' is followed by a byte
	// that is not a known directive (or by the end of the template).
	ErrUnsupportedDirective = &kernel.Error{Module: "kfmt", Message: "unsupported directive"}

	// ErrMissingArg is returned when a directive has no argument left to
	// consume.
	ErrMissingArg = &kernel.Error{Module: "kfmt", Message: "missing argument"}

	// ErrArgType is returned when the argument consumed by a directive
	// carries an incompatible kind.
	ErrArgType = &kernel.Error{Module: "kfmt", Message: "wrong argument type"}
)

// Fprintf interprets template and writes the result to w. Literal bytes are
// copied through and the following directives are substituted with the next
// argument from args:
//
//	%c      a Char or Int argument, narrowed to a single byte
//	%s      a Text argument (at most 64 bytes, up to the first NUL)
//	%d, %i  a Char or Int argument in base 10
//	%x, %X  a Char or Int argument in base 16 with upper-case digits
//
// Width, padding and escaping ("%%") are not supported. Any other byte
// following a '%' stops the interpretation with ErrUnsupportedDirective; a
// missing or mistyped argument stops it with ErrMissingArg or ErrArgType.
// Output produced before the failure is not rolled back.
//
// On success Fprintf returns the number of template bytes examined, which is
// len(template). On failure it returns the offset of the offending '%'.
// Unused trailing arguments are ignored.
func Fprintf(w io.Writer, template string, args ...Arg) (int, *kernel.Error) {
	var (
		nextArgIndex int
		index        int
		verb         byte
		tmplLen      = len(template)
	)

	for ; index < tmplLen; index++ {
		if template[index] != '%' {
			writeByte(w, template[index])
			continue
		}

		verb = 0
		if index+1 < tmplLen {
			verb = template[index+1]
		}

		switch verb {
		case 'c', 's', 'd', 'i', 'x', 'X':
		default:
			return index, ErrUnsupportedDirective
		}

		if nextArgIndex >= len(args) {
			return index, ErrMissingArg
		}

		if err := fmtArg(w, verb, args[nextArgIndex]); err != nil {
			return index, err
		}

		nextArgIndex++

		// skip over the directive letter
		index++
	}

	return index, nil
}

// fmtArg writes arg according to the directive verb.
func fmtArg(w io.Writer, verb byte, arg Arg) *kernel.Error {
	switch verb {
	case 'c':
		v, ok := arg.integer()
		if !ok {
			return ErrArgType
		}
		writeByte(w, byte(v))
	case 's':
		if arg.kind != ArgText {
			return ErrArgType
		}
		fmtText(w, arg)
	case 'd', 'i':
		return fmtInt(w, arg, 10)
	case 'x', 'X':
		return fmtInt(w, arg, 16)
	}

	return nil
}

// fmtInt writes the signed representation of arg in the requested base.
func fmtInt(w io.Writer, arg Arg, base uint32) *kernel.Error {
	v, ok := arg.integer()
	if !ok {
		return ErrArgType
	}

	var buf [maxBufSize + 1]byte
	w.Write(FormatSigned(buf[:0], v, base))
	return nil
}

// fmtText copies the text referenced by arg into a bounded scratch buffer and
// writes it out. Absent text produces no output.
func fmtText(w io.Writer, arg Arg) {
	if arg.absent {
		return
	}

	var (
		buf [maxTextLen]byte
		n   int
	)

	for ; n < len(arg.text) && n < maxTextLen; n++ {
		if arg.text[n] == 0 {
			break
		}
		buf[n] = arg.text[n]
	}

	if n != 0 {
		w.Write(buf[:n])
	}
}

// writeByte writes a single byte to w, preferring io.ByteWriter when w
// implements it.
func writeByte(w io.Writer, b byte) {
	if bw, ok := w.(io.ByteWriter); ok {
		bw.WriteByte(b)
		return
	}

	singleByte := [1]byte{b}
	w.Write(singleByte[:])
}
