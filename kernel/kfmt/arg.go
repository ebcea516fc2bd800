package kfmt

// ArgKind identifies the value held by an Arg.
type ArgKind uint8

// The supported argument kinds.
const (
	// ArgNone marks the zero Arg; it is not accepted by any directive.
	ArgNone ArgKind = iota

	// ArgChar holds a single character.
	ArgChar

	// ArgInt holds a signed integer.
	ArgInt

	// ArgText holds a reference to a byte sequence. A text argument may
	// be absent, in which case %s prints nothing.
	ArgText
)

// Arg is a typed argument for Fprintf. Args are built with the Char, Int,
// Text and NilText constructors; each directive checks that the Arg it
// consumes carries a compatible kind.
type Arg struct {
	kind   ArgKind
	num    int64
	text   string
	absent bool
}

// Char returns an Arg holding the character ch.
func Char(ch byte) Arg {
	return Arg{kind: ArgChar, num: int64(ch)}
}

// Int returns an Arg holding the signed integer v.
func Int(v int64) Arg {
	return Arg{kind: ArgInt, num: v}
}

// Text returns an Arg referencing s. The referenced text ends at its first
// NUL byte, if any.
func Text(s string) Arg {
	return Arg{kind: ArgText, text: s}
}

// NilText returns an absent text Arg.
func NilText() Arg {
	return Arg{kind: ArgText, absent: true}
}

// Kind returns the kind of value held by a.
func (a Arg) Kind() ArgKind {
	return a.kind
}

// integer returns the integer view of a. Characters are promoted to
// integers, text is rejected.
func (a Arg) integer() (int64, bool) {
	switch a.kind {
	case ArgChar, ArgInt:
		return a.num, true
	default:
		return 0, false
	}
}
