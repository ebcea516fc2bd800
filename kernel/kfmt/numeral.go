package kfmt

// maxBufSize defines the scratch buffer size for formatting numbers. It fits
// the base-2 representation of a 64-bit magnitude.
const maxBufSize = 64

const (
	minBase = 2
	maxBase = 16
)

var digitChars = [maxBase]byte{
	'0', '1', '2', '3', '4', '5', '6', '7',
	'8', '9', 'A', 'B', 'C', 'D', 'E', 'F',
}

// FormatUnsigned appends the base-n representation of magnitude to dst and
// returns the extended slice. Digits above 9 use the upper-case letters A-F
// and the output never carries leading zeroes.
//
// Bases outside the [2, 16] range cannot be represented with the available
// digit set; for those FormatUnsigned appends a single "0", which callers
// cannot tell apart from a real zero value.
func FormatUnsigned(dst []byte, magnitude uint64, base uint32) []byte {
	if magnitude == 0 || base < minBase || base > maxBase {
		return append(dst, '0')
	}

	var (
		tmp     [maxBufSize]byte
		pos     int
		divider = uint64(base)
	)

	// Digits are produced least-significant first and copied out in reverse.
	for magnitude != 0 {
		tmp[pos] = digitChars[magnitude%divider]
		pos++
		magnitude /= divider
	}

	for pos--; pos >= 0; pos-- {
		dst = append(dst, tmp[pos])
	}

	return dst
}

// FormatSigned appends the base-n representation of value to dst, prefixing
// negative values with a minus sign. Unlike FormatUnsigned, an unsupported
// base produces no output at all and dst is returned unchanged.
func FormatSigned(dst []byte, value int64, base uint32) []byte {
	if base < minBase || base > maxBase {
		return dst
	}

	if value < 0 {
		dst = append(dst, '-')
		// two's complement negation also covers math.MinInt64
		return FormatUnsigned(dst, uint64(^value)+1, base)
	}

	return FormatUnsigned(dst, uint64(value), base)
}
