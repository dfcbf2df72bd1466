//go:build rp2040 || rp2350

package strconvx

// Allocation-aware helpers with the same signatures as strconv.
// Supported bases: 2..36; anything else formats in base 10.

func Itoa(i int) string { return FormatInt(int64(i), 10) }

func FormatInt(i int64, base int) string {
	var buf [65]byte
	return string(AppendInt(buf[:0], i, base))
}

func AppendInt(dst []byte, i int64, base int) []byte {
	if base < 2 || base > 36 {
		base = 10
	}
	neg := i < 0
	var u uint64
	if neg {
		// Two's complement negate; also correct for MinInt64.
		u = uint64(-(i + 1)) + 1
	} else {
		u = uint64(i)
	}
	if u == 0 {
		return append(dst, '0')
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var buf [64]byte
	n := len(buf)
	b := uint64(base)
	for u > 0 {
		n--
		buf[n] = digits[u%b]
		u /= b
	}
	if neg {
		dst = append(dst, '-')
	}
	return append(dst, buf[n:]...)
}
