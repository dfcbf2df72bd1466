//go:build !(rp2040 || rp2350)

package strconvx

import "strconv"

// Signature parity with strconv; delegate straight through on host builds.

func Itoa(i int) string                              { return strconv.Itoa(i) }
func FormatInt(i int64, base int) string             { return strconv.FormatInt(i, base) }
func AppendInt(dst []byte, i int64, base int) []byte { return strconv.AppendInt(dst, i, base) }
