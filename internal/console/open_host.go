//go:build !(rp2040 || rp2350)

package console

import (
	"os"

	"keycalc-go/types"
)

// Open returns stdout on host builds; the UART settings are ignored.
func Open(_ types.ConsoleConfig) (Sink, error) {
	return NewWriterSink(os.Stdout), nil
}
