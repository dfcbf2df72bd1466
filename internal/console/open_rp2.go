//go:build rp2040 || rp2350

package console

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"keycalc-go/errcode"
	"keycalc-go/types"
)

// Open configures the selected UART and returns a serial sink over it.
// An empty UART name falls back to the USB CDC console via println.
func Open(cfg types.ConsoleConfig) (Sink, error) {
	var hw *uartx.UART
	switch cfg.UART {
	case "":
		return printSink{}, nil
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "console.Open", Msg: cfg.UART}
	}
	// Defaults inside uartx apply for zero values.
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.Pin(cfg.TX),
		RX:       machine.Pin(cfg.RX),
	}); err != nil {
		return nil, errcode.Wrap(errcode.IOError, "console.Open", err)
	}
	return NewSerialSink(hw), nil
}

type printSink struct{}

func (printSink) EmitLine(s string) { println(s) }
