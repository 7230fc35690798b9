// Package usbarmory wires a USB armory Mk II's dedicated UART, the
// reference radio driver, and the PHY dispatcher together at boot,
// adapted from board/usbarmory/mk2's hardware bring-up pattern in
// github.com/usbarmory/tamago, which this package imports rather than
// forks.
//
// This package is only meant to be used with `GOOS=tamago GOARCH=arm` as
// supported by the TamaGo framework for bare metal Go on ARM SoCs, see
// https://github.com/usbarmory/tamago.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package usbarmory

import (
	"github.com/sirupsen/logrus"
	"github.com/usbarmory/tamago/soc/imx6"
	"github.com/usbarmory/tamago/soc/nxp/imx6ul"

	_ "unsafe"

	"github.com/usbarmory/serial154/bridge"
	"github.com/usbarmory/serial154/pcapng"
	"github.com/usbarmory/serial154/radio"
	"github.com/usbarmory/serial154/transport/tamagouart"
)

// RXRingSize is the default ISR-to-task ring buffer capacity, §4.1; must
// be a power of two.
const RXRingSize = 4096

// ParserBufSize is the default PCAPNG block buffer size, sized to
// comfortably hold an EPB carrying the largest PHY primitive (§4.2's
// "default sized to snaplen + header + padding + trailing length").
const ParserBufSize = 256

//go:linkname Init runtime.hwinit
func Init() {
	imx6.Init()
	// UART1 carries the PHY SAP bridge traffic; UART2 (the mk2 console)
	// is left for stdout/debug as the teacher board wires it.
	imx6ul.UART1.Init()
}

// Bridge owns the goroutines started by Run: the transport's RX pump (via
// UART.Init) and the dispatcher's consumption of decoded EPB blocks.
type Bridge struct {
	UART       *tamagouart.UART
	Dispatcher *bridge.Dispatcher
	Bus        *pcapng.Bus
	Parser     *pcapng.Parser
}

// New assembles a Bridge driving driver over UART1, per §4.5's startup
// sequence (steps 1-3 happen in Run).
func New(driver radio.Driver, log *logrus.Logger, cfg bridge.Config) *Bridge {
	uart := tamagouart.New(imx6ul.UART1, RXRingSize)
	bus := pcapng.NewBus()
	parser := pcapng.NewParser(ParserBufSize, bus.Handler())
	dispatcher := bridge.New(driver, uart, log, cfg)

	return &Bridge{
		UART:       uart,
		Dispatcher: dispatcher,
		Bus:        bus,
		Parser:     parser,
	}
}

// Run starts the UART RX pump, registers the dispatcher as the sole PCAPNG
// consumer (§4.5 step 1), emits the capture preamble (steps 2-3), and
// drives the event loop until stop fires.
func (b *Bridge) Run(stop <-chan struct{}) error {
	b.UART.Init()

	events := make(chan pcapng.Block, 64)
	if !b.Bus.RegisterConsumer(events) {
		panic("usbarmory: PCAPNG consumer already registered")
	}

	if err := b.Dispatcher.Start(); err != nil {
		return err
	}

	go b.pumpParser(stop)

	for {
		select {
		case <-stop:
			return nil
		case blk := <-events:
			b.Dispatcher.HandleBlock(blk)
		}
	}
}

// pumpParser feeds bytes drained from the UART's receive ring into the
// PCAPNG parser, waking whenever the ring signals new data, §5: "PCAPNG
// task: after exhausting the ring buffer, yields until next wake."
func (b *Bridge) pumpParser(stop <-chan struct{}) {
	buf := make([]byte, 64)
	for {
		select {
		case <-stop:
			return
		case <-b.UART.Wake():
		}

		for {
			n, _ := b.UART.Read(buf)
			if n == 0 {
				break
			}
			_, _ = b.Parser.Write(buf[:n])
		}
	}
}
