// Package tamagouart adapts a tamago UART peripheral into the
// io.Reader/io.Writer pair the PCAPNG/PHY bridge expects, routing received
// bytes through a ring.Buffer the way §4.1 and §5 specify the ISR-to-task
// handoff: the peripheral's receive side is polled from a dedicated
// goroutine (standing in for the UART RX interrupt context on a platform
// without true preemptive interrupts reaching Go code) and only ever
// writes into the ring; the cooperative task is the ring's sole reader.
//
// This package is only meant to be used with `GOOS=tamago GOARCH=arm` as
// supported by the TamaGo framework for bare metal Go on ARM SoCs, see
// https://github.com/usbarmory/tamago.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package tamagouart

import (
	"time"

	"github.com/usbarmory/serial154/ring"
)

// Peripheral is the subset of github.com/usbarmory/tamago/soc/nxp/uart.UART
// this package depends on; kept as an interface so tests can exercise the
// ring-feeding goroutine without real hardware registers.
type Peripheral interface {
	Init()
	Tx(c byte)
	Rx() (c byte, valid bool)
}

// UART wraps a Peripheral with a ring.Buffer receive path and a direct
// transmit path, implementing io.Reader/io.Writer for the bridge.
type UART struct {
	hw  Peripheral
	rx  *ring.Buffer
	// PollInterval bounds how often the RX pump checks for a new byte
	// when the peripheral has nothing ready; it trades latency for not
	// spinning the core at 100% when idle.
	PollInterval time.Duration

	stop chan struct{}
}

// New wraps hw, allocating a receive ring of the given capacity (power of
// two, per ring.New).
func New(hw Peripheral, rxBufSize int) *UART {
	return &UART{
		hw:           hw,
		rx:           ring.New(rxBufSize),
		PollInterval: 100 * time.Microsecond,
		stop:         make(chan struct{}),
	}
}

// Init initializes the underlying peripheral and starts the RX pump
// goroutine. Init must be called before Read.
func (u *UART) Init() {
	u.hw.Init()
	go u.pumpRx()
}

// Close stops the RX pump goroutine.
func (u *UART) Close() {
	close(u.stop)
}

func (u *UART) pumpRx() {
	for {
		select {
		case <-u.stop:
			return
		default:
		}

		c, ok := u.hw.Rx()
		if !ok {
			time.Sleep(u.PollInterval)
			continue
		}
		if !u.rx.Put(c) {
			// ring full: the consumer task has fallen behind: the
			// byte is dropped, matching the ring contract's "put
			// returns false on full" rather than blocking the pump.
			continue
		}
	}
}

// Write transmits buf directly to the peripheral; the cooperative task is
// the only writer so no buffering or locking is required here.
func (u *UART) Write(buf []byte) (int, error) {
	for _, c := range buf {
		u.hw.Tx(c)
	}
	return len(buf), nil
}

// Read drains whatever bytes are currently available in the receive ring
// into buf, implementing io.Reader. It never blocks; callers that need to
// wait for data should select on Wake() first.
func (u *UART) Read(buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		c, ok := u.rx.Get()
		if !ok {
			break
		}
		buf[n] = c
		n++
	}
	return n, nil
}

// Wake returns the channel that fires whenever the RX pump has put new
// bytes into the ring, the suspension point §5 assigns to "PCAPNG task:
// after exhausting the ring buffer, yields until next wake."
func (u *UART) Wake() <-chan struct{} {
	return u.rx.Wake()
}
