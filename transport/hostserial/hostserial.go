// Package hostserial opens a real serial device on a non-bare-metal build,
// used by cmd/serial154-host's -port mode to exchange the PCAPNG stream
// with a peer over a serial port.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package hostserial

import (
	"io"

	"github.com/jacobsa/go-serial/serial"
)

// Open opens the serial device at path at the given baud rate, returning
// an io.ReadWriteCloser suitable for feeding a pcapng.Parser and a
// bridge.Dispatcher directly.
func Open(path string, baud uint) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              path,
		BaudRate:              baud,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
		MinimumReadSize:       1,
	}
	return serial.Open(opts)
}
