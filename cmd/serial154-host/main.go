// Command serial154-host runs the PHY dispatcher on a development host
// against an in-process radio.Null (in both modes; no real radio is used).
// With -port it exchanges the PCAPNG stream over that serial device:
// requests are read from it, and the capture preamble, confirms and
// indications are written back to it. With -loopback no device is opened:
// the stream is written to stdout and no requests are read, so
// `serial154-host -loopback > capture.pcapng` captures the preamble for a
// tool such as Wireshark. It does not relay traffic between a tethered
// board and stdio.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/usbarmory/serial154/bridge"
	"github.com/usbarmory/serial154/pcapng"
	"github.com/usbarmory/serial154/radio"
	"github.com/usbarmory/serial154/transport/hostserial"
)

func main() {
	log.SetFlags(0)

	var (
		port     = flag.String("port", "", "serial device path (e.g. /dev/ttyUSB0)")
		baud     = flag.Uint("baud", 115200, "serial baud rate")
		loopback = flag.Bool("loopback", false, "write the PCAPNG stream to stdout instead of opening a serial device")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if !*loopback && *port == "" {
		log.Fatal("serial154-host: -port is required unless -loopback is set")
	}

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	var conn io.ReadWriter
	if *loopback {
		conn = newLoopbackConn()
	} else {
		c, err := hostserial.Open(*port, *baud)
		if err != nil {
			log.Fatalf("serial154-host: opening %s: %v", *port, err)
		}
		defer c.Close()
		conn = c
	}

	driver := radio.NewNull()
	if err := driver.Init(); err != nil {
		log.Fatalf("serial154-host: radio init failed: %v", err)
	}

	bus := pcapng.NewBus()
	events := make(chan pcapng.Block, 64)
	if !bus.RegisterConsumer(events) {
		log.Fatal("serial154-host: consumer already registered")
	}

	parser := pcapng.NewParser(4096, bus.Handler())
	dispatcher := bridge.New(driver, conn, logger, bridge.DefaultConfig())

	if err := dispatcher.Start(); err != nil {
		log.Fatalf("serial154-host: start: %v", err)
	}

	go pumpReader(conn, parser)

	for blk := range events {
		dispatcher.HandleBlock(blk)
	}
}

// pumpReader feeds bytes read from conn into parser until conn is closed.
func pumpReader(conn io.Reader, parser *pcapng.Parser) {
	buf := make([]byte, 512)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if _, werr := parser.Write(buf[:n]); werr != nil {
				log.Printf("serial154-host: parser: %v", werr)
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("serial154-host: read: %v", err)
			}
			return
		}
	}
}

// loopbackConn copies everything written to it to stdout and never yields
// data to read, letting -loopback exercise the dispatcher/radio.Null path
// without a peer driving requests over the wire.
type loopbackConn struct {
	out *os.File
}

func newLoopbackConn() *loopbackConn {
	return &loopbackConn{out: os.Stdout}
}

func (l *loopbackConn) Read(p []byte) (int, error) {
	select {}
}

func (l *loopbackConn) Write(p []byte) (int, error) {
	return l.out.Write(p)
}
