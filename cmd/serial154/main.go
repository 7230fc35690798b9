//go:build tamago && arm
// +build tamago,arm

// Command serial154 is the firmware image for a USB armory Mk II acting as
// an 802.15.4 PHY SAP bridge: it owns the radio peripheral, frames PHY
// service primitives as PCAPNG enhanced packet blocks, and exchanges them
// over a dedicated UART with a host-side client.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/usbarmory/serial154/board/usbarmory"
	"github.com/usbarmory/serial154/bridge"
	"github.com/usbarmory/serial154/radio"
)

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
}

func main() {
	start := time.Now()

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	driver := radio.NewNull()
	if err := driver.Init(); err != nil {
		log.Fatalf("serial154: radio init failed: %v", err)
	}

	b := usbarmory.New(driver, logger, bridge.DefaultConfig())

	fmt.Printf("serial154 bridge starting (epoch %d)\n", start.UnixNano())

	stop := make(chan struct{})
	if err := b.Run(stop); err != nil {
		log.Fatalf("serial154: bridge exited: %v", err)
	}
}
