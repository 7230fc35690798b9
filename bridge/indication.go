package bridge

import (
	"github.com/usbarmory/serial154/phy"
	"github.com/usbarmory/serial154/radio"
)

// onReceive is the radio.ReceiveFunc registered in New; it implements
// §4.5's "Unsolicited indications": builds a PD-DATA.indication with
// ppduLinkQuality computed per §6's link-quality mapping and emits it as
// an EPB. When the indication rate limiter has no token left the frame is
// dropped instead, so a burst of received frames cannot monopolize the
// single UART TX queue.
func (d *Dispatcher) onReceive(psdu []byte, rssi int8) {
	if !d.limiter.Allow() {
		d.log.Warn("bridge: indication dropped, rate limit exceeded")
		return
	}

	threshold, err := d.driver.GetValue(radio.ParamRSSIThreshold)
	if err != nil {
		d.log.WithError(err).Warn("bridge: failed to read RSSI threshold")
		threshold = 0
	}

	lq := linkQuality(int8(threshold), rssi)
	d.emit(phy.NewPDDataIndication(psdu, lq))
}

// linkQuality computes ppduLinkQuality per §6: "an unsigned byte computed
// by adding the radio's RSSI threshold (a negative dBm, e.g. -90) to the
// packetbuf RSSI attribute and casting to u8", saturated rather than
// wrapped so out-of-range sums stay meaningful bytes.
func linkQuality(threshold, rssi int8) uint8 {
	sum := int(threshold) + int(rssi)
	if sum < 0 {
		sum = 0
	}
	if sum > 255 {
		sum = 255
	}
	return uint8(sum)
}
