// Package bridge implements the PHY dispatcher, §4.5: the cooperative task
// that consumes decoded EPB events, decodes the carried PHY primitive,
// drives a radio.Driver, and emits confirms and indications back as EPBs.
// It is the one stateful package in this module; pcapng and phy are pure
// codecs with no process-wide state of their own.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package bridge

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/usbarmory/serial154/pcapng"
	"github.com/usbarmory/serial154/phy"
	"github.com/usbarmory/serial154/radio"
)

// Config is the dispatcher's build-time configuration: the turnaround
// offset and the indication rate limit. The other build-time settings are
// not part of it: buffer sizes are constants of board/usbarmory, the
// default channel and TX power are the radio driver's own defaults, and
// Start declares a fixed snaplen of 128 on both interfaces.
type Config struct {
	// TurnaroundOffset is added to an event's timestamp to compute the
	// wall-clock target for dispatching it, modeling the radio's
	// symbol turnaround time, §4.5 step 4.
	TurnaroundOffset time.Duration

	// IndicationRate and IndicationBurst limit unsolicited PD-DATA
	// indications; indications over the limit are dropped, so RX bursts
	// never outrun the single UART TX queue (§5 "Shared resources: UART
	// TX sink", SPEC_FULL §11).
	IndicationRate  rate.Limit
	IndicationBurst int
}

// DefaultConfig returns the design values called out in §4.5 and §9.
func DefaultConfig() Config {
	return Config{
		TurnaroundOffset: 500 * time.Microsecond,
		IndicationRate:   1000,
		IndicationBurst:  16,
	}
}

// Dispatcher holds the three persistent items §4.5 allows: the
// start-of-simulation timestamp anchor, a monotone packet counter, and a
// "first event seen" latch — plus what's needed to drive them: the radio
// driver, the outbound EPB sink, and logging.
type Dispatcher struct {
	driver radio.Driver
	log    *logrus.Logger
	cfg    Config

	// Now and Sleep are overridable for deterministic tests; they
	// default to time.Now and time.Sleep.
	Now   func() time.Time
	Sleep func(time.Duration)

	writeMu sync.Mutex // serializes all EPB writes, §9 Open Question (c)
	w       io.Writer

	limiter *rate.Limiter

	mu             sync.Mutex
	haveAnchor     bool
	wallAnchor     time.Time
	simAnchor      time.Duration
	packetCount    uint64
	lastTurnaround time.Duration
}

// New constructs a Dispatcher writing EPBs to w and driving driver.
func New(driver radio.Driver, w io.Writer, log *logrus.Logger, cfg Config) *Dispatcher {
	if log == nil {
		log = logrus.New()
	}
	d := &Dispatcher{
		driver:  driver,
		log:     log,
		cfg:     cfg,
		Now:     time.Now,
		Sleep:   time.Sleep,
		w:       w,
		limiter: rate.NewLimiter(cfg.IndicationRate, cfg.IndicationBurst),
	}
	driver.SetReceiveFunc(d.onReceive)
	return d
}

// Start performs §4.5's startup sequence steps 2-3 (step 1, registering as
// the PCAPNG consumer, is the caller's responsibility via pcapng.Bus):
// emit SHB, then IDB for the PHY SAP interface, then IDB for NO-FCS.
func (d *Dispatcher) Start() error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if err := pcapng.WriteSHB(d.w); err != nil {
		return err
	}
	if err := pcapng.WriteIDB(d.w, pcapng.LinkTypePHY, 128); err != nil {
		return err
	}
	return pcapng.WriteIDB(d.w, pcapng.LinkTypeNoFCS, 128)
}

// PacketCount returns the number of EPB events handled so far, the
// restored packetCounter diagnostic from transceiver.c (SPEC_FULL §12.1).
func (d *Dispatcher) PacketCount() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.packetCount
}

// LastTurnaround returns how far behind (positive) or ahead (negative) of
// its paced target the most recently handled event was, SPEC_FULL §12.4.
func (d *Dispatcher) LastTurnaround() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastTurnaround
}

// PIB reads every attribute straight from the driver and returns it as a
// single snapshot, for diagnostics and tests. Unlike the GET primitive's
// handling (§3: "GET is a pass-through, not a cache"), nothing in the
// dispatcher's request path ever goes through this snapshot; it only gives
// an operator the same one-shot view transceiver.c's print_pib_value trace
// offered over the debug UART.
func (d *Dispatcher) PIB() phy.PIB {
	get := func(p radio.Param) uint8 {
		v, _ := d.driver.GetValue(p)
		return uint8(v)
	}
	channels, _ := d.driver.GetObject(radio.ObjectChannelsSupported)
	maxFrame, _ := d.driver.GetObject(radio.ObjectMaxFrameDuration)

	return phy.PIB{
		CurrentChannel:    get(radio.ParamChannel),
		ChannelsSupported: channels,
		TransmitPower:     get(radio.ParamTXPower),
		CCAMode:           get(radio.ParamCCAMode),
		CurrentPage:       get(radio.ParamCurrentPage),
		MaxFrameDuration:  uint16(maxFrame),
		SHRDuration:       get(radio.ParamSHRDuration),
		SymbolsPerOctet:   get(radio.ParamSymbolsPerOctet),
	}
}

// HandleBlock is the per-event pipeline of §4.5: it only acts on EPB
// blocks on interface 0 (the PHY SAP); every other block type is ignored,
// matching the dispatcher's exclusive-consumer registration with
// pcapng.Bus, which only ever publishes decoded blocks here.
func (d *Dispatcher) HandleBlock(blk pcapng.Block) {
	if blk.Type != pcapng.BlockEPB {
		return
	}

	epb, err := pcapng.ReadEnhancedPacket(blk.Body())
	if err != nil {
		d.log.WithError(err).Warn("bridge: malformed EPB, dropped")
		return
	}
	if epb.InterfaceID != 0 {
		return
	}

	d.mu.Lock()
	d.packetCount++
	count := d.packetCount
	d.mu.Unlock()

	d.log.WithFields(logrus.Fields{
		"block_type": blk.Type,
		"packet":     count,
		"interface":  epb.InterfaceID,
		"time":       epb.Timestamp.Sec,
		"length":     epb.PacketLen,
	}).Debug("bridge: EPB received")

	d.paceTo(epb.Timestamp)

	msg, _, err := phy.Deserialize(epb.Data)
	if err != nil {
		d.log.WithError(err).Warn("bridge: primitive decode failed, dropped")
		return
	}
	d.log.WithFields(primitiveFields(msg)).Debug("bridge: primitive received: " + msg.String())

	d.handleMessage(msg)
}

// paceTo sleeps until the wall-clock target for a simulation timestamp ts,
// §4.5 step 4. On the first event it anchors the real-time clock to ts
// instead of sleeping.
func (d *Dispatcher) paceTo(ts pcapng.Timestamp) {
	simTime := time.Duration(ts.Sec)*time.Second + time.Duration(ts.Usec)*time.Microsecond

	d.mu.Lock()
	if !d.haveAnchor {
		d.haveAnchor = true
		d.wallAnchor = d.Now()
		d.simAnchor = simTime
		d.mu.Unlock()
		return
	}
	target := d.wallAnchor.Add(simTime - d.simAnchor + d.cfg.TurnaroundOffset)
	d.mu.Unlock()

	d.sleepUntil(target)

	d.mu.Lock()
	d.lastTurnaround = d.Now().Sub(target)
	d.mu.Unlock()
}

func (d *Dispatcher) sleepUntil(target time.Time) {
	const (
		coarseChunk  = 10 * time.Millisecond
		refineWindow = 20 * time.Millisecond
	)
	for {
		remaining := target.Sub(d.Now())
		if remaining <= 0 {
			return
		}
		if remaining > refineWindow {
			d.Sleep(coarseChunk)
			continue
		}
		d.Sleep(remaining)
		return
	}
}

// emit serializes msg into an EPB on interface 0 and writes it, serialized
// against every other writer through writeMu per §9 Open Question (c).
func (d *Dispatcher) emit(msg phy.Msg) {
	wire, err := phy.Serialize(msg)
	if err != nil {
		d.log.WithError(err).Error("bridge: failed to serialize outgoing primitive")
		return
	}

	ts := timestampNow(d.Now())

	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if err := pcapng.WriteEPB(d.w, 0, ts, wire); err != nil {
		d.log.WithError(err).Error("bridge: failed to write EPB")
	}
}

func timestampNow(t time.Time) pcapng.Timestamp {
	return pcapng.Timestamp{
		Sec:  uint32(t.Unix()),
		Usec: uint32(t.Nanosecond() / 1000),
	}
}

// primitiveFields builds the §10.1 "primitive, attribute, status" debug
// fields for msg, populating only what msg.Type actually carries — the
// structured equivalent of phy_service.c's print_msg/print_msg_payload dump.
func primitiveFields(msg phy.Msg) logrus.Fields {
	fields := logrus.Fields{"primitive": msg.Type}

	switch msg.Type {
	case phy.TypePDDataRequest, phy.TypePDDataIndication:
		fields["psduLength"] = len(msg.PSDU)
	case phy.TypePDDataConfirm, phy.TypePLMECCAConfirm, phy.TypePLMESetTRXStateRequest, phy.TypePLMESetTRXStateConfirm:
		fields["status"] = msg.Status
	case phy.TypePLMEEDConfirm:
		fields["status"] = msg.Status
	case phy.TypePLMEGetRequest:
		fields["attribute"] = msg.Attr
	case phy.TypePLMEGetConfirm:
		fields["status"] = msg.Status
		fields["attribute"] = msg.Attr
		fields["value"] = msg.Value
	case phy.TypePLMESetRequest:
		fields["attribute"] = msg.Attr
		fields["value"] = msg.Value
	case phy.TypePLMESetConfirm:
		fields["status"] = msg.Status
		fields["attribute"] = msg.Attr
	}

	return fields
}
