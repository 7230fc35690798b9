package radio

import "sync"

// Null is a loopback reference driver with no underlying hardware, ported
// from the Contiki tree's nullradio_driver: fixed read-only attributes,
// always-successful send/CCA, a channel/txpower pair that can be read back
// after being set. It is used by every bridge test and by the host bridge
// CLI's -loopback mode; it is not a substitute for a real transceiver
// driver, which remains outside this module's scope.
type Null struct {
	mu sync.Mutex

	channel  uint8
	txpower  uint8
	ccaMode  uint8
	recv     ReceiveFunc
}

// TX power range accepted by this reference driver, modeled on a 2.4 GHz
// O-QPSK transceiver's real amplifier range (AT86RF231-class: -17..+3 dBm);
// nullradio.c itself has no such check ("txpower = value; return
// RADIO_RESULT_OK" unconditionally), but §4.5's attribute policy requires
// out-of-range TX power writes to return INVALID_PARAMETER, so this reference
// driver deviates from nullradio.c here the same way it already does for
// CCAMode below.
const (
	minTXPowerDBm = -17
	maxTXPowerDBm = 3
)

// txPowerDBm extracts the signed dBm component of TransmitPower's bit-packed
// wire representation, §3: "TransmitPower (bit-packed: top two bits
// tolerance, low six bits signed dBm)".
func txPowerDBm(value uint8) int8 {
	dbm := value & 0x3F
	if dbm&0x20 != 0 {
		return int8(dbm) - 64
	}
	return int8(dbm)
}

// NewNull returns a Null driver with the same defaults as nullradio_driver:
// channel 26, TX power 3.
func NewNull() *Null {
	return &Null{
		channel: 26,
		txpower: 3,
		ccaMode: 1,
	}
}

func (n *Null) Init() error {
	return nil
}

func (n *Null) Send(psdu []byte) TxResult {
	return TxOK
}

func (n *Null) ChannelClear() (CCAState, error) {
	return CCAIdle, nil
}

// EnergyDetect is stubbed on the reference radio, matching nullradio.c
// (which has no ED support at all); §9 Open Question (b) resolves this to
// ErrNotSupported.
func (n *Null) EnergyDetect() (uint8, error) {
	return 0, ErrNotSupported
}

func (n *Null) GetValue(p Param) (uint32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch p {
	case ParamChannel:
		return uint32(n.channel), nil
	case ParamTXPower:
		return uint32(n.txpower), nil
	case ParamCCAMode:
		return uint32(n.ccaMode), nil
	case ParamCurrentPage:
		return 0, nil
	case ParamSHRDuration:
		return 10, nil
	case ParamSymbolsPerOctet:
		return 2, nil
	case ParamRSSIThreshold:
		// -90 dBm, cast through int8 the way the confirm's link-quality
		// computation (§6) expects.
		threshold := int8(-90)
		return uint32(uint8(threshold)), nil
	default:
		return 0, ErrNotSupported
	}
}

func (n *Null) SetValue(p Param, value uint32) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch p {
	case ParamChannel:
		if value < 11 || value > 26 {
			return ErrInvalidValue
		}
		n.channel = uint8(value)
		return nil
	case ParamTXPower:
		if dbm := txPowerDBm(uint8(value)); dbm < minTXPowerDBm || dbm > maxTXPowerDBm {
			return ErrInvalidValue
		}
		n.txpower = uint8(value)
		return nil
	case ParamCCAMode:
		// nullradio.c marks RADIO_PARAM_CCA_MODE read-only ("todo:");
		// this driver instead accepts mode 1 and rejects every other
		// mode with ErrInvalidValue, which the dispatcher maps to
		// INVALID_PARAMETER. Mode 1 is the only one this driver stores.
		if value != 1 {
			return ErrInvalidValue
		}
		n.ccaMode = uint8(value)
		return nil
	case ParamCurrentPage, ParamSHRDuration, ParamSymbolsPerOctet:
		return ErrReadOnly
	default:
		return ErrNotSupported
	}
}

func (n *Null) GetObject(p ObjectParam) (uint32, error) {
	switch p {
	case ObjectChannelsSupported:
		return 0x07FFF800, nil // channels 11-26
	case ObjectMaxFrameDuration:
		return 266, nil
	default:
		return 0, ErrNotSupported
	}
}

func (n *Null) SetReceiveFunc(fn ReceiveFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recv = fn
}

// Deliver simulates an inbound RF frame, invoking the registered receive
// callback with psdu and rssi as if the physical radio had received it.
// Tests use this to exercise the PD-DATA.indication path without real
// hardware.
func (n *Null) Deliver(psdu []byte, rssi int8) {
	n.mu.Lock()
	fn := n.recv
	n.mu.Unlock()

	if fn != nil {
		fn(psdu, rssi)
	}
}
