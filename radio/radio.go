// Package radio defines the narrow driver abstraction the PHY dispatcher
// depends on, §4.4: a uniform get/set/send/CCA/ED surface over whatever
// physical transceiver a board wires in. This package never speaks PCAPNG
// or the PHY SAP wire format; it is the boundary the dispatcher code
// depends on without knowing which chip is on the other side.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package radio

import "errors"

// ErrNotSupported is returned by GetValue/SetValue/GetObject for a
// parameter the driver does not implement (maps to
// phy.StatusUnsupportedAttribute at the dispatcher).
var ErrNotSupported = errors.New("radio: parameter not supported")

// ErrReadOnly is returned by SetValue for a parameter that can
// be read but never written (maps to phy.StatusReadOnly).
var ErrReadOnly = errors.New("radio: parameter is read-only")

// ErrInvalidValue is returned by SetValue when value is outside the
// parameter's accepted range (maps to phy.StatusInvalidParameter).
var ErrInvalidValue = errors.New("radio: value out of range")

// TxResult is the outcome of a Send call, §4.4.
type TxResult int

const (
	TxOK TxResult = iota
	TxErr
	TxCollision
	TxNoACK
)

func (r TxResult) String() string {
	switch r {
	case TxOK:
		return "TX_OK"
	case TxErr:
		return "TX_ERR"
	case TxCollision:
		return "TX_COLLISION"
	case TxNoACK:
		return "TX_NOACK"
	default:
		return "TX_UNKNOWN"
	}
}

// CCAState is the result of a ChannelClear call.
type CCAState int

const (
	CCATRXOff CCAState = iota
	CCABusy
	CCAIdle
)

// Param identifies a scalar driver parameter addressed by GetValue/SetValue.
type Param int

const (
	ParamChannel Param = iota
	ParamTXPower
	ParamCCAMode
	ParamCurrentPage
	ParamSHRDuration
	ParamSymbolsPerOctet
	ParamRSSIThreshold
	ParamPHYState
)

// ObjectParam identifies a composite driver parameter addressed by
// GetObject; §4.4 lists only read-only object parameters.
type ObjectParam int

const (
	ObjectChannelsSupported ObjectParam = iota
	ObjectMaxFrameDuration
)

// ReceiveFunc is invoked by a Driver when it has a received PSDU ready,
// alongside the RSSI reading to compute link quality (§6 "Link-quality
// mapping").
type ReceiveFunc func(psdu []byte, rssi int8)

// Driver is the consumed interface a board wires a physical or reference
// transceiver through, §4.4. All operations are synchronous; a Driver
// implementation owns its own locking if it is touched from more than one
// goroutine (e.g. an RX interrupt goroutine calling back via ReceiveFunc
// concurrently with the dispatcher calling Send).
type Driver interface {
	// Init prepares the radio for operation.
	Init() error

	// Send transmits psdu and reports the outcome.
	Send(psdu []byte) TxResult

	// ChannelClear performs a Clear Channel Assessment.
	ChannelClear() (CCAState, error)

	// EnergyDetect samples the channel energy level, Std 802.15.4-2006
	// §6.9.7. It may return ErrNotSupported (§9 Open Question (b): the
	// reference driver stubs this).
	EnergyDetect() (level uint8, err error)

	// GetValue reads a scalar parameter.
	GetValue(p Param) (uint32, error)

	// SetValue writes a scalar parameter.
	SetValue(p Param, value uint32) error

	// GetObject reads a composite, always-read-only parameter.
	GetObject(p ObjectParam) (uint32, error)

	// SetReceiveFunc registers the callback invoked on every received
	// PSDU. A Driver must not invoke it before SetReceiveFunc is called.
	SetReceiveFunc(fn ReceiveFunc)
}
