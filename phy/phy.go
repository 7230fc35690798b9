// Package phy implements the IEEE 802.15.4 PHY service primitive codec: a
// discriminated-union wire format carrying the thirteen PD-SAP and PLME-SAP
// primitives defined by 802.15.4-2006, exchanged as EPB payloads on
// interface 0.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package phy

import "fmt"

// MsgType identifies a PHY service primitive on the wire.
type MsgType uint8

// Primitive types, §3 of the wire table.
const (
	TypePDDataRequest          MsgType = 0
	TypePDDataConfirm          MsgType = 1
	TypePDDataIndication       MsgType = 2
	TypePLMECCARequest         MsgType = 3
	TypePLMECCAConfirm         MsgType = 4
	TypePLMEEDRequest          MsgType = 5
	TypePLMEEDConfirm          MsgType = 6
	TypePLMEGetRequest         MsgType = 7
	TypePLMEGetConfirm         MsgType = 8
	TypePLMESetTRXStateRequest MsgType = 9
	TypePLMESetTRXStateConfirm MsgType = 10
	TypePLMESetRequest         MsgType = 11
	TypePLMESetConfirm         MsgType = 12
)

func (t MsgType) String() string {
	switch t {
	case TypePDDataRequest:
		return "PD-DATA.request"
	case TypePDDataConfirm:
		return "PD-DATA.confirm"
	case TypePDDataIndication:
		return "PD-DATA.indication"
	case TypePLMECCARequest:
		return "PLME-CCA.request"
	case TypePLMECCAConfirm:
		return "PLME-CCA.confirm"
	case TypePLMEEDRequest:
		return "PLME-ED.request"
	case TypePLMEEDConfirm:
		return "PLME-ED.confirm"
	case TypePLMEGetRequest:
		return "PLME-GET.request"
	case TypePLMEGetConfirm:
		return "PLME-GET.confirm"
	case TypePLMESetTRXStateRequest:
		return "PLME-SET-TRX-STATE.request"
	case TypePLMESetTRXStateConfirm:
		return "PLME-SET-TRX-STATE.confirm"
	case TypePLMESetRequest:
		return "PLME-SET.request"
	case TypePLMESetConfirm:
		return "PLME-SET.confirm"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// MaxPSDU is aMaxPHYPacketSize, the largest PSDU a PD-DATA primitive may
// carry.
const MaxPSDU = 127

// Status is a PHY state/result code, Std 802.15.4-2006 Table 18. Unlike the
// Contiki source's enum (which reserves 0 for a simulation sentinel and
// starts its values at SETCONF+1), the wire format's authoritative byte
// examples (§8 S2/S3: a SUCCESS confirm's status octet is 0x00) pin
// StatusSuccess to zero.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusBusy
	StatusBusyRX
	StatusBusyTX
	StatusForceTRXOff
	StatusIdle
	StatusInvalidParameter
	StatusRxOn
	StatusTRXOff
	StatusTxOn
	StatusUnsupportedAttribute
	StatusReadOnly
)

func (s Status) String() string {
	switch s {
	case StatusBusy:
		return "BUSY"
	case StatusBusyRX:
		return "BUSY_RX"
	case StatusBusyTX:
		return "BUSY_TX"
	case StatusForceTRXOff:
		return "FORCE_TRX_OFF"
	case StatusIdle:
		return "IDLE"
	case StatusInvalidParameter:
		return "INVALID_PARAMETER"
	case StatusRxOn:
		return "RX_ON"
	case StatusSuccess:
		return "SUCCESS"
	case StatusTRXOff:
		return "TRX_OFF"
	case StatusTxOn:
		return "TX_ON"
	case StatusUnsupportedAttribute:
		return "UNSUPPORT_ATTRIBUTE"
	case StatusReadOnly:
		return "READ_ONLY"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Attr identifies a PHY PIB attribute, Std 802.15.4-2006 Table 23.
type Attr uint8

const (
	AttrCurrentChannel Attr = iota
	AttrChannelsSupported
	AttrTransmitPower
	AttrCCAMode
	AttrCurrentPage
	AttrMaxFrameDuration
	AttrSHRDuration
	AttrSymbolsPerOctet
)

func (a Attr) String() string {
	switch a {
	case AttrCurrentChannel:
		return "phyCurrentChannel"
	case AttrChannelsSupported:
		return "phyChannelsSupported"
	case AttrTransmitPower:
		return "phyTransmitPower"
	case AttrCCAMode:
		return "phyCCAMode"
	case AttrCurrentPage:
		return "phyCurrentPage"
	case AttrMaxFrameDuration:
		return "phyMaxFrameDuration"
	case AttrSHRDuration:
		return "phySHRDuration"
	case AttrSymbolsPerOctet:
		return "phySymbolsPerOctet"
	default:
		return fmt.Sprintf("attr(%d)", uint8(a))
	}
}

// Valid reports whether a names one of the eight defined PIB attributes.
func (a Attr) Valid() bool {
	return a <= AttrSymbolsPerOctet
}

// Width returns the on-wire byte width of a's value, §3: "Attribute value
// widths: CurrentChannel 1, ChannelsSupported 4 (LE), TransmitPower 1,
// CCAMode 1, CurrentPage 1, MaxFrameDuration 2 (LE), SHRDuration 1,
// SymbolsPerOctet 1." Width panics if a is not Valid.
func (a Attr) Width() int {
	switch a {
	case AttrCurrentChannel, AttrTransmitPower, AttrCCAMode, AttrCurrentPage, AttrSHRDuration, AttrSymbolsPerOctet:
		return 1
	case AttrMaxFrameDuration:
		return 2
	case AttrChannelsSupported:
		return 4
	default:
		panic(fmt.Sprintf("phy: width of unknown attribute %d", uint8(a)))
	}
}

// ReadOnly reports whether a can never be written via PLME-SET, §4.5
// "Attribute policy".
func (a Attr) ReadOnly() bool {
	switch a {
	case AttrChannelsSupported, AttrMaxFrameDuration, AttrSHRDuration, AttrSymbolsPerOctet, AttrCurrentPage:
		return true
	default:
		return false
	}
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
