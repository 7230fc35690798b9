package phy

import "fmt"

// Msg is a decoded PHY service primitive. Only the fields relevant to Type
// are meaningful; this mirrors the original C union flattened into a single
// struct, the same way the ampio-server codec in this corpus represents a
// decoded CAN frame as one flat struct rather than a family of types.
type Msg struct {
	Type   MsgType
	Length uint8

	// PD-DATA.request / PD-DATA.indication
	PSDU        []byte
	LinkQuality uint8 // PD-DATA.indication only

	// confirms carrying only a status, and PLME-SET-TRX-STATE.request
	// (whose Status field carries the requested target state, not a
	// result — see §3's wire table and the SET-TRX-STATE naming note)
	Status Status

	// PLME-ED.confirm
	EnergyLevel uint8

	// PLME-GET.request/.confirm, PLME-SET.request/.confirm
	Attr  Attr
	Value uint32
}

// String dumps every field of m relevant to its Type, the Go equivalent of
// phy_service.c's print_msg/print_msg_payload/print_pib_value trace helpers.
func (m Msg) String() string {
	switch m.Type {
	case TypePDDataRequest, TypePDDataIndication:
		return fmt.Sprintf("%s psduLength=%d linkQuality=%d", m.Type, len(m.PSDU), m.LinkQuality)
	case TypePDDataConfirm, TypePLMECCAConfirm:
		return fmt.Sprintf("%s status=%s", m.Type, m.Status)
	case TypePLMEEDConfirm:
		return fmt.Sprintf("%s status=%s energyLevel=%d", m.Type, m.Status, m.EnergyLevel)
	case TypePLMEGetRequest:
		return fmt.Sprintf("%s attribute=%s", m.Type, m.Attr)
	case TypePLMEGetConfirm:
		return fmt.Sprintf("%s status=%s attribute=%s value=%d", m.Type, m.Status, m.Attr, m.Value)
	case TypePLMESetTRXStateRequest, TypePLMESetTRXStateConfirm:
		return fmt.Sprintf("%s status=%s", m.Type, m.Status)
	case TypePLMESetRequest:
		return fmt.Sprintf("%s attribute=%s value=%d", m.Type, m.Attr, m.Value)
	case TypePLMESetConfirm:
		return fmt.Sprintf("%s status=%s attribute=%s", m.Type, m.Status, m.Attr)
	default:
		return m.Type.String()
	}
}

// NewPDDataRequest builds a PD-DATA.request carrying psdu.
func NewPDDataRequest(psdu []byte) Msg {
	return Msg{Type: TypePDDataRequest, Length: uint8(3 + len(psdu)), PSDU: psdu}
}

// NewPDDataConfirm builds a PD-DATA.confirm.
func NewPDDataConfirm(status Status) Msg {
	return Msg{Type: TypePDDataConfirm, Length: 3, Status: status}
}

// NewPDDataIndication builds a PD-DATA.indication carrying a received PSDU
// and its link quality.
func NewPDDataIndication(psdu []byte, linkQuality uint8) Msg {
	return Msg{Type: TypePDDataIndication, Length: uint8(4 + len(psdu)), PSDU: psdu, LinkQuality: linkQuality}
}

// NewPLMECCARequest builds a PLME-CCA.request (empty body).
func NewPLMECCARequest() Msg {
	return Msg{Type: TypePLMECCARequest, Length: 2}
}

// NewPLMECCAConfirm builds a PLME-CCA.confirm.
func NewPLMECCAConfirm(status Status) Msg {
	return Msg{Type: TypePLMECCAConfirm, Length: 3, Status: status}
}

// NewPLMEEDRequest builds a PLME-ED.request (empty body).
func NewPLMEEDRequest() Msg {
	return Msg{Type: TypePLMEEDRequest, Length: 2}
}

// NewPLMEEDConfirm builds a PLME-ED.confirm.
func NewPLMEEDConfirm(status Status, energyLevel uint8) Msg {
	return Msg{Type: TypePLMEEDConfirm, Length: 4, Status: status, EnergyLevel: energyLevel}
}

// NewPLMEGetRequest builds a PLME-GET.request for attr.
func NewPLMEGetRequest(attr Attr) Msg {
	return Msg{Type: TypePLMEGetRequest, Length: 3, Attr: attr}
}

// NewPLMEGetConfirm builds a PLME-GET.confirm carrying attr's value. value
// is truncated to attr.Width() bytes on the wire by Serialize.
func NewPLMEGetConfirm(status Status, attr Attr, value uint32) Msg {
	return Msg{Type: TypePLMEGetConfirm, Length: uint8(4 + attr.Width()), Status: status, Attr: attr, Value: value}
}

// NewPLMESetTRXStateRequest builds a PLME-SET-TRX-STATE.request; state is
// the requested target TRX state, carried in the Status field per §3.
func NewPLMESetTRXStateRequest(state Status) Msg {
	return Msg{Type: TypePLMESetTRXStateRequest, Length: 3, Status: state}
}

// NewPLMESetTRXStateConfirm builds a PLME-SET-TRX-STATE.confirm.
func NewPLMESetTRXStateConfirm(status Status) Msg {
	return Msg{Type: TypePLMESetTRXStateConfirm, Length: 3, Status: status}
}

// NewPLMESetRequest builds a PLME-SET.request writing value to attr.
func NewPLMESetRequest(attr Attr, value uint32) Msg {
	return Msg{Type: TypePLMESetRequest, Length: uint8(3 + attr.Width()), Attr: attr, Value: value}
}

// NewPLMESetConfirm builds a PLME-SET.confirm.
func NewPLMESetConfirm(status Status, attr Attr) Msg {
	return Msg{Type: TypePLMESetConfirm, Length: 4, Status: status, Attr: attr}
}
