package phy

import "fmt"

// Deserialize decodes a PHY primitive from stream, returning the decoded
// Msg and the number of bytes consumed. It returns an error on an unknown
// type, an unknown attribute, or a body shorter than the primitive
// requires; per §7 the caller drops the primitive and synthesizes no
// confirm on error.
func Deserialize(stream []byte) (Msg, int, error) {
	if len(stream) < 2 {
		return Msg{}, 0, fmt.Errorf("phy: stream too short for header (%d bytes)", len(stream))
	}

	msg := Msg{
		Type:   MsgType(stream[0]),
		Length: stream[1],
	}
	body := stream[2:]

	switch msg.Type {
	case TypePDDataRequest:
		if len(body) < 1 {
			return Msg{}, 0, errShort(msg.Type, 1, len(body))
		}
		n := int(body[0])
		if n > MaxPSDU {
			return Msg{}, 0, fmt.Errorf("phy: psduLength %d exceeds aMaxPHYPacketSize", n)
		}
		if len(body) < 1+n {
			return Msg{}, 0, errShort(msg.Type, 1+n, len(body))
		}
		msg.PSDU = append([]byte(nil), body[1:1+n]...)
		return msg, 2 + 1 + n, nil

	case TypePDDataConfirm:
		if len(body) < 1 {
			return Msg{}, 0, errShort(msg.Type, 1, len(body))
		}
		msg.Status = Status(body[0])
		return msg, 3, nil

	case TypePDDataIndication:
		if len(body) < 2 {
			return Msg{}, 0, errShort(msg.Type, 2, len(body))
		}
		n := int(body[0])
		if n > MaxPSDU {
			return Msg{}, 0, fmt.Errorf("phy: psduLength %d exceeds aMaxPHYPacketSize", n)
		}
		if len(body) < 2+n {
			return Msg{}, 0, errShort(msg.Type, 2+n, len(body))
		}
		msg.LinkQuality = body[1]
		msg.PSDU = append([]byte(nil), body[2:2+n]...)
		return msg, 2 + 2 + n, nil

	case TypePLMECCARequest, TypePLMEEDRequest:
		return msg, 2, nil

	case TypePLMECCAConfirm:
		if len(body) < 1 {
			return Msg{}, 0, errShort(msg.Type, 1, len(body))
		}
		msg.Status = Status(body[0])
		return msg, 3, nil

	case TypePLMEEDConfirm:
		if len(body) < 2 {
			return Msg{}, 0, errShort(msg.Type, 2, len(body))
		}
		msg.Status = Status(body[0])
		msg.EnergyLevel = body[1]
		return msg, 4, nil

	case TypePLMEGetRequest:
		if len(body) < 1 {
			return Msg{}, 0, errShort(msg.Type, 1, len(body))
		}
		attr := Attr(body[0])
		if !attr.Valid() {
			return Msg{}, 0, fmt.Errorf("phy: unknown attribute %d in PLME-GET.request", body[0])
		}
		msg.Attr = attr
		return msg, 3, nil

	case TypePLMEGetConfirm:
		if len(body) < 2 {
			return Msg{}, 0, errShort(msg.Type, 2, len(body))
		}
		msg.Status = Status(body[0])
		attr := Attr(body[1])
		if !attr.Valid() {
			return Msg{}, 0, fmt.Errorf("phy: unknown attribute %d in PLME-GET.confirm", body[1])
		}
		msg.Attr = attr
		w := attr.Width()
		if len(body) < 2+w {
			return Msg{}, 0, errShort(msg.Type, 2+w, len(body))
		}
		msg.Value = decodeValue(body[2 : 2+w])
		return msg, 2 + 2 + w, nil

	case TypePLMESetTRXStateRequest:
		if len(body) < 1 {
			return Msg{}, 0, errShort(msg.Type, 1, len(body))
		}
		msg.Status = Status(body[0])
		return msg, 3, nil

	case TypePLMESetTRXStateConfirm:
		if len(body) < 1 {
			return Msg{}, 0, errShort(msg.Type, 1, len(body))
		}
		msg.Status = Status(body[0])
		return msg, 3, nil

	case TypePLMESetRequest:
		if len(body) < 1 {
			return Msg{}, 0, errShort(msg.Type, 1, len(body))
		}
		attr := Attr(body[0])
		if !attr.Valid() {
			return Msg{}, 0, fmt.Errorf("phy: unknown attribute %d in PLME-SET.request", body[0])
		}
		msg.Attr = attr
		w := attr.Width()
		if len(body) < 1+w {
			return Msg{}, 0, errShort(msg.Type, 1+w, len(body))
		}
		msg.Value = decodeValue(body[1 : 1+w])
		return msg, 2 + 1 + w, nil

	case TypePLMESetConfirm:
		if len(body) < 2 {
			return Msg{}, 0, errShort(msg.Type, 2, len(body))
		}
		msg.Status = Status(body[0])
		attr := Attr(body[1])
		if !attr.Valid() {
			return Msg{}, 0, fmt.Errorf("phy: unknown attribute %d in PLME-SET.confirm", body[1])
		}
		msg.Attr = attr
		return msg, 4, nil

	default:
		return Msg{}, 0, fmt.Errorf("phy: unknown message type %d", stream[0])
	}
}

func errShort(t MsgType, want, got int) error {
	return fmt.Errorf("phy: %s body truncated: need %d bytes, have %d", t, want, got)
}

func decodeValue(b []byte) uint32 {
	switch len(b) {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(le16(b))
	case 4:
		return le32(b)
	default:
		panic("phy: unsupported attribute value width")
	}
}

func encodeValue(b []byte, v uint32) {
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		putLE16(b, uint16(v))
	case 4:
		putLE32(b, v)
	default:
		panic("phy: unsupported attribute value width")
	}
}

// Serialize encodes msg into the wire format described by §3 and returns
// the encoded bytes. Serialize panics if msg carries a PSDU
// longer than MaxPSDU; the caller is responsible for enforcing that bound
// before constructing a Msg (§4.3: "the caller guarantees psduLength ≤
// aMaxPHYPacketSize").
func Serialize(msg Msg) ([]byte, error) {
	if len(msg.PSDU) > MaxPSDU {
		panic("phy: psdu exceeds aMaxPHYPacketSize")
	}

	switch msg.Type {
	case TypePDDataRequest:
		buf := make([]byte, 3+len(msg.PSDU))
		buf[0], buf[1] = byte(msg.Type), byte(3+len(msg.PSDU))
		buf[2] = byte(len(msg.PSDU))
		copy(buf[3:], msg.PSDU)
		return buf, nil

	case TypePDDataConfirm:
		return []byte{byte(msg.Type), 3, byte(msg.Status)}, nil

	case TypePDDataIndication:
		buf := make([]byte, 4+len(msg.PSDU))
		buf[0], buf[1] = byte(msg.Type), byte(4+len(msg.PSDU))
		buf[2] = byte(len(msg.PSDU))
		buf[3] = msg.LinkQuality
		copy(buf[4:], msg.PSDU)
		return buf, nil

	case TypePLMECCARequest, TypePLMEEDRequest:
		return []byte{byte(msg.Type), 2}, nil

	case TypePLMECCAConfirm:
		return []byte{byte(msg.Type), 3, byte(msg.Status)}, nil

	case TypePLMEEDConfirm:
		return []byte{byte(msg.Type), 4, byte(msg.Status), msg.EnergyLevel}, nil

	case TypePLMEGetRequest:
		return []byte{byte(msg.Type), 3, byte(msg.Attr)}, nil

	case TypePLMEGetConfirm:
		w := msg.Attr.Width()
		buf := make([]byte, 4+w)
		buf[0], buf[1] = byte(msg.Type), byte(4+w)
		buf[2] = byte(msg.Status)
		buf[3] = byte(msg.Attr)
		encodeValue(buf[4:4+w], msg.Value)
		return buf, nil

	case TypePLMESetTRXStateRequest:
		return []byte{byte(msg.Type), 3, byte(msg.Status)}, nil

	case TypePLMESetTRXStateConfirm:
		return []byte{byte(msg.Type), 3, byte(msg.Status)}, nil

	case TypePLMESetRequest:
		w := msg.Attr.Width()
		buf := make([]byte, 3+w)
		buf[0], buf[1] = byte(msg.Type), byte(3+w)
		buf[2] = byte(msg.Attr)
		encodeValue(buf[3:3+w], msg.Value)
		return buf, nil

	case TypePLMESetConfirm:
		return []byte{byte(msg.Type), 4, byte(msg.Status), byte(msg.Attr)}, nil

	default:
		return nil, fmt.Errorf("phy: unknown message type %d", msg.Type)
	}
}
