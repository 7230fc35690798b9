package phy

// PIB is a snapshot of the PHY Information Base, §3's "process-wide
// state... mirroring the radio driver's authoritative parameters." Unlike
// the dispatcher's live view (always read through the radio driver, never
// cached, per the invariant in §3), PIB is a plain value type used to hand
// a consistent set of attributes to a caller in one shot (diagnostics,
// tests).
type PIB struct {
	CurrentChannel    uint8
	ChannelsSupported uint32
	TransmitPower     uint8
	CCAMode           uint8
	CurrentPage       uint8
	MaxFrameDuration  uint16
	SHRDuration       uint8
	SymbolsPerOctet   uint8
}

// Value returns attr's current value out of p, encoded the same way
// PLME-GET.confirm would carry it.
func (p PIB) Value(attr Attr) uint32 {
	switch attr {
	case AttrCurrentChannel:
		return uint32(p.CurrentChannel)
	case AttrChannelsSupported:
		return p.ChannelsSupported
	case AttrTransmitPower:
		return uint32(p.TransmitPower)
	case AttrCCAMode:
		return uint32(p.CCAMode)
	case AttrCurrentPage:
		return uint32(p.CurrentPage)
	case AttrMaxFrameDuration:
		return uint32(p.MaxFrameDuration)
	case AttrSHRDuration:
		return uint32(p.SHRDuration)
	case AttrSymbolsPerOctet:
		return uint32(p.SymbolsPerOctet)
	default:
		panic("phy: value of unknown attribute")
	}
}
