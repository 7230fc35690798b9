// Package pcapng implements a PCAPNG block codec used as a live framing
// envelope over a byte-oriented serial transport, rather than as file
// storage.
//
// A stream is a sequence of length-prefixed blocks:
//
//	block_type:u32 | block_total_length:u32 | body[...] | block_total_length:u32
//
// block_total_length counts every octet of the block, including both
// length fields, and is always a multiple of four. Only Section Header,
// Interface Description, and Enhanced Packet Blocks are produced and
// recognized; all other block types are reserved and ignored on input.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package pcapng

import "fmt"

// BlockType identifies a PCAPNG block.
type BlockType uint32

// Recognized block types (others are reserved, see BlockType.Valid).
const (
	BlockSHB BlockType = 0x0A0D0D0A
	BlockIDB BlockType = 0x00000001
	BlockEPB BlockType = 0x00000006
)

func (t BlockType) String() string {
	switch t {
	case BlockSHB:
		return "SHB"
	case BlockIDB:
		return "IDB"
	case BlockEPB:
		return "EPB"
	default:
		return fmt.Sprintf("0x%08x", uint32(t))
	}
}

// Valid reports whether t is one of the block types this codec handles.
// SPB/NRB/ISB/CB are reserved and, per §3, ignored if encountered.
func (t BlockType) Valid() bool {
	switch t {
	case BlockSHB, BlockIDB, BlockEPB:
		return true
	default:
		return false
	}
}

// PCAPNG-wide constants, §3.
const (
	Magic               uint32 = 0x1A2B3C4D
	VersionMajor        uint16 = 1
	VersionMinor        uint16 = 0
	SectionLenUndefined int64  = -1

	blockHeaderLen  = 8 // block_type + block_total_length
	blockTrailerLen = 4 // trailing block_total_length
	shbBodyLen      = 16
	idbBodyLen      = 8
	epbFixedLen     = 20 // interface_id + ts_high + ts_low + captured_len + packet_len
)

// Link types declared by the two startup interfaces.
const (
	LinkTypePHY   uint16 = 147 // DLT_IEEE802_15_4_PHY
	LinkTypeNoFCS uint16 = 230 // DLT_IEEE802_15_4_NO_FCS
)

// Timestamp is the PCAPNG EPB timestamp, non-standard split per §3: the
// core interprets the two halves as whole seconds and microseconds rather
// than the usual single 64-bit tick count. This divergence from the PCAPNG
// norm is intentional and MUST be preserved for interop with the host
// tool; do not "fix" it into a real 64-bit timestamp without also changing
// the host side.
type Timestamp struct {
	Sec  uint32
	Usec uint32
}

// Block is a fully-received PCAPNG block handed to a consumer. Raw holds
// the entire wire block (block type through trailing length); callers
// that need the body skip blockHeaderLen bytes from the front and
// blockTrailerLen from the back.
type Block struct {
	Type BlockType
	Raw  []byte
}

// Body returns the block body, excluding both length fields.
func (b Block) Body() []byte {
	if len(b.Raw) < blockHeaderLen+blockTrailerLen {
		return nil
	}
	return b.Raw[blockHeaderLen : len(b.Raw)-blockTrailerLen]
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

// SectionHeader is the decoded body of a Section Header Block.
type SectionHeader struct {
	Magic         uint32
	VersionMajor  uint16
	VersionMinor  uint16
	SectionLength int64
}

// ReadSectionHeader decodes the body of block (a Block of type BlockSHB).
func ReadSectionHeader(body []byte) (SectionHeader, error) {
	if len(body) < shbBodyLen {
		return SectionHeader{}, fmt.Errorf("pcapng: short SHB body (%d bytes)", len(body))
	}
	return SectionHeader{
		Magic:         le32(body[0:4]),
		VersionMajor:  le16(body[4:6]),
		VersionMinor:  le16(body[6:8]),
		SectionLength: int64(le32(body[8:12])) | int64(le32(body[12:16]))<<32,
	}, nil
}

// InterfaceDescription is the decoded body of an Interface Description Block.
type InterfaceDescription struct {
	LinkType uint16
	Reserved uint16
	SnapLen  uint32
}

// ReadInterfaceDescription decodes the body of a Block of type BlockIDB.
func ReadInterfaceDescription(body []byte) (InterfaceDescription, error) {
	if len(body) < idbBodyLen {
		return InterfaceDescription{}, fmt.Errorf("pcapng: short IDB body (%d bytes)", len(body))
	}
	return InterfaceDescription{
		LinkType: le16(body[0:2]),
		Reserved: le16(body[2:4]),
		SnapLen:  le32(body[4:8]),
	}, nil
}

// EnhancedPacket is the decoded fixed header of an Enhanced Packet Block;
// Data is the captured payload (captured_len bytes, no padding).
type EnhancedPacket struct {
	InterfaceID uint32
	Timestamp   Timestamp
	CapturedLen uint32
	PacketLen   uint32
	Data        []byte
}

// ReadEnhancedPacket decodes the body of a Block of type BlockEPB.
func ReadEnhancedPacket(body []byte) (EnhancedPacket, error) {
	if len(body) < epbFixedLen {
		return EnhancedPacket{}, fmt.Errorf("pcapng: short EPB body (%d bytes)", len(body))
	}

	p := EnhancedPacket{
		InterfaceID: le32(body[0:4]),
		Timestamp: Timestamp{
			Sec:  le32(body[4:8]),
			Usec: le32(body[8:12]),
		},
		CapturedLen: le32(body[12:16]),
		PacketLen:   le32(body[16:20]),
	}

	if uint32(len(body)-epbFixedLen) < p.CapturedLen {
		return EnhancedPacket{}, fmt.Errorf("pcapng: EPB captured_len %d exceeds body", p.CapturedLen)
	}
	p.Data = body[epbFixedLen : epbFixedLen+int(p.CapturedLen)]

	return p, nil
}
