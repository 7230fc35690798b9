package pcapng

import "io"

// WriteSHB writes a Section Header Block to w, §6 "Wire frames
// (authoritative)": 28 octets, section length undefined.
func WriteSHB(w io.Writer) error {
	total := blockHeaderLen + shbBodyLen + blockTrailerLen // 28

	buf := make([]byte, total)
	putLE32(buf[0:4], uint32(BlockSHB))
	putLE32(buf[4:8], uint32(total))
	putLE32(buf[8:12], Magic)
	putLE16(buf[12:14], VersionMajor)
	putLE16(buf[14:16], VersionMinor)
	// section_length:i64=-1, written as two all-ones 32-bit halves.
	putLE32(buf[16:20], 0xFFFFFFFF)
	putLE32(buf[20:24], 0xFFFFFFFF)
	putLE32(buf[24:28], uint32(total))

	_, err := w.Write(buf)
	return err
}

// WriteIDB writes an Interface Description Block to w.
func WriteIDB(w io.Writer, linkType uint16, snapLen uint32) error {
	total := blockHeaderLen + idbBodyLen + blockTrailerLen // 20

	buf := make([]byte, total)
	putLE32(buf[0:4], uint32(BlockIDB))
	putLE32(buf[4:8], uint32(total))
	putLE16(buf[8:10], linkType)
	putLE16(buf[10:12], 0) // reserved
	putLE32(buf[12:16], snapLen)
	putLE32(buf[16:20], uint32(total))

	_, err := w.Write(buf)
	return err
}

// padLen returns the number of zero bytes needed to round length up to a
// 4-byte boundary, per §4.2 "pad = (4 - (length % 4)) % 4".
func padLen(length int) int {
	return (4 - (length % 4)) % 4
}

// WriteEPB writes an Enhanced Packet Block carrying data on the given
// interface and timestamp. captured_len and packet_len are both set to
// len(data); this codec never truncates a capture (the caller is
// responsible for keeping data within the interface's declared snaplen).
func WriteEPB(w io.Writer, iface uint32, ts Timestamp, data []byte) error {
	pad := padLen(len(data))
	total := blockHeaderLen + epbFixedLen + len(data) + pad + blockTrailerLen

	buf := make([]byte, total)
	putLE32(buf[0:4], uint32(BlockEPB))
	putLE32(buf[4:8], uint32(total))

	body := buf[blockHeaderLen:]
	putLE32(body[0:4], iface)
	putLE32(body[4:8], ts.Sec)
	putLE32(body[8:12], ts.Usec)
	putLE32(body[12:16], uint32(len(data)))
	putLE32(body[16:20], uint32(len(data)))
	copy(body[20:20+len(data)], data)
	// padding bytes are already zero from make([]byte, ...)

	putLE32(buf[total-4:total], uint32(total))

	_, err := w.Write(buf)
	return err
}

// EPBLen returns the total wire length of an Enhanced Packet Block that
// would carry dataLen bytes of payload, useful for sizing transmit
// buffers ahead of time.
func EPBLen(dataLen int) int {
	return blockHeaderLen + epbFixedLen + dataLen + padLen(dataLen) + blockTrailerLen
}
