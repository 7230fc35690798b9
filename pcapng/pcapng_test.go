package pcapng

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteSHB(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSHB(&buf))

	want := []byte{
		0x0A, 0x0D, 0x0D, 0x0A,
		0x1C, 0x00, 0x00, 0x00,
		0x4D, 0x3C, 0x2B, 0x1A,
		0x01, 0x00,
		0x00, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0x1C, 0x00, 0x00, 0x00,
	}
	require.Equal(t, want, buf.Bytes())
	require.Len(t, buf.Bytes(), 28)
}

func TestWriteIDB(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIDB(&buf, LinkTypePHY, 128))

	want := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x14, 0x00, 0x00, 0x00,
		0x93, 0x00,
		0x00, 0x00,
		0x80, 0x00, 0x00, 0x00,
		0x14, 0x00, 0x00, 0x00,
	}
	require.Equal(t, want, buf.Bytes())
}

func TestWriteIDBNoFCS(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIDB(&buf, LinkTypeNoFCS, 128))
	require.Equal(t, byte(0xE6), buf.Bytes()[8])
	require.Equal(t, byte(0x00), buf.Bytes()[9])
}

func TestWriteEPBPadding(t *testing.T) {
	for _, tc := range []struct {
		dataLen int
		pad     int
	}{
		{0, 0}, {1, 3}, {2, 2}, {3, 1}, {4, 0}, {5, 3},
	} {
		data := make([]byte, tc.dataLen)
		for i := range data {
			data[i] = 0xAA
		}

		var buf bytes.Buffer
		require.NoError(t, WriteEPB(&buf, 0, Timestamp{Sec: 1, Usec: 2}, data))

		raw := buf.Bytes()
		totalLen := le32(raw[4:8])
		require.Equal(t, uint32(len(raw)), totalLen)
		require.Zero(t, totalLen%4)

		epb, err := ReadEnhancedPacket(Block{Type: BlockEPB, Raw: raw}.Body())
		require.NoError(t, err)
		require.Equal(t, data, epb.Data)

		padStart := blockHeaderLen + epbFixedLen + tc.dataLen
		padBytes := raw[padStart : padStart+tc.pad]
		for _, b := range padBytes {
			require.Zero(t, b)
		}
	}
}

// S1 from spec.md §8: the first 76 bytes on the wire after init.
func TestCapturePreamble(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSHB(&buf))
	require.NoError(t, WriteIDB(&buf, LinkTypePHY, 128))
	require.NoError(t, WriteIDB(&buf, LinkTypeNoFCS, 128))

	require.Len(t, buf.Bytes(), 76)
	require.Equal(t, []byte{0x0A, 0x0D, 0x0D, 0x0A, 0x1C, 0x00, 0x00, 0x00}, buf.Bytes()[:8])
}

func TestParserRoundTrip(t *testing.T) {
	var blocks []Block
	p := NewParser(256, func(b Block) {
		blocks = append(blocks, b)
	})

	var wire bytes.Buffer
	require.NoError(t, WriteSHB(&wire))
	require.NoError(t, WriteIDB(&wire, LinkTypePHY, 128))
	require.NoError(t, WriteEPB(&wire, 0, Timestamp{Sec: 7, Usec: 42}, []byte{1, 2, 3}))

	_, err := p.Write(wire.Bytes())
	require.NoError(t, err)

	require.Len(t, blocks, 3)
	require.Equal(t, BlockSHB, blocks[0].Type)
	require.Equal(t, BlockIDB, blocks[1].Type)
	require.Equal(t, BlockEPB, blocks[2].Type)
	require.True(t, p.Idle())

	epb, err := ReadEnhancedPacket(blocks[2].Body())
	require.NoError(t, err)
	require.Equal(t, uint32(7), epb.Timestamp.Sec)
	require.Equal(t, uint32(42), epb.Timestamp.Usec)
	require.Equal(t, []byte{1, 2, 3}, epb.Data)
}

// S6 from spec.md §8: an unknown block type produces no event and leaves
// the parser idle, ready for subsequent valid blocks.
func TestParserUnknownBlockType(t *testing.T) {
	var blocks []Block
	p := NewParser(256, func(b Block) {
		blocks = append(blocks, b)
	})

	unknown := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x0C, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, _ = p.Write(unknown)

	require.Empty(t, blocks)
	require.True(t, p.Idle())
	require.Equal(t, uint64(1), p.Stats.UnknownBlockTypes)

	// subsequent valid block still parses correctly
	var wire bytes.Buffer
	require.NoError(t, WriteSHB(&wire))
	_, _ = p.Write(wire.Bytes())
	require.Len(t, blocks, 1)
	require.Equal(t, BlockSHB, blocks[0].Type)
}

func TestParserMisalignedLength(t *testing.T) {
	var blocks []Block
	p := NewParser(256, func(b Block) { blocks = append(blocks, b) })

	// EPB type with a total_length not a multiple of 4.
	bad := make([]byte, 8)
	putLE32(bad[0:4], uint32(BlockEPB))
	putLE32(bad[4:8], 21)
	_, _ = p.Write(bad)

	require.Empty(t, blocks)
	require.Equal(t, uint64(1), p.Stats.MisalignedLengths)
	require.True(t, p.Idle())
}

func TestParserOverflowTruncates(t *testing.T) {
	var blocks []Block
	p := NewParser(16, func(b Block) { blocks = append(blocks, b) })

	var wire bytes.Buffer
	require.NoError(t, WriteEPB(&wire, 0, Timestamp{}, bytes.Repeat([]byte{1}, 32)))
	_, _ = p.Write(wire.Bytes())

	// block overflowed the 16-byte buffer: discarded, no event, but the
	// parser must still have consumed exactly totalLength bytes and be
	// idle afterwards (uniform truncate-but-still-consume semantics).
	require.Empty(t, blocks)
	require.True(t, p.Idle())
	require.Equal(t, uint64(1), p.Stats.TruncatedOverflows)
}

func TestBusExclusiveRegistration(t *testing.T) {
	bus := NewBus()
	broadcast := bus.Subscribe()

	ch := make(chan Block, 4)
	require.True(t, bus.RegisterConsumer(ch))
	require.False(t, bus.RegisterConsumer(make(chan Block, 1)))

	bus.Publish(Block{Type: BlockSHB})

	select {
	case <-ch:
	default:
		t.Fatal("exclusive consumer did not receive block")
	}
	select {
	case <-broadcast:
		t.Fatal("broadcast subscriber received block after exclusive registration")
	default:
	}
}

func TestBusBroadcastBeforeRegistration(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Publish(Block{Type: BlockIDB})

	for _, ch := range []<-chan Block{a, b} {
		select {
		case blk := <-ch:
			require.Equal(t, BlockIDB, blk.Type)
		default:
			t.Fatal("subscriber did not receive broadcast block")
		}
	}
}
