package pcapng

import "fmt"

// parser states, mirroring the Contiki two-state machine in
// pcapng-line.c (PCAPNG_IDLE / PCAPNG_READ_BLOCK).
type state int

const (
	stateIdle state = iota
	stateReadBlock
)

// Parser is an incremental, byte-driven PCAPNG block parser. It holds no
// goroutine of its own; callers feed it bytes (one at a time via Feed, or
// in bulk via Write) as they arrive off the transport, and it invokes the
// configured handler once a recognized block is complete.
//
// A Parser is not safe for concurrent use; the spec's single-consumer
// byte-ingress model (§4.2, §5) assumes one reader goroutine drives it.
type Parser struct {
	bufSize int
	buf     []byte
	idx     int

	st           state
	blockType    BlockType
	totalLength  uint32

	onBlock func(Block)

	// Stats are soft-error counters, exposed for diagnostics; they never
	// cause Feed to return an error by themselves — framing problems are
	// handled locally per §7 and do not propagate.
	Stats ParserStats
}

// ParserStats counts soft framing errors the parser has silently recovered
// from, for observability (the spec has no generic error primitive to
// surface these on the wire, §7).
type ParserStats struct {
	UnknownBlockTypes  uint64
	MisalignedLengths  uint64
	TruncatedOverflows uint64
}

// NewParser constructs a Parser with the given block buffer capacity.
// bufSize must be a power of two and at least as large as the largest
// expected block (snaplen + header + padding + trailing length, §4.2).
// NewParser panics if bufSize is not a power of two or onBlock is nil, the
// same way tamago peripheral drivers panic on invalid configuration rather
// than silently misbehaving; a buffer smaller than a block is not detected
// here, such blocks are discarded as overflows.
func NewParser(bufSize int, onBlock func(Block)) *Parser {
	if bufSize <= 0 || bufSize&(bufSize-1) != 0 {
		panic("pcapng: buffer size must be a power of two")
	}
	if onBlock == nil {
		panic("pcapng: onBlock handler must not be nil")
	}

	return &Parser{
		bufSize: bufSize,
		buf:     make([]byte, bufSize),
		onBlock: onBlock,
	}
}

// Feed advances the parser state machine by one byte. It never returns an
// error for malformed input — framing errors are handled locally (discard,
// reset, continue, per §7) and only recorded in Stats.
func (p *Parser) Feed(c byte) {
	switch p.st {
	case stateIdle:
		p.feedIdle(c)
	case stateReadBlock:
		p.feedReadBlock(c)
	}
}

func (p *Parser) feedIdle(c byte) {
	// Accumulate into the block buffer, truncating silently once bufSize
	// is reached; the header is always within the first 8 bytes so this
	// only matters for pathologically small buffers.
	if p.idx < p.bufSize {
		p.buf[p.idx] = c
	}
	p.idx++

	switch p.idx {
	case 1:
		p.blockType = BlockType(c)
	case 2:
		p.blockType |= BlockType(c) << 8
	case 3:
		p.blockType |= BlockType(c) << 16
	case 4:
		p.blockType |= BlockType(c) << 24
	case 5:
		p.totalLength = uint32(c)
	case 6:
		p.totalLength |= uint32(c) << 8
	case 7:
		p.totalLength |= uint32(c) << 16
	case 8:
		p.totalLength |= uint32(c) << 24
		p.headerComplete()
	}
}

func (p *Parser) headerComplete() {
	if p.totalLength%4 != 0 {
		p.Stats.MisalignedLengths++
		p.resetToIdle()
		return
	}

	if !p.blockType.Valid() {
		p.Stats.UnknownBlockTypes++
		if p.totalLength <= uint32(p.idx) {
			p.resetToIdle()
			return
		}
		// Consume the rest of the declared length so the next block is
		// read from its boundary; feedReadBlock posts no event for it.
		p.st = stateReadBlock
		return
	}

	p.st = stateReadBlock
}

func (p *Parser) feedReadBlock(c byte) {
	// Open question (a): the reference Contiki variants disagreed on
	// bounds-check placement mid-block. This spec mandates uniform
	// "truncate payload, still consume declared length, then discard"
	// semantics: bytes beyond bufSize are dropped but idx still advances
	// to totalLength so the block boundary is tracked correctly.
	if p.idx < p.bufSize {
		p.buf[p.idx] = c
	}
	p.idx++

	if uint32(p.idx) < p.totalLength {
		return
	}

	switch {
	case !p.blockType.Valid():
		// unknown block type: consumed up to its declared length and
		// discarded without an event (counted in headerComplete).
	case p.idx <= p.bufSize:
		p.onBlock(Block{
			Type: p.blockType,
			Raw:  append([]byte(nil), p.buf[:p.idx]...),
		})
	default:
		// block overflowed the buffer and is discarded per the mandated
		// truncation semantics above — no event is posted for it.
		p.Stats.TruncatedOverflows++
	}

	p.resetToIdle()
}

func (p *Parser) resetToIdle() {
	p.st = stateIdle
	p.idx = 0
	p.blockType = 0
	p.totalLength = 0
}

// Write implements io.Writer, feeding every byte of buf through Feed. It
// never returns an error; n always equals len(buf).
func (p *Parser) Write(buf []byte) (n int, err error) {
	for _, c := range buf {
		p.Feed(c)
	}
	return len(buf), nil
}

// Idle reports whether the parser is between blocks, with indices zeroed
// — the state S6 requires after an unknown block type is discarded.
func (p *Parser) Idle() bool {
	return p.st == stateIdle && p.idx == 0
}

func (s state) String() string {
	switch s {
	case stateIdle:
		return "IDLE"
	case stateReadBlock:
		return "READ_BLOCK"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
