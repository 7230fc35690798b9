package pcapng

import "sync"

// Bus fans decoded blocks out to consumers, mirroring §4.2's consumer
// registration contract: a single consumer task may register exclusively;
// until one does, every decoded block is broadcast to all subscribers
// (the Contiki default of PROCESS_BROADCAST before a consumer registers).
type Bus struct {
	mu         sync.Mutex
	subscribed []chan Block
	exclusive  chan Block
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel that receives every block broadcast before
// any consumer registers exclusively via RegisterConsumer. The returned
// channel has a small buffer so a slow subscriber does not stall Publish;
// callers that need back-pressure should prefer RegisterConsumer.
func (b *Bus) Subscribe() <-chan Block {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Block, 16)
	b.subscribed = append(b.subscribed, ch)
	return ch
}

// RegisterConsumer marks ch as the exclusive consumer of future blocks;
// once registered, Publish delivers only to ch and stops broadcasting to
// Subscribe'd channels. It returns false if a consumer is already
// registered (first registration wins, per §4.2).
func (b *Bus) RegisterConsumer(ch chan Block) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.exclusive != nil {
		return false
	}
	b.exclusive = ch
	return true
}

// Publish delivers blk to the registered consumer if one exists, otherwise
// broadcasts it to every subscriber. Sends are non-blocking; a full
// channel drops the block rather than stalling the parser goroutine.
func (b *Bus) Publish(blk Block) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.exclusive != nil {
		select {
		case b.exclusive <- blk:
		default:
		}
		return
	}

	for _, ch := range b.subscribed {
		select {
		case ch <- blk:
		default:
		}
	}
}

// Handler returns an onBlock callback suitable for NewParser that
// publishes every completed block on the bus.
func (b *Bus) Handler() func(Block) {
	return b.Publish
}
