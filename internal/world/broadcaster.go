package world

import (
	"log"

	"github.com/Scrimzay/breadducks/internal/protocol"
)

// Sink is the outbound side of one connection. Sends must not block: the tick loop
// calls them and treats a failed send as dropped.
type Sink interface {
	SendNotice(n protocol.Notice) error
	SendSync(data []byte) error
}

// Broadcaster is the routing table from participant id to its sink.
// Only the world goroutine touches it, so it has no lock.
type Broadcaster struct {
	sinks map[uint32]Sink
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		sinks: make(map[uint32]Sink),
	}
}

func (b *Broadcaster) Register(id uint32, sink Sink) {
	b.sinks[id] = sink
}

// Unregister reports whether id was registered.
func (b *Broadcaster) Unregister(id uint32) bool {
	if _, ok := b.sinks[id]; !ok {
		return false
	}
	delete(b.sinks, id)
	return true
}

func (b *Broadcaster) Has(id uint32) bool {
	_, ok := b.sinks[id]
	return ok
}

func (b *Broadcaster) Len() int {
	return len(b.sinks)
}

func (b *Broadcaster) SendTo(id uint32, n protocol.Notice) {
	sink, ok := b.sinks[id]
	if !ok {
		return
	}
	if err := sink.SendNotice(n); err != nil {
		log.Printf("Notice send error for duck %d: %v", id, err)
	}
}

// Cast sends n to every id except exclude. Ids without a sink are skipped.
func (b *Broadcaster) Cast(ids []uint32, n protocol.Notice, exclude uint32) {
	for _, id := range ids {
		if id == exclude {
			continue
		}
		b.SendTo(id, n)
	}
}

// CastSync fans one encoded sync packet out; failures are ignored, the next tick resends state.
func (b *Broadcaster) CastSync(ids []uint32, data []byte, exclude uint32) {
	for _, id := range ids {
		if id == exclude {
			continue
		}
		if sink, ok := b.sinks[id]; ok {
			_ = sink.SendSync(data)
		}
	}
}
