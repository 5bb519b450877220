package net

import (
	"context"

	"DraftBoard/internal/board"
)

// Publisher decouples the UI goroutine from network writes. Offer and Clear
// never block; a message not yet sent is replaced by the next one.
type Publisher struct {
	ch chan Message
}

// NewPublisher starts forwarding offered messages to hub until ctx is done.
func NewPublisher(ctx context.Context, hub *Hub) *Publisher {
	p := &Publisher{ch: make(chan Message, 1)}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-p.ch:
				if err := hub.publish(m); err != nil {
					hub.log.Warn("publish", "type", m.Type, "err", err)
				}
			}
		}
	}()
	return p
}

// Offer queues sc. It must be called from a single goroutine, like Clear.
func (p *Publisher) Offer(sc board.Scene) {
	p.offer(Message{Type: MsgScene, Scene: &sc})
}

// Clear queues a clear for every viewer.
func (p *Publisher) Clear() {
	p.offer(Message{Type: MsgClear})
}

func (p *Publisher) offer(m Message) {
	select {
	case <-p.ch:
	default:
	}
	p.ch <- m
}
