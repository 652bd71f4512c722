package wsfeed

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
)

// Hub fans snapshot documents out to websocket clients. A client that
// cannot keep up is dropped rather than slowing the hub down.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	latest  []byte
	clients int

	dropped int64
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Publish queues payload for every client. It never blocks: when the queue is
// full the frame is skipped, the next one supersedes it anyway.
func (h *Hub) Publish(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients
}

// Dropped returns how many frames were skipped because the queue was full.
func (h *Hub) Dropped() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Latest returns the last published payload.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Run is the hub loop. It returns when ctx is done, closing every client.
// Run must be called once.
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*client]struct{})
	defer func() {
		for c := range clients {
			close(c.send)
		}
		close(h.done)
	}()

	setCount := func() {
		h.mu.Lock()
		h.clients = len(clients)
		h.mu.Unlock()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			clients[c] = struct{}{}
			setCount()
			// send the current state on connect
			if latest := h.Latest(); latest != nil {
				c.send <- latest
			}

		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
				setCount()
			}

		case msg := <-h.broadcast:
			h.mu.Lock()
			h.latest = msg
			h.mu.Unlock()

			for c := range clients {
				select {
				case c.send <- msg:
				default:
					log.Warn().Str("remote", c.remote).Msg("feed client too slow, disconnecting")
					delete(clients, c)
					close(c.send)
				}
			}
			setCount()
		}
	}
}

var _ port.Publisher = (*Hub)(nil)
