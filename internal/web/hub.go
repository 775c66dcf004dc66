package web

import "sync"

// Hub tracks active websocket connections for the streaming diagnostics
// endpoint. Unlike a chat server's Hub, connections never broadcast to
// each other — each client only ever receives recompiles of its own
// document — but registration still goes through the hub, which tracks
// each client and closes its send channel when it unregisters.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]bool
	register chan *wsClient
	unregister chan *wsClient
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient, 64),
		unregister: make(chan *wsClient, 64),
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		}
	}
}
