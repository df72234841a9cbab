package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tradinglab/marketsim/internal/model"
)

const (
	// writeWait is the deadline for one outgoing frame.
	writeWait = 5 * time.Second

	// clientBuffer is the per-client send queue. A client that cannot keep
	// up is disconnected rather than backing up the hub.
	clientBuffer = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The lab runs on a trusted classroom network.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub broadcasts market snapshots to all connected WebSocket clients.
type Hub struct {
	logger *slog.Logger

	sub       <-chan model.Snapshot
	cancelSub func()

	mu      sync.Mutex
	clients map[*client]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub over an existing feed subscription.
func NewHub(sub <-chan model.Snapshot, cancelSub func(), logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:    logger,
		sub:       sub,
		cancelSub: cancelSub,
		clients:   make(map[*client]struct{}),
	}
}

// Start begins forwarding snapshots to clients.
func (h *Hub) Start(ctx context.Context) error {
	h.ctx, h.cancel = context.WithCancel(ctx)

	h.wg.Add(1)
	go h.run()

	h.logger.Info("websocket hub started")
	return nil
}

// Stop disconnects all clients and releases the feed subscription.
func (h *Hub) Stop(ctx context.Context) error {
	if h.cancel != nil {
		h.cancel()
	}

	// Closing connections unblocks the per-client read loops.
	h.mu.Lock()
	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	h.cancelSub()
	h.logger.Info("websocket hub stopped")
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleWS upgrades one HTTP request to a WebSocket subscription.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("websocket client connected", "remote", conn.RemoteAddr())

	h.wg.Add(2)
	go h.writeLoop(c)
	go h.readLoop(c)
}

// run fans snapshots out to every client queue.
func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			return
		case snap, ok := <-h.sub:
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				h.logger.Error("snapshot marshal failed", "error", err)
				continue
			}
			h.broadcast(data)
		}
	}
}

// broadcast enqueues a frame for every client, dropping clients that have
// stalled.
func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping stalled websocket client", "remote", c.conn.RemoteAddr())
			close(c.send)
			c.conn.Close()
			delete(h.clients, c)
		}
	}
}

// writeLoop pushes queued frames to one client.
func (h *Hub) writeLoop(c *client) {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readLoop drains client frames (none are expected) and detects closes.
func (h *Hub) readLoop(c *client) {
	defer h.wg.Done()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.conn.Close()
	}
}
