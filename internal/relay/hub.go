package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialverse/pkg/logger"
	"github.com/d60-Lab/socialverse/pkg/metrics"
)

// Publisher forwards locally relayed frames to other instances.
type Publisher interface {
	Publish(msg []byte)
}

// Hub owns the client set; only the Run goroutine touches it.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	sendBuffer int
	bridge     Publisher
	upgrader   websocket.Upgrader
	count      atomic.Int64
}

// NewHub creates a hub. allowedOrigin "*" or "" accepts any Origin header.
func NewHub(sendBuffer int, allowedOrigin string) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		sendBuffer: sendBuffer,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}
	return h
}

// AttachBridge must be called before Run.
func (h *Hub) AttachBridge(p Publisher) { h.bridge = p }

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.setCount()
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.setCount()
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// 慢客户端直接断开，不阻塞其他人
					delete(h.clients, c)
					close(c.send)
					metrics.RelayDropped.WithLabelValues("client").Inc()
					logger.Warn("relay client too slow, disconnecting", zap.String("remote", c.remote))
				}
			}
			h.setCount()
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.setCount()
			return
		}
	}
}

func (h *Hub) setCount() {
	n := int64(len(h.clients))
	h.count.Store(n)
	metrics.RelayClients.Set(float64(n))
}

// ClientCount is a sampled value.
func (h *Hub) ClientCount() int { return int(h.count.Load()) }

// Broadcast sends msg to local clients only. Used for frames arriving from the bridge.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Relay broadcasts locally and forwards to other instances.
func (h *Hub) Relay(msg []byte) {
	metrics.RelayEvents.WithLabelValues("local").Inc()
	h.Broadcast(msg)
	if h.bridge != nil {
		h.bridge.Publish(msg)
	}
}

// handle processes one inbound frame from a client.
func (h *Hub) handle(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Debug("relay: bad frame", zap.String("remote", c.remote), zap.Error(err))
		return
	}
	switch env.Event {
	case EventNewComment:
		out, err := json.Marshal(Envelope{Event: EventCommentAdded, Data: env.Data})
		if err != nil {
			logger.Debug("relay: bad payload", zap.String("remote", c.remote), zap.Error(err))
			return
		}
		h.Relay(out)
	default:
		logger.Debug("relay: ignoring event", zap.String("event", env.Event))
	}
}

// ServeWS upgrades the request and attaches a new client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logger.Debug("relay: upgrade failed", zap.Error(err))
		return
	}
	c := newClient(h, conn, r.RemoteAddr)
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	logger.Info("New client connected", zap.String("remote", c.remote))
	go c.writePump()
	go c.readPump()
}
