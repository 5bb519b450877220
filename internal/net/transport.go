package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"DraftBoard/internal/board"
)

const (
	// WSPath is where the hub accepts viewer connections.
	WSPath = "/ws"

	writeWait = 5 * time.Second
)

// Message is the JSON envelope sent to viewers.
type Message struct {
	Type  string       `json:"type"`
	Scene *board.Scene `json:"scene,omitempty"`
}

// Message types.
const (
	MsgScene = "scene"
	MsgClear = "clear"
)

type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla allows one writer at a time
}

func (p *peer) send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.write(data)
}

// write needs p.mu held.
func (p *peer) write(data []byte) error {
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans the latest scene out to every connected viewer. New viewers get
// the most recent scene as soon as they connect.
type Hub struct {
	peers    map[*peer]bool
	last     []byte
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewHub creates an empty hub. log may be nil.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		peers: make(map[*peer]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log.With("component", "hub"),
	}
}

// add registers p and returns the scene to replay with p.mu held, so no
// broadcast can reach p before the replay. The caller must unlock p.mu.
func (h *Hub) add(p *peer) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	p.mu.Lock()
	h.peers[p] = true
	h.log.Info("viewer connected", "addr", p.conn.RemoteAddr().String(), "viewers", len(h.peers))
	return h.last
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; !ok {
		return
	}
	delete(h.peers, p)
	p.conn.Close()
	h.log.Info("viewer disconnected", "addr", p.conn.RemoteAddr().String(), "viewers", len(h.peers))
}

// Len is the number of connected viewers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// ServeHTTP upgrades the request to a websocket and keeps the viewer
// registered until it disconnects. Viewers are read-only; anything they send
// is discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "err", err)
		return
	}
	p := &peer{conn: conn}
	if err := h.replay(p); err != nil {
		h.log.Warn("initial scene", "err", err)
		h.remove(p)
		return
	}
	defer h.remove(p)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// replay registers p and sends it the latest message, if any.
func (h *Hub) replay(p *peer) error {
	last := h.add(p)
	defer p.mu.Unlock()
	if last == nil {
		return nil
	}
	return p.write(last)
}

// Publish sends sc to every viewer and remembers it for late joiners.
func (h *Hub) Publish(sc board.Scene) error {
	return h.publish(Message{Type: MsgScene, Scene: &sc})
}

// Clear tells every viewer the drawing was cleared. Late joiners get the
// clear too, until the next scene.
func (h *Hub) Clear() error {
	return h.publish(Message{Type: MsgClear})
}

func (h *Hub) publish(m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", m.Type, err)
	}
	h.broadcast(data)
	return nil
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	h.last = data
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		if err := p.send(data); err != nil {
			h.log.Warn("send failed", "addr", p.conn.RemoteAddr().String(), "err", err)
			h.remove(p)
		}
	}
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "host closed"),
			time.Now().Add(writeWait))
		p.conn.Close()
		delete(h.peers, p)
	}
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(WSPath, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	h.log.Info("sharing scene", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
