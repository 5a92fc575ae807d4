// Package previewserver exposes a Recorder's encoded output over an
// HTTP/WebSocket endpoint: connect to /live and receive the chunks of
// every ring-buffer flush made after Run starts, each as a binary
// WebSocket message. Run broadcasts the bitstream headers once, to the
// clients connected at that moment; a client that connects later does
// not receive them.
package previewserver

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/five82/screencap/internal/recorder"
	"github.com/five82/screencap/internal/ringbuf"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Source is the subset of a Recorder the preview server needs.
type Source interface {
	Headers() []byte
	BlockUntilNextFlush() error
	DataBuffer() (recorder.OwnedGuard, error)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server fans out a recorder's headers and flushes to connected
// WebSocket clients.
type Server struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	srv *http.Server
}

// New builds a Server listening on addr. It does not start pumping
// flushes until Run is called.
func New(addr string) *Server {
	s := &Server{clients: make(map[*client]struct{})}
	mux := http.NewServeMux()
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// ListenAndServe starts the HTTP server, blocking until it stops.
func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Close shuts down the HTTP server and disconnects every client.
func (s *Server) Close() error {
	s.mu.Lock()
	for c := range s.clients {
		close(c.send)
	}
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()
	return s.srv.Close()
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("previewserver: upgrade error:", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 8)}
	s.register(c)

	go func() {
		defer conn.Close()
		for msg := range c.send {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				s.unregister(c)
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.unregister(c)
			return
		}
	}
}

func (s *Server) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Run broadcasts rec's headers once, then every newly flushed chunk's
// encoded bytes as they arrive, until rec reports an error (typically
// because it was closed).
func Run(rec Source, s *Server) {
	s.broadcast(rec.Headers())

	var lastSeenID uint64
	first := true

	for {
		if err := rec.BlockUntilNextFlush(); err != nil {
			return
		}
		guard, err := rec.DataBuffer()
		if err != nil {
			return
		}

		ring := guard.Ring()
		if first {
			_, lastSeenID = ring.IDBounds()
			first = false
		}
		ring.Iter(func(item ringbuf.Item[recorder.Metadata]) bool {
			if item.ID < lastSeenID {
				return true
			}
			s.broadcast(item.Data)
			lastSeenID = item.ID + 1
			return true
		})
		guard.Release()
	}
}
