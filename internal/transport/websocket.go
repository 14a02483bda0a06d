package transport

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local development tool
	},
}

// WebSocketServer broadcasts HRV data-point payloads to WebSocket clients.
// Payloads arrive pre-encoded; the server is format-agnostic.
type WebSocketServer struct {
	host    string
	port    int
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	server  *http.Server
}

// NewWebSocketServer creates a new WebSocket broadcast server.
func NewWebSocketServer(host string, port int) *WebSocketServer {
	return &WebSocketServer{
		host:    host,
		port:    port,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Start serves until ctx is cancelled.
func (s *WebSocketServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/hrv", s.handleWebSocket)
	mux.HandleFunc("/", s.handleRoot)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("WebSocket server listening on ws://%s:%d/hrv", s.host, s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("websocket server failed: %w", err)
		}
		return nil
	}
}

func (s *WebSocketServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "Synheart HRV Stream\n\n")
	fmt.Fprintf(w, "WebSocket endpoint: ws://%s:%d/hrv\n", s.host, s.port)
	fmt.Fprintf(w, "Connected clients: %d\n", s.ClientCount())
}

func (s *WebSocketServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	total := len(s.clients)
	s.mu.Unlock()

	log.Printf("WebSocket client connected from %s (total: %d)", r.RemoteAddr, total)

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		total := len(s.clients)
		s.mu.Unlock()

		conn.Close()
		log.Printf("WebSocket client disconnected (total: %d)", total)
	}()

	// Drain client messages until disconnect; the stream is one-way.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends one payload to every connected client. Write failures
// drop the failing client.
func (s *WebSocketServer) Broadcast(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// BroadcastFromChannel broadcasts every payload read from the channel.
func (s *WebSocketServer) BroadcastFromChannel(ctx context.Context, payloads <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-payloads:
			if !ok {
				return
			}
			s.Broadcast(payload)
		}
	}
}

// ClientCount returns the connected client count.
func (s *WebSocketServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown closes every client and stops the server.
func (s *WebSocketServer) Shutdown() error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]bool)
	s.mu.Unlock()

	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Address returns the websocket endpoint URL.
func (s *WebSocketServer) Address() string {
	return fmt.Sprintf("ws://%s:%d/hrv", s.host, s.port)
}
