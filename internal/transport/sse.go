package transport

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
)

// SSEServer streams HRV data-point payloads over Server-Sent Events.
type SSEServer struct {
	host    string
	port    int
	clients map[chan []byte]bool
	mu      sync.RWMutex
	server  *http.Server
}

// NewSSEServer creates a new SSE broadcast server.
func NewSSEServer(host string, port int) *SSEServer {
	return &SSEServer{
		host:    host,
		port:    port,
		clients: make(map[chan []byte]bool),
	}
}

// Start serves until ctx is cancelled.
func (s *SSEServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/hrv/sse", s.handleSSE)
	mux.HandleFunc("/", s.handleRoot)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("SSE server listening on http://%s:%d/hrv/sse", s.host, s.port)
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
			return fmt.Errorf("sse server failed: %w", err)
		}
		return nil
	}
}

func (s *SSEServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "Synheart HRV Stream\n\n")
	fmt.Fprintf(w, "SSE endpoint: http://%s:%d/hrv/sse\n", s.host, s.port)
	fmt.Fprintf(w, "Connected clients: %d\n", s.ClientCount())
}

func (s *SSEServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := make(chan []byte, 16)

	s.mu.Lock()
	s.clients[ch] = true
	total := len(s.clients)
	s.mu.Unlock()

	log.Printf("SSE client connected from %s (total: %d)", r.RemoteAddr, total)

	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		total := len(s.clients)
		s.mu.Unlock()
		log.Printf("SSE client disconnected (total: %d)", total)
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case payload, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// Broadcast delivers one payload to every connected client. Slow clients
// with a full buffer are skipped for that payload.
func (s *SSEServer) Broadcast(payload []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.clients {
		select {
		case ch <- payload:
		default:
		}
	}
}

// BroadcastFromChannel broadcasts every payload read from the channel.
func (s *SSEServer) BroadcastFromChannel(ctx context.Context, payloads <-chan []byte) {
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
func (s *SSEServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown stops the server.
func (s *SSEServer) Shutdown() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Address returns the SSE endpoint URL.
func (s *SSEServer) Address() string {
	return fmt.Sprintf("http://%s:%d/hrv/sse", s.host, s.port)
}
