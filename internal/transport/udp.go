package transport

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

// udpClientTTL is how long a subscriber stays registered without
// re-sending a subscribe message.
const udpClientTTL = 90 * time.Second

// UDPServer pushes HRV data-point payloads to UDP subscribers. A client
// subscribes by sending "subscribe" to the server port and unsubscribes
// with "unsubscribe"; subscriptions expire unless refreshed.
type UDPServer struct {
	host    string
	port    int
	conn    *net.UDPConn
	clients map[string]udpClient
	mu      sync.RWMutex
}

type udpClient struct {
	addr     *net.UDPAddr
	lastSeen time.Time
}

// NewUDPServer creates a new UDP broadcast server.
func NewUDPServer(host string, port int) *UDPServer {
	return &UDPServer{
		host:    host,
		port:    port,
		clients: make(map[string]udpClient),
	}
}

// Start listens for subscriptions until ctx is cancelled.
func (s *UDPServer) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", s.host, s.port))
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP: %w", err)
	}
	s.conn = conn

	log.Printf("UDP server listening on %s:%d", s.host, s.port)

	go s.expireClients(ctx)
	go s.readLoop(ctx)

	<-ctx.Done()
	return s.Shutdown()
}

func (s *UDPServer) readLoop(ctx context.Context) {
	buf := make([]byte, 64)
	for {
		s.conn.SetReadDeadline(time.Now().Add(time.Second))
		n, remote, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				select {
				case <-ctx.Done():
					return
				default:
					continue
				}
			}
			return
		}
		s.handleMessage(string(buf[:n]), remote)
	}
}

func (s *UDPServer) handleMessage(msg string, remote *net.UDPAddr) {
	switch msg {
	case "subscribe":
		s.mu.Lock()
		_, existed := s.clients[remote.String()]
		s.clients[remote.String()] = udpClient{addr: remote, lastSeen: time.Now()}
		total := len(s.clients)
		s.mu.Unlock()
		if !existed {
			log.Printf("UDP client subscribed from %s (total: %d)", remote, total)
		}
	case "unsubscribe":
		s.mu.Lock()
		delete(s.clients, remote.String())
		total := len(s.clients)
		s.mu.Unlock()
		log.Printf("UDP client unsubscribed from %s (total: %d)", remote, total)
	}
}

func (s *UDPServer) expireClients(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-udpClientTTL)
			s.mu.Lock()
			for key, c := range s.clients {
				if c.lastSeen.Before(cutoff) {
					delete(s.clients, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Broadcast sends one payload datagram to every subscriber.
func (s *UDPServer) Broadcast(payload []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clients {
		if _, err := s.conn.WriteToUDP(payload, c.addr); err != nil {
			log.Printf("Failed to send to UDP client %s: %v", c.addr, err)
		}
	}
}

// BroadcastFromChannel broadcasts every payload read from the channel.
func (s *UDPServer) BroadcastFromChannel(ctx context.Context, payloads <-chan []byte) {
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

// ClientCount returns the subscriber count.
func (s *UDPServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown closes the UDP socket.
func (s *UDPServer) Shutdown() error {
	s.mu.Lock()
	s.clients = make(map[string]udpClient)
	s.mu.Unlock()

	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Address returns the UDP listen address.
func (s *UDPServer) Address() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}
