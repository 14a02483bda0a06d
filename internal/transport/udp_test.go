package transport

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"
)

func TestUDPServerSubscribe(t *testing.T) {
	server := NewUDPServer("127.0.0.1", 19501)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go server.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	client, err := net.Dial("udp", "127.0.0.1:19501")
	if err != nil {
		t.Fatalf("Failed to dial server: %v", err)
	}
	defer client.Close()

	if _, err := client.Write([]byte("subscribe")); err != nil {
		t.Fatalf("Failed to send subscribe: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := server.ClientCount(); got != 1 {
		t.Errorf("Expected 1 client, got %d", got)
	}

	if _, err := client.Write([]byte("unsubscribe")); err != nil {
		t.Fatalf("Failed to send unsubscribe: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := server.ClientCount(); got != 0 {
		t.Errorf("Expected 0 clients after unsubscribe, got %d", got)
	}
}

func TestUDPServerBroadcast(t *testing.T) {
	server := NewUDPServer("127.0.0.1", 19502)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go server.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	client, err := net.Dial("udp", "127.0.0.1:19502")
	if err != nil {
		t.Fatalf("Failed to dial server: %v", err)
	}
	defer client.Close()

	if _, err := client.Write([]byte("subscribe")); err != nil {
		t.Fatalf("Failed to send subscribe: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	payload := []byte(`{"rmssd_ms":42.5,"is_valid":true}`)
	server.Broadcast(payload)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1024)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("Failed to receive broadcast: %v", err)
	}

	if string(buf[:n]) != string(payload) {
		t.Errorf("Expected %q, got %q", payload, buf[:n])
	}
}

func TestUDPServerPortConflict(t *testing.T) {
	addr, _ := net.ResolveUDPAddr("udp", "127.0.0.1:19503")
	occupant, err := net.ListenUDP("udp", addr)
	if err != nil {
		t.Fatalf("Failed to occupy port: %v", err)
	}
	defer occupant.Close()

	server := NewUDPServer("127.0.0.1", 19503)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := server.Start(ctx); err == nil {
		t.Error("Expected error when port is occupied, got nil")
	}
}

func TestUDPServerAddress(t *testing.T) {
	server := NewUDPServer("127.0.0.1", 19504)
	want := fmt.Sprintf("%s:%d", "127.0.0.1", 19504)
	if got := server.Address(); got != want {
		t.Errorf("Expected address %q, got %q", want, got)
	}
}
