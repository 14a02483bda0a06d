package stream

import (
	"context"
	"testing"
	"time"
)

func TestDispatcherFanOut(t *testing.T) {
	source := make(chan []byte, 10)
	d := NewDispatcher(source, 10)

	sub1 := d.Subscribe()
	sub2 := d.Subscribe()

	if d.SubscriberCount() != 2 {
		t.Errorf("Expected 2 subscribers, got %d", d.SubscriberCount())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	source <- []byte("point-1")
	source <- []byte("point-2")
	close(source)

	for _, sub := range []<-chan []byte{sub1, sub2} {
		for _, want := range []string{"point-1", "point-2"} {
			select {
			case got := <-sub:
				if string(got) != want {
					t.Errorf("Expected %q, got %q", want, got)
				}
			case <-time.After(time.Second):
				t.Fatal("Timed out waiting for payload")
			}
		}
	}
}

func TestDispatcherDropsOnFullBuffer(t *testing.T) {
	source := make(chan []byte, 10)
	d := NewDispatcher(source, 1)

	// One-slot subscriber that never drains.
	d.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	for i := 0; i < 5; i++ {
		source <- []byte("x")
	}
	close(source)

	deadline := time.After(time.Second)
	for d.DroppedCount() < 4 {
		select {
		case <-deadline:
			t.Fatalf("Expected 4 dropped payloads, got %d", d.DroppedCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestDispatcherClosesSubscribersOnSourceClose(t *testing.T) {
	source := make(chan []byte)
	d := NewDispatcher(source, 1)
	sub := d.Subscribe()

	go d.Run(context.Background())
	close(source)

	select {
	case _, ok := <-sub:
		if ok {
			t.Error("Expected subscriber channel to be closed without payloads")
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for subscriber channel to close")
	}
}
