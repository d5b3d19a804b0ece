package cartstore

import (
	"context"
	"testing"
	"time"
)

func TestBusPublishReachesSubscribers(t *testing.T) {
	bus := NewBus(4)
	id, ch := bus.Subscribe()
	defer bus.Unsubscribe(id)

	now := time.Now()
	bus.Publish(Notice{StoreKey: "cart:a", UpdatedAt: now})

	select {
	case notice := <-ch:
		if notice.StoreKey != "cart:a" {
			t.Fatalf("unexpected store key: %s", notice.StoreKey)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected notice to be delivered")
	}
}

func TestBusPublishDropsWhenBufferFull(t *testing.T) {
	bus := NewBus(1)
	id, ch := bus.Subscribe()
	defer bus.Unsubscribe(id)

	// 缓冲为 1，第二条应被丢弃而非阻塞
	done := make(chan struct{})
	go func() {
		bus.Publish(Notice{StoreKey: "cart:a"})
		bus.Publish(Notice{StoreKey: "cart:a"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish must never block")
	}

	count := 0
	for {
		select {
		case <-ch:
			count++
		default:
			if count != 1 {
				t.Fatalf("expected exactly 1 buffered notice, got %d", count)
			}
			return
		}
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(1)
	id, ch := bus.Subscribe()
	bus.Unsubscribe(id)

	if _, open := <-ch; open {
		t.Fatalf("expected channel closed after unsubscribe")
	}
	if bus.SubscriberCount() != 0 {
		t.Fatalf("expected no subscribers, got %d", bus.SubscriberCount())
	}
}

func TestStoreWritePublishesNotice(t *testing.T) {
	bus := NewBus(4)
	id, ch := bus.Subscribe()
	defer bus.Unsubscribe(id)

	store := NewStore("cart:token", ModeCart, NewMemoryStorage(), bus, nil)
	store.AddItem(context.Background(), Item{ProductID: "1", Price: money(100), Quantity: 1})

	select {
	case notice := <-ch:
		if notice.StoreKey != "cart:token" {
			t.Fatalf("unexpected store key: %s", notice.StoreKey)
		}
		if notice.UpdatedAt.IsZero() {
			t.Fatalf("expected updated_at in notice")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected a change notice after write")
	}
}
