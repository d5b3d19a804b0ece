package cartstore

import (
	"sync"
	"time"
)

// Notice 信封变更通知
type Notice struct {
	StoreKey  string    `json:"store_key"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bus 进程内变更通知总线
// 写入方在持久化成功后发布通知，同进程内的所有订阅方（SSE 连接、
// 结算会话等）据此刷新。发布为尽力而为：订阅方缓冲已满时丢弃本条，
// 不阻塞写入方。
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Notice
	nextID int
	buffer int
}

// NewBus 创建通知总线
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 16
	}
	return &Bus{
		subs:   make(map[int]chan Notice),
		buffer: buffer,
	}
}

// Subscribe 订阅变更通知，返回订阅ID与接收通道
func (b *Bus) Subscribe() (int, <-chan Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Notice, b.buffer)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe 取消订阅并关闭通道
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish 发布变更通知（非阻塞）
func (b *Bus) Publish(notice Notice) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- notice:
		default:
			// 订阅方消费过慢时丢弃，通知语义为尽力而为
		}
	}
}

// SubscriberCount 当前订阅数（测试与观测用）
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
