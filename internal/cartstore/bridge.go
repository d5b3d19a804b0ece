package cartstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tokri-next/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Bridge 跨进程通知桥
// 将本地总线的通知广播到 Redis 频道，并把远端进程发布的通知转入
// 本地总线，使多实例部署下各进程都能感知同一令牌的信封变更。
type Bridge struct {
	client  *redis.Client
	bus     *Bus
	channel string
	cancel  context.CancelFunc
}

// NewBridge 创建通知桥
func NewBridge(client *redis.Client, bus *Bus, prefix string) *Bridge {
	channel := "cartstore:events"
	if prefix != "" {
		channel = fmt.Sprintf("%s:%s", prefix, channel)
	}
	return &Bridge{client: client, bus: bus, channel: channel}
}

// Start 订阅 Redis 频道并把远端通知转入本地总线
func (b *Bridge) Start(ctx context.Context) error {
	if b == nil || b.client == nil {
		return nil
	}
	ctx, b.cancel = context.WithCancel(ctx)
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		b.cancel()
		return fmt.Errorf("订阅通知频道失败: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var notice Notice
				if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
					logger.Warnw("cartstore_bridge_decode_failed", "error", err)
					continue
				}
				b.bus.Publish(notice)
			}
		}
	}()
	return nil
}

// Broadcast 把本地通知广播到 Redis 频道（尽力而为）
func (b *Bridge) Broadcast(ctx context.Context, notice Notice) {
	if b == nil || b.client == nil {
		return
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		logger.Warnw("cartstore_bridge_broadcast_failed", "store_key", notice.StoreKey, "error", err)
	}
}

// Stop 停止转发
func (b *Bridge) Stop() {
	if b != nil && b.cancel != nil {
		b.cancel()
	}
}
