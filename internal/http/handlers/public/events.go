package public

import (
	"time"

	"github.com/gin-gonic/gin"
)

const cartEventsHeartbeat = 30 * time.Second

// SubscribeCartEvents 订阅购物车/心愿单变更通知（SSE）
// 同一令牌的其他页面/标签页收到通知后重新读取信封即可得到最新状态。
func (h *Handler) SubscribeCartEvents(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	cartKey := h.CartService.Cart(token).Key()
	wishlistKey := h.CartService.Wishlist(token).Key()

	bus := h.CartService.Bus()
	id, notices := bus.Subscribe()
	defer bus.Unsubscribe(id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	heartbeat := time.NewTicker(cartEventsHeartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			c.Writer.Flush()
		case notice, open := <-notices:
			if !open {
				return
			}
			store := ""
			switch notice.StoreKey {
			case cartKey:
				store = "cart"
			case wishlistKey:
				store = "wishlist"
			default:
				continue
			}
			c.SSEvent("change", gin.H{
				"store":      store,
				"updated_at": notice.UpdatedAt,
			})
			c.Writer.Flush()
		}
	}
}
