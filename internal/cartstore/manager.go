package cartstore

import (
	"fmt"

	"github.com/tokri-next/internal/constants"
)

// Manager 按浏览器令牌派生存储门面的工厂
// 购物车与心愿单共用同一套存储与通知设施，仅键前缀与模式不同。
type Manager struct {
	storage Storage
	bus     *Bus
	bridge  *Bridge
}

// NewManager 创建工厂
func NewManager(storage Storage, bus *Bus, bridge *Bridge) *Manager {
	return &Manager{storage: storage, bus: bus, bridge: bridge}
}

// Cart 返回指定令牌的购物车门面
func (m *Manager) Cart(token string) *Store {
	key := fmt.Sprintf("%s:%s", constants.CartStoreKeyPrefix, token)
	return NewStore(key, ModeCart, m.storage, m.bus, m.bridge)
}

// Wishlist 返回指定令牌的心愿单门面
func (m *Manager) Wishlist(token string) *Store {
	key := fmt.Sprintf("%s:%s", constants.WishlistStoreKeyPrefix, token)
	return NewStore(key, ModeWishlist, m.storage, m.bus, m.bridge)
}

// Bus 返回共享通知总线
func (m *Manager) Bus() *Bus {
	return m.bus
}
