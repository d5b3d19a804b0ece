package cartstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tokri-next/internal/logger"
	"github.com/tokri-next/internal/models"
)

// Mode 存储语义模式
type Mode int

const (
	// ModeCart 购物车语义：重复加入累加数量
	ModeCart Mode = iota
	// ModeWishlist 心愿单语义：重复加入视为取消收藏
	ModeWishlist
)

// Store 绑定到单个存储键的状态门面
// 所有变更操作遵循 读取-修改-整体写回：每次写回携带新的 UpdatedAt，
// 成功后向总线发布变更通知。存储故障不向调用方抛出，操作返回内存中
// 计算出的结果信封并记录告警，下一次成功写回自然覆盖。
type Store struct {
	key     string
	mode    Mode
	storage Storage
	bus     *Bus
	bridge  *Bridge
}

// NewStore 创建存储门面
func NewStore(key string, mode Mode, storage Storage, bus *Bus, bridge *Bridge) *Store {
	return &Store{key: key, mode: mode, storage: storage, bus: bus, bridge: bridge}
}

// Key 返回存储键
func (s *Store) Key() string {
	return s.key
}

// Read 读取当前信封
// 键不存在、序列化损坏或存储故障时一律返回空信封，读取永不失败。
func (s *Store) Read(ctx context.Context) Envelope {
	data, ok, err := s.storage.Load(ctx, s.key)
	if err != nil {
		logger.Warnw("cartstore_load_failed", "store_key", s.key, "error", err)
		return EmptyEnvelope()
	}
	if !ok {
		return EmptyEnvelope()
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.Warnw("cartstore_envelope_corrupt", "store_key", s.key, "error", err)
		return EmptyEnvelope()
	}
	if env.Items == nil {
		env.Items = []Item{}
	}
	return env
}

// AddItem 加入行项目
// 购物车模式：已有同键行时累加数量；心愿单模式：已有同键行时移除该行
// （再次加入即取消收藏），数量固定为 1。
func (s *Store) AddItem(ctx context.Context, item Item) Envelope {
	env := s.Read(ctx)
	idx := env.find(item.Key())

	switch s.mode {
	case ModeWishlist:
		if idx >= 0 {
			env.Items = append(env.Items[:idx], env.Items[idx+1:]...)
		} else {
			item.Quantity = 1
			env.Items = append(env.Items, item)
		}
	default:
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		if idx >= 0 {
			env.Items[idx].Quantity += qty
		} else {
			item.Quantity = qty
			env.Items = append(env.Items, item)
		}
	}
	return s.write(ctx, env)
}

// UpdateQuantity 设置行项目数量
// 数量小于等于 0 时移除该行；行不存在时不做任何修改。
func (s *Store) UpdateQuantity(ctx context.Context, matcher Matcher, quantity int) Envelope {
	env := s.Read(ctx)
	idx := env.find(matcher.Key())
	if idx < 0 {
		return env
	}
	if quantity <= 0 {
		env.Items = append(env.Items[:idx], env.Items[idx+1:]...)
	} else {
		env.Items[idx].Quantity = quantity
	}
	return s.write(ctx, env)
}

// RemoveItem 移除行项目
func (s *Store) RemoveItem(ctx context.Context, matcher Matcher) Envelope {
	env := s.Read(ctx)
	idx := env.find(matcher.Key())
	if idx < 0 {
		return env
	}
	env.Items = append(env.Items[:idx], env.Items[idx+1:]...)
	return s.write(ctx, env)
}

// Clear 清空信封
func (s *Store) Clear(ctx context.Context) Envelope {
	env := EmptyEnvelope()
	return s.write(ctx, env)
}

// Has 判断行项目是否存在
func (s *Store) Has(ctx context.Context, matcher Matcher) bool {
	env := s.Read(ctx)
	return env.find(matcher.Key()) >= 0
}

// PricePatch 单行价格修正
type PricePatch struct {
	Price           models.Money
	BasePrice       *models.Money
	DiscountedPrice *models.Money
}

// UpdateItemPrice 修正单行价格快照
// 仅在价格确实变化时写回，避免对账轮询造成通知风暴。
func (s *Store) UpdateItemPrice(ctx context.Context, matcher Matcher, patch PricePatch) Envelope {
	env := s.Read(ctx)
	idx := env.find(matcher.Key())
	if idx < 0 {
		return env
	}
	if !applyPatch(&env.Items[idx], patch) {
		return env
	}
	return s.write(ctx, env)
}

// UpdatePricesForProduct 修正同一商品下所有行的价格快照
// patch 回调按行返回修正值；返回 nil 表示该行保持原样。
func (s *Store) UpdatePricesForProduct(ctx context.Context, productID string, patch func(Item) *PricePatch) Envelope {
	env := s.Read(ctx)
	changed := false
	for idx := range env.Items {
		if env.Items[idx].ProductID != productID {
			continue
		}
		p := patch(env.Items[idx])
		if p == nil {
			continue
		}
		if applyPatch(&env.Items[idx], *p) {
			changed = true
		}
	}
	if !changed {
		return env
	}
	return s.write(ctx, env)
}

// applyPatch 套用价格修正，返回是否发生实际变化
func applyPatch(item *Item, patch PricePatch) bool {
	changed := false
	if !item.Price.Decimal.Equal(patch.Price.Decimal) {
		item.Price = patch.Price
		changed = true
	}
	if !moneyPtrEqual(item.BasePrice, patch.BasePrice) {
		item.BasePrice = patch.BasePrice
		changed = true
	}
	if !moneyPtrEqual(item.DiscountedPrice, patch.DiscountedPrice) {
		item.DiscountedPrice = patch.DiscountedPrice
		changed = true
	}
	return changed
}

func moneyPtrEqual(a, b *models.Money) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Decimal.Equal(b.Decimal)
}

// write 整体写回并发布通知
func (s *Store) write(ctx context.Context, env Envelope) Envelope {
	env.UpdatedAt = time.Now()
	env.Version = EnvelopeVersion

	data, err := json.Marshal(env)
	if err != nil {
		logger.Warnw("cartstore_envelope_marshal_failed", "store_key", s.key, "error", err)
		return env
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		logger.Warnw("cartstore_save_failed", "store_key", s.key, "error", err)
		return env
	}

	notice := Notice{StoreKey: s.key, UpdatedAt: env.UpdatedAt}
	if s.bus != nil {
		s.bus.Publish(notice)
	}
	if s.bridge != nil {
		s.bridge.Broadcast(ctx, notice)
	}
	return env
}
