package service

import (
	"context"
	"sync"
	"time"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/checkout"
	"github.com/tokri-next/internal/config"
	"github.com/tokri-next/internal/models"

	"github.com/shopspring/decimal"
)

// 令牌由客户端自由铸造，闲置槽必须回收，否则槽表只增不减
const (
	couponSlotIdleTTL       = 2 * time.Hour
	couponSlotSweepInterval = 10 * time.Minute
)

// couponSlotEntry 槽与最近触达时间
type couponSlotEntry struct {
	slot    *checkout.Slot
	touched time.Time
}

// CheckoutService 结算服务
// 持有价格引擎与按令牌隔离的优惠券槽：一个结算会话至多一张券。
type CheckoutService struct {
	engine        *checkout.Engine
	couponService *CouponService
	cartService   *CartService

	mu        sync.Mutex
	slots     map[string]*couponSlotEntry
	lastSweep time.Time
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(cfg config.CheckoutConfig, couponService *CouponService, cartService *CartService) *CheckoutService {
	rates := checkout.DeliveryRates{
		InsideRegion: cfg.DeliveryRegion,
		InsideRate:   models.NewMoneyFromDecimal(decimal.NewFromFloat(cfg.DeliveryInsideRate)),
		OutsideRate:  models.NewMoneyFromDecimal(decimal.NewFromFloat(cfg.DeliveryOutsideRate)),
	}
	return &CheckoutService{
		engine:        checkout.NewEngine(rates),
		couponService: couponService,
		cartService:   cartService,
		slots:         make(map[string]*couponSlotEntry),
		lastSweep:     time.Now(),
	}
}

// Engine 价格引擎（下单时金额复核用）
func (s *CheckoutService) Engine() *checkout.Engine {
	return s.engine
}

// slot 取出或创建令牌对应的优惠券槽（仅写路径使用）
func (s *CheckoutService) slot(token string) *checkout.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepIdleSlots(time.Now())
	if existing, ok := s.slots[token]; ok {
		existing.touched = time.Now()
		return existing.slot
	}
	created := &couponSlotEntry{slot: checkout.NewSlot(), touched: time.Now()}
	s.slots[token] = created
	return created.slot
}

// peekSlot 只读查找，不为未知令牌建槽
func (s *CheckoutService) peekSlot(token string) *checkout.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.slots[token]
	if !ok {
		return nil
	}
	entry.touched = time.Now()
	return entry.slot
}

// sweepIdleSlots 回收超时未触达的槽；调用方须持有 s.mu
func (s *CheckoutService) sweepIdleSlots(now time.Time) {
	if now.Sub(s.lastSweep) < couponSlotSweepInterval {
		return
	}
	s.lastSweep = now
	for token, entry := range s.slots {
		if now.Sub(entry.touched) > couponSlotIdleTTL {
			delete(s.slots, token)
		}
	}
}

// couponValidator 把优惠券服务适配为结算槽的校验边界
type couponValidator struct {
	service  *CouponService
	subtotal models.Money
}

// Validate 实现 checkout.Validator
func (v couponValidator) Validate(ctx context.Context, code string) (*checkout.AppliedCoupon, error) {
	applied, _, err := v.service.Validate(ctx, code, v.subtotal)
	return applied, err
}

// ApplyCoupon 为结算会话套用优惠码
func (s *CheckoutService) ApplyCoupon(ctx context.Context, token, code string) (*checkout.AppliedCoupon, error) {
	env := s.cartService.Cart(token).Read(ctx)
	validator := couponValidator{service: s.couponService, subtotal: env.SubTotal()}
	return s.slot(token).Apply(ctx, validator, code)
}

// RemoveCoupon 移除结算会话的优惠券
func (s *CheckoutService) RemoveCoupon(token string) {
	if slot := s.peekSlot(token); slot != nil {
		slot.Remove()
	}
}

// AppliedCoupon 当前结算会话槽内的券（无槽、无券或校验中返回 nil）
func (s *CheckoutService) AppliedCoupon(token string) *checkout.AppliedCoupon {
	slot := s.peekSlot(token)
	if slot == nil {
		return nil
	}
	state, coupon := slot.Current()
	if state != checkout.SlotApplied {
		return nil
	}
	return coupon
}

// Quote 计算当前购物车的整单报价
func (s *CheckoutService) Quote(ctx context.Context, token, region string) (checkout.Quote, cartstore.Envelope) {
	env := s.cartService.Cart(token).Read(ctx)
	quote := s.engine.QuoteEnvelope(env, region, s.AppliedCoupon(token))
	return quote, env
}

// ResetSession 下单成功后释放结算会话
func (s *CheckoutService) ResetSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, token)
}
