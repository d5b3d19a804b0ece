package checkout

import (
	"context"
	"errors"
	"sync"
)

// SlotState 优惠券槽状态
type SlotState int

const (
	// SlotEmpty 空槽
	SlotEmpty SlotState = iota
	// SlotValidating 校验中
	SlotValidating
	// SlotApplied 已套用
	SlotApplied
)

// ErrValidationInFlight 已有校验在途（单槽不支持并发校验）
var ErrValidationInFlight = errors.New("优惠券校验进行中")

// Validator 优惠券校验边界
// 实现方为权威：返回的类型与面额直接进入结算，不再二次校验。
type Validator interface {
	Validate(ctx context.Context, code string) (*AppliedCoupon, error)
}

// Slot 结算会话的单一优惠券槽
// 状态机：Empty → Validating → Applied（成功）或回到 Empty（失败）；
// Applied → Empty 仅发生在显式移除。同一时刻至多一张券。
type Slot struct {
	mu     sync.Mutex
	state  SlotState
	coupon *AppliedCoupon
}

// NewSlot 创建空槽
func NewSlot() *Slot {
	return &Slot{state: SlotEmpty}
}

// Apply 校验并套用优惠券
// 校验在途时拒绝新请求；成功后替换槽内已有券，失败时槽回到空态。
func (s *Slot) Apply(ctx context.Context, validator Validator, code string) (*AppliedCoupon, error) {
	s.mu.Lock()
	if s.state == SlotValidating {
		s.mu.Unlock()
		return nil, ErrValidationInFlight
	}
	s.state = SlotValidating
	s.mu.Unlock()

	coupon, err := validator.Validate(ctx, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SlotEmpty
		s.coupon = nil
		return nil, err
	}
	s.state = SlotApplied
	s.coupon = coupon
	return coupon, nil
}

// Remove 移除槽内优惠券
func (s *Slot) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SlotApplied {
		s.state = SlotEmpty
		s.coupon = nil
	}
}

// Current 返回当前状态与槽内券
func (s *Slot) Current() (SlotState, *AppliedCoupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.coupon
}
