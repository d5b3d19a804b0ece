package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/config"
	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/models"
)

func newCheckoutTestService(t *testing.T) *CheckoutService {
	t.Helper()
	couponService, db := newCouponService(t)
	seedCoupon(t, db, models.Coupon{
		Code: "FLAT50", Type: constants.CouponTypeFixed, Value: taka(50), IsActive: true,
	})
	manager := cartstore.NewManager(cartstore.NewMemoryStorage(), cartstore.NewBus(4), nil)
	cartService := NewCartService(manager, nil)
	return NewCheckoutService(config.CheckoutConfig{
		DeliveryRegion:      "Dhaka",
		DeliveryInsideRate:  60,
		DeliveryOutsideRate: 120,
	}, couponService, cartService)
}

func (s *CheckoutService) slotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

func TestReadOnlyQuoteDoesNotRetainSlots(t *testing.T) {
	svc := newCheckoutTestService(t)
	ctx := context.Background()

	// 令牌由客户端自由铸造：只读报价不得为每个新令牌建槽
	for i := 0; i < 1000; i++ {
		svc.Quote(ctx, fmt.Sprintf("tok-%d", i), "Dhaka")
	}
	if got := svc.slotCount(); got != 0 {
		t.Fatalf("expected no slots after read-only quotes, got %d", got)
	}

	if svc.AppliedCoupon("tok-unknown") != nil {
		t.Fatalf("expected nil coupon for unknown token")
	}
	svc.RemoveCoupon("tok-unknown")
	if got := svc.slotCount(); got != 0 {
		t.Fatalf("expected read path to stay slot-free, got %d", got)
	}
}

func TestIdleCouponSlotsSwept(t *testing.T) {
	svc := newCheckoutTestService(t)
	ctx := context.Background()

	if _, err := svc.ApplyCoupon(ctx, "tok-idle", "FLAT50"); err != nil {
		t.Fatalf("apply coupon error: %v", err)
	}
	if svc.AppliedCoupon("tok-idle") == nil {
		t.Fatalf("expected applied coupon before sweep")
	}

	// 把槽回拨到超时之前，并让下一次写路径触发清扫
	svc.mu.Lock()
	svc.slots["tok-idle"].touched = time.Now().Add(-couponSlotIdleTTL - time.Minute)
	svc.lastSweep = time.Now().Add(-couponSlotSweepInterval - time.Minute)
	svc.mu.Unlock()

	if _, err := svc.ApplyCoupon(ctx, "tok-fresh", "FLAT50"); err != nil {
		t.Fatalf("apply coupon error: %v", err)
	}

	if svc.AppliedCoupon("tok-idle") != nil {
		t.Fatalf("expected idle slot evicted")
	}
	if got := svc.slotCount(); got != 1 {
		t.Fatalf("expected only the fresh slot retained, got %d", got)
	}
}

func TestRecentlyTouchedSlotSurvivesSweep(t *testing.T) {
	svc := newCheckoutTestService(t)
	ctx := context.Background()

	if _, err := svc.ApplyCoupon(ctx, "tok-live", "FLAT50"); err != nil {
		t.Fatalf("apply coupon error: %v", err)
	}

	svc.mu.Lock()
	svc.lastSweep = time.Now().Add(-couponSlotSweepInterval - time.Minute)
	svc.mu.Unlock()

	if _, err := svc.ApplyCoupon(ctx, "tok-other", "FLAT50"); err != nil {
		t.Fatalf("apply coupon error: %v", err)
	}
	if svc.AppliedCoupon("tok-live") == nil {
		t.Fatalf("expected recently touched slot to survive sweep")
	}
}
