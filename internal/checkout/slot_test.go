package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tokri-next/internal/constants"
)

// blockingValidator 在收到放行信号前挂起校验
type blockingValidator struct {
	entered chan struct{}
	release chan struct{}
	coupon  *AppliedCoupon
	err     error
	once    sync.Once
}

func (v *blockingValidator) Validate(ctx context.Context, code string) (*AppliedCoupon, error) {
	v.once.Do(func() { close(v.entered) })
	<-v.release
	return v.coupon, v.err
}

type staticValidator struct {
	coupon *AppliedCoupon
	err    error
}

func (v *staticValidator) Validate(ctx context.Context, code string) (*AppliedCoupon, error) {
	return v.coupon, v.err
}

func TestSlotApplySuccess(t *testing.T) {
	slot := NewSlot()
	want := &AppliedCoupon{Code: "WELCOME10", Type: constants.CouponTypePercent, Value: money(10)}

	got, err := slot.Apply(context.Background(), &staticValidator{coupon: want}, "WELCOME10")
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if got.Code != "WELCOME10" {
		t.Fatalf("unexpected coupon: %+v", got)
	}

	state, current := slot.Current()
	if state != SlotApplied || current == nil {
		t.Fatalf("expected applied state with coupon, got state=%d coupon=%+v", state, current)
	}
}

func TestSlotApplyFailureResetsToEmpty(t *testing.T) {
	slot := NewSlot()
	// 先套用一张，再用失败的校验覆盖：失败后槽应回到空态
	if _, err := slot.Apply(context.Background(), &staticValidator{coupon: &AppliedCoupon{Code: "A"}}, "A"); err != nil {
		t.Fatalf("seed apply error: %v", err)
	}

	wantErr := errors.New("优惠码不存在")
	if _, err := slot.Apply(context.Background(), &staticValidator{err: wantErr}, "BAD"); !errors.Is(err, wantErr) {
		t.Fatalf("expected validator error, got: %v", err)
	}

	state, current := slot.Current()
	if state != SlotEmpty || current != nil {
		t.Fatalf("expected empty slot after failed validation, got state=%d coupon=%+v", state, current)
	}
}

func TestSlotApplyReplacesExistingCoupon(t *testing.T) {
	slot := NewSlot()
	ctx := context.Background()
	if _, err := slot.Apply(ctx, &staticValidator{coupon: &AppliedCoupon{Code: "A"}}, "A"); err != nil {
		t.Fatalf("apply A error: %v", err)
	}
	if _, err := slot.Apply(ctx, &staticValidator{coupon: &AppliedCoupon{Code: "B"}}, "B"); err != nil {
		t.Fatalf("apply B error: %v", err)
	}
	_, current := slot.Current()
	if current == nil || current.Code != "B" {
		t.Fatalf("expected coupon B in slot, got %+v", current)
	}
}

func TestSlotRejectsConcurrentValidation(t *testing.T) {
	slot := NewSlot()
	validator := &blockingValidator{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		coupon:  &AppliedCoupon{Code: "SLOW"},
	}

	done := make(chan error, 1)
	go func() {
		_, err := slot.Apply(context.Background(), validator, "SLOW")
		done <- err
	}()
	<-validator.entered

	if _, err := slot.Apply(context.Background(), &staticValidator{coupon: &AppliedCoupon{Code: "FAST"}}, "FAST"); !errors.Is(err, ErrValidationInFlight) {
		t.Fatalf("expected ErrValidationInFlight, got: %v", err)
	}

	close(validator.release)
	if err := <-done; err != nil {
		t.Fatalf("first apply should succeed: %v", err)
	}
	_, current := slot.Current()
	if current == nil || current.Code != "SLOW" {
		t.Fatalf("expected slow coupon applied, got %+v", current)
	}
}

func TestSlotRemove(t *testing.T) {
	slot := NewSlot()
	if _, err := slot.Apply(context.Background(), &staticValidator{coupon: &AppliedCoupon{Code: "A"}}, "A"); err != nil {
		t.Fatalf("apply error: %v", err)
	}
	slot.Remove()
	state, current := slot.Current()
	if state != SlotEmpty || current != nil {
		t.Fatalf("expected empty slot after remove")
	}

	// 空槽移除为幂等
	slot.Remove()
	if state, _ := slot.Current(); state != SlotEmpty {
		t.Fatalf("expected remove on empty slot to be a no-op")
	}
}
