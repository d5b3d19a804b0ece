package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/models"
	"github.com/tokri-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openCouponTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}, &models.CouponUsage{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newCouponService(t *testing.T) (*CouponService, *gorm.DB) {
	db := openCouponTestDB(t)
	return NewCouponService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db)), db
}

func seedCoupon(t *testing.T, db *gorm.DB, coupon models.Coupon) models.Coupon {
	t.Helper()
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("seed coupon failed: %v", err)
	}
	return coupon
}

func taka(amount int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(amount))
}

func TestCouponValidateSuccess(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, models.Coupon{
		Code:      "WELCOME10",
		Type:      constants.CouponTypePercent,
		Value:     taka(10),
		MinAmount: taka(1000),
		IsActive:  true,
	})

	applied, record, err := svc.Validate(context.Background(), " WELCOME10 ", taka(1500))
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if applied.Type != constants.CouponTypePercent || !applied.Value.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected applied coupon: %+v", applied)
	}
	if record == nil || record.Code != "WELCOME10" {
		t.Fatalf("expected coupon record returned")
	}
}

func TestCouponValidateNotFound(t *testing.T) {
	svc, _ := newCouponService(t)
	if _, _, err := svc.Validate(context.Background(), "NOPE", taka(100)); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got: %v", err)
	}
}

func TestCouponValidateEmptyCode(t *testing.T) {
	svc, _ := newCouponService(t)
	if _, _, err := svc.Validate(context.Background(), "   ", taka(100)); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid, got: %v", err)
	}
}

func TestCouponValidateInactive(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, models.Coupon{Code: "OFF", Type: constants.CouponTypeFixed, Value: taka(50), IsActive: false})
	if _, _, err := svc.Validate(context.Background(), "OFF", taka(100)); !errors.Is(err, ErrCouponInactive) {
		t.Fatalf("expected ErrCouponInactive, got: %v", err)
	}
}

func TestCouponValidateWindow(t *testing.T) {
	svc, db := newCouponService(t)
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	seedCoupon(t, db, models.Coupon{Code: "SOON", Type: constants.CouponTypeFixed, Value: taka(50), IsActive: true, StartsAt: &future})
	if _, _, err := svc.Validate(context.Background(), "SOON", taka(100)); !errors.Is(err, ErrCouponNotStarted) {
		t.Fatalf("expected ErrCouponNotStarted, got: %v", err)
	}

	seedCoupon(t, db, models.Coupon{Code: "LATE", Type: constants.CouponTypeFixed, Value: taka(50), IsActive: true, EndsAt: &past})
	if _, _, err := svc.Validate(context.Background(), "LATE", taka(100)); !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expected ErrCouponExpired, got: %v", err)
	}
}

func TestCouponValidateUsageLimit(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, models.Coupon{Code: "FULL", Type: constants.CouponTypeFixed, Value: taka(50), IsActive: true, UsageLimit: 2, UsedCount: 2})
	if _, _, err := svc.Validate(context.Background(), "FULL", taka(100)); !errors.Is(err, ErrCouponUsageLimit) {
		t.Fatalf("expected ErrCouponUsageLimit, got: %v", err)
	}
}

func TestCouponValidateMinAmount(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, models.Coupon{Code: "BIG", Type: constants.CouponTypeFixed, Value: taka(200), MinAmount: taka(2000), IsActive: true})
	if _, _, err := svc.Validate(context.Background(), "BIG", taka(1999)); !errors.Is(err, ErrCouponMinAmount) {
		t.Fatalf("expected ErrCouponMinAmount, got: %v", err)
	}
	if _, _, err := svc.Validate(context.Background(), "BIG", taka(2000)); err != nil {
		t.Fatalf("expected subtotal at threshold to pass, got: %v", err)
	}
}

func TestCouponCreateRejectsUnknownType(t *testing.T) {
	svc, _ := newCouponService(t)
	err := svc.Create(&models.Coupon{Code: "X", Type: "bogof"})
	if !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid, got: %v", err)
	}
}

func TestCouponCreateNormalizesAndRejectsDuplicate(t *testing.T) {
	svc, _ := newCouponService(t)
	if err := svc.Create(&models.Coupon{Code: " FREESHIP ", Type: " FREE_DELIVERY "}); err != nil {
		t.Fatalf("create error: %v", err)
	}
	err := svc.Create(&models.Coupon{Code: "FREESHIP", Type: constants.CouponTypeFixed, Value: taka(10)})
	if !errors.Is(err, ErrCouponCodeExists) {
		t.Fatalf("expected ErrCouponCodeExists, got: %v", err)
	}
}

func TestCouponRecordAndReleaseUsage(t *testing.T) {
	svc, db := newCouponService(t)
	coupon := seedCoupon(t, db, models.Coupon{Code: "TRACK", Type: constants.CouponTypeFixed, Value: taka(50), IsActive: true, UsageLimit: 5})

	if err := svc.RecordUsage(coupon.ID, 11, "01711111111", taka(50)); err != nil {
		t.Fatalf("record usage error: %v", err)
	}
	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used_count 1, got %d", reloaded.UsedCount)
	}

	if err := svc.ReleaseUsage(coupon.ID); err != nil {
		t.Fatalf("release usage error: %v", err)
	}
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Fatalf("expected used_count back to 0, got %d", reloaded.UsedCount)
	}
}
