package service

import (
	"context"
	"strings"
	"time"

	"github.com/tokri-next/internal/checkout"
	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/models"
	"github.com/tokri-next/internal/repository"
)

// CouponService 优惠券服务
// Validate 是结算槽的权威校验边界：通过后返回的类型与面额直接进入价格引擎。
type CouponService struct {
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
	}
}

// Validate 校验优惠码并返回可套用的券
func (s *CouponService) Validate(_ context.Context, code string, subtotal models.Money) (*checkout.AppliedCoupon, *models.Coupon, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, nil, ErrCouponInvalid
	}

	coupon, err := s.couponRepo.GetByCode(trimmed)
	if err != nil {
		return nil, nil, err
	}
	if coupon == nil {
		return nil, nil, ErrCouponNotFound
	}
	if !coupon.IsActive {
		return nil, coupon, ErrCouponInactive
	}

	now := time.Now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, coupon, ErrCouponNotStarted
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return nil, coupon, ErrCouponExpired
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, coupon, ErrCouponUsageLimit
	}

	if subtotal.Decimal.Cmp(coupon.MinAmount.Decimal) < 0 {
		return nil, coupon, ErrCouponMinAmount
	}

	switch strings.ToLower(strings.TrimSpace(coupon.Type)) {
	case constants.CouponTypePercent, constants.CouponTypeFixed, constants.CouponTypeFreeDelivery:
	default:
		return nil, coupon, ErrCouponInvalid
	}

	applied := &checkout.AppliedCoupon{
		Code:  coupon.Code,
		Type:  strings.ToLower(strings.TrimSpace(coupon.Type)),
		Value: coupon.Value,
	}
	return applied, coupon, nil
}

// RecordUsage 登记一次使用并累加使用次数（下单事务内调用）
func (s *CouponService) RecordUsage(couponID, orderID uint, phone string, discount models.Money) error {
	usage := &models.CouponUsage{
		CouponID:       couponID,
		OrderID:        orderID,
		CustomerPhone:  strings.TrimSpace(phone),
		DiscountAmount: discount,
	}
	if err := s.usageRepo.Create(usage); err != nil {
		return err
	}
	return s.couponRepo.IncrementUsedCount(couponID, 1)
}

// ReleaseUsage 订单取消时回退使用次数
func (s *CouponService) ReleaseUsage(couponID uint) error {
	return s.couponRepo.DecrementUsedCount(couponID, 1)
}

// List 后台优惠券列表
func (s *CouponService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// GetByID 后台按ID获取优惠券
func (s *CouponService) GetByID(id uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Create 创建优惠券
func (s *CouponService) Create(coupon *models.Coupon) error {
	coupon.Code = strings.TrimSpace(coupon.Code)
	coupon.Type = strings.ToLower(strings.TrimSpace(coupon.Type))
	switch coupon.Type {
	case constants.CouponTypePercent, constants.CouponTypeFixed, constants.CouponTypeFreeDelivery:
	default:
		return ErrCouponInvalid
	}
	existing, err := s.couponRepo.GetByCode(coupon.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrCouponCodeExists
	}
	return s.couponRepo.Create(coupon)
}

// Update 更新优惠券
func (s *CouponService) Update(coupon *models.Coupon) error {
	existing, err := s.couponRepo.GetByID(coupon.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}
	coupon.Code = strings.TrimSpace(coupon.Code)
	if coupon.Code != existing.Code {
		conflict, err := s.couponRepo.GetByCode(coupon.Code)
		if err != nil {
			return err
		}
		if conflict != nil && conflict.ID != coupon.ID {
			return ErrCouponCodeExists
		}
	}
	coupon.UsedCount = existing.UsedCount
	return s.couponRepo.Update(coupon)
}

// Delete 删除优惠券
func (s *CouponService) Delete(id uint) error {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	return s.couponRepo.Delete(id)
}
