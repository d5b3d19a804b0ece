package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/tokri-next/internal/http/response"
	"github.com/tokri-next/internal/models"
	"github.com/tokri-next/internal/repository"
	"github.com/tokri-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateCouponRequest 创建优惠券请求
// type 取值：percent / fixed / free_delivery。
type CreateCouponRequest struct {
	Code         string  `json:"code" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	Value        float64 `json:"value"`
	MinAmount    float64 `json:"min_amount"`
	UsageLimit   int     `json:"usage_limit"`
	PerUserLimit int     `json:"per_user_limit"`
	StartsAt     string  `json:"starts_at"`
	EndsAt       string  `json:"ends_at"`
	IsActive     *bool   `json:"is_active"`
	Description  string  `json:"description"`
}

func (r CreateCouponRequest) toModel() (models.Coupon, error) {
	startsAt, err := parseTimeNullable(r.StartsAt)
	if err != nil {
		return models.Coupon{}, err
	}
	endsAt, err := parseTimeNullable(r.EndsAt)
	if err != nil {
		return models.Coupon{}, err
	}

	coupon := models.Coupon{
		Code:         strings.TrimSpace(r.Code),
		Type:         r.Type,
		Value:        models.NewMoneyFromDecimal(decimal.NewFromFloat(r.Value)),
		MinAmount:    models.NewMoneyFromDecimal(decimal.NewFromFloat(r.MinAmount)),
		UsageLimit:   r.UsageLimit,
		PerUserLimit: r.PerUserLimit,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		IsActive:     true,
		Description:  r.Description,
	}
	if r.IsActive != nil {
		coupon.IsActive = *r.IsActive
	}
	return coupon, nil
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	coupon, err := req.toModel()
	if err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	if err := h.CouponService.Create(&coupon); err != nil {
		switch {
		case errors.Is(err, service.ErrCouponInvalid):
			respondError(c, response.CodeBadRequest, "优惠券类型不合法", nil)
		case errors.Is(err, service.ErrCouponCodeExists):
			respondError(c, response.CodeBadRequest, "优惠码已存在", nil)
		default:
			respondError(c, response.CodeInternal, "优惠券创建失败", err)
		}
		return
	}

	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	coupon, err := req.toModel()
	if err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	coupon.ID = uint(couponID)

	if err := h.CouponService.Update(&coupon); err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			respondError(c, response.CodeNotFound, "优惠券不存在", nil)
		case errors.Is(err, service.ErrCouponCodeExists):
			respondError(c, response.CodeBadRequest, "优惠码已被占用", nil)
		default:
			respondError(c, response.CodeInternal, "优惠券更新失败", err)
		}
		return
	}

	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	if err := h.CouponService.Delete(uint(couponID)); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "优惠券不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "优惠券删除失败", err)
		return
	}
	response.Success(c, gin.H{
		"deleted": true,
	})
}

// GetAdminCoupons 获取优惠券列表
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "请求参数不合法", err)
			return
		}
		isActive = &parsed
	}

	coupons, total, err := h.CouponService.List(repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
		Type:     strings.TrimSpace(c.Query("type")),
		IsActive: isActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "优惠券列表获取失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, coupons, pagination)
}

// GetAdminCoupon 获取优惠券详情
func (h *Handler) GetAdminCoupon(c *gin.Context) {
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	coupon, err := h.CouponService.GetByID(uint(couponID))
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "优惠券不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "优惠券获取失败", err)
		return
	}
	response.Success(c, coupon)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
