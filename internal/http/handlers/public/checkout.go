package public

import (
	"strings"

	"github.com/tokri-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ApplyCouponRequest 套用优惠码请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetQuote 获取当前购物车的整单报价
func (h *Handler) GetQuote(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	region := strings.TrimSpace(c.Query("region"))

	quote, env := h.CheckoutService.Quote(c.Request.Context(), token, region)
	payload := gin.H{
		"quote": quote,
		"cart":  envelopePayload(env),
	}
	if coupon := h.CheckoutService.AppliedCoupon(token); coupon != nil {
		payload["coupon"] = coupon
	}
	response.Success(c, payload)
}

// ApplyCoupon 为结算会话套用优惠码
// 一个结算会话至多一张券：成功套用会替换槽内已有的券。
func (h *Handler) ApplyCoupon(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	coupon, err := h.CheckoutService.ApplyCoupon(c.Request.Context(), token, req.Code)
	if err != nil {
		respondCouponApplyError(c, err)
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// RemoveCoupon 移除结算会话的优惠券
func (h *Handler) RemoveCoupon(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	h.CheckoutService.RemoveCoupon(token)
	response.Success(c, gin.H{"removed": true})
}
