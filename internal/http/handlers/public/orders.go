package public

import (
	"errors"
	"strings"

	"github.com/tokri-next/internal/http/response"
	"github.com/tokri-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitOrderRequest 提交订单请求
type SubmitOrderRequest struct {
	CustomerName    string                `json:"customer_name" binding:"required"`
	CustomerPhone   string                `json:"customer_phone" binding:"required"`
	CustomerEmail   string                `json:"customer_email"`
	DeliveryAddress string                `json:"delivery_address" binding:"required"`
	DeliveryRegion  string                `json:"delivery_region" binding:"required"`
	PaymentMethod   string                `json:"payment_method" binding:"required"`
	CaptchaPayload  CaptchaPayloadRequest `json:"captcha_payload"`
}

// SubmitOrder 提交订单
// 金额以服务端重新计算为准；成功后清空购物车并释放结算会话。
func (h *Handler) SubmitOrder(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	order, err := h.OrderService.Submit(c.Request.Context(), service.SubmitOrderInput{
		Token:           token,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryRegion:  req.DeliveryRegion,
		PaymentMethod:   req.PaymentMethod,
		ClientIP:        c.ClientIP(),
		Captcha:         toCaptchaPayload(req.CaptchaPayload),
	})
	if err != nil {
		respondOrderSubmitError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrderByOrderNo 按订单号查询订单
// 必须同时给出下单手机号，避免订单号被遍历。
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	phone := strings.TrimSpace(c.Query("phone"))
	if orderNo == "" || phone == "" {
		respondError(c, response.CodeBadRequest, "请提供订单号与下单手机号", nil)
		return
	}

	order, err := h.OrderService.GetByOrderNo(orderNo, phone)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}
	response.Success(c, order)
}
