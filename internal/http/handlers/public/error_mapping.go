package public

import (
	"errors"

	"github.com/tokri-next/internal/checkout"
	"github.com/tokri-next/internal/http/response"
	"github.com/tokri-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartItemErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "商品不存在"},
	{target: service.ErrProductInactive, code: response.CodeBadRequest, msg: "商品已下架"},
	{target: service.ErrSKUNotFound, code: response.CodeBadRequest, msg: "商品规格不存在"},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "商品暂不可加入"},
}

var couponApplyErrorRules = []mappedHandlerError{
	{target: checkout.ErrValidationInFlight, code: response.CodeBadRequest, msg: "优惠券校验进行中，请稍后重试"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, msg: "优惠券无效"},
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, msg: "优惠券不存在"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, msg: "优惠券未启用"},
	{target: service.ErrCouponNotStarted, code: response.CodeBadRequest, msg: "优惠券未到生效时间"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, msg: "优惠券已过期"},
	{target: service.ErrCouponUsageLimit, code: response.CodeBadRequest, msg: "优惠券已达使用上限"},
	{target: service.ErrCouponUserLimit, code: response.CodeBadRequest, msg: "该手机号已达优惠券使用上限"},
	{target: service.ErrCouponMinAmount, code: response.CodeBadRequest, msg: "未达到优惠券使用门槛"},
}

var orderSubmitErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, msg: "请先完成验证码"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, msg: "验证码不正确"},
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, msg: "购物车为空"},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "订单项不合法"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "订单中存在已失效商品"},
	{target: service.ErrProductInactive, code: response.CodeBadRequest, msg: "订单中存在已下架商品"},
	{target: service.ErrSKUNotFound, code: response.CodeBadRequest, msg: "订单中存在已失效规格"},
	{target: service.ErrPaymentMethod, code: response.CodeBadRequest, msg: "不支持的支付方式"},
	{target: service.ErrDeliveryRegion, code: response.CodeBadRequest, msg: "请选择配送区域"},
}

func respondCartItemError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartItemErrorRules, response.CodeInternal, "购物车操作失败")
}

func respondCouponApplyError(c *gin.Context, err error) {
	respondWithMappedError(c, err, couponApplyErrorRules, response.CodeInternal, "优惠券校验失败")
}

func respondOrderSubmitError(c *gin.Context, err error) {
	respondWithMappedError(c, err,
		concatMappedHandlerErrors(orderSubmitErrorRules, couponApplyErrorRules),
		response.CodeInternal, "订单提交失败")
}
