package service

import "errors"

// 服务层哨兵错误，由接入层统一映射为响应码与文案
var (
	// 商品与分类
	ErrProductNotFound    = errors.New("商品不存在")
	ErrProductInactive    = errors.New("商品已下架")
	ErrProductSlugExists  = errors.New("商品标识已存在")
	ErrProductPriceBad    = errors.New("商品价格不合法")
	ErrSKUNotFound        = errors.New("商品规格不存在")
	ErrCategoryNotFound   = errors.New("分类不存在")
	ErrCategorySlugExists = errors.New("分类标识已存在")
	ErrCategoryInUse      = errors.New("分类下仍有商品")

	// 优惠券
	ErrCouponInvalid    = errors.New("优惠券无效")
	ErrCouponNotFound   = errors.New("优惠券不存在")
	ErrCouponInactive   = errors.New("优惠券未启用")
	ErrCouponNotStarted = errors.New("优惠券未到生效时间")
	ErrCouponExpired    = errors.New("优惠券已过期")
	ErrCouponUsageLimit = errors.New("优惠券已达使用上限")
	ErrCouponUserLimit  = errors.New("该手机号已达优惠券使用上限")
	ErrCouponMinAmount  = errors.New("未达到优惠券使用门槛")
	ErrCouponCodeExists = errors.New("优惠码已存在")

	// 订单
	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderStatusInvalid = errors.New("订单状态不允许该操作")
	ErrEmptyCart          = errors.New("购物车为空")
	ErrInvalidOrderItem   = errors.New("订单项不合法")
	ErrPaymentMethod      = errors.New("不支持的支付方式")
	ErrDeliveryRegion     = errors.New("请选择配送区域")

	// 管理员认证
	ErrInvalidCredential = errors.New("账号或密码错误")
	ErrAdminNotFound     = errors.New("管理员不存在")
	ErrUsernameExists    = errors.New("管理员账号已存在")

	// 验证码
	ErrCaptchaRequired = errors.New("请先完成验证码")
	ErrCaptchaInvalid  = errors.New("验证码错误或已过期")

	// 邮件
	ErrEmailServiceDisabled      = errors.New("邮件服务未启用")
	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrInvalidEmail              = errors.New("邮箱地址不合法")
)
