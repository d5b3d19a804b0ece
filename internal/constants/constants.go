package constants

// 订单状态常量
const (
	OrderStatusSubmitted = "submitted"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCanceled  = "canceled"
)

// 优惠券类型常量
const (
	CouponTypePercent      = "percent"
	CouponTypeFixed        = "fixed"
	CouponTypeFreeDelivery = "free_delivery"
)

// 支付方式常量（下单仅记录选择，不做扣款）
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodBkash  = "bkash"
	PaymentMethodNagad  = "nagad"
	PaymentMethodRocket = "rocket"
)

// PriceMarkerTBA 商品价格待定标记（大小写不敏感，去除首尾空白后比较）
const PriceMarkerTBA = "TBA"

// 购物车/心愿单存储键前缀（完整键为 <prefix>:<token>）
const (
	CartStoreKeyPrefix     = "cart:v1"
	WishlistStoreKeyPrefix = "wishlist:v1"
)

// CartTokenHeader 购物车令牌请求头
const CartTokenHeader = "X-Cart-Token"

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskOrderConfirmEmail  = "order:confirm_email"
	TaskOrderStaleReminder = "order:stale_reminder"
)

// 验证码场景常量
const (
	CaptchaSceneOrderSubmit = "order_submit"
)
