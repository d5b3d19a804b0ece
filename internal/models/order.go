package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	Status          string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	CustomerName    string         `gorm:"not null" json:"customer_name"`                                // 收货人姓名
	CustomerPhone   string         `gorm:"index;not null" json:"customer_phone"`                         // 收货人手机号
	CustomerEmail   string         `gorm:"index" json:"customer_email,omitempty"`                        // 收货人邮箱
	DeliveryAddress string         `gorm:"type:text;not null" json:"delivery_address"`                   // 收货地址
	DeliveryRegion  string         `gorm:"type:varchar(64);not null" json:"delivery_region"`             // 配送区域
	PaymentMethod   string         `gorm:"type:varchar(20);not null" json:"payment_method"`              // 支付方式（仅记录选择）
	Subtotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`        // 商品小计
	DeliveryCharge  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_charge"` // 运费
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 应付金额
	CouponID        *uint          `gorm:"index" json:"coupon_id,omitempty"`                             // 优惠券ID
	CouponCode      string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`                // 优惠码快照
	ClientIP        string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                  // 下单客户端IP
	ConfirmedAt     *time.Time     `gorm:"index" json:"confirmed_at"`                                    // 确认时间
	CanceledAt      *time.Time     `gorm:"index" json:"canceled_at"`                                     // 取消时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
