package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表
type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID         uint           `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductID       uint           `gorm:"index;not null" json:"product_id"`                         // 商品ID
	SKUCode         string         `gorm:"column:sku_code;type:varchar(64)" json:"sku_code"`         // 规格编码（无规格商品为空）
	Name            string         `gorm:"not null" json:"name"`                                     // 商品名称快照
	Slug            string         `gorm:"not null" json:"slug"`                                     // 商品标识快照
	Image           string         `gorm:"type:varchar(500)" json:"image"`                           // 商品图片快照
	SelectedOptions StringMap      `gorm:"type:json" json:"selected_options"`                        // 规格选项快照
	UnitPrice       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价快照
	Quantity        int            `gorm:"not null" json:"quantity"`                                 // 数量
	TotalPrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计
	IsFreeDelivery  bool           `gorm:"not null;default:false" json:"is_free_delivery"`           // 免运费快照
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
