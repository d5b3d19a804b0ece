package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductSKU 商品规格表（价格维度，规格值区分颜色/尺码等）
type ProductSKU struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                                                       // 主键
	ProductID        uint           `gorm:"not null;index;uniqueIndex:idx_product_sku_code" json:"product_id"`                          // 商品ID
	SKUCode          string         `gorm:"column:sku_code;type:varchar(64);not null;uniqueIndex:idx_product_sku_code" json:"sku_code"` // SKU编码（同商品内唯一）
	SpecValues       StringMap      `gorm:"type:json" json:"spec_values"`                                                               // 规格值（属性名 -> 取值）
	FinalPrice       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"final_price"`                                   // 规格价格
	DiscountedAmount *Money         `gorm:"type:decimal(20,2)" json:"discounted_amount,omitempty"`                                      // 规格折后价（无折扣时为空）
	IsActive         bool           `gorm:"default:true;index" json:"is_active"`                                                        // 是否启用
	SortOrder        int            `gorm:"default:0;index" json:"sort_order"`                                                          // 排序权重
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                                                    // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                                                    // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                                             // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductSKU) TableName() string {
	return "product_skus"
}
