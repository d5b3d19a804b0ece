package models

import (
	"strings"
	"time"

	"github.com/tokri-next/internal/constants"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                      // 主键
	CategoryID       uint           `gorm:"not null;index" json:"category_id"`                         // 分类ID
	BrandID          *uint          `gorm:"index" json:"brand_id,omitempty"`                           // 品牌ID
	Slug             string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	Name             string         `gorm:"not null" json:"name"`                                      // 商品名称
	Description      string         `gorm:"type:text" json:"description"`                              // 商品描述
	BasePriceRaw     string         `gorm:"type:varchar(32);not null;default:'0'" json:"base_price"`   // 原价原始输入（数字串或 TBA）
	PriceAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 原价金额（TBA 时为 0）
	DiscountedAmount *Money         `gorm:"type:decimal(20,2)" json:"discounted_amount,omitempty"`     // 折后价（无折扣时为空）
	Images           StringArray    `gorm:"type:json" json:"images"`                                   // 图片数组
	Tags             StringArray    `gorm:"type:json" json:"tags"`                                     // 标签数组
	IsFreeDelivery   bool           `gorm:"not null;default:false" json:"is_free_delivery"`            // 是否免运费
	IsFeatured       bool           `gorm:"default:false;index" json:"is_featured"`                    // 是否精选
	IsActive         bool           `gorm:"default:true;index" json:"is_active"`                       // 是否上架
	SortOrder        int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	Category Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	SKUs     []ProductSKU `gorm:"foreignKey:ProductID" json:"skus,omitempty"`      // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// HasVariants 判断商品是否带规格
func (p *Product) HasVariants() bool {
	return p != nil && len(p.SKUs) > 0
}

// PriceTBA 判断商品原价是否为待定标记
func (p *Product) PriceTBA() bool {
	if p == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(p.BasePriceRaw), constants.PriceMarkerTBA)
}
