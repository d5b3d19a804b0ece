package pricesync

import (
	"strconv"

	"github.com/tokri-next/internal/models"
)

// ProductSnapshot 商品价格快照（边界校验后的判别类型）
// HasVariants 为真时价格取自 Variants，商品级价格字段无意义；
// 为假时价格取商品级字段。PriceTBA 表示商品级原价尚未公布，
// 无规格商品对账时跳过；带规格商品行价来自规格，不受其影响。
type ProductSnapshot struct {
	ProductID       string
	PriceTBA        bool
	Price           models.Money
	DiscountedPrice *models.Money
	HasVariants     bool
	Variants        map[string]VariantSnapshot
}

// VariantSnapshot 规格价格快照（按 SKU 编码索引）
type VariantSnapshot struct {
	SKUCode         string
	FinalPrice      models.Money
	DiscountedPrice *models.Money
}

// FromProduct 把商品记录转换为对账用快照
func FromProduct(product *models.Product) ProductSnapshot {
	snap := ProductSnapshot{
		ProductID:       strconv.FormatUint(uint64(product.ID), 10),
		PriceTBA:        product.PriceTBA(),
		Price:           product.PriceAmount,
		DiscountedPrice: product.DiscountedAmount,
	}
	if product.HasVariants() {
		snap.HasVariants = true
		snap.Variants = make(map[string]VariantSnapshot, len(product.SKUs))
		for _, sku := range product.SKUs {
			snap.Variants[sku.SKUCode] = VariantSnapshot{
				SKUCode:         sku.SKUCode,
				FinalPrice:      sku.FinalPrice,
				DiscountedPrice: sku.DiscountedAmount,
			}
		}
	}
	return snap
}

// Variant 按 SKU 编码查找规格快照
func (s ProductSnapshot) Variant(skuCode string) (VariantSnapshot, bool) {
	v, ok := s.Variants[skuCode]
	return v, ok
}

// effectivePrice 计算生效单价：折后价存在且低于原价时取折后价
func effectivePrice(base models.Money, discounted *models.Money) models.Money {
	if discounted != nil && discounted.Decimal.LessThan(base.Decimal) {
		return *discounted
	}
	return base
}
