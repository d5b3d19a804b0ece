package checkout

import (
	"strings"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/models"

	"github.com/shopspring/decimal"
)

// DeliveryRates 两档配送费率
// 指定地区（如 Dhaka）按低档收费，其余地区按高档收费。
type DeliveryRates struct {
	InsideRegion string       // 低档地区名（不区分大小写比较）
	InsideRate   models.Money // 低档运费
	OutsideRate  models.Money // 高档运费
}

// AppliedCoupon 已验证通过的优惠券（作用于整单，不分摊到行）
type AppliedCoupon struct {
	Code  string       `json:"code"`
	Type  string       `json:"type"`
	Value models.Money `json:"value"`
}

// IsFreeDelivery 判断是否免运费券
func (c *AppliedCoupon) IsFreeDelivery() bool {
	return c != nil && c.Type == constants.CouponTypeFreeDelivery
}

// Quote 整单金额报价
type Quote struct {
	Subtotal       models.Money `json:"subtotal"`
	DeliveryCharge models.Money `json:"delivery_charge"`
	Discount       models.Money `json:"discount"`
	GrandTotal     models.Money `json:"grand_total"`
}

// Engine 结算价格引擎
type Engine struct {
	rates DeliveryRates
}

// NewEngine 创建价格引擎
func NewEngine(rates DeliveryRates) *Engine {
	return &Engine{rates: rates}
}

// QuoteEnvelope 基于购物车信封计算报价
func (e *Engine) QuoteEnvelope(env cartstore.Envelope, region string, coupon *AppliedCoupon) Quote {
	return e.Quote(env.SubTotal(), env.HasFreeDeliveryItem(), region, coupon)
}

// Quote 计算整单报价
// 规则：
//   - 小计由调用方给出（行单价 × 数量之和）；
//   - 运费：免运费券或任意免运费行时为 0；未选地区为 0；否则按两档费率；
//   - 折扣：百分比券比例收拢到 [0,100]；定额券不超过小计；免运费券折扣为 0；
//   - 应付总额 = 小计 + 运费 − 折扣，下限收拢到 0。
func (e *Engine) Quote(subtotal models.Money, hasFreeDeliveryItem bool, region string, coupon *AppliedCoupon) Quote {
	delivery := e.deliveryCharge(hasFreeDeliveryItem, region, coupon)
	discount := e.discount(subtotal, coupon)

	total := subtotal.Decimal.Add(delivery.Decimal).Sub(discount.Decimal)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Quote{
		Subtotal:       subtotal,
		DeliveryCharge: delivery,
		Discount:       discount,
		GrandTotal:     models.NewMoneyFromDecimal(total),
	}
}

// deliveryCharge 计算运费
func (e *Engine) deliveryCharge(hasFreeDeliveryItem bool, region string, coupon *AppliedCoupon) models.Money {
	if coupon.IsFreeDelivery() || hasFreeDeliveryItem {
		return models.NewMoneyFromInt(0)
	}
	region = strings.TrimSpace(region)
	if region == "" {
		return models.NewMoneyFromInt(0)
	}
	if strings.EqualFold(region, e.rates.InsideRegion) {
		return e.rates.InsideRate
	}
	return e.rates.OutsideRate
}

// discount 计算优惠金额
func (e *Engine) discount(subtotal models.Money, coupon *AppliedCoupon) models.Money {
	if coupon == nil {
		return models.NewMoneyFromInt(0)
	}
	switch coupon.Type {
	case constants.CouponTypePercent:
		percent := coupon.Value.Decimal
		if percent.IsNegative() {
			percent = decimal.Zero
		}
		if percent.GreaterThan(decimal.NewFromInt(100)) {
			percent = decimal.NewFromInt(100)
		}
		return models.NewMoneyFromDecimal(subtotal.Decimal.Mul(percent).Div(decimal.NewFromInt(100)))
	case constants.CouponTypeFixed:
		value := coupon.Value.Decimal
		if value.IsNegative() {
			value = decimal.Zero
		}
		if value.GreaterThan(subtotal.Decimal) {
			value = subtotal.Decimal
		}
		return models.NewMoneyFromDecimal(value)
	default:
		// FREE_DELIVERY 与未知类型不产生金额折扣
		return models.NewMoneyFromInt(0)
	}
}
