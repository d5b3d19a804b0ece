package cartstore

import (
	"time"

	"github.com/tokri-next/internal/models"

	"github.com/shopspring/decimal"
)

// EnvelopeVersion 存储信封当前版本
const EnvelopeVersion = 1

// Envelope 单个存储键下的完整状态信封
// 整体序列化为一个 JSON 串持久化；并发写入以整个信封为粒度，后写覆盖先写。
type Envelope struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// EmptyEnvelope 创建空信封
func EmptyEnvelope() Envelope {
	return Envelope{
		Items:   []Item{},
		Version: EnvelopeVersion,
	}
}

// TotalQuantity 汇总数量（购物车维度）
func (e Envelope) TotalQuantity() int {
	total := 0
	for _, item := range e.Items {
		total += item.Quantity
	}
	return total
}

// SubTotal 汇总小计（单价 × 数量）
func (e Envelope) SubTotal() models.Money {
	sum := decimal.Zero
	for _, item := range e.Items {
		sum = sum.Add(item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return models.NewMoneyFromDecimal(sum)
}

// Count 行数（心愿单维度）
func (e Envelope) Count() int {
	return len(e.Items)
}

// HasFreeDeliveryItem 判断是否存在免运费行
func (e Envelope) HasFreeDeliveryItem() bool {
	for _, item := range e.Items {
		if item.IsFreeDelivery {
			return true
		}
	}
	return false
}

// find 按复合键定位行，返回索引，未命中返回 -1
func (e Envelope) find(key string) int {
	for idx, item := range e.Items {
		if item.Key() == key {
			return idx
		}
	}
	return -1
}
