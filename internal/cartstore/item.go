package cartstore

import (
	"sort"
	"strings"

	"github.com/tokri-next/internal/models"
)

// Item 购物车/心愿单行项目
// 价格字段为加入时的快照，不与商品记录实时联动。
type Item struct {
	ProductID       string            `json:"product_id"`
	Slug            string            `json:"slug,omitempty"`
	Name            string            `json:"name,omitempty"`
	Image           string            `json:"image,omitempty"`
	Price           models.Money      `json:"price"`
	BasePrice       *models.Money     `json:"base_price,omitempty"`
	DiscountedPrice *models.Money     `json:"discounted_price,omitempty"`
	SKU             string            `json:"sku,omitempty"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
	Quantity        int               `json:"quantity,omitempty"`
	IsFreeDelivery  bool              `json:"is_free_delivery,omitempty"`
}

// Matcher 行项目定位条件（复合键三要素）
type Matcher struct {
	ProductID       string            `json:"product_id"`
	SKU             string            `json:"sku,omitempty"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

// Key 计算行项目复合键
// 同一 (productID, sku, 规格选项) 视为同一行；规格选项按属性名排序后
// 序列化，保证任意写入顺序得到相同的键。
func (m Matcher) Key() string {
	return itemKey(m.ProductID, m.SKU, m.SelectedOptions)
}

// Key 计算行项目复合键
func (i Item) Key() string {
	return itemKey(i.ProductID, i.SKU, i.SelectedOptions)
}

// Matcher 返回行项目对应的定位条件
func (i Item) Matcher() Matcher {
	return Matcher{ProductID: i.ProductID, SKU: i.SKU, SelectedOptions: i.SelectedOptions}
}

func itemKey(productID, sku string, options map[string]string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(productID))
	b.WriteByte('|')
	b.WriteString(strings.TrimSpace(sku))
	b.WriteByte('|')

	if len(options) > 0 {
		names := make([]string, 0, len(options))
		for name := range options {
			names = append(names, name)
		}
		sort.Strings(names)
		for idx, name := range names {
			if idx > 0 {
				b.WriteByte('&')
			}
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(options[name])
		}
	}
	return b.String()
}
