package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/models"
	"github.com/tokri-next/internal/pricesync"
)

// CartService 购物车/心愿单服务
// 负责把商品记录转换为行项目快照，并把对账挂接到商品详情读取之后。
type CartService struct {
	manager        *cartstore.Manager
	productService *ProductService
}

// NewCartService 创建购物车服务
func NewCartService(manager *cartstore.Manager, productService *ProductService) *CartService {
	return &CartService{
		manager:        manager,
		productService: productService,
	}
}

// Cart 指定令牌的购物车门面
func (s *CartService) Cart(token string) *cartstore.Store {
	return s.manager.Cart(token)
}

// Wishlist 指定令牌的心愿单门面
func (s *CartService) Wishlist(token string) *cartstore.Store {
	return s.manager.Wishlist(token)
}

// Bus 共享通知总线（SSE 推送用）
func (s *CartService) Bus() *cartstore.Bus {
	return s.manager.Bus()
}

// BuildItem 由商品记录构建行项目快照
// 单价在此处定格：之后只随对账变化，不随商品记录实时联动。
func (s *CartService) BuildItem(product *models.Product, skuCode string, options map[string]string, quantity int) (cartstore.Item, error) {
	price, sku, err := s.productService.ResolvePricing(product, skuCode)
	if err != nil {
		return cartstore.Item{}, err
	}

	item := cartstore.Item{
		ProductID:      strconv.FormatUint(uint64(product.ID), 10),
		Slug:           product.Slug,
		Name:           product.Name,
		Price:          price,
		SKU:            strings.TrimSpace(skuCode),
		Quantity:       quantity,
		IsFreeDelivery: product.IsFreeDelivery,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}
	if sku != nil {
		item.BasePrice = models.MoneyPtr(sku.FinalPrice)
		item.DiscountedPrice = sku.DiscountedAmount
		if len(sku.SpecValues) > 0 {
			item.SelectedOptions = map[string]string(sku.SpecValues)
		}
	} else {
		item.BasePrice = models.MoneyPtr(product.PriceAmount)
		item.DiscountedPrice = product.DiscountedAmount
	}
	if len(options) > 0 {
		item.SelectedOptions = options
	}
	return item, nil
}

// SyncProductPrices 用最新商品数据对账该令牌的购物车与心愿单
// 商品详情被读取后触发；令牌为空时跳过。
func (s *CartService) SyncProductPrices(ctx context.Context, token string, product *models.Product) {
	if strings.TrimSpace(token) == "" || product == nil {
		return
	}
	snap := pricesync.FromProduct(product)
	pricesync.ReconcileAll(ctx, s.Cart(token), s.Wishlist(token), snap)
}
