package pricesync

import (
	"context"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/models"
)

// Reconcile 把存储中引用该商品的行价格对齐到最新快照
// 逐行规则：
//   - 带规格商品按行上的 SKU 查找规格，未命中则该行保持原样；
//   - 无规格商品用商品级价格，原价为 TBA 时跳过该商品；
//   - 仅当价格确有变化时写回（由门面层保证），避免反复通知。
//
// TBA 只对商品级价格有意义：带规格商品的行价来自规格，照常对账。
func Reconcile(ctx context.Context, store *cartstore.Store, snap ProductSnapshot) cartstore.Envelope {
	if snap.PriceTBA && !snap.HasVariants {
		return store.Read(ctx)
	}
	return store.UpdatePricesForProduct(ctx, snap.ProductID, func(item cartstore.Item) *cartstore.PricePatch {
		if snap.HasVariants {
			if item.SKU == "" {
				return nil
			}
			variant, ok := snap.Variant(item.SKU)
			if !ok {
				return nil
			}
			return &cartstore.PricePatch{
				Price:           effectivePrice(variant.FinalPrice, variant.DiscountedPrice),
				BasePrice:       models.MoneyPtr(variant.FinalPrice),
				DiscountedPrice: variant.DiscountedPrice,
			}
		}
		return &cartstore.PricePatch{
			Price:           effectivePrice(snap.Price, snap.DiscountedPrice),
			BasePrice:       models.MoneyPtr(snap.Price),
			DiscountedPrice: snap.DiscountedPrice,
		}
	})
}

// ReconcileAll 同时对账购物车与心愿单
func ReconcileAll(ctx context.Context, cart, wishlist *cartstore.Store, snap ProductSnapshot) {
	Reconcile(ctx, cart, snap)
	Reconcile(ctx, wishlist, snap)
}
