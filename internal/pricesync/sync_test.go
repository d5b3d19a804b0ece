package pricesync

import (
	"context"
	"testing"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/models"

	"github.com/shopspring/decimal"
)

func money(amount int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(amount))
}

func moneyPtr(amount int64) *models.Money {
	return models.MoneyPtr(money(amount))
}

func newCart(items ...cartstore.Item) *cartstore.Store {
	store := cartstore.NewStore("cart:test", cartstore.ModeCart, cartstore.NewMemoryStorage(), nil, nil)
	for _, item := range items {
		store.AddItem(context.Background(), item)
	}
	return store
}

func assertPrice(t *testing.T, item cartstore.Item, want int64) {
	t.Helper()
	if !item.Price.Decimal.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("line %s: expected price %d, got %s", item.Key(), want, item.Price.Decimal.String())
	}
}

func TestReconcileUpdatesProductLevelPrice(t *testing.T) {
	cart := newCart(cartstore.Item{ProductID: "5", Price: money(100), Quantity: 2})

	env := Reconcile(context.Background(), cart, ProductSnapshot{
		ProductID: "5",
		Price:     money(130),
	})

	assertPrice(t, env.Items[0], 130)
	if env.Items[0].BasePrice == nil || !env.Items[0].BasePrice.Decimal.Equal(decimal.NewFromInt(130)) {
		t.Fatalf("expected base price snapshot 130")
	}
	if env.Items[0].Quantity != 2 {
		t.Fatalf("reconcile must not touch quantity, got %d", env.Items[0].Quantity)
	}
}

func TestReconcilePrefersLowerDiscountedPrice(t *testing.T) {
	cart := newCart(cartstore.Item{ProductID: "5", Price: money(100), Quantity: 1})

	env := Reconcile(context.Background(), cart, ProductSnapshot{
		ProductID:       "5",
		Price:           money(100),
		DiscountedPrice: moneyPtr(80),
	})
	assertPrice(t, env.Items[0], 80)

	// 折后价不低于原价时不生效
	env = Reconcile(context.Background(), cart, ProductSnapshot{
		ProductID:       "5",
		Price:           money(100),
		DiscountedPrice: moneyPtr(120),
	})
	assertPrice(t, env.Items[0], 100)
}

func TestReconcileSkipsTBAProduct(t *testing.T) {
	cart := newCart(cartstore.Item{ProductID: "5", Price: money(100), Quantity: 1})

	env := Reconcile(context.Background(), cart, ProductSnapshot{
		ProductID: "5",
		PriceTBA:  true,
		Price:     money(0),
	})
	assertPrice(t, env.Items[0], 100)
}

func TestReconcileVariantLinesWithTBABasePrice(t *testing.T) {
	cart := newCart(cartstore.Item{ProductID: "9", SKU: "CDS-6P", Price: money(3200), Quantity: 1})

	// 商品级原价未公布不影响规格行：行价来自规格快照
	env := Reconcile(context.Background(), cart, ProductSnapshot{
		ProductID:   "9",
		PriceTBA:    true,
		HasVariants: true,
		Variants: map[string]VariantSnapshot{
			"CDS-6P": {SKUCode: "CDS-6P", FinalPrice: money(3500)},
		},
	})
	assertPrice(t, env.Items[0], 3500)
}

func TestReconcileVariantLines(t *testing.T) {
	cart := newCart(
		cartstore.Item{ProductID: "7", SKU: "EPP-M-WHT", Price: money(1800), Quantity: 1},
		cartstore.Item{ProductID: "7", SKU: "GONE", Price: money(1700), Quantity: 1},
		cartstore.Item{ProductID: "7", Price: money(1800), Quantity: 1},
	)

	env := Reconcile(context.Background(), cart, ProductSnapshot{
		ProductID:   "7",
		HasVariants: true,
		Variants: map[string]VariantSnapshot{
			"EPP-M-WHT": {SKUCode: "EPP-M-WHT", FinalPrice: money(1900)},
		},
	})

	for _, item := range env.Items {
		switch item.SKU {
		case "EPP-M-WHT":
			assertPrice(t, item, 1900)
		case "GONE":
			// 快照未命中的规格行保持原样
			assertPrice(t, item, 1700)
		case "":
			// 带规格商品下无 SKU 的行保持原样
			assertPrice(t, item, 1800)
		}
	}
}

func TestReconcileLeavesOtherProductsUntouched(t *testing.T) {
	cart := newCart(
		cartstore.Item{ProductID: "5", Price: money(100), Quantity: 1},
		cartstore.Item{ProductID: "6", Price: money(200), Quantity: 1},
	)

	env := Reconcile(context.Background(), cart, ProductSnapshot{ProductID: "5", Price: money(90)})
	for _, item := range env.Items {
		if item.ProductID == "6" {
			assertPrice(t, item, 200)
		}
	}
}

func TestFromProductBuildsVariantIndex(t *testing.T) {
	product := &models.Product{
		BasePriceRaw: "1800",
		PriceAmount:  money(1800),
		SKUs: []models.ProductSKU{
			{SKUCode: "A", FinalPrice: money(1800)},
			{SKUCode: "B", FinalPrice: money(1900), DiscountedAmount: moneyPtr(1750)},
		},
	}
	product.ID = 7

	snap := FromProduct(product)
	if snap.ProductID != "7" {
		t.Fatalf("unexpected product id: %s", snap.ProductID)
	}
	if !snap.HasVariants {
		t.Fatalf("expected variants flag")
	}
	variant, ok := snap.Variant("B")
	if !ok {
		t.Fatalf("expected variant B present")
	}
	if variant.DiscountedPrice == nil || !variant.DiscountedPrice.Decimal.Equal(decimal.NewFromInt(1750)) {
		t.Fatalf("expected discounted 1750, got %+v", variant.DiscountedPrice)
	}
}

func TestFromProductTBA(t *testing.T) {
	product := &models.Product{BasePriceRaw: " tba "}
	product.ID = 3
	if snap := FromProduct(product); !snap.PriceTBA {
		t.Fatalf("expected TBA marker to be case and whitespace insensitive")
	}
}
