package cartstore

import (
	"context"
	"testing"

	"github.com/tokri-next/internal/models"

	"github.com/shopspring/decimal"
)

// countingStorage 包装内存存储并统计写回次数
type countingStorage struct {
	*MemoryStorage
	saves int
}

func (s *countingStorage) Save(ctx context.Context, key string, data []byte) error {
	s.saves++
	return s.MemoryStorage.Save(ctx, key, data)
}

func newTestStore(mode Mode) (*Store, *countingStorage) {
	storage := &countingStorage{MemoryStorage: NewMemoryStorage()}
	return NewStore("cart:test-token", mode, storage, nil, nil), storage
}

func money(amount int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(amount))
}

func TestItemKeyIgnoresOptionOrder(t *testing.T) {
	a := Matcher{ProductID: "12", SKU: "SKU-1", SelectedOptions: map[string]string{"color": "Red", "size": "M"}}
	b := Matcher{ProductID: "12", SKU: "SKU-1", SelectedOptions: map[string]string{"size": "M", "color": "Red"}}
	if a.Key() != b.Key() {
		t.Fatalf("expected identical keys, got %q vs %q", a.Key(), b.Key())
	}
}

func TestItemKeyDistinguishesVariants(t *testing.T) {
	a := Matcher{ProductID: "12", SKU: "SKU-1"}
	b := Matcher{ProductID: "12", SKU: "SKU-2"}
	if a.Key() == b.Key() {
		t.Fatalf("expected different keys for different SKUs")
	}
	c := Matcher{ProductID: "12", SKU: "SKU-1", SelectedOptions: map[string]string{"size": "M"}}
	if a.Key() == c.Key() {
		t.Fatalf("expected different keys for different options")
	}
}

func TestCartAddAccumulatesQuantity(t *testing.T) {
	store, _ := newTestStore(ModeCart)
	ctx := context.Background()

	item := Item{ProductID: "1", Name: "Jamdani Saree", Price: money(4500), Quantity: 2}
	store.AddItem(ctx, item)
	env := store.AddItem(ctx, item)

	if len(env.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(env.Items))
	}
	if env.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", env.Items[0].Quantity)
	}
	if env.TotalQuantity() != 4 {
		t.Fatalf("expected total quantity 4, got %d", env.TotalQuantity())
	}
}

func TestCartAddDefaultsQuantityToOne(t *testing.T) {
	store, _ := newTestStore(ModeCart)
	env := store.AddItem(context.Background(), Item{ProductID: "1", Price: money(100), Quantity: 0})
	if env.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", env.Items[0].Quantity)
	}
}

func TestWishlistAddToggles(t *testing.T) {
	store, _ := newTestStore(ModeWishlist)
	ctx := context.Background()

	item := Item{ProductID: "7", Price: money(1800), Quantity: 5}
	env := store.AddItem(ctx, item)
	if len(env.Items) != 1 {
		t.Fatalf("expected 1 line after first add, got %d", len(env.Items))
	}
	if env.Items[0].Quantity != 1 {
		t.Fatalf("wishlist quantity should be pinned to 1, got %d", env.Items[0].Quantity)
	}

	env = store.AddItem(ctx, item)
	if len(env.Items) != 0 {
		t.Fatalf("expected toggle to remove the line, got %d lines", len(env.Items))
	}
	if store.Has(ctx, item.Matcher()) {
		t.Fatalf("expected item to be gone after toggle")
	}
}

func TestUpdateQuantityRemovesOnZero(t *testing.T) {
	store, _ := newTestStore(ModeCart)
	ctx := context.Background()

	item := Item{ProductID: "1", Price: money(100), Quantity: 3}
	store.AddItem(ctx, item)

	env := store.UpdateQuantity(ctx, item.Matcher(), 0)
	if len(env.Items) != 0 {
		t.Fatalf("expected line removed when quantity <= 0, got %d lines", len(env.Items))
	}
}

func TestUpdateQuantityMissingLineIsNoop(t *testing.T) {
	store, storage := newTestStore(ModeCart)
	ctx := context.Background()

	store.AddItem(ctx, Item{ProductID: "1", Price: money(100), Quantity: 1})
	savesBefore := storage.saves

	env := store.UpdateQuantity(ctx, Matcher{ProductID: "999"}, 5)
	if storage.saves != savesBefore {
		t.Fatalf("expected no write for missing line")
	}
	if len(env.Items) != 1 {
		t.Fatalf("expected existing line untouched, got %d lines", len(env.Items))
	}
}

func TestReadCorruptEnvelopeReturnsEmpty(t *testing.T) {
	storage := NewMemoryStorage()
	if err := storage.Save(context.Background(), "cart:broken", []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt blob failed: %v", err)
	}
	store := NewStore("cart:broken", ModeCart, storage, nil, nil)

	env := store.Read(context.Background())
	if len(env.Items) != 0 {
		t.Fatalf("expected empty envelope for corrupt blob, got %d items", len(env.Items))
	}
	if env.Items == nil {
		t.Fatalf("expected non-nil items slice")
	}
}

func TestClearResetsEnvelope(t *testing.T) {
	store, _ := newTestStore(ModeCart)
	ctx := context.Background()

	store.AddItem(ctx, Item{ProductID: "1", Price: money(100), Quantity: 2})
	env := store.Clear(ctx)
	if len(env.Items) != 0 {
		t.Fatalf("expected empty envelope after clear, got %d items", len(env.Items))
	}
	if env.Version != EnvelopeVersion {
		t.Fatalf("expected version %d, got %d", EnvelopeVersion, env.Version)
	}
	if env.UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at to be stamped on write")
	}
}

func TestUpdateItemPriceSkipsWriteWhenUnchanged(t *testing.T) {
	store, storage := newTestStore(ModeCart)
	ctx := context.Background()

	item := Item{ProductID: "1", Price: money(100), Quantity: 1}
	store.AddItem(ctx, item)
	savesBefore := storage.saves

	store.UpdateItemPrice(ctx, item.Matcher(), PricePatch{Price: money(100)})
	if storage.saves != savesBefore {
		t.Fatalf("expected no write when price is unchanged")
	}

	env := store.UpdateItemPrice(ctx, item.Matcher(), PricePatch{Price: money(90)})
	if storage.saves != savesBefore+1 {
		t.Fatalf("expected exactly one write for a real change")
	}
	if !env.Items[0].Price.Decimal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected patched price 90, got %s", env.Items[0].Price.Decimal.String())
	}
}

func TestUpdatePricesForProductPatchesAllVariants(t *testing.T) {
	store, _ := newTestStore(ModeCart)
	ctx := context.Background()

	store.AddItem(ctx, Item{ProductID: "5", SKU: "A", Price: money(100), Quantity: 1})
	store.AddItem(ctx, Item{ProductID: "5", SKU: "B", Price: money(120), Quantity: 1})
	store.AddItem(ctx, Item{ProductID: "6", Price: money(50), Quantity: 1})

	patched := money(80)
	env := store.UpdatePricesForProduct(ctx, "5", func(item Item) *PricePatch {
		if item.SKU == "B" {
			return nil
		}
		return &PricePatch{Price: patched}
	})

	for _, item := range env.Items {
		switch {
		case item.ProductID == "5" && item.SKU == "A":
			if !item.Price.Decimal.Equal(patched.Decimal) {
				t.Fatalf("expected SKU A patched to 80, got %s", item.Price.Decimal.String())
			}
		case item.ProductID == "5" && item.SKU == "B":
			if !item.Price.Decimal.Equal(decimal.NewFromInt(120)) {
				t.Fatalf("expected SKU B untouched, got %s", item.Price.Decimal.String())
			}
		case item.ProductID == "6":
			if !item.Price.Decimal.Equal(decimal.NewFromInt(50)) {
				t.Fatalf("expected other product untouched, got %s", item.Price.Decimal.String())
			}
		}
	}
}

func TestEnvelopeSubTotalUsesEffectivePrice(t *testing.T) {
	env := Envelope{Items: []Item{
		{ProductID: "1", Price: money(100), Quantity: 2},
		{ProductID: "2", Price: money(50), Quantity: 1},
	}}
	if !env.SubTotal().Decimal.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected subtotal 250, got %s", env.SubTotal().Decimal.String())
	}
}
