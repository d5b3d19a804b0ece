package checkout

import (
	"testing"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/models"

	"github.com/shopspring/decimal"
)

func testRates() DeliveryRates {
	return DeliveryRates{
		InsideRegion: "Dhaka",
		InsideRate:   models.NewMoneyFromInt(60),
		OutsideRate:  models.NewMoneyFromInt(120),
	}
}

func money(amount int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(amount))
}

func assertAmount(t *testing.T, name string, got models.Money, want int64) {
	t.Helper()
	if !got.Decimal.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("%s: expected %d, got %s", name, want, got.Decimal.String())
	}
}

func TestQuoteInsideRegionRate(t *testing.T) {
	engine := NewEngine(testRates())
	quote := engine.Quote(money(1000), false, "Dhaka", nil)
	assertAmount(t, "delivery", quote.DeliveryCharge, 60)
	assertAmount(t, "grand_total", quote.GrandTotal, 1060)
}

func TestQuoteInsideRegionCaseInsensitive(t *testing.T) {
	engine := NewEngine(testRates())
	quote := engine.Quote(money(1000), false, "dhaka", nil)
	assertAmount(t, "delivery", quote.DeliveryCharge, 60)
}

func TestQuoteOutsideRegionRate(t *testing.T) {
	engine := NewEngine(testRates())
	quote := engine.Quote(money(1000), false, "Chattogram", nil)
	assertAmount(t, "delivery", quote.DeliveryCharge, 120)
	assertAmount(t, "grand_total", quote.GrandTotal, 1120)
}

func TestQuoteEmptyRegionNoDelivery(t *testing.T) {
	engine := NewEngine(testRates())
	quote := engine.Quote(money(1000), false, "  ", nil)
	assertAmount(t, "delivery", quote.DeliveryCharge, 0)
	assertAmount(t, "grand_total", quote.GrandTotal, 1000)
}

func TestQuoteFreeDeliveryItemWaivesCharge(t *testing.T) {
	engine := NewEngine(testRates())
	quote := engine.Quote(money(1000), true, "Chattogram", nil)
	assertAmount(t, "delivery", quote.DeliveryCharge, 0)
}

func TestQuoteFreeDeliveryCoupon(t *testing.T) {
	engine := NewEngine(testRates())
	coupon := &AppliedCoupon{Code: "FREESHIP", Type: constants.CouponTypeFreeDelivery}
	quote := engine.Quote(money(1000), false, "Dhaka", coupon)
	assertAmount(t, "delivery", quote.DeliveryCharge, 0)
	assertAmount(t, "discount", quote.Discount, 0)
	assertAmount(t, "grand_total", quote.GrandTotal, 1000)
}

func TestQuotePercentCoupon(t *testing.T) {
	engine := NewEngine(testRates())
	coupon := &AppliedCoupon{Code: "WELCOME10", Type: constants.CouponTypePercent, Value: money(10)}
	quote := engine.Quote(money(1000), false, "Dhaka", coupon)
	assertAmount(t, "discount", quote.Discount, 100)
	assertAmount(t, "grand_total", quote.GrandTotal, 960)
}

func TestQuotePercentCouponClampedTo100(t *testing.T) {
	engine := NewEngine(testRates())
	coupon := &AppliedCoupon{Type: constants.CouponTypePercent, Value: money(150)}
	quote := engine.Quote(money(1000), false, "", coupon)
	assertAmount(t, "discount", quote.Discount, 1000)
	assertAmount(t, "grand_total", quote.GrandTotal, 0)
}

func TestQuoteNegativePercentTreatedAsZero(t *testing.T) {
	engine := NewEngine(testRates())
	coupon := &AppliedCoupon{Type: constants.CouponTypePercent, Value: money(-5)}
	quote := engine.Quote(money(1000), false, "", coupon)
	assertAmount(t, "discount", quote.Discount, 0)
}

func TestQuoteFixedCouponCappedAtSubtotal(t *testing.T) {
	engine := NewEngine(testRates())
	coupon := &AppliedCoupon{Type: constants.CouponTypeFixed, Value: money(500)}
	quote := engine.Quote(money(300), false, "", coupon)
	assertAmount(t, "discount", quote.Discount, 300)
	assertAmount(t, "grand_total", quote.GrandTotal, 0)
}

func TestQuoteGrandTotalFlooredAtZero(t *testing.T) {
	engine := NewEngine(testRates())
	// 定额券吃满小计后仍有运费，总额不应为负
	coupon := &AppliedCoupon{Type: constants.CouponTypeFixed, Value: money(1000)}
	quote := engine.Quote(money(1000), false, "Dhaka", coupon)
	assertAmount(t, "grand_total", quote.GrandTotal, 60)

	zero := engine.Quote(money(0), false, "", coupon)
	assertAmount(t, "grand_total", zero.GrandTotal, 0)
}

func TestQuoteEnvelopeAggregatesLines(t *testing.T) {
	engine := NewEngine(testRates())
	env := cartstore.Envelope{Items: []cartstore.Item{
		{ProductID: "1", Price: money(450), Quantity: 2},
		{ProductID: "2", Price: money(100), Quantity: 1, IsFreeDelivery: true},
	}}
	quote := engine.QuoteEnvelope(env, "Chattogram", nil)
	assertAmount(t, "subtotal", quote.Subtotal, 1000)
	assertAmount(t, "delivery", quote.DeliveryCharge, 0)
	assertAmount(t, "grand_total", quote.GrandTotal, 1000)
}
