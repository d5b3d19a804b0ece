package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/config"
	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/models"
	"github.com/tokri-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderTestEnv struct {
	db       *gorm.DB
	orders   *OrderService
	checkout *CheckoutService
	carts    *CartService
}

func newOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.ProductSKU{},
		&models.Coupon{}, &models.CouponUsage{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	// Submit/UpdateStatus 的事务走全局连接
	prevDB := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prevDB })

	productRepo := repository.NewProductRepository(db)
	skuRepo := repository.NewProductSKURepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	couponUsageRepo := repository.NewCouponUsageRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	productService := NewProductService(productRepo, skuRepo, categoryRepo)
	manager := cartstore.NewManager(cartstore.NewMemoryStorage(), cartstore.NewBus(4), nil)
	cartService := NewCartService(manager, productService)
	couponService := NewCouponService(couponRepo, couponUsageRepo)
	checkoutService := NewCheckoutService(config.CheckoutConfig{
		DeliveryRegion:      "Dhaka",
		DeliveryInsideRate:  60,
		DeliveryOutsideRate: 120,
	}, couponService, cartService)
	captchaService := NewCaptchaService(config.CaptchaConfig{})

	orderService := NewOrderService(
		orderRepo, productRepo, couponRepo, couponUsageRepo,
		productService, checkoutService, cartService, captchaService, nil,
	)

	return &orderTestEnv{db: db, orders: orderService, checkout: checkoutService, carts: cartService}
}

func (e *orderTestEnv) seedProduct(t *testing.T, product models.Product) models.Product {
	t.Helper()
	if err := e.db.Create(&product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func (e *orderTestEnv) addToCart(t *testing.T, token string, product models.Product, skuCode string, quantity int) {
	t.Helper()
	var loaded models.Product
	if err := e.db.Preload("SKUs").First(&loaded, product.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	item, err := e.carts.BuildItem(&loaded, skuCode, nil, quantity)
	if err != nil {
		t.Fatalf("build item failed: %v", err)
	}
	e.carts.Cart(token).AddItem(context.Background(), item)
}

func submitInput(token string) SubmitOrderInput {
	return SubmitOrderInput{
		Token:           token,
		CustomerName:    "Rahim Uddin",
		CustomerPhone:   "01711111111",
		DeliveryAddress: "House 12, Road 5, Dhanmondi",
		DeliveryRegion:  "Dhaka",
		PaymentMethod:   constants.PaymentMethodCOD,
	}
}

func TestSubmitOrderHappyPath(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, models.Product{
		CategoryID:   1,
		Slug:         "jamdani",
		Name:         "Jamdani Saree",
		BasePriceRaw: "4500",
		PriceAmount:  taka(4500),
		IsActive:     true,
	})
	env.addToCart(t, "tok-1", product, "", 2)

	order, err := env.orders.Submit(ctx, submitInput("tok-1"))
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if order.OrderNo == "" || order.Status != constants.OrderStatusSubmitted {
		t.Fatalf("unexpected order header: %+v", order)
	}
	if !order.Subtotal.Decimal.Equal(decimal.NewFromInt(9000)) {
		t.Fatalf("expected subtotal 9000, got %s", order.Subtotal.Decimal.String())
	}
	if !order.DeliveryCharge.Decimal.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected inside delivery 60, got %s", order.DeliveryCharge.Decimal.String())
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(9060)) {
		t.Fatalf("expected total 9060, got %s", order.TotalAmount.Decimal.String())
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}

	// 成功后购物车清空
	if env.carts.Cart("tok-1").Read(ctx).Count() != 0 {
		t.Fatalf("expected cart cleared after submit")
	}
}

func TestSubmitOrderEmptyCart(t *testing.T) {
	env := newOrderTestEnv(t)
	if _, err := env.orders.Submit(context.Background(), submitInput("tok-empty")); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got: %v", err)
	}
}

func TestSubmitOrderValidation(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, models.Product{
		CategoryID: 1, Slug: "p", Name: "P", BasePriceRaw: "100", PriceAmount: taka(100), IsActive: true,
	})
	env.addToCart(t, "tok-v", product, "", 1)

	missingRegion := submitInput("tok-v")
	missingRegion.DeliveryRegion = "  "
	if _, err := env.orders.Submit(ctx, missingRegion); !errors.Is(err, ErrDeliveryRegion) {
		t.Fatalf("expected ErrDeliveryRegion, got: %v", err)
	}

	badPayment := submitInput("tok-v")
	badPayment.PaymentMethod = "paypal"
	if _, err := env.orders.Submit(ctx, badPayment); !errors.Is(err, ErrPaymentMethod) {
		t.Fatalf("expected ErrPaymentMethod, got: %v", err)
	}

	// 校验失败不应清空购物车
	if env.carts.Cart("tok-v").Read(ctx).Count() != 1 {
		t.Fatalf("expected cart intact after failed submit")
	}
}

func TestSubmitOrderUsesServerSidePrices(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, models.Product{
		CategoryID: 1, Slug: "tws", Name: "TWS Earbuds", BasePriceRaw: "2500",
		PriceAmount: taka(2500), IsActive: true,
	})
	env.addToCart(t, "tok-p", product, "", 1)

	// 加入购物车后商品调价：下单金额必须取记录价而非行快照
	if err := env.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price_amount", taka(2000)).Error; err != nil {
		t.Fatalf("reprice failed: %v", err)
	}

	order, err := env.orders.Submit(ctx, submitInput("tok-p"))
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if !order.Subtotal.Decimal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected repriced subtotal 2000, got %s", order.Subtotal.Decimal.String())
	}
}

func TestSubmitOrderWithCouponRecordsUsage(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, models.Product{
		CategoryID: 1, Slug: "panjabi", Name: "Panjabi", BasePriceRaw: "2000",
		PriceAmount: taka(2000), IsActive: true,
	})
	coupon := models.Coupon{
		Code: "TAKA200", Type: constants.CouponTypeFixed, Value: taka(200),
		MinAmount: taka(1000), UsageLimit: 5, IsActive: true,
	}
	if err := env.db.Create(&coupon).Error; err != nil {
		t.Fatalf("seed coupon failed: %v", err)
	}

	env.addToCart(t, "tok-c", product, "", 1)
	if _, err := env.checkout.ApplyCoupon(ctx, "tok-c", "TAKA200"); err != nil {
		t.Fatalf("apply coupon error: %v", err)
	}

	order, err := env.orders.Submit(ctx, submitInput("tok-c"))
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if !order.DiscountAmount.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected discount 200, got %s", order.DiscountAmount.Decimal.String())
	}
	if order.CouponID == nil || order.CouponCode != "TAKA200" {
		t.Fatalf("expected coupon snapshot on order: %+v", order)
	}

	var reloaded models.Coupon
	if err := env.db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used_count 1, got %d", reloaded.UsedCount)
	}
	var usageCount int64
	if err := env.db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usageCount).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usageCount != 1 {
		t.Fatalf("expected 1 usage row, got %d", usageCount)
	}

	// 下单后结算会话释放，槽内不再有券
	if env.checkout.AppliedCoupon("tok-c") != nil {
		t.Fatalf("expected checkout session released after submit")
	}
}

func TestSubmitOrderEnforcesPerUserCouponLimit(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, models.Product{
		CategoryID: 1, Slug: "saree", Name: "Saree", BasePriceRaw: "2000",
		PriceAmount: taka(2000), IsActive: true,
	})
	coupon := models.Coupon{
		Code: "ONCE", Type: constants.CouponTypeFixed, Value: taka(100),
		UsageLimit: 10, PerUserLimit: 1, IsActive: true,
	}
	if err := env.db.Create(&coupon).Error; err != nil {
		t.Fatalf("seed coupon failed: %v", err)
	}

	env.addToCart(t, "tok-u1", product, "", 1)
	if _, err := env.checkout.ApplyCoupon(ctx, "tok-u1", "ONCE"); err != nil {
		t.Fatalf("apply coupon error: %v", err)
	}
	if _, err := env.orders.Submit(ctx, submitInput("tok-u1")); err != nil {
		t.Fatalf("first submit error: %v", err)
	}

	// 同一手机号第二单复用该券应被拒绝
	env.addToCart(t, "tok-u2", product, "", 1)
	if _, err := env.checkout.ApplyCoupon(ctx, "tok-u2", "ONCE"); err != nil {
		t.Fatalf("apply coupon error: %v", err)
	}
	if _, err := env.orders.Submit(ctx, submitInput("tok-u2")); !errors.Is(err, ErrCouponUserLimit) {
		t.Fatalf("expected ErrCouponUserLimit, got: %v", err)
	}

	// 换一个手机号仍可使用
	otherPhone := submitInput("tok-u2")
	otherPhone.CustomerPhone = "01822222222"
	if _, err := env.orders.Submit(ctx, otherPhone); err != nil {
		t.Fatalf("submit with different phone error: %v", err)
	}
}

func TestGetByOrderNoRequiresMatchingPhone(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, models.Product{
		CategoryID: 1, Slug: "p", Name: "P", BasePriceRaw: "100", PriceAmount: taka(100), IsActive: true,
	})
	env.addToCart(t, "tok-g", product, "", 1)
	order, err := env.orders.Submit(ctx, submitInput("tok-g"))
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}

	if _, err := env.orders.GetByOrderNo(order.OrderNo, "01711111111"); err != nil {
		t.Fatalf("lookup with matching phone failed: %v", err)
	}
	if _, err := env.orders.GetByOrderNo(order.OrderNo, "01999999999"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for wrong phone, got: %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, models.Product{
		CategoryID: 1, Slug: "p", Name: "P", BasePriceRaw: "100", PriceAmount: taka(100), IsActive: true,
	})
	env.addToCart(t, "tok-s", product, "", 1)
	order, err := env.orders.Submit(ctx, submitInput("tok-s"))
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}

	confirmed, err := env.orders.UpdateStatus(order.ID, constants.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if confirmed.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}

	// confirmed 不能回到 submitted
	if _, err := env.orders.UpdateStatus(order.ID, constants.OrderStatusSubmitted); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got: %v", err)
	}

	canceled, err := env.orders.UpdateStatus(order.ID, constants.OrderStatusCanceled)
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled {
		t.Fatalf("expected canceled, got %s", canceled.Status)
	}
	// 终态后不再允许流转
	if _, err := env.orders.UpdateStatus(order.ID, constants.OrderStatusConfirmed); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid from terminal state, got: %v", err)
	}
}

func TestCancelOrderReleasesCoupon(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, models.Product{
		CategoryID: 1, Slug: "p", Name: "P", BasePriceRaw: "2000", PriceAmount: taka(2000), IsActive: true,
	})
	coupon := models.Coupon{Code: "BACK", Type: constants.CouponTypeFixed, Value: taka(100), IsActive: true, UsageLimit: 5}
	if err := env.db.Create(&coupon).Error; err != nil {
		t.Fatalf("seed coupon failed: %v", err)
	}

	env.addToCart(t, "tok-r", product, "", 1)
	if _, err := env.checkout.ApplyCoupon(ctx, "tok-r", "BACK"); err != nil {
		t.Fatalf("apply coupon error: %v", err)
	}
	order, err := env.orders.Submit(ctx, submitInput("tok-r"))
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}

	if _, err := env.orders.UpdateStatus(order.ID, constants.OrderStatusCanceled); err != nil {
		t.Fatalf("cancel error: %v", err)
	}

	var reloaded models.Coupon
	if err := env.db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Fatalf("expected coupon usage released on cancel, got used_count %d", reloaded.UsedCount)
	}
}

func TestSubmitOrderVariantPricing(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, models.Product{
		CategoryID: 1, Slug: "epp", Name: "Eid Panjabi", BasePriceRaw: "1800",
		PriceAmount: taka(1800), IsActive: true,
		SKUs: []models.ProductSKU{
			{SKUCode: "EPP-L-NVY", SpecValues: models.StringMap{"size": "L"}, FinalPrice: taka(1950), DiscountedAmount: models.MoneyPtr(taka(1750)), IsActive: true},
		},
	})
	env.addToCart(t, "tok-sku", product, "EPP-L-NVY", 2)

	order, err := env.orders.Submit(ctx, submitInput("tok-sku"))
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	// 折后价低于规格原价时按折后价计
	if !order.Subtotal.Decimal.Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("expected subtotal 3500, got %s", order.Subtotal.Decimal.String())
	}
	if order.Items[0].SKUCode != "EPP-L-NVY" {
		t.Fatalf("expected sku code snapshot, got %s", order.Items[0].SKUCode)
	}
}
