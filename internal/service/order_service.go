package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/logger"
	"github.com/tokri-next/internal/models"
	"github.com/tokri-next/internal/queue"
	"github.com/tokri-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
// 下单以服务端记录为权威：逐行重新解析价格、重新计算整单金额，
// 购物车快照仅提供行定位与数量。
type OrderService struct {
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	couponRepo      repository.CouponRepository
	couponUsageRepo repository.CouponUsageRepository
	productService  *ProductService
	checkoutService *CheckoutService
	cartService     *CartService
	captchaService  *CaptchaService
	queueClient     *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	couponUsageRepo repository.CouponUsageRepository,
	productService *ProductService,
	checkoutService *CheckoutService,
	cartService *CartService,
	captchaService *CaptchaService,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		couponRepo:      couponRepo,
		couponUsageRepo: couponUsageRepo,
		productService:  productService,
		checkoutService: checkoutService,
		cartService:     cartService,
		captchaService:  captchaService,
		queueClient:     queueClient,
	}
}

// SubmitOrderInput 提交订单输入
type SubmitOrderInput struct {
	Token           string
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	DeliveryAddress string
	DeliveryRegion  string
	PaymentMethod   string
	ClientIP        string
	Captcha         CaptchaVerifyPayload
}

// 订单状态流转表
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusSubmitted: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCanceled:  true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusCanceled: true,
	},
}

// Submit 提交订单
// 失败时购物车保持原样，允许客户端重试；成功后清空购物车并释放结算会话。
func (s *OrderService) Submit(ctx context.Context, input SubmitOrderInput) (*models.Order, error) {
	if err := s.captchaService.Verify(constants.CaptchaSceneOrderSubmit, input.Captcha); err != nil {
		return nil, err
	}
	if err := validateSubmitInput(&input); err != nil {
		return nil, err
	}

	cart := s.cartService.Cart(input.Token)
	env := cart.Read(ctx)
	if len(env.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items, subtotal, hasFreeDelivery, err := s.buildOrderItems(env.Items)
	if err != nil {
		return nil, err
	}

	coupon := s.checkoutService.AppliedCoupon(input.Token)
	quote := s.checkoutService.Engine().Quote(subtotal, hasFreeDelivery, input.DeliveryRegion, coupon)

	order := &models.Order{
		OrderNo:         generateOrderNo(),
		Status:          constants.OrderStatusSubmitted,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerEmail:   input.CustomerEmail,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryRegion:  input.DeliveryRegion,
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        quote.Subtotal,
		DeliveryCharge:  quote.DeliveryCharge,
		DiscountAmount:  quote.Discount,
		TotalAmount:     quote.GrandTotal,
		ClientIP:        input.ClientIP,
		Items:           items,
	}

	// 券在槽内通过校验后仍可能被后台下线或用尽，落库前按记录复核一次
	var couponRecord *models.Coupon
	if coupon != nil {
		couponRecord, err = s.couponRepo.GetByCode(coupon.Code)
		if err != nil {
			return nil, err
		}
		if couponRecord == nil || !couponRecord.IsActive {
			return nil, ErrCouponInvalid
		}
		if couponRecord.UsageLimit > 0 && couponRecord.UsedCount >= couponRecord.UsageLimit {
			return nil, ErrCouponUsageLimit
		}
		if couponRecord.PerUserLimit > 0 {
			used, err := s.couponUsageRepo.CountByCouponAndPhone(couponRecord.ID, input.CustomerPhone)
			if err != nil {
				return nil, err
			}
			if used >= int64(couponRecord.PerUserLimit) {
				return nil, ErrCouponUserLimit
			}
		}
		order.CouponID = &couponRecord.ID
		order.CouponCode = couponRecord.Code
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		if couponRecord != nil {
			usageRepo := s.couponUsageRepo.WithTx(tx)
			couponRepo := s.couponRepo.WithTx(tx)
			usage := &models.CouponUsage{
				CouponID:       couponRecord.ID,
				OrderID:        order.ID,
				CustomerPhone:  input.CustomerPhone,
				DiscountAmount: quote.Discount,
			}
			if err := usageRepo.Create(usage); err != nil {
				return err
			}
			if err := couponRepo.IncrementUsedCount(couponRecord.ID, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cart.Clear(ctx)
	s.checkoutService.ResetSession(input.Token)

	if err := s.queueClient.EnqueueOrderConfirmEmail(queue.OrderConfirmEmailPayload{OrderID: order.ID}); err != nil {
		logger.Warnw("enqueue_order_confirm_email_failed", "order_id", order.ID, "error", err)
	}
	if err := s.queueClient.EnqueueOrderStaleReminder(queue.OrderStaleReminderPayload{OrderID: order.ID}, 24*time.Hour); err != nil {
		logger.Warnw("enqueue_order_stale_reminder_failed", "order_id", order.ID, "error", err)
	}

	logger.Infow("order_submitted",
		"order_no", order.OrderNo,
		"total", order.TotalAmount.String(),
		"items", len(order.Items),
	)
	return order, nil
}

// buildOrderItems 把购物车行转换为订单项（价格以商品记录为准）
func (s *OrderService) buildOrderItems(lines []cartstore.Item) ([]models.OrderItem, models.Money, bool, error) {
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]struct{}, len(lines))
	for _, line := range lines {
		id, err := parseProductID(line.ProductID)
		if err != nil {
			return nil, models.Money{}, false, ErrInvalidOrderItem
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, models.Money{}, false, err
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero
	hasFreeDelivery := false

	for _, line := range lines {
		id, _ := parseProductID(line.ProductID)
		product, ok := byID[id]
		if !ok || !product.IsActive {
			return nil, models.Money{}, false, ErrProductNotFound
		}
		if line.Quantity < 1 {
			return nil, models.Money{}, false, ErrInvalidOrderItem
		}

		price, sku, err := s.productService.ResolvePricing(product, line.SKU)
		if err != nil {
			return nil, models.Money{}, false, err
		}

		total := price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(total)
		if product.IsFreeDelivery {
			hasFreeDelivery = true
		}

		item := models.OrderItem{
			ProductID:      product.ID,
			SKUCode:        line.SKU,
			Name:           product.Name,
			Slug:           product.Slug,
			UnitPrice:      price,
			Quantity:       line.Quantity,
			TotalPrice:     models.NewMoneyFromDecimal(total),
			IsFreeDelivery: product.IsFreeDelivery,
		}
		if len(product.Images) > 0 {
			item.Image = product.Images[0]
		}
		if sku != nil && len(sku.SpecValues) > 0 {
			item.SelectedOptions = sku.SpecValues
		} else if len(line.SelectedOptions) > 0 {
			item.SelectedOptions = models.StringMap(line.SelectedOptions)
		}
		items = append(items, item)
	}

	return items, models.NewMoneyFromDecimal(subtotal), hasFreeDelivery, nil
}

// GetByOrderNo 按订单编号查询（前台回执页，需要手机号匹配防枚举）
func (s *OrderService) GetByOrderNo(orderNo, phone string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil || order.CustomerPhone != strings.TrimSpace(phone) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByID 后台按ID查询订单
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDWithItems(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List 后台订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// UpdateStatus 后台流转订单状态
// 取消已用券订单时回退券的使用次数。
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !allowedTransitions[order.Status][status] {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.UpdateStatus(order.ID, status, now); err != nil {
			return err
		}
		if status == constants.OrderStatusCanceled && order.CouponID != nil {
			couponRepo := s.couponRepo.WithTx(tx)
			if err := couponRepo.DecrementUsedCount(*order.CouponID, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetByIDWithItems(id)
}

// ListStaleSubmitted 查询滞留的已提交订单（提醒任务用）
func (s *OrderService) ListStaleSubmitted(olderThan time.Duration, limit int) ([]models.Order, error) {
	return s.orderRepo.ListSubmittedBefore(time.Now().Add(-olderThan), limit)
}

func validateSubmitInput(input *SubmitOrderInput) error {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	input.CustomerEmail = strings.TrimSpace(input.CustomerEmail)
	input.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)
	input.DeliveryRegion = strings.TrimSpace(input.DeliveryRegion)
	input.PaymentMethod = strings.ToLower(strings.TrimSpace(input.PaymentMethod))

	if input.CustomerName == "" || input.CustomerPhone == "" || input.DeliveryAddress == "" {
		return ErrInvalidOrderItem
	}
	if input.DeliveryRegion == "" {
		return ErrDeliveryRegion
	}
	switch input.PaymentMethod {
	case constants.PaymentMethodCOD, constants.PaymentMethodBkash, constants.PaymentMethodNagad, constants.PaymentMethodRocket:
		return nil
	default:
		return ErrPaymentMethod
	}
}

func parseProductID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidOrderItem
	}
	return uint(id), nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("TK%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
