package service

import (
	"strings"

	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/models"
	"github.com/tokri-next/internal/pricesync"
	"github.com/tokri-next/internal/repository"
)

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	skuRepo      repository.ProductSKURepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(
	productRepo repository.ProductRepository,
	skuRepo repository.ProductSKURepository,
	categoryRepo repository.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		skuRepo:      skuRepo,
		categoryRepo: categoryRepo,
	}
}

// ListPublic 前台商品列表（仅上架商品）
func (s *ProductService) ListPublic(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	filter.WithCategory = true
	return s.productRepo.List(filter)
}

// GetPublicBySlug 前台商品详情（仅上架商品，预载规格）
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Snapshot 把商品记录转换为价格对账快照
func (s *ProductService) Snapshot(product *models.Product) pricesync.ProductSnapshot {
	return pricesync.FromProduct(product)
}

// ResolvePricing 解析下单行的权威价格
// 带规格商品必须给出规格编码并按编码取规格价；无规格商品取商品级价格。
// 价格待定（TBA）的商品不可下单。
func (s *ProductService) ResolvePricing(product *models.Product, skuCode string) (models.Money, *models.ProductSKU, error) {
	if product.PriceTBA() {
		return models.Money{}, nil, ErrInvalidOrderItem
	}
	if product.HasVariants() {
		code := strings.TrimSpace(skuCode)
		if code == "" {
			return models.Money{}, nil, ErrInvalidOrderItem
		}
		for i := range product.SKUs {
			sku := &product.SKUs[i]
			if sku.SKUCode != code {
				continue
			}
			price := sku.FinalPrice
			if sku.DiscountedAmount != nil && sku.DiscountedAmount.Decimal.LessThan(sku.FinalPrice.Decimal) {
				price = *sku.DiscountedAmount
			}
			return price, sku, nil
		}
		return models.Money{}, nil, ErrSKUNotFound
	}

	price := product.PriceAmount
	if product.DiscountedAmount != nil && product.DiscountedAmount.Decimal.LessThan(product.PriceAmount.Decimal) {
		price = *product.DiscountedAmount
	}
	return price, nil, nil
}

// ListAdmin 后台商品列表
func (s *ProductService) ListAdmin(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.WithCategory = true
	filter.WithSKUs = true
	return s.productRepo.List(filter)
}

// GetByID 后台按ID获取商品（预载规格）
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByIDWithSKUs(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(product *models.Product, skus []models.ProductSKU) error {
	if err := s.normalize(product); err != nil {
		return err
	}
	existing, err := s.productRepo.GetBySlug(product.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrProductSlugExists
	}
	category, err := s.categoryRepo.GetByID(product.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	if err := s.productRepo.Create(product); err != nil {
		return err
	}
	if len(skus) > 0 {
		return s.skuRepo.ReplaceForProduct(product.ID, skus)
	}
	return nil
}

// Update 更新商品（skus 为 nil 时保持规格不变）
func (s *ProductService) Update(product *models.Product, skus []models.ProductSKU) error {
	if err := s.normalize(product); err != nil {
		return err
	}
	existing, err := s.productRepo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}
	if product.Slug != existing.Slug {
		conflict, err := s.productRepo.GetBySlug(product.Slug)
		if err != nil {
			return err
		}
		if conflict != nil && conflict.ID != product.ID {
			return ErrProductSlugExists
		}
	}
	if err := s.productRepo.Update(product); err != nil {
		return err
	}
	if skus != nil {
		return s.skuRepo.ReplaceForProduct(product.ID, skus)
	}
	return nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

// normalize 规范化价格字段：原始输入为 TBA 时金额归零，否则解析为金额
func (s *ProductService) normalize(product *models.Product) error {
	raw := strings.TrimSpace(product.BasePriceRaw)
	if raw == "" {
		raw = "0"
	}
	product.BasePriceRaw = raw
	if strings.EqualFold(raw, constants.PriceMarkerTBA) {
		product.PriceAmount = models.NewMoneyFromInt(0)
		product.DiscountedAmount = nil
		return nil
	}
	amount, err := models.NewMoneyFromString(raw)
	if err != nil {
		return ErrProductPriceBad
	}
	product.PriceAmount = amount
	return nil
}
