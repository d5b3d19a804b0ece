package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tokri-next/internal/http/response"
	"github.com/tokri-next/internal/models"
	"github.com/tokri-next/internal/repository"
	"github.com/tokri-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductSKURequest 商品规格请求
type ProductSKURequest struct {
	SKUCode         string            `json:"sku_code" binding:"required"`
	SpecValues      map[string]string `json:"spec_values"`
	FinalPrice      float64           `json:"final_price"`
	DiscountedPrice *float64          `json:"discounted_price"`
	IsActive        *bool             `json:"is_active"`
	SortOrder       int               `json:"sort_order"`
}

// CreateProductRequest 创建商品请求
// base_price 为原始输入：数字串或 TBA（价格待定）。
type CreateProductRequest struct {
	CategoryID      uint                `json:"category_id" binding:"required"`
	BrandID         *uint               `json:"brand_id"`
	Slug            string              `json:"slug" binding:"required"`
	Name            string              `json:"name" binding:"required"`
	Description     string              `json:"description"`
	BasePrice       string              `json:"base_price" binding:"required"`
	DiscountedPrice *float64            `json:"discounted_price"`
	Images          []string            `json:"images"`
	Tags            []string            `json:"tags"`
	IsFreeDelivery  bool                `json:"is_free_delivery"`
	IsFeatured      bool                `json:"is_featured"`
	IsActive        *bool               `json:"is_active"`
	SortOrder       int                 `json:"sort_order"`
	SKUs            []ProductSKURequest `json:"skus"`
}

func moneyPtrFromFloat(value *float64) *models.Money {
	if value == nil {
		return nil
	}
	return models.MoneyPtr(models.NewMoneyFromDecimal(decimal.NewFromFloat(*value)))
}

func (r CreateProductRequest) toModel() models.Product {
	product := models.Product{
		CategoryID:       r.CategoryID,
		BrandID:          r.BrandID,
		Slug:             strings.TrimSpace(r.Slug),
		Name:             strings.TrimSpace(r.Name),
		Description:      r.Description,
		BasePriceRaw:     strings.TrimSpace(r.BasePrice),
		DiscountedAmount: moneyPtrFromFloat(r.DiscountedPrice),
		Images:           r.Images,
		Tags:             r.Tags,
		IsFreeDelivery:   r.IsFreeDelivery,
		IsFeatured:       r.IsFeatured,
		IsActive:         true,
		SortOrder:        r.SortOrder,
	}
	if r.IsActive != nil {
		product.IsActive = *r.IsActive
	}
	return product
}

// toSKUModels 规格请求转换为模型
// skus 字段缺省（nil）表示保持现有规格不变，空数组表示清空规格。
func (r CreateProductRequest) toSKUModels() []models.ProductSKU {
	if r.SKUs == nil {
		return nil
	}
	skus := make([]models.ProductSKU, 0, len(r.SKUs))
	for _, item := range r.SKUs {
		sku := models.ProductSKU{
			SKUCode:          strings.TrimSpace(item.SKUCode),
			SpecValues:       item.SpecValues,
			FinalPrice:       models.NewMoneyFromDecimal(decimal.NewFromFloat(item.FinalPrice)),
			DiscountedAmount: moneyPtrFromFloat(item.DiscountedPrice),
			IsActive:         true,
			SortOrder:        item.SortOrder,
		}
		if item.IsActive != nil {
			sku.IsActive = *item.IsActive
		}
		skus = append(skus, sku)
	}
	return skus
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if rawCategory := strings.TrimSpace(c.Query("category_id")); rawCategory != "" {
		parsed, err := strconv.ParseUint(rawCategory, 10, 64)
		if err != nil || parsed == 0 {
			respondError(c, response.CodeBadRequest, "请求参数不合法", err)
			return
		}
		filter.CategoryID = uint(parsed)
	}

	products, total, err := h.ProductService.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "商品列表获取失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	product, err := h.ProductService.GetByID(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "商品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "商品详情获取失败", err)
		return
	}

	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	product := req.toModel()
	if err := h.ProductService.Create(&product, req.toSKUModels()); err != nil {
		respondProductSaveError(c, err, "商品创建失败")
		return
	}

	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	product := req.toModel()
	product.ID = uint(productID)
	if err := h.ProductService.Update(&product, req.toSKUModels()); err != nil {
		respondProductSaveError(c, err, "商品更新失败")
		return
	}

	response.Success(c, product)
}

func respondProductSaveError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "商品不存在", nil)
	case errors.Is(err, service.ErrProductSlugExists):
		respondError(c, response.CodeBadRequest, "商品标识已存在", nil)
	case errors.Is(err, service.ErrProductPriceBad):
		respondError(c, response.CodeBadRequest, "商品价格不合法", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeBadRequest, "分类不存在", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// DeleteProduct 删除商品（软删除）
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	if err := h.ProductService.Delete(uint(productID)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "商品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "商品删除失败", err)
		return
	}

	response.Success(c, nil)
}
