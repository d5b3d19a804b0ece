package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tokri-next/internal/http/response"
	"github.com/tokri-next/internal/repository"
	"github.com/tokri-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if rawCategory := strings.TrimSpace(c.Query("category_id")); rawCategory != "" {
		if categoryID, err := strconv.ParseUint(rawCategory, 10, 64); err == nil {
			filter.CategoryID = uint(categoryID)
		}
	}
	if c.Query("featured") == "1" || c.Query("featured") == "true" {
		filter.OnlyFeatured = true
	}

	products, total, err := h.ProductService.ListPublic(filter)
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

// GetProductBySlug 根据 slug 获取商品详情
// 详情读取成功后，用最新价格对账当前令牌的购物车与心愿单。
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	product, err := h.ProductService.GetPublicBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "商品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "商品详情获取失败", err)
		return
	}

	if token := cartToken(c); token != "" {
		h.CartService.SyncProductPrices(c.Request.Context(), token, product)
	}

	response.Success(c, product)
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListActive()
	if err != nil {
		respondError(c, response.CodeInternal, "分类列表获取失败", err)
		return
	}
	response.Success(c, categories)
}
