package public

import (
	"strconv"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/http/response"
	"github.com/tokri-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartAddRequest 加入购物车请求
type CartAddRequest struct {
	ProductID uint              `json:"product_id" binding:"required"`
	SKUCode   string            `json:"sku_code"`
	Options   map[string]string `json:"options"`
	Quantity  int               `json:"quantity"`
}

// CartLineRequest 定位购物车行的请求（复合键三要素）
type CartLineRequest struct {
	ProductID uint              `json:"product_id" binding:"required"`
	SKUCode   string            `json:"sku_code"`
	Options   map[string]string `json:"options"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	ProductID uint              `json:"product_id" binding:"required"`
	SKUCode   string            `json:"sku_code"`
	Options   map[string]string `json:"options"`
	Quantity  int               `json:"quantity"`
}

func lineMatcher(productID uint, skuCode string, options map[string]string) cartstore.Matcher {
	return cartstore.Matcher{
		ProductID:       strconv.FormatUint(uint64(productID), 10),
		SKU:             skuCode,
		SelectedOptions: options,
	}
}

// buildLineItem 加载商品并构建行项目快照
func (h *Handler) buildLineItem(productID uint, skuCode string, options map[string]string, quantity int) (cartstore.Item, error) {
	product, err := h.ProductService.GetByID(productID)
	if err != nil {
		return cartstore.Item{}, err
	}
	if !product.IsActive {
		return cartstore.Item{}, service.ErrProductInactive
	}
	return h.CartService.BuildItem(product, skuCode, options, quantity)
}

func envelopePayload(env cartstore.Envelope) gin.H {
	return gin.H{
		"items":          env.Items,
		"updated_at":     env.UpdatedAt,
		"version":        env.Version,
		"total_quantity": env.TotalQuantity(),
		"subtotal":       env.SubTotal(),
	}
}

// MintCartToken 签发新的购物车令牌
// 令牌由客户端持有，同一令牌的购物车与心愿单在各端共享。
func (h *Handler) MintCartToken(c *gin.Context) {
	response.Success(c, gin.H{"cart_token": uuid.NewString()})
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	env := h.CartService.Cart(token).Read(c.Request.Context())
	response.Success(c, envelopePayload(env))
}

// AddCartItem 加入购物车（同键行累加数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	var req CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	item, err := h.buildLineItem(req.ProductID, req.SKUCode, req.Options, req.Quantity)
	if err != nil {
		respondCartItemError(c, err)
		return
	}

	env := h.CartService.Cart(token).AddItem(c.Request.Context(), item)
	response.Success(c, envelopePayload(env))
}

// UpdateCartQuantity 设置购物车行数量（小于等于 0 时移除该行）
func (h *Handler) UpdateCartQuantity(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	matcher := lineMatcher(req.ProductID, req.SKUCode, req.Options)
	env := h.CartService.Cart(token).UpdateQuantity(c.Request.Context(), matcher, req.Quantity)
	response.Success(c, envelopePayload(env))
}

// RemoveCartItem 移除购物车行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	matcher := lineMatcher(req.ProductID, req.SKUCode, req.Options)
	env := h.CartService.Cart(token).RemoveItem(c.Request.Context(), matcher)
	response.Success(c, envelopePayload(env))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	env := h.CartService.Cart(token).Clear(c.Request.Context())
	response.Success(c, envelopePayload(env))
}
