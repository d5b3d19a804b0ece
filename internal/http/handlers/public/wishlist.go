package public

import (
	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func wishlistPayload(env cartstore.Envelope) gin.H {
	return gin.H{
		"items":      env.Items,
		"updated_at": env.UpdatedAt,
		"version":    env.Version,
		"count":      env.Count(),
	}
}

// GetWishlist 获取心愿单
func (h *Handler) GetWishlist(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	env := h.CartService.Wishlist(token).Read(c.Request.Context())
	response.Success(c, wishlistPayload(env))
}

// ToggleWishlistItem 收藏/取消收藏
// 同一行再次加入视为取消收藏，数量固定为 1。
func (h *Handler) ToggleWishlistItem(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	item, err := h.buildLineItem(req.ProductID, req.SKUCode, req.Options, 1)
	if err != nil {
		respondCartItemError(c, err)
		return
	}

	wishlist := h.CartService.Wishlist(token)
	env := wishlist.AddItem(c.Request.Context(), item)
	saved := wishlist.Has(c.Request.Context(), item.Matcher())
	payload := wishlistPayload(env)
	payload["saved"] = saved
	response.Success(c, payload)
}

// RemoveWishlistItem 移除心愿单行
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
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
	env := h.CartService.Wishlist(token).RemoveItem(c.Request.Context(), matcher)
	response.Success(c, wishlistPayload(env))
}

// ClearWishlist 清空心愿单
func (h *Handler) ClearWishlist(c *gin.Context) {
	token, ok := requireCartToken(c)
	if !ok {
		return
	}
	env := h.CartService.Wishlist(token).Clear(c.Request.Context())
	response.Success(c, wishlistPayload(env))
}
