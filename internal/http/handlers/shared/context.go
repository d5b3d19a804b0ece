package shared

import (
	"strings"

	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidMsg, typeInvalidMsg string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "未登录或登录已过期", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidMsg, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidMsg, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidMsg, nil)
		return 0, false
	}
}

// CartToken 读取请求携带的购物车令牌
// 优先取请求头，其次取 query 参数；令牌缺失时返回空串，由调用方决定是否拒绝。
func CartToken(c *gin.Context) string {
	if c == nil {
		return ""
	}
	token := strings.TrimSpace(c.GetHeader(constants.CartTokenHeader))
	if token == "" {
		token = strings.TrimSpace(c.Query("cart_token"))
	}
	return token
}

// RequireCartToken 读取购物车令牌，缺失时返回 400。
func RequireCartToken(c *gin.Context) (string, bool) {
	token := CartToken(c)
	if token == "" {
		RespondError(c, response.CodeBadRequest, "缺少购物车令牌", nil)
		return "", false
	}
	return token, true
}
