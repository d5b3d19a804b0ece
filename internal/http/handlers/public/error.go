package public

import (
	handlershared "github.com/tokri-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func cartToken(c *gin.Context) string {
	return handlershared.CartToken(c)
}

func requireCartToken(c *gin.Context) (string, bool) {
	return handlershared.RequireCartToken(c)
}
