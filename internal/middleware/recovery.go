package middleware

import (
	"fmt"
	"runtime/debug"

	"shop-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				// 记录堆栈信息
				stack := string(debug.Stack())
				zap.L().Error("发生panic",
					zap.Any("error", r),
					zap.String("stack", stack),
					zap.String("request_id", c.GetString(ContextRequestID)))

				errors.HandleError(c, errors.Wrap(errors.ErrInternal, "Internal server error", fmt.Errorf("panic: %v", r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}
