package middleware

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"shop-backend/internal/errors"
	"shop-backend/internal/model"
	"shop-backend/internal/service"
	"shop-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"

	requestTimeout = 5 * time.Second
)

// AuthMiddleware 校验 Bearer 访问令牌，并把用户ID和角色放进上下文
func AuthMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		util.Logger.Debug("进入认证中间件",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication credentials were not provided."))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authorization header must contain two space-delimited values"))
			c.Abort()
			return
		}

		userID, err := util.ValidateAccessToken(parts[1])
		if err != nil {
			code := errors.ErrInvalidToken
			if stderrors.Is(err, jwt.ErrTokenExpired) {
				code = errors.ErrTokenExpired
			}
			util.Logger.Info("令牌校验失败", zap.Error(err))
			errors.HandleError(c, errors.Wrap(code, "Given token not valid for any token type", err))
			c.Abort()
			return
		}

		user, err := userService.GetUserByID(ctx, userID)
		if err != nil {
			if errors.HasCode(err, errors.ErrUserNotFound) {
				errors.HandleError(c, errors.New(errors.ErrInvalidToken, "User not found"))
			} else {
				errors.HandleError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "请求超时"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}

// AdminMiddleware 必须放在 AuthMiddleware 之后
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			util.Logger.Warn("用户ID不存在")
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication credentials were not provided."))
			c.Abort()
			return
		}

		if c.GetString(ContextUserRole) != model.RoleAdmin {
			util.Logger.Warn("非管理员访问",
				zap.Uint("user_id", userID.(uint)),
				zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrForbidden, "You do not have permission to perform this action."))
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUserID 从上下文中取出已认证用户的ID
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
