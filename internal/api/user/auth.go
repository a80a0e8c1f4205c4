package user

import (
	"net/http"

	"shop-backend/internal/errors"
	"shop-backend/internal/serializer"
	"shop-backend/internal/service"
	"shop-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// Register 处理用户注册请求，同时创建空的用户资料
func (h *AuthHandler) Register(c *gin.Context) {
	var req serializer.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.FromBindingError(err))
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.HasCode(err, errors.ErrValidation) {
			util.Logger.Warn("注册失败，用户名已存在", zap.String("username", req.Username))
		} else {
			util.Logger.Error("注册失败", zap.Error(err))
		}
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    serializer.NewUser(user),
	})
}

// Login 校验用户名密码并下发令牌对
func (h *AuthHandler) Login(c *gin.Context) {
	var req serializer.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.FromBindingError(err))
		return
	}

	user, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	pair, err := util.GenerateTokenPair(user.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	errors.HandleSuccess(c, http.StatusOK, pair)
}

// RefreshToken 用刷新令牌换取新的访问令牌
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req serializer.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.FromBindingError(err))
		return
	}

	access, err := util.RefreshAccessToken(req.Refresh)
	if err != nil {
		util.Logger.Info("刷新令牌失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "Token is invalid or expired", err))
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{"access": access})
}
