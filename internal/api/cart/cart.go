package cart

import (
	"net/http"

	"shop-backend/internal/errors"
	"shop-backend/internal/middleware"
	"shop-backend/internal/serializer"
	"shop-backend/internal/service"
	"shop-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CartHandler 处理当前用户的购物车请求
type CartHandler struct {
	cartService service.CartServiceInterface
}

func NewCartHandler(cartService service.CartServiceInterface) *CartHandler {
	return &CartHandler{cartService}
}

// ViewCart 返回购物车，首次访问时创建
func (h *CartHandler) ViewCart(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication credentials were not provided."))
		return
	}

	cart, err := h.cartService.ViewCart(c.Request.Context(), userID)
	if err != nil {
		util.Logger.Error("获取购物车失败", zap.Error(err), zap.Uint("user_id", userID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, serializer.NewCart(cart))
}

// AddToCart 加入商品，数量默认为 1，重复加入时累加
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication credentials were not provided."))
		return
	}

	var req serializer.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Logger.Warn("加入购物车失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.FromBindingError(err))
		return
	}

	cart, err := h.cartService.AddToCart(c.Request.Context(), userID, *req.ProductID, req.QuantityOrDefault())
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{
		"message": "Product added to cart",
		"cart":    serializer.NewCart(cart),
	})
}

// RemoveFromCart 删除整行
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication credentials were not provided."))
		return
	}

	var req serializer.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.FromBindingError(err))
		return
	}

	if err := h.cartService.RemoveFromCart(c.Request.Context(), userID, *req.ProductID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{"message": "Product removed from cart"})
}
