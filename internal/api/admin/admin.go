package admin

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"shop-backend/internal/errors"
	"shop-backend/internal/model"
	"shop-backend/internal/serializer"
	"shop-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type statsExporter interface {
	GetSystemStats(ctx context.Context) (*model.SystemStats, error)
	ExportProducts(ctx context.Context, w io.Writer) error
}

type userManager interface {
	GetUsers(ctx context.Context, page, pageSize int) ([]*model.User, int64, error)
	UpdateUserRole(ctx context.Context, userID uint, role string) error
}

type productSearcher interface {
	SearchProducts(ctx context.Context, filters model.ProductFilters) ([]model.Product, error)
}

type errorCounter interface {
	GetErrorCounts() map[errors.ErrorCode]int
}

// AdminHandler 按功能模块组织处理方法，路由层负责挂载管理员中间件
type AdminHandler struct {
	adminService   statsExporter
	userService    userManager
	productService productSearcher
	monitor        errorCounter
}

// NewAdminHandler 创建一个新的 AdminHandler 实例
func NewAdminHandler(adminService statsExporter, userService userManager, productService productSearcher, monitor errorCounter) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		userService:    userService,
		productService: productService,
		monitor:        monitor,
	}
}

// 商品管理
func (h *AdminHandler) SearchProducts(c *gin.Context) {
	filters := model.ProductFilters{Search: c.Query("search")}
	fields := make(map[string]string)
	if v := c.Query("min_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filters.MinPrice = &d
		} else {
			fields["min_price"] = "Enter a number."
		}
	}
	if v := c.Query("max_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filters.MaxPrice = &d
		} else {
			fields["max_price"] = "Enter a number."
		}
	}
	if len(fields) > 0 {
		errors.HandleError(c, errors.NewValidation("Invalid request data", fields))
		return
	}

	products, err := h.productService.SearchProducts(c.Request.Context(), filters)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, http.StatusOK, serializer.NewProducts(products))
}

// ExportProducts 导出商品目录为 xlsx
func (h *AdminHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.adminService.ExportProducts(c.Request.Context(), &buf); err != nil {
		util.Logger.Error("导出商品失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	filename := "products_" + time.Now().Format("20060102_150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// 用户管理
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := h.userService.GetUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{
		"users": serializer.NewAdminUsers(users),
		"total": total,
	})
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "Invalid user id"))
		return
	}

	var req serializer.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.FromBindingError(err))
		return
	}

	if err := h.userService.UpdateUserRole(c.Request.Context(), uint(userID), req.Role); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{"message": "Role updated", "role": req.Role})
}

// 系统统计
func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	stats, err := h.adminService.GetSystemStats(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errorCounts := make(map[string]int)
	if h.monitor != nil {
		for code, n := range h.monitor.GetErrorCounts() {
			errorCounts[strconv.Itoa(int(code))] = n
		}
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{
		"total_users":    stats.TotalUsers,
		"total_products": stats.TotalProducts,
		"total_carts":    stats.TotalCarts,
		"error_counts":   errorCounts,
	})
}
