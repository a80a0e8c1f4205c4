package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"shop-backend/config"
	"shop-backend/internal/api/admin"
	"shop-backend/internal/api/cart"
	"shop-backend/internal/api/product"
	"shop-backend/internal/api/user"
	"shop-backend/internal/errors"
	"shop-backend/internal/middleware"
	"shop-backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies 路由需要的处理器和中间件依赖
type Dependencies struct {
	UserService    service.UserServiceInterface
	AuthHandler    *user.AuthHandler
	ProfileHandler *user.ProfileHandler
	ProductHandler *product.ProductHandler
	CartHandler    *cart.CartHandler
	AdminHandler   *admin.AdminHandler
	ErrorMonitor   *middleware.ErrorMonitor
	// HealthCheck 检查数据库等外部依赖，为 nil 时只报告存活
	HealthCheck func(ctx context.Context) error
	// MediaRoot 不为空时在 MediaURL 下提供本地媒体文件
	MediaRoot string
}

// NewRouter 组装中间件和全部路由
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestLogger())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(deps.ErrorMonitor))
	// 放在统计中间件之后，panic 转成的 500 也会被计数
	r.Use(middleware.RecoveryMiddleware())
	r.Use(cors.New(corsConfig()))

	if deps.MediaRoot != "" {
		mediaURL := strings.TrimSuffix(config.AppConfig.MediaURL, "/")
		if mediaURL == "" {
			mediaURL = "/media"
		}
		r.Static(mediaURL, deps.MediaRoot)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", healthz(deps.HealthCheck))

	r.POST("/register/", deps.AuthHandler.Register)
	r.POST("/login/", deps.AuthHandler.Login)
	r.POST("/token/refresh/", deps.AuthHandler.RefreshToken)
	r.GET("/products/", deps.ProductHandler.ListProducts)

	// 需要认证的路由
	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware(deps.UserService))
	{
		authorized.POST("/products/add/", middleware.AdminMiddleware(), deps.ProductHandler.CreateProduct)

		authorized.GET("/profile/", deps.ProfileHandler.GetProfile)
		authorized.PUT("/profile/update/", deps.ProfileHandler.UpdateProfile)

		authorized.GET("/cart/", deps.CartHandler.ViewCart)
		authorized.POST("/cart/add/", deps.CartHandler.AddToCart)
		authorized.DELETE("/cart/remove/", deps.CartHandler.RemoveFromCart)
	}

	// 管理员路由组
	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(deps.UserService), middleware.AdminMiddleware())
	{
		adminRoutes.GET("/products/", deps.AdminHandler.SearchProducts)
		adminRoutes.GET("/products/export/", deps.AdminHandler.ExportProducts)
		adminRoutes.GET("/users/", deps.AdminHandler.GetUsers)
		adminRoutes.PUT("/users/:id/role", deps.AdminHandler.UpdateUserRole)
		adminRoutes.GET("/stats/", deps.AdminHandler.GetSystemStats)
	}

	r.NoRoute(func(c *gin.Context) {
		errors.HandleError(c, errors.New(errors.ErrResourceNotFound, "Not found."))
	})

	return r
}

func corsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	if config.AppConfig.FrontendURL == "" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
		middleware.HeaderRequestID,
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Content-Disposition",
		middleware.HeaderRequestID,
	}
	return corsConfig
}

func healthz(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
