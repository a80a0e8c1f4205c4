package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-backend/config"
	"shop-backend/internal/api"
	"shop-backend/internal/api/admin"
	"shop-backend/internal/api/cart"
	"shop-backend/internal/api/product"
	"shop-backend/internal/api/user"
	"shop-backend/internal/cache"
	"shop-backend/internal/middleware"
	"shop-backend/internal/repository/mysql"
	"shop-backend/internal/service"
	"shop-backend/internal/storage"
	"shop-backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	db, err := mysql.Open(mysql.Options{
		Host:       config.AppConfig.DBHost,
		Port:       config.AppConfig.DBPort,
		User:       config.AppConfig.DBUser,
		Password:   config.AppConfig.DBPassword,
		Name:       config.AppConfig.DBName,
		MaxRetries: config.AppConfig.DBMaxRetries,
		Debug:      config.AppConfig.Debug,
	})
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	if err := mysql.AutoMigrate(db); err != nil {
		util.Logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 注册自定义验证器
	util.RegisterValidators()

	fileStorage, err := storage.NewFromConfig(context.Background(), config.AppConfig)
	if err != nil {
		util.Logger.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// redis 可选，连不上时直接读数据库
	var productCache service.ProductCache
	if config.AppConfig.RedisAddr != "" {
		redisClient, err := cache.NewClient(
			config.AppConfig.RedisAddr,
			config.AppConfig.RedisPassword,
			config.AppConfig.RedisDB,
			config.AppConfig.ProductCacheTTL,
		)
		if err != nil {
			util.Logger.Warn("连接 redis 失败，商品列表不使用缓存", zap.Error(err))
		} else {
			defer redisClient.Close()
			productCache = redisClient
			util.Logger.Info("redis 缓存已启用", zap.String("addr", config.AppConfig.RedisAddr))
		}
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	cartRepo := mysql.NewCartRepository(db)

	emailService := service.NewEmailService()
	userService := service.NewUserService(userRepo, emailService)
	profileService := service.NewProfileService(userRepo)
	productService := service.NewProductService(productRepo, productCache)
	cartService := service.NewCartService(cartRepo, productRepo)
	adminService := service.NewAdminService(userRepo, productRepo, cartRepo)

	if config.AppConfig.AdminUsername != "" && config.AppConfig.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := userService.EnsureAdmin(ctx, config.AppConfig.AdminUsername, config.AppConfig.AdminEmail, config.AppConfig.AdminPassword)
		cancel()
		if err != nil {
			util.Logger.Fatal("初始化管理员账户失败", zap.Error(err))
		}
	}

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	deps := api.Dependencies{
		UserService:    userService,
		AuthHandler:    user.NewAuthHandler(userService),
		ProfileHandler: user.NewProfileHandler(profileService),
		ProductHandler: product.NewProductHandler(productService, fileStorage),
		CartHandler:    cart.NewCartHandler(cartService),
		AdminHandler:   admin.NewAdminHandler(adminService, userService, productService, errorMonitor),
		ErrorMonitor:   errorMonitor,
		HealthCheck: func(ctx context.Context) error {
			return mysql.Ping(ctx, db)
		},
	}
	// 只在调试模式下由应用自己提供本地媒体文件
	if local, ok := fileStorage.(*storage.LocalStorage); ok && config.AppConfig.Debug {
		deps.MediaRoot = local.BasePath()
	}

	r := api.NewRouter(deps)

	srv := &http.Server{
		Addr:              config.AppConfig.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		util.Logger.Info("服务器启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.Logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Error("服务器强制关闭", zap.Error(err))
	}

	closeDB(db)
	util.Logger.Info("服务器已退出")
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		util.Logger.Error("关闭数据库连接失败", zap.Error(err))
	}
}
