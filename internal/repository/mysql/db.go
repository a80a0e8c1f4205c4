package mysql

import (
	"context"
	"errors"
	"net"
	"time"

	"shop-backend/internal/common"
	"shop-backend/internal/model"
	"shop-backend/internal/repository/interfaces"
	"shop-backend/internal/util"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySQL 唯一键冲突错误码
const errDupEntry = 1062

// Options 数据库连接参数
type Options struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	MaxRetries int
	Debug      bool
}

// DSN 使用驱动的配置结构生成连接字符串
func (o Options) DSN() string {
	cfg := mysqldriver.NewConfig()
	cfg.User = o.User
	cfg.Passwd = o.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(o.Host, o.Port)
	cfg.DBName = o.Name
	cfg.ParseTime = true
	cfg.Loc = time.Local
	// 更新时返回匹配行数而不是变更行数
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Open 连接数据库并配置连接池，连接失败时按退避策略重试
func Open(opts Options) (*gorm.DB, error) {
	logLevel := logger.Warn
	if opts.Debug {
		logLevel = logger.Info
	}

	var db *gorm.DB
	err := common.WithRetry(func() error {
		var err error
		db, err = gorm.Open(gormmysql.Open(opts.DSN()), &gorm.Config{
			Logger:         logger.Default.LogMode(logLevel),
			TranslateError: true,
		})
		if err != nil {
			util.Logger.Warn("连接数据库失败，准备重试", zap.Error(err))
			return common.Temporary(err)
		}
		return nil
	}, opts.MaxRetries)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")
	return db, nil
}

// AutoMigrate 创建或更新表结构，唯一索引在这里建立
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
	)
}

// Ping 检查数据库连接
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translateError 把唯一键冲突统一转换为 interfaces.ErrDuplicate
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return interfaces.ErrDuplicate
	}
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == errDupEntry {
		return interfaces.ErrDuplicate
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
