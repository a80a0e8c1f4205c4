package mysql

import (
	"context"

	"shop-backend/internal/model"
	"shop-backend/internal/repository/interfaces"
	"shop-backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository 实现了商品相关的数据库操作
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建一个新的 ProductRepository 实例
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db}
}

var _ interfaces.ProductRepository = (*ProductRepository)(nil)

// Create 创建商品
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		util.Logger.Error("插入商品失败", zap.String("name", product.Name), zap.Error(err))
		return translateError(err)
	}
	util.Logger.Info("商品创建成功", zap.Uint("product_id", product.ID))
	return nil
}

// FindByID 通过ID获取商品，不存在时返回 nil
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// FindAll 返回全部商品，按ID排序
func (r *ProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0)
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Find(&products).Error
	return products, err
}

// Search 按名称/描述关键字和价格区间检索商品
func (r *ProductRepository) Search(ctx context.Context, filters model.ProductFilters) ([]model.Product, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})

	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where(clause.Or(
			clause.Like{Column: clause.Column{Name: "name"}, Value: pattern},
			clause.Like{Column: clause.Column{Name: "description"}, Value: pattern},
		))
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}

	products := make([]model.Product, 0)
	err := query.Order("id").Find(&products).Error
	return products, err
}

// Count 返回商品总数
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}
