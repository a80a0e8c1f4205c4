package mysql

import (
	"context"

	"shop-backend/internal/model"
	"shop-backend/internal/repository/interfaces"

	"gorm.io/gorm"
)

// CartRepository 购物车的 gorm 实现
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db}
}

var _ interfaces.CartRepository = (*CartRepository)(nil)

// FindByUserID 查找用户的购物车并预加载购物车行和商品
func (r *CartRepository) FindByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车，carts.user_id 唯一索引冲突时返回 ErrDuplicate
func (r *CartRepository) Create(ctx context.Context, cart *model.Cart) error {
	return translateError(r.db.WithContext(ctx).Omit("Items").Create(cart).Error)
}

func (r *CartRepository) FindItem(ctx context.Context, cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem 新增购物车行，(cart_id, product_id) 冲突时返回 ErrDuplicate
func (r *CartRepository) CreateItem(ctx context.Context, item *model.CartItem) error {
	return translateError(r.db.WithContext(ctx).Omit("Product").Create(item).Error)
}

// IncrementItemQuantity 在数据库中累加数量，避免读改写竞争
func (r *CartRepository) IncrementItemQuantity(ctx context.Context, itemID uint, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

// DeleteItem 删除整行
func (r *CartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	result := r.db.WithContext(ctx).Delete(&model.CartItem{}, itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *CartRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Cart{}).Count(&count).Error
	return count, err
}
