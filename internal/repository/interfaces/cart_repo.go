package interfaces

import (
	"context"

	"shop-backend/internal/model"
)

// CartRepository 购物车仓库。查找方法在记录不存在时返回 (nil, nil)，
// 创建方法在违反唯一约束时返回 ErrDuplicate。
type CartRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error
	FindItem(ctx context.Context, cartID, productID uint) (*model.CartItem, error)
	CreateItem(ctx context.Context, item *model.CartItem) error
	// IncrementItemQuantity 原子地执行 quantity = quantity + delta
	IncrementItemQuantity(ctx context.Context, itemID uint, delta int) error
	DeleteItem(ctx context.Context, itemID uint) error
	Count(ctx context.Context) (int64, error)
}
