package service

import (
	"context"
	stderrors "errors"

	"shop-backend/internal/errors"
	"shop-backend/internal/model"
	"shop-backend/internal/repository/interfaces"
	"shop-backend/internal/util"

	"go.uber.org/zap"
)

// 并发合并购物车行时的最大尝试次数
const maxMergeAttempts = 3

// CartService 购物车业务逻辑。每个用户的购物车在首次访问时创建，
// 唯一性由数据库唯一索引保证，不在进程内加锁。
type CartService struct {
	cartRepo    interfaces.CartRepository
	productRepo interfaces.ProductRepository
}

func NewCartService(cartRepo interfaces.CartRepository, productRepo interfaces.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

type CartServiceInterface interface {
	ViewCart(ctx context.Context, userID uint) (*model.Cart, error)
	AddToCart(ctx context.Context, userID, productID uint, quantity int) (*model.Cart, error)
	RemoveFromCart(ctx context.Context, userID, productID uint) error
}

var _ CartServiceInterface = (*CartService)(nil)

// ResolveCart 获取用户的购物车，不存在时创建。
// 创建时如果撞上唯一索引，说明另一个请求已经创建，重新查询即可。
func (s *CartService) ResolveCart(ctx context.Context, userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取购物车失败", err)
	}
	if cart != nil {
		return cart, nil
	}

	cart = &model.Cart{UserID: userID, Items: []model.CartItem{}}
	err = s.cartRepo.Create(ctx, cart)
	if err == nil {
		util.Logger.Info("购物车已创建", zap.Uint("user_id", userID), zap.Uint("cart_id", cart.ID))
		return cart, nil
	}
	if !stderrors.Is(err, interfaces.ErrDuplicate) {
		return nil, errors.Wrap(errors.ErrDatabase, "创建购物车失败", err)
	}

	cart, err = s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取购物车失败", err)
	}
	if cart == nil {
		return nil, errors.New(errors.ErrResourceConflict, "购物车状态不一致")
	}
	return cart, nil
}

// ViewCart 返回购物车及其商品行，总价在序列化时计算
func (s *CartService) ViewCart(ctx context.Context, userID uint) (*model.Cart, error) {
	return s.ResolveCart(ctx, userID)
}

// AddToCart 把商品加入购物车，已存在的行累加数量
func (s *CartService) AddToCart(ctx context.Context, userID, productID uint, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, errors.NewValidation("Invalid request data", map[string]string{
			"quantity": "Ensure this value is greater than or equal to 1.",
		})
	}

	if _, err := s.getProduct(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.ResolveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.mergeItem(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}

	util.Logger.Info("商品已加入购物车",
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
		zap.Int("quantity", quantity))

	return s.ResolveCart(ctx, userID)
}

// RemoveFromCart 删除整行，不支持按数量递减
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	if _, err := s.getProduct(ctx, productID); err != nil {
		return err
	}

	cart, err := s.ResolveCart(ctx, userID)
	if err != nil {
		return err
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, productID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "获取购物车行失败", err)
	}
	if item == nil {
		return errors.New(errors.ErrCartItemNotFound, "Product not in cart")
	}

	if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
		if stderrors.Is(err, interfaces.ErrNotFound) {
			return errors.New(errors.ErrCartItemNotFound, "Product not in cart")
		}
		return errors.Wrap(errors.ErrDatabase, "删除购物车行失败", err)
	}

	util.Logger.Info("商品已移出购物车",
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID))
	return nil
}

func (s *CartService) getProduct(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取商品失败", err)
	}
	if product == nil {
		return nil, errors.New(errors.ErrProductNotFound, "Product not found")
	}
	return product, nil
}

// mergeItem 已有行则原子累加，否则插入新行；插入撞上唯一索引时改为累加
func (s *CartService) mergeItem(ctx context.Context, cartID, productID uint, quantity int) error {
	for attempt := 0; attempt < maxMergeAttempts; attempt++ {
		item, err := s.cartRepo.FindItem(ctx, cartID, productID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "获取购物车行失败", err)
		}

		if item != nil {
			err = s.cartRepo.IncrementItemQuantity(ctx, item.ID, quantity)
			if err == nil {
				return nil
			}
			// 行在两次查询之间被删除，重新来过
			if stderrors.Is(err, interfaces.ErrNotFound) {
				continue
			}
			return errors.Wrap(errors.ErrDatabase, "更新购物车行失败", err)
		}

		err = s.cartRepo.CreateItem(ctx, &model.CartItem{
			CartID:    cartID,
			ProductID: productID,
			Quantity:  quantity,
		})
		if err == nil {
			return nil
		}
		if !stderrors.Is(err, interfaces.ErrDuplicate) {
			return errors.Wrap(errors.ErrDatabase, "创建购物车行失败", err)
		}
	}
	return errors.New(errors.ErrResourceConflict, "购物车并发修改冲突，请重试")
}
