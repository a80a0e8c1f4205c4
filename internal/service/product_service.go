package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"shop-backend/internal/cache"
	"shop-backend/internal/errors"
	"shop-backend/internal/model"
	"shop-backend/internal/repository/interfaces"
	"shop-backend/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// decimal(10,2) 能表示的上限
var maxPrice = decimal.New(1, 8)

// 创建商品后再次清除缓存的延迟，覆盖在第一次清除之后才回写旧列表的并发读
const defaultRedeleteDelay = 500 * time.Millisecond

// ProductCache 商品列表缓存，未命中时返回 cache.ErrMiss
type ProductCache interface {
	GetProducts(ctx context.Context) ([]model.Product, error)
	SetProducts(ctx context.Context, products []model.Product) error
	InvalidateProducts(ctx context.Context) error
}

// ProductService 处理与商品相关的业务逻辑
type ProductService struct {
	repo          interfaces.ProductRepository
	cache         ProductCache
	redeleteDelay time.Duration
}

// NewProductService 创建一个新的 ProductService 实例，cache 可以为 nil
func NewProductService(repo interfaces.ProductRepository, cache ProductCache) *ProductService {
	return &ProductService{repo: repo, cache: cache, redeleteDelay: defaultRedeleteDelay}
}

type ProductServiceInterface interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	SearchProducts(ctx context.Context, filters model.ProductFilters) ([]model.Product, error)
}

var _ ProductServiceInterface = (*ProductService)(nil)

// ListProducts 返回全部商品，优先读缓存
func (s *ProductService) ListProducts(ctx context.Context) ([]model.Product, error) {
	if s.cache != nil {
		products, err := s.cache.GetProducts(ctx)
		if err == nil {
			return products, nil
		}
		if !stderrors.Is(err, cache.ErrMiss) {
			util.Logger.Warn("读取商品缓存失败", zap.Error(err))
		}
	}

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取商品列表失败", err)
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			util.Logger.Warn("写入商品缓存失败", zap.Error(err))
		}
	}
	return products, nil
}

// CreateProduct 创建商品，调用方负责管理员权限校验
func (s *ProductService) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := ValidateProduct(product); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建商品失败", err)
	}

	if s.cache != nil {
		s.invalidateProducts(ctx)
		// 延迟双删
		time.AfterFunc(s.redeleteDelay, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			s.invalidateProducts(ctx)
		})
	}

	util.Logger.Info("商品创建成功", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	return nil
}

// SearchProducts 管理后台按关键字和价格区间检索
func (s *ProductService) SearchProducts(ctx context.Context, filters model.ProductFilters) ([]model.Product, error) {
	filters.Search = strings.TrimSpace(filters.Search)
	products, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "检索商品失败", err)
	}
	return products, nil
}

func (s *ProductService) invalidateProducts(ctx context.Context) {
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		util.Logger.Warn("清除商品缓存失败", zap.Error(err))
	}
}

// ValidateProduct 校验商品字段，上传图片前也会调用
func ValidateProduct(product *model.Product) error {
	if fields := productFieldErrors(product); len(fields) > 0 {
		return errors.NewValidation("Invalid request data", fields)
	}
	return nil
}

func productFieldErrors(product *model.Product) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(product.Name) == "" {
		fields["name"] = "This field may not be blank."
	} else if len(product.Name) > 255 {
		fields["name"] = "Ensure this field has no more than 255 characters."
	}
	if strings.TrimSpace(product.Description) == "" {
		fields["description"] = "This field may not be blank."
	}
	if product.Price.IsNegative() {
		fields["price"] = "Ensure this value is greater than or equal to 0."
	} else if !product.Price.Equal(product.Price.Round(2)) {
		fields["price"] = "Ensure that there are no more than 2 decimal places."
	} else if product.Price.GreaterThanOrEqual(maxPrice) {
		fields["price"] = "Ensure that there are no more than 10 digits in total."
	}
	return fields
}
