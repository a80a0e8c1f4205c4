package interfaces

import (
	"context"

	"shop-backend/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindAll(ctx context.Context) ([]model.Product, error)
	Search(ctx context.Context, filters model.ProductFilters) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)
}
