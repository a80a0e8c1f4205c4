package interfaces

import (
	"context"

	"shop-backend/internal/model"
)

// UserRepository 接口定义了用户仓库应该实现的方法
type UserRepository interface {
	// CreateWithProfile 在同一事务中创建用户和空资料
	CreateWithProfile(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateRole(ctx context.Context, id uint, role string) error
	Count(ctx context.Context) (int64, error)
	FindAll(ctx context.Context, page, pageSize int) ([]*model.User, error)
}

// ProfileRepository 用户资料仓库
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
}
