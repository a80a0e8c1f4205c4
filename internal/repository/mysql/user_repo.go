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

// userRepository 实现了 UserRepository 和 ProfileRepository 接口
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db}
}

var (
	_ interfaces.UserRepository    = (*userRepository)(nil)
	_ interfaces.ProfileRepository = (*userRepository)(nil)
)

// CreateWithProfile 创建用户并同时创建空资料，任何一步失败都会回滚
func (r *userRepository) CreateWithProfile(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			util.Logger.Warn("创建用户失败", zap.String("username", user.Username), zap.Error(err))
			return translateError(err)
		}
		profile := &model.Profile{UserID: user.ID}
		if err := tx.Create(profile).Error; err != nil {
			util.Logger.Error("创建用户资料失败", zap.Uint("user_id", user.ID), zap.Error(err))
			return translateError(err)
		}
		user.Profile = profile
		util.Logger.Info("用户创建成功", zap.Uint("user_id", user.ID))
		return nil
	})
}

// FindByID 通过ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername 通过用户名查找用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateRole 更新用户角色
func (r *userRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

// Count 返回用户总数
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

// FindAll 返回分页的用户列表
func (r *userRepository) FindAll(ctx context.Context, page, pageSize int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Order("id").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&users).Error
	return users, err
}

// FindByUserID 查找用户资料
func (r *userRepository) FindByUserID(ctx context.Context, userID uint) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Update 保存用户资料的可编辑字段
func (r *userRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).
		Model(profile).
		Select("first_name", "last_name", "mobile_number", "address").
		Updates(profile).Error
}
