package service

import (
	"context"

	"shop-backend/internal/errors"
	"shop-backend/internal/model"
	"shop-backend/internal/repository/interfaces"
	"shop-backend/internal/util"

	"go.uber.org/zap"
)

// ProfileService 用户资料的查看和部分更新，只能操作调用者自己的资料
type ProfileService struct {
	profileRepo interfaces.ProfileRepository
}

func NewProfileService(profileRepo interfaces.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, userID uint) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID uint, patch model.ProfilePatch) (*model.Profile, error)
}

var _ ProfileServiceInterface = (*ProfileService)(nil)

// GetProfile 获取用户资料
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取用户资料失败", err)
	}
	if profile == nil {
		// 注册时会创建资料，走到这里说明数据不一致
		util.Logger.Warn("用户资料不存在", zap.Uint("user_id", userID))
		return nil, errors.New(errors.ErrProfileNotFound, "Profile not found")
	}
	return profile, nil
}

// UpdateProfile 只更新请求中提供的字段
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, patch model.ProfilePatch) (*model.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return profile, nil
	}

	patch.Apply(profile)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新用户资料失败", err)
	}

	util.Logger.Info("用户资料已更新", zap.Uint("user_id", userID))
	return profile, nil
}
