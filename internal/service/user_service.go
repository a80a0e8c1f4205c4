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

const duplicateUsernameMessage = "A user with that username already exists."

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo interfaces.UserRepository
	mailer   WelcomeMailer
}

// NewUserService 创建一个新的 UserService 实例，mailer 可以为 nil
func NewUserService(userRepo interfaces.UserRepository, mailer WelcomeMailer) *UserService {
	return &UserService{
		userRepo: userRepo,
		mailer:   mailer,
	}
}

type UserServiceInterface interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)

// Register 注册新用户，用户和空资料一起创建
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return nil, errors.NewValidation("Invalid request data", map[string]string{"username": duplicateUsernameMessage})
	}

	// 生成密码哈希
	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "生成密码哈希失败", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.CreateWithProfile(ctx, user); err != nil {
		// 并发注册同名用户时由唯一索引兜底
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.NewValidation("Invalid request data", map[string]string{"username": duplicateUsernameMessage})
		}
		return nil, errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(user.Email, user.Username); err != nil {
			util.Logger.Error("发送欢迎邮件失败", zap.Error(err))
		}
	}

	util.Logger.Info("用户注册成功", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login 校验用户名和密码
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		util.Logger.Info("用户登录失败，未找到用户", zap.String("username", username))
		return nil, errors.New(errors.ErrInvalidCredentials, "No active account found with the given credentials")
	}

	if err := util.CheckPassword(user.PasswordHash, password); err != nil {
		util.Logger.Info("用户登录失败，密码不正确", zap.Uint("user_id", user.ID))
		return nil, errors.New(errors.ErrInvalidCredentials, "No active account found with the given credentials")
	}

	util.Logger.Info("用户登录成功", zap.Uint("user_id", user.ID))
	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// GetUsers 分页获取用户列表和总数
func (s *UserService) GetUsers(ctx context.Context, page, pageSize int) ([]*model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	users, err := s.userRepo.FindAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "获取用户列表失败", err)
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "统计用户失败", err)
	}
	return users, total, nil
}

// UpdateUserRole 更新用户角色
func (s *UserService) UpdateUserRole(ctx context.Context, userID uint, role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return errors.NewValidation("Invalid request data", map[string]string{"role": `"` + role + `" is not a valid choice.`})
	}
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if stderrors.Is(err, interfaces.ErrNotFound) {
			return errors.New(errors.ErrUserNotFound, "user not found")
		}
		return errors.Wrap(errors.ErrDatabase, "更新用户角色失败", err)
	}
	util.Logger.Info("用户角色已更新", zap.Uint("user_id", userID), zap.String("role", role))
	return nil
}

// EnsureAdmin 启动时确保管理员账户存在
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user != nil {
		if user.IsAdmin() {
			return nil
		}
		return s.userRepo.UpdateRole(ctx, user.ID, model.RoleAdmin)
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         model.RoleAdmin,
	}
	if err := s.userRepo.CreateWithProfile(ctx, admin); err != nil && !stderrors.Is(err, interfaces.ErrDuplicate) {
		return err
	}
	util.Logger.Info("管理员账户已创建", zap.String("username", username))
	return nil
}
