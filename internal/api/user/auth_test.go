package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"shop-backend/config"
	"shop-backend/internal/errors"
	"shop-backend/internal/model"
	"shop-backend/internal/repository/interfaces"
	"shop-backend/internal/service"
	"shop-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserService 是 UserServiceInterface 的模拟实现
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// 确保 MockUserService 实现了 UserServiceInterface
var _ service.UserServiceInterface = (*MockUserService)(nil)

func setupAuthRouter(mockService *MockUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	util.RegisterValidators()
	config.AppConfig.JWTSecret = "handler-test-secret"

	handler := NewAuthHandler(mockService)
	router := gin.New()
	router.POST("/register/", handler.Register)
	router.POST("/login/", handler.Login)
	router.POST("/token/refresh/", handler.RefreshToken)
	return router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestRegister 测试注册处理器
func TestRegister(t *testing.T) {
	mockService := new(MockUserService)
	router := setupAuthRouter(mockService)

	mockService.On("Register", mock.Anything, "alice", "alice@example.com", "s3cret-pass").
		Return(&model.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}, nil)

	w := postJSON(router, "/register/", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User created successfully","user":{"username":"alice","email":"alice@example.com"}}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "hash")
	mockService.AssertExpectations(t)
}

func TestRegisterValidation(t *testing.T) {
	mockService := new(MockUserService)
	router := setupAuthRouter(mockService)

	cases := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"missing username", map[string]string{"password": "pw"}, "username"},
		{"missing password", map[string]string{"username": "bob"}, "password"},
		{"bad email", map[string]string{"username": "bob", "password": "pw", "email": "nope"}, "email"},
		{"bad username", map[string]string{"username": "bob smith", "password": "pw"}, "username"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(router, "/register/", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp errors.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp.Errors, tc.field)
		})
	}
	mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterDuplicate(t *testing.T) {
	mockService := new(MockUserService)
	router := setupAuthRouter(mockService)

	mockService.On("Register", mock.Anything, "alice", "", "pw").
		Return(nil, errors.NewValidation("Invalid request data", map[string]string{
			"username": "A user with that username already exists.",
		}))

	w := postJSON(router, "/register/", map[string]string{"username": "alice", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "A user with that username already exists.", resp.Errors["username"])
}

func TestLoginAndRefresh(t *testing.T) {
	mockService := new(MockUserService)
	router := setupAuthRouter(mockService)

	mockService.On("Login", mock.Anything, "alice", "right").Return(&model.User{ID: 1, Username: "alice"}, nil)
	mockService.On("Login", mock.Anything, "alice", "wrong").
		Return(nil, errors.New(errors.ErrInvalidCredentials, "No active account found with the given credentials"))

	w := postJSON(router, "/login/", map[string]string{"username": "alice", "password": "right"})
	require.Equal(t, http.StatusOK, w.Code)

	var pair util.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	w = postJSON(router, "/token/refresh/", map[string]string{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	userID, err := util.ValidateAccessToken(refreshed["access"])
	require.NoError(t, err)
	assert.Equal(t, uint(1), userID)

	// 访问令牌不能用来刷新
	w = postJSON(router, "/token/refresh/", map[string]string{"refresh": pair.Access})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(router, "/token/refresh/", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "/login/", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No active account found")
}

// userStore 内存用户仓库，用于串起真实的 UserService
type userStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[string]*model.User
}

func newUserStore() *userStore {
	return &userStore{users: make(map[string]*model.User)}
}

func (s *userStore) CreateWithProfile(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return interfaces.ErrDuplicate
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.Username] = user
	return nil
}

func (s *userStore) FindByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *userStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[username], nil
}

func (s *userStore) UpdateRole(ctx context.Context, id uint, role string) error {
	return nil
}

func (s *userStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *userStore) FindAll(ctx context.Context, page, pageSize int) ([]*model.User, error) {
	return nil, nil
}

func TestRegisterAndLoginLongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	util.RegisterValidators()
	config.AppConfig.JWTSecret = "handler-test-secret"

	handler := NewAuthHandler(service.NewUserService(newUserStore(), nil))
	router := gin.New()
	router.POST("/register/", handler.Register)
	router.POST("/login/", handler.Login)

	password := strings.Repeat("p", 128)
	w := postJSON(router, "/register/", map[string]string{"username": "bob", "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = postJSON(router, "/login/", map[string]string{"username": "bob", "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var pair util.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.Access)

	// 超过 128 个字符是校验错误
	w = postJSON(router, "/register/", map[string]string{"username": "carol", "password": password + "p"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "password")
}
