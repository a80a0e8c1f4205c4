package service

import (
	"context"
	"sort"
	"sync"

	"shop-backend/internal/model"
	"shop-backend/internal/repository/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateWithProfile(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, page, pageSize int) ([]*model.User, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

// MockProfileRepository 是 ProfileRepository 接口的模拟实现
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uint) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockMailer 记录欢迎邮件
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcomeEmail(email, username string) error {
	args := m.Called(email, username)
	return args.Error(0)
}

// memoryStore 是带唯一约束的内存仓库，用来验证并发语义
type memoryStore struct {
	mu       sync.Mutex
	products map[uint]model.Product
	carts    map[uint]*model.Cart // key: cart id
	items    map[uint]*model.CartItem
	nextID   uint

	cartCreates int
	// beforeCartInsert 在检查唯一约束前调用，用来制造竞争窗口
	beforeCartInsert func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products: make(map[uint]model.Product),
		carts:    make(map[uint]*model.Cart),
		items:    make(map[uint]*model.CartItem),
	}
}

func (s *memoryStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) addProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *memoryStore) cartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

// ProductRepository

func (s *memoryStore) Create(ctx context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = s.id()
	s.products[product.ID] = *product
	return nil
}

func (s *memoryStore) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memoryStore) FindAll(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *memoryStore) Search(ctx context.Context, filters model.ProductFilters) ([]model.Product, error) {
	return s.FindAll(ctx)
}

func (s *memoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.products)), nil
}

// cartStore 以 CartRepository 的形式暴露同一个内存仓库
type cartStore struct {
	*memoryStore
}

func (s cartStore) FindByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cart := range s.carts {
		if cart.UserID == userID {
			return s.snapshot(cart), nil
		}
	}
	return nil, nil
}

func (s cartStore) snapshot(cart *model.Cart) *model.Cart {
	out := &model.Cart{ID: cart.ID, UserID: cart.UserID, CreatedAt: cart.CreatedAt, Items: []model.CartItem{}}
	for _, item := range s.items {
		if item.CartID == cart.ID {
			copied := *item
			copied.Product = s.products[item.ProductID]
			out.Items = append(out.Items, copied)
		}
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].ID < out.Items[j].ID })
	return out
}

func (s cartStore) Create(ctx context.Context, cart *model.Cart) error {
	if s.beforeCartInsert != nil {
		s.beforeCartInsert()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartCreates++
	for _, existing := range s.carts {
		if existing.UserID == cart.UserID {
			return interfaces.ErrDuplicate
		}
	}
	cart.ID = s.id()
	stored := *cart
	s.carts[cart.ID] = &stored
	return nil
}

func (s cartStore) FindItem(ctx context.Context, cartID, productID uint) (*model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.CartID == cartID && item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (s cartStore) CreateItem(ctx context.Context, item *model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
			return interfaces.ErrDuplicate
		}
	}
	item.ID = s.id()
	stored := *item
	s.items[item.ID] = &stored
	return nil
}

func (s cartStore) IncrementItemQuantity(ctx context.Context, itemID uint, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return interfaces.ErrNotFound
	}
	item.Quantity += delta
	return nil
}

func (s cartStore) DeleteItem(ctx context.Context, itemID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[itemID]; !ok {
		return interfaces.ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}

func (s cartStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.carts)), nil
}

var (
	_ interfaces.ProductRepository = (*memoryStore)(nil)
	_ interfaces.CartRepository    = cartStore{}
)
