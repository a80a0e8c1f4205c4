package serializer

import (
	"time"

	"shop-backend/internal/model"
)

// UserResponse 注册成功后返回的公开字段
type UserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AdminUserResponse 管理后台用户列表中的条目
type AdminUserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Image       *string `json:"image"`
}

type ProfileResponse struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MobileNumber string `json:"mobile_number"`
	Address      string `json:"address"`
}

type CartItemResponse struct {
	ID         uint            `json:"id"`
	Product    ProductResponse `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice string          `json:"total_price"`
}

type CartResponse struct {
	ID         uint               `json:"id"`
	User       uint               `json:"user"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice string             `json:"total_price"`
}

func NewUser(u *model.User) UserResponse {
	return UserResponse{Username: u.Username, Email: u.Email}
}

func NewAdminUsers(users []*model.User) []AdminUserResponse {
	out := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, AdminUserResponse{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	return out
}

// NewProduct 价格固定两位小数，没有图片时 image 为 null
func NewProduct(p model.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
	}
	if p.Image != "" {
		image := p.Image
		resp.Image = &image
	}
	return resp
}

func NewProducts(products []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProduct(p))
	}
	return out
}

func NewProfile(p *model.Profile) ProfileResponse {
	return ProfileResponse{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		MobileNumber: p.MobileNumber,
		Address:      p.Address,
	}
}

// NewCart 行小计和总价在这里计算
func NewCart(c *model.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemResponse{
			ID:         item.ID,
			Product:    NewProduct(item.Product),
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice().StringFixed(2),
		})
	}
	return CartResponse{
		ID:         c.ID,
		User:       c.UserID,
		Items:      items,
		TotalPrice: c.TotalPrice().StringFixed(2),
	}
}
