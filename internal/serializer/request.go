package serializer

import (
	"encoding/json"

	"shop-backend/internal/model"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=150,username"`
	Email    string `json:"email" binding:"omitempty,email,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新访问令牌
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// ProductCreateRequest 同时支持 JSON 和 multipart 表单。
// 表单上传时图片文件单独读取，JSON 请求中 image 是已有的图片地址。
type ProductCreateRequest struct {
	Name        string      `json:"name" form:"name" binding:"required,max=255"`
	Description string      `json:"description" form:"description" binding:"required"`
	Price       json.Number `json:"price" form:"price" binding:"required"`
	Image       string      `json:"image" form:"-" binding:"omitempty,max=500"`
}

// ProfileUpdateRequest 字段为 nil 表示请求中未提供
type ProfileUpdateRequest struct {
	FirstName    *string `json:"first_name" binding:"omitempty,max=100"`
	LastName     *string `json:"last_name" binding:"omitempty,max=100"`
	MobileNumber *string `json:"mobile_number" binding:"omitempty,max=15,mobile"`
	Address      *string `json:"address" binding:"omitempty,max=255"`
}

// Patch 转换为模型层的部分更新
func (r ProfileUpdateRequest) Patch() model.ProfilePatch {
	return model.ProfilePatch{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		MobileNumber: r.MobileNumber,
		Address:      r.Address,
	}
}

// DefaultQuantity 未指定数量时加入购物车的数量
const DefaultQuantity = 1

// CartItemRequest 加入或移出购物车
type CartItemRequest struct {
	ProductID *uint `json:"product_id" binding:"required"`
	Quantity  *int  `json:"quantity" binding:"omitempty,min=1"`
}

// QuantityOrDefault 返回请求的数量，未提供时为 1
func (r CartItemRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return DefaultQuantity
	}
	return *r.Quantity
}

// RoleUpdateRequest 管理员修改用户角色
type RoleUpdateRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}
