package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 结构体表示用户模型
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"` // 密码哈希不应在JSON中暴露
	Role         string    `gorm:"size:20;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Cart    *Cart    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsAdmin 判断用户是否具有管理员权限
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile 用户资料，注册时自动创建
type Profile struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	MobileNumber string `gorm:"size:15" json:"mobile_number"`
	Address      string `gorm:"size:255" json:"address"`
}

// ProfilePatch 资料的部分更新，nil 字段保持原值
type ProfilePatch struct {
	FirstName    *string
	LastName     *string
	MobileNumber *string
	Address      *string
}

// Apply 把已提供的字段合并到资料中
func (p ProfilePatch) Apply(profile *Profile) {
	if p.FirstName != nil {
		profile.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		profile.LastName = *p.LastName
	}
	if p.MobileNumber != nil {
		profile.MobileNumber = *p.MobileNumber
	}
	if p.Address != nil {
		profile.Address = *p.Address
	}
}

// IsEmpty 判断是否没有任何字段需要更新
func (p ProfilePatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.MobileNumber == nil && p.Address == nil
}
