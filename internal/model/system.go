package model

// SystemStats 管理后台统计数据
type SystemStats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalProducts int64 `json:"total_products"`
	TotalCarts    int64 `json:"total_carts"`
}
