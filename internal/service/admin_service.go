package service

import (
	"context"
	"io"

	"shop-backend/internal/errors"
	"shop-backend/internal/model"
	"shop-backend/internal/repository/interfaces"

	"github.com/tealeg/xlsx"
)

// AdminService 管理后台的统计和导出
type AdminService struct {
	userRepo    interfaces.UserRepository
	productRepo interfaces.ProductRepository
	cartRepo    interfaces.CartRepository
}

// NewAdminService 创建一个新的 AdminService 实例
func NewAdminService(userRepo interfaces.UserRepository, productRepo interfaces.ProductRepository, cartRepo interfaces.CartRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

// GetSystemStats 系统统计
func (s *AdminService) GetSystemStats(ctx context.Context) (*model.SystemStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计用户失败", err)
	}
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计商品失败", err)
	}
	carts, err := s.cartRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计购物车失败", err)
	}
	return &model.SystemStats{
		TotalUsers:    users,
		TotalProducts: products,
		TotalCarts:    carts,
	}, nil
}

// ExportProducts 把商品目录写成 xlsx
func (s *AdminService) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "获取商品列表失败", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "创建工作表失败", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range []string{"ID", "Name", "Description", "Price", "Image", "CreatedAt"} {
		headerRow.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.Price.StringFixed(2))
		row.AddCell().SetString(p.Image)
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return errors.Wrap(errors.ErrInternal, "写入 Excel 文件失败", err)
	}
	return nil
}
