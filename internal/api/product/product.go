package product

import (
	"net/http"

	"shop-backend/internal/errors"
	"shop-backend/internal/model"
	"shop-backend/internal/serializer"
	"shop-backend/internal/service"
	"shop-backend/internal/storage"
	"shop-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const imageDir = "products"

// ProductHandler 商品列表和管理员创建商品
type ProductHandler struct {
	productService service.ProductServiceInterface
	storage        storage.FileStorage
}

func NewProductHandler(productService service.ProductServiceInterface, fileStorage storage.FileStorage) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storage:        fileStorage,
	}
}

// ListProducts 返回全部商品，不分页
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		util.Logger.Error("获取商品列表失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, http.StatusOK, serializer.NewProducts(products))
}

// CreateProduct 支持 JSON 和带图片的 multipart 表单
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req serializer.ProductCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		util.Logger.Warn("创建商品失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.FromBindingError(err))
		return
	}

	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		errors.HandleError(c, errors.NewValidation("Invalid request data", map[string]string{
			"price": "A valid number is required.",
		}))
		return
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Image:       req.Image,
	}

	// 先校验字段再上传图片
	if err := service.ValidateProduct(product); err != nil {
		errors.HandleError(c, err)
		return
	}

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		imageURL, err := h.uploadImage(c)
		if err != nil {
			errors.HandleError(c, err)
			return
		}
		if imageURL != "" {
			product.Image = imageURL
		}
	}

	if err := h.productService.CreateProduct(c.Request.Context(), product); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusCreated, serializer.NewProduct(*product))
}

// uploadImage 没有上传图片时返回空字符串
func (h *ProductHandler) uploadImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrBadRequest, "Invalid request data", err)
	}

	if msg, ok := storage.ValidateImage(file); !ok {
		return "", errors.NewValidation("Invalid request data", map[string]string{"image": msg})
	}

	url, err := h.storage.UploadFile(c.Request.Context(), file, storage.ObjectPath(imageDir, file.Filename))
	if err != nil {
		util.Logger.Error("上传商品图片失败", zap.Error(err), zap.String("filename", file.Filename))
		return "", errors.Wrap(errors.ErrStorage, "上传图片失败", err)
	}
	return url, nil
}
