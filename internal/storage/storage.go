package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"shop-backend/config"
	"shop-backend/internal/util"
)

// 商品图片的大小上限
const MaxImageSize = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// FileStorage 上传文件并返回可以直接放进响应里的访问地址
type FileStorage interface {
	UploadFile(ctx context.Context, file *multipart.FileHeader, path string) (string, error)
}

// NewFromConfig 根据 STORAGE_DRIVER 选择存储实现
func NewFromConfig(ctx context.Context, cfg config.Config) (FileStorage, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStorage(cfg.LocalStoragePath, cfg.MediaURL)
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(ctx, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("未知的存储类型: %s", cfg.StorageDriver)
	}
}

// ObjectPath 在目录下生成不会冲突的对象路径
func ObjectPath(dir, filename string) string {
	return path.Join(dir, util.GenerateUniqueFilename(filepath.Base(filename)))
}

// ValidateImage 检查上传的图片扩展名和大小，返回面向用户的错误信息
func ValidateImage(file *multipart.FileHeader) (string, bool) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "Upload a valid image. The file you uploaded was either not an image or a corrupted image.", false
	}
	if file.Size > MaxImageSize {
		return "The submitted file is too large.", false
	}
	return "", true
}
