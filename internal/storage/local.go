package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"shop-backend/internal/util"

	"go.uber.org/zap"
)

// LocalStorage 把文件保存在本地目录，通过 MEDIA_URL 对外提供
type LocalStorage struct {
	basePath string
	mediaURL string
}

func NewLocalStorage(basePath, mediaURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}
	if !strings.HasSuffix(mediaURL, "/") {
		mediaURL += "/"
	}
	return &LocalStorage{basePath: basePath, mediaURL: mediaURL}, nil
}

// BasePath 返回本地存储根目录，用于挂载静态文件服务
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

func (s *LocalStorage) UploadFile(ctx context.Context, file *multipart.FileHeader, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("保存文件失败: %w", err)
	}

	util.Logger.Info("文件上传成功", zap.String("fullPath", fullPath))
	return s.mediaURL + strings.TrimPrefix(path, "/"), nil
}
