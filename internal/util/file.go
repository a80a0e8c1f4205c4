package util

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateUniqueFilename 生成唯一的文件名
func GenerateUniqueFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	name := filepath.Base(originalFilename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, " ", "_")

	return name + "_" + uuid.NewString()[:8] + ext
}
