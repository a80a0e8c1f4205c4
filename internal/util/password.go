package util

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt 只接受 72 字节以内的输入，先做 SHA-256 再 base64，
// 长度固定为 44 字节且不含 NUL
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	digest := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(digest, sum[:])
	return digest
}

// HashPassword 生成密码哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(passwordDigest(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 校验密码，不匹配时返回 bcrypt.ErrMismatchedHashAndPassword
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordDigest(password))
}
