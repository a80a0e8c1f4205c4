package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.ErrorIs(t, CheckPassword(hash, "other-pass"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestHashPasswordLongInput(t *testing.T) {
	long := strings.Repeat("a", 128)
	hash, err := HashPassword(long)
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, long))

	// 超过 72 字节的部分同样参与校验
	assert.Error(t, CheckPassword(hash, strings.Repeat("a", 127)+"b"))

	multibyte := strings.Repeat("密", 128)
	hash, err = HashPassword(multibyte)
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, multibyte))
}
