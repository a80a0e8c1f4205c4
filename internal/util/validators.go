package util

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	mobilePattern   = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	registerOnce sync.Once
)

// ValidateUsername 用户名只允许字母、数字和 @/./+/-/_
func ValidateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// ValidateMobile 校验手机号格式，空值交给 omitempty 处理
func ValidateMobile(fl validator.FieldLevel) bool {
	return mobilePattern.MatchString(fl.Field().String())
}

// RegisterValidators 向 gin 的校验引擎注册自定义规则，可重复调用
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// 错误信息中使用 JSON 字段名
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		v.RegisterValidation("username", ValidateUsername)
		v.RegisterValidation("mobile", ValidateMobile)
	})
}
