package user

import (
	"net/http"

	"shop-backend/internal/errors"
	"shop-backend/internal/middleware"
	"shop-backend/internal/serializer"
	"shop-backend/internal/service"
	"shop-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profileService service.ProfileServiceInterface
}

func NewProfileHandler(profileService service.ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{profileService}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication credentials were not provided."))
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, serializer.NewProfile(profile))
}

// UpdateProfile 部分更新，只修改请求中出现的字段
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication credentials were not provided."))
		return
	}

	var req serializer.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Logger.Warn("更新用户资料失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.FromBindingError(err))
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, req.Patch())
	if err != nil {
		util.Logger.Error("更新用户资料失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, serializer.NewProfile(profile))
}
