package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farbari/farbari-api/internal/application"
	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	"github.com/farbari/farbari-api/internal/interface/middleware"
	"github.com/farbari/farbari-api/pkg/response"
	"github.com/farbari/farbari-api/pkg/validation"
)

const maxAvatarSize = 5 << 20 // 5 MiB

type UserHandler struct {
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

type updateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,e164"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	Location  *struct {
		City    string `json:"city"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"location"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Users.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserID)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	up := repo.ProfileUpdate{Name: req.Name, Phone: req.Phone, Bio: req.Bio, AvatarURL: req.AvatarURL}
	if req.Location != nil {
		up.Location = &entity.Location{City: req.Location.City, State: req.Location.State, Country: req.Location.Country}
	}

	u, err := h.Users.UpdateProfile(c.Request.Context(), uid, up)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserID)

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	defer file.Close()
	if header.Size > maxAvatarSize {
		response.Error[any](c, http.StatusBadRequest, "avatar exceeds the 5MB limit", nil)
		return
	}

	u, err := h.Users.UploadAvatar(c.Request.Context(), uid, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "avatar uploaded", nil)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserID)
	if err := h.Users.Deactivate(c.Request.Context(), uid); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deactivated": true}, "account deactivated", nil)
}
