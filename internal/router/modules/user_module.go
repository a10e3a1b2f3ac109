package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farbari/farbari-api/internal/container"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	handlers "github.com/farbari/farbari-api/internal/interface/http"
	"github.com/farbari/farbari-api/internal/interface/middleware"
)

type UserModule struct {
	Handler *handlers.UserHandler
	Users   repo.UserRepository
}

func NewUserModule(h *handlers.UserHandler, users repo.UserRepository) *UserModule {
	return &UserModule{Handler: h, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	rg.GET("/users/:id", middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByIP(), nil), m.Handler.GetProfile)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, container.GetJWT()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.PUT("/users/me", m.Handler.UpdateProfile)
		auth.POST("/users/me/avatar", m.Handler.UploadAvatar)
		auth.DELETE("/users/me", m.Handler.Deactivate)
	}
}
