package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farbari/farbari-api/internal/container"
	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	handlers "github.com/farbari/farbari-api/internal/interface/http"
	"github.com/farbari/farbari-api/internal/interface/middleware"
)

type PostModule struct {
	Handler *handlers.PostHandler
	Users   repo.UserRepository
}

func NewPostModule(h *handlers.PostHandler, users repo.UserRepository) *PostModule {
	return &PostModule{Handler: h, Users: users}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	browseLimiter := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/posts", browseLimiter, m.Handler.List)
	rg.GET("/posts/search", browseLimiter, m.Handler.Search)
	// Optional auth so logged-in views are deduplicated per viewer.
	rg.GET("/posts/:id", browseLimiter, middleware.OptionalAuth(m.Users, container.GetJWT()), m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, container.GetJWT()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/posts", m.Handler.Create)
		auth.GET("/posts/mine", m.Handler.Mine)
		auth.GET("/posts/favorites", m.Handler.Favorites)
		auth.POST("/posts/:id/favorite", m.Handler.Favorite)
		auth.PUT("/posts/:id", m.Handler.Update)
		auth.PATCH("/posts/:id/status", m.Handler.UpdateStatus)
		auth.POST("/posts/:id/photos", m.Handler.UploadPhoto)
		auth.DELETE("/posts/:id", m.Handler.Delete)

		mod := auth.Group("/")
		mod.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleModerator))
		{
			mod.PATCH("/posts/:id/approval", m.Handler.Approve)
		}
	}
}
