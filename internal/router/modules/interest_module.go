package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farbari/farbari-api/internal/container"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	handlers "github.com/farbari/farbari-api/internal/interface/http"
	"github.com/farbari/farbari-api/internal/interface/middleware"
)

type InterestModule struct {
	Handler *handlers.InterestHandler
	Users   repo.UserRepository
}

func NewInterestModule(h *handlers.InterestHandler, users repo.UserRepository) *InterestModule {
	return &InterestModule{Handler: h, Users: users}
}

func (m *InterestModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, container.GetJWT()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/interests", middleware.RateLimit(rdb, 20, time.Minute, middleware.KeyByUserID(), nil), m.Handler.Apply)
		auth.GET("/interests/mine", m.Handler.Mine)
		auth.GET("/interests/:id", m.Handler.Get)
		auth.PATCH("/interests/:id/status", m.Handler.UpdateStatus)
		auth.POST("/interests/:id/withdraw", m.Handler.Withdraw)
		auth.GET("/posts/:id/interests", m.Handler.ListForPost)
	}
}
