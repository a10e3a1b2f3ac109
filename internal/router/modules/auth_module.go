package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farbari/farbari-api/internal/container"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	handlers "github.com/farbari/farbari-api/internal/interface/http"
	"github.com/farbari/farbari-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repo.UserRepository
}

func NewAuthModule(h *handlers.AuthHandler, users repo.UserRepository) *AuthModule {
	return &AuthModule{Handler: h, Users: users}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Public endpoints with IP-based rate limits; the tight ones guard
	// credential guessing and email flooding.
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)
	forgotLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	tokenConfirmLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/auth/logout", refreshLimiter, m.Handler.Logout)
	rg.GET("/auth/verify-email/:token", tokenConfirmLimiter, m.Handler.VerifyEmail)
	rg.POST("/auth/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.PATCH("/auth/reset-password/:token", tokenConfirmLimiter, m.Handler.ResetPassword)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, container.GetJWT()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/logout-all", m.Handler.LogoutAll)
		auth.POST("/auth/verify-email", middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByUserID(), nil), m.Handler.SendVerification)
		auth.GET("/auth/me", m.Handler.Me)
	}
}
