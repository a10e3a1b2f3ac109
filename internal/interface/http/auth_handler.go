package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farbari/farbari-api/internal/application"
	"github.com/farbari/farbari-api/internal/interface/middleware"
	"github.com/farbari/farbari-api/pkg/response"
	"github.com/farbari/farbari-api/pkg/validation"
)

type AuthHandler struct {
	Auth   *application.AuthService
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, users *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Users: users, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone" binding:"omitempty,e164"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "registration successful", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{
		"access_expires_at":  res.Tokens.AccessTokenExpiry,
		"refresh_expires_at": res.Tokens.RefreshTokenExpiry,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	pair, err := h.Auth.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pair, "token refreshed", nil)
}

// Logout always reports success; presenting a bogus token reveals nothing.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		h.Auth.Logout(c.Request.Context(), req.RefreshToken)
	}
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) LogoutAll(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserID)
	if err := h.Auth.LogoutAll(c.Request.Context(), uid); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "all sessions revoked", nil)
}

// SendVerification issues a fresh verification token for the caller and
// queues the email.
func (h *AuthHandler) SendVerification(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserID)
	if _, err := h.Auth.GenerateEmailVerificationToken(c.Request.Context(), uid); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "verification email sent", nil)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Param("token")
	if err := h.Auth.VerifyEmail(c.Request.Context(), token); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"verified": true}, "email verified", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if _, err := h.Auth.GeneratePasswordResetToken(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password reset email sent", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"reset": true}, "password reset successful", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserID)
	u, err := h.Users.Profile(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}
