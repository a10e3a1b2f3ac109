package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farbari/farbari-api/internal/domain/entity"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	"github.com/farbari/farbari-api/pkg/helpers"
	"github.com/farbari/farbari-api/pkg/response"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)

// Auth validates the bearer access token and loads the account behind it.
// Deactivated accounts are rejected even when their token is still valid.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		payload, err := jwt.VerifyAccess(token)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = "access token expired"
			}
			response.AbortError(c, http.StatusUnauthorized, msg, nil)
			return
		}

		u, err := users.FindByID(c.Request.Context(), payload.UserID)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "account not found", nil)
			return
		}
		if !u.IsActive {
			response.AbortError(c, http.StatusUnauthorized, "account is deactivated", nil)
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUserEmail, u.Email)
		c.Set(CtxUserRole, string(u.Role))
		c.Next()
	}
}

// OptionalAuth attaches the account when a valid bearer token is presented
// but never rejects the request. Used on public routes whose behavior varies
// for logged-in callers.
func OptionalAuth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		payload, err := jwt.VerifyAccess(token)
		if err != nil {
			c.Next()
			return
		}
		u, err := users.FindByID(c.Request.Context(), payload.UserID)
		if err != nil || !u.IsActive {
			c.Next()
			return
		}
		c.Set(CtxUserID, u.ID)
		c.Set(CtxUserEmail, u.Email)
		c.Set(CtxUserRole, string(u.Role))
		c.Next()
	}
}

// Role reads the authenticated role from the Gin context.
func Role(c *gin.Context) entity.Role {
	return entity.Role(c.GetString(CtxUserRole))
}

// RequireRole allows only the listed roles past; it must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		have := Role(c)
		for _, r := range roles {
			if have == r {
				c.Next()
				return
			}
		}
		response.AbortError(c, http.StatusForbidden, "insufficient permissions", nil)
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
