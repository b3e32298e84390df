package middleware

import (
	"context"
	"errors"
	"great_awareness_backend/internal/config"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/util"
	"great_awareness_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserAccessLookup reports the current status and role of a user so tokens of
// deactivated or demoted accounts lose their access before they expire.
type UserAccessLookup interface {
	AccessOf(ctx context.Context, userID uint) (model.UserStatus, model.UserRole, error)
}

func bearerToken(c *gin.Context) string {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	return tokenString
}

func AuthMiddleware(cfg *config.Config, users UserAccessLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("jwt rejected",
				zap.Error(err),
				zap.String("request_id", c.GetString(util.RequestIDKey)),
			)
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if users != nil {
			status, role, err := users.AccessOf(c.Request.Context(), claims.UserID)
			if err != nil && !errors.Is(err, util.ErrNotFound) {
				util.LogInternalError(c, err)
				c.Abort()
				return
			}
			if err != nil || status != model.UserActive {
				util.HandleError(c, util.ErrAccountInactive)
				c.Abort()
				return
			}
			// the stored role wins over the one signed into the token
			claims.Role = role
		}

		c.Set(util.UserContextKey, claims)
		c.Next()
	}
}

// TryAuthMiddleware attaches the caller when a valid token of an active
// account is present and never rejects the request.
func TryAuthMiddleware(cfg *config.Config, users UserAccessLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				if users == nil {
					c.Set(util.UserContextKey, claims)
				} else if status, role, err := users.AccessOf(c.Request.Context(), claims.UserID); err == nil && status == model.UserActive {
					claims.Role = role
					c.Set(util.UserContextKey, claims)
				}
			}
		}
		c.Next()
	}
}

// RoleMiddleware lets admins through regardless of the listed roles.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := user.IsAdmin()
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
