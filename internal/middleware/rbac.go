package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/response"
)

// RequirePermission checks that the JWT carries the given permission.
// Permissions are baked into the token at login, so a role change only
// takes effect after the session is cut and the user signs in again.
func RequirePermission(perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if !model.HasPermission(claims.Permissions, perm) {
			response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
			return
		}

		c.Next()
	}
}

// RequireAnyPermission checks that the JWT carries at least one of the
// given permissions.
func RequireAnyPermission(perms ...model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, perm := range perms {
			if model.HasPermission(claims.Permissions, perm) {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}
