package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fashion-studio/apperr"
	"fashion-studio/models"
	"fashion-studio/store"
)

const (
	ContextUser   = "user"
	ContextUserID = "userID"
)

// RequireAuth accepts "Authorization: Bearer <token>" and loads the user.
func RequireAuth(users store.UserStore, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed token"})
			return
		}

		userID, err := ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if apperr.Is(err, apperr.KindNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
			return
		}

		c.Set(ContextUser, *user)
		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// AdminAuth must run after RequireAuth.
func AdminAuth(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok || !user.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}
	c.Next()
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
