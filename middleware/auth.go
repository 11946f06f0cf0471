package middleware

import (
	"net/http"
	"strings"

	userRepo "tutorlink/database/repository/user"
	"tutorlink/models"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// FirebaseAuthMiddleware verifies the bearer ID token against Firebase
// and resolves the matching account into a Principal on the context.
// Core operations downstream trust this principal without re-verifying.
func FirebaseAuthMiddleware(authClient *auth.Client, users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := authClient.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := users.GetByUID(c.Request.Context(), token.UID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No account for this identity"})
			return
		}
		if user.Status == models.UserStatusBanned || user.Status == models.UserStatusDeleted {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is not allowed to access the platform"})
			return
		}

		c.Set(principalKey, models.Principal{
			ID:     user.ID,
			Role:   user.Role,
			Status: user.Status,
		})
		c.Next()
	}
}

// GetPrincipal fetches the authenticated principal set by
// FirebaseAuthMiddleware.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	val, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := val.(models.Principal)
	return p, ok
}
