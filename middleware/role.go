package middleware

import (
	"net/http"

	"tutorlink/models"

	"github.com/gin-gonic/gin"
)

// RequireRoles allows the request through only when the authenticated
// principal has one of the given roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, role := range roles {
			if p.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// RequireTeacher restricts an endpoint to active teacher accounts.
func RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if p.Role != models.RoleTeacher {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Teacher account required"})
			return
		}
		if p.Status != models.UserStatusActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is not active"})
			return
		}
		c.Next()
	}
}

// RequirePoster restricts an endpoint to accounts that may post
// tuition requests (students and guardians).
func RequirePoster() gin.HandlerFunc {
	return RequireRoles(models.RoleStudent, models.RoleGuardian)
}
