package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

// RequireEmailVerified blocks free-tier users who have not verified their
// email address. Admins and members are provisioned by their tenant admin,
// so only self-registered free users are checked.
func RequireEmailVerified(userRepo port.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != string(domain.RoleFree) {
			c.Next()
			return
		}

		tenantID, err := GetTenantID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing tenant context"},
			})
			return
		}
		userID, err := GetUserID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing user context"},
			})
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), tenantID, userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "user not found"},
			})
			return
		}

		if !user.EmailVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMAIL_NOT_VERIFIED",
					"message": "please verify your email address before creating orders",
				},
			})
			return
		}

		c.Next()
	}
}
