package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/planner-backend/internal/response"
	"github.com/studyflow/planner-backend/internal/service"
)

// CheckActiveSession validates the JWT's JTI against the single active
// session stored in Redis. A newer login on another device displaces the
// old session, so stale tokens are rejected here even before expiry.
func CheckActiveSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authService.ValidateSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
