package middleware

import (
	"net/http"
	"strings"

	"mobilepay_ledger/pkg"

	"github.com/gin-gonic/gin"
)

// HeaderUserID is set by the upstream auth layer once it has verified the
// caller's bearer credential.
const HeaderUserID = "X-User-ID"

const userIDKey = "user_id"

// RequireUser rejects requests without a user identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			appErr := pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing user identity", http.StatusUnauthorized)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
