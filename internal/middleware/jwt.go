package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// bearerToken extracts the credential from an "Authorization: Bearer <token>" header. Anything else
// yields an empty string so the authentication guard rejects the request.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// targetEmail returns the identity the request acts on: the :email path parameter, else the
// email query parameter.
func targetEmail(c *gin.Context) string {
	if email := c.Param("email"); email != "" {
		return email
	}
	return c.Query("email")
}
