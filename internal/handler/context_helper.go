package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/authz"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/middleware"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/response"
)

// callerFromContext returns the authenticated request evaluated by the route guards, or nil.
func callerFromContext(c *gin.Context) *authz.Request {
	req := middleware.RequestFromContext(c)
	if !req.Authenticated() {
		return nil
	}
	return req
}

// respond writes data with whatever response metadata the request collected.
func respond(c *gin.Context, status int, data interface{}) {
	response.JSON(c, status, data, middleware.ResponseMeta(c))
}

// listedEmail names the owner of a user-scoped listing. The route guards have already matched it
// against the caller; an absent query lists nothing.
func listedEmail(c *gin.Context) string {
	return c.Query("email")
}
