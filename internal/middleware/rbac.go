package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/authz"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/logger"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/response"
)

// ContextRequestKey is the gin context key storing the evaluated authz.Request.
const ContextRequestKey = "authzRequest"

// Guard runs the guard chain before the handler. The authz.Request is shared by every Guard
// middleware on the route, so an identity or role resolved once is reused by later guards.
func Guard(guards ...authz.Guard) gin.HandlerFunc {
	chain := authz.Chain(guards...)
	return func(c *gin.Context) {
		req := RequestFromContext(c)
		if req == nil {
			req = &authz.Request{
				Credential: bearerToken(c),
				Target:     targetEmail(c),
			}
			c.Set(ContextRequestKey, req)
		}

		if err := chain.Check(c.Request.Context(), req); err != nil {
			response.Abort(c, err)
			return
		}
		if req.Authenticated() {
			c.Set(logger.CallerKey, req.Email)
		}
		c.Next()
	}
}

// RequestFromContext returns the authz.Request evaluated for this request, or nil.
func RequestFromContext(c *gin.Context) *authz.Request {
	value, exists := c.Get(ContextRequestKey)
	if !exists {
		return nil
	}
	req, ok := value.(*authz.Request)
	if !ok {
		return nil
	}
	return req
}

// Mismatch reports whether a degrading self-match guard flagged the request.
func Mismatch(c *gin.Context) bool {
	return RequestFromContext(c).Mismatch()
}
